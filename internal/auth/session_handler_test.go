package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupSessionRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	verifier := NewSessionVerifier(testSecret, zap.NewNop())
	handler := NewSessionHandler(verifier, zap.NewNop())

	router := gin.New()
	router.GET("/api/auth/session", handler.GetSession)
	return router
}

func doSessionRequest(t *testing.T, router *gin.Engine, configure func(*http.Request)) SessionResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	if configure != nil {
		configure(req)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetSession_NoToken(t *testing.T) {
	router := setupSessionRouter(t)

	resp := doSessionRequest(t, router, nil)
	assert.False(t, resp.Authenticated)
	assert.Nil(t, resp.User)
}

func TestGetSession_ValidCookie(t *testing.T) {
	router := setupSessionRouter(t)
	token := signToken(t, testSecret, sampleClaims(time.Now().Add(time.Hour)))

	resp := doSessionRequest(t, router, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	})

	assert.True(t, resp.Authenticated)
	require.NotNil(t, resp.User)
	assert.Equal(t, "user-123", resp.User.ID)
	assert.Equal(t, "shopper@example.com", resp.User.Email)
	assert.Equal(t, "google", resp.User.Provider)
}

func TestGetSession_ValidBearerHeader(t *testing.T) {
	router := setupSessionRouter(t)
	token := signToken(t, testSecret, sampleClaims(time.Now().Add(time.Hour)))

	resp := doSessionRequest(t, router, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	assert.True(t, resp.Authenticated)
	require.NotNil(t, resp.User)
	assert.Equal(t, "Sam Shopper", resp.User.Name)
}

func TestGetSession_ExpiredTokenIsSignedOut(t *testing.T) {
	router := setupSessionRouter(t)
	token := signToken(t, testSecret, sampleClaims(time.Now().Add(-time.Hour)))

	resp := doSessionRequest(t, router, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	})

	assert.False(t, resp.Authenticated)
	assert.Nil(t, resp.User)
}

func TestGetSession_TamperedToken(t *testing.T) {
	router := setupSessionRouter(t)
	token := signToken(t, "wrong-secret", sampleClaims(time.Now().Add(time.Hour)))

	resp := doSessionRequest(t, router, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	})

	assert.False(t, resp.Authenticated)
}
