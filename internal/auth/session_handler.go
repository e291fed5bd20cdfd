package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionCookieName = "session"

// SessionHandler exposes the current identity-provider session to the
// storefront frontend.
type SessionHandler struct {
	verifier *SessionVerifier
	logger   *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(verifier *SessionVerifier, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		verifier: verifier,
		logger:   logger,
	}
}

// SessionResponse represents the session lookup response
type SessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *UserProfile `json:"user,omitempty"`
}

// GetSession handles GET /api/auth/session.
//
// An absent or invalid token is not an error from the storefront's point
// of view: the shopper is simply browsing signed out, so the response is
// 200 with authenticated=false.
func (h *SessionHandler) GetSession(c *gin.Context) {
	tokenString := extractToken(c)
	if tokenString == "" {
		c.JSON(http.StatusOK, SessionResponse{Authenticated: false})
		return
	}

	claims, err := h.verifier.Verify(tokenString)
	if err != nil {
		h.logger.Debug("Session verification failed", zap.Error(err))
		c.JSON(http.StatusOK, SessionResponse{Authenticated: false})
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		Authenticated: true,
		User:          claims.Profile(),
	})
}

// extractToken pulls the session token from the session cookie or, failing
// that, a Bearer Authorization header.
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(sessionCookieName); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
