package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-session-secret"

func signToken(t *testing.T, secret string, claims SessionClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func sampleClaims(expiry time.Time) SessionClaims {
	return SessionClaims{
		Email:     "shopper@example.com",
		Name:      "Sam Shopper",
		FirstName: "Sam",
		LastName:  "Shopper",
		Picture:   "https://cdn.example.com/avatar.png",
		Provider:  "google",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestVerify_ValidToken(t *testing.T) {
	verifier := NewSessionVerifier(testSecret, zap.NewNop())
	tokenString := signToken(t, testSecret, sampleClaims(time.Now().Add(time.Hour)))

	claims, err := verifier.Verify(tokenString)
	require.NoError(t, err)

	profile := claims.Profile()
	assert.Equal(t, "user-123", profile.ID)
	assert.Equal(t, "shopper@example.com", profile.Email)
	assert.Equal(t, "Sam", profile.FirstName)
	assert.Equal(t, "google", profile.Provider)
}

func TestVerify_ExpiredToken(t *testing.T) {
	verifier := NewSessionVerifier(testSecret, zap.NewNop())
	tokenString := signToken(t, testSecret, sampleClaims(time.Now().Add(-time.Hour)))

	_, err := verifier.Verify(tokenString)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	verifier := NewSessionVerifier(testSecret, zap.NewNop())
	tokenString := signToken(t, "some-other-secret", sampleClaims(time.Now().Add(time.Hour)))

	_, err := verifier.Verify(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	verifier := NewSessionVerifier(testSecret, zap.NewNop())

	_, err := verifier.Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
