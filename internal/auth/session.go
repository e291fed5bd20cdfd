package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// SessionClaims are the claims the external identity provider puts in the
// session tokens it mints. Sign-in itself happens entirely on the
// provider's side; this service only verifies and reads.
type SessionClaims struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Picture   string `json:"picture"`
	Provider  string `json:"provider"`
	jwt.RegisteredClaims
}

// UserProfile is the profile shape the storefront consumes.
type UserProfile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Picture   string `json:"picture"`
	Provider  string `json:"provider"`
}

// SessionVerifier validates identity-provider session tokens (HS256,
// shared secret).
type SessionVerifier struct {
	secretKey []byte
	logger    *zap.Logger
}

// NewSessionVerifier creates a new session verifier
func NewSessionVerifier(secretKey string, logger *zap.Logger) *SessionVerifier {
	return &SessionVerifier{
		secretKey: []byte(secretKey),
		logger:    logger,
	}
}

// Verify validates a session token and returns its claims.
func (v *SessionVerifier) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			v.logger.Debug("Session token expired", zap.Error(err))
			return nil, ErrExpiredToken
		}
		v.logger.Debug("Invalid session token", zap.Error(err))
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		v.logger.Debug("Invalid session token claims")
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Profile converts verified claims into the storefront profile shape.
func (c *SessionClaims) Profile() *UserProfile {
	return &UserProfile{
		ID:        c.Subject,
		Email:     c.Email,
		Name:      c.Name,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Picture:   c.Picture,
		Provider:  c.Provider,
	}
}
