package auth

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/roomrelay/internal/utils"
)

// ErrInvalidSession is returned when a session token cannot be verified.
var ErrInvalidSession = errors.New("invalid session")

// Service issues and verifies session tokens. A session token lets a
// reconnecting client keep its sender identity, and with it the right to
// delete its own messages.
type Service struct {
	jwtConfig *JWTConfig
}

// NewService creates a new session service.
func NewService(jwtConfig *JWTConfig) *Service {
	return &Service{jwtConfig: jwtConfig}
}

// NewSession allocates a fresh identity and its token.
func (s *Service) NewSession() (identity, token string, err error) {
	identity = utils.NewID()
	token, err = s.Issue(identity)
	if err != nil {
		return "", "", err
	}
	return identity, token, nil
}

// Issue signs a token for an existing identity.
func (s *Service) Issue(identity string) (string, error) {
	token, err := GenerateToken(s.jwtConfig, identity)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}

// Resume verifies token and returns the identity it was issued for.
func (s *Service) Resume(token string) (string, error) {
	claims, err := ValidateToken(s.jwtConfig, token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	return claims.Subject, nil
}
