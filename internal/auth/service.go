package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/modestry/userkeeper/internal/config"
	"github.com/modestry/userkeeper/internal/phonex"
	"github.com/modestry/userkeeper/internal/registry"
)

// Session is the result of a successful authentication: the account's info
// snapshot plus a signed access token carrying its login.
type Session struct {
	Info        string
	AccessToken string
}

// Service authenticates logins against the registry and mints session
// tokens for successful ones.
type Service struct {
	registry                    *registry.Registry
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewService constructs a Service bound to the given registry and config.
func NewService(reg *registry.Registry, cfg *config.Config) *Service {
	return &Service{
		registry:                    reg,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Authenticate verifies the login/password pair. Authentication failures
// propagate unchanged from the registry (common.ErrUnauthorized); token
// signing failures surface as wrapped internal errors.
func (s *Service) Authenticate(ctx context.Context, login, password string) (*Session, error) {
	info, err := s.registry.LoginUser(ctx, login, password)
	if err != nil {
		return nil, err
	}

	// Tokens always carry the canonical login, not the raw identifier.
	token, err := GenerateToken(phonex.SimplifyLogin(login), s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}

	return &Session{Info: info, AccessToken: token}, nil
}
