package services

import (
	"context"
	"fmt"

	"granja/internal/client/state"
	"granja/internal/client/transport"
	"granja/internal/logging"
)

// AuthAPI is the login half of the remote API, satisfied by
// *transport.Client.
type AuthAPI interface {
	Login(ctx context.Context, creds transport.Credentials) (*transport.Session, error)
}

// AuthService exchanges credentials for a bearer session and persists it so
// sync keeps working across restarts.
type AuthService struct {
	api   AuthAPI
	state state.Repository
	log   logging.Logger
}

func NewAuthService(api AuthAPI, repo state.Repository, log logging.Logger) *AuthService {
	return &AuthService{api: api, state: repo, log: log.With("component", "auth")}
}

// Login authenticates and stores the token, user and permissions.
func (s *AuthService) Login(ctx context.Context, email, password string) error {
	session, err := s.api.Login(ctx, transport.Credentials{Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := s.state.Set(ctx, state.KeyToken, []byte(session.Token)); err != nil {
		return err
	}
	if err := s.state.Set(ctx, state.KeyUser, session.User); err != nil {
		return err
	}
	if err := s.state.Set(ctx, state.KeyPermissions, session.Permissions); err != nil {
		return err
	}

	s.log.Info(ctx, "logged in", "email", email)
	return nil
}

// Logout wipes every persisted key: token, user, permissions and the pull
// watermark. The next login starts with a full pull.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.state.Clear(ctx)
}

// LoggedIn reports whether a token is stored. Expiry is checked at sync
// time, not here.
func (s *AuthService) LoggedIn(ctx context.Context) (bool, error) {
	token, err := s.state.Get(ctx, state.KeyToken)
	if err != nil {
		return false, err
	}
	return len(token) > 0, nil
}

// CurrentUser returns the stored user JSON, nil when logged out.
func (s *AuthService) CurrentUser(ctx context.Context) ([]byte, error) {
	return s.state.Get(ctx, state.KeyUser)
}
