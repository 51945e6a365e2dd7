package session

import (
	"context"
	"sync"

	"storefront-client/internal/credentials"
	"storefront-client/internal/httpapi"
	"storefront-client/internal/logger"
	"storefront-client/internal/status"

	"go.uber.org/zap"
)

// Store holds the current authenticated identity. Populated by login and
// registration, cleared by logout, rehydrated from persistent storage on
// startup.
type Store struct {
	mu     sync.Mutex
	api    *httpapi.Client // anonymous: login, register
	authed *httpapi.Client // credentialed: forgot/reset password
	creds  *credentials.Store
	user   credentials.Identity
	token  string
	state  status.Status
}

func NewStore(api, authed *httpapi.Client, creds *credentials.Store) *Store {
	return &Store{api: api, authed: authed, creds: creds, state: status.Loading}
}

type RegisterInput struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type ResetPasswordInput struct {
	Email           string `json:"email" validate:"required,email"`
	OTP             string `json:"otp" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type authPayload struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

// Login authenticates against the backend and persists the returned
// credential so later sessions can rehydrate.
func (s *Store) Login(ctx context.Context, email, password string) error {
	log := logger.FromCtx(ctx).With(zap.String("email", email))

	if email == "" || password == "" {
		return s.fail(log, "login rejected", ErrMissingCredentials)
	}

	var payload authPayload
	_, err := s.api.Post(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &payload)
	if err != nil {
		return s.fail(log, "login failed", err)
	}

	if payload.Token == "" {
		return s.fail(log, "login response missing token", ErrNoToken)
	}

	identity := credentials.Identity{ID: payload.ID, Username: payload.Username, Email: payload.Email}
	if err := s.creds.Save(credentials.Credentials{Token: payload.Token, User: identity}); err != nil {
		return s.fail(log, "failed to persist credentials", err)
	}

	s.mu.Lock()
	s.user = identity
	s.token = payload.Token
	s.state = status.Success
	s.mu.Unlock()

	log.Info("login completed", zap.String("user_id", identity.ID))
	return nil
}

func (s *Store) Register(ctx context.Context, input RegisterInput) error {
	log := logger.FromCtx(ctx).With(zap.String("email", input.Email))

	if input.Username == "" || input.Email == "" || input.Password == "" {
		return s.fail(log, "register rejected", ErrMissingCredentials)
	}

	if _, err := s.api.Post(ctx, "/auth/register", input, nil); err != nil {
		return s.fail(log, "register failed", err)
	}

	s.setStatus(status.Success)
	log.Info("register completed")
	return nil
}

func (s *Store) ForgotPassword(ctx context.Context, email string) error {
	log := logger.FromCtx(ctx).With(zap.String("email", email))

	if email == "" {
		return s.fail(log, "forgot-password rejected", ErrMissingCredentials)
	}

	if _, err := s.authed.Post(ctx, "/auth/forgot-password", map[string]string{"email": email}, nil); err != nil {
		return s.fail(log, "forgot-password failed", err)
	}

	s.setStatus(status.Success)
	return nil
}

func (s *Store) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	log := logger.FromCtx(ctx).With(zap.String("email", input.Email))

	if input.NewPassword != input.ConfirmPassword {
		return s.fail(log, "reset-password rejected", ErrPasswordMismatch)
	}

	if _, err := s.authed.Post(ctx, "/auth/reset-password", input, nil); err != nil {
		return s.fail(log, "reset-password failed", err)
	}

	s.setStatus(status.Success)
	return nil
}

// LoadFromStorage rehydrates the session from the credential file. An
// absent or expired credential leaves the store empty without error.
func (s *Store) LoadFromStorage() error {
	creds, err := s.creds.Load()
	if err != nil {
		s.setStatus(status.Error)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if creds == nil {
		s.user = credentials.Identity{}
		s.token = ""
		s.state = status.Loading
		return nil
	}
	s.user = creds.User
	s.token = creds.Token
	s.state = status.Success
	return nil
}

// Logout clears both the in-memory identity and the persisted credential.
func (s *Store) Logout() error {
	s.mu.Lock()
	s.user = credentials.Identity{}
	s.token = ""
	s.state = status.Loading
	s.mu.Unlock()

	return s.creds.Clear()
}

// CurrentUser returns the identity and whether a session is active.
func (s *Store) CurrentUser() (credentials.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.token != ""
}

func (s *Store) Status() status.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) setStatus(v status.Status) {
	s.mu.Lock()
	s.state = v
	s.mu.Unlock()
}

func (s *Store) fail(log *zap.Logger, msg string, err error) error {
	log.Warn(msg, zap.Error(err))
	s.setStatus(status.Error)
	return err
}
