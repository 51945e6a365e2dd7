package credentials

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the cached user record persisted alongside the token.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type Credentials struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}

// Store persists the credential across sessions. It is written only by
// login/logout flows and read by the gateway on every request.
type Store struct {
	mu    sync.Mutex
	path  string
	creds *Credentials
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save writes the credentials to disk and keeps them in memory for Token.
func (s *Store) Save(c Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return err
	}
	s.creds = &c
	return nil
}

// Load rehydrates the credentials from disk. A missing file or an expired
// token yields (nil, nil); the expired file is removed so the next startup
// does not retry it.
func (s *Store) Load() (*Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var c Credentials
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}

	if c.Token == "" || tokenExpired(c.Token) {
		_ = os.Remove(s.path)
		s.creds = nil
		return nil, nil
	}

	s.creds = &c
	return &c, nil
}

// Clear removes the persisted credentials. Called on logout.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = nil
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Token implements httpapi.TokenSource.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.creds == nil {
		return ""
	}
	return s.creds.Token
}

// tokenExpired inspects the exp claim without verifying the signature;
// the client never holds the signing secret. A token that cannot be
// parsed or carries no exp claim is kept and left for the server to
// reject.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
