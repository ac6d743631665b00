// Package auth owns the locally persisted user registry and the single
// active-session pointer. Login is an identity claim gated only by prior
// registration; there is no password verification anywhere in this store.
// That is demo behavior, not a security model.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sneakershub/storefront/internal/collection"
	"github.com/sneakershub/storefront/internal/fixtures"
	"github.com/sneakershub/storefront/internal/kvstore"
	"github.com/sneakershub/storefront/internal/models"
)

const (
	registryKey = "registered_users"
	sessionKey  = "user"
)

var (
	ErrValidation       = errors.New("validation")
	ErrDuplicateUser    = errors.New("user already registered")
	ErrUnregisteredUser = errors.New("user not registered")
)

type Store struct {
	mu       sync.Mutex
	kv       kvstore.Store
	log      *slog.Logger
	registry []models.User
	session  *models.User
}

func New(kv kvstore.Store, log *slog.Logger) *Store {
	s := &Store{kv: kv, log: log}
	s.registry = collection.Load[models.User](kv, log, registryKey, fixtures.Users, nil)
	s.session = restoreSession(kv, log)
	return s
}

// restoreSession reads the active-session pointer; corrupt content is
// dropped from the store and treated as logged out.
func restoreSession(kv kvstore.Store, log *slog.Logger) *models.User {
	raw, found, err := kv.Get(sessionKey)
	if err != nil {
		log.Error("persist_read_failed", "key", sessionKey, "error", err)
		return nil
	}
	if !found {
		return nil
	}
	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		log.Error("persist_corrupt", "key", sessionKey, "error", err)
		if derr := kv.Delete(sessionKey); derr != nil {
			log.Error("persist_write_failed", "key", sessionKey, "error", derr)
		}
		return nil
	}
	return &u
}

// Signup inserts the user into the registry and makes it the active
// session, not yet logged in. The registry is left unchanged when the email
// is already present.
func (s *Store) Signup(ctx context.Context, u models.User) (models.User, error) {
	if u.Email == "" {
		return models.User{}, fmt.Errorf("email is required: %w", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.registry {
		if r.Email == u.Email {
			return models.User{}, fmt.Errorf("%s: %w", u.Email, ErrDuplicateUser)
		}
	}

	u.SignupTime = time.Now().UTC().Format(time.RFC3339)
	u.IsLoggedIn = false
	u.LoginTime = ""

	s.registry = append(s.registry, u)
	collection.Save(s.kv, s.log, registryKey, s.registry)
	s.setSessionLocked(&u)
	return u, nil
}

// Login marks the session active for a previously registered email. The
// active session is left unchanged when the email is absent.
func (s *Store) Login(ctx context.Context, u models.User) (models.User, error) {
	if u.Email == "" {
		return models.User{}, fmt.Errorf("email is required: %w", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	registered := false
	for _, r := range s.registry {
		if r.Email == u.Email {
			registered = true
			break
		}
	}
	if !registered {
		return models.User{}, fmt.Errorf("%s: %w", u.Email, ErrUnregisteredUser)
	}

	u.IsLoggedIn = true
	u.LoginTime = time.Now().UTC().Format(time.RFC3339)
	s.setSessionLocked(&u)
	return u, nil
}

// Logout clears the active-session pointer only; the registry entry stays.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	if err := s.kv.Delete(sessionKey); err != nil {
		s.log.Error("persist_write_failed", "key", sessionKey, "error", err)
	}
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session != nil && s.session.IsLoggedIn
}

// Current returns the active session, if any.
func (s *Store) Current() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return models.User{}, false
	}
	return *s.session, true
}

// Registered returns the full user registry, admin use only.
func (s *Store) Registered() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, len(s.registry))
	copy(out, s.registry)
	return out
}

func (s *Store) setSessionLocked(u *models.User) {
	s.session = u
	data, err := json.Marshal(u)
	if err != nil {
		s.log.Error("persist_marshal_failed", "key", sessionKey, "error", err)
		return
	}
	if err := s.kv.Set(sessionKey, string(data)); err != nil {
		s.log.Error("persist_write_failed", "key", sessionKey, "error", err)
	}
}
