package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fjod/go_storefront/internal/backend"
	"github.com/fjod/go_storefront/internal/domain"
)

var ErrNotLoggedIn = errors.New("no authenticated user")

// Backend is the slice of the REST client the session needs.
type Backend interface {
	Login(ctx context.Context, creds backend.Credentials) (domain.User, error)
	Register(ctx context.Context, reg backend.Registration) (domain.User, error)
	Logout(ctx context.Context) error
	AuthStatus(ctx context.Context) (domain.User, bool, error)
	UpdateProfile(ctx context.Context, update backend.ProfileUpdate) (domain.User, error)
}

// Session replaces the currentUser global of the original UI: one instance
// per storefront session, holding the last known authenticated user. The
// session cookie itself lives in the backend client's jar and stays opaque.
type Session struct {
	mu      sync.RWMutex
	backend Backend
	user    *domain.User
}

func NewSession(b Backend) *Session {
	return &Session{backend: b}
}

// Current returns the cached user, if any. It never touches the network;
// use Refresh to revalidate against the backend.
func (s *Session) Current() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

func (s *Session) IsAdmin() bool {
	user, ok := s.Current()
	return ok && user.IsAdmin()
}

func (s *Session) Login(ctx context.Context, creds backend.Credentials) (domain.User, error) {
	user, err := s.backend.Login(ctx, creds)
	if err != nil {
		return domain.User{}, err
	}
	s.set(user)
	return user, nil
}

func (s *Session) Register(ctx context.Context, reg backend.Registration) (domain.User, error) {
	user, err := s.backend.Register(ctx, reg)
	if err != nil {
		return domain.User{}, err
	}
	s.set(user)
	return user, nil
}

func (s *Session) Logout(ctx context.Context) error {
	if err := s.backend.Logout(ctx); err != nil {
		return err
	}
	s.Reset()
	return nil
}

// Refresh revalidates the session cookie and updates the cached user.
// A stale cookie clears the cache without error; the caller decides
// whether to prompt for login.
func (s *Session) Refresh(ctx context.Context) (bool, error) {
	user, loggedIn, err := s.backend.AuthStatus(ctx)
	if err != nil {
		return false, fmt.Errorf("refresh session: %w", err)
	}
	if !loggedIn {
		s.Reset()
		return false, nil
	}
	s.set(user)
	return true, nil
}

func (s *Session) UpdateProfile(ctx context.Context, update backend.ProfileUpdate) (domain.User, error) {
	if _, ok := s.Current(); !ok {
		return domain.User{}, ErrNotLoggedIn
	}
	user, err := s.backend.UpdateProfile(ctx, update)
	if err != nil {
		return domain.User{}, err
	}
	s.set(user)
	return user, nil
}

// Reset drops the cached user, e.g. after the backend answered 401.
func (s *Session) Reset() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}

func (s *Session) set(user domain.User) {
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
}
