package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/tb453/shopadmin/internal/domain"
)

// SessionService manages the signed-in user. It is also the identity
// source for backend request headers.
type SessionService struct {
	repo   domain.UserRepository
	store  domain.Store
	logger *slog.Logger

	mu      sync.RWMutex
	current *domain.Session
	read    bool
}

var _ domain.IdentityProvider = (*SessionService)(nil)

// NewSessionService creates a new SessionService
func NewSessionService(repo domain.UserRepository, store domain.Store, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{repo: repo, store: store, logger: logger}
}

// SetRepository wires the backend after construction. The backend client
// needs the session service for identity headers, so one of the two is
// always built first.
func (s *SessionService) SetRepository(repo domain.UserRepository) {
	s.repo = repo
}

// Current returns the signed-in user, reading the store on first use
func (s *SessionService) Current() (domain.Session, bool) {
	s.mu.RLock()
	if s.read {
		defer s.mu.RUnlock()
		if s.current == nil {
			return domain.Session{}, false
		}
		return *s.current, true
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.read {
		s.read = true
		if sess, ok := s.store.GetSession(); ok {
			s.current = &sess
		}
	}
	if s.current == nil {
		return domain.Session{}, false
	}
	return *s.current, true
}

// Identity implements domain.IdentityProvider
func (s *SessionService) Identity() (domain.Session, bool) {
	return s.Current()
}

// Login authenticates against the backend and persists the session
func (s *SessionService) Login(ctx context.Context, email, password string) (domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.Session{}, &domain.ValidationError{Message: "Email and password are required."}
	}

	sess, err := s.repo.Login(ctx, email, password)
	if err != nil {
		s.logger.Warn("login failed", "error", err, "email", email)
		return domain.Session{}, err
	}
	if !sess.Role.Valid() {
		s.logger.Warn("login returned unknown role", "role", sess.Role, "email", email)
		return domain.Session{}, domain.ErrUnauthorized
	}
	if err := s.Replace(*sess); err != nil {
		return domain.Session{}, err
	}
	s.logger.Info("logged in", "email", sess.Email, "role", sess.Role)
	return *sess, nil
}

// Replace stores sess as the signed-in user
func (s *SessionService) Replace(sess domain.Session) error {
	if err := s.store.SaveSession(sess); err != nil {
		s.logger.Error("failed to save session", "error", err)
		return err
	}
	s.mu.Lock()
	s.current = &sess
	s.read = true
	s.mu.Unlock()
	return nil
}

// Logout notifies the backend and clears the local session. The local
// session is cleared even if the backend cannot be reached.
func (s *SessionService) Logout(ctx context.Context) error {
	cur, ok := s.Current()
	if !ok {
		return domain.ErrNoSession
	}

	var backendErr error
	if s.repo != nil {
		if err := s.repo.Logout(ctx, cur.Email); err != nil {
			s.logger.Warn("backend logout failed", "error", err, "email", cur.Email)
			backendErr = err
		}
	}

	if err := s.store.ClearSession(); err != nil {
		s.logger.Error("failed to clear session", "error", err)
		return err
	}
	s.store.InvalidateAll()

	s.mu.Lock()
	s.current = nil
	s.read = true
	s.mu.Unlock()

	s.logger.Info("logged out", "email", cur.Email)
	return backendErr
}
