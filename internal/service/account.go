package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/tb453/shopadmin/internal/domain"
)

// AccountService manages user accounts from the settings view
type AccountService struct {
	repo     domain.UserRepository
	sessions *SessionService
	logger   *slog.Logger
}

// NewAccountService creates a new account service. sessions is updated
// when the signed-in user edits their own profile.
func NewAccountService(repo domain.UserRepository, sessions *SessionService, logger *slog.Logger) *AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{repo: repo, sessions: sessions, logger: logger}
}

// ListUsers returns every account
func (s *AccountService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.GetUsers(ctx)
	if err != nil {
		s.logger.Error("failed to fetch users", "error", err)
		return nil, err
	}
	s.logger.Debug("fetched users", "count", len(users))
	return users, nil
}

// RegisterUser validates and creates an account
func (s *AccountService) RegisterUser(ctx context.Context, in domain.UserInput) (string, error) {
	in, err := in.Validate(true)
	if err != nil {
		return "", err
	}
	msg, err := s.repo.RegisterUser(ctx, in)
	if err != nil {
		s.logger.Error("failed to register user", "error", err, "email", in.Email)
		return "", err
	}
	s.logger.Info("user registered", "email", in.Email, "role", in.Role)
	if msg == "" {
		msg = "Account created"
	}
	return msg, nil
}

// UpdateUser validates and edits account id. An empty password keeps
// the current one.
func (s *AccountService) UpdateUser(ctx context.Context, id string, in domain.UserInput) (string, error) {
	in, err := in.Validate(false)
	if err != nil {
		return "", err
	}
	msg, err := s.repo.UpdateUser(ctx, id, in)
	if err != nil {
		s.logger.Error("failed to update user", "error", err, "userID", id)
		return "", err
	}
	s.logger.Info("user updated", "userID", id)
	if msg == "" {
		msg = "Account updated"
	}
	return msg, nil
}

// DeleteUser removes account id. Removing the signed-in account is refused.
func (s *AccountService) DeleteUser(ctx context.Context, id string) (string, error) {
	if s.sessions != nil {
		if cur, ok := s.sessions.Current(); ok && cur.ID == id {
			return "", &domain.ValidationError{Message: "You cannot delete the account you are signed in with."}
		}
	}
	msg, err := s.repo.DeleteUser(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete user", "error", err, "userID", id)
		return "", err
	}
	s.logger.Info("user deleted", "userID", id)
	if msg == "" {
		msg = "Account deleted"
	}
	return msg, nil
}

// UpdateProfile changes the signed-in user's name and optionally password,
// then updates the stored session so the sidebar shows the new name.
func (s *AccountService) UpdateProfile(ctx context.Context, name, password string) (string, error) {
	if s.sessions == nil {
		return "", domain.ErrNoSession
	}
	cur, ok := s.sessions.Current()
	if !ok {
		return "", domain.ErrNoSession
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &domain.ValidationError{Field: "name", Message: "Name cannot be empty."}
	}

	msg, err := s.repo.UpdateProfile(ctx, cur.Email, name, strings.TrimSpace(password))
	if err != nil {
		s.logger.Error("failed to update profile", "error", err, "email", cur.Email)
		return "", err
	}
	cur.Name = name
	if err := s.sessions.Replace(cur); err != nil {
		s.logger.Warn("failed to save session after profile update", "error", err)
	}
	if msg == "" {
		msg = "Profile updated"
	}
	return msg, nil
}

// SearchUsers ranks users whose name or email fuzzily contains query.
// An empty query returns users unchanged.
func SearchUsers(users []domain.User, query string) []domain.User {
	query = strings.TrimSpace(query)
	if query == "" {
		return users
	}

	targets := make([]string, len(users))
	for i, u := range users {
		targets[i] = u.Name + " " + u.Email
	}
	ranks := fuzzy.RankFindFold(query, targets)
	sort.Stable(ranks)

	out := make([]domain.User, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, users[r.OriginalIndex])
	}
	return out
}
