package service

import (
	"context"
	"log/slog"
	"sort"

	"github.com/tb453/shopadmin/internal/domain"
)

// ActivityService reads the backend audit trail
type ActivityService struct {
	repo   domain.ActivityRepository
	logger *slog.Logger
}

// NewActivityService creates a new activity service
func NewActivityService(repo domain.ActivityRepository, logger *slog.Logger) *ActivityService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityService{repo: repo, logger: logger}
}

// FetchActivity returns the audit trail, newest first
func (s *ActivityService) FetchActivity(ctx context.Context) ([]domain.ActivityLog, error) {
	logs, err := s.repo.GetActivity(ctx)
	if err != nil {
		s.logger.Error("failed to fetch activity", "error", err)
		return nil, err
	}
	// ISO timestamps sort lexically
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].Date > logs[j].Date })
	s.logger.Debug("fetched activity", "count", len(logs))
	return logs, nil
}
