package dashboard

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/recruitment/internal"
	"github.com/frahmantamala/recruitment/internal/auth"
	coreuser "github.com/frahmantamala/recruitment/internal/core/user"
)

type RepositoryAPI interface {
	StaffCounts(ctx context.Context) (*StaffStats, error)
	ActiveJobCount(ctx context.Context) (int64, error)
	ApplicationCount(ctx context.Context, userID int64) (int64, error)
	SavedJobCount(ctx context.Context, userID int64) (int64, error)
	// RecentApplications lists the newest applications; a nil userID means everyone's.
	RecentApplications(ctx context.Context, userID *int64, limit int) ([]RecentApplication, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

func (s *Service) GetDashboard(ctx context.Context, actor coreuser.Actor) (*Dashboard, error) {
	if err := auth.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	if actor.IsStaff() {
		stats, err := s.staff(ctx)
		if err != nil {
			return nil, err
		}
		return &Dashboard{Role: actor.Role, Staff: stats}, nil
	}

	stats, err := s.user(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Role: actor.Role, User: stats}, nil
}

func (s *Service) staff(ctx context.Context) (*StaffStats, error) {
	stats, err := s.repo.StaffCounts(ctx)
	if err != nil {
		s.logger.Error("GetDashboard: failed to count jobs and applications", "error", err)
		return nil, internal.NewInternalError("Failed to load dashboard", err)
	}

	recent, err := s.repo.RecentApplications(ctx, nil, recentLimit)
	if err != nil {
		s.logger.Error("GetDashboard: failed to load recent applications", "error", err)
		return nil, internal.NewInternalError("Failed to load dashboard", err)
	}
	stats.RecentApplications = nonNil(recent)
	return stats, nil
}

func (s *Service) user(ctx context.Context, userID int64) (*UserStats, error) {
	var (
		stats UserStats
		err   error
	)
	fail := func(what string, err error) error {
		s.logger.Error("GetDashboard: failed to load "+what, "user_id", userID, "error", err)
		return internal.NewInternalError("Failed to load dashboard", err)
	}

	if stats.ActiveJobCount, err = s.repo.ActiveJobCount(ctx); err != nil {
		return nil, fail("active jobs", err)
	}
	if stats.TotalApplications, err = s.repo.ApplicationCount(ctx, userID); err != nil {
		return nil, fail("applications", err)
	}
	if stats.SavedJobCount, err = s.repo.SavedJobCount(ctx, userID); err != nil {
		return nil, fail("saved jobs", err)
	}
	recent, err := s.repo.RecentApplications(ctx, &userID, recentLimit)
	if err != nil {
		return nil, fail("recent applications", err)
	}
	stats.RecentApplications = nonNil(recent)
	return &stats, nil
}

func nonNil(items []RecentApplication) []RecentApplication {
	if items == nil {
		return []RecentApplication{}
	}
	return items
}
