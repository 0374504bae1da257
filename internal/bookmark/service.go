package bookmark

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/recruitment/internal"
	"github.com/frahmantamala/recruitment/internal/auth"
	"github.com/frahmantamala/recruitment/internal/core/datamodel"
	bookmarkDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/bookmark"
	coreuser "github.com/frahmantamala/recruitment/internal/core/user"
	"github.com/frahmantamala/recruitment/internal/job"
)

type RepositoryAPI interface {
	Find(ctx context.Context, jobID, userID int64) (*bookmarkDatamodel.SavedJob, error)
	GetByID(ctx context.Context, id int64) (*bookmarkDatamodel.SavedJob, error)
	Create(ctx context.Context, saved *bookmarkDatamodel.SavedJob) error
	Delete(ctx context.Context, id int64) error
	DeleteByJobAndUser(ctx context.Context, jobID, userID int64) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]*bookmarkDatamodel.SavedJob, error)
}

type JobFinder interface {
	FindJob(ctx context.Context, id int64) (*job.Job, error)
}

type Service struct {
	repo   RepositoryAPI
	jobs   JobFinder
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, jobs JobFinder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, jobs: jobs, logger: logger}
}

// Toggle removes the caller's bookmark on a job if present, otherwise saves it.
// Losing a concurrent save race still reports "saved".
func (s *Service) Toggle(ctx context.Context, actor coreuser.Actor, jobID int64) (*ToggleResult, error) {
	if err := auth.RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	existing, err := s.repo.Find(ctx, jobID, actor.ID)
	if err != nil {
		s.logger.Error("Toggle: failed to look up bookmark", "job_id", jobID, "actor_id", actor.ID, "error", err)
		return nil, internal.NewInternalError("Failed to toggle saved job", err)
	}

	if existing != nil {
		if err := s.repo.Delete(ctx, existing.ID); err != nil {
			s.logger.Error("Toggle: failed to remove bookmark", "bookmark_id", existing.ID, "error", err)
			return nil, internal.NewInternalError("Failed to toggle saved job", err)
		}
		s.logger.Info("job unsaved", "job_id", jobID, "actor_id", actor.ID)
		return &ToggleResult{Action: ActionRemoved, JobID: jobID, Saved: false}, nil
	}

	if err := s.create(ctx, actor, jobID); err != nil && !errors.Is(err, internal.ErrBookmarkExists) {
		return nil, err
	}
	return &ToggleResult{Action: ActionSaved, JobID: jobID, Saved: true}, nil
}

// Save bookmarks a job. Saving twice is a Conflict.
func (s *Service) Save(ctx context.Context, actor coreuser.Actor, jobID int64) (*SavedJob, error) {
	if err := auth.RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	existing, err := s.repo.Find(ctx, jobID, actor.ID)
	if err != nil {
		s.logger.Error("Save: failed to look up bookmark", "job_id", jobID, "actor_id", actor.ID, "error", err)
		return nil, internal.NewInternalError("Failed to save job", err)
	}
	if existing != nil {
		return nil, internal.ErrBookmarkExists
	}

	if err := s.create(ctx, actor, jobID); err != nil {
		return nil, err
	}

	m, err := s.repo.Find(ctx, jobID, actor.ID)
	if err != nil || m == nil {
		return nil, internal.NewInternalError("Failed to save job", err)
	}
	return FromDataModel(m), nil
}

// Unsave removes the caller's bookmark on a job. Removing a missing bookmark is not an error.
func (s *Service) Unsave(ctx context.Context, actor coreuser.Actor, jobID int64) error {
	if err := auth.RequireAuthenticated(actor); err != nil {
		return err
	}

	n, err := s.repo.DeleteByJobAndUser(ctx, jobID, actor.ID)
	if err != nil {
		s.logger.Error("Unsave: failed to remove bookmark", "job_id", jobID, "actor_id", actor.ID, "error", err)
		return internal.NewInternalError("Failed to remove saved job", err)
	}
	if n > 0 {
		s.logger.Info("job unsaved", "job_id", jobID, "actor_id", actor.ID)
	}
	return nil
}

// Remove deletes a bookmark by id. Only its owner may remove it.
func (s *Service) Remove(ctx context.Context, actor coreuser.Actor, id int64) error {
	if err := auth.RequireAuthenticated(actor); err != nil {
		return err
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, internal.ErrBookmarkNotFound) {
			return err
		}
		s.logger.Error("Remove: failed to load bookmark", "bookmark_id", id, "error", err)
		return internal.NewInternalError("Failed to remove saved job", err)
	}
	if m.UserID != actor.ID {
		s.logger.Warn("Remove: not the owner", "bookmark_id", id, "actor_id", actor.ID, "owner_id", m.UserID)
		return internal.ErrBookmarkNotOwned
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Remove: failed to delete bookmark", "bookmark_id", id, "error", err)
		return internal.NewInternalError("Failed to remove saved job", err)
	}

	s.logger.Info("bookmark removed", "bookmark_id", id, "actor_id", actor.ID)
	return nil
}

// List returns the caller's bookmarks joined with their jobs, newest first.
func (s *Service) List(ctx context.Context, actor coreuser.Actor) ([]*SavedJob, error) {
	if err := auth.RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	models, err := s.repo.ListByUser(ctx, actor.ID)
	if err != nil {
		s.logger.Error("List: failed to list bookmarks", "actor_id", actor.ID, "error", err)
		return nil, internal.NewInternalError("Failed to list saved jobs", err)
	}

	items := make([]*SavedJob, 0, len(models))
	for _, m := range models {
		items = append(items, FromDataModel(m))
	}
	return items, nil
}

func (s *Service) create(ctx context.Context, actor coreuser.Actor, jobID int64) error {
	j, err := s.jobs.FindJob(ctx, jobID)
	if err != nil {
		return err
	}
	if !j.VisibleTo(actor) {
		return internal.ErrJobNotFound
	}

	err = s.repo.Create(ctx, &bookmarkDatamodel.SavedJob{JobID: jobID, UserID: actor.ID})
	if err != nil {
		if datamodel.IsUniqueViolation(err) {
			return internal.ErrBookmarkExists
		}
		s.logger.Error("failed to save job", "job_id", jobID, "actor_id", actor.ID, "error", err)
		return internal.NewInternalError("Failed to save job", err)
	}

	s.logger.Info("job saved", "job_id", jobID, "actor_id", actor.ID)
	return nil
}
