package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/recruitment/internal"
	"github.com/frahmantamala/recruitment/internal/auth"
	"github.com/frahmantamala/recruitment/internal/core/datamodel"
	applicationDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/application"
	"github.com/frahmantamala/recruitment/internal/core/events"
	coreuser "github.com/frahmantamala/recruitment/internal/core/user"
	"github.com/frahmantamala/recruitment/internal/job"
)

type RepositoryAPI interface {
	Create(ctx context.Context, app *applicationDatamodel.Application) error
	GetByID(ctx context.Context, id int64) (*applicationDatamodel.Application, error)
	Exists(ctx context.Context, jobID, userID int64) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	List(ctx context.Context, filter ListFilter) ([]*applicationDatamodel.Application, error)
}

// JobFinder loads a job regardless of its state.
type JobFinder interface {
	FindJob(ctx context.Context, id int64) (*job.Job, error)
}

type Service struct {
	repo      RepositoryAPI
	jobs      JobFinder
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, jobs JobFinder, publisher events.Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		jobs:      jobs,
		publisher: publisher,
		logger:    logger,
	}
}

// Apply submits the caller's application to an active job. The initial status is always PENDING.
func (s *Service) Apply(ctx context.Context, actor coreuser.Actor, dto ApplyDTO) (*Application, error) {
	if err := auth.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	j, err := s.jobs.FindJob(ctx, dto.JobID)
	if err != nil {
		return nil, err
	}
	if !j.IsActive {
		s.logger.Warn("Apply: job is not active", "job_id", j.ID, "actor_id", actor.ID)
		return nil, internal.ErrJobNotFound
	}

	exists, err := s.repo.Exists(ctx, j.ID, actor.ID)
	if err != nil {
		s.logger.Error("Apply: failed to check existing application", "job_id", j.ID, "actor_id", actor.ID, "error", err)
		return nil, internal.NewInternalError("Failed to submit application", err)
	}
	if exists {
		return nil, internal.ErrDuplicateApplication
	}

	m := ToDataModel(&Application{
		JobID:       j.ID,
		UserID:      actor.ID,
		Status:      StatusPending,
		ResumeURL:   dto.ResumeURL,
		CoverLetter: dto.CoverLetter,
	})
	if err := s.repo.Create(ctx, m); err != nil {
		if datamodel.IsUniqueViolation(err) {
			return nil, internal.ErrDuplicateApplication
		}
		s.logger.Error("Apply: failed to create application", "job_id", j.ID, "actor_id", actor.ID, "error", err)
		return nil, internal.NewInternalError("Failed to submit application", err)
	}

	s.logger.Info("application submitted", "application_id", m.ID, "job_id", j.ID, "actor_id", actor.ID)
	s.publish(ctx, events.NewApplicationCreatedEvent(m.ID, j.ID, j.Title, actor.ID))

	return s.load(ctx, m.ID)
}

// UpdateStatus moves an application to any status in the enumeration. Only ADMIN and HR may do so.
func (s *Service) UpdateStatus(ctx context.Context, actor coreuser.Actor, id int64, status string) (*Application, error) {
	if err := auth.RequireStaff(actor); err != nil {
		s.logger.Warn("UpdateStatus: denied", "actor_id", actor.ID, "role", actor.Role, "application_id", id)
		return nil, err
	}

	next, ok := ParseStatus(status)
	if !ok {
		return nil, internal.ErrInvalidStatus
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, string(next)); err != nil {
		if errors.Is(err, internal.ErrApplicationNotFound) {
			return nil, err
		}
		s.logger.Error("UpdateStatus: failed to update application", "application_id", id, "error", err)
		return nil, internal.NewInternalError("Failed to update application status", err)
	}

	s.logger.Info("application status changed",
		"application_id", id,
		"previous_status", current.Status,
		"status", next,
		"actor_id", actor.ID)

	title := ""
	if current.Job != nil {
		title = current.Job.Title
	}
	s.publish(ctx, events.NewApplicationStatusChangedEvent(id, current.JobID, title, current.UserID, string(current.Status), string(next), actor.ID))

	return s.load(ctx, id)
}

// ListForUser lists one user's applications. USER callers may only list their own.
func (s *Service) ListForUser(ctx context.Context, actor coreuser.Actor, userID int64, q ListQuery) ([]*Application, error) {
	if err := auth.CanActFor(actor, userID); err != nil {
		s.logger.Warn("ListForUser: denied", "actor_id", actor.ID, "user_id", userID)
		return nil, err
	}
	if err := q.Normalize(); err != nil {
		return nil, err
	}
	return s.list(ctx, ListFilter{UserID: &userID, JobID: q.JobID, Status: q.Status})
}

// ListAll lists every application, optionally narrowed by job and status. ADMIN and HR only.
func (s *Service) ListAll(ctx context.Context, actor coreuser.Actor, q ListQuery) ([]*Application, error) {
	if err := auth.RequireStaff(actor); err != nil {
		s.logger.Warn("ListAll: denied", "actor_id", actor.ID, "role", actor.Role)
		return nil, err
	}
	if err := q.Normalize(); err != nil {
		return nil, err
	}
	return s.list(ctx, ListFilter{JobID: q.JobID, Status: q.Status})
}

// List dispatches on role: staff see everything, everyone else their own.
func (s *Service) List(ctx context.Context, actor coreuser.Actor, q ListQuery) ([]*Application, error) {
	if actor.IsStaff() {
		return s.ListAll(ctx, actor, q)
	}
	return s.ListForUser(ctx, actor, actor.ID, q)
}

// ListByJob returns the applicants of a single job.
func (s *Service) ListByJob(ctx context.Context, actor coreuser.Actor, jobID int64) ([]*Application, error) {
	if err := auth.RequireStaff(actor); err != nil {
		s.logger.Warn("ListByJob: denied", "actor_id", actor.ID, "role", actor.Role, "job_id", jobID)
		return nil, err
	}
	if _, err := s.jobs.FindJob(ctx, jobID); err != nil {
		return nil, err
	}
	return s.list(ctx, ListFilter{JobID: &jobID})
}

func (s *Service) GetApplication(ctx context.Context, actor coreuser.Actor, id int64) (*Application, error) {
	if err := auth.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.CanActFor(actor, a.UserID); err != nil {
		s.logger.Warn("GetApplication: denied", "actor_id", actor.ID, "application_id", id)
		return nil, err
	}
	return a, nil
}

func (s *Service) list(ctx context.Context, filter ListFilter) ([]*Application, error) {
	models, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list applications", "error", err)
		return nil, internal.NewInternalError("Failed to list applications", err)
	}

	items := make([]*Application, 0, len(models))
	for _, m := range models {
		items = append(items, FromDataModel(m))
	}
	return items, nil
}

func (s *Service) load(ctx context.Context, id int64) (*Application, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, internal.ErrApplicationNotFound) {
			return nil, err
		}
		s.logger.Error("failed to load application", "application_id", id, "error", err)
		return nil, internal.NewInternalError("Failed to load application", err)
	}
	return FromDataModel(m), nil
}

// publish never fails the mutation that triggered it.
func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish event", "event_type", event.EventType(), "event_id", event.EventID(), "error", err)
	}
}
