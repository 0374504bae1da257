package job

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/recruitment/internal"
	"github.com/frahmantamala/recruitment/internal/auth"
	jobDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/job"
	coreuser "github.com/frahmantamala/recruitment/internal/core/user"
)

type RepositoryAPI interface {
	Create(ctx context.Context, job *jobDatamodel.Job) error
	GetByID(ctx context.Context, id int64) (*jobDatamodel.Job, error)
	Update(ctx context.Context, job *jobDatamodel.Job) error
	SetActive(ctx context.Context, id int64, isActive bool, killedAt *time.Time) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ListFilter) ([]*jobDatamodel.Job, int64, error)
	ActiveDepartmentNames(ctx context.Context) ([]string, error)
	ActiveLocations(ctx context.Context) ([]string, error)
}

// DepartmentChecker validates department references on create and edit.
type DepartmentChecker interface {
	Ensure(ctx context.Context, id int64) error
}

type Service struct {
	repo        RepositoryAPI
	departments DepartmentChecker
	logger      *slog.Logger
	now         func() time.Time
}

func NewService(repo RepositoryAPI, departments DepartmentChecker, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		departments: departments,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateJob posts a job owned by the caller. Only ADMIN and HR may post.
func (s *Service) CreateJob(ctx context.Context, actor coreuser.Actor, dto CreateJobDTO) (*Job, error) {
	if err := auth.RequireStaff(actor); err != nil {
		s.logger.Warn("CreateJob: denied", "actor_id", actor.ID, "role", actor.Role)
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureDepartment(ctx, dto.DepartmentID); err != nil {
		return nil, err
	}

	j := &Job{PostedBy: actor.ID, IsActive: true}
	j.apply(dto.JobFieldsDTO)

	m := ToDataModel(j)
	if err := s.repo.Create(ctx, m); err != nil {
		s.logger.Error("CreateJob: failed to create job", "actor_id", actor.ID, "error", err)
		return nil, internal.NewInternalError("Failed to create job", err)
	}

	s.logger.Info("job created", "job_id", m.ID, "actor_id", actor.ID, "employment_type", m.EmploymentType)
	return s.load(ctx, m.ID)
}

// GetJob returns a job. Killed jobs are NotFound for non-staff callers.
func (s *Service) GetJob(ctx context.Context, actor coreuser.Actor, id int64) (*Job, error) {
	j, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !j.VisibleTo(actor) {
		return nil, internal.ErrJobNotFound
	}
	return j, nil
}

// FindJob loads a job regardless of its state.
func (s *Service) FindJob(ctx context.Context, id int64) (*Job, error) {
	return s.load(ctx, id)
}

// UpdateJob applies either a kill/restore action or a full field edit.
func (s *Service) UpdateJob(ctx context.Context, actor coreuser.Actor, id int64, dto UpdateJobDTO) (*Job, error) {
	j, err := s.authorize(ctx, actor, id, "UpdateJob")
	if err != nil {
		return nil, err
	}

	if dto.HasAction() {
		action, ok := ParseAction(dto.Action)
		if !ok {
			return nil, internal.ErrInvalidJobAction
		}
		return s.applyAction(ctx, actor, j, action)
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureDepartment(ctx, dto.DepartmentID); err != nil {
		return nil, err
	}

	j.apply(dto.JobFieldsDTO)
	if err := s.repo.Update(ctx, ToDataModel(j)); err != nil {
		s.logger.Error("UpdateJob: failed to update job", "job_id", id, "error", err)
		return nil, internal.NewInternalError("Failed to update job", err)
	}

	s.logger.Info("job updated", "job_id", id, "actor_id", actor.ID)
	return s.load(ctx, id)
}

func (s *Service) KillJob(ctx context.Context, actor coreuser.Actor, id int64) (*Job, error) {
	return s.UpdateJob(ctx, actor, id, UpdateJobDTO{Action: string(ActionKill)})
}

func (s *Service) RestoreJob(ctx context.Context, actor coreuser.Actor, id int64) (*Job, error) {
	return s.UpdateJob(ctx, actor, id, UpdateJobDTO{Action: string(ActionRestore)})
}

// DeleteJob hard-deletes the job together with its applications and bookmarks.
func (s *Service) DeleteJob(ctx context.Context, actor coreuser.Actor, id int64) error {
	if _, err := s.authorize(ctx, actor, id, "DeleteJob"); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, internal.ErrJobNotFound) {
			return err
		}
		s.logger.Error("DeleteJob: failed to delete job", "job_id", id, "error", err)
		return internal.NewInternalError("Failed to delete job", err)
	}

	s.logger.Info("job deleted", "job_id", id, "actor_id", actor.ID)
	return nil
}

// ListJobs filters and paginates jobs. Anonymous and USER callers only ever see active jobs.
func (s *Service) ListJobs(ctx context.Context, actor coreuser.Actor, q ListJobsQuery) (*ListResult, error) {
	if err := q.Normalize(); err != nil {
		return nil, err
	}

	filter := ListFilter{
		Search:         q.Search,
		Department:     q.Department,
		Location:       q.Location,
		EmploymentType: q.EmploymentType,
		SalaryMin:      q.SalaryMin,
		SalaryMax:      q.SalaryMax,
		IsActive:       visibility(actor, q),
		Offset:         q.Offset(),
		Limit:          q.Limit,
	}

	models, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListJobs: failed to list jobs", "error", err)
		return nil, internal.NewInternalError("Failed to list jobs", err)
	}

	items := make([]*Job, 0, len(models))
	for _, m := range models {
		items = append(items, FromDataModel(m))
	}

	return &ListResult{
		Items:       items,
		TotalCount:  total,
		TotalPages:  int((total + int64(q.Limit) - 1) / int64(q.Limit)),
		CurrentPage: q.Page,
		Limit:       q.Limit,
	}, nil
}

func (s *Service) GetFilterOptions(ctx context.Context) (*FilterOptions, error) {
	departments, err := s.repo.ActiveDepartmentNames(ctx)
	if err != nil {
		s.logger.Error("GetFilterOptions: failed to load departments", "error", err)
		return nil, internal.NewInternalError("Failed to load filter options", err)
	}
	locations, err := s.repo.ActiveLocations(ctx)
	if err != nil {
		s.logger.Error("GetFilterOptions: failed to load locations", "error", err)
		return nil, internal.NewInternalError("Failed to load filter options", err)
	}

	types := make([]EmploymentTypeOption, len(EmploymentTypes))
	for i, t := range EmploymentTypes {
		types[i] = EmploymentTypeOption{Value: t, Label: t.Label()}
	}

	return &FilterOptions{
		Departments:     nonNil(departments),
		Locations:       nonNil(locations),
		EmploymentTypes: types,
	}, nil
}

func (s *Service) applyAction(ctx context.Context, actor coreuser.Actor, j *Job, action Action) (*Job, error) {
	switch action {
	case ActionKill:
		j.Kill(s.now())
	case ActionRestore:
		j.Restore()
	}

	if err := s.repo.SetActive(ctx, j.ID, j.IsActive, j.KilledAt); err != nil {
		s.logger.Error("UpdateJob: failed to change job status", "job_id", j.ID, "action", action, "error", err)
		return nil, internal.NewInternalError("Failed to update job", err)
	}

	s.logger.Info("job status changed", "job_id", j.ID, "action", action, "actor_id", actor.ID)
	return s.load(ctx, j.ID)
}

// authorize runs the role check before touching storage, then the ownership check.
func (s *Service) authorize(ctx context.Context, actor coreuser.Actor, id int64, op string) (*Job, error) {
	if err := auth.RequireStaff(actor); err != nil {
		s.logger.Warn(op+": denied", "actor_id", actor.ID, "role", actor.Role, "job_id", id)
		return nil, err
	}

	j, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := auth.CanManageJob(actor, j.PostedBy); err != nil {
		s.logger.Warn(op+": not the owner", "actor_id", actor.ID, "job_id", id, "posted_by", j.PostedBy)
		return nil, err
	}
	return j, nil
}

func (s *Service) load(ctx context.Context, id int64) (*Job, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, internal.ErrJobNotFound) {
			return nil, err
		}
		s.logger.Error("failed to load job", "job_id", id, "error", err)
		return nil, internal.NewInternalError("Failed to load job", err)
	}
	return FromDataModel(m), nil
}

func (s *Service) ensureDepartment(ctx context.Context, id *int64) error {
	if id == nil || s.departments == nil {
		return nil
	}
	return s.departments.Ensure(ctx, *id)
}

func visibility(actor coreuser.Actor, q ListJobsQuery) *bool {
	active := true
	if !actor.IsStaff() {
		return &active
	}
	if q.IncludeInactive {
		return nil
	}
	if q.IsActive != nil {
		v := *q.IsActive
		return &v
	}
	return &active
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
