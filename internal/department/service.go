package department

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/recruitment/internal"
	"github.com/frahmantamala/recruitment/internal/auth"
	"github.com/frahmantamala/recruitment/internal/core/datamodel"
	departmentDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/department"
	coreuser "github.com/frahmantamala/recruitment/internal/core/user"
)

type RepositoryAPI interface {
	ListActive(ctx context.Context) ([]*departmentDatamodel.Department, error)
	GetByID(ctx context.Context, id int64) (*departmentDatamodel.Department, error)
	GetByName(ctx context.Context, name string) (*departmentDatamodel.Department, error)
	Create(ctx context.Context, d *departmentDatamodel.Department) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetDepartments(ctx context.Context) ([]DepartmentResponse, error) {
	models, err := s.repo.ListActive(ctx)
	if err != nil {
		s.logger.Error("failed to get departments from repository", "error", err)
		return nil, internal.NewInternalError("Failed to list departments", err)
	}

	responses := make([]DepartmentResponse, 0, len(models))
	for _, m := range models {
		responses = append(responses, FromDataModel(m).ToResponse())
	}
	return responses, nil
}

func (s *Service) Create(ctx context.Context, actor coreuser.Actor, dto CreateDepartmentDTO) (*Department, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		s.logger.Warn("CreateDepartment: denied", "actor_id", actor.ID, "role", actor.Role)
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByName(ctx, dto.Name)
	if err != nil {
		s.logger.Error("CreateDepartment: lookup failed", "name", dto.Name, "error", err)
		return nil, internal.NewInternalError("Failed to create department", err)
	}
	if existing != nil {
		return nil, internal.ErrDepartmentExists
	}

	m := ToDataModel(NewDepartment(dto.Name, dto.Description))
	if err := s.repo.Create(ctx, m); err != nil {
		if datamodel.IsUniqueViolation(err) {
			return nil, internal.ErrDepartmentExists
		}
		s.logger.Error("CreateDepartment: insert failed", "name", dto.Name, "error", err)
		return nil, internal.NewInternalError("Failed to create department", err)
	}

	s.logger.Info("department created", "department_id", m.ID, "name", m.Name, "actor_id", actor.ID)
	return FromDataModel(m), nil
}

// Ensure returns ErrDepartmentNotFound unless id names an active department.
func (s *Service) Ensure(ctx context.Context, id int64) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("EnsureDepartment: lookup failed", "department_id", id, "error", err)
		return internal.NewInternalError("Failed to load department", err)
	}
	if m == nil || !m.IsActive {
		return internal.ErrDepartmentNotFound
	}
	return nil
}
