package user

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/recruitment/internal"
	"github.com/frahmantamala/recruitment/internal/auth"
	"github.com/frahmantamala/recruitment/internal/core/datamodel"
	userDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/user"
	coreuser "github.com/frahmantamala/recruitment/internal/core/user"
)

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, u *userDatamodel.User) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	ListActiveByRoles(ctx context.Context, roles []string) ([]*userDatamodel.User, error)
}

type Service struct {
	repo       RepositoryAPI
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, bcryptCost int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) GetProfile(ctx context.Context, id int64) (*User, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("GetProfile: failed to load user", "user_id", id, "error", err)
		return nil, internal.NewInternalError("Failed to load user", err)
	}
	if m == nil {
		return nil, internal.ErrUserNotFound
	}
	return FromDataModel(m), nil
}

// Register creates an account. Only ADMIN may register users.
func (s *Service) Register(ctx context.Context, actor coreuser.Actor, dto RegisterUserDTO) (*User, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		s.logger.Warn("Register: denied", "actor_id", actor.ID, "role", actor.Role)
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByUsername(ctx, dto.Username)
	if err != nil {
		s.logger.Error("Register: failed to check username", "username", dto.Username, "error", err)
		return nil, internal.NewInternalError("Failed to register user", err)
	}
	if exists {
		return nil, internal.ErrUsernameTaken
	}

	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("Failed to register user", err)
	}

	role, _ := coreuser.ParseRole(dto.Role)
	u := &User{
		Username:     dto.Username,
		PasswordHash: hash,
		Role:         role,
		FullName:     trimmed(dto.FullName),
		Email:        trimmed(dto.Email),
		Phone:        trimmed(dto.Phone),
		Position:     trimmed(dto.Position),
		Bio:          trimmed(dto.Bio),
		IsActive:     true,
	}

	m := ToDataModel(u)
	if err := s.repo.Create(ctx, m); err != nil {
		if datamodel.IsUniqueViolation(err) {
			return nil, internal.ErrUsernameTaken
		}
		s.logger.Error("Register: failed to create user", "username", dto.Username, "error", err)
		return nil, internal.NewInternalError("Failed to register user", err)
	}

	s.logger.Info("user registered", "user_id", m.ID, "role", m.Role, "actor_id", actor.ID)
	return FromDataModel(m), nil
}

// UpdateUser edits a profile or changes a password. Callers may only modify themselves unless ADMIN.
func (s *Service) UpdateUser(ctx context.Context, actor coreuser.Actor, id int64, dto UpdateUserDTO) (*User, error) {
	if !actor.IsAuthenticated() {
		return nil, internal.ErrUnauthenticated
	}
	if actor.ID != id && !actor.IsAdmin() {
		s.logger.Warn("UpdateUser: denied", "actor_id", actor.ID, "user_id", id)
		return nil, internal.ErrProfileAccessDenied
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	current, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.IsPasswordChange() {
		if !auth.CheckPassword(current.PasswordHash, *dto.CurrentPassword) {
			return nil, internal.ErrPasswordMismatch
		}
		hash, err := auth.HashPassword(*dto.NewPassword, s.bcryptCost)
		if err != nil {
			return nil, internal.NewInternalError("Failed to update password", err)
		}
		if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
			s.logger.Error("UpdateUser: failed to update password", "user_id", id, "error", err)
			return nil, internal.NewInternalError("Failed to update password", err)
		}
		s.logger.Info("password changed", "user_id", id, "actor_id", actor.ID)
		return s.GetProfile(ctx, id)
	}

	fields := dto.Fields()
	if len(fields) == 0 {
		return current, nil
	}
	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		s.logger.Error("UpdateUser: failed to update profile", "user_id", id, "error", err)
		return nil, internal.NewInternalError("Failed to update user", err)
	}
	return s.GetProfile(ctx, id)
}

// Contact resolves a single user's notification address.
func (s *Service) Contact(ctx context.Context, id int64) (Contact, bool, error) {
	u, err := s.GetProfile(ctx, id)
	if err != nil {
		return Contact{}, false, err
	}
	c, ok := u.Contact()
	return c, ok, nil
}

// StaffContacts lists active ADMIN and HR users that have an email on file.
func (s *Service) StaffContacts(ctx context.Context) ([]Contact, error) {
	models, err := s.repo.ListActiveByRoles(ctx, []string{string(coreuser.RoleAdmin), string(coreuser.RoleHR)})
	if err != nil {
		s.logger.Error("StaffContacts: failed to list staff", "error", err)
		return nil, internal.NewInternalError("Failed to list staff", err)
	}

	contacts := make([]Contact, 0, len(models))
	for _, m := range models {
		if c, ok := FromDataModel(m).Contact(); ok {
			contacts = append(contacts, c)
		}
	}
	return contacts, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
