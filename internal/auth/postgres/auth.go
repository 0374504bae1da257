package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/recruitment/internal"
	"github.com/frahmantamala/recruitment/internal/auth"
	"github.com/frahmantamala/recruitment/internal/core/datamodel/user"
	coreuser "github.com/frahmantamala/recruitment/internal/core/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) auth.RepositoryAPI {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetByUsername(ctx context.Context, username string) (*coreuser.User, error) {
	var m user.User
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}

	return &coreuser.User{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Role:         coreuser.Role(m.Role),
		FullName:     m.FullName,
		Email:        m.Email,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}
