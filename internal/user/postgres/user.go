package postgres

import (
	"context"
	"errors"

	userDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/user"
	"github.com/frahmantamala/recruitment/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where("id = ?", id).Updates(fields).Error
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where("id = ?", id).Update("password_hash", passwordHash).Error
}

func (r *UserRepository) ListActiveByRoles(ctx context.Context, roles []string) ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	err := r.db.WithContext(ctx).
		Where("role IN ? AND is_active = ?", roles, true).
		Order("id ASC").
		Find(&users).Error
	return users, err
}
