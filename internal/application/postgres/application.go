package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/recruitment/internal"
	"github.com/frahmantamala/recruitment/internal/application"
	applicationDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/application"
	"gorm.io/gorm"
)

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) application.RepositoryAPI {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, app *applicationDatamodel.Application) error {
	return r.db.WithContext(ctx).Omit("Job", "User").Create(app).Error
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*applicationDatamodel.Application, error) {
	var app applicationDatamodel.Application
	err := r.withRelations(ctx).Where("applications.id = ?", id).First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepository) Exists(ctx context.Context, jobID, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&applicationDatamodel.Application{}).
		Where("job_id = ? AND user_id = ?", jobID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	result := r.db.WithContext(ctx).
		Model(&applicationDatamodel.Application{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrApplicationNotFound
	}
	return nil
}

// List orders newest first, id breaking ties.
func (r *ApplicationRepository) List(ctx context.Context, filter application.ListFilter) ([]*applicationDatamodel.Application, error) {
	query := r.withRelations(ctx)
	if filter.UserID != nil {
		query = query.Where("applications.user_id = ?", *filter.UserID)
	}
	if filter.JobID != nil {
		query = query.Where("applications.job_id = ?", *filter.JobID)
	}
	if filter.Status != "" {
		query = query.Where("applications.status = ?", filter.Status)
	}

	var apps []*applicationDatamodel.Application
	err := query.Order("applications.created_at DESC").Order("applications.id DESC").Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Job").
		Preload("Job.Department").
		Preload("User")
}
