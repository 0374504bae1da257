package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/recruitment/internal"
	"github.com/frahmantamala/recruitment/internal/bookmark"
	bookmarkDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/bookmark"
	"gorm.io/gorm"
)

type BookmarkRepository struct {
	db *gorm.DB
}

func NewBookmarkRepository(db *gorm.DB) bookmark.RepositoryAPI {
	return &BookmarkRepository{db: db}
}

func (r *BookmarkRepository) Find(ctx context.Context, jobID, userID int64) (*bookmarkDatamodel.SavedJob, error) {
	var saved bookmarkDatamodel.SavedJob
	err := r.db.WithContext(ctx).
		Where("job_id = ? AND user_id = ?", jobID, userID).
		First(&saved).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &saved, nil
}

func (r *BookmarkRepository) GetByID(ctx context.Context, id int64) (*bookmarkDatamodel.SavedJob, error) {
	var saved bookmarkDatamodel.SavedJob
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&saved).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrBookmarkNotFound
		}
		return nil, err
	}
	return &saved, nil
}

func (r *BookmarkRepository) Create(ctx context.Context, saved *bookmarkDatamodel.SavedJob) error {
	return r.db.WithContext(ctx).Omit("Job").Create(saved).Error
}

func (r *BookmarkRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&bookmarkDatamodel.SavedJob{}).Error
}

func (r *BookmarkRepository) DeleteByJobAndUser(ctx context.Context, jobID, userID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("job_id = ? AND user_id = ?", jobID, userID).
		Delete(&bookmarkDatamodel.SavedJob{})
	return result.RowsAffected, result.Error
}

func (r *BookmarkRepository) ListByUser(ctx context.Context, userID int64) ([]*bookmarkDatamodel.SavedJob, error) {
	var saved []*bookmarkDatamodel.SavedJob
	err := r.db.WithContext(ctx).
		Preload("Job").
		Preload("Job.Department").
		Preload("Job.Poster").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&saved).Error
	return saved, err
}
