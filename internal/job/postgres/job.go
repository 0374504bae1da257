package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/frahmantamala/recruitment/internal"
	applicationDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/application"
	bookmarkDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/bookmark"
	departmentDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/department"
	jobDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/job"
	"github.com/frahmantamala/recruitment/internal/job"
	"gorm.io/gorm"
)

// editableColumns are written by a full field edit. Status columns are left to SetActive.
var editableColumns = []string{
	"title", "department_id", "location", "salary_min", "salary_max", "employment_type",
	"description", "requirements", "responsibilities", "benefits", "updated_at",
}

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) job.RepositoryAPI {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(ctx context.Context, j *jobDatamodel.Job) error {
	return r.db.WithContext(ctx).Omit("Department", "Poster").Create(j).Error
}

func (r *JobRepository) GetByID(ctx context.Context, id int64) (*jobDatamodel.Job, error) {
	var j jobDatamodel.Job
	err := r.db.WithContext(ctx).
		Preload("Department").
		Preload("Poster").
		Where("id = ?", id).
		First(&j).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrJobNotFound
		}
		return nil, err
	}
	return &j, nil
}

func (r *JobRepository) Update(ctx context.Context, j *jobDatamodel.Job) error {
	j.UpdatedAt = time.Now()
	res := r.db.WithContext(ctx).
		Model(&jobDatamodel.Job{}).
		Where("id = ?", j.ID).
		Select(editableColumns).
		Updates(j)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrJobNotFound
	}
	return nil
}

func (r *JobRepository) SetActive(ctx context.Context, id int64, isActive bool, killedAt *time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&jobDatamodel.Job{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  isActive,
			"killed_at":  killedAt,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrJobNotFound
	}
	return nil
}

// Delete removes the job with its bookmarks and applications in one transaction.
func (r *JobRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", id).Delete(&bookmarkDatamodel.SavedJob{}).Error; err != nil {
			return err
		}
		if err := tx.Where("job_id = ?", id).Delete(&applicationDatamodel.Application{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&jobDatamodel.Job{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return internal.ErrJobNotFound
		}
		return nil
	})
}

func (r *JobRepository) List(ctx context.Context, filter job.ListFilter) ([]*jobDatamodel.Job, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []*jobDatamodel.Job
	err := r.filtered(ctx, filter).
		Preload("Department").
		Preload("Poster").
		Order("jobs.created_at DESC").
		Order("jobs.id DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&jobs).Error
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *JobRepository) ActiveDepartmentNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&departmentDatamodel.Department{}).
		Where("id IN (?)", r.db.Model(&jobDatamodel.Job{}).Select("department_id").Where("is_active = ? AND department_id IS NOT NULL", true)).
		Distinct("name").
		Order("name ASC").
		Pluck("name", &names).Error
	return names, err
}

func (r *JobRepository) ActiveLocations(ctx context.Context) ([]string, error) {
	var locations []string
	err := r.db.WithContext(ctx).
		Model(&jobDatamodel.Job{}).
		Where("is_active = ? AND location IS NOT NULL AND location <> ''", true).
		Distinct("location").
		Order("location ASC").
		Pluck("location", &locations).Error
	return locations, err
}

func (r *JobRepository) filtered(ctx context.Context, f job.ListFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&jobDatamodel.Job{})

	if f.Search != "" {
		pattern := likePattern(f.Search)
		q = q.Where(
			"(LOWER(jobs.title) LIKE ? ESCAPE '\\' OR LOWER(jobs.description) LIKE ? ESCAPE '\\' OR LOWER(jobs.requirements) LIKE ? ESCAPE '\\')",
			pattern, pattern, pattern,
		)
	}
	if f.Department != "" {
		q = q.Where("jobs.department_id IN (?)",
			r.db.Model(&departmentDatamodel.Department{}).Select("id").Where("LOWER(name) LIKE ? ESCAPE '\\'", likePattern(f.Department)))
	}
	if f.Location != "" {
		q = q.Where("LOWER(jobs.location) LIKE ? ESCAPE '\\'", likePattern(f.Location))
	}
	if f.EmploymentType != "" {
		q = q.Where("jobs.employment_type = ?", f.EmploymentType)
	}
	if f.SalaryMin != nil {
		q = q.Where("jobs.salary_min >= ?", *f.SalaryMin)
	}
	if f.SalaryMax != nil {
		q = q.Where("jobs.salary_max <= ?", *f.SalaryMax)
	}
	if f.IsActive != nil {
		q = q.Where("jobs.is_active = ?", *f.IsActive)
	}
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
