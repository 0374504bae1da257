package postgres

import (
	"context"
	"errors"

	departmentDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/department"
	"github.com/frahmantamala/recruitment/internal/department"
	"gorm.io/gorm"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) department.RepositoryAPI {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) ListActive(ctx context.Context) ([]*departmentDatamodel.Department, error) {
	var departments []*departmentDatamodel.Department
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&departments).Error
	return departments, err
}

func (r *DepartmentRepository) GetByName(ctx context.Context, name string) (*departmentDatamodel.Department, error) {
	var d departmentDatamodel.Department
	err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*departmentDatamodel.Department, error) {
	var d departmentDatamodel.Department
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *DepartmentRepository) Create(ctx context.Context, d *departmentDatamodel.Department) error {
	return r.db.WithContext(ctx).Create(d).Error
}
