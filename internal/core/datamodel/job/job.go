package job

import (
	"time"

	departmentDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/department"
	userDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/user"
)

type Job struct {
	ID               int64                           `gorm:"primaryKey"`
	Title            string                          `gorm:"column:title;not null"`
	DepartmentID     *int64                          `gorm:"column:department_id;index"`
	Department       *departmentDatamodel.Department `gorm:"foreignKey:DepartmentID"`
	Location         *string                         `gorm:"column:location"`
	SalaryMin        *int64                          `gorm:"column:salary_min"`
	SalaryMax        *int64                          `gorm:"column:salary_max"`
	EmploymentType   string                          `gorm:"column:employment_type;not null"`
	Description      *string                         `gorm:"column:description"`
	Requirements     *string                         `gorm:"column:requirements"`
	Responsibilities *string                         `gorm:"column:responsibilities"`
	Benefits         *string                         `gorm:"column:benefits"`
	PostedBy         int64                           `gorm:"column:posted_by;not null;index"`
	Poster           *userDatamodel.User             `gorm:"foreignKey:PostedBy"`
	IsActive         bool                            `gorm:"column:is_active;not null;index"`
	KilledAt         *time.Time                      `gorm:"column:killed_at;check:chk_jobs_killed_state,is_active = (killed_at IS NULL)"`
	CreatedAt        time.Time                       `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt        time.Time                       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Job) TableName() string {
	return "jobs"
}
