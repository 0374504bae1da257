package application

import (
	"time"

	jobDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/job"
	userDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/user"
)

type Application struct {
	ID          int64               `gorm:"primaryKey"`
	JobID       int64               `gorm:"column:job_id;not null;uniqueIndex:idx_applications_job_user"`
	Job         *jobDatamodel.Job   `gorm:"foreignKey:JobID"`
	UserID      int64               `gorm:"column:user_id;not null;uniqueIndex:idx_applications_job_user;index"`
	User        *userDatamodel.User `gorm:"foreignKey:UserID"`
	Status      string              `gorm:"column:status;not null;index"`
	ResumeURL   *string             `gorm:"column:resume_url"`
	CoverLetter *string             `gorm:"column:cover_letter"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Application) TableName() string {
	return "applications"
}
