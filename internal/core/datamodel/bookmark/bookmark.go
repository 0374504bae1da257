package bookmark

import (
	"time"

	jobDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/job"
)

// SavedJob is a user's bookmark on a job posting.
type SavedJob struct {
	ID        int64             `gorm:"primaryKey"`
	JobID     int64             `gorm:"column:job_id;not null;uniqueIndex:idx_saved_jobs_job_user"`
	Job       *jobDatamodel.Job `gorm:"foreignKey:JobID"`
	UserID    int64             `gorm:"column:user_id;not null;uniqueIndex:idx_saved_jobs_job_user;index"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
}

func (SavedJob) TableName() string {
	return "saved_jobs"
}
