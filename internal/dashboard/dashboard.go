package dashboard

import (
	"time"

	coreuser "github.com/frahmantamala/recruitment/internal/core/user"
)

const recentLimit = 5

type RecentApplication struct {
	ID        int64     `db:"id" json:"id"`
	JobID     int64     `db:"job_id" json:"job_id"`
	JobTitle  string    `db:"job_title" json:"job_title"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Username  string    `db:"username" json:"username"`
	FullName  *string   `db:"full_name" json:"full_name,omitempty"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type StaffStats struct {
	TotalJobs            int64               `json:"total_jobs"`
	ActiveJobs           int64               `json:"active_jobs"`
	TotalApplications    int64               `json:"total_applications"`
	PendingApplications  int64               `json:"pending_applications"`
	AcceptedApplications int64               `json:"accepted_applications"`
	RecentApplications   []RecentApplication `json:"recent_applications"`
}

type UserStats struct {
	ActiveJobCount     int64               `json:"active_job_count"`
	TotalApplications  int64               `json:"total_applications"`
	SavedJobCount      int64               `json:"saved_job_count"`
	RecentApplications []RecentApplication `json:"recent_applications"`
}

// Dashboard carries exactly one of Staff or User depending on the caller's role.
type Dashboard struct {
	Role  coreuser.Role `json:"role"`
	Staff *StaffStats   `json:"staff,omitempty"`
	User  *UserStats    `json:"user,omitempty"`
}
