package bookmark

import (
	"time"

	bookmarkDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/bookmark"
	"github.com/frahmantamala/recruitment/internal/job"
)

type ToggleAction string

const (
	ActionSaved   ToggleAction = "saved"
	ActionRemoved ToggleAction = "removed"
)

// SavedJob is one user's bookmark. Unique per (job, user).
type SavedJob struct {
	ID        int64     `json:"id"`
	JobID     int64     `json:"job_id"`
	UserID    int64     `json:"user_id"`
	Job       *job.Job  `json:"job,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ToggleResult struct {
	Action ToggleAction `json:"action"`
	JobID  int64        `json:"job_id"`
	Saved  bool         `json:"saved"`
}

func FromDataModel(m *bookmarkDatamodel.SavedJob) *SavedJob {
	s := &SavedJob{
		ID:        m.ID,
		JobID:     m.JobID,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
	}
	if m.Job != nil {
		s.Job = job.FromDataModel(m.Job)
	}
	return s
}
