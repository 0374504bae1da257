package application

import (
	"time"

	applicationDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/application"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusRejected  Status = "REJECTED"
	StatusInterview Status = "INTERVIEW"
	StatusHired     Status = "HIRED"
	StatusOffer     Status = "OFFER"
)

// Statuses is the full enumeration. Any status may move to any other.
var Statuses = []Status{StatusPending, StatusAccepted, StatusRejected, StatusInterview, StatusHired, StatusOffer}

// ParseStatus matches the enumeration exactly; "accepted" is not a status.
func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	for _, known := range Statuses {
		if st == known {
			return st, true
		}
	}
	return "", false
}

type JobSummary struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Department *string `json:"department,omitempty"`
	Location   *string `json:"location,omitempty"`
	IsActive   bool    `json:"is_active"`
}

type Applicant struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

type Application struct {
	ID          int64       `json:"id"`
	JobID       int64       `json:"job_id"`
	UserID      int64       `json:"user_id"`
	Status      Status      `json:"status"`
	ResumeURL   *string     `json:"resume_url,omitempty"`
	CoverLetter *string     `json:"cover_letter,omitempty"`
	Job         *JobSummary `json:"job,omitempty"`
	Applicant   *Applicant  `json:"applicant,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func ToDataModel(a *Application) *applicationDatamodel.Application {
	return &applicationDatamodel.Application{
		ID:          a.ID,
		JobID:       a.JobID,
		UserID:      a.UserID,
		Status:      string(a.Status),
		ResumeURL:   a.ResumeURL,
		CoverLetter: a.CoverLetter,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func FromDataModel(m *applicationDatamodel.Application) *Application {
	a := &Application{
		ID:          m.ID,
		JobID:       m.JobID,
		UserID:      m.UserID,
		Status:      Status(m.Status),
		ResumeURL:   m.ResumeURL,
		CoverLetter: m.CoverLetter,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.Job != nil {
		a.Job = &JobSummary{
			ID:       m.Job.ID,
			Title:    m.Job.Title,
			Location: m.Job.Location,
			IsActive: m.Job.IsActive,
		}
		if m.Job.Department != nil {
			name := m.Job.Department.Name
			a.Job.Department = &name
		}
	}
	if m.User != nil {
		a.Applicant = &Applicant{
			ID:       m.User.ID,
			Username: m.User.Username,
			FullName: m.User.FullName,
			Email:    m.User.Email,
			Phone:    m.User.Phone,
		}
	}
	return a
}
