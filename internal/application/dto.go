package application

import (
	"strings"

	errors "github.com/frahmantamala/recruitment/internal"
	"github.com/frahmantamala/recruitment/internal/core/common/validation"
)

type ApplyDTO struct {
	JobID       int64   `json:"job_id"`
	ResumeURL   *string `json:"resume_url"`
	CoverLetter *string `json:"cover_letter"`
}

func (d *ApplyDTO) Validate() *errors.AppError {
	d.ResumeURL = blankToNil(d.ResumeURL)
	d.CoverLetter = blankToNil(d.CoverLetter)

	v := validation.NewValidator()
	v.Field("job_id", d.JobID).Required().MinInt(1, errors.ErrCodeInvalidID)
	v.Field("resume_url", d.ResumeURL).MaxLength(500)
	v.Field("cover_letter", d.CoverLetter).MaxLength(5000)
	return v.Validate()
}

// UpdateStatusDTO is the body of PUT /applications/status. The PATCH route takes the id from the path.
type UpdateStatusDTO struct {
	ApplicationID int64  `json:"application_id"`
	Status        string `json:"status"`
}

func (d UpdateStatusDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("application_id", d.ApplicationID).Required().MinInt(1, errors.ErrCodeInvalidID)
	return v.Validate()
}

// ListQuery narrows an application listing. Both filters are optional.
type ListQuery struct {
	JobID  *int64
	Status string
}

func (q *ListQuery) Normalize() *errors.AppError {
	q.Status = strings.TrimSpace(q.Status)
	if q.Status == "" {
		return nil
	}
	if _, ok := ParseStatus(q.Status); !ok {
		return errors.ErrInvalidStatus
	}
	return nil
}

// ListFilter is what the repository executes. A nil UserID lists every applicant.
type ListFilter struct {
	UserID *int64
	JobID  *int64
	Status string
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
