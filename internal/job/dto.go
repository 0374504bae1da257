package job

import (
	"strings"

	errors "github.com/frahmantamala/recruitment/internal"
	"github.com/frahmantamala/recruitment/internal/core/common/validation"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// JobFieldsDTO is the full editable field set shared by create and edit.
type JobFieldsDTO struct {
	Title            string  `json:"title"`
	DepartmentID     *int64  `json:"department_id"`
	Location         *string `json:"location"`
	SalaryMin        *int64  `json:"salary_min"`
	SalaryMax        *int64  `json:"salary_max"`
	EmploymentType   string  `json:"employment_type"`
	Description      *string `json:"description"`
	Requirements     *string `json:"requirements"`
	Responsibilities *string `json:"responsibilities"`
	Benefits         *string `json:"benefits"`
}

type CreateJobDTO struct {
	JobFieldsDTO
}

// UpdateJobDTO carries either an action or a full field edit. A non-empty Action wins.
type UpdateJobDTO struct {
	Action string `json:"action,omitempty"`
	JobFieldsDTO
}

func (d UpdateJobDTO) HasAction() bool {
	return strings.TrimSpace(d.Action) != ""
}

// Validate normalizes the payload in place: blank optional strings become nil and
// the employment type defaults to FULL_TIME.
func (d *JobFieldsDTO) Validate() *errors.AppError {
	d.Title = strings.TrimSpace(d.Title)
	d.Location = blankToNil(d.Location)
	d.Description = blankToNil(d.Description)
	d.Requirements = blankToNil(d.Requirements)
	d.Responsibilities = blankToNil(d.Responsibilities)
	d.Benefits = blankToNil(d.Benefits)

	d.EmploymentType = strings.ToUpper(strings.TrimSpace(d.EmploymentType))
	if d.EmploymentType == "" {
		d.EmploymentType = string(EmploymentFullTime)
	}

	v := validation.NewValidator()
	v.Field("title", d.Title).Required().MaxLength(200)
	v.Field("location", d.Location).MaxLength(200)
	v.Field("employment_type", d.EmploymentType).OneOf(employmentTypeNames(), errors.ErrCodeInvalidEmploymentType)
	v.Field("department_id", d.DepartmentID).MinInt(1, errors.ErrCodeInvalidID)
	v.Field("salary_min", d.SalaryMin).MinInt(0, errors.ErrCodeInvalidSalaryRange)
	v.Field("salary_max", d.SalaryMax).MinInt(0, errors.ErrCodeInvalidSalaryRange).Custom(func(interface{}) *errors.AppError {
		if d.SalaryMin != nil && d.SalaryMax != nil && *d.SalaryMin > *d.SalaryMax {
			return errors.NewValidationFieldError("salary_max", "salary_max must be greater than or equal to salary_min", errors.ErrCodeInvalidSalaryRange)
		}
		return nil
	})
	return v.Validate()
}

// ListJobsQuery is the caller's requested filter. Visibility is decided by the service.
type ListJobsQuery struct {
	Search          string
	Department      string
	Location        string
	EmploymentType  string
	SalaryMin       *int64
	SalaryMax       *int64
	IsActive        *bool
	IncludeInactive bool
	Page            int
	Limit           int
}

func (q *ListJobsQuery) Normalize() *errors.AppError {
	q.Search = strings.TrimSpace(q.Search)
	q.Department = strings.TrimSpace(q.Department)
	q.Location = strings.TrimSpace(q.Location)
	q.EmploymentType = strings.ToUpper(strings.TrimSpace(q.EmploymentType))
	if q.Page < 1 {
		q.Page = defaultPage
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}

	v := validation.NewValidator()
	v.Field("employment_type", q.EmploymentType).OneOf(employmentTypeNames(), errors.ErrCodeInvalidEmploymentType)
	return v.Validate()
}

func (q ListJobsQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// ListFilter is what the repository executes.
type ListFilter struct {
	Search         string
	Department     string
	Location       string
	EmploymentType string
	SalaryMin      *int64
	SalaryMax      *int64
	IsActive       *bool
	Offset         int
	Limit          int
}

type ListResult struct {
	Items       []*Job `json:"items"`
	TotalCount  int64  `json:"total_count"`
	TotalPages  int    `json:"total_pages"`
	CurrentPage int    `json:"current_page"`
	Limit       int    `json:"limit"`
}

type EmploymentTypeOption struct {
	Value EmploymentType `json:"value"`
	Label string         `json:"label"`
}

type FilterOptions struct {
	Departments     []string               `json:"departments"`
	Locations       []string               `json:"locations"`
	EmploymentTypes []EmploymentTypeOption `json:"employment_types"`
}

type DeleteResult struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
}

func employmentTypeNames() []string {
	names := make([]string, len(EmploymentTypes))
	for i, t := range EmploymentTypes {
		names[i] = string(t)
	}
	return names
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
