package job

import (
	"strings"
	"time"

	jobDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/job"
	coreuser "github.com/frahmantamala/recruitment/internal/core/user"
)

type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "FULL_TIME"
	EmploymentPartTime   EmploymentType = "PART_TIME"
	EmploymentContract   EmploymentType = "CONTRACT"
	EmploymentInternship EmploymentType = "INTERNSHIP"
)

var EmploymentTypes = []EmploymentType{EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentInternship}

func ParseEmploymentType(s string) (EmploymentType, bool) {
	t := EmploymentType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range EmploymentTypes {
		if t == known {
			return t, true
		}
	}
	return "", false
}

func (t EmploymentType) Label() string {
	switch t {
	case EmploymentFullTime:
		return "Full Time"
	case EmploymentPartTime:
		return "Part Time"
	case EmploymentContract:
		return "Contract"
	case EmploymentInternship:
		return "Internship"
	}
	return string(t)
}

// Action is a status-only update. It replaces a field edit for that call.
type Action string

const (
	ActionKill    Action = "kill"
	ActionRestore Action = "restore"
)

func ParseAction(s string) (Action, bool) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionKill, ActionRestore:
		return a, true
	}
	return "", false
}

type Poster struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	FullName *string `json:"full_name,omitempty"`
}

// Job is a posting. IsActive is false exactly when KilledAt is set.
type Job struct {
	ID               int64          `json:"id"`
	Title            string         `json:"title"`
	DepartmentID     *int64         `json:"department_id,omitempty"`
	Department       *string        `json:"department,omitempty"`
	Location         *string        `json:"location,omitempty"`
	SalaryMin        *int64         `json:"salary_min,omitempty"`
	SalaryMax        *int64         `json:"salary_max,omitempty"`
	EmploymentType   EmploymentType `json:"employment_type"`
	Description      *string        `json:"description,omitempty"`
	Requirements     *string        `json:"requirements,omitempty"`
	Responsibilities *string        `json:"responsibilities,omitempty"`
	Benefits         *string        `json:"benefits,omitempty"`
	PostedBy         int64          `json:"posted_by"`
	Poster           *Poster        `json:"poster,omitempty"`
	IsActive         bool           `json:"is_active"`
	KilledAt         *time.Time     `json:"killed_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (j *Job) Kill(now time.Time) {
	j.IsActive = false
	j.KilledAt = &now
}

func (j *Job) Restore() {
	j.IsActive = true
	j.KilledAt = nil
}

// VisibleTo hides killed postings from everyone but staff.
func (j *Job) VisibleTo(actor coreuser.Actor) bool {
	return j.IsActive || actor.IsStaff()
}

func (j *Job) apply(f JobFieldsDTO) {
	j.Title = f.Title
	j.DepartmentID = f.DepartmentID
	j.Location = f.Location
	j.SalaryMin = f.SalaryMin
	j.SalaryMax = f.SalaryMax
	j.EmploymentType = EmploymentType(f.EmploymentType)
	j.Description = f.Description
	j.Requirements = f.Requirements
	j.Responsibilities = f.Responsibilities
	j.Benefits = f.Benefits
}

func ToDataModel(j *Job) *jobDatamodel.Job {
	return &jobDatamodel.Job{
		ID:               j.ID,
		Title:            j.Title,
		DepartmentID:     j.DepartmentID,
		Location:         j.Location,
		SalaryMin:        j.SalaryMin,
		SalaryMax:        j.SalaryMax,
		EmploymentType:   string(j.EmploymentType),
		Description:      j.Description,
		Requirements:     j.Requirements,
		Responsibilities: j.Responsibilities,
		Benefits:         j.Benefits,
		PostedBy:         j.PostedBy,
		IsActive:         j.IsActive,
		KilledAt:         j.KilledAt,
		CreatedAt:        j.CreatedAt,
		UpdatedAt:        j.UpdatedAt,
	}
}

func FromDataModel(m *jobDatamodel.Job) *Job {
	j := &Job{
		ID:               m.ID,
		Title:            m.Title,
		DepartmentID:     m.DepartmentID,
		Location:         m.Location,
		SalaryMin:        m.SalaryMin,
		SalaryMax:        m.SalaryMax,
		EmploymentType:   EmploymentType(m.EmploymentType),
		Description:      m.Description,
		Requirements:     m.Requirements,
		Responsibilities: m.Responsibilities,
		Benefits:         m.Benefits,
		PostedBy:         m.PostedBy,
		IsActive:         m.IsActive,
		KilledAt:         m.KilledAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	if m.Department != nil {
		name := m.Department.Name
		j.Department = &name
	}
	if m.Poster != nil {
		j.Poster = &Poster{ID: m.Poster.ID, Username: m.Poster.Username, FullName: m.Poster.FullName}
	}
	return j
}
