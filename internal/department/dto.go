package department

import (
	"strings"

	errors "github.com/frahmantamala/recruitment/internal"
	"github.com/frahmantamala/recruitment/internal/core/common/validation"
)

type DepartmentResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

type CreateDepartmentDTO struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (d *CreateDepartmentDTO) Validate() *errors.AppError {
	d.Name = strings.TrimSpace(d.Name)
	if d.Description != nil && strings.TrimSpace(*d.Description) == "" {
		d.Description = nil
	}

	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	return v.Validate()
}
