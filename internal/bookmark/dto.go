package bookmark

import (
	errors "github.com/frahmantamala/recruitment/internal"
	"github.com/frahmantamala/recruitment/internal/core/common/validation"
)

type JobRefDTO struct {
	JobID int64 `json:"job_id"`
}

func (d JobRefDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("job_id", d.JobID).Required().MinInt(1, errors.ErrCodeInvalidID)
	return v.Validate()
}
