package auth

import (
	errors "github.com/frahmantamala/recruitment/internal"
	"github.com/frahmantamala/recruitment/internal/core/common/validation"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (d LoginDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required()
	v.Field("password", d.Password).Required()
	return v.Validate()
}

func (d RefreshTokenDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("refresh_token", d.RefreshToken).Required()
	return v.Validate()
}
