package user

import (
	"strings"

	errors "github.com/frahmantamala/recruitment/internal"
	"github.com/frahmantamala/recruitment/internal/core/common/validation"
	coreuser "github.com/frahmantamala/recruitment/internal/core/user"
)

const minPasswordLength = 4

var roleNames = []string{string(coreuser.RoleAdmin), string(coreuser.RoleHR), string(coreuser.RoleUser)}

type RegisterUserDTO struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Position *string `json:"position"`
	Bio      *string `json:"bio"`
}

func (d *RegisterUserDTO) Validate() *errors.AppError {
	d.Username = strings.TrimSpace(d.Username)
	d.Role = strings.ToUpper(strings.TrimSpace(d.Role))
	if d.Role == "" {
		d.Role = string(coreuser.RoleUser)
	}

	v := validation.NewValidator()
	v.Field("username", d.Username).Required().MinLength(3).MaxLength(50)
	v.Field("password", d.Password).Required().MinLength(minPasswordLength)
	v.Field("role", d.Role).OneOf(roleNames, errors.ErrCodeInvalidRole)
	v.Field("email", d.Email).MaxLength(255)
	return v.Validate()
}

// UpdateUserDTO switches to password-change mode when NewPassword is present.
// Otherwise nil fields are left untouched.
type UpdateUserDTO struct {
	FullName        *string `json:"full_name"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	Position        *string `json:"position"`
	Bio             *string `json:"bio"`
	CurrentPassword *string `json:"current_password"`
	NewPassword     *string `json:"new_password"`
}

func (d UpdateUserDTO) IsPasswordChange() bool {
	return d.NewPassword != nil
}

func (d UpdateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if d.IsPasswordChange() {
		v.Field("current_password", d.CurrentPassword).Required()
		v.Field("new_password", d.NewPassword).Required().MinLength(minPasswordLength)
		return v.Validate()
	}
	v.Field("full_name", d.FullName).MaxLength(100)
	v.Field("email", d.Email).MaxLength(255)
	v.Field("phone", d.Phone).MaxLength(30)
	v.Field("position", d.Position).MaxLength(100)
	return v.Validate()
}

// Fields returns the columns a profile edit touches. Blank strings clear the column.
func (d UpdateUserDTO) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	set := func(column string, value *string) {
		if value == nil {
			return
		}
		if trimmed := strings.TrimSpace(*value); trimmed != "" {
			fields[column] = trimmed
			return
		}
		fields[column] = nil
	}
	set("full_name", d.FullName)
	set("email", d.Email)
	set("phone", d.Phone)
	set("position", d.Position)
	set("bio", d.Bio)
	return fields
}
