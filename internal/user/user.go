package user

import (
	"time"

	userDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/user"
	coreuser "github.com/frahmantamala/recruitment/internal/core/user"
)

// User is the public profile. The password hash never leaves this package.
type User struct {
	ID           int64         `json:"id"`
	Username     string        `json:"username"`
	PasswordHash string        `json:"-"`
	Role         coreuser.Role `json:"role"`
	FullName     *string       `json:"full_name,omitempty"`
	Email        *string       `json:"email,omitempty"`
	Phone        *string       `json:"phone,omitempty"`
	Position     *string       `json:"position,omitempty"`
	Bio          *string       `json:"bio,omitempty"`
	IsActive     bool          `json:"is_active"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Contact is where notifications for a user are delivered.
type Contact struct {
	UserID   int64
	Username string
	Name     string
	Email    string
}

func (u *User) DisplayName() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}
	return u.Username
}

// Contact returns false when the user has no email on file.
func (u *User) Contact() (Contact, bool) {
	if u.Email == nil || *u.Email == "" {
		return Contact{}, false
	}
	return Contact{UserID: u.ID, Username: u.Username, Name: u.DisplayName(), Email: *u.Email}, true
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		FullName:     u.FullName,
		Email:        u.Email,
		Phone:        u.Phone,
		Position:     u.Position,
		Bio:          u.Bio,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         coreuser.Role(u.Role),
		FullName:     u.FullName,
		Email:        u.Email,
		Phone:        u.Phone,
		Position:     u.Position,
		Bio:          u.Bio,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
