package user

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleHR    Role = "HR"
	RoleUser  Role = "USER"
)

func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleHR, RoleUser:
		return r, true
	}
	return "", false
}

// IsStaff reports whether the role may manage job postings and applications.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleHR
}

func (r Role) String() string {
	return string(r)
}

// User is the identity record as the auth layer sees it.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
	FullName     *string
	Email        *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor is the caller of an operation, resolved from storage on every request.
// The zero value is an anonymous caller.
type Actor struct {
	ID       int64
	Username string
	Role     Role
}

func NewActor(u *User) Actor {
	return Actor{ID: u.ID, Username: u.Username, Role: u.Role}
}

func (a Actor) IsAuthenticated() bool {
	return a.ID != 0
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) IsStaff() bool {
	return a.Role.IsStaff()
}
