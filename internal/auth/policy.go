package auth

import (
	"github.com/frahmantamala/recruitment/internal"
	"github.com/frahmantamala/recruitment/internal/core/user"
)

// RequireAuthenticated rejects anonymous callers.
func RequireAuthenticated(actor user.Actor) error {
	if !actor.IsAuthenticated() {
		return internal.ErrUnauthenticated
	}
	return nil
}

// RequireStaff allows ADMIN and HR.
func RequireStaff(actor user.Actor) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	if !actor.IsStaff() {
		return internal.ErrStaffOnly
	}
	return nil
}

func RequireAdmin(actor user.Actor) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return internal.ErrAdminOnly
	}
	return nil
}

// CanManageJob: ADMIN manages every job, HR only the ones it posted.
func CanManageJob(actor user.Actor, postedBy int64) error {
	if err := RequireStaff(actor); err != nil {
		return err
	}
	if actor.IsAdmin() || actor.ID == postedBy {
		return nil
	}
	return internal.ErrJobAccessDenied
}

// CanActFor allows the caller on their own records, and staff on anyone's.
func CanActFor(actor user.Actor, userID int64) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	if actor.ID == userID || actor.IsStaff() {
		return nil
	}
	return internal.ErrApplicationsAccessDenied
}
