package auth

import (
	"net/http"

	"github.com/frahmantamala/recruitment/internal"
	"github.com/frahmantamala/recruitment/internal/core/user"
	"github.com/frahmantamala/recruitment/internal/transport"
)

// RBACAuthorization gates routes on the actor's role. It must run after AuthMiddleware.
type RBACAuthorization struct {
	*transport.BaseHandler
}

func NewRBACAuthorization(base *transport.BaseHandler) *RBACAuthorization {
	return &RBACAuthorization{BaseHandler: base}
}

func (a *RBACAuthorization) RequireRoles(roles ...user.Role) func(http.Handler) http.Handler {
	allowed := make(map[user.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := internal.ActorFromContext(r.Context())
			if !ok {
				a.HandleServiceError(w, r, internal.ErrUnauthenticated)
				return
			}
			if _, ok := allowed[actor.Role]; !ok {
				a.Logger.Warn("RBAC: role not permitted", "user_id", actor.ID, "role", actor.Role, "path", r.URL.Path)
				a.HandleServiceError(w, r, denialFor(roles))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (a *RBACAuthorization) RequireStaff() func(http.Handler) http.Handler {
	return a.RequireRoles(user.RoleAdmin, user.RoleHR)
}

func (a *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return a.RequireRoles(user.RoleAdmin)
}

func denialFor(roles []user.Role) error {
	if len(roles) == 1 && roles[0] == user.RoleAdmin {
		return internal.ErrAdminOnly
	}
	return internal.ErrStaffOnly
}
