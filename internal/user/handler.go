package user

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/recruitment/internal"
	coreuser "github.com/frahmantamala/recruitment/internal/core/user"
	"github.com/frahmantamala/recruitment/internal/transport"
	"github.com/frahmantamala/recruitment/pkg/logger"
)

type ServiceAPI interface {
	GetProfile(ctx context.Context, id int64) (*User, error)
	Register(ctx context.Context, actor coreuser.Actor, dto RegisterUserDTO) (*User, error)
	UpdateUser(ctx context.Context, actor coreuser.Actor, id int64, dto UpdateUserDTO) (*User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrUnauthenticated)
		return
	}

	u, err := h.Service.GetProfile(r.Context(), actor.ID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, u)
}

// GetUser handles GET /users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	u, err := h.Service.GetProfile(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, u)
}

// UpdateUser handles PUT /users/{id}
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto UpdateUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	u, err := h.Service.UpdateUser(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, u)
}

// RegisterUser handles POST /users
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	var dto RegisterUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	u, err := h.Service.Register(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, u)
}
