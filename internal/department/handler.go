package department

import (
	"context"
	"net/http"

	"github.com/frahmantamala/recruitment/internal"
	coreuser "github.com/frahmantamala/recruitment/internal/core/user"
	"github.com/frahmantamala/recruitment/internal/transport"
)

type ServiceAPI interface {
	GetDepartments(ctx context.Context) ([]DepartmentResponse, error)
	Create(ctx context.Context, actor coreuser.Actor, dto CreateDepartmentDTO) (*Department, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) GetDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Service.GetDepartments(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, departments)
}

func (h *Handler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	var dto CreateDepartmentDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	d, err := h.Service.Create(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, d.ToResponse())
}
