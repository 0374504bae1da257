package application

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
	Apply(ctx context.Context, actor coreuser.Actor, dto ApplyDTO) (*Application, error)
	UpdateStatus(ctx context.Context, actor coreuser.Actor, id int64, status string) (*Application, error)
	GetApplication(ctx context.Context, actor coreuser.Actor, id int64) (*Application, error)
	List(ctx context.Context, actor coreuser.Actor, q ListQuery) ([]*Application, error)
	ListForUser(ctx context.Context, actor coreuser.Actor, userID int64, q ListQuery) ([]*Application, error)
	ListByJob(ctx context.Context, actor coreuser.Actor, jobID int64) ([]*Application, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// Apply handles POST /applications
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	var dto ApplyDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	app, err := h.Service.Apply(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, app)
}

// UpdateStatus handles PUT /applications/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	var dto UpdateStatusDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	app, err := h.Service.UpdateStatus(r.Context(), actor, dto.ApplicationID, dto.Status)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, app)
}

// PatchStatus handles PATCH /applications/{id}/status
func (h *Handler) PatchStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := h.DecodeJSON(r, &body); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	app, err := h.Service.UpdateStatus(r.Context(), actor, id, body.Status)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, app)
}

func (h *Handler) GetApplication(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	app, err := h.Service.GetApplication(r.Context(), actor, id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, app)
}

// ListApplications handles GET /applications?job_id=&status=
func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	q, err := parseListQuery(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	apps, err := h.Service.List(r.Context(), actor, q)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, apps)
}

// ListUserApplications handles GET /users/{id}/applications
func (h *Handler) ListUserApplications(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	userID, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	q, err := parseListQuery(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	apps, err := h.Service.ListForUser(r.Context(), actor, userID, q)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, apps)
}

// ListJobApplicants handles GET /jobs/{id}/applicants
func (h *Handler) ListJobApplicants(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	jobID, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	apps, err := h.Service.ListByJob(r.Context(), actor, jobID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, apps)
}

func parseListQuery(r *http.Request) (ListQuery, error) {
	values := r.URL.Query()
	jobID, err := transport.OptionalInt(values, "job_id")
	if err != nil {
		return ListQuery{}, err
	}
	return ListQuery{JobID: jobID, Status: values.Get("status")}, nil
}
