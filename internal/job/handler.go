package job

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/frahmantamala/recruitment/internal"
	coreuser "github.com/frahmantamala/recruitment/internal/core/user"
	"github.com/frahmantamala/recruitment/internal/transport"
	"github.com/frahmantamala/recruitment/pkg/logger"
)

type ServiceAPI interface {
	CreateJob(ctx context.Context, actor coreuser.Actor, dto CreateJobDTO) (*Job, error)
	GetJob(ctx context.Context, actor coreuser.Actor, id int64) (*Job, error)
	UpdateJob(ctx context.Context, actor coreuser.Actor, id int64, dto UpdateJobDTO) (*Job, error)
	DeleteJob(ctx context.Context, actor coreuser.Actor, id int64) error
	ListJobs(ctx context.Context, actor coreuser.Actor, q ListJobsQuery) (*ListResult, error)
	GetFilterOptions(ctx context.Context) (*FilterOptions, error)
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

// ListJobs handles GET /jobs. Authentication is optional.
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	q, err := parseListQuery(r.URL.Query())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	result, err := h.Service.ListJobs(r.Context(), actor, q)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, result)
}

func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	j, err := h.Service.GetJob(r.Context(), actor, id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, j)
}

func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	var dto CreateJobDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	j, err := h.Service.CreateJob(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, j)
}

// UpdateJob handles PUT /jobs/{id}; {"action":"kill"|"restore"} switches to a status-only update.
func (h *Handler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto UpdateJobDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	j, err := h.Service.UpdateJob(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, j)
}

func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := h.Service.DeleteJob(r.Context(), actor, id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, DeleteResult{ID: id, Deleted: true})
}

func (h *Handler) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.Service.GetFilterOptions(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, options)
}

func parseListQuery(values url.Values) (ListJobsQuery, error) {
	q := ListJobsQuery{
		Search:         values.Get("search"),
		Department:     values.Get("department"),
		Location:       values.Get("location"),
		EmploymentType: values.Get("employment_type"),
	}

	var err error
	if q.SalaryMin, err = transport.OptionalInt(values, "salary_min"); err != nil {
		return q, err
	}
	if q.SalaryMax, err = transport.OptionalInt(values, "salary_max"); err != nil {
		return q, err
	}
	if q.IsActive, err = transport.OptionalBool(values, "is_active"); err != nil {
		return q, err
	}
	includeInactive, err := transport.OptionalBool(values, "include_inactive")
	if err != nil {
		return q, err
	}
	q.IncludeInactive = includeInactive != nil && *includeInactive

	if page, err := transport.OptionalInt(values, "page"); err != nil {
		return q, err
	} else if page != nil {
		q.Page = int(*page)
	}
	if limit, err := transport.OptionalInt(values, "limit"); err != nil {
		return q, err
	} else if limit != nil {
		q.Limit = int(*limit)
	}
	return q, nil
}
