package bookmark

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
	Toggle(ctx context.Context, actor coreuser.Actor, jobID int64) (*ToggleResult, error)
	Save(ctx context.Context, actor coreuser.Actor, jobID int64) (*SavedJob, error)
	Unsave(ctx context.Context, actor coreuser.Actor, jobID int64) error
	Remove(ctx context.Context, actor coreuser.Actor, id int64) error
	List(ctx context.Context, actor coreuser.Actor) ([]*SavedJob, error)
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

// ListBookmarks handles GET /bookmarks
func (h *Handler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	items, err := h.Service.List(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, items)
}

// ToggleBookmark handles POST /bookmarks/toggle
func (h *Handler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	dto, err := h.decodeJobRef(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	result, err := h.Service.Toggle(r.Context(), actor, dto.JobID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, result)
}

// SaveBookmark handles POST /bookmarks
func (h *Handler) SaveBookmark(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	dto, err := h.decodeJobRef(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	saved, err := h.Service.Save(r.Context(), actor, dto.JobID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, saved)
}

// UnsaveJob handles DELETE /bookmarks/jobs/{jobId}
func (h *Handler) UnsaveJob(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	jobID, err := h.IDParam(r, "jobId")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := h.Service.Unsave(r.Context(), actor, jobID); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveBookmark handles DELETE /bookmarks/{id}
func (h *Handler) RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := h.Service.Remove(r.Context(), actor, id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeJobRef(r *http.Request) (JobRefDTO, error) {
	var dto JobRefDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		return dto, err
	}
	if err := dto.Validate(); err != nil {
		return dto, err
	}
	return dto, nil
}
