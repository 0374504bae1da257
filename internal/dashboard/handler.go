package dashboard

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
	GetDashboard(ctx context.Context, actor coreuser.Actor) (*Dashboard, error)
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

// GetDashboard handles GET /dashboard
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	d, err := h.Service.GetDashboard(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, d)
}
