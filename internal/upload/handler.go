package upload

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/recruitment/internal"
	coreuser "github.com/frahmantamala/recruitment/internal/core/user"
	"github.com/frahmantamala/recruitment/internal/transport"
	"github.com/frahmantamala/recruitment/pkg/logger"
)

// multipart framing allowance on top of the file itself
const formOverhead = 1 << 20

type ServiceAPI interface {
	UploadResume(ctx context.Context, actor coreuser.Actor, r io.Reader) (*Result, error)
	MaxSize() int64
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

// UploadResume handles POST /uploads/resume with multipart field "file".
func (h *Handler) UploadResume(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.Service.MaxSize()+formOverhead)
	if err := r.ParseMultipartForm(h.Service.MaxSize()); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.HandleServiceError(w, r, internal.ErrFileTooLarge)
			return
		}
		h.HandleServiceError(w, r, internal.NewValidationError("invalid multipart form", internal.ErrCodeInvalidRequestBody).WithCause(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("file")
	if err != nil {
		h.HandleServiceError(w, r, internal.ErrFileRequired)
		return
	}
	defer file.Close()

	result, err := h.Service.UploadResume(r.Context(), actor, file)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, result)
}
