package transport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/frahmantamala/recruitment/internal"
	"github.com/frahmantamala/recruitment/pkg/logger"
	"github.com/go-chi/chi"
)

// SuccessResponse is the success half of the API envelope.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes data as-is, without the envelope.
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteSuccess wraps data in {"success": true, "data": ...}.
func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	h.WriteJSON(w, status, SuccessResponse{Success: true, Data: data})
}

// WriteError writes {"success": false, "error": ...} for a bare status and message.
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.writeAppError(w, &internal.AppError{
		Type:       errorTypeForStatus(status),
		Code:       internal.ErrorCode(strings.ReplaceAll(strings.ToUpper(http.StatusText(status)), " ", "_")),
		Message:    message,
		StatusCode: status,
	})
}

// HandleServiceError maps a service error onto the envelope. Internal causes are logged, never returned.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		appErr = internal.NewInternalError("Internal server error", err)
	}

	lg := logger.From(r.Context())
	if appErr.StatusCode >= http.StatusInternalServerError {
		lg.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"code", appErr.Code,
			"error", err)
	} else {
		lg.Debug("request rejected",
			"method", r.Method,
			"path", r.URL.Path,
			"code", appErr.Code,
			"message", appErr.GetDetailedMessage())
	}

	h.writeAppError(w, appErr)
}

func (h *BaseHandler) writeAppError(w http.ResponseWriter, appErr *internal.AppError) {
	status, body := appErr.ToHTTPResponse()
	if status == 0 {
		status = http.StatusInternalServerError
	}
	h.WriteJSON(w, status, body)
}

// DecodeJSON decodes the request body into dst. An empty body is an error.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return internal.NewValidationError("request body is required", internal.ErrCodeInvalidRequestBody)
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return internal.NewValidationError("request body is required", internal.ErrCodeInvalidRequestBody)
		}
		return internal.NewValidationError("invalid request body", internal.ErrCodeInvalidRequestBody).WithCause(err)
	}
	return nil
}

// IDParam parses a positive int64 chi URL parameter.
func (h *BaseHandler) IDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, internal.NewValidationFieldError(name, "invalid "+name, internal.ErrCodeInvalidID)
	}
	return id, nil
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[7:])
}

// OptionalInt parses an optional integer query parameter.
func OptionalInt(values url.Values, key string) (*int64, error) {
	raw := values.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, internal.NewValidationFieldError(key, key+" must be an integer", internal.ErrCodeValidationFailed)
	}
	return &v, nil
}

func OptionalBool(values url.Values, key string) (*bool, error) {
	raw := values.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, internal.NewValidationFieldError(key, key+" must be true or false", internal.ErrCodeValidationFailed)
	}
	return &v, nil
}

func errorTypeForStatus(status int) internal.ErrorType {
	switch status {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		return internal.ErrorTypeValidation
	case http.StatusUnauthorized:
		return internal.ErrorTypeUnauthorized
	case http.StatusForbidden:
		return internal.ErrorTypeForbidden
	case http.StatusNotFound:
		return internal.ErrorTypeNotFound
	case http.StatusConflict:
		return internal.ErrorTypeConflict
	}
	return internal.ErrorTypeInternal
}
