package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/recruitment/internal"
	"github.com/frahmantamala/recruitment/internal/core/user"
	"github.com/frahmantamala/recruitment/internal/transport"
	"github.com/frahmantamala/recruitment/pkg/logger"
)

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error)
	RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ResolveActor(ctx context.Context, username string) (user.Actor, error)
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

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	tokens, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, tokens)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	tokens, err := h.Service.RefreshTokens(r.Context(), dto.RefreshToken)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, tokens)
}

// Logout is stateless: tokens expire on their own, the client drops them.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.HandleServiceError(w, r, internal.ErrUnauthenticated)
		return
	}

	if _, err := h.Service.ValidateAccessToken(token); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AuthMiddleware requires a valid access token and places the resolved actor on the context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.HandleServiceError(w, r, internal.ErrUnauthenticated)
			return
		}

		actor, err := h.resolve(r.Context(), token)
		if err != nil {
			h.HandleServiceError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(h.withActor(r.Context(), actor)))
	})
}

// OptionalAuthMiddleware resolves the actor when a usable token is present and
// otherwise lets the request through anonymously.
func (h *Handler) OptionalAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		actor, err := h.resolve(r.Context(), token)
		if err != nil {
			logger.From(r.Context()).Debug("optional auth: continuing anonymously", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(h.withActor(r.Context(), actor)))
	})
}

func (h *Handler) resolve(ctx context.Context, token string) (user.Actor, error) {
	claims, err := h.Service.ValidateAccessToken(token)
	if err != nil {
		return user.Actor{}, err
	}
	return h.Service.ResolveActor(ctx, claims.Username)
}

func (h *Handler) withActor(ctx context.Context, actor user.Actor) context.Context {
	ctx = internal.ContextWithActor(ctx, actor)
	return logger.Attach(ctx, logger.From(ctx).With("user_id", actor.ID, "role", actor.Role))
}
