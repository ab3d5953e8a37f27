package auth

import (
	"errors"
	"net/http"

	"github.com/frahmantamala/hr-assistant/internal"
	"github.com/frahmantamala/hr-assistant/internal/transport"
	"github.com/frahmantamala/hr-assistant/pkg/logger"
)

type ServiceAPI interface {
	Authenticate(dto ClientCredentialsDTO) (AccessToken, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

// Token handles POST /auth/token with client credentials.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	var dto ClientCredentialsDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	token, err := h.Service.Authenticate(dto)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			err = internal.NewAuthenticationError("invalid client credentials", internal.ErrCodeInvalidCredentials)
		case errors.Is(err, ErrScopeNotGranted), errors.Is(err, ErrUnknownScope):
			err = internal.NewForbiddenError(err.Error(), internal.ErrCodeInsufficientScope)
		}
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, token)
}

// AuthMiddleware requires a valid service bearer token and stores its claims
// in the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteAppError(w, r, internal.NewAuthenticationError("missing authorization token", internal.ErrCodeMissingToken))
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			code := internal.ErrCodeInvalidToken
			if errors.Is(err, ErrTokenExpired) {
				code = internal.ErrCodeTokenExpired
			}
			h.WriteAppError(w, r, internal.NewAuthenticationError(err.Error(), code))
			return
		}

		ctx := ContextWithClaims(r.Context(), claims)
		ctx = internal.ContextWithClient(ctx, claims.Client)
		ctx = logger.With(ctx, "client", claims.Client)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
