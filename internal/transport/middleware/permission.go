package middleware

import (
	"net/http"
	"strings"

	"github.com/frahmantamala/hr-assistant/internal"
	"github.com/frahmantamala/hr-assistant/internal/auth"
	"github.com/frahmantamala/hr-assistant/internal/transport"
	"github.com/frahmantamala/hr-assistant/pkg/logger"
)

// RequireScope lets a request through only when its service token holds one
// of scopes. It must run after the auth middleware.
func RequireScope(base *transport.BaseHandler, scopes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.ClaimsFromContext(r.Context())
			if !ok {
				base.WriteAppError(w, r, internal.NewAuthenticationError("missing authorization token", internal.ErrCodeMissingToken))
				return
			}

			for _, scope := range scopes {
				if claims.HasScope(scope) {
					next.ServeHTTP(w, r)
					return
				}
			}

			logger.From(r.Context()).Warn("access denied: token lacks required scope",
				"client", claims.Client,
				"required_scopes", scopes,
				"token_scopes", claims.Scopes)
			base.WriteAppError(w, r, internal.NewForbiddenError(
				"token lacks scope "+strings.Join(scopes, " or "), internal.ErrCodeInsufficientScope))
		})
	}
}
