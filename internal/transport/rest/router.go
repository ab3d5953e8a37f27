package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/hr-assistant/internal/auth"
	"github.com/frahmantamala/hr-assistant/internal/dispatch"
	"github.com/frahmantamala/hr-assistant/internal/identity"
	"github.com/frahmantamala/hr-assistant/internal/report"
	"github.com/frahmantamala/hr-assistant/internal/transport"
	"github.com/frahmantamala/hr-assistant/internal/transport/middleware"
	"github.com/frahmantamala/hr-assistant/internal/transport/swagger"
	"github.com/go-chi/chi"
)

// Handlers groups everything the router mounts. Nil handlers leave their
// routes out.
type Handlers struct {
	Auth     *auth.Handler
	Dispatch *dispatch.Handler
	Identity *identity.Handler
	Report   *report.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, sessions SessionCounter, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db, sessions)
	base := transport.NewBaseHandler(logger)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	if h.Dispatch != nil {
		router.Get("/openapi.json", h.Dispatch.OpenAPI)
		router.Handle("/swagger/*", swagger.Handler("/openapi.json"))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if h.Auth == nil {
			return
		}
		r.Post("/auth/token", h.Auth.Token)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.Dispatch != nil {
				pr.Group(func(ir chi.Router) {
					ir.Use(middleware.RequireScope(base, auth.ScopeInvoke))
					ir.Post("/invoke", h.Dispatch.Invoke)
					ir.Get("/operations", h.Dispatch.Operations)
				})
			}

			if h.Identity != nil {
				pr.Route("/links", func(lr chi.Router) {
					lr.Use(middleware.RequireScope(base, auth.ScopeLink))
					lr.Post("/", h.Identity.CreateLink)
					lr.Delete("/{token}", h.Identity.DeleteLink)
				})
			}

			if h.Report != nil {
				pr.Group(func(rr chi.Router) {
					rr.Use(middleware.RequireScope(base, auth.ScopeReports))
					rr.Route("/reports", func(rp chi.Router) {
						rp.Get("/on-leave", h.Report.OnLeave)
						rp.Get("/upcoming", h.Report.Upcoming)
						rp.Get("/pending", h.Report.Pending)
						rp.Get("/low-balance", h.Report.LowBalance)
						rp.Get("/leave-statistics", h.Report.Statistics)
					})
					rr.Get("/departments", h.Report.Departments)
				})
			}
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		base.WriteError(w, http.StatusNotFound, "route not found")
	})
}
