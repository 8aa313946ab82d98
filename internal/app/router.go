package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/duetrack/duetrack/internal/audit"
	"github.com/duetrack/duetrack/internal/auth"
	"github.com/duetrack/duetrack/internal/customers"
	"github.com/duetrack/duetrack/internal/payments"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	AuthHandler      *auth.Handler
	CustomersHandler *customers.Handler
	AuditHandler     *audit.Handler
	PaymentsHandler  *payments.Handler
}

// NewRouter constructs the chi.Router with duetrack defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			params.AuthHandler.MountRoutes(r)
			params.CustomersHandler.MountUserRoutes(r)
		})
		r.Route("/admin", func(r chi.Router) {
			params.CustomersHandler.MountAdminRoutes(r)
			params.AuditHandler.MountRoutes(r)
			params.PaymentsHandler.MountAdminRoutes(r)
		})
		r.Route("/customer", params.PaymentsHandler.MountCustomerRoutes)
		r.Route("/payment", params.PaymentsHandler.MountStatusRoutes)
	})

	return r
}
