package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/atlas-itsm/atlas/internal/assets"
	"github.com/atlas-itsm/atlas/internal/audit"
	"github.com/atlas-itsm/atlas/internal/auth"
	"github.com/atlas-itsm/atlas/internal/employees"
	"github.com/atlas-itsm/atlas/internal/notifications"
	"github.com/atlas-itsm/atlas/internal/rbac"
	"github.com/atlas-itsm/atlas/internal/shared"
	"github.com/atlas-itsm/atlas/internal/tickets"
	"github.com/atlas-itsm/atlas/internal/users"
	"github.com/atlas-itsm/atlas/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	RBACMiddleware rbac.Middleware

	AuthHandler          *auth.Handler
	UsersHandler         *users.Handler
	EmployeesHandler     *employees.Handler
	AssetsHandler        *assets.Handler
	TicketsHandler       *tickets.Handler
	AuditHandler         *audit.Handler
	NotificationsHandler *notifications.Handler
	JobHandler           *jobs.Handler
}

// NewRouter constructs the chi.Router with Atlas defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)
	r.Use(params.RBACMiddleware.AttachUserInfo)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	if params.UsersHandler != nil {
		r.Route("/users", params.UsersHandler.MountRoutes)
	}
	if params.EmployeesHandler != nil {
		r.Route("/employees", params.EmployeesHandler.MountRoutes)
	}
	if params.AssetsHandler != nil {
		r.Route("/assets", params.AssetsHandler.MountRoutes)
	}
	if params.TicketsHandler != nil {
		r.Route("/tickets", params.TicketsHandler.MountRoutes)
	}
	if params.AuditHandler != nil {
		r.Route("/audit", params.AuditHandler.MountRoutes)
	}
	if params.NotificationsHandler != nil {
		r.Route("/notifications", params.NotificationsHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	return r
}
