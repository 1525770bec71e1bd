// Package router assembles the HTTP surface: public funnel endpoints, the
// admin review API, and operational endpoints.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/editmelo/studio-platform/internal/http/handlers"
	httpmiddleware "github.com/editmelo/studio-platform/internal/http/middleware"
	"github.com/editmelo/studio-platform/internal/intake"
	"github.com/editmelo/studio-platform/internal/leads"
	"github.com/editmelo/studio-platform/internal/uploads"
	"github.com/editmelo/studio-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	LeadsHandler   *leads.Handler
	IntakeHandler  *intake.Handler
	IntakeGate     *intake.Gate
	UploadsHandler *uploads.Handler

	// Admin review API (optional, requires AdminAuthSecret and RoleChecker)
	AdminLeads      *handlers.AdminLeadsHandler
	AdminIntakes    *handlers.AdminIntakesHandler
	AdminAuthSecret string
	RoleChecker     httpmiddleware.RoleChecker

	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.LeadsHandler != nil {
			public.Post("/leads", cfg.LeadsHandler.SubmitLead)
		}
		public.Route("/intake", func(r chi.Router) {
			if cfg.IntakeGate != nil {
				r.Post("/verify-password", cfg.IntakeGate.VerifyPassword)
			}
			if cfg.UploadsHandler != nil {
				r.Post("/assets", cfg.UploadsHandler.UploadAsset)
			}
			if cfg.IntakeHandler != nil {
				r.Post("/", cfg.IntakeHandler.SubmitIntake)
			}
		})
	})

	// Admin routes (protected by JWT plus an admin role check)
	if cfg.AdminAuthSecret != "" && cfg.RoleChecker != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Use(httpmiddleware.RequireAdminRole(cfg.RoleChecker, cfg.Logger))

			if cfg.AdminLeads != nil {
				admin.Get("/leads", cfg.AdminLeads.ListLeads)
				admin.Get("/leads/{leadID}", cfg.AdminLeads.GetLead)
				admin.Delete("/leads/{leadID}", cfg.AdminLeads.DeleteLead)
			}
			if cfg.AdminIntakes != nil {
				admin.Get("/intakes", cfg.AdminIntakes.ListIntakes)
				admin.Get("/intakes/{intakeID}", cfg.AdminIntakes.GetIntake)
				admin.Delete("/intakes/{intakeID}", cfg.AdminIntakes.DeleteIntake)
			}
			if cfg.UploadsHandler != nil {
				admin.Post("/signed-urls", cfg.UploadsHandler.SignedURLs)
			}
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
