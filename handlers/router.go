package handlers

import (
	"html/template"
	"net/http"
	"time"

	"overtimepay/config"
	"overtimepay/database"
	"overtimepay/middleware"
	"overtimepay/models"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(cfg *config.Config, store *database.Store, templates map[string]*template.Template) http.Handler {
	authHandler := NewAuthHandler(cfg, store, templates)
	dashboardHandler := NewDashboardHandler(cfg, store, templates)
	employeeHandler := NewEmployeeHandler(cfg, store, templates)
	overtimeHandler := NewOvertimeHandler(cfg, store, templates)
	receiptHandler := NewReceiptHandler(cfg, store, templates)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.RequestLogger)
	router.Use(middleware.Metrics)
	router.Use(chimiddleware.Recoverer)

	// Public routes
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())
	router.Get("/", authHandler.Home)
	router.Get("/login", authHandler.LoginPage)
	router.With(httprate.LimitByIP(cfg.LoginRateLimit, time.Minute)).Post("/login", authHandler.Login)
	router.Get("/setup", authHandler.SetupPage)
	router.Post("/setup", authHandler.Setup)

	// JSON API
	router.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins(),
			AllowedMethods:   []string{"GET", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
		r.Use(middleware.AuthMiddleware(store))
		r.Get("/dashboard", dashboardHandler.API)
		r.Get("/receipts", receiptHandler.API)
	})

	// Protected routes
	router.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(store))

		// Logout and password change stay reachable while a change is pending
		r.Get("/logout", authHandler.Logout)
		r.Get("/change-password", authHandler.ChangePasswordPage)
		r.Post("/change-password", authHandler.ChangePassword)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePasswordChange)

			r.Post("/confidential", authHandler.ToggleConfidential)
			r.Get("/dashboard", dashboardHandler.Page)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", employeeHandler.List)
				r.Post("/", employeeHandler.Create)
				r.Get("/export", employeeHandler.Export)
				r.Get("/batch", employeeHandler.BatchPage)
				r.Post("/batch/preview", employeeHandler.BatchPreview)
				r.Post("/batch", employeeHandler.BatchImport)
				r.Get("/{id}/edit", employeeHandler.EditPage)
				r.Post("/{id}/edit", employeeHandler.Update)
				r.Post("/{id}/toggle", employeeHandler.ToggleActive)
			})

			r.Route("/overtime", func(r chi.Router) {
				r.Get("/", overtimeHandler.List)
				r.Get("/new", overtimeHandler.NewPage)
				r.Post("/new", overtimeHandler.Create)
				r.Get("/export", overtimeHandler.Export)
				r.Get("/print", overtimeHandler.Print)
				r.Get("/batch", overtimeHandler.BatchPage)
				r.Post("/batch/preview", overtimeHandler.BatchPreview)
				r.Post("/batch", overtimeHandler.BatchImport)
				r.Get("/{id}/edit", overtimeHandler.EditPage)
				r.Post("/{id}/edit", overtimeHandler.Update)
				r.Post("/{id}/delete", overtimeHandler.Delete)
			})

			r.Route("/receipts", func(r chi.Router) {
				r.Get("/", receiptHandler.List)
				r.Get("/print", receiptHandler.Print)
				r.Get("/export", receiptHandler.Export)
			})

			// Admin only routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin))
				r.Get("/users", authHandler.UsersPage)
				r.Post("/users", authHandler.CreateUser)
			})
		})
	})

	return router
}
