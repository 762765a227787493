package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/docs"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/auth"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/handlers"
	appmw "github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/middleware"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/models"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AllowedOrigins []string
}

func NewRoutes(h *handlers.Handler, tokens *auth.TokenIssuer, opts Options) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appmw.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	authenticated := appmw.Authenticated(tokens)
	adminOnly := appmw.RequireRole(models.RoleAdmin)

	r.Get("/health", h.HealthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", h.SignupHandler)
			r.Post("/login", h.LoginHandler)
			r.Post("/admin/signup", h.AdminSignupHandler)
			r.Post("/admin/login", h.AdminLoginHandler)
			r.With(authenticated).Get("/me", h.MeHandler)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.ListProjectsHandler)
			r.Get("/{id}", h.GetProjectHandler)
			r.With(authenticated, adminOnly).Post("/", h.CreateProjectHandler)
			r.With(authenticated, adminOnly).Put("/{id}", h.UpdateProjectHandler)
			r.With(authenticated, adminOnly).Delete("/{id}", h.DeleteProjectHandler)
		})

		r.Route("/donations", func(r chi.Router) {
			r.Use(authenticated)
			r.With(appmw.RequireRole(models.RoleDonor, models.RoleAdmin)).Get("/history", h.DonationHistoryHandler)
			r.With(appmw.RequireRole(models.RoleDonor)).Post("/make-donation", h.MakeDonationHandler)
		})
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}
