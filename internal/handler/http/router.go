package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clinicore/backend/internal/auth"
	"github.com/clinicore/backend/pkg/health"
	"github.com/clinicore/backend/pkg/middleware"
)

// RouterConfig carries everything the router needs.
type RouterConfig struct {
	ServiceName  string
	Logger       *slog.Logger
	TokenManager *auth.Manager
	Health       *health.Handler
	Auth         *AuthHandler
	Users        *UserHandler
	Patients     *PatientHandler
	Doctors      *DoctorHandler
}

// NewRouter builds the HTTP route tree with the full middleware stack.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.StripSlashes)
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(SessionGate(cfg.TokenManager))

	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/user", func(r chi.Router) {
		r.Post("/register", cfg.Auth.Register)
		r.Post("/login", cfg.Auth.Login)
		r.Put("/verify-email", cfg.Auth.VerifyEmail)
		r.Post("/refresh", cfg.Auth.Refresh)
		r.Post("/logout", cfg.Auth.Logout)
		r.Post("/google-login", cfg.Auth.GoogleLogin)

		r.Get("/profile/{user_id}", cfg.Users.Profile)
		r.Patch("/profile_update/{user_id}", cfg.Users.UpdateProfile)
		r.Put("/change_password/{user_id}", cfg.Users.ChangePassword)
	})

	r.Route("/patient", func(r chi.Router) {
		r.Post("/add", cfg.Patients.Create)
		r.Get("/display", cfg.Patients.List)
		r.Get("/display/{patient_id}", cfg.Patients.Details)
		r.Put("/update/{patient_id}", cfg.Patients.Update)
		r.Delete("/delete/{patient_id}", cfg.Patients.Delete)
	})

	r.Route("/doctor", func(r chi.Router) {
		r.Post("/add", cfg.Doctors.Create)
		r.Get("/display", cfg.Doctors.List)
		r.Get("/display/{doctor_id}", cfg.Doctors.Profile)
		r.Put("/update/{doctor_id}", cfg.Doctors.Update)
		r.Get("/genders", cfg.Doctors.Genders)
		r.Get("/qualifications", cfg.Doctors.Qualifications)
	})

	return r
}
