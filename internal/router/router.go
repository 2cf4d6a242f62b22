// Package router wires the HTTP surface. Credential endpoints get the
// per-IP rate limit; everything behind a session goes through the bearer
// guard, and the admin group additionally requires the admin role.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"clinic-appointment-api/internal/auth"
	"clinic-appointment-api/internal/handler"
	"clinic-appointment-api/internal/metrics"
	"clinic-appointment-api/internal/middleware"
	"clinic-appointment-api/pkg/logging"
)

type Config struct {
	Handler *handler.Handler
	Tokens  *auth.TokenService
	Limiter *middleware.RateLimiter
	Metrics http.Handler
	Observe *metrics.Metrics
	Logger  *logging.Logger
}

func New(cfg Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Instrument(cfg.Observe, cfg.Logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}

	authGuard := middleware.Auth(cfg.Tokens)
	throttle := middleware.RateLimit(cfg.Limiter)

	h := cfg.Handler
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(throttle)
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/refresh-token", h.Refresh)
		})
		r.Group(func(r chi.Router) {
			r.Use(authGuard)
			r.Post("/logout", h.Logout)
			r.Get("/getCurrentUser", h.CurrentUser)
			r.Post("/change-password", h.ChangePassword)
			r.Patch("/update-email", h.UpdateEmail)
			r.Patch("/updateUserProfile", h.UpdateProfilePhoto)
			r.Get("/getDoctors", h.GetDoctors)
			r.Get("/getDepartment", h.GetDepartments)
			r.Get("/getSlots", h.GetSlots)
			r.Post("/book-appointment", h.BookAppointment)
			r.Get("/get-appointments", h.GetAppointments)
		})
	})

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(throttle)
			r.Post("/signup", h.AdminSignup)
			r.Post("/login", h.AdminLogin)
			r.Post("/refresh-token", h.Refresh)
		})
		r.Group(func(r chi.Router) {
			r.Use(authGuard)
			r.Use(middleware.RequireAdmin)
			r.Post("/add-doctor", h.AddDoctor)
			r.Post("/add-department", h.AddDepartment)
			r.Get("/get-department", h.GetDepartments)
			r.Post("/add-medicine-category", h.AddMedicineCategory)
			r.Get("/get-medicine-category", h.GetMedicineCategories)
			r.Post("/add-medicine", h.AddMedicine)
		})
	})

	return r
}
