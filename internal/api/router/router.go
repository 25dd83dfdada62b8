// Package router assembles the HTTP surface: public wizard, payment,
// and presale endpoints plus the JWT-gated dashboard routes.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ygangat/coaching-platform/internal/booking"
	httpmiddleware "github.com/ygangat/coaching-platform/internal/http/middleware"
	"github.com/ygangat/coaching-platform/internal/payments"
	"github.com/ygangat/coaching-platform/internal/presale"
	"github.com/ygangat/coaching-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger          *logging.Logger
	BookingHandler  *booking.Handler
	PaymentsHandler *payments.IntentHandler
	PresaleHandler  *presale.Handler
	MetricsHandler  http.Handler

	AdminJWTSecret   string
	AdminAllowEmails []string

	CORSAllowedOrigins []string

	// Per-IP rate limiting on the public write endpoints. Zero
	// disables it.
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

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

	// Public read endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.PresaleHandler != nil {
			public.Get("/presale/config", cfg.PresaleHandler.GetConfig)
		}
	})

	// Public write endpoints, rate limited per IP
	r.Group(func(public chi.Router) {
		if cfg.RateLimitPerSecond > 0 {
			public.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
		}
		if cfg.BookingHandler != nil {
			public.Mount("/booking", cfg.BookingHandler.Routes())
		}
		if cfg.PaymentsHandler != nil {
			public.Post("/payments/intents", cfg.PaymentsHandler.CreateIntent)
		}
		if cfg.PresaleHandler != nil {
			public.Post("/presale/orders", cfg.PresaleHandler.SubmitOrder)
		}
	})

	// Dashboard endpoints
	r.Route("/admin", func(admin chi.Router) {
		admin.Use(httpmiddleware.AdminJWT(cfg.AdminJWTSecret, cfg.AdminAllowEmails))
		if cfg.PresaleHandler != nil {
			admin.Get("/presale/config", cfg.PresaleHandler.GetConfig)
			admin.Put("/presale/config", cfg.PresaleHandler.UpdateConfig)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
