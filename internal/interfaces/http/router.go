package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/ContractPilot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ContractPilot/internal/interfaces/http/handlers"
	"github.com/turtacn/ContractPilot/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and middleware dependencies of the
// route tree. Nil handlers leave their routes unmounted.
type RouterConfig struct {
	ContractHandler *handlers.ContractHandler
	RiskHandler     *handlers.RiskHandler
	HealthHandler   *handlers.HealthHandler

	Logger         logging.Logger
	LoggingConfig  middleware.LoggingConfig
	CORS           *middleware.CORSConfig
	MaxBodySize    int64
	RateLimit      middleware.RateLimitConfig
	Metrics        middleware.RequestRecorder
	MetricsHandler http.Handler
	MetricsPath    string
}

// NewRouter builds the complete HTTP route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogging(cfg.Logger, cfg.LoggingConfig))
	r.Use(chimw.Recoverer)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}

	if cfg.MetricsHandler != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.BodyLimit(cfg.MaxBodySize))
		registerContractRoutes(api, cfg.ContractHandler, middleware.RateLimit(cfg.RateLimit))
		registerRiskRoutes(api, cfg.RiskHandler)
	})

	return r
}

func registerContractRoutes(r chi.Router, h *handlers.ContractHandler, limit func(http.Handler) http.Handler) {
	if h == nil {
		return
	}
	r.Route("/contracts", func(cr chi.Router) {
		// Both call the review service; generate also prints a PDF.
		cr.With(limit).Post("/", h.Generate)
		cr.With(limit).Post("/preview", h.Preview)

		cr.Route("/{contractID}", func(item chi.Router) {
			item.Get("/", h.Get)
			item.Post("/approve", h.Approve)
			item.Get("/document", h.Document)
		})
	})
}

func registerRiskRoutes(r chi.Router, h *handlers.RiskHandler) {
	if h == nil {
		return
	}
	r.Post("/risk/assess", h.Assess)
}

//Personal.AI order the ending
