package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"headshot/internal/http/handlers"
	"headshot/internal/metrics"
	"headshot/internal/middleware"
)

type RouterOptions struct {
	Logger         zerolog.Logger
	Metrics        *metrics.Collector
	AllowedOrigins []string
	RateLimit      int
	// TrustProxyHeaders lets X-Forwarded-For and X-Real-IP replace the peer
	// address. Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool
}

func NewRouter(app *handlers.App, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	var rec middleware.RequestRecorder
	if opts.Metrics != nil {
		rec = opts.Metrics
	}

	r.Use(middleware.RequestID)
	if opts.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(
		middleware.Logger(opts.Logger, rec),
		chimw.Recoverer,
		middleware.CORS(opts.AllowedOrigins),
	)

	r.NotFound(app.NotFound)
	r.MethodNotAllowed(app.MethodNotAllowed)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/styles", app.Styles)

	// Generation hits paid providers; only these routes are throttled.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(opts.RateLimit, time.Minute))
		r.Post("/v1/headshots", app.CreateHeadshot)
		r.Post("/v1/completions", app.CreateCompletion)
	})

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	return r
}
