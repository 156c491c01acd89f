package httpapi

import (
	"net/http"
	"time"

	"webgen/internal/http/handlers"
	"webgen/internal/infra"
	"webgen/internal/metrics"
	"webgen/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Options configures the middleware stack around the handlers.
type Options struct {
	Logger          infra.Logger
	Metrics         *metrics.Metrics
	AllowedOrigins  []string
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
	RateLimitPerMin int
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
	)
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
	}
	r.Use(
		middleware.CORS(opts.AllowedOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)

	r.Get("/", app.Root)
	r.Get("/health", app.Health)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute, app.RateLimited))

		r.Post("/generate-website", app.GenerateWebsite)
		r.Post("/edit-element", app.EditElement)
		r.Get("/get-images", app.GetImages)
		r.Post("/images/search", app.SearchImages)
		r.Post("/chat", app.Chat)
		r.Post("/process-payment", app.ProcessPayment)
		r.Post("/paypal-webhook", app.PaypalWebhook)
		r.Get("/website/{site_id}", app.GetWebsite)
		r.Get("/website/{site_id}/archive", app.WebsiteArchive)
	})

	return r
}
