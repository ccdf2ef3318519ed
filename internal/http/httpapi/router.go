package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"brandmock/internal/http/handlers"
	"brandmock/internal/middleware"
)

// NewRouter assembles the API surface: health, mockup generation, document
// downloads, and the static route serving stored assets.
func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
	)
	if len(app.Cfg.CORSAllowedOrigins) > 0 {
		r.Use(middleware.CORS(app.Cfg.CORSAllowedOrigins))
	}
	if app.Cfg.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(app.Cfg.RateLimitPerMin, time.Minute))
	}

	r.Get("/v1/healthz", app.Health)
	r.Route("/v1/mockups", func(r chi.Router) {
		r.Post("/", app.CreateMockups)
		r.Get("/{id}/pdf", app.DownloadPDF)
		r.Get("/{id}/archive", app.DownloadArchive)
	})

	if base := app.Store.BasePath(); base != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(base))))
	}

	return r
}
