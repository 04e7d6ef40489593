package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"botworkshop/internal/http/handlers"
	"botworkshop/internal/middleware"
)

// Options carries the router's own knobs; handler deps live in handlers.App.
type Options struct {
	FrontendURL    string
	DefaultLocale  string
	CountryLookup  middleware.CountryLookup
	RateLimitPerIP int
	UploadDir      string
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimiddleware.RealIP,
		chimiddleware.Recoverer,
		middleware.CORS(opts.FrontendURL),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
		middleware.Logger(app.Logger),
	)

	r.Get("/v1/healthz", app.Healthz)

	r.Route("/api", func(r chi.Router) {
		r.Route("/video", func(r chi.Router) {
			// Generation and removal hit paid upstreams; keep them rate limited.
			r.With(middleware.RateLimit(opts.RateLimitPerIP, time.Minute)).
				Post("/generate", app.GenerateVideo)
			r.Get("/result/{id}", app.VideoResult)
			r.With(middleware.RateLimit(opts.RateLimitPerIP, time.Minute)).
				Post("/remove-bg", app.RemoveBackground)
			r.With(middleware.RateLimit(opts.RateLimitPerIP, time.Minute)).
				Post("/animate", app.Animate)
		})

		r.Route("/bots", func(r chi.Router) {
			r.Get("/", app.ListBots)
			r.Post("/", app.CreateBot)
			r.Get("/{id}", app.GetBot)
			r.Put("/{id}", app.UpdateBot)
			r.Delete("/{id}", app.DeleteBot)
		})

		r.Post("/ask", app.Ask)
		r.Get("/voices", app.ListVoices)
		r.Post("/tts", app.Speak)
		r.With(middleware.RateLimit(opts.RateLimitPerIP, time.Minute)).
			Post("/generate-image", app.GenerateImage)
		r.Post("/upload-image", app.UploadImage)
	})

	if opts.UploadDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	return r
}
