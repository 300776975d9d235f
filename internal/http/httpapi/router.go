package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog"

	"visualizer/internal/http/handlers"
	"visualizer/internal/middleware"
)

// RouterOptions tunes the middleware stack.
type RouterOptions struct {
	Logger             zerolog.Logger
	CORSAllowedOrigins []string
	RateLimitPerMinute int
	// TrustProxy mounts RealIP so forwarded client addresses replace the
	// peer address. Only safe behind a proxy that overwrites those headers.
	TrustProxy bool
	// StaticDir, when set, is served under /static/.
	StaticDir string
}

func NewRouter(app *handlers.App, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	if opts.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(
		middleware.RequestID(opts.Logger),
		middleware.Logger(opts.Logger),
		chimw.Recoverer,
		middleware.CORS(opts.CORSAllowedOrigins),
		gzip,
	)

	r.Get("/", app.Root)
	r.Get("/health", app.Health)
	r.Get("/options", app.Options)
	r.Get("/metrics", app.Metrics)

	if opts.StaticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir)))
		r.Get("/static/*", fs.ServeHTTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(opts.RateLimitPerMinute, time.Minute))
		r.Post("/visualize", app.Visualize)
		r.Post("/visualize/upload", app.VisualizeUpload)
	})

	r.Post("/prompt/generate", app.PromptGenerate)
	r.Post("/analyze", app.Analyze)
	r.Post("/code", app.Code)

	return r
}

func gzip(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}
