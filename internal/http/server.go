package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"fintrack/internal/ledger"
	"fintrack/internal/log"
	"fintrack/internal/seed"
	appweb "fintrack/web"
)

// Config holds the server settings that do not come from collaborators.
type Config struct {
	Addr               string
	RateLimitPerSecond float64
	RateLimitBurst     int
	Logger             *log.Logger
	// Clock defaults to time.Now; tests pin it.
	Clock func() time.Time
}

type Server struct {
	http.Server
	store       *ledger.Store
	seed        *seed.Source
	templates   *template.Template
	rateLimiter *rateLimiter
	metrics     *securityMetrics
	logger      *log.Logger
	now         func() time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(cfg Config, store *ledger.Store, src *seed.Source) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	if src == nil {
		src = seed.New("")
	}

	s := &Server{
		store:       store,
		seed:        src,
		rateLimiter: newRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
		metrics:     &securityMetrics{},
		logger:      logger,
		now:         now,
	}

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", log.FieldError, err)
		t = nil
	}
	s.templates = t

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(log.Middleware(logger))
	r.Use(s.securityHeaders)

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		r.Get("/static/*", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		})
	} else {
		logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Get("/", s.handleIndex)
	r.Get("/export", s.handleExport)
	r.Get("/api/dashboard", s.handleDashboard)
	r.Get("/api/transactions", s.handleListTransactions)

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Post("/api/transactions", s.handleAddTransaction)
		r.Post("/import", s.handleImport)
		r.Post("/seed", s.handleSeed)
		r.Post("/reset", s.handleReset)
	})

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Shutdown gracefully shuts down the server and the rate limiter cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady fails until templates are parsed, since the page cannot render
// without them.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
