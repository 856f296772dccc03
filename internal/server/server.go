package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/fetchora/fetchora/internal/pipeline"
)

// Config carries the web-layer knobs. Credentials never appear here: the
// YouTube API key arrives inside each request body and is discarded with it.
type Config struct {
	AllowedOrigins []string
	FetchTimeout   time.Duration
}

// Server exposes the comment-export pipeline over HTTP.
type Server struct {
	mux          *chi.Mux
	pipeline     *pipeline.Pipeline
	fetchTimeout time.Duration
}

func New(p *pipeline.Pipeline, cfg Config) *Server {
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 5 * time.Minute
	}

	s := &Server{
		mux:          chi.NewRouter(),
		pipeline:     p,
		fetchTimeout: cfg.FetchTimeout,
	}

	s.mux.Use(middleware.RequestID)
	s.mux.Use(requestLogger)
	s.mux.Use(middleware.Recoverer)
	s.mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	s.mux.Post("/fetch", s.handleFetch)
	s.mux.Get("/healthz", s.handleHealthz)
	s.mux.Get("/metrics", s.handleMetrics)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// requestLogger records one line per request. Request bodies are never
// logged; the API key only ever travels inside the body.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Info("[Server] Request handled",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())))
	})
}
