// Package web provides the HTTP server and handlers for the report
// conversion UI.
package web

import (
	"context"
	"embed"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goreportcsv/internal/session"
)

//go:embed ui
var uiFS embed.FS

// Server is the HTTP boundary over one conversion session: it serves the
// embedded page and exposes the upload, select, snapshot, download and reset
// operations as a small JSON API.
type Server struct {
	session        *session.Session
	maxUploadBytes int64
	router         *chi.Mux
	server         *http.Server
}

// NewServer wires a router around the given session. maxUploadBytes caps the
// accepted request body on the upload endpoint.
func NewServer(sess *session.Session, addr string, maxUploadBytes int64) *Server {
	s := &Server{
		session:        sess,
		maxUploadBytes: maxUploadBytes,
		router:         chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/ui/app.js", s.handleAppJS)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/upload", s.handleUpload)
		r.Post("/select", s.handleSelect)
		r.Get("/session", s.handleSession)
		r.Get("/download", s.handleDownload)
		r.Post("/reset", s.handleReset)
	})
}

// Start begins listening for HTTP requests and blocks until the listener
// fails or Shutdown is called. Shutdown may be called before or during
// Start; either way Start returns http.ErrServerClosed.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("listening")
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// requestLogger emits one structured event per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
