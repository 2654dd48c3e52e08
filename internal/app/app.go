package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goreportcsv/internal/session"
	"github.com/hyperifyio/goreportcsv/internal/web"
)

// App wires the conversion session to its HTTP boundary and owns the server
// lifecycle.
type App struct {
	cfg     Config
	session *session.Session
	server  *web.Server
}

// New validates cfg and assembles the application. No I/O happens until Run.
func New(cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	sess := session.New(cfg.PreviewRows)
	return &App{
		cfg:     cfg,
		session: sess,
		server:  web.NewServer(sess, cfg.Addr, cfg.MaxUploadBytes),
	}, nil
}

// Session exposes the orchestrator for tests and embedding callers.
func (a *App) Session() *session.Session {
	return a.session
}

// Run serves HTTP until ctx is cancelled or the listener fails, then drains
// in-flight requests within the configured shutdown timeout.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
