package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/AntoineGS/dynform/internal/form"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"
)

// Server timing defaults.
const (
	DefaultIdleTimeout = 30 * time.Minute
	sweepInterval      = time.Minute
	shutdownTimeout    = 5 * time.Second
	readHeaderTimeout  = 10 * time.Second
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "dynform_session"

// Options configures a Server.
type Options struct {
	Logger *slog.Logger
	// Notifier receives every success notification after the flash message.
	Notifier form.Notifier
	// Form configures each new session; its Notifier field is ignored.
	Form        form.Options
	IdleTimeout time.Duration
}

// Server is the HTML front end.
type Server struct {
	logger   *slog.Logger
	registry *Registry
	pages    *pageRenderer
	idle     time.Duration
}

// NewServer creates a server with an empty session registry.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	idle := opts.IdleTimeout
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}

	formOpts := opts.Form
	formOpts.Notifier = nil
	if formOpts.Logger == nil {
		formOpts.Logger = logger
	}

	return &Server{
		logger:   logger,
		registry: NewRegistry(formOpts, opts.Notifier),
		pages:    newPageRenderer(),
		idle:     idle,
	}
}

// Registry returns the server's session registry.
func (s *Server) Registry() *Registry {
	return s.registry
}

// Handler returns the HTTP handler serving the form.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Get("/healthz", handleHealth)
	r.Post("/fields", s.handleAdd)
	r.Post("/fields/{id}", s.handleUpdate)
	r.Post("/fields/{id}/delete", s.handleDelete)
	r.Post("/submit", s.handleSubmit)

	return r
}

// Serve listens on addr until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled, then shuts down
// gracefully. Idle sessions are swept while serving.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("serving form", slog.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-gCtx.Done():
				return nil
			case <-ticker.C:
				if n := s.registry.Sweep(s.idle); n > 0 {
					s.logger.Debug("swept idle sessions", slog.Int("count", n))
				}
			}
		}
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	})

	return g.Wait()
}
