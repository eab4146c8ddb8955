// Package api implements the codecity HTTP API.
//
// Routes:
//
//	GET    /healthz                          build info
//	POST   /v1/layouts                       pack an entity list and store it
//	GET    /v1/layouts/{id}                  fetch a stored layout
//	GET    /v1/layouts/{id}/render/{format}  render a stored layout
//	DELETE /v1/layouts/{id}                  delete a stored layout
//
// Errors are JSON objects {"code": ..., "message": ...} whose status is
// derived from the code.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/codecity/pkg/pipeline"
	"github.com/matzehuels/codecity/pkg/store"
)

// DefaultMaxBodyBytes bounds request bodies when Options.MaxBodyBytes is
// unset.
const DefaultMaxBodyBytes = 32 << 20

// Options configures a Server.
type Options struct {
	// Defaults are applied to every pack and render request before the
	// request's own query parameters.
	Defaults pipeline.Options

	MaxBodyBytes int64
	Logger       *log.Logger
}

// Server serves the API. It is safe for concurrent use.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	defaults pipeline.Options
	maxBody  int64
	logger   *log.Logger
	router   chi.Router
}

// New creates a server backed by runner and st.
func New(runner *pipeline.Runner, st store.Store, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = runner.Logger
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	s := &Server{
		runner:   runner,
		store:    st,
		defaults: opts.Defaults,
		maxBody:  opts.MaxBodyBytes,
		logger:   opts.Logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/layouts", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(s.requireID)
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Get("/render/{format}", s.handleRender)
		})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, s.logger, errNotFound("no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Code: "METHOD_NOT_ALLOWED", Message: r.Method + " not allowed"})
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
