// Package mockserver serves the mock records of the inferred classes over
// a small read-only REST API so generated data hooks can run against
// something before a real backend exists.
package mockserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-typescaf/pkg/mockdata"
	"github.com/goliatone/go-typescaf/pkg/openapi"
	"github.com/goliatone/go-typescaf/pkg/render"
	"github.com/goliatone/go-typescaf/pkg/schema"
	"github.com/goliatone/go-typescaf/pkg/settings"
)

// Class is one class to serve.
type Class struct {
	Name       string
	Properties []schema.Property
}

// Resource is a served collection.
type Resource struct {
	Class      string
	Name       string
	PrimaryKey string
	Properties []schema.Property
	Records    []mockdata.Record
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and lifecycle logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithSynthesizer replaces the mock data synthesizer.
func WithSynthesizer(synth *mockdata.Synthesizer) Option {
	return func(s *Server) {
		s.synth = synth
	}
}

// Server routes requests to in-memory resources. Records are generated
// once, when the server is built.
type Server struct {
	base      string
	logger    *slog.Logger
	synth     *mockdata.Synthesizer
	resources map[string]*Resource
	router    chi.Router
}

// New builds a server for classes. Routes hang off the path of
// cfg.BaseRestAPIURL. Two classes mapping to the same resource name are an
// error.
func New(cfg settings.Settings, classes []Class, opts ...Option) (*Server, error) {
	s := &Server{resources: make(map[string]*Resource)}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.synth == nil {
		s.synth = mockdata.New()
	}

	base, err := openapi.BasePath(cfg.BaseRestAPIURL)
	if err != nil {
		return nil, fmt.Errorf("mockserver: %w", err)
	}
	s.base = base

	for _, class := range classes {
		component := render.Prepare(class.Name, class.Properties, cfg, s.synth)
		if existing, ok := s.resources[component.Resource]; ok {
			return nil, fmt.Errorf("mockserver: classes %s and %s both map to /%s", existing.Class, class.Name, component.Resource)
		}
		s.resources[component.Resource] = &Resource{
			Class:      class.Name,
			Name:       component.Resource,
			PrimaryKey: component.PrimaryKey,
			Properties: component.Types,
			Records:    component.MockData,
		}
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(allowOrigin)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mount := func(r chi.Router) {
		r.Get("/", s.handleIndex)
		r.Get("/_schema/{resource}", s.handleSchema)
		r.Get("/{resource}", s.handleList)
		r.Get("/{resource}/{key}", s.handleGet)
	}
	if s.base == "" {
		mount(r)
	} else {
		r.Route(s.base, mount)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" is not supported")
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// BasePath is the prefix every resource route hangs off.
func (s *Server) BasePath() string { return s.base }

// Resources lists the served resource names, sorted.
func (s *Server) Resources() []string {
	names := make([]string, 0, len(s.resources))
	for name := range s.resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resource returns a served collection by name.
func (s *Server) Resource(name string) (*Resource, bool) {
	res, ok := s.resources[name]
	return res, ok
}

// ListenAndServe serves on addr until ctx ends, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Mock server listening", "addr", addr, "base", s.base, "resources", s.Resources())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("Request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func allowOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, r)
	})
}

// writeJSON marshals v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}
