package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/phishguard/phishguard/internal/artifact"
	"github.com/phishguard/phishguard/internal/feature"
	"github.com/phishguard/phishguard/internal/predictor"
)

//go:embed templates/*.html
var templateFS embed.FS

// Default server timeouts. The server only renders small pages, so tight
// limits are safe and bound the damage of slow-client attacks.
const (
	// DefaultAddr is the default listen address. Loopback only: the
	// front-end has no authentication.
	DefaultAddr = "127.0.0.1:8080"

	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 5 * time.Second
)

// Server serves the URL analysis web interface.
type Server struct {
	predictor *predictor.Predictor
	logger    *slog.Logger
	addr      string

	templates *template.Template
	httpSrv   *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address. Default 127.0.0.1:8080.
func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a Server over the given predictor.
func New(p *predictor.Predictor, opts ...Option) (*Server, error) {
	s := &Server{
		predictor: p,
		addr:      DefaultAddr,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	s.templates = tmpl

	mux := http.NewServeMux()
	s.register(mux)

	s.httpSrv = &http.Server{
		Addr:         s.addr,
		Handler:      mux,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}
	return s, nil
}

// register mounts routes on the given mux.
func (s *Server) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.health)
	mux.HandleFunc("POST /analyze", s.analyze)
	mux.HandleFunc("GET /{$}", s.index)
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Start runs the server until the context is cancelled, then shuts down
// gracefully. The model artifact is loaded before listening so a missing
// or drifted model fails startup instead of every request.
func (s *Server) Start(ctx context.Context) error {
	if err := s.predictor.Load(); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting web interface", "addr", s.addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down web interface")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return <-errCh
}

// ---------- endpoints ----------

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck // Best effort response
}

func (s *Server) index(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, "index.html", nil)
}

// resultView is the data rendered on the verdict page.
type resultView struct {
	URL        string
	Safe       bool
	Confidence float64
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	rawURL := r.PostFormValue("URL")

	pred, err := s.predictor.Predict(rawURL)
	if err != nil {
		s.renderError(w, rawURL, err)
		return
	}

	s.logger.Info("analyzed url",
		"url", rawURL,
		"phishing", pred.IsPhishing(),
		"confidence", pred.Confidence,
	)

	s.render(w, http.StatusOK, "result.html", resultView{
		URL:        rawURL,
		Safe:       pred.Safe(),
		Confidence: pred.Confidence,
	})
}

// errorView is the data rendered on the error page.
type errorView struct {
	Message string
}

// renderError maps a prediction failure to an error page. The status code
// distinguishes caller mistakes from server-side problems, and the page is
// always an explicit error: a failed analysis never renders a verdict.
func (s *Server) renderError(w http.ResponseWriter, rawURL string, err error) {
	status := http.StatusInternalServerError
	message := "The URL could not be analyzed. Please try again."

	switch {
	case errors.Is(err, feature.ErrEmptyURL):
		status = http.StatusBadRequest
		message = "No URL was provided. Enter a URL to analyze."
	case errors.Is(err, feature.ErrInvalidURL):
		status = http.StatusBadRequest
		message = "The submitted URL could not be parsed. Check it for typos or stray spaces."
	case errors.Is(err, artifact.ErrModelNotFound):
		status = http.StatusServiceUnavailable
		message = "No trained model is available. Train a model before using the web interface."
	case errors.Is(err, artifact.ErrSchemaMismatch), errors.Is(err, artifact.ErrArtifactCorrupt):
		status = http.StatusServiceUnavailable
		message = "The trained model is not usable by this version. Retrain the model."
	}

	s.logger.Error("analysis failed", "url", rawURL, "error", err)
	s.render(w, status, "error.html", errorView{Message: message})
}

// render writes a template with the given status code.
func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("failed to render template", "template", name, "error", err)
	}
}
