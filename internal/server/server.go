package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/voyagen/videoswitch/api"
	"github.com/voyagen/videoswitch/internal/config"
	"github.com/voyagen/videoswitch/internal/control"
	"github.com/voyagen/videoswitch/internal/playlist"
	"github.com/voyagen/videoswitch/internal/store"
)

// maxFormMemory bounds multipart submissions held in memory.
const maxFormMemory = 1 << 20

// Server holds dependencies for the HTTP API.
type Server struct {
	store   store.Store
	control *control.Service
	cfg     *config.Config
	mux     *http.ServeMux
}

// New creates a Server and registers routes.
func New(s store.Store, cfg *config.Config) *Server {
	srv := &Server{store: s, control: control.New(s), cfg: cfg, mux: http.NewServeMux()}
	srv.routes()
	return srv
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	// Control API. Triggers live in the query string and the POST form, not in the route.
	s.mux.HandleFunc("/control.php", s.handleControl)
	s.mux.HandleFunc("/control", s.handleControl)

	s.mux.HandleFunc("GET /playlist.m3u", s.handlePlaylist)

	// Docs
	s.mux.HandleFunc("GET /api/docs", handleSwaggerUI)
	s.mux.HandleFunc("GET /api/docs/openapi.yaml", handleOpenAPISpec)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server on the configured port.
// It blocks until the server is shut down or ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := ":" + s.cfg.ServerPort
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      withCORS(withLogging(s)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Errorf("server shutdown: %v", err)
		}
	}()

	log.Infof("listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("ListenAndServe: %w", err)
	}
	return nil
}

// --- handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeErr(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleControl serves the channel list when the query string carries
// getChannels and records a submission when the POST form carries dataType.
// A request may do both; a failed list ends the request.
func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	log.Debug("control handler started")

	if r.URL.Query().Has("getChannels") {
		if !s.serveChannels(w, r) {
			return
		}
	}

	if r.Method != http.MethodPost {
		return
	}
	if err := parseForm(r); err != nil {
		log.Warnf("control: parse form: %v", err)
		return
	}
	if _, ok := r.PostForm["dataType"]; !ok {
		return
	}
	s.submit(r.Context(), r.PostForm.Get("dataType"), r.PostForm.Get("data"))
}

// serveChannels writes the channel list. On failure the raw store error text is
// the whole response body and false is returned.
func (s *Server) serveChannels(w http.ResponseWriter, r *http.Request) bool {
	channels, err := s.control.ListChannels(r.Context())
	if err != nil {
		log.Errorf("getChannels: %v", err)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = fmt.Fprint(w, rootCause(err).Error())
		return false
	}
	log.Infof("getChannels served: %d channels", len(channels))
	writeJSON(w, http.StatusOK, channels)
	return true
}

// submit records a submission. Outcomes are only visible in the log.
func (s *Server) submit(ctx context.Context, dataType, data string) {
	res, err := s.control.Submit(ctx, dataType, data)
	if err == nil {
		log.Infof("channel details recorded for channel %d", res.Channel)
		return
	}

	var cerr *control.Error
	if errors.As(err, &cerr) && cerr.Kind == control.KindUnknownDataType {
		log.Warnf("Unknown dataType: %s", dataType)
		return
	}
	log.Errorf("Error inserting channel details '%s': %v", data, err)
}

func (s *Server) handlePlaylist(w http.ResponseWriter, r *http.Request) {
	channels, err := s.control.ListChannels(r.Context())
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "audio/x-mpegurl")
	w.WriteHeader(http.StatusOK)
	if _, err := playlist.WriteM3U(w, channels); err != nil {
		log.Warnf("playlist: %v", err)
	}
}

// --- middleware ---

// withCORS adds CORS headers to every response and handles preflight OPTIONS requests.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// withLogging wraps a handler and logs each request with method, path, status, and duration.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		path := r.URL.Path
		if r.URL.RawQuery != "" {
			path += "?" + r.URL.RawQuery
		}
		log.Debugf("%-7s %s %3d %s", r.Method, path, sw.status, formatDuration(time.Since(start)))
	})
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dus", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}

// --- helpers ---

// APIError is the error envelope for the auxiliary JSON routes.
type APIError struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxFormMemory)
	}
	return r.ParseForm()
}

// rootCause returns the innermost wrapped error, which is the database's own message.
func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("writeJSON: %v", err)
	}
}

func writeErr(w http.ResponseWriter, status int, err error) {
	if status >= 500 {
		log.Errorf("ERROR %d: %v", status, err)
	}
	writeJSON(w, status, APIError{
		Status: status,
		Error:  http.StatusText(status),
		Detail: err.Error(),
	})
}

// --- docs handlers ---

func handleOpenAPISpec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(api.OpenAPISpec)
}

func handleSwaggerUI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, swaggerUIHTML)
}

const swaggerUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Video Switch API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
  <style>html{box-sizing:border-box;overflow-y:scroll}*,*:before,*:after{box-sizing:inherit}body{margin:0;background:#fafafa}</style>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: "/api/docs/openapi.yaml",
      dom_id: "#swagger-ui",
      presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
      layout: "BaseLayout",
    });
  </script>
</body>
</html>`
