package resolverd

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/podscout/podscout/internal/domain"
)

// Server exposes the stream-resolution contract over HTTP.
type Server struct {
	resolver Resolver
	logger   *slog.Logger
	router   chi.Router
}

// NewServer creates the HTTP server around a resolver.
func NewServer(resolver Resolver, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{resolver: resolver, logger: logger}

	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Get("/stream-url", s.handleStreamURL)
	r.Get("/healthz", s.handleHealth)
	s.router = r

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// streamPayload matches what the mobile client decodes.
type streamPayload struct {
	StreamURL    string  `json:"stream_url"`
	ThumbnailURL string  `json:"thumbnail_url"`
	Title        string  `json:"title"`
	Duration     float64 `json:"duration"`
}

type errorPayload struct {
	Error string `json:"error"`
}

func (s *Server) handleStreamURL(w http.ResponseWriter, r *http.Request) {
	sourceURL := r.URL.Query().Get("url")
	if sourceURL == "" {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "missing url parameter"})
		return
	}
	if !domain.IsYouTubeURL(sourceURL) {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "not a YouTube URL"})
		return
	}

	info, err := s.resolver.Resolve(r.Context(), sourceURL)
	if err != nil {
		s.logger.Error("resolution failed", "url", sourceURL, "error", err)
		writeJSON(w, http.StatusBadGateway, errorPayload{Error: "could not resolve stream"})
		return
	}

	writeJSON(w, http.StatusOK, streamPayload{
		StreamURL:    info.StreamURL,
		ThumbnailURL: info.ThumbnailURL,
		Title:        info.Title,
		Duration:     info.Duration,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestLogger tags each request with an id and logs its duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request handled",
			"id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
