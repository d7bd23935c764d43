package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/chat2md/internal/llm"
	"github.com/dgallion1/chat2md/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP control surface for chat2md.
type Server struct {
	router         chi.Router
	orchestrator   *pipeline.Orchestrator
	gateway        *llm.Gateway
	log            *slog.Logger
	apiKey         string
	maxUploadBytes int64
}

// NewServer creates and configures the HTTP server. An empty apiKey
// leaves the /api routes open.
func NewServer(orch *pipeline.Orchestrator, gateway *llm.Gateway, log *slog.Logger, apiKey string, maxUploadBytes int64) *Server {
	s := &Server{
		orchestrator:   orch,
		gateway:        gateway,
		log:            log,
		apiKey:         apiKey,
		maxUploadBytes: maxUploadBytes,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.apiKey != "" {
			r.Use(AuthMiddleware(s.apiKey, s.log))
		}

		r.Post("/api/runs", s.handleStartRun)
		r.Get("/api/runs/{runID}", s.handleRunStatus)
		r.Post("/api/sources", s.handleUploadSource)
		r.Get("/api/sources/pending", s.handlePendingSources)
		r.Get("/api/documents", s.handleListDocuments)
		r.Get("/api/progress", s.handleProgress)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
