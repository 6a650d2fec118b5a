package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/figtools/compdiff/internal/codegen"
	"github.com/figtools/compdiff/internal/config"
	"github.com/figtools/compdiff/internal/gitsink"
	"github.com/figtools/compdiff/internal/llm"
	"github.com/figtools/compdiff/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for compdiff.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	llmClient    *llm.Client
	generator    *codegen.Generator
	sink         *gitsink.Client // nil when no GitHub credentials
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, llmClient *llm.Client, generator *codegen.Generator, sink *gitsink.Client, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		llmClient:    llmClient,
		generator:    generator,
		sink:         sink,
		log:          log,
		cfg:          cfg,
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

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.CompdiffAPIKey, s.log))

		r.Post("/api/analyze", s.handleAnalyze)
		r.Get("/api/analyze/{jobID}/status", s.handleAnalyzeStatus)
		r.Get("/api/reports/{jobID}", s.handleGetReport)
		r.Post("/api/generate", s.handleGenerate)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	if s.llmClient == nil || s.llmClient.Stats == nil {
		jsonError(w, "llm stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"model": s.llmClient.Model(),
		"stats": s.llmClient.Stats.Snapshot(),
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
