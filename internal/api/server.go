package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/docforma/internal/config"
	"github.com/dgallion1/docforma/internal/docspec"
	"github.com/dgallion1/docforma/internal/generate"
	"github.com/dgallion1/docforma/internal/normalize"
	"github.com/dgallion1/docforma/internal/pipeline"
	"github.com/dgallion1/docforma/internal/store"
)

// LLMStatsSource reports the model in use and its latency window.
type LLMStatsSource interface {
	Model() string
	Stats() *generate.LLMStats
}

// Server is the HTTP API server for docforma.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	store        store.Store
	normalizer   *normalize.Normalizer
	extractor    *docspec.Extractor
	llm          LLMStatsSource
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. llm may be nil.
func NewServer(orch *pipeline.Orchestrator, norm *normalize.Normalizer, ext *docspec.Extractor, llm LLMStatsSource, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		store:        orch.Store(),
		normalizer:   norm,
		extractor:    ext,
		llm:          llm,
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
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/methodics", s.handleUploadMethodic)
		r.Get("/api/methodics", s.handleListMethodics)
		r.Get("/api/methodics/{id}", s.handleGetMethodic)
		r.Delete("/api/methodics/{id}", s.handleDeleteMethodic)

		r.Post("/api/works", s.handleCreateWork)
		r.Get("/api/works/{jobID}/status", s.handleWorkStatus)
		r.Get("/api/works/{jobID}/document", s.handleWorkDocument)

		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}
