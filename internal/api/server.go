// Package api exposes the pipeline's trigger surface over HTTP: scenario
// creation (question synthesis), evaluation runs, and the human-review
// scoring contract. Plain row CRUD is intentionally absent.
package api

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/ahrav/rai-eval/internal/scoring"
	"github.com/ahrav/rai-eval/internal/store"
	"github.com/ahrav/rai-eval/internal/synthesis"
)

// Launcher starts pipeline work out-of-band. Production wires the
// Temporal launcher; tests substitute a fake.
type Launcher interface {
	StartSynthesis(ctx context.Context, scenarioID string) error
	StartEvaluation(ctx context.Context, reportID string) error
}

// Server holds the handler dependencies.
type Server struct {
	store      store.Store
	launcher   Launcher
	scenarios  *synthesis.Service
	aggregator *scoring.Aggregator
	logger     *slog.Logger
}

// NewServer constructs the API server over its collaborators.
func NewServer(st store.Store, launcher Launcher, scenarios *synthesis.Service) *Server {
	return &Server{
		store:      st,
		launcher:   launcher,
		scenarios:  scenarios,
		aggregator: scoring.NewAggregator(st),
		logger:     slog.Default().With("component", "api"),
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/scenarios", s.createScenario)
	r.GET("/scenarios/:id", s.getScenario)
	r.POST("/evaluations", s.createEvaluation)
	r.POST("/evaluations/:id/questions/:qid/score", s.scoreQuestion)
	r.POST("/evaluations/:id/questions/:qid/comments", s.commentQuestion)

	return r
}
