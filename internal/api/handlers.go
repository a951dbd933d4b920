package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ahrav/rai-eval/internal/domain"
)

type createScenarioRequest struct {
	Name                 string `json:"scenario_name" binding:"required"`
	Description          string `json:"scenario_description" binding:"required"`
	QuestionsPerCategory int    `json:"questions_per_category" binding:"required,gt=0"`
}

// createScenario persists a PROCESSING scenario row, fires synthesis
// out-of-band, and returns the id immediately. Callers poll scenario
// status for the outcome.
func (s *Server) createScenario(c *gin.Context) {
	var req createScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	scenarioID, err := s.scenarios.CreateScenario(ctx,
		strings.TrimSpace(req.Name), strings.TrimSpace(req.Description), req.QuestionsPerCategory)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := s.launcher.StartSynthesis(ctx, scenarioID); err != nil {
		// The row exists in PROCESSING; record the launch failure on it
		// so the caller's polling doesn't hang forever.
		s.logger.Error("failed to launch synthesis", "scenario_id", scenarioID, "error", err)
		if updateErr := s.store.UpdateScenarioStatus(ctx, scenarioID, domain.ScenarioFailed, err.Error()); updateErr != nil {
			s.logger.Error("failed to record launch failure", "scenario_id", scenarioID, "error", updateErr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start question synthesis"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"scenario_id": scenarioID})
}

func (s *Server) getScenario(c *gin.Context) {
	scenario, err := s.store.GetScenario(c.Request.Context(), c.Param("id"))
	if errors.Is(err, domain.ErrScenarioNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "SCENARIO_NOT_FOUND"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, scenario)
}

type createEvaluationRequest struct {
	Name           string            `json:"name" binding:"required"`
	Description    string            `json:"description"`
	Endpoint       string            `json:"endpoint" binding:"required,url"`
	Headers        map[string]string `json:"headers"`
	BodyParams     map[string]any    `json:"body_params"`
	InputKey       string            `json:"input_prompt_key" binding:"required"`
	OutputKey      string            `json:"output_response_key" binding:"required"`
	ScenarioID     string            `json:"scenario_id" binding:"required"`
	CopiedReportID string            `json:"copied_report_id"`
}

// createEvaluation validates the target configuration up front, snapshots
// the scenario, persists the report row, and fires the evaluation run.
func (s *Server) createEvaluation(c *gin.Context) {
	var req createEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	scenario, err := s.store.GetScenario(ctx, req.ScenarioID)
	if errors.Is(err, domain.ErrScenarioNotFound) {
		status := http.StatusNotFound
		message := "scenario not found"
		if req.CopiedReportID != "" {
			// Re-evaluation of a copied report whose scenario was
			// deleted: tell the caller to pick a live scenario.
			status = http.StatusBadRequest
			message = "The scenario used in the original evaluation is no longer available. " +
				"Please run a new evaluation with an available scenario."
		}
		c.JSON(status, gin.H{"error": "SCENARIO_NOT_FOUND", "message": message, "scenario_id": req.ScenarioID})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	report := domain.EvaluationReport{
		Name:        req.Name,
		Description: req.Description,
		Target: domain.TargetConfig{
			Endpoint:     req.Endpoint,
			Headers:      req.Headers,
			BodyTemplate: req.BodyParams,
			InputKey:     req.InputKey,
			OutputKey:    req.OutputKey,
		},
		ScenarioID:     req.ScenarioID,
		CopiedReportID: req.CopiedReportID,
		Snapshot: domain.ScenarioSnapshot{
			Name:                 scenario.Name,
			Description:          scenario.Description,
			QuestionsPerCategory: scenario.QuestionsPerCategory,
		},
		CreatedAt: time.Now(),
	}
	if err := report.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := s.store.NextReportID(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	report.ID = strconv.FormatInt(id, 10)

	if err := s.store.PutReport(ctx, report); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := s.launcher.StartEvaluation(ctx, report.ID); err != nil {
		s.logger.Error("failed to launch evaluation", "report_id", report.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start evaluation"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"report_id": report.ID, "message": "Evaluation started"})
}

type scoreQuestionRequest struct {
	Score int `json:"score" binding:"required,min=1,max=5"`
}

// scoreQuestion is the human-review contract: record the 1-5 score, mark
// the question EVALUATED, and recompute the report's aggregate scores.
func (s *Server) scoreQuestion(c *gin.Context) {
	var req scoreQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid score value. Must be an integer between 1 and 5"})
		return
	}

	ctx := c.Request.Context()
	reportID, questionID := c.Param("id"), c.Param("qid")

	err := s.store.UpdateQuestionEvaluation(ctx, reportID, questionID, req.Score, domain.EvaluationScored)
	if errors.Is(err, domain.ErrQuestionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "QUESTION_NOT_FOUND"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	agg, err := s.aggregator.Recompute(ctx, reportID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"question_id":      questionID,
		"report_id":        reportID,
		"score":            req.Score,
		"human_evaluation": domain.EvaluationScored,
		"overall_score":    agg.Overall,
	})
}

type commentQuestionRequest struct {
	Comments string `json:"comments"`
}

// commentQuestion stores a reviewer's free-form note on a question.
func (s *Server) commentQuestion(c *gin.Context) {
	var req commentQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	reportID, questionID := c.Param("id"), c.Param("qid")

	err := s.store.UpdateQuestionComments(ctx, reportID, questionID, req.Comments)
	if errors.Is(err, domain.ErrQuestionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "QUESTION_NOT_FOUND"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"question_id": questionID, "report_id": reportID})
}
