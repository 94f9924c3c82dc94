package controller

import (
	"github.com/gin-gonic/gin"

	"ctchen222/Prompt-Benchmark/internal/api/middleware"
	"ctchen222/Prompt-Benchmark/internal/api/models"
	"ctchen222/Prompt-Benchmark/internal/api/response"
	"ctchen222/Prompt-Benchmark/internal/api/service"
)

type EvaluationController struct {
	evaluationService service.EvaluationService
}

func NewEvaluationController(evaluationService service.EvaluationService) *EvaluationController {
	return &EvaluationController{evaluationService: evaluationService}
}

// Evaluate runs the prompt through every model. The caller is identified by
// the optional auth middleware; anonymous calls are not stored.
func (ec *EvaluationController) Evaluate(c *gin.Context) {
	var req models.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	outcome, err := ec.evaluationService.Evaluate(c.Request.Context(), *req.Prompt, middleware.CurrentUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Raw(c, models.EvaluateResponse{Results: outcome.Results})
}

// History lists the caller's stored evaluations.
func (ec *EvaluationController) History(c *gin.Context) {
	evals, err := ec.evaluationService.History(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessResponse(c, gin.H{"evaluations": evals})
}
