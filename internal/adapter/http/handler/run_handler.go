package handler

import (
	"wager-ledger-analytics/internal/adapter/http/dto"
	"wager-ledger-analytics/internal/core/ports"
	"wager-ledger-analytics/pkg/response"

	"github.com/gin-gonic/gin"
)

// RunHandler triggers batch pipeline runs over HTTP.
type RunHandler struct {
	pipelineSvc ports.PipelineService
}

// NewRunHandler creates a new RunHandler.
func NewRunHandler(pipelineSvc ports.PipelineService) *RunHandler {
	return &RunHandler{pipelineSvc: pipelineSvc}
}

// Run handles POST /api/v1/runs. The run executes synchronously; the
// response carries the completed summary.
func (h *RunHandler) Run(c *gin.Context) {
	summary, err := h.pipelineSvc.Run(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.FromRunSummary(summary))
}
