package handler

import (
	"wager-ledger-analytics/internal/adapter/http/dto"
	"wager-ledger-analytics/internal/core/ports"
	"wager-ledger-analytics/pkg/apperror"
	"wager-ledger-analytics/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportHandler serves persisted run results.
type ReportHandler struct {
	reportingSvc ports.ReportingService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportingSvc ports.ReportingService) *ReportHandler {
	return &ReportHandler{reportingSvc: reportingSvc}
}

// GetSummary handles GET /api/v1/reports/summary.
func (h *ReportHandler) GetSummary(c *gin.Context) {
	summary, err := h.reportingSvc.LatestSummary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.FromRunSummary(summary))
}

// GetCustomers handles GET /api/v1/reports/customers.
// An optional run_id query parameter selects a historic run; default is the
// latest completed run.
func (h *ReportHandler) GetCustomers(c *gin.Context) {
	runID, err := parseRunID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	results, err := h.reportingSvc.CustomerReport(c.Request.Context(), runID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.FromCustomerResults(results))
}

// GetCountries handles GET /api/v1/reports/countries.
func (h *ReportHandler) GetCountries(c *gin.Context) {
	runID, err := parseRunID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	results, err := h.reportingSvc.CountryReport(c.Request.Context(), runID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.FromCountryResults(results))
}

func parseRunID(c *gin.Context) (*uuid.UUID, error) {
	raw := c.Query("run_id")
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperror.Validation("run_id must be a valid UUID")
	}
	return &id, nil
}
