package handler

import (
	"crypto/subtle"
	"net/http"

	"wager-ledger-analytics/internal/adapter/http/dto"
	"wager-ledger-analytics/internal/core/ports"
	"wager-ledger-analytics/pkg/apperror"
	"wager-ledger-analytics/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthHandler exchanges the shared admin key for a short-lived JWT.
type AuthHandler struct {
	tokenSvc ports.TokenService
	adminKey string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(tokenSvc ports.TokenService, adminKey string) *AuthHandler {
	return &AuthHandler{tokenSvc: tokenSvc, adminKey: adminKey}
}

// Token handles POST /api/v1/auth/token.
func (h *AuthHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	if h.adminKey == "" ||
		subtle.ConstantTimeCompare([]byte(req.AdminKey), []byte(h.adminKey)) != 1 {
		response.Error(c, apperror.ErrInvalidAdminKey())
		return
	}

	token, expiry, err := h.tokenSvc.Issue("admin")
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}

	response.OK(c, dto.TokenResponse{
		Token:  token,
		Expiry: expiry.Unix(),
	})
}

// HealthCheck handles GET /health — deep health check verifying all dependencies.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		type depStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}

		deps := make(map[string]depStatus)
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = depStatus{Status: "unhealthy", Error: err.Error()}
				allHealthy = false
			} else {
				deps[checker.Name()] = depStatus{Status: "healthy"}
			}
		}

		status := "healthy"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}
