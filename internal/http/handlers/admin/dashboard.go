package admin

import (
	handlershared "github.com/vitrine-next/internal/http/handlers/shared"
	"github.com/vitrine-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetDashboard 平台仪表盘
func (h *Handler) GetDashboard(c *gin.Context) {
	input, err := handlershared.ParseDashboardQuery(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	result, err := h.DashboardService.GetPlatformDashboard(c.Request.Context(), input)
	if err != nil {
		handlershared.RespondMappedError(c, err, handlershared.DashboardErrorRules, "error.dashboard_fetch_failed")
		return
	}
	response.Success(c, result)
}
