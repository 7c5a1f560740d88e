package merchant

import (
	handlershared "github.com/vitrine-next/internal/http/handlers/shared"
	"github.com/vitrine-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetDashboard 店铺仪表盘
func (h *Handler) GetDashboard(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}
	input, err := handlershared.ParseDashboardQuery(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	result, err := h.DashboardService.GetStoreDashboard(c.Request.Context(), storeID, input)
	if err != nil {
		handlershared.RespondMappedError(c, err, handlershared.DashboardErrorRules, "error.dashboard_fetch_failed")
		return
	}
	response.Success(c, result)
}
