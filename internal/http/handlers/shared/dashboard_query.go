package shared

import (
	"strconv"
	"strings"

	"github.com/vitrine-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ParseDashboardQuery 解析仪表盘查询参数（range/from/to/tz/force_refresh）。
func ParseDashboardQuery(c *gin.Context) (service.DashboardQueryInput, error) {
	from, err := ParseTimeNullable(c.Query("from"))
	if err != nil {
		return service.DashboardQueryInput{}, err
	}
	to, err := ParseTimeNullable(c.Query("to"))
	if err != nil {
		return service.DashboardQueryInput{}, err
	}

	forceRefresh := false
	if raw := strings.TrimSpace(c.Query("force_refresh")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return service.DashboardQueryInput{}, err
		}
		forceRefresh = parsed
	}

	return service.DashboardQueryInput{
		Range:        strings.TrimSpace(c.DefaultQuery("range", "7d")),
		From:         from,
		To:           to,
		Timezone:     strings.TrimSpace(c.Query("tz")),
		ForceRefresh: forceRefresh,
	}, nil
}
