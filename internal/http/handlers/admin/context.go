package admin

import (
	"net/url"
	"strings"

	"github.com/vitrine-next/internal/constants"
	handlershared "github.com/vitrine-next/internal/http/handlers/shared"
	"github.com/vitrine-next/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, constants.ContextAdminID, "error.admin_id_invalid", "error.admin_id_type_invalid")
}

func currentUsername(c *gin.Context) string {
	if value, ok := c.Get(constants.ContextAdminUsername); ok {
		if username, ok := value.(string); ok {
			return strings.TrimSpace(username)
		}
	}
	return ""
}

func currentRequestID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(constants.ContextRequestID))
}

func currentActor(c *gin.Context) (service.AuditActor, bool) {
	adminID, ok := getAdminID(c)
	if !ok {
		return service.AuditActor{}, false
	}
	return service.AuditActor{
		AdminID:   adminID,
		Username:  currentUsername(c),
		RequestID: currentRequestID(c),
	}, true
}

func decodeRoleParam(value string) string {
	decoded, err := url.PathUnescape(value)
	if err != nil {
		return strings.TrimSpace(value)
	}
	return strings.TrimSpace(decoded)
}
