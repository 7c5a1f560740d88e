package public

import (
	"strings"

	"github.com/vitrine-next/internal/constants"
	handlershared "github.com/vitrine-next/internal/http/handlers/shared"
	"github.com/vitrine-next/internal/models"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

// loadStore 按路径 slug 解析营业中的店铺，停用或不存在统一返回 404
func (h *Handler) loadStore(c *gin.Context) (*models.Store, bool) {
	store, err := h.StoreService.GetPublicBySlug(c.Param("slug"))
	if err != nil {
		handlershared.RespondMappedError(c, err, handlershared.StoreErrorRules, "error.store_fetch_failed")
		return nil, false
	}
	return store, true
}

// cartToken 读取购物车会话标识（由中间件签发）
func cartToken(c *gin.Context) string {
	if value, ok := c.Get(constants.CartTokenContext); ok {
		if token, ok := value.(string); ok {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(c.GetHeader(constants.CartTokenHeader))
}

func respondCartError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, handlershared.CartErrorRules, "error.cart_failed")
}

func respondCatalogError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, handlershared.CatalogErrorRules, "error.catalog_fetch_failed")
}
