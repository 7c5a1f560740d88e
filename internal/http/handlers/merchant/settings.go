package merchant

import (
	handlershared "github.com/vitrine-next/internal/http/handlers/shared"
	"github.com/vitrine-next/internal/http/response"
	"github.com/vitrine-next/internal/models"
	"github.com/vitrine-next/internal/service"

	"github.com/gin-gonic/gin"
)

// StoreSettingsRequest 店铺设置请求
type StoreSettingsRequest struct {
	Name                  string       `json:"name" binding:"required"`
	WhatsApp              string       `json:"whatsapp" binding:"required"`
	Description           string       `json:"description"`
	Logo                  string       `json:"logo"`
	ShippingFee           models.Money `json:"shipping_fee"`
	FreeShippingThreshold models.Money `json:"free_shipping_threshold"`
}

// GetSettings 获取店铺设置
func (h *Handler) GetSettings(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}
	store, err := h.StoreService.GetByID(storeID)
	if err != nil {
		handlershared.RespondMappedError(c, err, handlershared.StoreErrorRules, "error.store_fetch_failed")
		return
	}
	response.Success(c, store)
}

// UpdateSettings 更新店铺设置
func (h *Handler) UpdateSettings(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}
	var req StoreSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	store, err := h.StoreService.UpdateSettings(storeID, service.UpdateStoreSettingsInput{
		Name:                  req.Name,
		WhatsApp:              req.WhatsApp,
		Description:           req.Description,
		Logo:                  req.Logo,
		ShippingFee:           req.ShippingFee.Decimal,
		FreeShippingThreshold: req.FreeShippingThreshold.Decimal,
	})
	if err != nil {
		handlershared.RespondMappedError(c, err, handlershared.StoreErrorRules, "error.store_update_failed")
		return
	}
	response.Success(c, store)
}
