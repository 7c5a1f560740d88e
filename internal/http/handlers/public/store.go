package public

import (
	"strings"

	handlershared "github.com/vitrine-next/internal/http/handlers/shared"
	"github.com/vitrine-next/internal/http/response"
	"github.com/vitrine-next/internal/models"
	"github.com/vitrine-next/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterStoreRequest 店铺注册请求
type RegisterStoreRequest struct {
	StoreName      string                              `json:"store_name" binding:"required"`
	Slug           string                              `json:"slug" binding:"required"`
	WhatsApp       string                              `json:"whatsapp" binding:"required"`
	Email          string                              `json:"email" binding:"required"`
	Password       string                              `json:"password" binding:"required"`
	MerchantName   string                              `json:"merchant_name"`
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// PublicStoreView 店铺前台信息
type PublicStoreView struct {
	Name                  string       `json:"name"`
	Slug                  string       `json:"slug"`
	WhatsApp              string       `json:"whatsapp"`
	Description           string       `json:"description"`
	Logo                  string       `json:"logo"`
	ShippingFee           models.Money `json:"shipping_fee"`
	FreeShippingThreshold models.Money `json:"free_shipping_threshold"`
}

// RegisterStore 注册店铺与所有者账号
func (h *Handler) RegisterStore(c *gin.Context) {
	var req RegisterStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.CaptchaService.Verify(req.CaptchaPayload.ToServicePayload()); err != nil {
		handlershared.RespondMappedError(c, err, handlershared.CaptchaErrorRules, "error.captcha_invalid")
		return
	}

	store, merchant, err := h.StoreService.Register(service.RegisterStoreInput{
		StoreName:    req.StoreName,
		Slug:         req.Slug,
		WhatsApp:     req.WhatsApp,
		Email:        strings.TrimSpace(req.Email),
		Password:     req.Password,
		MerchantName: req.MerchantName,
	})
	if err != nil {
		handlershared.RespondMappedError(c, err, handlershared.StoreErrorRules, "error.store_register_failed")
		return
	}

	response.SuccessWithMsg(c, handlershared.T("message.store_registered"), gin.H{
		"store":    store,
		"merchant": merchant,
	})
}

// GetStore 获取店铺前台信息
func (h *Handler) GetStore(c *gin.Context) {
	store, ok := h.loadStore(c)
	if !ok {
		return
	}
	response.Success(c, PublicStoreView{
		Name:                  store.Name,
		Slug:                  store.Slug,
		WhatsApp:              store.WhatsApp,
		Description:           store.Description,
		Logo:                  store.Logo,
		ShippingFee:           store.ShippingFee,
		FreeShippingThreshold: models.NewMoneyFromDecimal(h.StoreService.FreeShippingThreshold(store)),
	})
}
