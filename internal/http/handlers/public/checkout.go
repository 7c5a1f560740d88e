package public

import (
	handlershared "github.com/vitrine-next/internal/http/handlers/shared"
	"github.com/vitrine-next/internal/http/response"
	"github.com/vitrine-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 结算请求
type CheckoutRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	Address       string `json:"address"`
	CEP           string `json:"cep"`
	PaymentMethod string `json:"payment_method"`
	Notes         string `json:"notes"`
}

// Checkout 生成订单并返回 WhatsApp 跳转链接
func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	store, ok := h.loadStore(c)
	if !ok {
		return
	}
	result, err := h.CheckoutService.Checkout(c.Request.Context(), store, cartToken(c), service.CheckoutInput{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Address:       req.Address,
		CEP:           req.CEP,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		handlershared.RespondMappedError(c, err, handlershared.ConcatMappedErrors(
			handlershared.CartErrorRules,
			handlershared.OrderErrorRules,
		), "error.checkout_failed")
		return
	}
	response.SuccessWithMsg(c, handlershared.T("message.order_sent_to_whatsapp"), result)
}
