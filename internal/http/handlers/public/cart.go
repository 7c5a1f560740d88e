package public

import (
	"strings"

	"github.com/vitrine-next/internal/cart"
	handlershared "github.com/vitrine-next/internal/http/handlers/shared"
	"github.com/vitrine-next/internal/http/response"
	"github.com/vitrine-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CartItemRequest 加入商品请求
type CartItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

// CartKitRequest 加入套装请求
type CartKitRequest struct {
	KitID    uint `json:"kit_id" binding:"required"`
	Quantity int  `json:"quantity"`
}

// CartQuantityRequest 修改数量请求
type CartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartCouponRequest 应用优惠券请求
type CartCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// ShippingQuoteRequest 运费报价请求
type ShippingQuoteRequest struct {
	CEP string `json:"cep" binding:"required"`
}

// CartLineResponse 购物车行
type CartLineResponse struct {
	ProductID  string `json:"product_id"`
	VariantKey string `json:"variant_key"`
	Name       string `json:"name"`
	Image      string `json:"image"`
	Size       string `json:"size,omitempty"`
	Color      string `json:"color,omitempty"`
	UnitPrice  string `json:"unit_price"`
	Quantity   int    `json:"quantity"`
	LineTotal  string `json:"line_total"`
}

// CartCouponResponse 已应用优惠券
type CartCouponResponse struct {
	Code          string `json:"code"`
	DiscountType  string `json:"discount_type"`
	DiscountValue string `json:"discount_value"`
	MinOrderValue string `json:"min_order_value"`
}

// CartResponse 购物车汇总
type CartResponse struct {
	Items                 []CartLineResponse  `json:"items"`
	ItemCount             int                 `json:"item_count"`
	LineCount             int                 `json:"line_count"`
	AppliedCoupon         *CartCouponResponse `json:"applied_coupon"`
	Subtotal              string              `json:"subtotal"`
	Discount              string              `json:"discount"`
	ShippingCost          string              `json:"shipping_cost"`
	EffectiveShipping     string              `json:"effective_shipping"`
	FreeShippingThreshold string              `json:"free_shipping_threshold"`
	FreeShipping          bool                `json:"free_shipping"`
	Total                 string              `json:"total"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func toCartResponse(summary *cart.Summary) CartResponse {
	resp := CartResponse{Items: make([]CartLineResponse, 0)}
	if summary == nil {
		zero := money(decimal.Zero)
		resp.Subtotal, resp.Discount, resp.ShippingCost = zero, zero, zero
		resp.EffectiveShipping, resp.FreeShippingThreshold, resp.Total = zero, zero, zero
		return resp
	}
	for _, line := range summary.Items {
		resp.Items = append(resp.Items, CartLineResponse{
			ProductID:  line.ProductID,
			VariantKey: line.VariantKey,
			Name:       line.Name,
			Image:      line.Image,
			Size:       line.Size,
			Color:      line.Color,
			UnitPrice:  money(line.UnitPrice),
			Quantity:   line.Quantity,
			LineTotal:  money(line.LineTotal()),
		})
	}
	if coupon := summary.AppliedCoupon; coupon != nil {
		resp.AppliedCoupon = &CartCouponResponse{
			Code:          coupon.Code,
			DiscountType:  string(coupon.DiscountType),
			DiscountValue: money(coupon.DiscountValue),
			MinOrderValue: money(coupon.MinOrderValue),
		}
	}
	resp.ItemCount = summary.ItemCount
	resp.LineCount = summary.LineCount
	resp.Subtotal = money(summary.Subtotal)
	resp.Discount = money(summary.Discount)
	resp.ShippingCost = money(summary.ShippingCost)
	resp.EffectiveShipping = money(summary.EffectiveShipping)
	resp.FreeShippingThreshold = money(summary.FreeShippingThreshold)
	resp.FreeShipping = summary.ShippingCost.IsPositive() && summary.EffectiveShipping.IsZero()
	resp.Total = money(summary.Total)
	return resp
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	store, ok := h.loadStore(c)
	if !ok {
		return
	}
	summary, err := h.CartService.Get(c.Request.Context(), store, cartToken(c))
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, toCartResponse(summary))
}

// AddCartItem 加入商品
func (h *Handler) AddCartItem(c *gin.Context) {
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	store, ok := h.loadStore(c)
	if !ok {
		return
	}
	summary, err := h.CartService.AddItem(c.Request.Context(), store, cartToken(c), service.AddCartItemInput{
		ProductID: req.ProductID,
		Size:      strings.TrimSpace(req.Size),
		Color:     strings.TrimSpace(req.Color),
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, toCartResponse(summary))
}

// AddCartKit 加入套装
func (h *Handler) AddCartKit(c *gin.Context) {
	var req CartKitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	store, ok := h.loadStore(c)
	if !ok {
		return
	}
	summary, err := h.CartService.AddKit(c.Request.Context(), store, cartToken(c), req.KitID, req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, toCartResponse(summary))
}

// UpdateCartItem 修改行数量（<=0 视为移除）
func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req CartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	store, ok := h.loadStore(c)
	if !ok {
		return
	}
	summary, err := h.CartService.UpdateQuantity(c.Request.Context(), store, cartToken(c), c.Param("variant_key"), req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, toCartResponse(summary))
}

// DeleteCartItem 移除购物车行
func (h *Handler) DeleteCartItem(c *gin.Context) {
	store, ok := h.loadStore(c)
	if !ok {
		return
	}
	summary, err := h.CartService.RemoveItem(c.Request.Context(), store, cartToken(c), c.Param("variant_key"))
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, toCartResponse(summary))
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	store, ok := h.loadStore(c)
	if !ok {
		return
	}
	summary, err := h.CartService.Clear(c.Request.Context(), store, cartToken(c))
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.SuccessWithMsg(c, handlershared.T("message.cart_cleared"), toCartResponse(summary))
}

// ApplyCartCoupon 应用优惠券
func (h *Handler) ApplyCartCoupon(c *gin.Context) {
	var req CartCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	store, ok := h.loadStore(c)
	if !ok {
		return
	}
	summary, err := h.CartService.ApplyCoupon(c.Request.Context(), store, cartToken(c), req.Code)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.SuccessWithMsg(c, handlershared.T("message.coupon_applied"), toCartResponse(summary))
}

// RemoveCartCoupon 移除优惠券
func (h *Handler) RemoveCartCoupon(c *gin.Context) {
	store, ok := h.loadStore(c)
	if !ok {
		return
	}
	summary, err := h.CartService.RemoveCoupon(c.Request.Context(), store, cartToken(c))
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, toCartResponse(summary))
}

// QuoteShipping 按 CEP 报价运费
func (h *Handler) QuoteShipping(c *gin.Context) {
	var req ShippingQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	store, ok := h.loadStore(c)
	if !ok {
		return
	}
	summary, cep, err := h.CartService.QuoteShipping(c.Request.Context(), store, cartToken(c), req.CEP)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{
		"cep":  cep,
		"cart": toCartResponse(summary),
	})
}
