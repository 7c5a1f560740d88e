package merchant

import (
	"strings"

	handlershared "github.com/vitrine-next/internal/http/handlers/shared"
	"github.com/vitrine-next/internal/http/response"
	"github.com/vitrine-next/internal/models"
	"github.com/vitrine-next/internal/repository"
	"github.com/vitrine-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CouponRequest 优惠券请求
type CouponRequest struct {
	Code       string       `json:"code" binding:"required"`
	Type       string       `json:"type" binding:"required"`
	Value      models.Money `json:"value"`
	MinAmount  models.Money `json:"min_amount"`
	UsageLimit int          `json:"usage_limit"`
	StartsAt   string       `json:"starts_at"`
	EndsAt     string       `json:"ends_at"`
	IsActive   *bool        `json:"is_active"`
}

func bindCoupon(c *gin.Context) (service.CreateCouponInput, bool) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return service.CreateCouponInput{}, false
	}
	startsAt, err := handlershared.ParseTimeNullable(req.StartsAt)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return service.CreateCouponInput{}, false
	}
	endsAt, err := handlershared.ParseTimeNullable(req.EndsAt)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return service.CreateCouponInput{}, false
	}
	return service.CreateCouponInput{
		Code:       req.Code,
		Type:       req.Type,
		Value:      req.Value.Decimal,
		MinAmount:  req.MinAmount.Decimal,
		UsageLimit: req.UsageLimit,
		StartsAt:   startsAt,
		EndsAt:     endsAt,
		IsActive:   req.IsActive,
	}, true
}

// GetCoupons 优惠券列表
func (h *Handler) GetCoupons(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	isActive, err := handlershared.ParseQueryBool(c, "is_active")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	coupons, total, err := h.CouponService.List(repository.CouponListFilter{
		Page:     page,
		PageSize: pageSize,
		StoreID:  storeID,
		Code:     strings.TrimSpace(c.Query("code")),
		IsActive: isActive,
	})
	if err != nil {
		respondCatalogFetchError(c, err)
		return
	}
	response.SuccessWithPage(c, coupons, response.NewPagination(page, pageSize, total))
}

// GetCoupon 优惠券详情
func (h *Handler) GetCoupon(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	coupon, err := h.CouponService.Get(storeID, id)
	if err != nil {
		respondCatalogFetchError(c, err)
		return
	}
	response.Success(c, coupon)
}

// CreateCoupon 创建优惠券
func (h *Handler) CreateCoupon(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}
	input, ok := bindCoupon(c)
	if !ok {
		return
	}
	coupon, err := h.CouponService.Create(storeID, input)
	if err != nil {
		respondCatalogSaveError(c, err)
		return
	}
	response.Success(c, coupon)
}

// UpdateCoupon 更新优惠券
func (h *Handler) UpdateCoupon(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	input, ok := bindCoupon(c)
	if !ok {
		return
	}
	coupon, err := h.CouponService.Update(storeID, id, input)
	if err != nil {
		respondCatalogSaveError(c, err)
		return
	}
	response.Success(c, coupon)
}

// DeleteCoupon 删除优惠券
func (h *Handler) DeleteCoupon(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.CouponService.Delete(storeID, id); err != nil {
		respondCatalogSaveError(c, err)
		return
	}
	response.Success(c, nil)
}
