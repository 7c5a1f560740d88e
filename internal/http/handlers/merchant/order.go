package merchant

import (
	"strings"

	handlershared "github.com/vitrine-next/internal/http/handlers/shared"
	"github.com/vitrine-next/internal/http/response"
	"github.com/vitrine-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// OrderStatusRequest 订单状态流转请求
type OrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// GetOrders 订单列表
func (h *Handler) GetOrders(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	createdFrom, err := handlershared.ParseTimeNullable(c.Query("created_from"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdTo, err := handlershared.ParseTimeNullable(c.Query("created_to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	orders, total, err := h.OrderService.List(repository.OrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		StoreID:     storeID,
		Status:      strings.TrimSpace(c.Query("status")),
		OrderNo:     strings.TrimSpace(c.Query("order_no")),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.Get(storeID, id)
	if err != nil {
		handlershared.RespondMappedError(c, err, handlershared.OrderErrorRules, "error.order_fetch_failed")
		return
	}
	response.Success(c, order)
}

// UpdateOrderStatus 订单状态流转（确认时扣减库存）
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	order, err := h.OrderService.UpdateStatus(storeID, id, strings.TrimSpace(req.Status))
	if err != nil {
		handlershared.RespondMappedError(c, err, handlershared.OrderErrorRules, "error.order_update_failed")
		return
	}
	response.Success(c, order)
}
