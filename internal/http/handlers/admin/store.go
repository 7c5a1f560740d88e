package admin

import (
	"strings"

	handlershared "github.com/vitrine-next/internal/http/handlers/shared"
	"github.com/vitrine-next/internal/http/response"
	"github.com/vitrine-next/internal/logger"
	"github.com/vitrine-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// StoreStatusRequest 店铺状态变更请求
type StoreStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// GetStores 店铺列表（search/status 筛选）
func (h *Handler) GetStores(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	stores, total, err := h.StoreService.ListStores(repository.StoreListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.store_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, stores, response.NewPagination(page, pageSize, total))
}

// GetStore 店铺详情
func (h *Handler) GetStore(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	store, err := h.StoreService.GetByID(id)
	if err != nil {
		handlershared.RespondMappedError(c, err, handlershared.StoreErrorRules, "error.store_fetch_failed")
		return
	}
	response.Success(c, store)
}

// UpdateStoreStatus 停用/启用店铺
func (h *Handler) UpdateStoreStatus(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req StoreStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	store, err := h.StoreService.SetStatus(c.Request.Context(), actor, id, strings.TrimSpace(req.Status), req.Reason)
	if err != nil {
		handlershared.RespondMappedError(c, err, handlershared.StoreErrorRules, "error.store_update_failed")
		return
	}

	logger.Infow("admin_store_status_changed",
		"operator_admin_id", actor.AdminID,
		"store_id", store.ID,
		"status", store.Status,
		"request_id", actor.RequestID,
	)
	response.SuccessWithMsg(c, handlershared.T("message.store_status_changed"), store)
}

// ListAuditLogs 后台审计日志
func (h *Handler) ListAuditLogs(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	operatorAdminID, err := handlershared.ParseQueryUint(c, "operator_admin_id")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
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

	logs, total, err := h.StoreService.ListAuditLogs(repository.AdminAuditLogListFilter{
		Page:            page,
		PageSize:        pageSize,
		OperatorAdminID: operatorAdminID,
		Action:          strings.TrimSpace(c.Query("action")),
		TargetType:      strings.TrimSpace(c.Query("target_type")),
		CreatedFrom:     createdFrom,
		CreatedTo:       createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.audit_log_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, logs, response.NewPagination(page, pageSize, total))
}
