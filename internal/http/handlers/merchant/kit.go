package merchant

import (
	handlershared "github.com/vitrine-next/internal/http/handlers/shared"
	"github.com/vitrine-next/internal/http/response"
	"github.com/vitrine-next/internal/models"
	"github.com/vitrine-next/internal/repository"
	"github.com/vitrine-next/internal/service"

	"github.com/gin-gonic/gin"
)

// KitItemRequest 套装明细
type KitItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// KitRequest 套装请求
type KitRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Image       string           `json:"image"`
	Price       models.Money     `json:"price"`
	IsActive    *bool            `json:"is_active"`
	SortOrder   int              `json:"sort_order"`
	Items       []KitItemRequest `json:"items" binding:"required,dive"`
}

func (r KitRequest) toInput() service.CreateKitInput {
	items := make([]service.KitItemInput, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, service.KitItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return service.CreateKitInput{
		Name:        r.Name,
		Description: r.Description,
		Image:       r.Image,
		Price:       r.Price.Decimal,
		IsActive:    r.IsActive,
		SortOrder:   r.SortOrder,
		Items:       items,
	}
}

// GetKits 套装列表
func (h *Handler) GetKits(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	kits, total, err := h.KitService.List(repository.KitListFilter{
		Page:     page,
		PageSize: pageSize,
		StoreID:  storeID,
	})
	if err != nil {
		respondCatalogFetchError(c, err)
		return
	}
	response.SuccessWithPage(c, kits, response.NewPagination(page, pageSize, total))
}

// GetKit 套装详情
func (h *Handler) GetKit(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	kit, err := h.KitService.Get(storeID, id, false)
	if err != nil {
		respondCatalogFetchError(c, err)
		return
	}
	response.Success(c, kit)
}

// CreateKit 创建套装
func (h *Handler) CreateKit(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}
	var req KitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	kit, err := h.KitService.Create(storeID, req.toInput())
	if err != nil {
		respondCatalogSaveError(c, err)
		return
	}
	response.Success(c, kit)
}

// UpdateKit 更新套装
func (h *Handler) UpdateKit(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req KitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	kit, err := h.KitService.Update(storeID, id, req.toInput())
	if err != nil {
		respondCatalogSaveError(c, err)
		return
	}
	response.Success(c, kit)
}

// DeleteKit 删除套装
func (h *Handler) DeleteKit(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.KitService.Delete(storeID, id); err != nil {
		respondCatalogSaveError(c, err)
		return
	}
	response.Success(c, nil)
}
