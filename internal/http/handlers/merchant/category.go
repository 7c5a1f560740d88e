package merchant

import (
	handlershared "github.com/vitrine-next/internal/http/handlers/shared"
	"github.com/vitrine-next/internal/http/response"
	"github.com/vitrine-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryRequest 分类请求
type CategoryRequest struct {
	Name      string `json:"name" binding:"required"`
	Slug      string `json:"slug"`
	SortOrder int    `json:"sort_order"`
}

func (r CategoryRequest) toInput() service.CreateCategoryInput {
	return service.CreateCategoryInput{Name: r.Name, Slug: r.Slug, SortOrder: r.SortOrder}
}

// GetCategories 分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}
	categories, err := h.CategoryService.List(storeID)
	if err != nil {
		respondCatalogFetchError(c, err)
		return
	}
	response.Success(c, categories)
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	category, err := h.CategoryService.Create(storeID, req.toInput())
	if err != nil {
		respondCatalogSaveError(c, err)
		return
	}
	response.Success(c, category)
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	category, err := h.CategoryService.Update(storeID, id, req.toInput())
	if err != nil {
		respondCatalogSaveError(c, err)
		return
	}
	response.Success(c, category)
}

// DeleteCategory 删除分类（仍有关联商品时拒绝）
func (h *Handler) DeleteCategory(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.CategoryService.Delete(storeID, id); err != nil {
		respondCatalogSaveError(c, err)
		return
	}
	response.Success(c, nil)
}
