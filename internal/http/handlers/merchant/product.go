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

// ProductRequest 商品请求
type ProductRequest struct {
	CategoryID     uint         `json:"category_id"`
	Name           string       `json:"name" binding:"required"`
	Slug           string       `json:"slug"`
	Description    string       `json:"description"`
	Price          models.Money `json:"price"`
	CompareAtPrice models.Money `json:"compare_at_price"`
	Images         []string     `json:"images"`
	Sizes          []string     `json:"sizes"`
	Colors         []string     `json:"colors"`
	TrackStock     bool         `json:"track_stock"`
	Stock          int          `json:"stock"`
	IsFeatured     bool         `json:"is_featured"`
	IsActive       *bool        `json:"is_active"`
	SortOrder      int          `json:"sort_order"`
}

func (r ProductRequest) toInput() service.CreateProductInput {
	return service.CreateProductInput{
		CategoryID:     r.CategoryID,
		Name:           r.Name,
		Slug:           r.Slug,
		Description:    r.Description,
		Price:          r.Price.Decimal,
		CompareAtPrice: r.CompareAtPrice.Decimal,
		Images:         r.Images,
		Sizes:          r.Sizes,
		Colors:         r.Colors,
		TrackStock:     r.TrackStock,
		Stock:          r.Stock,
		IsFeatured:     r.IsFeatured,
		IsActive:       r.IsActive,
		SortOrder:      r.SortOrder,
	}
}

// GetProducts 商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	categoryID, err := handlershared.ParseQueryUint(c, "category_id")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	products, total, err := h.ProductService.ListForMerchant(repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		StoreID:      storeID,
		CategoryID:   categoryID,
		Search:       strings.TrimSpace(c.Query("search")),
		WithCategory: true,
	})
	if err != nil {
		respondCatalogFetchError(c, err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductService.Get(storeID, id)
	if err != nil {
		respondCatalogFetchError(c, err)
		return
	}
	response.Success(c, product)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.Create(storeID, req.toInput())
	if err != nil {
		respondCatalogSaveError(c, err)
		return
	}
	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.Update(storeID, id, req.toInput())
	if err != nil {
		respondCatalogSaveError(c, err)
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.Delete(storeID, id); err != nil {
		respondCatalogSaveError(c, err)
		return
	}
	response.Success(c, nil)
}
