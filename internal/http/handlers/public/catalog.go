package public

import (
	"strings"

	handlershared "github.com/vitrine-next/internal/http/handlers/shared"
	"github.com/vitrine-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetCategories 店铺分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	store, ok := h.loadStore(c)
	if !ok {
		return
	}
	categories, err := h.CategoryService.List(store.ID)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, categories)
}

// GetProducts 店铺商品列表（category_id / search / featured 筛选）
func (h *Handler) GetProducts(c *gin.Context) {
	store, ok := h.loadStore(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	categoryID, err := handlershared.ParseQueryUint(c, "category_id")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	featured, err := handlershared.ParseQueryBool(c, "featured")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	products, total, err := h.ProductService.ListPublic(
		store.ID,
		categoryID,
		strings.TrimSpace(c.Query("search")),
		featured != nil && *featured,
		page,
		pageSize,
	)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetProductBySlug 商品详情
func (h *Handler) GetProductBySlug(c *gin.Context) {
	store, ok := h.loadStore(c)
	if !ok {
		return
	}
	product, err := h.ProductService.GetPublicBySlug(store.ID, c.Param("product_slug"))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, product)
}

// GetBanners 当前有效的 Banner
func (h *Handler) GetBanners(c *gin.Context) {
	store, ok := h.loadStore(c)
	if !ok {
		return
	}
	banners, err := h.BannerService.ListPublic(store.ID)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, banners)
}

// GetKits 上架套装
func (h *Handler) GetKits(c *gin.Context) {
	store, ok := h.loadStore(c)
	if !ok {
		return
	}
	kits, err := h.KitService.ListPublic(store.ID)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, kits)
}
