package merchant

import (
	handlershared "github.com/vitrine-next/internal/http/handlers/shared"
	"github.com/vitrine-next/internal/http/response"
	"github.com/vitrine-next/internal/repository"
	"github.com/vitrine-next/internal/service"

	"github.com/gin-gonic/gin"
)

// BannerRequest Banner 请求，时间为 RFC3339
type BannerRequest struct {
	Title     string `json:"title" binding:"required"`
	Subtitle  string `json:"subtitle"`
	Image     string `json:"image" binding:"required"`
	LinkURL   string `json:"link_url"`
	IsActive  *bool  `json:"is_active"`
	StartAt   string `json:"start_at"`
	EndAt     string `json:"end_at"`
	SortOrder int    `json:"sort_order"`
}

func (r BannerRequest) toInput() (service.CreateBannerInput, error) {
	startAt, err := handlershared.ParseTimeNullable(r.StartAt)
	if err != nil {
		return service.CreateBannerInput{}, err
	}
	endAt, err := handlershared.ParseTimeNullable(r.EndAt)
	if err != nil {
		return service.CreateBannerInput{}, err
	}
	return service.CreateBannerInput{
		Title:     r.Title,
		Subtitle:  r.Subtitle,
		Image:     r.Image,
		LinkURL:   r.LinkURL,
		IsActive:  r.IsActive,
		StartAt:   startAt,
		EndAt:     endAt,
		SortOrder: r.SortOrder,
	}, nil
}

func bindBanner(c *gin.Context) (service.CreateBannerInput, bool) {
	var req BannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return service.CreateBannerInput{}, false
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return service.CreateBannerInput{}, false
	}
	return input, true
}

// GetBanners Banner 列表
func (h *Handler) GetBanners(c *gin.Context) {
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
	banners, total, err := h.BannerService.List(repository.BannerListFilter{
		Page:     page,
		PageSize: pageSize,
		StoreID:  storeID,
		IsActive: isActive,
	})
	if err != nil {
		respondCatalogFetchError(c, err)
		return
	}
	response.SuccessWithPage(c, banners, response.NewPagination(page, pageSize, total))
}

// CreateBanner 创建 Banner
func (h *Handler) CreateBanner(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}
	input, ok := bindBanner(c)
	if !ok {
		return
	}
	banner, err := h.BannerService.Create(storeID, input)
	if err != nil {
		respondCatalogSaveError(c, err)
		return
	}
	response.Success(c, banner)
}

// UpdateBanner 更新 Banner
func (h *Handler) UpdateBanner(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	input, ok := bindBanner(c)
	if !ok {
		return
	}
	banner, err := h.BannerService.Update(storeID, id, input)
	if err != nil {
		respondCatalogSaveError(c, err)
		return
	}
	response.Success(c, banner)
}

// DeleteBanner 删除 Banner
func (h *Handler) DeleteBanner(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.BannerService.Delete(storeID, id); err != nil {
		respondCatalogSaveError(c, err)
		return
	}
	response.Success(c, nil)
}
