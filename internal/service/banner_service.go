package service

import (
	"strings"
	"time"

	"github.com/vitrine-next/internal/models"
	"github.com/vitrine-next/internal/repository"
)

const publicBannerLimit = 10

// BannerService Banner 业务服务
type BannerService struct {
	repo repository.BannerRepository
}

// NewBannerService 创建 Banner 服务
func NewBannerService(repo repository.BannerRepository) *BannerService {
	return &BannerService{repo: repo}
}

// CreateBannerInput 创建/更新 Banner 输入
type CreateBannerInput struct {
	Title     string
	Subtitle  string
	Image     string
	LinkURL   string
	IsActive  *bool
	StartAt   *time.Time
	EndAt     *time.Time
	SortOrder int
}

// ListPublic 前台有效 Banner
func (s *BannerService) ListPublic(storeID uint) ([]models.Banner, error) {
	return s.repo.ListValid(storeID, publicBannerLimit, time.Now())
}

// List 商户后台 Banner 列表
func (s *BannerService) List(filter repository.BannerListFilter) ([]models.Banner, int64, error) {
	return s.repo.List(filter)
}

// Create 创建 Banner
func (s *BannerService) Create(storeID uint, input CreateBannerInput) (*models.Banner, error) {
	banner := &models.Banner{StoreID: storeID, IsActive: true}
	if err := applyBannerInput(banner, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(banner); err != nil {
		return nil, err
	}
	return banner, nil
}

// Update 更新 Banner
func (s *BannerService) Update(storeID, id uint, input CreateBannerInput) (*models.Banner, error) {
	banner, err := s.repo.GetByID(storeID, id)
	if err != nil {
		return nil, err
	}
	if banner == nil {
		return nil, ErrBannerNotFound
	}
	if err := applyBannerInput(banner, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(banner); err != nil {
		return nil, err
	}
	return banner, nil
}

// Delete 删除 Banner
func (s *BannerService) Delete(storeID, id uint) error {
	banner, err := s.repo.GetByID(storeID, id)
	if err != nil {
		return err
	}
	if banner == nil {
		return ErrBannerNotFound
	}
	return s.repo.Delete(storeID, id)
}

func applyBannerInput(banner *models.Banner, input CreateBannerInput) error {
	image := strings.TrimSpace(input.Image)
	if image == "" {
		return ErrInvalidInput
	}
	if input.StartAt != nil && input.EndAt != nil && input.EndAt.Before(*input.StartAt) {
		return ErrInvalidInput
	}
	banner.Title = strings.TrimSpace(input.Title)
	banner.Subtitle = strings.TrimSpace(input.Subtitle)
	banner.Image = image
	banner.LinkURL = strings.TrimSpace(input.LinkURL)
	if input.IsActive != nil {
		banner.IsActive = *input.IsActive
	}
	banner.StartAt = input.StartAt
	banner.EndAt = input.EndAt
	banner.SortOrder = input.SortOrder
	return nil
}
