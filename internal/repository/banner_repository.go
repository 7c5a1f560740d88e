package repository

import (
	"errors"
	"time"

	"github.com/vitrine-next/internal/models"

	"gorm.io/gorm"
)

// BannerRepository Banner 数据访问接口
type BannerRepository interface {
	List(filter BannerListFilter) ([]models.Banner, int64, error)
	ListValid(storeID uint, limit int, now time.Time) ([]models.Banner, error)
	GetByID(storeID, id uint) (*models.Banner, error)
	Create(banner *models.Banner) error
	Update(banner *models.Banner) error
	Delete(storeID, id uint) error
}

// GormBannerRepository GORM 实现
type GormBannerRepository struct {
	db *gorm.DB
}

// NewBannerRepository 创建 Banner 仓库
func NewBannerRepository(db *gorm.DB) *GormBannerRepository {
	return &GormBannerRepository{db: db}
}

// List Banner 列表
func (r *GormBannerRepository) List(filter BannerListFilter) ([]models.Banner, int64, error) {
	query := r.db.Model(&models.Banner{}).Where("store_id = ?", filter.StoreID)
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.OnlyValid {
		query = validBannerScope(query, filter.Now)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	banners := make([]models.Banner, 0)
	if err := query.Order("sort_order DESC, id DESC").Find(&banners).Error; err != nil {
		return nil, 0, err
	}
	return banners, total, nil
}

// ListValid 获取店铺当前生效的 Banner
func (r *GormBannerRepository) ListValid(storeID uint, limit int, now time.Time) ([]models.Banner, error) {
	query := validBannerScope(r.db.Model(&models.Banner{}).Where("store_id = ?", storeID), now)
	if limit > 0 {
		query = query.Limit(limit)
	}
	banners := make([]models.Banner, 0)
	if err := query.Order("sort_order DESC, id DESC").Find(&banners).Error; err != nil {
		return nil, err
	}
	return banners, nil
}

func validBannerScope(query *gorm.DB, now time.Time) *gorm.DB {
	if now.IsZero() {
		now = time.Now()
	}
	return query.
		Where("is_active = ?", true).
		Where("(start_at IS NULL OR start_at <= ?)", now).
		Where("(end_at IS NULL OR end_at >= ?)", now)
}

// GetByID 根据 ID 获取 Banner
func (r *GormBannerRepository) GetByID(storeID, id uint) (*models.Banner, error) {
	var banner models.Banner
	if err := r.db.Where("store_id = ?", storeID).First(&banner, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &banner, nil
}

// Create 创建 Banner
func (r *GormBannerRepository) Create(banner *models.Banner) error {
	if err := r.db.Create(banner).Error; err != nil {
		return err
	}
	return persistInactive(r.db, banner, banner.IsActive)
}

// Update 更新 Banner
func (r *GormBannerRepository) Update(banner *models.Banner) error {
	return r.db.Save(banner).Error
}

// Delete 删除 Banner
func (r *GormBannerRepository) Delete(storeID, id uint) error {
	return r.db.Where("store_id = ?", storeID).Delete(&models.Banner{}, id).Error
}
