package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/vitrine-next/internal/models"

	"gorm.io/gorm"
)

// MerchantRepository 商户账号数据访问接口
type MerchantRepository interface {
	GetByID(id uint) (*models.Merchant, error)
	GetByEmail(email string) (*models.Merchant, error)
	CountByEmail(email string) (int64, error)
	Create(merchant *models.Merchant) error
	Update(merchant *models.Merchant) error
	TouchLogin(id uint, at time.Time) error
	ListIDsByStore(storeID uint) ([]uint, error)
	WithTx(tx *gorm.DB) MerchantRepository
}

// GormMerchantRepository GORM 实现
type GormMerchantRepository struct {
	db *gorm.DB
}

// NewMerchantRepository 创建商户仓库
func NewMerchantRepository(db *gorm.DB) *GormMerchantRepository {
	return &GormMerchantRepository{db: db}
}

// WithTx 绑定事务
func (r *GormMerchantRepository) WithTx(tx *gorm.DB) MerchantRepository {
	if tx == nil {
		return r
	}
	return &GormMerchantRepository{db: tx}
}

// GetByID 根据 ID 获取商户（附带店铺）
func (r *GormMerchantRepository) GetByID(id uint) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := r.db.Preload("Store").First(&merchant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &merchant, nil
}

// GetByEmail 根据邮箱获取商户（附带店铺）
func (r *GormMerchantRepository) GetByEmail(email string) (*models.Merchant, error) {
	var merchant models.Merchant
	normalized := strings.ToLower(strings.TrimSpace(email))
	if err := r.db.Preload("Store").Where("email = ?", normalized).First(&merchant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &merchant, nil
}

// CountByEmail 统计邮箱占用数量
func (r *GormMerchantRepository) CountByEmail(email string) (int64, error) {
	var count int64
	normalized := strings.ToLower(strings.TrimSpace(email))
	if err := r.db.Model(&models.Merchant{}).Where("email = ?", normalized).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create 创建商户
func (r *GormMerchantRepository) Create(merchant *models.Merchant) error {
	return r.db.Create(merchant).Error
}

// Update 更新商户
func (r *GormMerchantRepository) Update(merchant *models.Merchant) error {
	return r.db.Omit("Store").Save(merchant).Error
}

// TouchLogin 记录最后登录时间
func (r *GormMerchantRepository) TouchLogin(id uint, at time.Time) error {
	return r.db.Model(&models.Merchant{}).Where("id = ?", id).Update("last_login_at", at).Error
}

// ListIDsByStore 获取店铺下全部商户 ID
func (r *GormMerchantRepository) ListIDsByStore(storeID uint) ([]uint, error) {
	ids := make([]uint, 0)
	if err := r.db.Model(&models.Merchant{}).Where("store_id = ?", storeID).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
