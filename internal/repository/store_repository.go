package repository

import (
	"errors"
	"strings"

	"github.com/vitrine-next/internal/models"

	"gorm.io/gorm"
)

// StoreRepository 店铺数据访问接口
type StoreRepository interface {
	GetByID(id uint) (*models.Store, error)
	GetBySlug(slug string) (*models.Store, error)
	CountBySlug(slug string) (int64, error)
	Create(store *models.Store) error
	Update(store *models.Store) error
	UpdateStatus(id uint, status, reason string) error
	List(filter StoreListFilter) ([]models.Store, int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) StoreRepository
}

// GormStoreRepository GORM 实现
type GormStoreRepository struct {
	db *gorm.DB
}

// NewStoreRepository 创建店铺仓库
func NewStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// WithTx 绑定事务
func (r *GormStoreRepository) WithTx(tx *gorm.DB) StoreRepository {
	if tx == nil {
		return r
	}
	return &GormStoreRepository{db: tx}
}

// Transaction 执行事务
func (r *GormStoreRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByID 根据 ID 获取店铺
func (r *GormStoreRepository) GetByID(id uint) (*models.Store, error) {
	var store models.Store
	if err := r.db.First(&store, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &store, nil
}

// GetBySlug 根据 slug 获取店铺
func (r *GormStoreRepository) GetBySlug(slug string) (*models.Store, error) {
	var store models.Store
	if err := r.db.Where("slug = ?", strings.ToLower(strings.TrimSpace(slug))).First(&store).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &store, nil
}

// CountBySlug 统计 slug 占用数量（含软删除，避免复用历史链接）
func (r *GormStoreRepository) CountBySlug(slug string) (int64, error) {
	var count int64
	if err := r.db.Unscoped().Model(&models.Store{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create 创建店铺
func (r *GormStoreRepository) Create(store *models.Store) error {
	return r.db.Create(store).Error
}

// Update 更新店铺
func (r *GormStoreRepository) Update(store *models.Store) error {
	return r.db.Save(store).Error
}

// UpdateStatus 更新店铺状态
func (r *GormStoreRepository) UpdateStatus(id uint, status, reason string) error {
	return r.db.Model(&models.Store{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":           status,
		"suspended_reason": reason,
	}).Error
}

// List 店铺列表
func (r *GormStoreRepository) List(filter StoreListFilter) ([]models.Store, int64, error) {
	var stores []models.Store
	query := r.db.Model(&models.Store{})
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	query = applySearch(r.db, query, filter.Search, "name", "slug", "email")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("id DESC").Find(&stores).Error; err != nil {
		return nil, 0, err
	}
	return stores, total, nil
}
