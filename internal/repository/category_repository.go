package repository

import (
	"errors"

	"github.com/vitrine-next/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository 分类数据访问接口（均按店铺隔离）
type CategoryRepository interface {
	List(storeID uint) ([]models.Category, error)
	GetByID(storeID, id uint) (*models.Category, error)
	Create(category *models.Category) error
	Update(category *models.Category) error
	Delete(storeID, id uint) error
	CountBySlug(storeID uint, slug string, excludeID uint) (int64, error)
	CountProducts(storeID, categoryID uint) (int64, error)
}

// GormCategoryRepository GORM 实现
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓库
func NewCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// List 分类列表
func (r *GormCategoryRepository) List(storeID uint) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Where("store_id = ?", storeID).Order("sort_order DESC, id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetByID 根据 ID 获取分类
func (r *GormCategoryRepository) GetByID(storeID, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("store_id = ?", storeID).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// Create 创建分类
func (r *GormCategoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

// Update 更新分类
func (r *GormCategoryRepository) Update(category *models.Category) error {
	return r.db.Save(category).Error
}

// Delete 删除分类
func (r *GormCategoryRepository) Delete(storeID, id uint) error {
	return r.db.Where("store_id = ?", storeID).Delete(&models.Category{}, id).Error
}

// CountBySlug 统计店铺内 slug 数量
func (r *GormCategoryRepository) CountBySlug(storeID uint, slug string, excludeID uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Category{}).Where("store_id = ? AND slug = ?", storeID, slug)
	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountProducts 统计分类下的商品数量
func (r *GormCategoryRepository) CountProducts(storeID, categoryID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).
		Where("store_id = ? AND category_id = ?", storeID, categoryID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
