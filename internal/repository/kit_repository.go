package repository

import (
	"errors"

	"github.com/vitrine-next/internal/models"

	"gorm.io/gorm"
)

// KitRepository 套装数据访问接口
type KitRepository interface {
	List(filter KitListFilter) ([]models.Kit, int64, error)
	GetByID(storeID, id uint, onlyActive bool) (*models.Kit, error)
	Create(kit *models.Kit) error
	Update(kit *models.Kit) error
	Delete(storeID, id uint) error
}

// GormKitRepository GORM 实现
type GormKitRepository struct {
	db *gorm.DB
}

// NewKitRepository 创建套装仓库
func NewKitRepository(db *gorm.DB) *GormKitRepository {
	return &GormKitRepository{db: db}
}

func preloadKitItems(query *gorm.DB) *gorm.DB {
	return query.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).Preload("Items.Product")
}

// List 套装列表
func (r *GormKitRepository) List(filter KitListFilter) ([]models.Kit, int64, error) {
	query := r.db.Model(&models.Kit{}).Where("store_id = ?", filter.StoreID)
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(preloadKitItems(query), filter.Page, filter.PageSize)

	kits := make([]models.Kit, 0)
	if err := query.Order("sort_order DESC, id DESC").Find(&kits).Error; err != nil {
		return nil, 0, err
	}
	return kits, total, nil
}

// GetByID 根据 ID 获取套装（附带明细与商品）
func (r *GormKitRepository) GetByID(storeID, id uint, onlyActive bool) (*models.Kit, error) {
	var kit models.Kit
	query := preloadKitItems(r.db.Where("store_id = ?", storeID))
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	if err := query.First(&kit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &kit, nil
}

// Create 创建套装及明细
func (r *GormKitRepository) Create(kit *models.Kit) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		items := kit.Items
		kit.Items = nil
		if err := tx.Create(kit).Error; err != nil {
			return err
		}
		if err := persistInactive(tx, kit, kit.IsActive); err != nil {
			return err
		}
		for i := range items {
			items[i].ID = 0
			items[i].KitID = kit.ID
		}
		if len(items) > 0 {
			if err := tx.Omit("Product").Create(&items).Error; err != nil {
				return err
			}
		}
		kit.Items = items
		return nil
	})
}

// Update 更新套装，明细整体替换
func (r *GormKitRepository) Update(kit *models.Kit) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		items := kit.Items
		if err := tx.Omit("Items").Save(kit).Error; err != nil {
			return err
		}
		if err := tx.Where("kit_id = ?", kit.ID).Delete(&models.KitItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ID = 0
			items[i].KitID = kit.ID
		}
		if len(items) > 0 {
			if err := tx.Omit("Product").Create(&items).Error; err != nil {
				return err
			}
		}
		kit.Items = items
		return nil
	})
}

// Delete 删除套装
func (r *GormKitRepository) Delete(storeID, id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("store_id = ?", storeID).Delete(&models.Kit{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return tx.Where("kit_id = ?", id).Delete(&models.KitItem{}).Error
	})
}
