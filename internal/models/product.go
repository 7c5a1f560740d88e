package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                                      // 主键
	StoreID        uint           `gorm:"not null;index;uniqueIndex:idx_product_store_slug" json:"store_id"`         // 所属店铺
	CategoryID     uint           `gorm:"not null;index" json:"category_id"`                                         // 分类ID
	Name           string         `gorm:"type:varchar(200);not null" json:"name"`                                    // 商品名称
	Slug           string         `gorm:"type:varchar(120);not null;uniqueIndex:idx_product_store_slug" json:"slug"` // 店铺内唯一标识
	Description    string         `gorm:"type:text" json:"description"`                                              // 商品描述
	Price          Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`                        // 售价
	CompareAtPrice Money          `gorm:"type:decimal(20,2);not null;default:0" json:"compare_at_price"`             // 划线价（0 表示不展示）
	Images         StringArray    `gorm:"type:json" json:"images"`                                                   // 图片数组
	Sizes          StringArray    `gorm:"type:json" json:"sizes"`                                                    // 可选尺码
	Colors         StringArray    `gorm:"type:json" json:"colors"`                                                   // 可选颜色
	TrackStock     bool           `gorm:"not null;default:false" json:"track_stock"`                                 // 是否启用库存控制
	Stock          int            `gorm:"not null;default:0" json:"stock"`                                           // 可售库存（仅 TrackStock 时生效）
	IsFeatured     bool           `gorm:"default:false;index" json:"is_featured"`                                    // 是否推荐
	IsActive       bool           `gorm:"not null;index" json:"is_active"`                                           // 是否上架
	SortOrder      int            `gorm:"default:0;index" json:"sort_order"`                                         // 排序权重
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                                   // 创建时间
	UpdatedAt      time.Time      `json:"updated_at"`                                                                // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                                            // 软删除时间

	// 关联
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// CoverImage 返回首图
func (p *Product) CoverImage() string {
	if p == nil || len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// AllowsQuantity 判断库存是否足够
func (p *Product) AllowsQuantity(quantity int) bool {
	if p == nil {
		return false
	}
	if !p.TrackStock {
		return true
	}
	return quantity <= p.Stock
}
