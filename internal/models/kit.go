package models

import (
	"time"

	"gorm.io/gorm"
)

// Kit 组合套装表
type Kit struct {
	ID          uint           `gorm:"primarykey" json:"id"`                               // 主键
	StoreID     uint           `gorm:"not null;index" json:"store_id"`                     // 所属店铺
	Name        string         `gorm:"type:varchar(200);not null" json:"name"`             // 套装名称
	Description string         `gorm:"type:text" json:"description"`                       // 描述
	Image       string         `gorm:"type:varchar(500)" json:"image"`                     // 封面图
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 套装价
	IsActive    bool           `gorm:"not null;index" json:"is_active"`                    // 是否上架
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`                  // 排序
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间

	Items []KitItem `gorm:"foreignKey:KitID" json:"items,omitempty"` // 套装内商品
}

// TableName 指定表名
func (Kit) TableName() string {
	return "kits"
}

// KitItem 套装明细表
type KitItem struct {
	ID        uint `gorm:"primarykey" json:"id"`               // 主键
	KitID     uint `gorm:"not null;index" json:"kit_id"`       // 套装ID
	ProductID uint `gorm:"not null;index" json:"product_id"`   // 商品ID
	Quantity  int  `gorm:"not null;default:1" json:"quantity"` // 数量

	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 商品信息
}

// TableName 指定表名
func (KitItem) TableName() string {
	return "kit_items"
}

// OriginalPrice 套装内商品原价合计
func (k *Kit) OriginalPrice() Money {
	total := Money{}
	if k == nil {
		return total
	}
	for _, item := range k.Items {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		total = NewMoneyFromDecimal(total.Decimal.Add(item.Product.Price.Decimal.Mul(decimalFromInt(qty))))
	}
	return total
}
