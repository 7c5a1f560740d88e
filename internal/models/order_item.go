package models

import (
	"time"
)

// OrderItem 订单项表（下单时的购物车快照）
type OrderItem struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                    // 主键
	OrderID    uint      `gorm:"not null;index" json:"order_id"`                          // 订单ID
	Kind       string    `gorm:"type:varchar(20);not null;default:'product'" json:"kind"` // 行类型（product/kit）
	ProductID  *uint     `gorm:"index" json:"product_id,omitempty"`                       // 商品ID
	KitID      *uint     `gorm:"index" json:"kit_id,omitempty"`                           // 套装ID
	VariantKey string    `gorm:"type:varchar(255);not null" json:"variant_key"`           // 规格键
	Name       string    `gorm:"type:varchar(200);not null" json:"name"`                  // 商品名称快照
	Image      string    `gorm:"type:varchar(500)" json:"image"`                          // 图片快照
	Size       string    `gorm:"type:varchar(40)" json:"size"`                            // 尺码
	Color      string    `gorm:"type:varchar(40)" json:"color"`                           // 颜色
	UnitPrice  Money     `gorm:"type:decimal(20,2);not null" json:"unit_price"`           // 单价快照
	Quantity   int       `gorm:"not null" json:"quantity"`                                // 数量
	LineTotal  Money     `gorm:"type:decimal(20,2);not null" json:"line_total"`           // 行小计
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                                 // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
