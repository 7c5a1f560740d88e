package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon 店铺优惠券表
type Coupon struct {
	ID         uint           `gorm:"primarykey" json:"id"`                                                    // 主键
	StoreID    uint           `gorm:"not null;index;uniqueIndex:idx_coupon_store_code" json:"store_id"`        // 所属店铺
	Code       string         `gorm:"type:varchar(40);not null;uniqueIndex:idx_coupon_store_code" json:"code"` // 券码（大写）
	Type       string         `gorm:"type:varchar(20);not null" json:"type"`                                   // 优惠类型（percentage/fixed）
	Value      Money          `gorm:"type:decimal(20,2);not null" json:"value"`                                // 优惠值
	MinAmount  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"min_amount"`                 // 最低订单金额
	UsageLimit int            `gorm:"not null;default:0" json:"usage_limit"`                                   // 总使用次数上限（0 表示不限）
	UsedCount  int            `gorm:"not null;default:0" json:"used_count"`                                    // 已使用次数
	StartsAt   *time.Time     `gorm:"index" json:"starts_at"`                                                  // 生效时间
	EndsAt     *time.Time     `gorm:"index" json:"ends_at"`                                                    // 失效时间
	IsActive   bool           `gorm:"not null;index" json:"is_active"`                                         // 是否启用
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                                                 // 创建时间
	UpdatedAt  time.Time      `json:"updated_at"`                                                              // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                                          // 软删除时间
}

// TableName 指定表名
func (Coupon) TableName() string {
	return "coupons"
}

// IsRedeemableAt 判断券在指定时间是否可用（启用、在有效期内、未用尽）
func (c *Coupon) IsRedeemableAt(now time.Time) bool {
	if c == nil || !c.IsActive {
		return false
	}
	if c.StartsAt != nil && now.Before(*c.StartsAt) {
		return false
	}
	if c.EndsAt != nil && now.After(*c.EndsAt) {
		return false
	}
	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return false
	}
	return true
}
