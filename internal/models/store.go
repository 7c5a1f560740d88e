package models

import (
	"time"

	"gorm.io/gorm"
)

// Store 店铺（租户）表
type Store struct {
	ID                    uint           `gorm:"primarykey" json:"id"`                                                 // 主键
	Name                  string         `gorm:"type:varchar(120);not null" json:"name"`                               // 店铺名称
	Slug                  string         `gorm:"type:varchar(60);uniqueIndex;not null" json:"slug"`                    // 公开访问标识
	WhatsApp              string         `gorm:"type:varchar(20);not null" json:"whatsapp"`                            // WhatsApp 号码（纯数字，含国家码）
	Email                 string         `gorm:"type:varchar(255);index" json:"email"`                                 // 联系邮箱
	Description           string         `gorm:"type:text" json:"description"`                                         // 店铺简介
	Logo                  string         `gorm:"type:varchar(500)" json:"logo"`                                        // Logo 地址
	ShippingFee           Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_fee"`            // 统一运费
	FreeShippingThreshold Money          `gorm:"type:decimal(20,2);not null;default:0" json:"free_shipping_threshold"` // 包邮门槛（0 表示使用平台默认值）
	Status                string         `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`       // 店铺状态（active/suspended）
	SuspendedReason       string         `gorm:"type:varchar(255)" json:"suspended_reason,omitempty"`                  // 停用原因
	CreatedAt             time.Time      `gorm:"index" json:"created_at"`                                              // 创建时间
	UpdatedAt             time.Time      `json:"updated_at"`                                                           // 更新时间
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`                                                       // 软删除时间
}

// TableName 指定表名
func (Store) TableName() string {
	return "stores"
}

// IsActive 店铺是否对外营业
func (s *Store) IsActive() bool {
	return s != nil && s.Status == "active"
}
