package models

import (
	"time"

	"gorm.io/gorm"
)

// Merchant 商户账号表（店铺所有者）
type Merchant struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                           // 主键
	StoreID      uint           `gorm:"not null;index" json:"store_id"`                                 // 所属店铺
	Name         string         `gorm:"type:varchar(120)" json:"name"`                                  // 显示名称
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`            // 登录邮箱
	PasswordHash string         `gorm:"not null" json:"-"`                                              // 密码哈希
	TokenVersion uint64         `gorm:"not null;default:0" json:"-"`                                    // Token 版本（用于全量失效）
	Status       string         `gorm:"type:varchar(20);not null;default:'active';index" json:"status"` // 账号状态
	LastLoginAt  *time.Time     `json:"last_login_at"`                                                  // 最后登录时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                                     // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                                 // 软删除时间

	Store Store `gorm:"foreignKey:StoreID" json:"store,omitempty"` // 店铺信息
}

// TableName 指定表名
func (Merchant) TableName() string {
	return "merchants"
}
