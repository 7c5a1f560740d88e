package models

import "time"

// AdminAuditLog 平台后台操作审计日志
// 说明：记录店铺停用/启用与角色分配等敏感操作，支持按管理员与动作检索。
type AdminAuditLog struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	OperatorAdminID  uint      `gorm:"index;not null" json:"operator_admin_id"`
	OperatorUsername string    `gorm:"type:varchar(100);index;not null;default:''" json:"operator_username"`
	Action           string    `gorm:"type:varchar(100);index;not null" json:"action"`
	TargetType       string    `gorm:"type:varchar(40);index;not null;default:''" json:"target_type"`
	TargetID         uint      `gorm:"index;not null;default:0" json:"target_id"`
	RequestID        string    `gorm:"type:varchar(64);index;not null;default:''" json:"request_id"`
	DetailJSON       JSON      `gorm:"type:json" json:"detail"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (AdminAuditLog) TableName() string {
	return "admin_audit_logs"
}
