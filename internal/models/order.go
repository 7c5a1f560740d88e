package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 结算转交订单表（客户通过 WhatsApp 与商户确认）
type Order struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                         // 主键
	StoreID        uint           `gorm:"not null;index" json:"store_id"`                               // 所属店铺
	OrderNo        string         `gorm:"uniqueIndex;not null" json:"order_no"`                         // 订单编号
	Status         string         `gorm:"type:varchar(20);index;not null" json:"status"`                // 订单状态
	CustomerName   string         `gorm:"type:varchar(120);not null" json:"customer_name"`              // 客户姓名
	CustomerPhone  string         `gorm:"type:varchar(20)" json:"customer_phone"`                       // 客户电话
	Address        string         `gorm:"type:varchar(500)" json:"address"`                             // 收货地址
	CEP            string         `gorm:"type:varchar(8)" json:"cep"`                                   // 邮编
	PaymentMethod  string         `gorm:"type:varchar(20)" json:"payment_method"`                       // 意向支付方式
	Notes          string         `gorm:"type:text" json:"notes"`                                       // 备注
	CouponID       *uint          `gorm:"index" json:"coupon_id,omitempty"`                             // 优惠券ID
	CouponCode     string         `gorm:"type:varchar(40)" json:"coupon_code,omitempty"`                // 优惠券码
	SubtotalAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal_amount"` // 商品小计
	DiscountAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"` // 优惠金额
	ShippingAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_amount"` // 实际运费
	TotalAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`    // 应付金额
	ItemCount      int            `gorm:"not null;default:0" json:"item_count"`                         // 商品件数
	WhatsAppLink   string         `gorm:"type:text" json:"whatsapp_link"`                               // WhatsApp 跳转链接
	NotifiedAt     *time.Time     `gorm:"index" json:"notified_at"`                                     // 商户通知时间
	ConfirmedAt    *time.Time     `gorm:"index" json:"confirmed_at"`                                    // 确认时间
	CompletedAt    *time.Time     `gorm:"index" json:"completed_at"`                                    // 完成时间
	CanceledAt     *time.Time     `gorm:"index" json:"canceled_at"`                                     // 取消时间
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                                      // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
