package constants

// 店铺状态
const (
	StoreStatusActive    = "active"
	StoreStatusSuspended = "suspended"
)

// 商户账号状态
const (
	MerchantStatusActive   = "active"
	MerchantStatusDisabled = "disabled"
)

// 优惠券类型
const (
	CouponTypePercentage = "percentage"
	CouponTypeFixed      = "fixed"
)

// 订单（WhatsApp 转交）状态
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCompleted = "completed"
	OrderStatusCanceled  = "canceled"
)

// 订单行类型
const (
	OrderItemKindProduct = "product"
	OrderItemKindKit     = "kit"
)

// 支付方式（仅记录客户意向，不做支付处理）
const (
	PaymentMethodPix    = "pix"
	PaymentMethodCard   = "card"
	PaymentMethodCash   = "cash"
	PaymentMethodBoleto = "boleto"
)

// 购物车
const (
	CartTokenHeader  = "X-Cart-Token"
	CartTokenContext = "cart_token"
	KitProductPrefix = "kit-"
)

// 队列与任务
const (
	QueueDefault  = "default"
	QueueCritical = "critical"

	TaskOrderPlacedNotify = "order:placed_notify"
	TaskCouponRedeemed    = "coupon:redeemed"
)

// 上下文键
const (
	ContextRequestID     = "request_id"
	ContextMerchantID    = "merchant_id"
	ContextStoreID       = "store_id"
	ContextAdminID       = "admin_id"
	ContextAdminUsername = "admin_username"
	ContextAdminSuper    = "admin_is_super"
)
