package service

import "errors"

// 通用错误
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrSlugExists       = errors.New("slug already exists")
	ErrInvalidSlug      = errors.New("invalid slug")
	ErrStockUnavailable = errors.New("stock unavailable")
)

// 认证相关错误
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrWeakPassword       = errors.New("weak password")
	ErrEmailExists        = errors.New("email already exists")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrUsernameExists     = errors.New("username already exists")
	ErrCaptchaRequired    = errors.New("captcha required")
	ErrCaptchaInvalid     = errors.New("captcha invalid")
	ErrCaptchaUnavailable = errors.New("captcha unavailable")
)

// 店铺相关错误
var (
	ErrStoreNotFound     = errors.New("store not found")
	ErrStoreSuspended    = errors.New("store suspended")
	ErrInvalidWhatsApp   = errors.New("invalid whatsapp number")
	ErrStoreStatusNoop   = errors.New("store already in target status")
	ErrInvalidStoreState = errors.New("invalid store status")
)

// 商品目录相关错误
var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInUse    = errors.New("category in use")
	ErrProductNotFound  = errors.New("product not found")
	ErrProductInactive  = errors.New("product inactive")
	ErrInvalidVariant   = errors.New("invalid product variant")
	ErrKitNotFound      = errors.New("kit not found")
	ErrKitPriceInvalid  = errors.New("kit price invalid")
	ErrKitItemsInvalid  = errors.New("kit items invalid")
	ErrBannerNotFound   = errors.New("banner not found")
)

// 优惠券相关错误
var (
	ErrCouponNotFound     = errors.New("coupon not found")
	ErrCouponCodeExists   = errors.New("coupon code exists")
	ErrCouponValueInvalid = errors.New("coupon value invalid")
	ErrCouponTypeInvalid  = errors.New("coupon type invalid")
	ErrCouponWindow       = errors.New("coupon window invalid")
)

// 购物车与结算相关错误
var (
	ErrCartTokenMissing     = errors.New("cart token missing")
	ErrCartItemNotFound     = errors.New("cart item not found")
	ErrCartEmpty            = errors.New("cart empty")
	ErrInvalidCEP           = errors.New("invalid cep")
	ErrCustomerInfoRequired = errors.New("customer info required")
	ErrPaymentMethodInvalid = errors.New("payment method invalid")
)

// 订单相关错误
var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrOrderStatusInvalid     = errors.New("order status transition invalid")
	ErrOrderStatusConflict    = errors.New("order status changed concurrently")
	ErrOrderStockInsufficient = errors.New("order stock insufficient")
)

// 仪表盘相关错误
var (
	ErrDashboardRangeInvalid = errors.New("dashboard range invalid")
)
