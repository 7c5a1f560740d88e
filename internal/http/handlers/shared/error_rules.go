package shared

import (
	"github.com/vitrine-next/internal/cache"
	"github.com/vitrine-next/internal/cart"
	"github.com/vitrine-next/internal/http/response"
	"github.com/vitrine-next/internal/service"
)

// StoreErrorRules 店铺相关错误
var StoreErrorRules = []MappedError{
	{Target: service.ErrStoreNotFound, Code: response.CodeNotFound, Key: "error.store_not_found"},
	{Target: service.ErrStoreSuspended, Code: response.CodeForbidden, Key: "error.store_suspended"},
	{Target: service.ErrInvalidSlug, Code: response.CodeBadRequest, Key: "error.slug_invalid"},
	{Target: service.ErrSlugExists, Code: response.CodeConflict, Key: "error.slug_exists"},
	{Target: service.ErrInvalidWhatsApp, Code: response.CodeBadRequest, Key: "error.whatsapp_invalid"},
	{Target: service.ErrInvalidStoreState, Code: response.CodeBadRequest, Key: "error.store_status_invalid"},
	{Target: service.ErrStoreStatusNoop, Code: response.CodeBadRequest, Key: "error.store_status_noop"},
	{Target: service.ErrEmailExists, Code: response.CodeConflict, Key: "error.email_exists"},
	{Target: service.ErrWeakPassword, Code: response.CodeBadRequest, Key: "error.password_weak"},
	{Target: service.ErrInvalidInput, Code: response.CodeBadRequest, Key: "error.bad_request"},
}

// CatalogErrorRules 商品目录相关错误
var CatalogErrorRules = []MappedError{
	{Target: service.ErrCategoryNotFound, Code: response.CodeNotFound, Key: "error.category_not_found"},
	{Target: service.ErrCategoryInUse, Code: response.CodeConflict, Key: "error.category_in_use"},
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrProductInactive, Code: response.CodeBadRequest, Key: "error.product_inactive"},
	{Target: service.ErrInvalidVariant, Code: response.CodeBadRequest, Key: "error.variant_invalid"},
	{Target: service.ErrKitNotFound, Code: response.CodeNotFound, Key: "error.kit_not_found"},
	{Target: service.ErrKitPriceInvalid, Code: response.CodeBadRequest, Key: "error.kit_price_invalid"},
	{Target: service.ErrKitItemsInvalid, Code: response.CodeBadRequest, Key: "error.kit_items_invalid"},
	{Target: service.ErrBannerNotFound, Code: response.CodeNotFound, Key: "error.banner_not_found"},
	{Target: service.ErrCouponNotFound, Code: response.CodeNotFound, Key: "error.coupon_not_found"},
	{Target: service.ErrCouponCodeExists, Code: response.CodeConflict, Key: "error.coupon_code_exists"},
	{Target: service.ErrCouponValueInvalid, Code: response.CodeBadRequest, Key: "error.coupon_value_invalid"},
	{Target: service.ErrCouponTypeInvalid, Code: response.CodeBadRequest, Key: "error.coupon_type_invalid"},
	{Target: service.ErrCouponWindow, Code: response.CodeBadRequest, Key: "error.coupon_window_invalid"},
	{Target: service.ErrSlugExists, Code: response.CodeConflict, Key: "error.slug_exists"},
	{Target: service.ErrInvalidSlug, Code: response.CodeBadRequest, Key: "error.slug_invalid"},
	{Target: service.ErrInvalidInput, Code: response.CodeBadRequest, Key: "error.bad_request"},
}

// CartErrorRules 购物车与结算相关错误，优惠券拒绝按引擎错误类型区分
var CartErrorRules = []MappedError{
	{Target: service.ErrStoreNotFound, Code: response.CodeNotFound, Key: "error.store_not_found"},
	{Target: service.ErrCartTokenMissing, Code: response.CodeBadRequest, Key: "error.cart_token_missing"},
	{Target: cache.ErrCartLocked, Code: response.CodeConflict, Key: "error.cart_busy"},
	{Target: service.ErrCartItemNotFound, Code: response.CodeNotFound, Key: "error.cart_item_not_found"},
	{Target: service.ErrCartEmpty, Code: response.CodeBadRequest, Key: "error.cart_empty"},
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrProductInactive, Code: response.CodeBadRequest, Key: "error.product_inactive"},
	{Target: service.ErrKitNotFound, Code: response.CodeNotFound, Key: "error.kit_not_found"},
	{Target: service.ErrInvalidVariant, Code: response.CodeBadRequest, Key: "error.variant_invalid"},
	{Target: service.ErrStockUnavailable, Code: response.CodeBadRequest, Key: "error.stock_unavailable"},
	{Target: service.ErrInvalidCEP, Code: response.CodeBadRequest, Key: "error.cep_invalid"},
	{Target: service.ErrCustomerInfoRequired, Code: response.CodeBadRequest, Key: "error.customer_info_required"},
	{Target: service.ErrPaymentMethodInvalid, Code: response.CodeBadRequest, Key: "error.payment_method_invalid"},
	{Target: cart.ErrUnknownCoupon, Code: response.CodeBadRequest, Key: "error.coupon_unknown"},
	{Target: cart.ErrMinimumNotMet, Code: response.CodeBadRequest, Key: "error.coupon_min_amount"},
	{Target: service.ErrInvalidInput, Code: response.CodeBadRequest, Key: "error.bad_request"},
}

// OrderErrorRules 订单状态相关错误
var OrderErrorRules = []MappedError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrOrderStatusInvalid, Code: response.CodeBadRequest, Key: "error.order_status_invalid"},
	{Target: service.ErrOrderStatusConflict, Code: response.CodeConflict, Key: "error.order_status_conflict"},
	{Target: service.ErrOrderStockInsufficient, Code: response.CodeBadRequest, Key: "error.order_stock_insufficient"},
}

// AuthErrorRules 登录与账号相关错误
var AuthErrorRules = []MappedError{
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.invalid_credentials"},
	{Target: service.ErrAccountDisabled, Code: response.CodeForbidden, Key: "error.account_disabled"},
	{Target: service.ErrStoreSuspended, Code: response.CodeForbidden, Key: "error.store_suspended"},
	{Target: service.ErrInvalidPassword, Code: response.CodeBadRequest, Key: "error.password_invalid"},
	{Target: service.ErrWeakPassword, Code: response.CodeBadRequest, Key: "error.password_weak"},
	{Target: service.ErrUsernameExists, Code: response.CodeConflict, Key: "error.username_exists"},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.admin_not_found"},
	{Target: service.ErrInvalidInput, Code: response.CodeBadRequest, Key: "error.bad_request"},
}

// CaptchaErrorRules 验证码相关错误
var CaptchaErrorRules = []MappedError{
	{Target: service.ErrCaptchaRequired, Code: response.CodeBadRequest, Key: "error.captcha_required"},
	{Target: service.ErrCaptchaInvalid, Code: response.CodeBadRequest, Key: "error.captcha_invalid"},
	{Target: service.ErrCaptchaUnavailable, Code: response.CodeInternal, Key: "error.captcha_unavailable"},
}

// DashboardErrorRules 仪表盘查询错误
var DashboardErrorRules = []MappedError{
	{Target: service.ErrDashboardRangeInvalid, Code: response.CodeBadRequest, Key: "error.dashboard_range_invalid"},
}
