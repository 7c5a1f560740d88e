package cart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DiscountType 优惠类型
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// ParseDiscountType 解析优惠类型（兼容 percent 写法）
func ParseDiscountType(raw string) (DiscountType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "percentage", "percent":
		return DiscountPercentage, true
	case "fixed":
		return DiscountFixed, true
	default:
		return "", false
	}
}

// Coupon 已由调用方解析好的优惠券
type Coupon struct {
	Code          string          `json:"code"`
	DiscountType  DiscountType    `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	MinOrderValue decimal.Decimal `json:"min_order_value"`
}

// NormalizeCode 优惠码统一大写
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Matches 按大小写不敏感比较优惠码
func (c Coupon) Matches(code string) bool {
	return NormalizeCode(c.Code) == NormalizeCode(code)
}

func (c Coupon) normalized() Coupon {
	c.Code = NormalizeCode(c.Code)
	return c
}

var (
	// ErrUnknownCoupon 优惠码不存在于目录中
	ErrUnknownCoupon = errors.New("unknown coupon")
	// ErrMinimumNotMet 小计未达到优惠券最低消费
	ErrMinimumNotMet = errors.New("coupon minimum order value not met")
)

// DeclineCode 拒绝原因代码
type DeclineCode string

const (
	DeclineUnknownCoupon DeclineCode = "unknown_coupon"
	DeclineMinimumNotMet DeclineCode = "minimum_not_met"
)

// CouponDeclinedError 优惠券被拒绝
type CouponDeclinedError struct {
	Code          DeclineCode
	CouponCode    string
	Reason        string
	MinOrderValue decimal.Decimal
	Subtotal      decimal.Decimal
}

func (e *CouponDeclinedError) Error() string {
	return e.Reason
}

func (e *CouponDeclinedError) Unwrap() error {
	switch e.Code {
	case DeclineUnknownCoupon:
		return ErrUnknownCoupon
	case DeclineMinimumNotMet:
		return ErrMinimumNotMet
	default:
		return nil
	}
}

// DeclineUnknown 供调用方在目录查找失败时构造同类错误
func DeclineUnknown(code string) error {
	return declineUnknown(code)
}

func declineUnknown(code string) error {
	normalized := NormalizeCode(code)
	reason := "cupom inválido"
	if normalized != "" {
		reason = fmt.Sprintf("cupom %s inválido", normalized)
	}
	return &CouponDeclinedError{
		Code:       DeclineUnknownCoupon,
		CouponCode: normalized,
		Reason:     reason,
	}
}

func declineMinimum(c *Coupon, subtotal decimal.Decimal) error {
	return &CouponDeclinedError{
		Code:          DeclineMinimumNotMet,
		CouponCode:    NormalizeCode(c.Code),
		Reason:        fmt.Sprintf("pedido mínimo de R$ %s para o cupom %s", c.MinOrderValue.StringFixed(2), NormalizeCode(c.Code)),
		MinOrderValue: c.MinOrderValue,
		Subtotal:      subtotal,
	}
}
