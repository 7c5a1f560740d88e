package cart

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultFreeShippingThreshold 默认包邮门槛
var DefaultFreeShippingThreshold = decimal.NewFromInt(199)

var hundred = decimal.NewFromInt(100)

// Product 加入购物车时的商品快照来源
type Product struct {
	ID    string
	Name  string
	Price decimal.Decimal
	Image string
}

// LineItem 购物车行（商品 + 尺码 + 颜色）
type LineItem struct {
	ProductID  string          `json:"product_id"`
	VariantKey string          `json:"variant_key"`
	Name       string          `json:"name"`
	Image      string          `json:"image"`
	Size       string          `json:"size,omitempty"`
	Color      string          `json:"color,omitempty"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
}

// LineTotal 行小计
func (l LineItem) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Option 引擎选项
type Option func(*Engine)

// WithFreeShippingThreshold 覆盖包邮门槛（非正数时忽略）
func WithFreeShippingThreshold(threshold decimal.Decimal) Option {
	return func(e *Engine) {
		if threshold.GreaterThan(decimal.Zero) {
			e.freeShippingThreshold = threshold
		}
	}
}

// Engine 购物车计价引擎
//
// 所有金额均在调用时根据当前状态重新计算，不做缓存。
// 引擎不是并发安全的，由持有者串行访问。
type Engine struct {
	items                 []LineItem
	coupon                *Coupon
	shippingCost          decimal.Decimal
	freeShippingThreshold decimal.Decimal
}

// New 创建空购物车
func New(opts ...Option) *Engine {
	e := &Engine{
		shippingCost:          decimal.Zero,
		freeShippingThreshold: DefaultFreeShippingThreshold,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// 行标识各段内的 ":" 与 "%" 需转义，避免不同规格拼出相同标识
var variantKeyEscaper = strings.NewReplacer("%", "%25", ":", "%3A")

// VariantKey 由商品ID、尺码、颜色组成行标识
func VariantKey(productID, size, color string) string {
	productID = variantKeyEscaper.Replace(strings.TrimSpace(productID))
	size = variantKeyEscaper.Replace(strings.TrimSpace(size))
	color = variantKeyEscaper.Replace(strings.TrimSpace(color))
	if size == "" && color == "" {
		return productID
	}
	return productID + ":" + size + ":" + color
}

// AddItem 加入商品；相同行数量 +1，否则追加新行
func (e *Engine) AddItem(p Product, size, color string) {
	key := VariantKey(p.ID, size, color)
	if idx := e.indexOf(key); idx >= 0 {
		e.items[idx].Quantity++
		return
	}
	e.items = append(e.items, LineItem{
		ProductID:  strings.TrimSpace(p.ID),
		VariantKey: key,
		Name:       p.Name,
		Image:      p.Image,
		Size:       strings.TrimSpace(size),
		Color:      strings.TrimSpace(color),
		UnitPrice:  p.Price,
		Quantity:   1,
	})
}

// RemoveItem 删除行，不存在时忽略
func (e *Engine) RemoveItem(variantKey string) {
	idx := e.indexOf(variantKey)
	if idx < 0 {
		return
	}
	e.items = append(e.items[:idx], e.items[idx+1:]...)
}

// UpdateQuantity 设置行数量；<= 0 等同删除
func (e *Engine) UpdateQuantity(variantKey string, quantity int) {
	if quantity <= 0 {
		e.RemoveItem(variantKey)
		return
	}
	if idx := e.indexOf(variantKey); idx >= 0 {
		e.items[idx].Quantity = quantity
	}
}

// Clear 清空购物车、优惠券与运费
func (e *Engine) Clear() {
	e.items = nil
	e.coupon = nil
	e.shippingCost = decimal.Zero
}

// ApplyCoupon 校验并应用优惠券；失败时状态不变
func (e *Engine) ApplyCoupon(coupon *Coupon) error {
	if coupon == nil {
		return declineUnknown("")
	}
	subtotal := e.Subtotal()
	if subtotal.LessThan(coupon.MinOrderValue) {
		return declineMinimum(coupon, subtotal)
	}
	applied := coupon.normalized()
	e.coupon = &applied
	return nil
}

// RemoveCoupon 移除已应用的优惠券
func (e *Engine) RemoveCoupon() {
	e.coupon = nil
}

// SetShipping 写入外部报价的运费，负数按 0 处理
func (e *Engine) SetShipping(cost decimal.Decimal) {
	if cost.IsNegative() {
		cost = decimal.Zero
	}
	e.shippingCost = cost
}

// Subtotal 商品小计
func (e *Engine) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range e.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Discount 优惠金额，不超过小计
func (e *Engine) Discount() decimal.Decimal {
	if e.coupon == nil {
		return decimal.Zero
	}
	subtotal := e.Subtotal()
	var discount decimal.Decimal
	switch e.coupon.DiscountType {
	case DiscountPercentage:
		discount = subtotal.Mul(e.coupon.DiscountValue).Div(hundred).Round(2)
	case DiscountFixed:
		discount = e.coupon.DiscountValue
	default:
		return decimal.Zero
	}
	if discount.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(discount, subtotal)
}

// EffectiveShipping 实际运费：小计达到门槛时免运费（按优惠前小计判断）
func (e *Engine) EffectiveShipping() decimal.Decimal {
	if e.Subtotal().GreaterThanOrEqual(e.freeShippingThreshold) {
		return decimal.Zero
	}
	return e.shippingCost
}

// Total 应付总额，最低为 0
func (e *Engine) Total() decimal.Decimal {
	total := e.Subtotal().Sub(e.Discount()).Add(e.EffectiveShipping())
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// ItemCount 商品件数（数量之和）
func (e *Engine) ItemCount() int {
	count := 0
	for _, item := range e.items {
		count += item.Quantity
	}
	return count
}

// Items 返回行副本
func (e *Engine) Items() []LineItem {
	out := make([]LineItem, len(e.items))
	copy(out, e.items)
	return out
}

// Item 按行标识查找
func (e *Engine) Item(variantKey string) (LineItem, bool) {
	idx := e.indexOf(variantKey)
	if idx < 0 {
		return LineItem{}, false
	}
	return e.items[idx], true
}

// AppliedCoupon 返回已应用优惠券副本
func (e *Engine) AppliedCoupon() *Coupon {
	if e.coupon == nil {
		return nil
	}
	c := *e.coupon
	return &c
}

// ShippingCost 外部写入的原始运费
func (e *Engine) ShippingCost() decimal.Decimal {
	return e.shippingCost
}

// FreeShippingThreshold 当前包邮门槛
func (e *Engine) FreeShippingThreshold() decimal.Decimal {
	return e.freeShippingThreshold
}

// IsEmpty 是否没有任何行
func (e *Engine) IsEmpty() bool {
	return len(e.items) == 0
}

func (e *Engine) indexOf(variantKey string) int {
	key := strings.TrimSpace(variantKey)
	for i := range e.items {
		if e.items[i].VariantKey == key {
			return i
		}
	}
	return -1
}
