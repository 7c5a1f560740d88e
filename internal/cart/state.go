package cart

import "github.com/shopspring/decimal"

// State 购物车可持久化快照
type State struct {
	Items         []LineItem      `json:"items"`
	AppliedCoupon *Coupon         `json:"applied_coupon,omitempty"`
	ShippingCost  decimal.Decimal `json:"shipping_cost"`
}

// Summary 购物车派生金额汇总
type Summary struct {
	Items                 []LineItem      `json:"items"`
	ItemCount             int             `json:"item_count"`
	LineCount             int             `json:"line_count"`
	AppliedCoupon         *Coupon         `json:"applied_coupon,omitempty"`
	Subtotal              decimal.Decimal `json:"subtotal"`
	Discount              decimal.Decimal `json:"discount"`
	ShippingCost          decimal.Decimal `json:"shipping_cost"`
	EffectiveShipping     decimal.Decimal `json:"effective_shipping"`
	FreeShippingThreshold decimal.Decimal `json:"free_shipping_threshold"`
	Total                 decimal.Decimal `json:"total"`
}

// Snapshot 导出当前状态
func (e *Engine) Snapshot() State {
	return State{
		Items:         e.Items(),
		AppliedCoupon: e.AppliedCoupon(),
		ShippingCost:  e.shippingCost,
	}
}

// Restore 以快照替换当前状态；数量非正的行被丢弃
func (e *Engine) Restore(state State) {
	e.items = e.items[:0]
	for _, item := range state.Items {
		if item.Quantity <= 0 {
			continue
		}
		if item.VariantKey == "" {
			item.VariantKey = VariantKey(item.ProductID, item.Size, item.Color)
		}
		e.items = append(e.items, item)
	}
	e.coupon = nil
	if state.AppliedCoupon != nil {
		c := state.AppliedCoupon.normalized()
		e.coupon = &c
	}
	e.shippingCost = decimal.Zero
	e.SetShipping(state.ShippingCost)
}

// Summary 计算全部派生金额
func (e *Engine) Summary() Summary {
	return Summary{
		Items:                 e.Items(),
		ItemCount:             e.ItemCount(),
		LineCount:             len(e.items),
		AppliedCoupon:         e.AppliedCoupon(),
		Subtotal:              e.Subtotal(),
		Discount:              e.Discount(),
		ShippingCost:          e.shippingCost,
		EffectiveShipping:     e.EffectiveShipping(),
		FreeShippingThreshold: e.freeShippingThreshold,
		Total:                 e.Total(),
	}
}
