package queue

import (
	"encoding/json"
	"fmt"

	"github.com/vitrine-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderPlacedNotify 新订单商户通知任务
	TaskOrderPlacedNotify = constants.TaskOrderPlacedNotify
	// TaskCouponRedeemed 优惠券核销计数任务
	TaskCouponRedeemed = constants.TaskCouponRedeemed
)

// OrderPlacedNotifyPayload 新订单通知任务载荷
type OrderPlacedNotifyPayload struct {
	OrderID uint `json:"order_id"`
	StoreID uint `json:"store_id"`
}

// CouponRedeemedPayload 优惠券核销任务载荷
type CouponRedeemedPayload struct {
	CouponID uint `json:"coupon_id"`
	OrderID  uint `json:"order_id"`
}

// NewOrderPlacedNotifyTask 创建新订单通知任务
func NewOrderPlacedNotifyTask(payload OrderPlacedNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderPlacedNotify, body), nil
}

// NewCouponRedeemedTask 创建优惠券核销任务
func NewCouponRedeemedTask(payload CouponRedeemedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCouponRedeemed, body), nil
}

// couponRedeemedTaskID 同一订单只核销一次
func couponRedeemedTaskID(payload CouponRedeemedPayload) string {
	return fmt.Sprintf("coupon-redeemed:%d:%d", payload.CouponID, payload.OrderID)
}

func orderPlacedNotifyTaskID(payload OrderPlacedNotifyPayload) string {
	return fmt.Sprintf("order-placed:%d", payload.OrderID)
}
