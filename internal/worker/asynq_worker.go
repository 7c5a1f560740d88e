package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/vitrine-next/internal/logger"
	"github.com/vitrine-next/internal/provider"
	"github.com/vitrine-next/internal/queue"
	"github.com/vitrine-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderPlacedNotify, c.handleOrderPlacedNotify)
	mux.HandleFunc(queue.TaskCouponRedeemed, c.handleCouponRedeemed)
}

// handleOrderPlacedNotify 记录商户新订单通知事件并写入 notified_at
// 实际推送渠道不在本服务内，重复投递只会记录一次。
func (c *Consumer) handleOrderPlacedNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_placed_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderPlacedNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_placed_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_placed_notify_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.OrderService == nil {
		logger.Warnw("worker_order_placed_notify_skip_order_service_nil", "order_id", payload.OrderID)
		return nil
	}

	order, first, err := c.OrderService.MarkNotified(payload.OrderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			logger.Debugw("worker_order_placed_notify_skip_order_not_found", "order_id", payload.OrderID)
			return nil
		}
		logger.Warnw("worker_order_placed_notify_mark_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if !first {
		logger.Debugw("worker_order_placed_notify_skip_already_notified", "order_id", order.ID, "order_no", order.OrderNo)
		return nil
	}
	logger.Infow("merchant_order_notification",
		"store_id", order.StoreID,
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"total", order.TotalAmount.String(),
		"mode", "queue",
	)
	return nil
}

func (c *Consumer) handleCouponRedeemed(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_coupon_redeemed_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CouponRedeemedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_coupon_redeemed_unmarshal_failed", "error", err)
		return err
	}
	if payload.CouponID == 0 {
		logger.Debugw("worker_coupon_redeemed_skip_invalid_payload", "coupon_id", payload.CouponID, "order_id", payload.OrderID)
		return nil
	}
	if c.CouponService == nil {
		logger.Warnw("worker_coupon_redeemed_skip_coupon_service_nil", "coupon_id", payload.CouponID)
		return nil
	}
	if err := c.CouponService.RecordRedemption(payload.CouponID); err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			logger.Debugw("worker_coupon_redeemed_skip_coupon_not_found", "coupon_id", payload.CouponID, "order_id", payload.OrderID)
			return nil
		}
		logger.Warnw("worker_coupon_redeemed_failed", "coupon_id", payload.CouponID, "order_id", payload.OrderID, "error", err)
		return err
	}
	return nil
}
