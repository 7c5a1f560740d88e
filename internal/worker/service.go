package worker

import (
	"context"
	"errors"
	"time"

	"github.com/vitrine-next/internal/config"
	"github.com/vitrine-next/internal/logger"
	"github.com/vitrine-next/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	notifySweepInterval = time.Minute
	notifySweepGrace    = 2 * time.Minute
	notifySweepBatch    = 100
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.OrderService != nil && s.consumer.QueueClient.Enabled() {
		go s.runNotifySweepLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runNotifySweepLoop 补投超过宽限期仍未通知的订单（入队失败或任务丢失时兜底）
func (s *Service) runNotifySweepLoop(ctx context.Context) {
	ticker := time.NewTicker(notifySweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.consumer.sweepUnnotified()
		}
	}
}

// sweepUnnotified 返回本轮补投的订单数量
func (c *Consumer) sweepUnnotified() int {
	orders, err := c.OrderService.ListUnnotified(notifySweepGrace, notifySweepBatch)
	if err != nil {
		logger.Warnw("worker_notify_sweep_list_failed", "error", err)
		return 0
	}
	requeued := 0
	for _, order := range orders {
		err := c.QueueClient.EnqueueOrderPlacedNotify(queue.OrderPlacedNotifyPayload{OrderID: order.ID, StoreID: order.StoreID})
		if err != nil {
			logger.Warnw("worker_notify_sweep_enqueue_failed", "order_id", order.ID, "error", err)
			continue
		}
		requeued++
	}
	if requeued > 0 {
		logger.Infow("worker_notify_sweep_requeued", "count", requeued)
	}
	return requeued
}
