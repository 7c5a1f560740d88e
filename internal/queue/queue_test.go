package queue

import (
	"encoding/json"
	"testing"

	"github.com/vitrine-next/internal/config"
)

func TestDisabledClientIsNoop(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := client.EnqueueOrderPlacedNotify(OrderPlacedNotifyPayload{OrderID: 1}); err != nil {
		t.Fatalf("disabled enqueue should be a no-op, got %v", err)
	}
	if err := client.EnqueueCouponRedeemed(CouponRedeemedPayload{CouponID: 1, OrderID: 1}); err != nil {
		t.Fatalf("disabled enqueue should be a no-op, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close disabled client failed: %v", err)
	}
}

func TestNewTasksCarryPayload(t *testing.T) {
	task, err := NewCouponRedeemedTask(CouponRedeemedPayload{CouponID: 3, OrderID: 8})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if task.Type() != TaskCouponRedeemed {
		t.Fatalf("unexpected task type: %s", task.Type())
	}
	var payload CouponRedeemedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		t.Fatalf("decode payload failed: %v", err)
	}
	if payload.CouponID != 3 || payload.OrderID != 8 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if got := couponRedeemedTaskID(payload); got != "coupon-redeemed:3:8" {
		t.Fatalf("unexpected task id: %s", got)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(nil)
	if opt.Addr != "127.0.0.1:6379" {
		t.Fatalf("unexpected addr: %s", opt.Addr)
	}
	if cfg.Concurrency != 10 {
		t.Fatalf("unexpected concurrency: %d", cfg.Concurrency)
	}
	if cfg.Queues[CriticalQueue] != 2 || cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("unexpected queues: %+v", cfg.Queues)
	}
}
