package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/vitrine-next/internal/config"
	"github.com/vitrine-next/internal/constants"
	"github.com/vitrine-next/internal/models"
	"github.com/vitrine-next/internal/provider"
	"github.com/vitrine-next/internal/queue"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func newTestConsumer(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Admin{},
		&models.AdminAuditLog{},
		&models.Store{},
		&models.Merchant{},
		&models.Category{},
		&models.Product{},
		&models.Coupon{},
		&models.Kit{},
		&models.KitItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	queueClient, _ := queue.NewClient(nil)
	cfg := &config.Config{Cart: config.CartConfig{SessionTTLHours: 1}}
	return NewConsumer(provider.NewContainerWithDB(cfg, db, queueClient)), db
}

func newTask(t *testing.T, taskType string, payload interface{}) *asynq.Task {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	return asynq.NewTask(taskType, body)
}

func TestHandleOrderPlacedNotifyStampsOnce(t *testing.T) {
	consumer, db := newTestConsumer(t)
	order := &models.Order{
		StoreID:      1,
		OrderNo:      "VT20261015ABCDEF01",
		Status:       constants.OrderStatusPending,
		CustomerName: "Maria",
		TotalAmount:  models.MustMoney("115.00"),
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	task := newTask(t, queue.TaskOrderPlacedNotify, queue.OrderPlacedNotifyPayload{OrderID: order.ID, StoreID: 1})
	if err := consumer.handleOrderPlacedNotify(context.Background(), task); err != nil {
		t.Fatalf("handle notify failed: %v", err)
	}
	var stored models.Order
	if err := db.First(&stored, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if stored.NotifiedAt == nil {
		t.Fatalf("notified_at should be stamped")
	}
	first := *stored.NotifiedAt

	if err := consumer.handleOrderPlacedNotify(context.Background(), task); err != nil {
		t.Fatalf("second notify should be a no-op, got %v", err)
	}
	if err := db.First(&stored, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if !stored.NotifiedAt.Equal(first) {
		t.Fatalf("notified_at should not move on redelivery")
	}
}

func TestHandleOrderPlacedNotifyMissingOrder(t *testing.T) {
	consumer, _ := newTestConsumer(t)
	task := newTask(t, queue.TaskOrderPlacedNotify, queue.OrderPlacedNotifyPayload{OrderID: 999})
	if err := consumer.handleOrderPlacedNotify(context.Background(), task); err != nil {
		t.Fatalf("missing order should be skipped, got %v", err)
	}
	bad := asynq.NewTask(queue.TaskOrderPlacedNotify, []byte("{"))
	if err := consumer.handleOrderPlacedNotify(context.Background(), bad); err == nil {
		t.Fatalf("malformed payload should fail")
	}
}

func TestHandleCouponRedeemed(t *testing.T) {
	consumer, db := newTestConsumer(t)
	coupon := &models.Coupon{
		StoreID:  1,
		Code:     "DESCONTO15",
		Type:     constants.CouponTypePercentage,
		Value:    models.MustMoney("15"),
		IsActive: true,
	}
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	task := newTask(t, queue.TaskCouponRedeemed, queue.CouponRedeemedPayload{CouponID: coupon.ID, OrderID: 10})
	if err := consumer.handleCouponRedeemed(context.Background(), task); err != nil {
		t.Fatalf("handle coupon redeemed failed: %v", err)
	}
	var stored models.Coupon
	if err := db.First(&stored, coupon.ID).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if stored.UsedCount != 1 {
		t.Fatalf("used_count want 1 got %d", stored.UsedCount)
	}

	missing := newTask(t, queue.TaskCouponRedeemed, queue.CouponRedeemedPayload{CouponID: 404, OrderID: 11})
	if err := consumer.handleCouponRedeemed(context.Background(), missing); err != nil {
		t.Fatalf("missing coupon should be skipped, got %v", err)
	}
}

func TestSweepUnnotifiedWithDisabledQueue(t *testing.T) {
	consumer, db := newTestConsumer(t)
	old := time.Now().Add(-time.Hour)
	order := &models.Order{
		StoreID:      1,
		OrderNo:      "VT20261015ABCDEF02",
		Status:       constants.OrderStatusPending,
		CustomerName: "João",
		CreatedAt:    old,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	// 队列禁用时入队为空操作，仍计入补投数量
	if got := consumer.sweepUnnotified(); got != 1 {
		t.Fatalf("sweep want 1 got %d", got)
	}
}
