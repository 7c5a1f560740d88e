package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vitrine-next/internal/constants"
	"github.com/vitrine-next/internal/repository"

	"github.com/shopspring/decimal"
)

func TestIsOrderTransitionAllowed(t *testing.T) {
	allowed := [][2]string{
		{constants.OrderStatusPending, constants.OrderStatusConfirmed},
		{constants.OrderStatusPending, constants.OrderStatusCanceled},
		{constants.OrderStatusConfirmed, constants.OrderStatusCompleted},
		{constants.OrderStatusConfirmed, constants.OrderStatusCanceled},
	}
	for _, pair := range allowed {
		if !IsOrderTransitionAllowed(pair[0], pair[1]) {
			t.Fatalf("%s -> %s should be allowed", pair[0], pair[1])
		}
	}
	denied := [][2]string{
		{constants.OrderStatusPending, constants.OrderStatusCompleted},
		{constants.OrderStatusCompleted, constants.OrderStatusCanceled},
		{constants.OrderStatusCanceled, constants.OrderStatusConfirmed},
		{constants.OrderStatusPending, constants.OrderStatusPending},
	}
	for _, pair := range denied {
		if IsOrderTransitionAllowed(pair[0], pair[1]) {
			t.Fatalf("%s -> %s should be denied", pair[0], pair[1])
		}
	}
}

func TestOrderConfirmConsumesStock(t *testing.T) {
	svc := newTestServices(t)
	store := svc.createStore(t, "loja-confirma")
	category := svc.createCategory(t, store.ID)
	shirt := svc.createProduct(t, store.ID, category.ID, "camiseta", "59.90", withStock(5))
	bone := svc.createProduct(t, store.ID, category.ID, "bone", "39.90")
	kit, err := svc.kits.Create(store.ID, CreateKitInput{
		Name:  "Kit",
		Price: decimal.RequireFromString("80"),
		Items: []KitItemInput{{ProductID: shirt.ID, Quantity: 1}, {ProductID: bone.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create kit failed: %v", err)
	}

	order := placeTestOrder(t, svc, store, "tok", func(ctx context.Context) {
		if _, err := svc.carts.AddItem(ctx, store, "tok", AddCartItemInput{ProductID: shirt.ID, Quantity: 2}); err != nil {
			t.Fatalf("add shirt failed: %v", err)
		}
		if _, err := svc.carts.AddKit(ctx, store, "tok", kit.ID, 1); err != nil {
			t.Fatalf("add kit failed: %v", err)
		}
	})

	confirmed, err := svc.orders.UpdateStatus(store.ID, order.ID, constants.OrderStatusConfirmed)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if confirmed.Status != constants.OrderStatusConfirmed || confirmed.ConfirmedAt == nil {
		t.Fatalf("unexpected confirmed order: %+v", confirmed)
	}
	reloaded, err := svc.productRepo.GetByID(store.ID, shirt.ID)
	if err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.Stock != 2 {
		t.Fatalf("stock want 2 (5 - 2 - 1 from kit) got %d", reloaded.Stock)
	}

	if _, err := svc.orders.UpdateStatus(store.ID, order.ID, constants.OrderStatusConfirmed); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("double confirm should be invalid, got %v", err)
	}
	completed, err := svc.orders.UpdateStatus(store.ID, order.ID, constants.OrderStatusCompleted)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if completed.CompletedAt == nil {
		t.Fatalf("completed_at should be stamped")
	}
}

func TestOrderConfirmRollsBackOnInsufficientStock(t *testing.T) {
	svc := newTestServices(t)
	store := svc.createStore(t, "loja-sem-estoque")
	category := svc.createCategory(t, store.ID)
	shirt := svc.createProduct(t, store.ID, category.ID, "camiseta", "59.90", withStock(2))

	first := placeTestOrder(t, svc, store, "tok-1", func(ctx context.Context) {
		if _, err := svc.carts.AddItem(ctx, store, "tok-1", AddCartItemInput{ProductID: shirt.ID, Quantity: 2}); err != nil {
			t.Fatalf("add item failed: %v", err)
		}
	})
	second := placeTestOrder(t, svc, store, "tok-2", func(ctx context.Context) {
		if _, err := svc.carts.AddItem(ctx, store, "tok-2", AddCartItemInput{ProductID: shirt.ID, Quantity: 1}); err != nil {
			t.Fatalf("add item failed: %v", err)
		}
	})

	if _, err := svc.orders.UpdateStatus(store.ID, first.ID, constants.OrderStatusConfirmed); err != nil {
		t.Fatalf("confirm first failed: %v", err)
	}
	if _, err := svc.orders.UpdateStatus(store.ID, second.ID, constants.OrderStatusConfirmed); !errors.Is(err, ErrOrderStockInsufficient) {
		t.Fatalf("want ErrOrderStockInsufficient got %v", err)
	}
	reloaded, err := svc.orders.Get(store.ID, second.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusPending {
		t.Fatalf("failed confirm must roll back status, got %s", reloaded.Status)
	}
	canceled, err := svc.orders.UpdateStatus(store.ID, second.ID, constants.OrderStatusCanceled)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if canceled.CanceledAt == nil {
		t.Fatalf("canceled_at should be stamped")
	}
}

func TestOrderScopedByStore(t *testing.T) {
	svc := newTestServices(t)
	store := svc.createStore(t, "loja-dona")
	other := svc.createStore(t, "loja-outra")
	category := svc.createCategory(t, store.ID)
	shirt := svc.createProduct(t, store.ID, category.ID, "camiseta", "59.90")
	order := placeTestOrder(t, svc, store, "tok", func(ctx context.Context) {
		if _, err := svc.carts.AddItem(ctx, store, "tok", AddCartItemInput{ProductID: shirt.ID}); err != nil {
			t.Fatalf("add item failed: %v", err)
		}
	})

	if _, err := svc.orders.Get(other.ID, order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("other store must not see the order, got %v", err)
	}
	if _, err := svc.orders.UpdateStatus(other.ID, order.ID, constants.OrderStatusCanceled); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("other store must not update the order, got %v", err)
	}
	orders, total, err := svc.orders.List(repository.OrderListFilter{StoreID: store.ID, Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("list orders failed: %v", err)
	}
	if total != 1 || len(orders) != 1 || orders[0].ID != order.ID {
		t.Fatalf("unexpected order list: total=%d %+v", total, orders)
	}
}

func TestOrderMarkNotifiedIsIdempotent(t *testing.T) {
	svc := newTestServices(t)
	store := svc.createStore(t, "loja-aviso")
	category := svc.createCategory(t, store.ID)
	shirt := svc.createProduct(t, store.ID, category.ID, "camiseta", "59.90")
	order := placeTestOrder(t, svc, store, "tok", func(ctx context.Context) {
		if _, err := svc.carts.AddItem(ctx, store, "tok", AddCartItemInput{ProductID: shirt.ID}); err != nil {
			t.Fatalf("add item failed: %v", err)
		}
	})

	pending, err := svc.orders.ListUnnotified(-time.Minute, 10)
	if err != nil {
		t.Fatalf("list unnotified failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 unnotified order got %d", len(pending))
	}

	_, first, err := svc.orders.MarkNotified(order.ID)
	if err != nil || !first {
		t.Fatalf("first mark should write: first=%v err=%v", first, err)
	}
	_, again, err := svc.orders.MarkNotified(order.ID)
	if err != nil || again {
		t.Fatalf("second mark should be a no-op: again=%v err=%v", again, err)
	}
	if _, _, err := svc.orders.MarkNotified(9999); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("want ErrOrderNotFound got %v", err)
	}
}
