package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vitrine-next/internal/constants"
	"github.com/vitrine-next/internal/repository"
)

func TestResolveDashboardWindow(t *testing.T) {
	now := time.Date(2026, 10, 15, 15, 30, 0, 0, time.UTC)

	window, err := resolveDashboardWindow(DashboardQueryInput{Timezone: "UTC"}, now)
	if err != nil {
		t.Fatalf("resolve default window failed: %v", err)
	}
	if window.rangeKey != "7d" || !window.startAt.Equal(time.Date(2026, 10, 9, 0, 0, 0, 0, time.UTC)) || !window.endAt.Equal(time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected 7d window: %+v", window)
	}

	if _, err := resolveDashboardWindow(DashboardQueryInput{Range: "1y"}, now); !errors.Is(err, ErrDashboardRangeInvalid) {
		t.Fatalf("want ErrDashboardRangeInvalid got %v", err)
	}
	from := now.AddDate(0, 0, -100)
	if _, err := resolveDashboardWindow(DashboardQueryInput{Range: "custom", From: &from, To: &now}, now); !errors.Is(err, ErrDashboardRangeInvalid) {
		t.Fatalf("custom range over limit should be rejected, got %v", err)
	}
}

func TestStoreDashboardCountsConfirmedRevenue(t *testing.T) {
	svc := newTestServices(t)
	store := svc.createStore(t, "loja-painel")
	category := svc.createCategory(t, store.ID)
	shirt := svc.createProduct(t, store.ID, category.ID, "camiseta", "50.00")

	confirmed := placeTestOrder(t, svc, store, "tok-1", func(ctx context.Context) {
		if _, err := svc.carts.AddItem(ctx, store, "tok-1", AddCartItemInput{ProductID: shirt.ID, Quantity: 2}); err != nil {
			t.Fatalf("add item failed: %v", err)
		}
	})
	placeTestOrder(t, svc, store, "tok-2", func(ctx context.Context) {
		if _, err := svc.carts.AddItem(ctx, store, "tok-2", AddCartItemInput{ProductID: shirt.ID}); err != nil {
			t.Fatalf("add item failed: %v", err)
		}
	})
	if _, err := svc.orders.UpdateStatus(store.ID, confirmed.ID, constants.OrderStatusConfirmed); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	dashboard := NewDashboardService(repository.NewDashboardRepository(svc.db))
	resp, err := dashboard.GetStoreDashboard(context.Background(), store.ID, DashboardQueryInput{Range: "today", Timezone: "UTC", ForceRefresh: true})
	if err != nil {
		t.Fatalf("store dashboard failed: %v", err)
	}
	if resp.KPI.OrdersTotal != 2 || resp.KPI.PendingOrders != 1 || resp.KPI.ConfirmedOrders != 1 {
		t.Fatalf("unexpected order counts: %+v", resp.KPI)
	}
	// 100.00 + 15.00 de frete
	if resp.KPI.Revenue != "115.00" || resp.KPI.AverageTicket != "115.00" {
		t.Fatalf("unexpected revenue: %+v", resp.KPI)
	}
	if len(resp.Points) != 1 || resp.Points[0].OrdersTotal != 2 {
		t.Fatalf("unexpected trend points: %+v", resp.Points)
	}

	platform, err := dashboard.GetPlatformDashboard(context.Background(), DashboardQueryInput{Range: "today", Timezone: "UTC", ForceRefresh: true})
	if err != nil {
		t.Fatalf("platform dashboard failed: %v", err)
	}
	if platform.StoresTotal != 1 || platform.OrdersTotal != 2 {
		t.Fatalf("unexpected platform overview: %+v", platform)
	}
}
