package repository

import (
	"testing"
	"time"

	"github.com/vitrine-next/internal/constants"
	"github.com/vitrine-next/internal/models"
)

func TestDashboardStoreOverviewAndTopProducts(t *testing.T) {
	db := openTestDB(t)
	repo := NewDashboardRepository(db)
	orders := NewOrderRepository(db)
	store := createTestStore(t, db, "painel")
	other := createTestStore(t, db, "painel-outra")
	shirt := createTestProduct(t, db, store.ID, "camiseta", "50.00")
	hat := createTestProduct(t, db, store.ID, "bone", "30.00")

	line := func(productID uint, name string, qty int, total string) models.OrderItem {
		id := productID
		return models.OrderItem{
			Kind:       constants.OrderItemKindProduct,
			ProductID:  &id,
			VariantKey: name,
			Name:       name,
			UnitPrice:  models.MustMoney(total),
			Quantity:   qty,
			LineTotal:  models.MustMoney(total),
		}
	}

	createTestOrder(t, orders, store.ID, "VT-P-1", constants.OrderStatusConfirmed, "150.00", line(shirt.ID, "Camiseta", 3, "150.00"))
	createTestOrder(t, orders, store.ID, "VT-P-2", constants.OrderStatusCompleted, "30.00", line(hat.ID, "Boné", 1, "30.00"))
	createTestOrder(t, orders, store.ID, "VT-P-3", constants.OrderStatusPending, "50.00", line(shirt.ID, "Camiseta", 1, "50.00"))
	createTestOrder(t, orders, store.ID, "VT-P-4", constants.OrderStatusCanceled, "90.00", line(hat.ID, "Boné", 3, "90.00"))
	createTestOrder(t, orders, other.ID, "VT-O-1", constants.OrderStatusConfirmed, "999.00")

	startAt := time.Now().Add(-time.Hour)
	endAt := time.Now().Add(time.Hour)

	overview, err := repo.GetStoreOverview(store.ID, startAt, endAt)
	if err != nil {
		t.Fatalf("store overview failed: %v", err)
	}
	if overview.OrdersTotal != 4 || overview.PendingOrders != 1 || overview.CanceledOrders != 1 {
		t.Fatalf("unexpected order counts: %+v", overview)
	}
	if overview.Revenue != 180 {
		t.Fatalf("expected revenue 180, got %v", overview.Revenue)
	}
	if overview.ItemsSold != 4 {
		t.Fatalf("expected 4 items sold, got %d", overview.ItemsSold)
	}
	if overview.ActiveProducts != 2 {
		t.Fatalf("expected 2 active products, got %d", overview.ActiveProducts)
	}

	ranking, err := repo.GetTopProducts(store.ID, startAt, endAt, 5)
	if err != nil {
		t.Fatalf("top products failed: %v", err)
	}
	if len(ranking) != 2 || ranking[0].ProductID != shirt.ID || ranking[0].Quantity != 3 {
		t.Fatalf("unexpected ranking: %+v", ranking)
	}

	trends, err := repo.GetOrderTrends(store.ID, startAt, endAt)
	if err != nil {
		t.Fatalf("order trends failed: %v", err)
	}
	if len(trends) == 0 {
		t.Fatalf("expected at least one trend bucket")
	}
	var trendOrders int64
	for _, row := range trends {
		trendOrders += row.OrdersTotal
	}
	if trendOrders != 4 {
		t.Fatalf("expected 4 orders across trend buckets, got %d", trendOrders)
	}
}

func TestDashboardPlatformOverview(t *testing.T) {
	db := openTestDB(t)
	repo := NewDashboardRepository(db)
	orders := NewOrderRepository(db)
	active := createTestStore(t, db, "ativa")
	suspended := createTestStore(t, db, "suspensa")
	if err := db.Model(suspended).Update("status", constants.StoreStatusSuspended).Error; err != nil {
		t.Fatalf("suspend store failed: %v", err)
	}
	createTestOrder(t, orders, active.ID, "VT-G-1", constants.OrderStatusPending, "100.00")
	createTestOrder(t, orders, active.ID, "VT-G-2", constants.OrderStatusCanceled, "40.00")
	createTestOrder(t, orders, suspended.ID, "VT-G-3", constants.OrderStatusCompleted, "25.50")

	overview, err := repo.GetPlatformOverview(time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("platform overview failed: %v", err)
	}
	if overview.StoresTotal != 2 || overview.ActiveStores != 1 || overview.SuspendedStores != 1 {
		t.Fatalf("unexpected store counts: %+v", overview)
	}
	if overview.OrdersTotal != 3 {
		t.Fatalf("expected 3 orders, got %d", overview.OrdersTotal)
	}
	if overview.GMV != 125.5 {
		t.Fatalf("expected GMV 125.5, got %v", overview.GMV)
	}
}
