package repository

import (
	"testing"

	"github.com/vitrine-next/internal/models"
)

func TestKitCreateAndReplaceItems(t *testing.T) {
	db := openTestDB(t)
	repo := NewKitRepository(db)
	store := createTestStore(t, db, "loja-kit")
	shirt := createTestProduct(t, db, store.ID, "camiseta", "49.90")
	shorts := createTestProduct(t, db, store.ID, "bermuda", "79.90")

	kit := &models.Kit{
		StoreID:  store.ID,
		Name:     "Kit Verão",
		Price:    models.MustMoney("110.00"),
		IsActive: true,
		Items: []models.KitItem{
			{ProductID: shirt.ID, Quantity: 2},
			{ProductID: shorts.ID, Quantity: 1},
		},
	}
	if err := repo.Create(kit); err != nil {
		t.Fatalf("create kit failed: %v", err)
	}

	got, err := repo.GetByID(store.ID, kit.ID, true)
	if err != nil || got == nil {
		t.Fatalf("get kit failed: %v", err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 kit items, got %d", len(got.Items))
	}
	if got.Items[0].Product.Name != shirt.Name {
		t.Fatalf("expected preloaded product, got %q", got.Items[0].Product.Name)
	}
	if original := got.OriginalPrice(); original.String() != "179.70" {
		t.Fatalf("unexpected original price: %s", original.String())
	}

	got.Items = []models.KitItem{{ProductID: shorts.ID, Quantity: 3}}
	if err := repo.Update(got); err != nil {
		t.Fatalf("update kit failed: %v", err)
	}
	reloaded, err := repo.GetByID(store.ID, kit.ID, false)
	if err != nil || reloaded == nil {
		t.Fatalf("reload kit failed: %v", err)
	}
	if len(reloaded.Items) != 1 || reloaded.Items[0].Quantity != 3 {
		t.Fatalf("kit items should be replaced, got %+v", reloaded.Items)
	}

	if err := repo.Delete(store.ID, kit.ID); err != nil {
		t.Fatalf("delete kit failed: %v", err)
	}
	var remaining int64
	if err := db.Model(&models.KitItem{}).Where("kit_id = ?", kit.ID).Count(&remaining).Error; err != nil {
		t.Fatalf("count kit items failed: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("kit items should be removed with kit, got %d", remaining)
	}
}
