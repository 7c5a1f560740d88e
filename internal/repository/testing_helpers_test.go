package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/vitrine-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
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
	return db
}

func createTestStore(t *testing.T, db *gorm.DB, slug string) *models.Store {
	t.Helper()
	store := &models.Store{
		Name:     "Loja " + slug,
		Slug:     slug,
		WhatsApp: "5511999998888",
		Status:   "active",
	}
	if err := db.Create(store).Error; err != nil {
		t.Fatalf("create store failed: %v", err)
	}
	return store
}

func createTestProduct(t *testing.T, db *gorm.DB, storeID uint, slug, price string) *models.Product {
	t.Helper()
	product := &models.Product{
		StoreID:    storeID,
		CategoryID: 1,
		Name:       "Produto " + slug,
		Slug:       slug,
		Price:      models.MustMoney(price),
		IsActive:   true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}
