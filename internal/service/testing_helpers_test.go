package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vitrine-next/internal/cache"
	"github.com/vitrine-next/internal/config"
	"github.com/vitrine-next/internal/constants"
	"github.com/vitrine-next/internal/models"
	"github.com/vitrine-next/internal/queue"
	"github.com/vitrine-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

type testServices struct {
	db        *gorm.DB
	cfg       *config.Config
	sessions  *cache.MemoryCartSessionStore
	queue     *fakeTaskQueue
	stores    *StoreService
	merchants *MerchantAuthService
	products  *ProductService
	kits      *KitService
	coupons   *CouponService
	carts     *CartService
	orders    *OrderService
	checkout  *CheckoutService

	productRepo repository.ProductRepository
	couponRepo  repository.CouponRepository
	orderRepo   repository.OrderRepository
}

type fakeTaskQueue struct {
	mu       sync.Mutex
	enabled  bool
	notified []queue.OrderPlacedNotifyPayload
	redeemed []queue.CouponRedeemedPayload
}

func (q *fakeTaskQueue) Enabled() bool {
	return q.enabled
}

func (q *fakeTaskQueue) EnqueueOrderPlacedNotify(payload queue.OrderPlacedNotifyPayload, _ ...asynq.Option) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.notified = append(q.notified, payload)
	return nil
}

func (q *fakeTaskQueue) EnqueueCouponRedeemed(payload queue.CouponRedeemedPayload, _ ...asynq.Option) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.redeemed = append(q.redeemed, payload)
	return nil
}

func newTestConfig() *config.Config {
	return &config.Config{
		JWT:      config.JWTConfig{SecretKey: "merchant-secret", ExpireHours: 1},
		AdminJWT: config.JWTConfig{SecretKey: "admin-secret", ExpireHours: 1},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 8, RequireNumber: true},
		},
		Cart:     config.CartConfig{FreeShippingThreshold: "199.00", SessionTTLHours: 72},
		Checkout: config.CheckoutConfig{WhatsAppBaseURL: "https://wa.me/", CurrencySymbol: "R$", DefaultDDI: "55"},
	}
}

func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
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
		&models.Banner{},
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

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	db := openServiceTestDB(t)
	cfg := newTestConfig()

	storeRepo := repository.NewStoreRepository(db)
	merchantRepo := repository.NewMerchantRepository(db)
	auditRepo := repository.NewAdminAuditLogRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	kitRepo := repository.NewKitRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	sessions := cache.NewMemoryCartSessionStore(time.Hour)
	taskQueue := &fakeTaskQueue{enabled: true}

	stores := NewStoreService(cfg, storeRepo, merchantRepo, auditRepo)
	coupons := NewCouponService(couponRepo)
	carts := NewCartService(sessions, cache.NewMemoryCartLocker(), stores, productRepo, kitRepo, coupons)
	orders := NewOrderService(orderRepo, productRepo, kitRepo)

	return &testServices{
		db:          db,
		cfg:         cfg,
		sessions:    sessions,
		queue:       taskQueue,
		stores:      stores,
		merchants:   NewMerchantAuthService(cfg, merchantRepo),
		products:    NewProductService(productRepo, categoryRepo),
		kits:        NewKitService(kitRepo, productRepo),
		coupons:     coupons,
		carts:       carts,
		orders:      orders,
		checkout:    NewCheckoutService(cfg, carts, coupons, orders, orderRepo, taskQueue),
		productRepo: productRepo,
		couponRepo:  couponRepo,
		orderRepo:   orderRepo,
	}
}

func (s *testServices) createStore(t *testing.T, slug string) *models.Store {
	t.Helper()
	store, _, err := s.stores.Register(RegisterStoreInput{
		StoreName: "Loja " + slug,
		Slug:      slug,
		WhatsApp:  "(11) 99999-8888",
		Email:     slug + "@example.com",
		Password:  "segredo123",
	})
	if err != nil {
		t.Fatalf("register store failed: %v", err)
	}
	store.ShippingFee = models.MustMoney("15.00")
	if err := s.db.Save(store).Error; err != nil {
		t.Fatalf("update shipping fee failed: %v", err)
	}
	return store
}

func (s *testServices) createCategory(t *testing.T, storeID uint) *models.Category {
	t.Helper()
	category := &models.Category{StoreID: storeID, Name: "Roupas", Slug: "roupas"}
	if err := s.db.Create(category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	return category
}

type productOption func(*models.Product)

func withVariants(sizes, colors []string) productOption {
	return func(p *models.Product) {
		p.Sizes = sizes
		p.Colors = colors
	}
}

func withStock(stock int) productOption {
	return func(p *models.Product) {
		p.TrackStock = true
		p.Stock = stock
	}
}

func (s *testServices) createProduct(t *testing.T, storeID, categoryID uint, slug, price string, opts ...productOption) *models.Product {
	t.Helper()
	product := &models.Product{
		StoreID:    storeID,
		CategoryID: categoryID,
		Name:       "Produto " + slug,
		Slug:       slug,
		Price:      models.MustMoney(price),
		Images:     models.StringArray{"https://cdn.example.com/" + slug + ".jpg"},
		IsActive:   true,
	}
	for _, opt := range opts {
		opt(product)
	}
	if err := s.productRepo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func (s *testServices) createCoupon(t *testing.T, storeID uint, code, couponType, value, minAmount string) *models.Coupon {
	t.Helper()
	coupon := &models.Coupon{
		StoreID:   storeID,
		Code:      code,
		Type:      couponType,
		Value:     models.MustMoney(value),
		MinAmount: models.MustMoney(minAmount),
		IsActive:  true,
	}
	if err := s.couponRepo.Create(coupon); err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	return coupon
}

func validCheckoutInput() CheckoutInput {
	return CheckoutInput{
		CustomerName:  "Maria Souza",
		CustomerPhone: "(21) 98888-7777",
		Address:       "Rua das Flores, 100",
		CEP:           "01310-100",
		PaymentMethod: constants.PaymentMethodPix,
	}
}

func placeTestOrder(t *testing.T, svc *testServices, store *models.Store, token string, fill func(ctx context.Context)) *models.Order {
	t.Helper()
	ctx := context.Background()
	fill(ctx)
	result, err := svc.checkout.Checkout(ctx, store, token, validCheckoutInput())
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	return result.Order
}
