package main

import (
	"os"
	"strings"

	"github.com/vitrine-next/internal/config"
	"github.com/vitrine-next/internal/constants"
	"github.com/vitrine-next/internal/logger"
	"github.com/vitrine-next/internal/models"
	"github.com/vitrine-next/internal/provider"
	"github.com/vitrine-next/internal/queue"
	"github.com/vitrine-next/internal/service"

	"github.com/shopspring/decimal"
)

const demoStoreSlug = "loja-demo"

type seedProduct struct {
	Category    string
	Name        string
	Slug        string
	Description string
	Price       string
	CompareAt   string
	Sizes       []string
	Colors      []string
	TrackStock  bool
	Stock       int
	Featured    bool
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 种子数据不投递队列
	queueClient, _ := queue.NewClient(nil)
	container := provider.NewContainerWithDB(cfg, models.DB, queueClient)

	existing, err := container.StoreRepo.GetBySlug(demoStoreSlug)
	if err != nil {
		stdLog.Fatalf("Failed to load demo store: %v", err)
	}
	if existing != nil {
		stdLog.Printf("Demo store already exists: %s (id=%d)", existing.Slug, existing.ID)
		return
	}

	password := strings.TrimSpace(os.Getenv("VT_SEED_MERCHANT_PASSWORD"))
	if password == "" {
		password = "Vitrine@2024"
	}
	store, merchant, err := container.StoreService.Register(service.RegisterStoreInput{
		StoreName:    "Loja Demo",
		Slug:         demoStoreSlug,
		WhatsApp:     "11999998888",
		Email:        "demo@vitrine.local",
		Password:     password,
		MerchantName: "Lojista Demo",
	})
	if err != nil {
		stdLog.Fatalf("Failed to register demo store: %v", err)
	}
	stdLog.Printf("Created store %s, merchant %s", store.Slug, merchant.Email)

	if _, err := container.StoreService.UpdateSettings(store.ID, service.UpdateStoreSettingsInput{
		Name:                  store.Name,
		WhatsApp:              store.WhatsApp,
		Description:           "Moda casual com entrega para todo o Brasil",
		ShippingFee:           decimal.RequireFromString("15.00"),
		FreeShippingThreshold: decimal.RequireFromString("199.00"),
	}); err != nil {
		stdLog.Printf("Failed to update store settings: %v", err)
	}

	categoryIDs := map[string]uint{}
	for i, name := range []string{"Camisetas", "Calças", "Acessórios"} {
		category, err := container.CategoryService.Create(store.ID, service.CreateCategoryInput{Name: name, SortOrder: i})
		if err != nil {
			stdLog.Printf("Failed to create category %s: %v", name, err)
			continue
		}
		categoryIDs[name] = category.ID
	}

	products := []seedProduct{
		{
			Category:    "Camisetas",
			Name:        "Camiseta Básica",
			Slug:        "camiseta-basica",
			Description: "Algodão 100%, corte reto",
			Price:       "59.90",
			CompareAt:   "79.90",
			Sizes:       []string{"P", "M", "G", "GG"},
			Colors:      []string{"Preto", "Branco"},
			Featured:    true,
		},
		{
			Category:   "Calças",
			Name:       "Calça Jeans Slim",
			Slug:       "calca-jeans-slim",
			Price:      "149.90",
			Sizes:      []string{"38", "40", "42", "44"},
			TrackStock: true,
			Stock:      12,
		},
		{
			Category:   "Acessórios",
			Name:       "Boné Aba Curva",
			Slug:       "bone-aba-curva",
			Price:      "39.90",
			Colors:     []string{"Azul", "Preto"},
			TrackStock: true,
			Stock:      3,
		},
	}
	productIDs := map[string]uint{}
	for i, item := range products {
		input := service.CreateProductInput{
			CategoryID:  categoryIDs[item.Category],
			Name:        item.Name,
			Slug:        item.Slug,
			Description: item.Description,
			Price:       decimal.RequireFromString(item.Price),
			Sizes:       item.Sizes,
			Colors:      item.Colors,
			TrackStock:  item.TrackStock,
			Stock:       item.Stock,
			IsFeatured:  item.Featured,
			SortOrder:   i,
		}
		if item.CompareAt != "" {
			input.CompareAtPrice = decimal.RequireFromString(item.CompareAt)
		}
		product, err := container.ProductService.Create(store.ID, input)
		if err != nil {
			stdLog.Printf("Failed to create product %s: %v", item.Slug, err)
			continue
		}
		productIDs[item.Slug] = product.ID
		stdLog.Printf("Created product: %s", item.Slug)
	}

	if shirtID, pantsID := productIDs["camiseta-basica"], productIDs["calca-jeans-slim"]; shirtID > 0 && pantsID > 0 {
		if _, err := container.KitService.Create(store.ID, service.CreateKitInput{
			Name:        "Kit Casual",
			Description: "Camiseta + calça com desconto",
			Price:       decimal.RequireFromString("189.90"),
			Items: []service.KitItemInput{
				{ProductID: shirtID, Quantity: 1},
				{ProductID: pantsID, Quantity: 1},
			},
		}); err != nil {
			stdLog.Printf("Failed to create kit: %v", err)
		}
	}

	coupons := []service.CreateCouponInput{
		{Code: "DESCONTO15", Type: constants.CouponTypePercentage, Value: decimal.NewFromInt(15)},
		{Code: "FRETE20", Type: constants.CouponTypeFixed, Value: decimal.NewFromInt(20), MinAmount: decimal.NewFromInt(100)},
	}
	for _, input := range coupons {
		if _, err := container.CouponService.Create(store.ID, input); err != nil {
			stdLog.Printf("Failed to create coupon %s: %v", input.Code, err)
			continue
		}
		stdLog.Printf("Created coupon: %s", input.Code)
	}

	if _, err := container.BannerService.Create(store.ID, service.CreateBannerInput{
		Title:    "Coleção de verão",
		Subtitle: "Frete grátis acima de R$ 199",
		Image:    "https://picsum.photos/seed/vitrine/1200/400",
	}); err != nil {
		stdLog.Printf("Failed to create banner: %v", err)
	}

	stdLog.Printf("Seed completed: /api/v1/stores/%s", store.Slug)
}
