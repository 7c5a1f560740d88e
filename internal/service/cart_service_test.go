package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/vitrine-next/internal/cart"
	"github.com/vitrine-next/internal/constants"
	"github.com/vitrine-next/internal/models"

	"github.com/shopspring/decimal"
)

func TestCartAddItemValidatesVariant(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	store := svc.createStore(t, "loja-variante")
	category := svc.createCategory(t, store.ID)
	shirt := svc.createProduct(t, store.ID, category.ID, "camiseta", "59.90", withVariants([]string{"P", "M", "G"}, []string{"Preto", "Branco"}))
	bone := svc.createProduct(t, store.ID, category.ID, "bone", "39.90")

	summary, err := svc.carts.AddItem(ctx, store, "tok-1", AddCartItemInput{ProductID: shirt.ID, Size: "m", Color: "preto"})
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if len(summary.Items) != 1 || summary.Items[0].Size != "M" || summary.Items[0].Color != "Preto" {
		t.Fatalf("variant should be canonicalized, got %+v", summary.Items)
	}
	if summary.Items[0].ProductID != ProductLineID(shirt.ID) {
		t.Fatalf("unexpected product line id %s", summary.Items[0].ProductID)
	}

	if _, err := svc.carts.AddItem(ctx, store, "tok-1", AddCartItemInput{ProductID: shirt.ID, Size: "GG", Color: "Preto"}); !errors.Is(err, ErrInvalidVariant) {
		t.Fatalf("unknown size should be rejected, got %v", err)
	}
	if _, err := svc.carts.AddItem(ctx, store, "tok-1", AddCartItemInput{ProductID: shirt.ID}); !errors.Is(err, ErrInvalidVariant) {
		t.Fatalf("missing size should be rejected, got %v", err)
	}
	if _, err := svc.carts.AddItem(ctx, store, "tok-1", AddCartItemInput{ProductID: bone.ID, Size: "M"}); !errors.Is(err, ErrInvalidVariant) {
		t.Fatalf("size on product without sizes should be rejected, got %v", err)
	}

	summary, err = svc.carts.AddItem(ctx, store, "tok-1", AddCartItemInput{ProductID: shirt.ID, Size: "M", Color: "Preto", Quantity: 2})
	if err != nil {
		t.Fatalf("add same variant failed: %v", err)
	}
	if len(summary.Items) != 1 || summary.Items[0].Quantity != 3 {
		t.Fatalf("same variant should merge into qty 3, got %+v", summary.Items)
	}
	if !summary.Subtotal.Equal(decimal.RequireFromString("179.70")) {
		t.Fatalf("subtotal want 179.70 got %s", summary.Subtotal)
	}
}

func TestCartSessionsAreScopedByStoreAndToken(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	store := svc.createStore(t, "loja-sessao")
	category := svc.createCategory(t, store.ID)
	bone := svc.createProduct(t, store.ID, category.ID, "bone", "39.90")

	if _, err := svc.carts.AddItem(ctx, store, "tok-a", AddCartItemInput{ProductID: bone.ID}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	other, err := svc.carts.Get(ctx, store, "tok-b")
	if err != nil {
		t.Fatalf("get other cart failed: %v", err)
	}
	if other.ItemCount != 0 {
		t.Fatalf("other token should see an empty cart, got %d items", other.ItemCount)
	}
	if _, err := svc.carts.Get(ctx, store, " "); !errors.Is(err, ErrCartTokenMissing) {
		t.Fatalf("want ErrCartTokenMissing got %v", err)
	}
}

func TestCartStockCap(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	store := svc.createStore(t, "loja-estoque")
	category := svc.createCategory(t, store.ID)
	shirt := svc.createProduct(t, store.ID, category.ID, "camiseta", "59.90", withVariants([]string{"P", "M"}, nil), withStock(3))

	if _, err := svc.carts.AddItem(ctx, store, "tok", AddCartItemInput{ProductID: shirt.ID, Size: "P", Quantity: 2}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if _, err := svc.carts.AddItem(ctx, store, "tok", AddCartItemInput{ProductID: shirt.ID, Size: "M", Quantity: 2}); !errors.Is(err, ErrStockUnavailable) {
		t.Fatalf("stock is shared across variants, want ErrStockUnavailable got %v", err)
	}
	if _, err := svc.carts.AddItem(ctx, store, "tok", AddCartItemInput{ProductID: shirt.ID, Size: "M"}); err != nil {
		t.Fatalf("add last unit failed: %v", err)
	}
	key := cart.VariantKey(ProductLineID(shirt.ID), "P", "")
	if _, err := svc.carts.UpdateQuantity(ctx, store, "tok", key, 3); !errors.Is(err, ErrStockUnavailable) {
		t.Fatalf("raising quantity past stock should fail, got %v", err)
	}
	summary, err := svc.carts.UpdateQuantity(ctx, store, "tok", key, 1)
	if err != nil {
		t.Fatalf("lowering quantity failed: %v", err)
	}
	if summary.ItemCount != 2 {
		t.Fatalf("item count want 2 got %d", summary.ItemCount)
	}
	summary, err = svc.carts.UpdateQuantity(ctx, store, "tok", key, 0)
	if err != nil {
		t.Fatalf("zero quantity failed: %v", err)
	}
	if len(summary.Items) != 1 {
		t.Fatalf("zero quantity should remove the line, got %+v", summary.Items)
	}
	if _, err := svc.carts.UpdateQuantity(ctx, store, "tok", "missing", 2); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("want ErrCartItemNotFound got %v", err)
	}
}

func TestCartRejectsInactiveProduct(t *testing.T) {
	svc := newTestServices(t)
	store := svc.createStore(t, "loja-inativa")
	category := svc.createCategory(t, store.ID)
	product := svc.createProduct(t, store.ID, category.ID, "antigo", "10.00", func(p *models.Product) { p.IsActive = false })

	if _, err := svc.carts.AddItem(context.Background(), store, "tok", AddCartItemInput{ProductID: product.ID}); !errors.Is(err, ErrProductInactive) {
		t.Fatalf("want ErrProductInactive got %v", err)
	}
	if _, err := svc.carts.AddItem(context.Background(), store, "tok", AddCartItemInput{ProductID: 9999}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound got %v", err)
	}
}

func TestCartAddKit(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	store := svc.createStore(t, "loja-kit")
	category := svc.createCategory(t, store.ID)
	shirt := svc.createProduct(t, store.ID, category.ID, "camiseta", "59.90", withStock(4))
	bone := svc.createProduct(t, store.ID, category.ID, "bone", "39.90")

	kit, err := svc.kits.Create(store.ID, CreateKitInput{
		Name:  "Kit Verão",
		Price: decimal.RequireFromString("89.90"),
		Items: []KitItemInput{{ProductID: shirt.ID, Quantity: 2}, {ProductID: bone.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create kit failed: %v", err)
	}

	summary, err := svc.carts.AddKit(ctx, store, "tok", kit.ID, 2)
	if err != nil {
		t.Fatalf("add kit failed: %v", err)
	}
	if len(summary.Items) != 1 || summary.Items[0].ProductID != KitLineID(kit.ID) || summary.Items[0].Quantity != 2 {
		t.Fatalf("unexpected kit line: %+v", summary.Items)
	}
	if !summary.Subtotal.Equal(decimal.RequireFromString("179.80")) {
		t.Fatalf("subtotal want 179.80 got %s", summary.Subtotal)
	}
	if _, err := svc.carts.AddKit(ctx, store, "tok", kit.ID, 1); !errors.Is(err, ErrStockUnavailable) {
		t.Fatalf("third kit needs 6 shirts, want ErrStockUnavailable got %v", err)
	}
	if _, err := svc.carts.AddKit(ctx, store, "tok", 9999, 1); !errors.Is(err, ErrKitNotFound) {
		t.Fatalf("want ErrKitNotFound got %v", err)
	}
}

func TestCartApplyCouponFromCatalogue(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	store := svc.createStore(t, "loja-cupom")
	other := svc.createStore(t, "loja-vizinha")
	category := svc.createCategory(t, store.ID)
	shirt := svc.createProduct(t, store.ID, category.ID, "camiseta", "59.90")
	svc.createCoupon(t, store.ID, "DESCONTO15", constants.CouponTypePercentage, "15", "0")
	svc.createCoupon(t, store.ID, "FRETE20", constants.CouponTypeFixed, "20", "100")
	svc.createCoupon(t, other.ID, "VIZINHO", constants.CouponTypeFixed, "10", "0")

	if _, err := svc.carts.AddItem(ctx, store, "tok", AddCartItemInput{ProductID: shirt.ID}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	_, err := svc.carts.ApplyCoupon(ctx, store, "tok", "naoexiste")
	if !errors.Is(err, cart.ErrUnknownCoupon) {
		t.Fatalf("want ErrUnknownCoupon got %v", err)
	}
	if _, err := svc.carts.ApplyCoupon(ctx, store, "tok", "vizinho"); !errors.Is(err, cart.ErrUnknownCoupon) {
		t.Fatalf("coupon from another store should be unknown, got %v", err)
	}
	_, err = svc.carts.ApplyCoupon(ctx, store, "tok", "frete20")
	if !errors.Is(err, cart.ErrMinimumNotMet) {
		t.Fatalf("want ErrMinimumNotMet got %v", err)
	}
	var declined *cart.CouponDeclinedError
	if !errors.As(err, &declined) || declined.CouponCode != "FRETE20" {
		t.Fatalf("expected declined error with code, got %#v", err)
	}

	summary, err := svc.carts.ApplyCoupon(ctx, store, "tok", " desconto15 ")
	if err != nil {
		t.Fatalf("apply coupon failed: %v", err)
	}
	if summary.AppliedCoupon == nil || summary.AppliedCoupon.Code != "DESCONTO15" {
		t.Fatalf("coupon not applied: %+v", summary.AppliedCoupon)
	}
	if !summary.Discount.Equal(decimal.RequireFromString("8.99")) {
		t.Fatalf("discount want 8.99 got %s", summary.Discount)
	}

	summary, err = svc.carts.RemoveCoupon(ctx, store, "tok")
	if err != nil {
		t.Fatalf("remove coupon failed: %v", err)
	}
	if summary.AppliedCoupon != nil || !summary.Discount.IsZero() {
		t.Fatalf("coupon should be removed: %+v", summary)
	}
}

func TestCartRejectsExhaustedCoupon(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	store := svc.createStore(t, "loja-esgotado")
	category := svc.createCategory(t, store.ID)
	shirt := svc.createProduct(t, store.ID, category.ID, "camiseta", "59.90")
	coupon := svc.createCoupon(t, store.ID, "UMAVEZ", constants.CouponTypeFixed, "5", "0")
	coupon.UsageLimit = 1
	coupon.UsedCount = 1
	if err := svc.couponRepo.Update(coupon); err != nil {
		t.Fatalf("update coupon failed: %v", err)
	}
	if _, err := svc.carts.AddItem(ctx, store, "tok", AddCartItemInput{ProductID: shirt.ID}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if _, err := svc.carts.ApplyCoupon(ctx, store, "tok", "UMAVEZ"); !errors.Is(err, cart.ErrUnknownCoupon) {
		t.Fatalf("exhausted coupon should be unknown, got %v", err)
	}
}

func TestCartQuoteShipping(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	store := svc.createStore(t, "loja-frete")
	category := svc.createCategory(t, store.ID)
	shirt := svc.createProduct(t, store.ID, category.ID, "camiseta", "59.90")
	jacket := svc.createProduct(t, store.ID, category.ID, "jaqueta", "189.90")

	if _, err := svc.carts.AddItem(ctx, store, "tok", AddCartItemInput{ProductID: shirt.ID}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if _, _, err := svc.carts.QuoteShipping(ctx, store, "tok", "1234"); !errors.Is(err, ErrInvalidCEP) {
		t.Fatalf("want ErrInvalidCEP got %v", err)
	}
	summary, cep, err := svc.carts.QuoteShipping(ctx, store, "tok", "01310-100")
	if err != nil {
		t.Fatalf("quote shipping failed: %v", err)
	}
	if cep != "01310100" {
		t.Fatalf("cep want 01310100 got %s", cep)
	}
	if !summary.EffectiveShipping.Equal(decimal.RequireFromString("15")) {
		t.Fatalf("shipping want 15 got %s", summary.EffectiveShipping)
	}
	if !summary.Total.Equal(decimal.RequireFromString("74.90")) {
		t.Fatalf("total want 74.90 got %s", summary.Total)
	}

	summary, err = svc.carts.AddItem(ctx, store, "tok", AddCartItemInput{ProductID: jacket.ID})
	if err != nil {
		t.Fatalf("add jacket failed: %v", err)
	}
	if !summary.EffectiveShipping.IsZero() || !summary.ShippingCost.Equal(decimal.RequireFromString("15")) {
		t.Fatalf("subtotal over threshold should ship free while keeping quote: %+v", summary)
	}

	summary, err = svc.carts.Clear(ctx, store, "tok")
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if summary.ItemCount != 0 || !summary.ShippingCost.IsZero() {
		t.Fatalf("cleared cart should be empty: %+v", summary)
	}
}

func TestCartStockCountsKitMembers(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	store := svc.createStore(t, "loja-kit-estoque")
	category := svc.createCategory(t, store.ID)
	shirt := svc.createProduct(t, store.ID, category.ID, "camiseta", "59.90", withStock(1))
	bone := svc.createProduct(t, store.ID, category.ID, "bone", "39.90")

	kit, err := svc.kits.Create(store.ID, CreateKitInput{
		Name:  "Kit Único",
		Price: decimal.RequireFromString("89.90"),
		Items: []KitItemInput{{ProductID: shirt.ID, Quantity: 1}, {ProductID: bone.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create kit failed: %v", err)
	}

	if _, err := svc.carts.AddKit(ctx, store, "kit-primeiro", kit.ID, 1); err != nil {
		t.Fatalf("add kit failed: %v", err)
	}
	if _, err := svc.carts.AddItem(ctx, store, "kit-primeiro", AddCartItemInput{ProductID: shirt.ID}); !errors.Is(err, ErrStockUnavailable) {
		t.Fatalf("kit already holds the last shirt, want ErrStockUnavailable got %v", err)
	}
	if _, err := svc.carts.AddItem(ctx, store, "kit-primeiro", AddCartItemInput{ProductID: bone.ID, Quantity: 5}); err != nil {
		t.Fatalf("untracked member should stay unlimited: %v", err)
	}

	if _, err := svc.carts.AddItem(ctx, store, "item-primeiro", AddCartItemInput{ProductID: shirt.ID}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if _, err := svc.carts.AddKit(ctx, store, "item-primeiro", kit.ID, 1); !errors.Is(err, ErrStockUnavailable) {
		t.Fatalf("direct line already holds the last shirt, want ErrStockUnavailable got %v", err)
	}

	key := cart.VariantKey(ProductLineID(shirt.ID), "", "")
	if _, err := svc.carts.UpdateQuantity(ctx, store, "item-primeiro", key, 0); err != nil {
		t.Fatalf("remove line failed: %v", err)
	}
	summary, err := svc.carts.AddKit(ctx, store, "item-primeiro", kit.ID, 1)
	if err != nil {
		t.Fatalf("kit should fit once the direct line is gone: %v", err)
	}
	kitKey := cart.VariantKey(KitLineID(kit.ID), "", "")
	if len(summary.Items) != 1 || summary.Items[0].VariantKey != kitKey {
		t.Fatalf("unexpected cart lines: %+v", summary.Items)
	}
	if _, err := svc.carts.UpdateQuantity(ctx, store, "item-primeiro", kitKey, 2); !errors.Is(err, ErrStockUnavailable) {
		t.Fatalf("two kits need two shirts, want ErrStockUnavailable got %v", err)
	}
}

func TestCartConcurrentAddsAreSerialized(t *testing.T) {
	svc := newTestServices(t)
	store := svc.createStore(t, "loja-concorrente")
	category := svc.createCategory(t, store.ID)
	shirt := svc.createProduct(t, store.ID, category.ID, "camiseta", "10.00")
	sqlDB, err := svc.db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	const workers = 12
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.carts.AddItem(context.Background(), store, "tok", AddCartItemInput{ProductID: shirt.ID}); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent add failed: %v", err)
	}

	summary, err := svc.carts.Get(context.Background(), store, "tok")
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if summary.ItemCount != workers {
		t.Fatalf("lost updates: item count want %d got %d", workers, summary.ItemCount)
	}
}
