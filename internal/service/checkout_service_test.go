package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/vitrine-next/internal/cart"
	"github.com/vitrine-next/internal/constants"
	"github.com/vitrine-next/internal/models"
	"github.com/vitrine-next/internal/repository"

	"github.com/shopspring/decimal"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":        "R$ 0,00",
		"9.9":      "R$ 9,90",
		"1234.5":   "R$ 1.234,50",
		"1000000":  "R$ 1.000.000,00",
		"-15.25":   "R$ -15,25",
		"199.999":  "R$ 200,00",
		"123456.7": "R$ 123.456,70",
	}
	for raw, want := range cases {
		if got := FormatMoney("R$", decimal.RequireFromString(raw)); got != want {
			t.Fatalf("format %s want %s got %s", raw, want, got)
		}
	}
}

func TestCheckoutCreatesOrderAndLink(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	store := svc.createStore(t, "loja-checkout")
	category := svc.createCategory(t, store.ID)
	shirt := svc.createProduct(t, store.ID, category.ID, "camiseta", "59.90", withVariants([]string{"M"}, []string{"Preto"}))
	coupon := svc.createCoupon(t, store.ID, "DESCONTO15", constants.CouponTypePercentage, "15", "0")

	if _, err := svc.carts.AddItem(ctx, store, "tok", AddCartItemInput{ProductID: shirt.ID, Size: "M", Color: "Preto", Quantity: 2}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if _, err := svc.carts.ApplyCoupon(ctx, store, "tok", "DESCONTO15"); err != nil {
		t.Fatalf("apply coupon failed: %v", err)
	}
	if _, _, err := svc.carts.QuoteShipping(ctx, store, "tok", "01310100"); err != nil {
		t.Fatalf("quote shipping failed: %v", err)
	}

	result, err := svc.checkout.Checkout(ctx, store, "tok", validCheckoutInput())
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	order := result.Order
	if !strings.HasPrefix(order.OrderNo, "VT") || len(order.OrderNo) != 18 {
		t.Fatalf("unexpected order number %s", order.OrderNo)
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("new order should be pending, got %s", order.Status)
	}
	// 119.80 - 17.97 + 15.00
	if order.SubtotalAmount.String() != "119.80" || order.DiscountAmount.String() != "17.97" ||
		order.ShippingAmount.String() != "15.00" || order.TotalAmount.String() != "116.83" {
		t.Fatalf("unexpected order amounts: %+v", order)
	}
	if order.CouponID == nil || *order.CouponID != coupon.ID || order.CouponCode != "DESCONTO15" {
		t.Fatalf("coupon not recorded on order: %+v", order)
	}
	if len(order.Items) != 1 || order.Items[0].Kind != constants.OrderItemKindProduct || order.Items[0].Quantity != 2 {
		t.Fatalf("unexpected order items: %+v", order.Items)
	}

	if !strings.HasPrefix(result.WhatsAppLink, "https://wa.me/5511999998888?text=") {
		t.Fatalf("unexpected whatsapp link %s", result.WhatsAppLink)
	}
	if strings.Contains(result.WhatsAppLink, "+") {
		t.Fatalf("spaces should be percent-encoded: %s", result.WhatsAppLink)
	}
	decoded, err := url.QueryUnescape(strings.SplitN(result.WhatsAppLink, "?text=", 2)[1])
	if err != nil {
		t.Fatalf("decode link failed: %v", err)
	}
	if decoded != result.Message {
		t.Fatalf("link text should carry the message")
	}
	for _, want := range []string{
		order.OrderNo,
		"2x Produto camiseta (M / Preto) - R$ 119,80",
		"Desconto (DESCONTO15): -R$ 17,97",
		"Frete: R$ 15,00",
		"*Total: R$ 116,83*",
		"CEP: 01310-100",
		"Pagamento: Pix",
	} {
		if !strings.Contains(result.Message, want) {
			t.Fatalf("message missing %q:\n%s", want, result.Message)
		}
	}

	if len(svc.queue.notified) != 1 || svc.queue.notified[0].OrderID != order.ID {
		t.Fatalf("order notification not enqueued: %+v", svc.queue.notified)
	}
	if len(svc.queue.redeemed) != 1 || svc.queue.redeemed[0].CouponID != coupon.ID {
		t.Fatalf("coupon redemption not enqueued: %+v", svc.queue.redeemed)
	}

	summary, err := svc.carts.Get(ctx, store, "tok")
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if summary.ItemCount != 0 || summary.AppliedCoupon != nil {
		t.Fatalf("cart should be cleared after checkout: %+v", summary)
	}
}

func TestCheckoutFreeShippingMessage(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	store := svc.createStore(t, "loja-gratis")
	category := svc.createCategory(t, store.ID)
	jacket := svc.createProduct(t, store.ID, category.ID, "jaqueta", "249.90")

	if _, err := svc.carts.AddItem(ctx, store, "tok", AddCartItemInput{ProductID: jacket.ID}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if _, _, err := svc.carts.QuoteShipping(ctx, store, "tok", "01310100"); err != nil {
		t.Fatalf("quote shipping failed: %v", err)
	}
	result, err := svc.checkout.Checkout(ctx, store, "tok", validCheckoutInput())
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if !strings.Contains(result.Message, "Frete: Grátis") {
		t.Fatalf("expected free shipping line:\n%s", result.Message)
	}
	if result.Order.ShippingAmount.String() != "0.00" || result.Order.TotalAmount.String() != "249.90" {
		t.Fatalf("unexpected totals: %+v", result.Order)
	}
}

func TestCheckoutValidation(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	store := svc.createStore(t, "loja-validacao")

	if _, err := svc.checkout.Checkout(ctx, store, "tok", validCheckoutInput()); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("want ErrCartEmpty got %v", err)
	}
	input := validCheckoutInput()
	input.CustomerName = " "
	if _, err := svc.checkout.Checkout(ctx, store, "tok", input); !errors.Is(err, ErrCustomerInfoRequired) {
		t.Fatalf("want ErrCustomerInfoRequired got %v", err)
	}
	input = validCheckoutInput()
	input.PaymentMethod = "bitcoin"
	if _, err := svc.checkout.Checkout(ctx, store, "tok", input); !errors.Is(err, ErrPaymentMethodInvalid) {
		t.Fatalf("want ErrPaymentMethodInvalid got %v", err)
	}
	input = validCheckoutInput()
	input.CEP = "0131"
	if _, err := svc.checkout.Checkout(ctx, store, "tok", input); !errors.Is(err, ErrInvalidCEP) {
		t.Fatalf("want ErrInvalidCEP got %v", err)
	}
}

func TestCheckoutDropsCouponThatExpiredInCart(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	store := svc.createStore(t, "loja-expirado")
	category := svc.createCategory(t, store.ID)
	shirt := svc.createProduct(t, store.ID, category.ID, "camiseta", "59.90")
	coupon := svc.createCoupon(t, store.ID, "RELAMPAGO", constants.CouponTypeFixed, "10", "0")

	if _, err := svc.carts.AddItem(ctx, store, "tok", AddCartItemInput{ProductID: shirt.ID}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if _, err := svc.carts.ApplyCoupon(ctx, store, "tok", "RELAMPAGO"); err != nil {
		t.Fatalf("apply coupon failed: %v", err)
	}
	coupon.IsActive = false
	if err := svc.couponRepo.Update(coupon); err != nil {
		t.Fatalf("deactivate coupon failed: %v", err)
	}

	if _, err := svc.checkout.Checkout(ctx, store, "tok", validCheckoutInput()); !errors.Is(err, cart.ErrUnknownCoupon) {
		t.Fatalf("want ErrUnknownCoupon got %v", err)
	}
	summary, err := svc.carts.Get(ctx, store, "tok")
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if summary.AppliedCoupon != nil || summary.ItemCount != 1 {
		t.Fatalf("stale coupon should be dropped while keeping items: %+v", summary)
	}
}

func TestCheckoutInlineWhenQueueDisabled(t *testing.T) {
	svc := newTestServices(t)
	svc.queue.enabled = false
	ctx := context.Background()
	store := svc.createStore(t, "loja-sem-fila")
	category := svc.createCategory(t, store.ID)
	shirt := svc.createProduct(t, store.ID, category.ID, "camiseta", "59.90")
	coupon := svc.createCoupon(t, store.ID, "CINCO", constants.CouponTypeFixed, "5", "0")

	if _, err := svc.carts.AddItem(ctx, store, "tok", AddCartItemInput{ProductID: shirt.ID}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if _, err := svc.carts.ApplyCoupon(ctx, store, "tok", "CINCO"); err != nil {
		t.Fatalf("apply coupon failed: %v", err)
	}
	result, err := svc.checkout.Checkout(ctx, store, "tok", validCheckoutInput())
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if len(svc.queue.notified) != 0 || len(svc.queue.redeemed) != 0 {
		t.Fatalf("disabled queue should not receive tasks")
	}

	var reloaded models.Coupon
	if err := svc.db.First(&reloaded, coupon.ID).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if reloaded.UsedCount != 1 {
		t.Fatalf("used count want 1 got %d", reloaded.UsedCount)
	}
	order, err := svc.orderRepo.GetByID(store.ID, result.Order.ID)
	if err != nil || order == nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if order.NotifiedAt == nil {
		t.Fatalf("order should be marked notified inline")
	}
}

func TestCheckoutChargesShippingWithoutQuote(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	store := svc.createStore(t, "loja-sem-cotacao")
	category := svc.createCategory(t, store.ID)
	shirt := svc.createProduct(t, store.ID, category.ID, "camiseta", "50.00")

	if _, err := svc.carts.AddItem(ctx, store, "tok", AddCartItemInput{ProductID: shirt.ID, Quantity: 2}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	result, err := svc.checkout.Checkout(ctx, store, "tok", validCheckoutInput())
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if result.Order.ShippingAmount.String() != "15.00" || result.Order.TotalAmount.String() != "115.00" {
		t.Fatalf("store shipping fee should be charged, got shipping %s total %s", result.Order.ShippingAmount.String(), result.Order.TotalAmount.String())
	}
	if !strings.Contains(result.Message, "Frete: R$ 15,00") || strings.Contains(result.Message, "Grátis") {
		t.Fatalf("message should carry the shipping fee:\n%s", result.Message)
	}
}

func TestCheckoutConcurrentRequestsCreateOneOrder(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	store := svc.createStore(t, "loja-duplo-clique")
	category := svc.createCategory(t, store.ID)
	shirt := svc.createProduct(t, store.ID, category.ID, "camiseta", "59.90")
	sqlDB, err := svc.db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if _, err := svc.carts.AddItem(ctx, store, "tok", AddCartItemInput{ProductID: shirt.ID}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.checkout.Checkout(ctx, store, "tok", validCheckoutInput())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded, empty := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrCartEmpty):
			empty++
		default:
			t.Fatalf("unexpected checkout error: %v", err)
		}
	}
	if succeeded != 1 || empty != 1 {
		t.Fatalf("want one order and one empty cart, got %d/%d", succeeded, empty)
	}
	_, total, err := svc.orderRepo.List(repository.OrderListFilter{StoreID: store.ID})
	if err != nil {
		t.Fatalf("list orders failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("orders want 1 got %d", total)
	}
}
