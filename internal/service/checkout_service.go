package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/vitrine-next/internal/cart"
	"github.com/vitrine-next/internal/config"
	"github.com/vitrine-next/internal/constants"
	"github.com/vitrine-next/internal/logger"
	"github.com/vitrine-next/internal/models"
	"github.com/vitrine-next/internal/queue"
	"github.com/vitrine-next/internal/repository"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const defaultWhatsAppBaseURL = "https://wa.me/"

// OrderTaskQueue 下单后的异步任务投递
type OrderTaskQueue interface {
	Enabled() bool
	EnqueueOrderPlacedNotify(payload queue.OrderPlacedNotifyPayload, opts ...asynq.Option) error
	EnqueueCouponRedeemed(payload queue.CouponRedeemedPayload, opts ...asynq.Option) error
}

// CheckoutService 结算转交服务：生成订单快照与 WhatsApp 链接
type CheckoutService struct {
	cfg       *config.Config
	cartSvc   *CartService
	couponSvc *CouponService
	orderSvc  *OrderService
	orderRepo repository.OrderRepository
	queue     OrderTaskQueue
	now       func() time.Time
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(
	cfg *config.Config,
	cartSvc *CartService,
	couponSvc *CouponService,
	orderSvc *OrderService,
	orderRepo repository.OrderRepository,
	taskQueue OrderTaskQueue,
) *CheckoutService {
	return &CheckoutService{
		cfg:       cfg,
		cartSvc:   cartSvc,
		couponSvc: couponSvc,
		orderSvc:  orderSvc,
		orderRepo: orderRepo,
		queue:     taskQueue,
		now:       time.Now,
	}
}

// CheckoutInput 结算输入
type CheckoutInput struct {
	CustomerName  string
	CustomerPhone string
	Address       string
	CEP           string
	PaymentMethod string
	Notes         string
}

// CheckoutResult 结算结果
type CheckoutResult struct {
	Order        *models.Order `json:"order"`
	Message      string        `json:"message"`
	WhatsAppLink string        `json:"whatsapp_link"`
}

var paymentMethodLabels = map[string]string{
	constants.PaymentMethodPix:    "Pix",
	constants.PaymentMethodCard:   "Cartão",
	constants.PaymentMethodCash:   "Dinheiro",
	constants.PaymentMethodBoleto: "Boleto",
}

// Checkout 将购物车转为订单并生成 WhatsApp 转交链接
func (s *CheckoutService) Checkout(ctx context.Context, store *models.Store, token string, input CheckoutInput) (*CheckoutResult, error) {
	normalized, err := normalizeCheckoutInput(input)
	if err != nil {
		return nil, err
	}
	unlock, err := s.cartSvc.Lock(ctx, store, token)
	if err != nil {
		return nil, err
	}
	defer unlock()
	engine, err := s.cartSvc.Open(ctx, store, token)
	if err != nil {
		return nil, err
	}
	if engine.IsEmpty() {
		return nil, ErrCartEmpty
	}
	// 运费以结算时的 CEP 与店铺运费为准，不依赖前台是否报过价
	engine.SetShipping(store.ShippingFee.Decimal)

	var couponModel *models.Coupon
	if applied := engine.AppliedCoupon(); applied != nil {
		resolved, model, err := s.couponSvc.Resolve(store.ID, applied.Code)
		if err != nil {
			return nil, err
		}
		var applyErr error
		if resolved == nil {
			applyErr = cart.DeclineUnknown(applied.Code)
		} else {
			applyErr = engine.ApplyCoupon(resolved)
		}
		if applyErr != nil {
			engine.RemoveCoupon()
			if saveErr := s.cartSvc.Save(ctx, store, token, engine); saveErr != nil {
				logger.Warnw("checkout_cart_save_failed", "store_id", store.ID, "error", saveErr)
			}
			return nil, applyErr
		}
		couponModel = model
	}

	summary := engine.Summary()
	order, items, err := s.buildOrder(store, summary, normalized, couponModel)
	if err != nil {
		return nil, err
	}
	message := s.composeMessage(store, order, summary, normalized)
	order.WhatsAppLink = s.buildLink(store.WhatsApp, message)

	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.WithTx(tx).Create(order, items)
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("checkout_order_created",
		"store_id", store.ID,
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"total", order.TotalAmount.String(),
		"item_count", order.ItemCount,
	)

	s.dispatch(order)
	if _, err := s.cartSvc.clear(ctx, store, token); err != nil {
		logger.Warnw("checkout_cart_clear_failed", "store_id", store.ID, "order_id", order.ID, "error", err)
	}

	return &CheckoutResult{
		Order:        order,
		Message:      message,
		WhatsAppLink: order.WhatsAppLink,
	}, nil
}

func normalizeCheckoutInput(input CheckoutInput) (CheckoutInput, error) {
	out := CheckoutInput{
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerPhone: onlyDigits(input.CustomerPhone),
		Address:       strings.TrimSpace(input.Address),
		PaymentMethod: strings.ToLower(strings.TrimSpace(input.PaymentMethod)),
		Notes:         strings.TrimSpace(input.Notes),
	}
	if out.CustomerName == "" || len(out.CustomerPhone) < 10 || out.Address == "" {
		return out, ErrCustomerInfoRequired
	}
	if _, ok := paymentMethodLabels[out.PaymentMethod]; !ok {
		return out, ErrPaymentMethodInvalid
	}
	cep, err := NormalizeCEP(input.CEP)
	if err != nil {
		return out, err
	}
	out.CEP = cep
	return out, nil
}

func (s *CheckoutService) buildOrder(store *models.Store, summary cart.Summary, input CheckoutInput, coupon *models.Coupon) (*models.Order, []models.OrderItem, error) {
	order := &models.Order{
		StoreID:        store.ID,
		OrderNo:        generateOrderNo(s.now()),
		Status:         constants.OrderStatusPending,
		CustomerName:   input.CustomerName,
		CustomerPhone:  input.CustomerPhone,
		Address:        input.Address,
		CEP:            input.CEP,
		PaymentMethod:  input.PaymentMethod,
		Notes:          input.Notes,
		SubtotalAmount: models.NewMoneyFromDecimal(summary.Subtotal),
		DiscountAmount: models.NewMoneyFromDecimal(summary.Discount),
		ShippingAmount: models.NewMoneyFromDecimal(summary.EffectiveShipping),
		TotalAmount:    models.NewMoneyFromDecimal(summary.Total),
		ItemCount:      summary.ItemCount,
	}
	if coupon != nil {
		couponID := coupon.ID
		order.CouponID = &couponID
		order.CouponCode = coupon.Code
	}

	items := make([]models.OrderItem, 0, len(summary.Items))
	for _, line := range summary.Items {
		isKit, id, ok := ParseLineID(line.ProductID)
		if !ok {
			return nil, nil, ErrCartItemNotFound
		}
		item := models.OrderItem{
			Kind:       constants.OrderItemKindProduct,
			VariantKey: line.VariantKey,
			Name:       line.Name,
			Image:      line.Image,
			Size:       line.Size,
			Color:      line.Color,
			UnitPrice:  models.NewMoneyFromDecimal(line.UnitPrice),
			Quantity:   line.Quantity,
			LineTotal:  models.NewMoneyFromDecimal(line.LineTotal()),
		}
		refID := id
		if isKit {
			item.Kind = constants.OrderItemKindKit
			item.KitID = &refID
		} else {
			item.ProductID = &refID
		}
		items = append(items, item)
	}
	return order, items, nil
}

// composeMessage 生成发送给商户的 WhatsApp 消息
func (s *CheckoutService) composeMessage(store *models.Store, order *models.Order, summary cart.Summary, input CheckoutInput) string {
	symbol := s.currencySymbol()
	var b strings.Builder
	fmt.Fprintf(&b, "Olá, %s! Quero finalizar meu pedido %s.\n\n", store.Name, order.OrderNo)
	b.WriteString("*Itens*\n")
	for _, line := range summary.Items {
		fmt.Fprintf(&b, "• %dx %s", line.Quantity, line.Name)
		if variant := variantLabel(line); variant != "" {
			fmt.Fprintf(&b, " (%s)", variant)
		}
		fmt.Fprintf(&b, " - %s\n", FormatMoney(symbol, line.LineTotal()))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Subtotal: %s\n", FormatMoney(symbol, summary.Subtotal))
	if summary.AppliedCoupon != nil && summary.Discount.IsPositive() {
		fmt.Fprintf(&b, "Desconto (%s): -%s\n", summary.AppliedCoupon.Code, FormatMoney(symbol, summary.Discount))
	}
	if summary.EffectiveShipping.IsZero() {
		b.WriteString("Frete: Grátis\n")
	} else {
		fmt.Fprintf(&b, "Frete: %s\n", FormatMoney(symbol, summary.EffectiveShipping))
	}
	fmt.Fprintf(&b, "*Total: %s*\n\n", FormatMoney(symbol, summary.Total))

	b.WriteString("*Dados para entrega*\n")
	fmt.Fprintf(&b, "Nome: %s\n", input.CustomerName)
	fmt.Fprintf(&b, "Telefone: %s\n", input.CustomerPhone)
	fmt.Fprintf(&b, "Endereço: %s\n", input.Address)
	fmt.Fprintf(&b, "CEP: %s-%s\n", input.CEP[:5], input.CEP[5:])
	fmt.Fprintf(&b, "Pagamento: %s\n", paymentMethodLabels[input.PaymentMethod])
	if input.Notes != "" {
		fmt.Fprintf(&b, "Observações: %s\n", input.Notes)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *CheckoutService) buildLink(whatsapp, message string) string {
	base := defaultWhatsAppBaseURL
	if s.cfg != nil && strings.TrimSpace(s.cfg.Checkout.WhatsAppBaseURL) != "" {
		base = strings.TrimSpace(s.cfg.Checkout.WhatsAppBaseURL)
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return base + onlyDigits(whatsapp) + "?text=" + text
}

func (s *CheckoutService) currencySymbol() string {
	if s.cfg != nil && strings.TrimSpace(s.cfg.Checkout.CurrencySymbol) != "" {
		return strings.TrimSpace(s.cfg.Checkout.CurrencySymbol)
	}
	return "R$"
}

// dispatch 投递通知与优惠券计数任务；队列不可用时同步处理
func (s *CheckoutService) dispatch(order *models.Order) {
	queueEnabled := s.queue != nil && s.queue.Enabled()

	notifyQueued := false
	if queueEnabled {
		err := s.queue.EnqueueOrderPlacedNotify(queue.OrderPlacedNotifyPayload{OrderID: order.ID, StoreID: order.StoreID})
		if err != nil {
			logger.Warnw("checkout_enqueue_failed", "task", constants.TaskOrderPlacedNotify, "order_id", order.ID, "error", err)
		} else {
			notifyQueued = true
		}
	}
	if !notifyQueued {
		if _, _, err := s.orderSvc.MarkNotified(order.ID); err != nil {
			logger.Warnw("checkout_mark_notified_failed", "order_id", order.ID, "error", err)
		}
		logger.Infow("merchant_order_notification", "store_id", order.StoreID, "order_id", order.ID, "order_no", order.OrderNo, "mode", "inline")
	}

	if order.CouponID == nil {
		return
	}
	if queueEnabled {
		err := s.queue.EnqueueCouponRedeemed(queue.CouponRedeemedPayload{CouponID: *order.CouponID, OrderID: order.ID})
		if err == nil {
			return
		}
		logger.Warnw("checkout_enqueue_failed", "task", constants.TaskCouponRedeemed, "order_id", order.ID, "error", err)
	}
	if err := s.couponSvc.RecordRedemption(*order.CouponID); err != nil && !errors.Is(err, ErrCouponNotFound) {
		logger.Warnw("checkout_coupon_redemption_failed", "order_id", order.ID, "coupon_id", *order.CouponID, "error", err)
	}
}

// generateOrderNo 订单号：VT + 日期 + 8 位随机十六进制
func generateOrderNo(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "VT" + now.Format("20060102") + strings.ToUpper(random[:8])
}

func variantLabel(line cart.LineItem) string {
	parts := make([]string, 0, 2)
	if line.Size != "" {
		parts = append(parts, line.Size)
	}
	if line.Color != "" {
		parts = append(parts, line.Color)
	}
	return strings.Join(parts, " / ")
}

// FormatMoney 按巴西格式输出金额，例如 R$ 1.234,50
func FormatMoney(symbol string, amount decimal.Decimal) string {
	negative := amount.IsNegative()
	fixed := amount.Abs().StringFixed(2)
	intPart, fracPart := fixed, "00"
	if idx := strings.IndexByte(fixed, '.'); idx >= 0 {
		intPart, fracPart = fixed[:idx], fixed[idx+1:]
	}
	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}
	out := grouped.String() + "," + fracPart
	if negative {
		out = "-" + out
	}
	if symbol == "" {
		return out
	}
	return symbol + " " + out
}
