package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/vitrine-next/internal/cache"
	"github.com/vitrine-next/internal/cart"
	"github.com/vitrine-next/internal/constants"
	"github.com/vitrine-next/internal/logger"
	"github.com/vitrine-next/internal/models"
	"github.com/vitrine-next/internal/repository"
)

// CartService 购物车服务
//
// 计价全部交给 cart.Engine；本服务负责会话读写、商品与库存校验、优惠券目录解析。
type CartService struct {
	sessions    cache.CartSessionStore
	locker      cache.CartLocker
	storeSvc    *StoreService
	productRepo repository.ProductRepository
	kitRepo     repository.KitRepository
	couponSvc   *CouponService
}

// NewCartService 创建购物车服务
func NewCartService(
	sessions cache.CartSessionStore,
	locker cache.CartLocker,
	storeSvc *StoreService,
	productRepo repository.ProductRepository,
	kitRepo repository.KitRepository,
	couponSvc *CouponService,
) *CartService {
	return &CartService{
		sessions:    sessions,
		locker:      locker,
		storeSvc:    storeSvc,
		productRepo: productRepo,
		kitRepo:     kitRepo,
		couponSvc:   couponSvc,
	}
}

// AddCartItemInput 加购输入
type AddCartItemInput struct {
	ProductID uint
	Size      string
	Color     string
	Quantity  int
}

// ProductLineID 商品在购物车中的标识
func ProductLineID(productID uint) string {
	return strconv.FormatUint(uint64(productID), 10)
}

// KitLineID 套装在购物车中的标识
func KitLineID(kitID uint) string {
	return constants.KitProductPrefix + strconv.FormatUint(uint64(kitID), 10)
}

// ParseLineID 解析购物车行标识，返回 (是否套装, ID)
func ParseLineID(productID string) (bool, uint, bool) {
	raw := strings.TrimSpace(productID)
	isKit := strings.HasPrefix(raw, constants.KitProductPrefix)
	if isKit {
		raw = strings.TrimPrefix(raw, constants.KitProductPrefix)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return false, 0, false
	}
	return isKit, uint(id), true
}

// Get 获取购物车汇总
func (s *CartService) Get(ctx context.Context, store *models.Store, token string) (*cart.Summary, error) {
	engine, err := s.open(ctx, store, token)
	if err != nil {
		return nil, err
	}
	summary := engine.Summary()
	return &summary, nil
}

// AddItem 加入商品（校验规格与库存）
func (s *CartService) AddItem(ctx context.Context, store *models.Store, token string, input AddCartItemInput) (*cart.Summary, error) {
	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	product, err := s.productRepo.GetByID(store.ID, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.IsActive {
		return nil, ErrProductInactive
	}
	size, err := pickOption(product.Sizes, input.Size)
	if err != nil {
		return nil, err
	}
	color, err := pickOption(product.Colors, input.Color)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, store, token, func(engine *cart.Engine) error {
		lineID := ProductLineID(product.ID)
		if err := s.ensureStock(store.ID, engine, "", map[uint]int{product.ID: quantity}); err != nil {
			return err
		}
		engine.AddItem(cart.Product{
			ID:    lineID,
			Name:  product.Name,
			Price: product.Price.Decimal,
			Image: product.CoverImage(),
		}, size, color)
		if quantity > 1 {
			key := cart.VariantKey(lineID, size, color)
			if line, ok := engine.Item(key); ok {
				engine.UpdateQuantity(key, line.Quantity+quantity-1)
			}
		}
		return nil
	})
}

// AddKit 加入套装
func (s *CartService) AddKit(ctx context.Context, store *models.Store, token string, kitID uint, quantity int) (*cart.Summary, error) {
	if quantity <= 0 {
		quantity = 1
	}
	kit, err := s.kitRepo.GetByID(store.ID, kitID, true)
	if err != nil {
		return nil, err
	}
	if kit == nil {
		return nil, ErrKitNotFound
	}

	return s.mutate(ctx, store, token, func(engine *cart.Engine) error {
		lineID := KitLineID(kit.ID)
		key := cart.VariantKey(lineID, "", "")
		current := 0
		if line, ok := engine.Item(key); ok {
			current = line.Quantity
		}
		if !kitMembersActive(kit) {
			return ErrStockUnavailable
		}
		if err := s.ensureStock(store.ID, engine, "", kitDemand(kit, quantity)); err != nil {
			return err
		}
		engine.AddItem(cart.Product{
			ID:    lineID,
			Name:  kit.Name,
			Price: kit.Price.Decimal,
			Image: kit.Image,
		}, "", "")
		if quantity > 1 {
			engine.UpdateQuantity(key, current+quantity)
		}
		return nil
	})
}

// UpdateQuantity 设置行数量；<= 0 删除该行
func (s *CartService) UpdateQuantity(ctx context.Context, store *models.Store, token, variantKey string, quantity int) (*cart.Summary, error) {
	return s.mutate(ctx, store, token, func(engine *cart.Engine) error {
		line, ok := engine.Item(variantKey)
		if !ok {
			return ErrCartItemNotFound
		}
		if quantity > line.Quantity {
			if err := s.checkLineStock(store.ID, engine, line, quantity); err != nil {
				return err
			}
		}
		engine.UpdateQuantity(variantKey, quantity)
		return nil
	})
}

// RemoveItem 删除行，不存在时忽略
func (s *CartService) RemoveItem(ctx context.Context, store *models.Store, token, variantKey string) (*cart.Summary, error) {
	return s.mutate(ctx, store, token, func(engine *cart.Engine) error {
		engine.RemoveItem(variantKey)
		return nil
	})
}

// Clear 清空购物车
func (s *CartService) Clear(ctx context.Context, store *models.Store, token string) (*cart.Summary, error) {
	unlock, err := s.Lock(ctx, store, token)
	if err != nil {
		return nil, err
	}
	defer unlock()
	return s.clear(ctx, store, token)
}

// clear 调用方需已持有会话锁
func (s *CartService) clear(ctx context.Context, store *models.Store, token string) (*cart.Summary, error) {
	if err := s.sessions.Delete(ctx, store.ID, token); err != nil {
		return nil, err
	}
	summary := s.newEngine(store).Summary()
	return &summary, nil
}

// ApplyCoupon 从店铺优惠券目录解析并应用
func (s *CartService) ApplyCoupon(ctx context.Context, store *models.Store, token, code string) (*cart.Summary, error) {
	resolved, _, err := s.couponSvc.Resolve(store.ID, code)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, store, token, func(engine *cart.Engine) error {
		var applyErr error
		if resolved == nil {
			applyErr = cart.DeclineUnknown(code)
		} else {
			applyErr = engine.ApplyCoupon(resolved)
		}
		if applyErr != nil {
			var declined *cart.CouponDeclinedError
			if errors.As(applyErr, &declined) {
				logger.Infow("cart_coupon_declined",
					"store_id", store.ID,
					"code", declined.CouponCode,
					"reason", declined.Code,
				)
			}
			return applyErr
		}
		return nil
	})
}

// RemoveCoupon 移除优惠券
func (s *CartService) RemoveCoupon(ctx context.Context, store *models.Store, token string) (*cart.Summary, error) {
	return s.mutate(ctx, store, token, func(engine *cart.Engine) error {
		engine.RemoveCoupon()
		return nil
	})
}

// QuoteShipping 按 CEP 报价运费（店铺统一运费）并写入购物车
func (s *CartService) QuoteShipping(ctx context.Context, store *models.Store, token, cep string) (*cart.Summary, string, error) {
	normalized, err := NormalizeCEP(cep)
	if err != nil {
		return nil, "", err
	}
	summary, err := s.mutate(ctx, store, token, func(engine *cart.Engine) error {
		engine.SetShipping(store.ShippingFee.Decimal)
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return summary, normalized, nil
}

// NormalizeCEP 规范化 CEP，必须为 8 位数字
func NormalizeCEP(raw string) (string, error) {
	digits := onlyDigits(raw)
	if len(digits) != 8 {
		return "", ErrInvalidCEP
	}
	return digits, nil
}

// Open 读取购物车引擎（供结算使用）
func (s *CartService) Open(ctx context.Context, store *models.Store, token string) (*cart.Engine, error) {
	return s.open(ctx, store, token)
}

// Save 保存购物车快照
func (s *CartService) Save(ctx context.Context, store *models.Store, token string, engine *cart.Engine) error {
	return s.sessions.Save(ctx, store.ID, token, engine.Snapshot())
}

// Lock 锁定购物车会话，同一 token 的 读取 -> 修改 -> 保存 串行执行
func (s *CartService) Lock(ctx context.Context, store *models.Store, token string) (func(), error) {
	if err := s.requireToken(token); err != nil {
		return nil, err
	}
	if s.locker == nil {
		return func() {}, nil
	}
	return s.locker.Lock(ctx, store.ID, token)
}

func (s *CartService) mutate(ctx context.Context, store *models.Store, token string, fn func(engine *cart.Engine) error) (*cart.Summary, error) {
	unlock, err := s.Lock(ctx, store, token)
	if err != nil {
		return nil, err
	}
	defer unlock()
	engine, err := s.open(ctx, store, token)
	if err != nil {
		return nil, err
	}
	if err := fn(engine); err != nil {
		return nil, err
	}
	if err := s.Save(ctx, store, token, engine); err != nil {
		return nil, err
	}
	summary := engine.Summary()
	return &summary, nil
}

func (s *CartService) open(ctx context.Context, store *models.Store, token string) (*cart.Engine, error) {
	if err := s.requireToken(token); err != nil {
		return nil, err
	}
	engine := s.newEngine(store)
	state, hit, err := s.sessions.Load(ctx, store.ID, token)
	if err != nil {
		return nil, err
	}
	if hit && state != nil {
		engine.Restore(*state)
	}
	return engine, nil
}

func (s *CartService) newEngine(store *models.Store) *cart.Engine {
	return cart.New(cart.WithFreeShippingThreshold(s.storeSvc.FreeShippingThreshold(store)))
}

func (s *CartService) requireToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrCartTokenMissing
	}
	return nil
}

func (s *CartService) checkLineStock(storeID uint, engine *cart.Engine, line cart.LineItem, quantity int) error {
	isKit, id, ok := ParseLineID(line.ProductID)
	if !ok {
		return ErrCartItemNotFound
	}
	extra := map[uint]int{id: quantity}
	if isKit {
		kit, err := s.kitRepo.GetByID(storeID, id, true)
		if err != nil {
			return err
		}
		if kit == nil {
			return ErrKitNotFound
		}
		if !kitMembersActive(kit) {
			return ErrStockUnavailable
		}
		extra = kitDemand(kit, quantity)
	}
	return s.ensureStock(storeID, engine, line.VariantKey, extra)
}

// ensureStock 校验 extra 中各商品在购物车总需求（直购 + 套装展开）叠加后是否超出库存
func (s *CartService) ensureStock(storeID uint, engine *cart.Engine, excludeKey string, extra map[uint]int) error {
	demand, err := s.cartDemand(storeID, engine, excludeKey)
	if err != nil {
		return err
	}
	for productID, quantity := range extra {
		product, err := s.productRepo.GetByID(storeID, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrProductNotFound
		}
		if !product.AllowsQuantity(demand[productID] + quantity) {
			return ErrStockUnavailable
		}
	}
	return nil
}

// cartDemand 按商品汇总购物车需求，套装行展开为成员商品数量；excludeKey 对应的行不计入
func (s *CartService) cartDemand(storeID uint, engine *cart.Engine, excludeKey string) (map[uint]int, error) {
	demand := make(map[uint]int)
	kits := make(map[uint]*models.Kit)
	for _, item := range engine.Items() {
		if item.VariantKey == excludeKey {
			continue
		}
		isKit, id, ok := ParseLineID(item.ProductID)
		if !ok {
			continue
		}
		if !isKit {
			demand[id] += item.Quantity
			continue
		}
		kit, loaded := kits[id]
		if !loaded {
			var err error
			kit, err = s.kitRepo.GetByID(storeID, id, false)
			if err != nil {
				return nil, err
			}
			kits[id] = kit
		}
		if kit == nil {
			continue
		}
		for productID, quantity := range kitDemand(kit, item.Quantity) {
			demand[productID] += quantity
		}
	}
	return demand, nil
}

// kitDemand 套装数量展开为成员商品需求
func kitDemand(kit *models.Kit, quantity int) map[uint]int {
	demand := make(map[uint]int, len(kit.Items))
	for _, item := range kit.Items {
		demand[item.ProductID] += item.Quantity * quantity
	}
	return demand
}

func kitMembersActive(kit *models.Kit) bool {
	for _, item := range kit.Items {
		if !item.Product.IsActive {
			return false
		}
	}
	return true
}

// pickOption 校验规格值；商品没有该维度时不允许传值
func pickOption(options models.StringArray, raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if len(options) == 0 {
		if value != "" {
			return "", ErrInvalidVariant
		}
		return "", nil
	}
	for _, option := range options {
		if strings.EqualFold(strings.TrimSpace(option), value) {
			return option, nil
		}
	}
	return "", ErrInvalidVariant
}

func onlyDigits(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
