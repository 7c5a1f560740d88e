package service

import (
	"time"

	"github.com/vitrine-next/internal/cart"
	"github.com/vitrine-next/internal/logger"
	"github.com/vitrine-next/internal/models"
	"github.com/vitrine-next/internal/repository"

	"github.com/shopspring/decimal"
)

const couponCodeMaxLen = 40

// CouponService 优惠券服务
type CouponService struct {
	repo repository.CouponRepository
	now  func() time.Time
}

// NewCouponService 创建优惠券服务
func NewCouponService(repo repository.CouponRepository) *CouponService {
	return &CouponService{repo: repo, now: time.Now}
}

// CreateCouponInput 创建/更新优惠券输入
type CreateCouponInput struct {
	Code       string
	Type       string
	Value      decimal.Decimal
	MinAmount  decimal.Decimal
	UsageLimit int
	StartsAt   *time.Time
	EndsAt     *time.Time
	IsActive   *bool
}

// List 商户后台优惠券列表
func (s *CouponService) List(filter repository.CouponListFilter) ([]models.Coupon, int64, error) {
	return s.repo.List(filter)
}

// Get 获取优惠券
func (s *CouponService) Get(storeID, id uint) (*models.Coupon, error) {
	coupon, err := s.repo.GetByID(storeID, id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}

// Create 创建优惠券
func (s *CouponService) Create(storeID uint, input CreateCouponInput) (*models.Coupon, error) {
	coupon := &models.Coupon{StoreID: storeID, IsActive: true}
	if err := s.apply(storeID, 0, coupon, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// Update 更新优惠券
func (s *CouponService) Update(storeID, id uint, input CreateCouponInput) (*models.Coupon, error) {
	coupon, err := s.Get(storeID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(storeID, id, coupon, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// Delete 删除优惠券
func (s *CouponService) Delete(storeID, id uint) error {
	if _, err := s.Get(storeID, id); err != nil {
		return err
	}
	return s.repo.Delete(storeID, id)
}

func (s *CouponService) apply(storeID, id uint, coupon *models.Coupon, input CreateCouponInput) error {
	code := cart.NormalizeCode(input.Code)
	if code == "" || len(code) > couponCodeMaxLen {
		return ErrInvalidInput
	}
	discountType, ok := cart.ParseDiscountType(input.Type)
	if !ok {
		return ErrCouponTypeInvalid
	}
	if !input.Value.IsPositive() {
		return ErrCouponValueInvalid
	}
	if discountType == cart.DiscountPercentage && input.Value.GreaterThan(decimal.NewFromInt(100)) {
		return ErrCouponValueInvalid
	}
	if input.MinAmount.IsNegative() || input.UsageLimit < 0 {
		return ErrInvalidInput
	}
	if input.StartsAt != nil && input.EndsAt != nil && !input.EndsAt.After(*input.StartsAt) {
		return ErrCouponWindow
	}
	count, err := s.repo.CountByCode(storeID, code, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCouponCodeExists
	}

	coupon.Code = code
	coupon.Type = string(discountType)
	coupon.Value = models.NewMoneyFromDecimal(input.Value)
	coupon.MinAmount = models.NewMoneyFromDecimal(input.MinAmount)
	coupon.UsageLimit = input.UsageLimit
	coupon.StartsAt = input.StartsAt
	coupon.EndsAt = input.EndsAt
	if input.IsActive != nil {
		coupon.IsActive = *input.IsActive
	}
	return nil
}

// Resolve 按券码解析店铺优惠券，返回给计价引擎的只读快照
// 不存在、未启用、不在有效期、已用尽均返回 nil，由引擎按未知券拒绝
func (s *CouponService) Resolve(storeID uint, code string) (*cart.Coupon, *models.Coupon, error) {
	normalized := cart.NormalizeCode(code)
	if normalized == "" {
		return nil, nil, nil
	}
	coupon, err := s.repo.GetByCode(storeID, normalized)
	if err != nil {
		return nil, nil, err
	}
	if coupon == nil || !coupon.IsRedeemableAt(s.now()) {
		return nil, nil, nil
	}
	return ToCartCoupon(coupon), coupon, nil
}

// ToCartCoupon 将优惠券模型转换为计价引擎的优惠券
func ToCartCoupon(coupon *models.Coupon) *cart.Coupon {
	if coupon == nil {
		return nil
	}
	discountType, ok := cart.ParseDiscountType(coupon.Type)
	if !ok {
		return nil
	}
	return &cart.Coupon{
		Code:          cart.NormalizeCode(coupon.Code),
		DiscountType:  discountType,
		DiscountValue: coupon.Value.Decimal,
		MinOrderValue: coupon.MinAmount.Decimal,
	}
}

// RecordRedemption 记录一次优惠券使用
func (s *CouponService) RecordRedemption(couponID uint) error {
	coupon, err := s.repo.GetByID(0, couponID)
	if err != nil {
		return err
	}
	if coupon == nil {
		return ErrCouponNotFound
	}
	if err := s.repo.IncrementUsedCount(coupon.ID, 1); err != nil {
		return err
	}
	logger.Infow("coupon_redemption_recorded",
		"coupon_id", coupon.ID,
		"store_id", coupon.StoreID,
		"code", coupon.Code,
		"used_count", coupon.UsedCount+1,
	)
	return nil
}
