package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/vitrine-next/internal/cache"
	"github.com/vitrine-next/internal/config"
	"github.com/vitrine-next/internal/constants"
	"github.com/vitrine-next/internal/logger"
	"github.com/vitrine-next/internal/models"
	"github.com/vitrine-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]{3,60}$`)

// StoreService 店铺服务（注册、设置、平台停用/启用）
type StoreService struct {
	cfg          *config.Config
	storeRepo    repository.StoreRepository
	merchantRepo repository.MerchantRepository
	auditRepo    repository.AdminAuditLogRepository
}

// NewStoreService 创建店铺服务
func NewStoreService(
	cfg *config.Config,
	storeRepo repository.StoreRepository,
	merchantRepo repository.MerchantRepository,
	auditRepo repository.AdminAuditLogRepository,
) *StoreService {
	return &StoreService{
		cfg:          cfg,
		storeRepo:    storeRepo,
		merchantRepo: merchantRepo,
		auditRepo:    auditRepo,
	}
}

// NormalizeSlug 规范化并校验 slug
func NormalizeSlug(raw string) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(raw))
	if !slugPattern.MatchString(slug) {
		return "", ErrInvalidSlug
	}
	return slug, nil
}

// NormalizeWhatsApp 规范化 WhatsApp 号码：仅保留数字，本地号码补国家码
func NormalizeWhatsApp(raw, defaultDDI string) (string, error) {
	digits := onlyDigits(raw)
	if len(digits) < 10 || len(digits) > 13 {
		return "", ErrInvalidWhatsApp
	}
	ddi := strings.TrimSpace(defaultDDI)
	if ddi == "" {
		ddi = "55"
	}
	if len(digits) <= 11 {
		digits = ddi + digits
	}
	return digits, nil
}

// RegisterStoreInput 店铺注册输入
type RegisterStoreInput struct {
	StoreName    string
	Slug         string
	WhatsApp     string
	Email        string
	Password     string
	MerchantName string
}

// Register 注册店铺并创建所有者账号
func (s *StoreService) Register(input RegisterStoreInput) (*models.Store, *models.Merchant, error) {
	storeName := strings.TrimSpace(input.StoreName)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if storeName == "" || email == "" || !strings.Contains(email, "@") {
		return nil, nil, ErrInvalidInput
	}
	slug, err := NormalizeSlug(input.Slug)
	if err != nil {
		return nil, nil, err
	}
	whatsapp, err := NormalizeWhatsApp(input.WhatsApp, s.cfg.Checkout.DefaultDDI)
	if err != nil {
		return nil, nil, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password, slug, input.Email); err != nil {
		return nil, nil, err
	}

	slugCount, err := s.storeRepo.CountBySlug(slug)
	if err != nil {
		return nil, nil, err
	}
	if slugCount > 0 {
		return nil, nil, ErrSlugExists
	}
	emailCount, err := s.merchantRepo.CountByEmail(email)
	if err != nil {
		return nil, nil, err
	}
	if emailCount > 0 {
		return nil, nil, ErrEmailExists
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, nil, err
	}
	merchantName := strings.TrimSpace(input.MerchantName)
	if merchantName == "" {
		merchantName = storeName
	}

	store := &models.Store{
		Name:     storeName,
		Slug:     slug,
		WhatsApp: whatsapp,
		Email:    email,
		Status:   constants.StoreStatusActive,
	}
	merchant := &models.Merchant{
		Name:         merchantName,
		Email:        email,
		PasswordHash: hash,
		Status:       constants.MerchantStatusActive,
	}
	err = s.storeRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.storeRepo.WithTx(tx).Create(store); err != nil {
			return err
		}
		merchant.StoreID = store.ID
		return s.merchantRepo.WithTx(tx).Create(merchant)
	})
	if err != nil {
		return nil, nil, err
	}
	merchant.Store = *store
	logger.Infow("store_registered", "store_id", store.ID, "slug", store.Slug, "merchant_id", merchant.ID)
	return store, merchant, nil
}

// GetPublicBySlug 获取对外营业的店铺，停用店铺视为不存在
func (s *StoreService) GetPublicBySlug(slug string) (*models.Store, error) {
	store, err := s.storeRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if store == nil || !store.IsActive() {
		return nil, ErrStoreNotFound
	}
	return store, nil
}

// GetByID 获取店铺
func (s *StoreService) GetByID(id uint) (*models.Store, error) {
	store, err := s.storeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}
	return store, nil
}

// FreeShippingThreshold 店铺生效的包邮门槛
func (s *StoreService) FreeShippingThreshold(store *models.Store) decimal.Decimal {
	if store != nil && store.FreeShippingThreshold.IsPositive() {
		return store.FreeShippingThreshold.Decimal
	}
	return defaultFreeShippingThreshold(s.cfg)
}

func defaultFreeShippingThreshold(cfg *config.Config) decimal.Decimal {
	if cfg == nil {
		return decimal.NewFromInt(199)
	}
	threshold, err := decimal.NewFromString(strings.TrimSpace(cfg.Cart.FreeShippingThreshold))
	if err != nil || !threshold.IsPositive() {
		return decimal.NewFromInt(199)
	}
	return threshold
}

// UpdateStoreSettingsInput 店铺设置输入
type UpdateStoreSettingsInput struct {
	Name                  string
	WhatsApp              string
	Description           string
	Logo                  string
	ShippingFee           decimal.Decimal
	FreeShippingThreshold decimal.Decimal
}

// UpdateSettings 更新店铺设置
func (s *StoreService) UpdateSettings(storeID uint, input UpdateStoreSettingsInput) (*models.Store, error) {
	store, err := s.GetByID(storeID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	if input.ShippingFee.IsNegative() || input.FreeShippingThreshold.IsNegative() {
		return nil, ErrInvalidInput
	}
	whatsapp, err := NormalizeWhatsApp(input.WhatsApp, s.cfg.Checkout.DefaultDDI)
	if err != nil {
		return nil, err
	}

	store.Name = name
	store.WhatsApp = whatsapp
	store.Description = strings.TrimSpace(input.Description)
	store.Logo = strings.TrimSpace(input.Logo)
	store.ShippingFee = models.NewMoneyFromDecimal(input.ShippingFee)
	store.FreeShippingThreshold = models.NewMoneyFromDecimal(input.FreeShippingThreshold)
	if err := s.storeRepo.Update(store); err != nil {
		return nil, err
	}
	return store, nil
}

// ListStores 平台店铺列表
func (s *StoreService) ListStores(filter repository.StoreListFilter) ([]models.Store, int64, error) {
	return s.storeRepo.List(filter)
}

// AuditActor 后台操作人信息
type AuditActor struct {
	AdminID   uint
	Username  string
	RequestID string
}

// SetStatus 平台停用/启用店铺，并记录审计日志
func (s *StoreService) SetStatus(ctx context.Context, actor AuditActor, storeID uint, status, reason string) (*models.Store, error) {
	status = strings.TrimSpace(status)
	if status != constants.StoreStatusActive && status != constants.StoreStatusSuspended {
		return nil, ErrInvalidStoreState
	}
	store, err := s.GetByID(storeID)
	if err != nil {
		return nil, err
	}
	if store.Status == status {
		return nil, ErrStoreStatusNoop
	}
	reason = strings.TrimSpace(reason)
	if status == constants.StoreStatusActive {
		reason = ""
	}
	if err := s.storeRepo.UpdateStatus(store.ID, status, reason); err != nil {
		return nil, err
	}
	previous := store.Status
	store.Status = status
	store.SuspendedReason = reason

	s.invalidateMerchantAuth(ctx, store.ID)
	if s.auditRepo != nil {
		entry := &models.AdminAuditLog{
			OperatorAdminID:  actor.AdminID,
			OperatorUsername: actor.Username,
			Action:           "store_status_" + status,
			TargetType:       "store",
			TargetID:         store.ID,
			RequestID:        actor.RequestID,
			DetailJSON: models.JSON{
				"from":   previous,
				"to":     status,
				"reason": reason,
				"slug":   store.Slug,
			},
		}
		if err := s.auditRepo.Create(entry); err != nil {
			logger.Warnw("store_status_audit_write_failed", "store_id", store.ID, "error", err)
		}
	}
	logger.Infow("store_status_changed", "store_id", store.ID, "from", previous, "to", status, "admin_id", actor.AdminID)
	return store, nil
}

func (s *StoreService) invalidateMerchantAuth(ctx context.Context, storeID uint) {
	ids, err := s.merchantRepo.ListIDsByStore(storeID)
	if err != nil {
		logger.Warnw("store_merchant_ids_load_failed", "store_id", storeID, "error", err)
		return
	}
	for _, id := range ids {
		if err := cache.DelMerchantAuthState(ctx, id); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warnw("merchant_auth_state_invalidate_failed", "merchant_id", id, "error", err)
		}
	}
}

// ListAuditLogs 后台审计日志
func (s *StoreService) ListAuditLogs(filter repository.AdminAuditLogListFilter) ([]models.AdminAuditLog, int64, error) {
	if s.auditRepo == nil {
		return []models.AdminAuditLog{}, 0, nil
	}
	return s.auditRepo.List(filter)
}
