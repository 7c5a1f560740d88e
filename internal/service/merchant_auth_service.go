package service

import (
	"context"
	"strconv"
	"time"

	"github.com/vitrine-next/internal/cache"
	"github.com/vitrine-next/internal/config"
	"github.com/vitrine-next/internal/constants"
	"github.com/vitrine-next/internal/logger"
	"github.com/vitrine-next/internal/models"
	"github.com/vitrine-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

// MerchantAuthService 商户认证服务
type MerchantAuthService struct {
	cfg          *config.Config
	merchantRepo repository.MerchantRepository
}

// NewMerchantAuthService 创建商户认证服务
func NewMerchantAuthService(cfg *config.Config, merchantRepo repository.MerchantRepository) *MerchantAuthService {
	return &MerchantAuthService{
		cfg:          cfg,
		merchantRepo: merchantRepo,
	}
}

// MerchantClaims 商户 JWT 声明
type MerchantClaims struct {
	MerchantID   uint   `json:"merchant_id"`
	StoreID      uint   `json:"store_id"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateJWT 生成商户 JWT Token
func (s *MerchantAuthService) GenerateJWT(merchant *models.Merchant) (string, time.Time, error) {
	registered, expiresAt := registeredClaims(s.cfg.JWT, "merchant:"+strconv.FormatUint(uint64(merchant.ID), 10), time.Now())
	claims := MerchantClaims{
		MerchantID:       merchant.ID,
		StoreID:          merchant.StoreID,
		TokenVersion:     merchant.TokenVersion,
		RegisteredClaims: registered,
	}
	token, err := signToken(s.cfg.JWT, claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// ParseJWT 解析商户 JWT Token
func (s *MerchantAuthService) ParseJWT(tokenString string) (*MerchantClaims, error) {
	claims := &MerchantClaims{}
	if err := parseToken(s.cfg.JWT, tokenString, claims); err != nil {
		return nil, err
	}
	if claims.MerchantID == 0 || claims.StoreID == 0 {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Login 商户登录
func (s *MerchantAuthService) Login(email, password string) (*models.Merchant, string, time.Time, error) {
	merchant, err := s.merchantRepo.GetByEmail(email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if merchant == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := VerifyPassword(merchant.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if merchant.Status != constants.MerchantStatusActive {
		return nil, "", time.Time{}, ErrAccountDisabled
	}
	if !merchant.Store.IsActive() {
		return nil, "", time.Time{}, ErrStoreSuspended
	}

	token, expiresAt, err := s.GenerateJWT(merchant)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	now := time.Now()
	merchant.LastLoginAt = &now
	if err := s.merchantRepo.TouchLogin(merchant.ID, now); err != nil {
		logger.Warnw("merchant_touch_login_failed", "merchant_id", merchant.ID, "error", err)
	}
	_ = cache.SetMerchantAuthState(context.Background(), cache.BuildMerchantAuthState(merchant))
	return merchant, token, expiresAt, nil
}

// ResolveAuthState 获取商户鉴权快照（优先缓存）
func (s *MerchantAuthService) ResolveAuthState(ctx context.Context, merchantID uint) (*cache.MerchantAuthState, error) {
	state, hit, err := cache.GetMerchantAuthState(ctx, merchantID)
	if err != nil {
		logger.Warnw("merchant_auth_state_cache_read_failed", "merchant_id", merchantID, "error", err)
	}
	if hit && state != nil {
		return state, nil
	}
	merchant, err := s.merchantRepo.GetByID(merchantID)
	if err != nil {
		return nil, err
	}
	if merchant == nil {
		return nil, ErrNotFound
	}
	state = cache.BuildMerchantAuthState(merchant)
	_ = cache.SetMerchantAuthState(ctx, state)
	return state, nil
}

// GetProfile 获取商户资料（含店铺）
func (s *MerchantAuthService) GetProfile(merchantID uint) (*models.Merchant, error) {
	merchant, err := s.merchantRepo.GetByID(merchantID)
	if err != nil {
		return nil, err
	}
	if merchant == nil {
		return nil, ErrNotFound
	}
	return merchant, nil
}

// ChangePassword 修改商户密码并使旧 Token 失效
func (s *MerchantAuthService) ChangePassword(merchantID uint, oldPassword, newPassword string) error {
	merchant, err := s.merchantRepo.GetByID(merchantID)
	if err != nil {
		return err
	}
	if merchant == nil {
		return ErrNotFound
	}
	if err := VerifyPassword(merchant.PasswordHash, oldPassword); err != nil {
		return ErrInvalidPassword
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword, merchant.Email); err != nil {
		return err
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	merchant.PasswordHash = hash
	merchant.TokenVersion++
	if err := s.merchantRepo.Update(merchant); err != nil {
		return err
	}
	_ = cache.SetMerchantAuthState(context.Background(), cache.BuildMerchantAuthState(merchant))
	return nil
}
