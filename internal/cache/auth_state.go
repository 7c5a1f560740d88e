package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/vitrine-next/internal/models"
)

const authStateCacheTTL = 10 * time.Minute

// MerchantAuthState 商户鉴权快照
// 同时缓存店铺状态，店铺停用后无需等待 Token 过期即可拦截
type MerchantAuthState struct {
	MerchantID   uint   `json:"merchant_id"`
	StoreID      uint   `json:"store_id"`
	Status       string `json:"status"`
	StoreStatus  string `json:"store_status"`
	TokenVersion uint64 `json:"token_version"`
	UpdatedAt    int64  `json:"updated_at"`
}

// AdminAuthState 管理员鉴权快照
type AdminAuthState struct {
	AdminID      uint   `json:"admin_id"`
	Username     string `json:"username"`
	TokenVersion uint64 `json:"token_version"`
	IsSuper      bool   `json:"is_super"`
	UpdatedAt    int64  `json:"updated_at"`
}

func merchantAuthStateKey(merchantID uint) string {
	return fmt.Sprintf("auth:merchant:%d", merchantID)
}

func adminAuthStateKey(adminID uint) string {
	return fmt.Sprintf("auth:admin:%d", adminID)
}

// BuildMerchantAuthState 从商户模型构建鉴权快照（需预加载 Store）
func BuildMerchantAuthState(merchant *models.Merchant) *MerchantAuthState {
	if merchant == nil {
		return nil
	}
	return &MerchantAuthState{
		MerchantID:   merchant.ID,
		StoreID:      merchant.StoreID,
		Status:       merchant.Status,
		StoreStatus:  merchant.Store.Status,
		TokenVersion: merchant.TokenVersion,
		UpdatedAt:    time.Now().Unix(),
	}
}

// BuildAdminAuthState 从管理员模型构建鉴权快照
func BuildAdminAuthState(admin *models.Admin) *AdminAuthState {
	if admin == nil {
		return nil
	}
	return &AdminAuthState{
		AdminID:      admin.ID,
		Username:     admin.Username,
		TokenVersion: admin.TokenVersion,
		IsSuper:      admin.IsSuper,
		UpdatedAt:    time.Now().Unix(),
	}
}

// GetMerchantAuthState 获取商户鉴权快照
func GetMerchantAuthState(ctx context.Context, merchantID uint) (*MerchantAuthState, bool, error) {
	if merchantID == 0 {
		return nil, false, nil
	}
	var state MerchantAuthState
	hit, err := GetJSON(ctx, merchantAuthStateKey(merchantID), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetMerchantAuthState 写入商户鉴权快照
func SetMerchantAuthState(ctx context.Context, state *MerchantAuthState) error {
	if state == nil || state.MerchantID == 0 {
		return nil
	}
	return SetJSON(ctx, merchantAuthStateKey(state.MerchantID), state, authStateCacheTTL)
}

// DelMerchantAuthState 删除商户鉴权快照
func DelMerchantAuthState(ctx context.Context, merchantID uint) error {
	if merchantID == 0 {
		return nil
	}
	return Del(ctx, merchantAuthStateKey(merchantID))
}

// GetAdminAuthState 获取管理员鉴权快照
func GetAdminAuthState(ctx context.Context, adminID uint) (*AdminAuthState, bool, error) {
	if adminID == 0 {
		return nil, false, nil
	}
	var state AdminAuthState
	hit, err := GetJSON(ctx, adminAuthStateKey(adminID), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetAdminAuthState 写入管理员鉴权快照
func SetAdminAuthState(ctx context.Context, state *AdminAuthState) error {
	if state == nil || state.AdminID == 0 {
		return nil
	}
	return SetJSON(ctx, adminAuthStateKey(state.AdminID), state, authStateCacheTTL)
}
