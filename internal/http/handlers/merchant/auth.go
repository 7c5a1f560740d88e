package merchant

import (
	"strings"

	handlershared "github.com/vitrine-next/internal/http/handlers/shared"
	"github.com/vitrine-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// LoginRequest 商户登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// Login 商户登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	merchant, token, expiresAt, err := h.MerchantAuthService.Login(strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		handlershared.RespondMappedError(c, err, handlershared.AuthErrorRules, "error.login_failed")
		return
	}

	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"merchant":   merchant,
	})
}

// GetProfile 当前商户资料
func (h *Handler) GetProfile(c *gin.Context) {
	merchantID, ok := getMerchantID(c)
	if !ok {
		return
	}
	merchant, err := h.MerchantAuthService.GetProfile(merchantID)
	if err != nil {
		handlershared.RespondMappedError(c, err, handlershared.AuthErrorRules, "error.profile_fetch_failed")
		return
	}
	response.Success(c, merchant)
}

// ChangePassword 修改密码，成功后旧 Token 失效
func (h *Handler) ChangePassword(c *gin.Context) {
	merchantID, ok := getMerchantID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.MerchantAuthService.ChangePassword(merchantID, req.OldPassword, req.NewPassword); err != nil {
		handlershared.RespondMappedError(c, err, handlershared.AuthErrorRules, "error.password_change_failed")
		return
	}
	response.SuccessWithMsg(c, handlershared.T("message.password_changed"), nil)
}
