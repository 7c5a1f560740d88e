package admin

import (
	"strings"

	handlershared "github.com/vitrine-next/internal/http/handlers/shared"
	"github.com/vitrine-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string                 `json:"token"`
	User      map[string]interface{} `json:"user"`
	ExpiresAt string                 `json:"expires_at"`
}

// AdminLogin 管理员登录
func (h *Handler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	admin, token, expiresAt, err := h.AuthService.Login(strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		handlershared.RespondMappedError(c, err, handlershared.AuthErrorRules, "error.login_failed")
		return
	}
	response.Success(c, LoginResponse{
		Token: token,
		User: map[string]interface{}{
			"id":       admin.ID,
			"username": admin.Username,
			"is_super": admin.IsSuper,
		},
		ExpiresAt: expiresAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// GetMe 当前管理员信息与角色
func (h *Handler) GetMe(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	state, err := h.AuthService.ResolveAuthState(c.Request.Context(), adminID)
	if err != nil {
		handlershared.RespondMappedError(c, err, handlershared.AuthErrorRules, "error.profile_fetch_failed")
		return
	}
	roles, err := h.AuthzService.GetAdminRoles(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.profile_fetch_failed", err)
		return
	}
	response.Success(c, gin.H{
		"id":       state.AdminID,
		"username": state.Username,
		"is_super": state.IsSuper,
		"roles":    roles,
	})
}
