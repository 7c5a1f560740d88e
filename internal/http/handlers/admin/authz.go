package admin

import (
	"errors"
	"sort"

	"github.com/vitrine-next/internal/authz"
	"github.com/vitrine-next/internal/constants"
	handlershared "github.com/vitrine-next/internal/http/handlers/shared"
	"github.com/vitrine-next/internal/http/response"
	"github.com/vitrine-next/internal/logger"
	"github.com/vitrine-next/internal/service"

	"github.com/gin-gonic/gin"
)

type createAdminPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	IsSuper  bool   `json:"is_super"`
}

type setAdminRolesPayload struct {
	Roles []string `json:"roles"`
}

// AdminView 管理员列表项
type AdminView struct {
	ID       uint     `json:"id"`
	Username string   `json:"username"`
	IsSuper  bool     `json:"is_super"`
	Roles    []string `json:"roles"`
}

// ListRoles 角色列表
func (h *Handler) ListRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, roles)
}

// GetRolePolicies 角色策略
func (h *Handler) GetRolePolicies(c *gin.Context) {
	role := decodeRoleParam(c.Param("role"))
	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.role_invalid", err)
		return
	}
	response.Success(c, policies)
}

// ListAdmins 管理员列表（含角色）
func (h *Handler) ListAdmins(c *gin.Context) {
	admins, err := h.AuthService.ListAdmins()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	items := make([]AdminView, 0, len(admins))
	for _, admin := range admins {
		roles, err := h.AuthzService.GetAdminRoles(admin.ID)
		if err != nil {
			respondError(c, response.CodeInternal, "error.internal", err)
			return
		}
		sort.Strings(roles)
		items = append(items, AdminView{
			ID:       admin.ID,
			Username: admin.Username,
			IsSuper:  admin.IsSuper,
			Roles:    roles,
		})
	}
	response.Success(c, items)
}

// CreateAdmin 创建管理员
func (h *Handler) CreateAdmin(c *gin.Context) {
	var req createAdminPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	admin, err := h.AuthService.CreateAdmin(service.CreateAdminInput{
		Username: req.Username,
		Password: req.Password,
		IsSuper:  req.IsSuper,
	})
	if err != nil {
		handlershared.RespondMappedError(c, err, handlershared.AuthErrorRules, "error.admin_save_failed")
		return
	}

	logger.Infow("admin_authz_admin_created",
		"operator_admin_id", c.GetUint(constants.ContextAdminID),
		"target_admin_id", admin.ID,
		"target_username", admin.Username,
		"is_super", admin.IsSuper,
	)
	response.Success(c, admin)
}

// GetAdminRoles 管理员角色
func (h *Handler) GetAdminRoles(c *gin.Context) {
	adminID, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	roles, err := h.AuthzService.GetAdminRoles(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	sort.Strings(roles)
	response.Success(c, gin.H{"admin_id": adminID, "roles": roles})
}

// SetAdminRoles 覆盖管理员角色
func (h *Handler) SetAdminRoles(c *gin.Context) {
	adminID, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req setAdminRolesPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	admin, err := h.AdminRepo.GetByID(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.admin_save_failed", err)
		return
	}
	if admin == nil {
		respondError(c, response.CodeNotFound, "error.admin_not_found", nil)
		return
	}

	if err := h.AuthzService.SetAdminRoles(adminID, req.Roles); err != nil {
		if errors.Is(err, authz.ErrRoleUndefined) {
			respondError(c, response.CodeBadRequest, "error.role_invalid", err)
			return
		}
		respondError(c, response.CodeInternal, "error.admin_save_failed", err)
		return
	}
	roles, err := h.AuthzService.GetAdminRoles(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	sort.Strings(roles)

	logger.Infow("admin_authz_roles_updated",
		"operator_admin_id", c.GetUint(constants.ContextAdminID),
		"target_admin_id", adminID,
		"roles", roles,
	)
	response.Success(c, gin.H{"admin_id": adminID, "roles": roles})
}
