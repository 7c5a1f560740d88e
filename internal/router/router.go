package router

import (
	"sort"
	"strings"

	"github.com/vitrine-next/internal/authz"
	"github.com/vitrine-next/internal/cache"
	"github.com/vitrine-next/internal/config"
	adminhandlers "github.com/vitrine-next/internal/http/handlers/admin"
	merchanthandlers "github.com/vitrine-next/internal/http/handlers/merchant"
	publichandlers "github.com/vitrine-next/internal/http/handlers/public"
	"github.com/vitrine-next/internal/http/response"
	"github.com/vitrine-next/internal/logger"
	"github.com/vitrine-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/商户/平台分组）
	publicHandler := publichandlers.New(c)
	merchantHandler := merchanthandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "vt"
	}
	redisClient := cache.Client()
	merchantLoginRule := loginRateLimitRule(redisPrefix, "merchant_login", cfg.Security.LoginRateLimit)
	adminLoginRule := loginRateLimitRule(redisPrefix, "admin_login", cfg.Security.LoginRateLimit)
	registerRule := loginRateLimitRule(redisPrefix, "store_register", cfg.Security.LoginRateLimit)
	registerRule.MessageKey = ""
	checkoutRule := checkoutRateLimitRule(redisPrefix, cfg.Security.CheckoutRateLimit)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		apiV1.GET("/captcha/image", publicHandler.GetImageCaptcha)
		apiV1.POST("/stores/register", RateLimitMiddleware(redisClient, registerRule, KeyByIP), publicHandler.RegisterStore)

		// 店铺前台
		storefront := apiV1.Group("/stores/:slug")
		{
			storefront.GET("", publicHandler.GetStore)
			storefront.GET("/categories", publicHandler.GetCategories)
			storefront.GET("/products", publicHandler.GetProducts)
			storefront.GET("/products/:product_slug", publicHandler.GetProductBySlug)
			storefront.GET("/banners", publicHandler.GetBanners)
			storefront.GET("/kits", publicHandler.GetKits)

			// 购物车（会话由 X-Cart-Token 标识）
			cartGroup := storefront.Group("")
			cartGroup.Use(CartSessionMiddleware())
			{
				cartGroup.GET("/cart", publicHandler.GetCart)
				cartGroup.POST("/cart/items", publicHandler.AddCartItem)
				cartGroup.POST("/cart/kits", publicHandler.AddCartKit)
				cartGroup.PUT("/cart/items/:variant_key", publicHandler.UpdateCartItem)
				cartGroup.DELETE("/cart/items/:variant_key", publicHandler.DeleteCartItem)
				cartGroup.DELETE("/cart", publicHandler.ClearCart)
				cartGroup.POST("/cart/coupon", publicHandler.ApplyCartCoupon)
				cartGroup.DELETE("/cart/coupon", publicHandler.RemoveCartCoupon)
				cartGroup.POST("/cart/shipping", publicHandler.QuoteShipping)
				cartGroup.POST("/checkout", RateLimitMiddleware(redisClient, checkoutRule, KeyByStoreAndIP), publicHandler.Checkout)
			}
		}

		// 商户后台
		merchant := apiV1.Group("/merchant")
		{
			merchant.POST("/login", RateLimitMiddleware(redisClient, merchantLoginRule, KeyByIPAndJSONField("email")), merchantHandler.Login)

			authorized := merchant.Group("")
			authorized.Use(MerchantJWTMiddleware(cfg.JWT.SecretKey, c.MerchantAuthService))
			{
				authorized.GET("/me", merchantHandler.GetProfile)
				authorized.PUT("/password", merchantHandler.ChangePassword)
				authorized.GET("/settings", merchantHandler.GetSettings)
				authorized.PUT("/settings", merchantHandler.UpdateSettings)
				authorized.GET("/dashboard", merchantHandler.GetDashboard)

				authorized.GET("/categories", merchantHandler.GetCategories)
				authorized.POST("/categories", merchantHandler.CreateCategory)
				authorized.PUT("/categories/:id", merchantHandler.UpdateCategory)
				authorized.DELETE("/categories/:id", merchantHandler.DeleteCategory)

				authorized.GET("/products", merchantHandler.GetProducts)
				authorized.GET("/products/:id", merchantHandler.GetProduct)
				authorized.POST("/products", merchantHandler.CreateProduct)
				authorized.PUT("/products/:id", merchantHandler.UpdateProduct)
				authorized.DELETE("/products/:id", merchantHandler.DeleteProduct)

				authorized.GET("/banners", merchantHandler.GetBanners)
				authorized.POST("/banners", merchantHandler.CreateBanner)
				authorized.PUT("/banners/:id", merchantHandler.UpdateBanner)
				authorized.DELETE("/banners/:id", merchantHandler.DeleteBanner)

				authorized.GET("/coupons", merchantHandler.GetCoupons)
				authorized.GET("/coupons/:id", merchantHandler.GetCoupon)
				authorized.POST("/coupons", merchantHandler.CreateCoupon)
				authorized.PUT("/coupons/:id", merchantHandler.UpdateCoupon)
				authorized.DELETE("/coupons/:id", merchantHandler.DeleteCoupon)

				authorized.GET("/kits", merchantHandler.GetKits)
				authorized.GET("/kits/:id", merchantHandler.GetKit)
				authorized.POST("/kits", merchantHandler.CreateKit)
				authorized.PUT("/kits/:id", merchantHandler.UpdateKit)
				authorized.DELETE("/kits/:id", merchantHandler.DeleteKit)

				authorized.GET("/orders", merchantHandler.GetOrders)
				authorized.GET("/orders/:id", merchantHandler.GetOrder)
				authorized.PATCH("/orders/:id/status", merchantHandler.UpdateOrderStatus)
			}
		}

		// 平台管理
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIPAndJSONField("username")), adminHandler.AdminLogin)

			// 需要鉴权的接口
			authorized := admin.Group("")
			authorized.Use(AdminJWTMiddleware(cfg.AdminJWT.SecretKey, c.AuthService), AdminRBACMiddleware(c.AuthzService))
			{
				authorized.GET("/me", adminHandler.GetMe)
				authorized.GET("/dashboard", adminHandler.GetDashboard)

				// 店铺管理
				authorized.GET("/stores", adminHandler.GetStores)
				authorized.GET("/stores/:id", adminHandler.GetStore)
				authorized.PATCH("/stores/:id/status", adminHandler.UpdateStoreStatus)
				authorized.GET("/audit-logs", adminHandler.ListAuditLogs)

				// 权限管理
				authorized.GET("/authz/roles", adminHandler.ListRoles)
				authorized.GET("/authz/roles/:role/policies", adminHandler.GetRolePolicies)
				authorized.GET("/authz/admins", adminHandler.ListAdmins)
				authorized.POST("/authz/admins", adminHandler.CreateAdmin)
				authorized.GET("/authz/admins/:id/roles", adminHandler.GetAdminRoles)
				authorized.PUT("/authz/admins/:id/roles", adminHandler.SetAdminRoles)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		if item.Path == "/api/v1/admin/login" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}
