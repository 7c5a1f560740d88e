package provider

import (
	"time"

	"github.com/vitrine-next/internal/authz"
	"github.com/vitrine-next/internal/cache"
	"github.com/vitrine-next/internal/config"
	"github.com/vitrine-next/internal/logger"
	"github.com/vitrine-next/internal/models"
	"github.com/vitrine-next/internal/queue"
	"github.com/vitrine-next/internal/repository"
	"github.com/vitrine-next/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config       *config.Config
	QueueClient  *queue.Client
	CartSessions cache.CartSessionStore
	CartLocker   cache.CartLocker

	// Repositories
	StoreRepo         repository.StoreRepository
	MerchantRepo      repository.MerchantRepository
	AdminRepo         repository.AdminRepository
	AdminAuditLogRepo repository.AdminAuditLogRepository
	CategoryRepo      repository.CategoryRepository
	ProductRepo       repository.ProductRepository
	BannerRepo        repository.BannerRepository
	CouponRepo        repository.CouponRepository
	KitRepo           repository.KitRepository
	OrderRepo         repository.OrderRepository
	DashboardRepo     repository.DashboardRepository

	// Services
	AuthzService        *authz.Service
	AuthService         *service.AuthService
	MerchantAuthService *service.MerchantAuthService
	StoreService        *service.StoreService
	CaptchaService      *service.CaptchaService
	CategoryService     *service.CategoryService
	ProductService      *service.ProductService
	BannerService       *service.BannerService
	CouponService       *service.CouponService
	KitService          *service.KitService
	CartService         *service.CartService
	OrderService        *service.OrderService
	CheckoutService     *service.CheckoutService
	DashboardService    *service.DashboardService
}

// NewContainer 初始化容器（使用全局数据库连接）
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 队列未启用时返回禁用态客户端，结算改为同步处理
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	return NewContainerWithDB(cfg, models.DB, queueClient)
}

// NewContainerWithDB 使用指定数据库构建容器
func NewContainerWithDB(cfg *config.Config, db *gorm.DB, queueClient *queue.Client) *Container {
	ttlHours := cfg.Cart.SessionTTLHours
	if ttlHours <= 0 {
		ttlHours = 72
	}
	c := &Container{
		Config:       cfg,
		QueueClient:  queueClient,
		CartSessions: cache.NewCartSessionStore(time.Duration(ttlHours) * time.Hour),
		CartLocker:   cache.NewCartLocker(),
	}

	// 1. 初始化 Repositories
	c.initRepositories(db)

	// 2. 初始化 Services
	c.initServices(db)

	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.StoreRepo = repository.NewStoreRepository(db)
	c.MerchantRepo = repository.NewMerchantRepository(db)
	c.AdminRepo = repository.NewAdminRepository(db)
	c.AdminAuditLogRepo = repository.NewAdminAuditLogRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.BannerRepo = repository.NewBannerRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.KitRepo = repository.NewKitRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices(db *gorm.DB) {
	authzService, err := authz.NewService(db)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.MerchantAuthService = service.NewMerchantAuthService(c.Config, c.MerchantRepo)
	c.StoreService = service.NewStoreService(c.Config, c.StoreRepo, c.MerchantRepo, c.AdminAuditLogRepo)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo)
	c.BannerService = service.NewBannerService(c.BannerRepo)
	c.CouponService = service.NewCouponService(c.CouponRepo)
	c.KitService = service.NewKitService(c.KitRepo, c.ProductRepo)
	c.CartService = service.NewCartService(c.CartSessions, c.CartLocker, c.StoreService, c.ProductRepo, c.KitRepo, c.CouponService)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductRepo, c.KitRepo)
	c.CheckoutService = service.NewCheckoutService(c.Config, c.CartService, c.CouponService, c.OrderService, c.OrderRepo, c.QueueClient)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo)
}
