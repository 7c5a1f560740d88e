package repository

import "time"

// StoreListFilter 查询店铺列表的过滤条件
type StoreListFilter struct {
	Page     int
	PageSize int
	Search   string
	Status   string
}

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page         int
	PageSize     int
	StoreID      uint
	CategoryID   uint
	Search       string
	OnlyActive   bool
	OnlyFeatured bool
	WithCategory bool
}

// BannerListFilter 查询 Banner 列表的过滤条件
type BannerListFilter struct {
	Page      int
	PageSize  int
	StoreID   uint
	IsActive  *bool
	OnlyValid bool
	Now       time.Time
}

// CouponListFilter 优惠券列表筛选
type CouponListFilter struct {
	Page     int
	PageSize int
	StoreID  uint
	Code     string
	IsActive *bool
}

// KitListFilter 套装列表筛选
type KitListFilter struct {
	Page       int
	PageSize   int
	StoreID    uint
	OnlyActive bool
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	StoreID     uint
	Status      string
	OrderNo     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// AdminAuditLogListFilter 查询后台审计日志列表的过滤条件
type AdminAuditLogListFilter struct {
	Page            int
	PageSize        int
	OperatorAdminID uint
	Action          string
	TargetType      string
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
}
