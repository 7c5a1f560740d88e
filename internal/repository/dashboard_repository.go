package repository

import (
	"fmt"
	"time"

	"github.com/vitrine-next/internal/constants"
	"github.com/vitrine-next/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 仪表盘聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。storeID 为 0 表示平台全量。
type DashboardRepository interface {
	GetStoreOverview(storeID uint, startAt, endAt time.Time) (DashboardStoreOverviewRow, error)
	GetPlatformOverview(startAt, endAt time.Time) (DashboardPlatformOverviewRow, error)
	GetOrderTrends(storeID uint, startAt, endAt time.Time) ([]DashboardOrderTrendRow, error)
	GetTopProducts(storeID uint, startAt, endAt time.Time, limit int) ([]DashboardProductRankingRow, error)
}

// DashboardStoreOverviewRow 店铺总览原始统计结果
type DashboardStoreOverviewRow struct {
	OrdersTotal     int64
	PendingOrders   int64
	ConfirmedOrders int64
	CompletedOrders int64
	CanceledOrders  int64
	Revenue         float64
	ItemsSold       int64
	ActiveProducts  int64
}

// DashboardPlatformOverviewRow 平台总览原始统计结果
type DashboardPlatformOverviewRow struct {
	StoresTotal     int64
	ActiveStores    int64
	SuspendedStores int64
	NewStores       int64
	OrdersTotal     int64
	GMV             float64
}

// DashboardOrderTrendRow 订单趋势统计
type DashboardOrderTrendRow struct {
	Day         string
	OrdersTotal int64
	Revenue     float64
}

// DashboardProductRankingRow 商品排行原始行
type DashboardProductRankingRow struct {
	ProductID uint
	Name      string
	Quantity  int64
	Amount    float64
}

// GormDashboardRepository GORM 仪表盘聚合实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建仪表盘仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// revenueOrderStatuses 计入营收的订单状态（商户已确认）
func revenueOrderStatuses() []string {
	return []string{
		constants.OrderStatusConfirmed,
		constants.OrderStatusCompleted,
	}
}

func (r *GormDashboardRepository) orderBase(storeID uint, startAt, endAt time.Time) *gorm.DB {
	query := r.db.Model(&models.Order{}).Where("orders.created_at >= ? AND orders.created_at < ?", startAt, endAt)
	if storeID > 0 {
		query = query.Where("orders.store_id = ?", storeID)
	}
	return query
}

// GetStoreOverview 获取店铺总览统计
func (r *GormDashboardRepository) GetStoreOverview(storeID uint, startAt, endAt time.Time) (DashboardStoreOverviewRow, error) {
	result := DashboardStoreOverviewRow{}

	if err := r.orderBase(storeID, startAt, endAt).Count(&result.OrdersTotal).Error; err != nil {
		return result, err
	}
	statusCounts := []struct {
		status string
		target *int64
	}{
		{constants.OrderStatusPending, &result.PendingOrders},
		{constants.OrderStatusConfirmed, &result.ConfirmedOrders},
		{constants.OrderStatusCompleted, &result.CompletedOrders},
		{constants.OrderStatusCanceled, &result.CanceledOrders},
	}
	for _, item := range statusCounts {
		if err := r.orderBase(storeID, startAt, endAt).Where("orders.status = ?", item.status).Count(item.target).Error; err != nil {
			return result, err
		}
	}

	if err := r.orderBase(storeID, startAt, endAt).
		Where("orders.status IN ?", revenueOrderStatuses()).
		Select("COALESCE(SUM(orders.total_amount), 0)").
		Scan(&result.Revenue).Error; err != nil {
		return result, err
	}

	if err := r.orderBase(storeID, startAt, endAt).
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Where("orders.status IN ?", revenueOrderStatuses()).
		Select("COALESCE(SUM(order_items.quantity), 0)").
		Scan(&result.ItemsSold).Error; err != nil {
		return result, err
	}

	productQuery := r.db.Model(&models.Product{}).Where("is_active = ?", true)
	if storeID > 0 {
		productQuery = productQuery.Where("store_id = ?", storeID)
	}
	if err := productQuery.Count(&result.ActiveProducts).Error; err != nil {
		return result, err
	}
	return result, nil
}

// GetPlatformOverview 获取平台总览统计
func (r *GormDashboardRepository) GetPlatformOverview(startAt, endAt time.Time) (DashboardPlatformOverviewRow, error) {
	result := DashboardPlatformOverviewRow{}

	if err := r.db.Model(&models.Store{}).Count(&result.StoresTotal).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Store{}).Where("status = ?", constants.StoreStatusActive).Count(&result.ActiveStores).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Store{}).Where("status = ?", constants.StoreStatusSuspended).Count(&result.SuspendedStores).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Store{}).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Count(&result.NewStores).Error; err != nil {
		return result, err
	}
	if err := r.orderBase(0, startAt, endAt).Count(&result.OrdersTotal).Error; err != nil {
		return result, err
	}
	if err := r.orderBase(0, startAt, endAt).
		Where("orders.status <> ?", constants.OrderStatusCanceled).
		Select("COALESCE(SUM(orders.total_amount), 0)").
		Scan(&result.GMV).Error; err != nil {
		return result, err
	}
	return result, nil
}

// GetOrderTrends 获取按日订单趋势
func (r *GormDashboardRepository) GetOrderTrends(storeID uint, startAt, endAt time.Time) ([]DashboardOrderTrendRow, error) {
	dayExpr := dayBucketExpr(r.db, "orders.created_at")
	revenueStatuses := revenueOrderStatuses()

	rows := make([]DashboardOrderTrendRow, 0)
	if err := r.orderBase(storeID, startAt, endAt).
		Select(fmt.Sprintf(
			"%s as day, COUNT(*) as orders_total, COALESCE(SUM(CASE WHEN orders.status IN (?, ?) THEN orders.total_amount ELSE 0 END), 0) as revenue",
			dayExpr,
		), revenueStatuses[0], revenueStatuses[1]).
		Group(dayExpr).
		Order("day asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetTopProducts 获取销量排行（仅统计已确认订单的商品行）
func (r *GormDashboardRepository) GetTopProducts(storeID uint, startAt, endAt time.Time, limit int) ([]DashboardProductRankingRow, error) {
	if limit <= 0 {
		limit = 5
	}
	rows := make([]DashboardProductRankingRow, 0)
	if err := r.orderBase(storeID, startAt, endAt).
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Where("orders.status IN ?", revenueOrderStatuses()).
		Where("order_items.kind = ? AND order_items.product_id IS NOT NULL", constants.OrderItemKindProduct).
		Select("order_items.product_id as product_id, MAX(order_items.name) as name, SUM(order_items.quantity) as quantity, SUM(order_items.line_total) as amount").
		Group("order_items.product_id").
		Order("quantity desc, product_id asc").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
