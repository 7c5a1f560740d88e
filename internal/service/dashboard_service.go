package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vitrine-next/internal/cache"
	"github.com/vitrine-next/internal/repository"
)

const (
	dashboardCacheTTL       = 45 * time.Second
	dashboardCustomMaxDays  = 90
	dashboardTopProductsMax = 10
)

// DashboardService 仪表盘服务
// 说明：店铺维度供商户后台使用，storeID 为 0 时为平台维度。
type DashboardService struct {
	repo repository.DashboardRepository
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(repo repository.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// DashboardQueryInput 仪表盘查询输入
type DashboardQueryInput struct {
	Range        string
	From         *time.Time
	To           *time.Time
	Timezone     string
	ForceRefresh bool
}

// StoreDashboardResponse 店铺仪表盘
type StoreDashboardResponse struct {
	Range       string                    `json:"range"`
	From        string                    `json:"from"`
	To          string                    `json:"to"`
	Timezone    string                    `json:"timezone"`
	KPI         StoreDashboardKPI         `json:"kpi"`
	Points      []DashboardTrendPoint     `json:"points"`
	TopProducts []DashboardProductRanking `json:"top_products"`
}

// StoreDashboardKPI 店铺核心指标
type StoreDashboardKPI struct {
	OrdersTotal     int64  `json:"orders_total"`
	PendingOrders   int64  `json:"pending_orders"`
	ConfirmedOrders int64  `json:"confirmed_orders"`
	CompletedOrders int64  `json:"completed_orders"`
	CanceledOrders  int64  `json:"canceled_orders"`
	Revenue         string `json:"revenue"`
	AverageTicket   string `json:"average_ticket"`
	ItemsSold       int64  `json:"items_sold"`
	ActiveProducts  int64  `json:"active_products"`
}

// DashboardTrendPoint 趋势点
type DashboardTrendPoint struct {
	Date        string `json:"date"`
	OrdersTotal int64  `json:"orders_total"`
	Revenue     string `json:"revenue"`
}

// DashboardProductRanking 商品排行项
type DashboardProductRanking struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	Amount    string `json:"amount"`
}

// PlatformDashboardResponse 平台仪表盘
type PlatformDashboardResponse struct {
	Range           string                `json:"range"`
	From            string                `json:"from"`
	To              string                `json:"to"`
	Timezone        string                `json:"timezone"`
	StoresTotal     int64                 `json:"stores_total"`
	ActiveStores    int64                 `json:"active_stores"`
	SuspendedStores int64                 `json:"suspended_stores"`
	NewStores       int64                 `json:"new_stores"`
	OrdersTotal     int64                 `json:"orders_total"`
	GMV             string                `json:"gmv"`
	Points          []DashboardTrendPoint `json:"points"`
}

type dashboardWindow struct {
	rangeKey string
	startAt  time.Time
	endAt    time.Time
	timezone string
}

// GetStoreDashboard 获取店铺仪表盘
func (s *DashboardService) GetStoreDashboard(ctx context.Context, storeID uint, input DashboardQueryInput) (*StoreDashboardResponse, error) {
	if s == nil || s.repo == nil {
		return &StoreDashboardResponse{}, nil
	}
	window, err := resolveDashboardWindow(input, time.Now())
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("dashboard:store:%d:%s:%d:%d:%s", storeID, window.rangeKey, window.startAt.Unix(), window.endAt.Unix(), window.timezone)
	if !input.ForceRefresh {
		var cached StoreDashboardResponse
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	overview, err := s.repo.GetStoreOverview(storeID, window.startAt, window.endAt)
	if err != nil {
		return nil, err
	}
	points, err := s.trendPoints(storeID, window)
	if err != nil {
		return nil, err
	}
	productRows, err := s.repo.GetTopProducts(storeID, window.startAt, window.endAt, dashboardTopProductsMax)
	if err != nil {
		return nil, err
	}
	products := make([]DashboardProductRanking, 0, len(productRows))
	for _, item := range productRows {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			name = "-"
		}
		products = append(products, DashboardProductRanking{
			ProductID: item.ProductID,
			Name:      name,
			Quantity:  item.Quantity,
			Amount:    formatMoneyValue(item.Amount),
		})
	}

	paidOrders := overview.ConfirmedOrders + overview.CompletedOrders
	averageTicket := 0.0
	if paidOrders > 0 {
		averageTicket = overview.Revenue / float64(paidOrders)
	}

	response := &StoreDashboardResponse{
		Range:    window.rangeKey,
		From:     window.startAt.Format(time.RFC3339),
		To:       window.endAt.Add(-time.Second).Format(time.RFC3339),
		Timezone: window.timezone,
		KPI: StoreDashboardKPI{
			OrdersTotal:     overview.OrdersTotal,
			PendingOrders:   overview.PendingOrders,
			ConfirmedOrders: overview.ConfirmedOrders,
			CompletedOrders: overview.CompletedOrders,
			CanceledOrders:  overview.CanceledOrders,
			Revenue:         formatMoneyValue(overview.Revenue),
			AverageTicket:   formatMoneyValue(averageTicket),
			ItemsSold:       overview.ItemsSold,
			ActiveProducts:  overview.ActiveProducts,
		},
		Points:      points,
		TopProducts: products,
	}
	_ = cache.SetJSON(ctx, cacheKey, response, dashboardCacheTTL)
	return response, nil
}

// GetPlatformDashboard 获取平台仪表盘
func (s *DashboardService) GetPlatformDashboard(ctx context.Context, input DashboardQueryInput) (*PlatformDashboardResponse, error) {
	if s == nil || s.repo == nil {
		return &PlatformDashboardResponse{}, nil
	}
	window, err := resolveDashboardWindow(input, time.Now())
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("dashboard:platform:%s:%d:%d:%s", window.rangeKey, window.startAt.Unix(), window.endAt.Unix(), window.timezone)
	if !input.ForceRefresh {
		var cached PlatformDashboardResponse
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	overview, err := s.repo.GetPlatformOverview(window.startAt, window.endAt)
	if err != nil {
		return nil, err
	}
	points, err := s.trendPoints(0, window)
	if err != nil {
		return nil, err
	}
	response := &PlatformDashboardResponse{
		Range:           window.rangeKey,
		From:            window.startAt.Format(time.RFC3339),
		To:              window.endAt.Add(-time.Second).Format(time.RFC3339),
		Timezone:        window.timezone,
		StoresTotal:     overview.StoresTotal,
		ActiveStores:    overview.ActiveStores,
		SuspendedStores: overview.SuspendedStores,
		NewStores:       overview.NewStores,
		OrdersTotal:     overview.OrdersTotal,
		GMV:             formatMoneyValue(overview.GMV),
		Points:          points,
	}
	_ = cache.SetJSON(ctx, cacheKey, response, dashboardCacheTTL)
	return response, nil
}

// trendPoints 按天补齐趋势点
func (s *DashboardService) trendPoints(storeID uint, window dashboardWindow) ([]DashboardTrendPoint, error) {
	rows, err := s.repo.GetOrderTrends(storeID, window.startAt, window.endAt)
	if err != nil {
		return nil, err
	}
	rowMap := make(map[string]repository.DashboardOrderTrendRow, len(rows))
	for _, item := range rows {
		rowMap[item.Day] = item
	}

	points := make([]DashboardTrendPoint, 0)
	for cursor := time.Date(window.startAt.Year(), window.startAt.Month(), window.startAt.Day(), 0, 0, 0, 0, window.startAt.Location()); cursor.Before(window.endAt); cursor = cursor.AddDate(0, 0, 1) {
		day := cursor.Format("2006-01-02")
		item := rowMap[day]
		points = append(points, DashboardTrendPoint{
			Date:        day,
			OrdersTotal: item.OrdersTotal,
			Revenue:     formatMoneyValue(item.Revenue),
		})
	}
	return points, nil
}

func resolveDashboardWindow(input DashboardQueryInput, now time.Time) (dashboardWindow, error) {
	rangeKey := strings.ToLower(strings.TrimSpace(input.Range))
	if rangeKey == "" {
		rangeKey = "7d"
	}

	timezone := strings.TrimSpace(input.Timezone)
	location := time.Local
	if timezone != "" {
		if parsed, err := time.LoadLocation(timezone); err == nil {
			location = parsed
		} else {
			timezone = ""
		}
	}
	if timezone == "" {
		timezone = location.String()
	}

	localNow := now.In(location)
	todayStart := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, location)
	window := dashboardWindow{rangeKey: rangeKey, timezone: timezone}

	switch rangeKey {
	case "today":
		window.startAt = todayStart
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "7d":
		window.startAt = todayStart.AddDate(0, 0, -6)
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "30d":
		window.startAt = todayStart.AddDate(0, 0, -29)
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "custom":
		if input.From == nil || input.To == nil {
			return dashboardWindow{}, ErrDashboardRangeInvalid
		}
		startAt := input.From.In(location)
		endAt := input.To.In(location)
		if endAt.Before(startAt) {
			return dashboardWindow{}, ErrDashboardRangeInvalid
		}
		if endAt.Sub(startAt) > time.Hour*24*dashboardCustomMaxDays {
			return dashboardWindow{}, ErrDashboardRangeInvalid
		}
		window.startAt = startAt
		window.endAt = endAt.Add(time.Second)
	default:
		return dashboardWindow{}, ErrDashboardRangeInvalid
	}

	if !window.endAt.After(window.startAt) {
		return dashboardWindow{}, ErrDashboardRangeInvalid
	}
	return window, nil
}

func formatMoneyValue(value float64) string {
	return fmt.Sprintf("%.2f", value)
}
