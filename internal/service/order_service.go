package service

import (
	"sort"
	"strings"
	"time"

	"github.com/vitrine-next/internal/constants"
	"github.com/vitrine-next/internal/logger"
	"github.com/vitrine-next/internal/models"
	"github.com/vitrine-next/internal/repository"

	"gorm.io/gorm"
)

// orderTransitions 商户可执行的订单状态流转
var orderTransitions = map[string][]string{
	constants.OrderStatusPending:   {constants.OrderStatusConfirmed, constants.OrderStatusCanceled},
	constants.OrderStatusConfirmed: {constants.OrderStatusCompleted, constants.OrderStatusCanceled},
}

// IsOrderTransitionAllowed 判断状态流转是否合法
func IsOrderTransitionAllowed(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderService 订单服务（商户后台与后台任务）
type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	kitRepo     repository.KitRepository
	now         func() time.Time
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, kitRepo repository.KitRepository) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		kitRepo:     kitRepo,
		now:         time.Now,
	}
}

// List 商户订单列表
func (s *OrderService) List(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	filter.Status = strings.TrimSpace(filter.Status)
	filter.OrderNo = strings.TrimSpace(filter.OrderNo)
	return s.orderRepo.List(filter)
}

// Get 商户订单详情
func (s *OrderService) Get(storeID, id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(storeID, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// UpdateStatus 商户更新订单状态；确认时扣减库存
func (s *OrderService) UpdateStatus(storeID, id uint, target string) (*models.Order, error) {
	target = strings.TrimSpace(target)
	order, err := s.Get(storeID, id)
	if err != nil {
		return nil, err
	}
	if !IsOrderTransitionAllowed(order.Status, target) {
		return nil, ErrOrderStatusInvalid
	}

	now := s.now()
	updates := map[string]interface{}{}
	switch target {
	case constants.OrderStatusConfirmed:
		updates["confirmed_at"] = now
	case constants.OrderStatusCompleted:
		updates["completed_at"] = now
	case constants.OrderStatusCanceled:
		updates["canceled_at"] = now
	}

	var demand map[uint]int
	if target == constants.OrderStatusConfirmed {
		if demand, err = s.stockDemand(order); err != nil {
			return nil, err
		}
	}

	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		affected, err := s.orderRepo.WithTx(tx).UpdateStatusFrom(order.ID, order.Status, target, updates)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrOrderStatusConflict
		}
		if target != constants.OrderStatusConfirmed {
			return nil
		}
		return s.consumeStock(tx, order, demand)
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("order_status_updated",
		"store_id", order.StoreID,
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"from", order.Status,
		"to", target,
	)
	return s.Get(storeID, id)
}

// consumeStock 按订单明细扣减限库存商品，任一不足则整体回滚
func (s *OrderService) consumeStock(tx *gorm.DB, order *models.Order, demand map[uint]int) error {
	if len(demand) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(demand))
	for id := range demand {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	productRepo := s.productRepo.WithTx(tx)
	products, err := productRepo.ListByIDs(order.StoreID, ids)
	if err != nil {
		return err
	}
	for _, product := range products {
		if !product.TrackStock {
			continue
		}
		affected, err := productRepo.ConsumeStock(product.ID, demand[product.ID])
		if err != nil {
			return err
		}
		if affected == 0 {
			logger.Warnw("order_stock_insufficient",
				"order_id", order.ID,
				"product_id", product.ID,
				"required", demand[product.ID],
				"stock", product.Stock,
			)
			return ErrOrderStockInsufficient
		}
	}
	return nil
}

// stockDemand 汇总订单对每个商品的需求量（套装展开为成员商品）
func (s *OrderService) stockDemand(order *models.Order) (map[uint]int, error) {
	demand := make(map[uint]int)
	for _, item := range order.Items {
		switch item.Kind {
		case constants.OrderItemKindKit:
			if item.KitID == nil {
				continue
			}
			kit, err := s.kitRepo.GetByID(order.StoreID, *item.KitID, false)
			if err != nil {
				return nil, err
			}
			if kit == nil {
				continue
			}
			for _, member := range kit.Items {
				demand[member.ProductID] += member.Quantity * item.Quantity
			}
		default:
			if item.ProductID == nil {
				continue
			}
			demand[*item.ProductID] += item.Quantity
		}
	}
	return demand, nil
}

// MarkNotified 记录商户已收到新订单通知，返回是否首次写入
func (s *OrderService) MarkNotified(orderID uint) (*models.Order, bool, error) {
	order, err := s.orderRepo.GetByID(0, orderID)
	if err != nil {
		return nil, false, err
	}
	if order == nil {
		return nil, false, ErrOrderNotFound
	}
	affected, err := s.orderRepo.MarkNotified(order.ID, s.now())
	if err != nil {
		return nil, false, err
	}
	return order, affected > 0, nil
}

// ListUnnotified 查询超过宽限期仍未通知的待处理订单
func (s *OrderService) ListUnnotified(grace time.Duration, limit int) ([]models.Order, error) {
	return s.orderRepo.ListUnnotified(s.now().Add(-grace), limit)
}
