package service

import (
	"strings"

	"github.com/vitrine-next/internal/models"
	"github.com/vitrine-next/internal/repository"

	"github.com/shopspring/decimal"
)

// KitService 组合套装服务
type KitService struct {
	repo        repository.KitRepository
	productRepo repository.ProductRepository
}

// NewKitService 创建套装服务
func NewKitService(repo repository.KitRepository, productRepo repository.ProductRepository) *KitService {
	return &KitService{
		repo:        repo,
		productRepo: productRepo,
	}
}

// KitItemInput 套装明细输入
type KitItemInput struct {
	ProductID uint
	Quantity  int
}

// CreateKitInput 创建/更新套装输入
type CreateKitInput struct {
	Name        string
	Description string
	Image       string
	Price       decimal.Decimal
	IsActive    *bool
	SortOrder   int
	Items       []KitItemInput
}

// ListPublic 前台上架套装
func (s *KitService) ListPublic(storeID uint) ([]models.Kit, error) {
	kits, _, err := s.repo.List(repository.KitListFilter{StoreID: storeID, OnlyActive: true})
	return kits, err
}

// List 商户后台套装列表
func (s *KitService) List(filter repository.KitListFilter) ([]models.Kit, int64, error) {
	return s.repo.List(filter)
}

// Get 获取套装
func (s *KitService) Get(storeID, id uint, onlyActive bool) (*models.Kit, error) {
	kit, err := s.repo.GetByID(storeID, id, onlyActive)
	if err != nil {
		return nil, err
	}
	if kit == nil {
		return nil, ErrKitNotFound
	}
	return kit, nil
}

// Create 创建套装
func (s *KitService) Create(storeID uint, input CreateKitInput) (*models.Kit, error) {
	kit := &models.Kit{StoreID: storeID, IsActive: true}
	if err := s.apply(storeID, kit, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(kit); err != nil {
		return nil, err
	}
	return s.Get(storeID, kit.ID, false)
}

// Update 更新套装
func (s *KitService) Update(storeID, id uint, input CreateKitInput) (*models.Kit, error) {
	kit, err := s.Get(storeID, id, false)
	if err != nil {
		return nil, err
	}
	if err := s.apply(storeID, kit, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(kit); err != nil {
		return nil, err
	}
	return s.Get(storeID, id, false)
}

// Delete 删除套装
func (s *KitService) Delete(storeID, id uint) error {
	if _, err := s.Get(storeID, id, false); err != nil {
		return err
	}
	return s.repo.Delete(storeID, id)
}

func (s *KitService) apply(storeID uint, kit *models.Kit, input CreateKitInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ErrInvalidInput
	}
	if !input.Price.IsPositive() {
		return ErrKitPriceInvalid
	}
	if len(input.Items) == 0 {
		return ErrKitItemsInvalid
	}

	quantities := make(map[uint]int, len(input.Items))
	order := make([]uint, 0, len(input.Items))
	for _, item := range input.Items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return ErrKitItemsInvalid
		}
		if _, ok := quantities[item.ProductID]; !ok {
			order = append(order, item.ProductID)
		}
		quantities[item.ProductID] += item.Quantity
	}
	products, err := s.productRepo.ListByIDs(storeID, order)
	if err != nil {
		return err
	}
	if len(products) != len(order) {
		return ErrKitItemsInvalid
	}

	items := make([]models.KitItem, 0, len(order))
	for _, productID := range order {
		items = append(items, models.KitItem{
			ProductID: productID,
			Quantity:  quantities[productID],
		})
	}

	kit.Name = name
	kit.Description = strings.TrimSpace(input.Description)
	kit.Image = strings.TrimSpace(input.Image)
	kit.Price = models.NewMoneyFromDecimal(input.Price)
	if input.IsActive != nil {
		kit.IsActive = *input.IsActive
	}
	kit.SortOrder = input.SortOrder
	kit.Items = items
	return nil
}
