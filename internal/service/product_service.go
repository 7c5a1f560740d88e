package service

import (
	"strings"

	"github.com/vitrine-next/internal/models"
	"github.com/vitrine-next/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductService 商品业务服务
type ProductService struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductService {
	return &ProductService{
		repo:         repo,
		categoryRepo: categoryRepo,
	}
}

// CreateProductInput 创建/更新商品输入
type CreateProductInput struct {
	CategoryID     uint
	Name           string
	Slug           string
	Description    string
	Price          decimal.Decimal
	CompareAtPrice decimal.Decimal
	Images         []string
	Sizes          []string
	Colors         []string
	TrackStock     bool
	Stock          int
	IsFeatured     bool
	IsActive       *bool
	SortOrder      int
}

// ListPublic 店铺前台商品列表（仅上架）
func (s *ProductService) ListPublic(storeID, categoryID uint, search string, onlyFeatured bool, page, pageSize int) ([]models.Product, int64, error) {
	return s.repo.List(repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		StoreID:      storeID,
		CategoryID:   categoryID,
		Search:       search,
		OnlyActive:   true,
		OnlyFeatured: onlyFeatured,
		WithCategory: true,
	})
}

// GetPublicBySlug 店铺前台商品详情
func (s *ProductService) GetPublicBySlug(storeID uint, slug string) (*models.Product, error) {
	product, err := s.repo.GetBySlug(storeID, strings.TrimSpace(slug), true)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ListForMerchant 商户后台商品列表
func (s *ProductService) ListForMerchant(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	filter.WithCategory = true
	return s.repo.List(filter)
}

// Get 商户后台商品详情
func (s *ProductService) Get(storeID, id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(storeID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create 创建商品
func (s *ProductService) Create(storeID uint, input CreateProductInput) (*models.Product, error) {
	product := &models.Product{StoreID: storeID, IsActive: true}
	if err := s.apply(storeID, 0, product, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update 更新商品
func (s *ProductService) Update(storeID, id uint, input CreateProductInput) (*models.Product, error) {
	product, err := s.Get(storeID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(storeID, id, product, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete 删除商品
func (s *ProductService) Delete(storeID, id uint) error {
	if _, err := s.Get(storeID, id); err != nil {
		return err
	}
	return s.repo.Delete(storeID, id)
}

func (s *ProductService) apply(storeID, id uint, product *models.Product, input CreateProductInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ErrInvalidInput
	}
	if !input.Price.IsPositive() || input.CompareAtPrice.IsNegative() {
		return ErrInvalidInput
	}
	if input.TrackStock && input.Stock < 0 {
		return ErrInvalidInput
	}
	if !validVariantOptions(input.Sizes) || !validVariantOptions(input.Colors) {
		return ErrInvalidVariant
	}
	slug, err := NormalizeSlug(input.Slug)
	if err != nil {
		return err
	}
	category, err := s.categoryRepo.GetByID(storeID, input.CategoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	count, err := s.repo.CountBySlug(storeID, slug, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugExists
	}

	product.CategoryID = category.ID
	product.Name = name
	product.Slug = slug
	product.Description = strings.TrimSpace(input.Description)
	product.Price = models.NewMoneyFromDecimal(input.Price)
	product.CompareAtPrice = models.NewMoneyFromDecimal(input.CompareAtPrice)
	product.Images = models.StringArray(compactOptions(input.Images))
	product.Sizes = models.StringArray(compactOptions(input.Sizes))
	product.Colors = models.StringArray(compactOptions(input.Colors))
	product.TrackStock = input.TrackStock
	product.Stock = 0
	if input.TrackStock {
		product.Stock = input.Stock
	}
	product.IsFeatured = input.IsFeatured
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	product.SortOrder = input.SortOrder
	return nil
}

// compactOptions 去除空白与重复项，保留原有顺序
// validVariantOptions 规格值会出现在购物车行标识与 URL 中，不允许分隔符
func validVariantOptions(values []string) bool {
	for _, value := range values {
		if strings.ContainsAny(value, ":%/") {
			return false
		}
	}
	return true
}

func compactOptions(values []string) []string {
	result := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, raw := range values {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		key := strings.ToLower(value)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, value)
	}
	return result
}
