package service

import (
	"strings"

	"github.com/vitrine-next/internal/models"
	"github.com/vitrine-next/internal/repository"
)

// CategoryService 分类业务服务
type CategoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// CreateCategoryInput 创建/更新分类输入
type CreateCategoryInput struct {
	Name      string
	Slug      string
	SortOrder int
}

// List 获取店铺分类列表
func (s *CategoryService) List(storeID uint) ([]models.Category, error) {
	return s.repo.List(storeID)
}

// Create 创建分类
func (s *CategoryService) Create(storeID uint, input CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	slug, err := NormalizeSlug(input.Slug)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountBySlug(storeID, slug, 0)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugExists
	}

	category := models.Category{
		StoreID:   storeID,
		Name:      name,
		Slug:      slug,
		SortOrder: input.SortOrder,
	}
	if err := s.repo.Create(&category); err != nil {
		return nil, err
	}
	return &category, nil
}

// Update 更新分类
func (s *CategoryService) Update(storeID, id uint, input CreateCategoryInput) (*models.Category, error) {
	category, err := s.repo.GetByID(storeID, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	slug, err := NormalizeSlug(input.Slug)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountBySlug(storeID, slug, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugExists
	}

	category.Name = name
	category.Slug = slug
	category.SortOrder = input.SortOrder
	if err := s.repo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete 删除分类（仍有商品时拒绝）
func (s *CategoryService) Delete(storeID, id uint) error {
	category, err := s.repo.GetByID(storeID, id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}

	count, err := s.repo.CountProducts(storeID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	return s.repo.Delete(storeID, id)
}
