// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/miastore/storefront/internal/catalog"
	"github.com/miastore/storefront/internal/models"
	"github.com/miastore/storefront/internal/utils"
)

var ErrCategoryNotFound = errors.New("category not found")

// ProductService is the catalog collaborator: it loads the active catalog
// into memory and derives filtered, sorted views with catalog.Apply. The
// storefront's catalog is small enough that the derived view is recomputed
// from scratch per request.
type ProductService struct {
	db *gorm.DB
}

type ProductSearchParams struct {
	utils.PaginationParams
	Filter  catalog.FilterSpec
	SortKey catalog.SortKey
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// activeCatalog loads the full active catalog the pipeline runs over.
func (s *ProductService) activeCatalog() ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Where("status = ?", models.ProductStatusActive).
		Preload("Category").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return products, nil
}

func (s *ProductService) SearchProducts(params ProductSearchParams) ([]models.Product, int64, error) {
	products, err := s.activeCatalog()
	if err != nil {
		return nil, 0, err
	}

	view := catalog.Apply(products, params.Filter, params.SortKey)
	page := utils.PageSlice(view, params.PaginationParams)

	return page, int64(len(view)), nil
}

func (s *ProductService) GetProduct(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Category").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

// GetActiveProduct narrows the lookup to purchasable products; the cart
// host resolves items through it.
func (s *ProductService) GetActiveProduct(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.Where("status = ?", models.ProductStatusActive).
		First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *ProductService) GetProductBySlug(slug string) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Category").
		Where("slug = ?", slug).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *ProductService) GetPopularProducts(limit int) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Where("status = ?", models.ProductStatusActive).
		Order("rating DESC, review_count DESC").
		Limit(limit).
		Preload("Category").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch popular products: %w", err)
	}
	return products, nil
}

func (s *ProductService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Where("is_active = ?", true).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

func (s *ProductService) GetCategoryBySlug(slug string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("slug = ? AND is_active = ?", slug, true).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &category, nil
}
