// internal/services/wishlist_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/miastore/storefront/internal/models"
)

var ErrWishlistItemNotFound = errors.New("wishlist item not found")

type WishlistService struct {
	db *gorm.DB
}

func NewWishlistService(db *gorm.DB) *WishlistService {
	return &WishlistService{db: db}
}

// AddItem is idempotent: re-adding a product returns the existing entry.
func (s *WishlistService) AddItem(userID, productID uuid.UUID) (*models.WishlistItem, error) {
	var product models.Product
	if err := s.db.Where("status = ?", models.ProductStatusActive).
		First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var existing models.WishlistItem
	err := s.db.Where("user_id = ? AND product_id = ?", userID, productID).
		Preload("Product").First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	item := &models.WishlistItem{
		UserID:    userID,
		ProductID: productID,
	}
	if err := s.db.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to add wishlist item: %w", err)
	}

	item.Product = product
	return item, nil
}

func (s *WishlistService) RemoveItem(userID, itemID uuid.UUID) error {
	result := s.db.Where("user_id = ?", userID).Delete(&models.WishlistItem{}, itemID)
	if result.Error != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrWishlistItemNotFound
	}
	return nil
}

func (s *WishlistService) GetWishlist(userID uuid.UUID) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Preload("Product").Preload("Product.Category").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch wishlist: %w", err)
	}
	return items, nil
}

func (s *WishlistService) Contains(userID, productID uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.Model(&models.WishlistItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("database error: %w", err)
	}
	return count > 0, nil
}
