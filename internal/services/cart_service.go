// internal/services/cart_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/miastore/storefront/internal/cart"
	"github.com/miastore/storefront/internal/config"
	"github.com/miastore/storefront/internal/models"
	"github.com/miastore/storefront/internal/utils"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrCartEmpty         = errors.New("cart is empty")
)

// ProductGetter resolves a product id to a purchasable product. The cart
// host goes through it instead of holding a database handle of its own.
type ProductGetter interface {
	GetActiveProduct(id uuid.UUID) (*models.Product, error)
}

// CartService is the host around the cart store: it restores a shopper's
// lines from storage, applies one operation, persists the result, and
// returns the derived snapshot. The stock clamp lives here, not in the
// store itself.
type CartService struct {
	products ProductGetter
	storage  CartStorage
	cartCfg  cart.Config
}

type AddItemRequest struct {
	ProductID     uuid.UUID `json:"product_id" validate:"required"`
	Quantity      int       `json:"quantity" validate:"required,min=1"`
	SelectedSize  string    `json:"selected_size,omitempty"`
	SelectedColor string    `json:"selected_color,omitempty"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type UpdateVariantsRequest struct {
	SelectedSize  *string `json:"selected_size,omitempty"`
	SelectedColor *string `json:"selected_color,omitempty"`
}

func NewCartService(products ProductGetter, storage CartStorage, cfg config.CartConfig) *CartService {
	return &CartService{
		products: products,
		storage:  storage,
		cartCfg:  cart.Config{
			FreeShippingThreshold: cfg.FreeShippingThreshold,
			ShippingFee:           cfg.ShippingFee,
		},
	}
}

// load restores the shopper's store from the persistence collaborator.
func (s *CartService) load(ctx context.Context, userID string) (*cart.Store, error) {
	lines, err := s.storage.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	store := cart.NewStore(s.cartCfg)
	store.Replace(lines)
	return store, nil
}

// persist writes the full line list back after a mutation.
func (s *CartService) persist(ctx context.Context, userID string, store *cart.Store) error {
	return s.storage.Save(ctx, userID, store.Lines())
}

func (s *CartService) GetCart(ctx context.Context, userID string) (cart.Snapshot, error) {
	store, err := s.load(ctx, userID)
	if err != nil {
		return cart.Snapshot{}, err
	}
	return store.Snapshot(), nil
}

func (s *CartService) AddItem(ctx context.Context, userID string, req *AddItemRequest) (cart.Snapshot, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return cart.Snapshot{}, fmt.Errorf("validation failed: %w", err)
	}

	product, err := s.products.GetActiveProduct(req.ProductID)
	if err != nil {
		return cart.Snapshot{}, err
	}
	if !product.InStock() {
		return cart.Snapshot{}, ErrInsufficientStock
	}

	store, err := s.load(ctx, userID)
	if err != nil {
		return cart.Snapshot{}, err
	}

	// Advisory stock clamp. Summed over every variant line of the
	// product, not just the first one an id lookup would see.
	inCart := 0
	for _, line := range store.Lines() {
		if line.Product.ID == product.ID {
			inCart += line.Quantity
		}
	}
	if inCart+req.Quantity > product.StockQuantity {
		return cart.Snapshot{}, ErrInsufficientStock
	}

	store.AddItem(*product, req.Quantity, req.SelectedSize, req.SelectedColor)

	if err := s.persist(ctx, userID, store); err != nil {
		return cart.Snapshot{}, err
	}
	return store.Snapshot(), nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, lineID string, quantity int) (cart.Snapshot, error) {
	store, err := s.load(ctx, userID)
	if err != nil {
		return cart.Snapshot{}, err
	}

	if quantity > 0 {
		for _, line := range store.Lines() {
			if line.ID == lineID && quantity > line.Product.StockQuantity {
				return cart.Snapshot{}, ErrInsufficientStock
			}
		}
	}

	store.UpdateQuantity(lineID, quantity)

	if err := s.persist(ctx, userID, store); err != nil {
		return cart.Snapshot{}, err
	}
	return store.Snapshot(), nil
}

func (s *CartService) UpdateVariants(ctx context.Context, userID, lineID string, req *UpdateVariantsRequest) (cart.Snapshot, error) {
	store, err := s.load(ctx, userID)
	if err != nil {
		return cart.Snapshot{}, err
	}

	store.UpdateVariants(lineID, req.SelectedSize, req.SelectedColor)

	if err := s.persist(ctx, userID, store); err != nil {
		return cart.Snapshot{}, err
	}
	return store.Snapshot(), nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, lineID string) (cart.Snapshot, error) {
	store, err := s.load(ctx, userID)
	if err != nil {
		return cart.Snapshot{}, err
	}

	store.RemoveItem(lineID)

	if err := s.persist(ctx, userID, store); err != nil {
		return cart.Snapshot{}, err
	}
	return store.Snapshot(), nil
}

func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	return s.storage.Delete(ctx, userID)
}

func (s *CartService) ItemQuantity(ctx context.Context, userID, productID string) (int, error) {
	store, err := s.load(ctx, userID)
	if err != nil {
		return 0, err
	}
	return store.ItemQuantity(productID), nil
}
