// internal/services/order_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/miastore/storefront/internal/models"
	"github.com/miastore/storefront/internal/utils"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderService is the checkout collaborator: it turns the cart's derived
// line list and totals into an order, adjusts stock, and clears the cart.
type OrderService struct {
	db          *gorm.DB
	cartService *CartService
}

type ShippingInfo struct {
	Name       string `json:"shipping_name" validate:"required"`
	Phone      string `json:"shipping_phone" validate:"required,phone"`
	Address    string `json:"shipping_address" validate:"required"`
	City       string `json:"shipping_city" validate:"required"`
	PostalCode string `json:"shipping_postal_code,omitempty"`
}

type CreateOrderRequest struct {
	Shipping ShippingInfo `json:"shipping_info" validate:"required"`
	Notes    string       `json:"notes,omitempty"`
}

func NewOrderService(db *gorm.DB, cartService *CartService) *OrderService {
	return &OrderService{
		db:          db,
		cartService: cartService,
	}
}

func generateOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}

// CreateOrder builds an order from the current cart snapshot. Unit prices
// are denormalized from the catalog at checkout time; the cart's derived
// shipping and totals are taken as-is.
func (s *OrderService) CreateOrder(ctx context.Context, userID uuid.UUID, req *CreateOrderRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	snapshot, err := s.cartService.GetCart(ctx, userID.String())
	if err != nil {
		return nil, err
	}
	if len(snapshot.Lines) == 0 {
		return nil, ErrCartEmpty
	}

	order := &models.Order{
		UserID:             userID,
		OrderNumber:        generateOrderNumber(),
		Status:             models.OrderStatusPending,
		PaymentStatus:      models.PaymentStatusPending,
		ShippingName:       req.Shipping.Name,
		ShippingPhone:      req.Shipping.Phone,
		ShippingAddress:    req.Shipping.Address,
		ShippingCity:       req.Shipping.City,
		ShippingPostalCode: req.Shipping.PostalCode,
		Subtotal:           snapshot.Subtotal,
		ShippingFee:        snapshot.Shipping,
		Total:              snapshot.Total,
		Notes:              req.Notes,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, line := range snapshot.Lines {
			var product models.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, line.Product.ID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProductNotFound
				}
				return fmt.Errorf("database error: %w", err)
			}

			if product.Status != models.ProductStatusActive {
				return fmt.Errorf("product %s is no longer available", product.Name)
			}
			if product.StockQuantity < line.Quantity {
				return fmt.Errorf("%w for product %s", ErrInsufficientStock, product.Name)
			}

			unitPrice := product.EffectivePrice()
			order.Items = append(order.Items, models.OrderItem{
				ProductID:     product.ID,
				ProductName:   product.Name,
				ProductSKU:    product.SKU,
				SelectedSize:  line.SelectedSize,
				SelectedColor: line.SelectedColor,
				Quantity:      line.Quantity,
				UnitPrice:     unitPrice,
				TotalPrice:    unitPrice * float64(line.Quantity),
			})

			if err := tx.Model(&product).UpdateColumn("stock_quantity",
				gorm.Expr("stock_quantity - ?", line.Quantity)).Error; err != nil {
				return fmt.Errorf("failed to update stock: %w", err)
			}
		}

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// The checkout consumed the cart
	if err := s.cartService.ClearCart(ctx, userID.String()); err != nil {
		return nil, fmt.Errorf("order %s created but cart not cleared: %w", order.OrderNumber, err)
	}

	return order, nil
}

func (s *OrderService) GetOrders(userID uuid.UUID, params utils.PaginationParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "total", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var orders []models.Order
	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}

func (s *OrderService) GetOrder(userID uuid.UUID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.Where("user_id = ?", userID).
		Preload("Items").Preload("Items.Product").
		First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}

func (s *OrderService) GetOrderByNumber(orderNumber string) (*models.Order, error) {
	var order models.Order
	if err := s.db.Where("order_number = ?", orderNumber).
		Preload("Items").
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}
