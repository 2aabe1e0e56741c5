// internal/services/payment_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/miastore/storefront/internal/config"
	"github.com/miastore/storefront/internal/models"
	"github.com/miastore/storefront/internal/payment"
	"github.com/miastore/storefront/internal/utils"
)

var ErrOrderAlreadyPaid = errors.New("order is already paid")

// PaymentService drives the redirect flow: it hands out provider URLs for
// pending orders and books the provider callback result onto the order.
type PaymentService struct {
	db       *gorm.DB
	orders   *OrderService
	provider payment.Provider
}

type CreatePaymentRequest struct {
	OrderNumber string `json:"order_number" validate:"required"`
	ReturnURL   string `json:"return_url" validate:"required,url"`
}

type CreatePaymentResponse struct {
	PaymentURL string `json:"payment_url"`
}

type PaymentCallbackResponse struct {
	Success     bool   `json:"success"`
	OrderNumber string `json:"order_number,omitempty"`
	Message     string `json:"message"`
}

func NewPaymentService(db *gorm.DB, orders *OrderService, cfg *config.Config) *PaymentService {
	var provider payment.Provider
	switch cfg.Payment.Provider {
	case "stripe":
		provider = payment.NewStripe(cfg.Payment.StripeSecretKey)
	default:
		provider = payment.NewVNPay(payment.VNPayConfig{
			TmnCode:    cfg.Payment.VNPayTmnCode,
			SecretKey:  cfg.Payment.VNPaySecretKey,
			GatewayURL: cfg.Payment.VNPayURL,
			ReturnURL:  cfg.Payment.VNPayReturnURL,
		})
	}

	return &PaymentService{
		db:       db,
		orders:   orders,
		provider: provider,
	}
}

func (s *PaymentService) CreatePayment(ctx context.Context, userID uuid.UUID, req *CreatePaymentRequest, clientIP string) (*CreatePaymentResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var order models.Order
	if err := s.db.Where("order_number = ? AND user_id = ?", req.OrderNumber, userID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if order.PaymentStatus == models.PaymentStatusPaid {
		return nil, ErrOrderAlreadyPaid
	}

	paymentURL, err := s.provider.PaymentURL(ctx, payment.Request{
		OrderNumber: order.OrderNumber,
		Amount:      order.Total,
		Description: "Order " + order.OrderNumber,
		ReturnURL:   req.ReturnURL,
		ClientIP:    clientIP,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build payment url: %w", err)
	}

	return &CreatePaymentResponse{PaymentURL: paymentURL}, nil
}

// HandleCallback verifies the provider's redirect parameters and books the
// outcome onto the order. Verification failures are surfaced; a verified
// failure result marks the order's payment as failed.
func (s *PaymentService) HandleCallback(_ context.Context, params map[string]string) (*PaymentCallbackResponse, error) {
	result, err := s.provider.VerifyCallback(params)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.GetOrderByNumber(result.OrderNumber)
	if err != nil {
		return nil, err
	}

	// Callback retries after a successful payment are acknowledged, not
	// re-applied
	if order.PaymentStatus == models.PaymentStatusPaid {
		return &PaymentCallbackResponse{
			Success:     true,
			OrderNumber: order.OrderNumber,
			Message:     "Payment already recorded",
		}, nil
	}

	if result.Success {
		paidAt := result.PaidAt
		if paidAt.IsZero() {
			paidAt = time.Now()
		}
		order.PaymentStatus = models.PaymentStatusPaid
		order.Status = models.OrderStatusConfirmed
		order.PaymentReference = result.TransactionID
		order.PaidAt = &paidAt
	} else {
		order.PaymentStatus = models.PaymentStatusFailed
	}

	if err := s.db.Save(order).Error; err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"success":      result.Success,
		"reference":    result.TransactionID,
	}).Info("Payment callback processed")

	return &PaymentCallbackResponse{
		Success:     result.Success,
		OrderNumber: order.OrderNumber,
		Message:     result.Message,
	}, nil
}
