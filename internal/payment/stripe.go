// internal/payment/stripe.go
package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"
)

// Stripe runs the same redirect flow through a hosted Checkout Session:
// the session URL is the redirect target and the callback is verified by
// fetching the session back from Stripe.
type Stripe struct {
	currency string
}

func NewStripe(secretKey string) *Stripe {
	stripe.Key = secretKey
	return &Stripe{currency: string(stripe.CurrencyUSD)}
}

func (p *Stripe) PaymentURL(_ context.Context, req Request) (string, error) {
	if req.OrderNumber == "" {
		return "", errors.New("order number is required")
	}
	if req.Amount <= 0 {
		return "", errors.New("amount must be positive")
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.ReturnURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(req.ReturnURL + "?cancelled=1"),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(p.currency),
					UnitAmount: stripe.Int64(int64(req.Amount * 100)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
				},
			},
		},
		ClientReferenceID: stripe.String(req.OrderNumber),
	}

	s, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	return s.URL, nil
}

func (p *Stripe) VerifyCallback(params map[string]string) (Result, error) {
	sessionID := params["session_id"]
	if sessionID == "" {
		return Result{}, errors.New("missing session_id")
	}

	s, err := session.Get(sessionID, nil)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch checkout session: %w", err)
	}

	result := Result{
		OrderNumber:   s.ClientReferenceID,
		TransactionID: s.ID,
		Amount:        float64(s.AmountTotal) / 100,
	}

	if s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid {
		result.Success = true
		result.PaidAt = time.Now()
		result.Message = "Payment successful"
	} else {
		result.Message = "Payment not completed"
	}

	return result, nil
}
