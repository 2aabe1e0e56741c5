// internal/payment/provider.go

// Package payment implements the third-party payment redirect flow: the
// storefront hands the shopper a provider-hosted URL and later verifies
// the signed callback the provider redirects back with.
package payment

import (
	"context"
	"time"
)

// Request carries what a provider needs to build a redirect URL.
type Request struct {
	OrderNumber string
	Amount      float64
	Description string
	ReturnURL   string
	ClientIP    string
}

// Result is the provider-agnostic outcome of a verified callback.
type Result struct {
	Success       bool
	OrderNumber   string
	TransactionID string
	Amount        float64
	PaidAt        time.Time
	Message       string
}

// Provider builds redirect URLs and verifies provider callbacks. Callback
// parameters arrive as the flat query-string map the provider redirects
// back with.
type Provider interface {
	PaymentURL(ctx context.Context, req Request) (string, error)
	VerifyCallback(params map[string]string) (Result, error)
}
