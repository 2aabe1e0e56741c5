// internal/payment/vnpay_test.go
package payment

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVNPay() *VNPay {
	p := NewVNPay(VNPayConfig{
		TmnCode:    "MIATEST",
		SecretKey:  "test-secret",
		GatewayURL: "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ReturnURL:  "http://localhost:3000/payment/callback",
	})
	p.now = func() time.Time {
		return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return p
}

func TestPaymentURLCarriesSignedParams(t *testing.T) {
	p := testVNPay()

	raw, err := p.PaymentURL(context.Background(), Request{
		OrderNumber: "ORD-ABCD1234",
		Amount:      150.50,
		Description: "Order ORD-ABCD1234",
		ClientIP:    "203.0.113.7",
	})
	require.NoError(t, err)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	query := parsed.Query()

	assert.Equal(t, "ORD-ABCD1234", query.Get("vnp_TxnRef"))
	assert.Equal(t, "15050", query.Get("vnp_Amount"))
	assert.Equal(t, "20240601120000", query.Get("vnp_CreateDate"))
	assert.Equal(t, "http://localhost:3000/payment/callback", query.Get("vnp_ReturnUrl"))
	assert.NotEmpty(t, query.Get("vnp_SecureHash"))
}

func TestPaymentURLRejectsBadRequests(t *testing.T) {
	p := testVNPay()

	_, err := p.PaymentURL(context.Background(), Request{Amount: 10})
	assert.Error(t, err)

	_, err = p.PaymentURL(context.Background(), Request{OrderNumber: "ORD-X", Amount: 0})
	assert.Error(t, err)
}

// Round trip: a URL we signed must verify as a callback.
func TestVerifyCallbackRoundTrip(t *testing.T) {
	p := testVNPay()

	raw, err := p.PaymentURL(context.Background(), Request{
		OrderNumber: "ORD-ABCD1234",
		Amount:      99.99,
		Description: "Order ORD-ABCD1234",
		ClientIP:    "203.0.113.7",
	})
	require.NoError(t, err)

	parsed, _ := url.Parse(raw)
	params := map[string]string{}
	for k, v := range parsed.Query() {
		params[k] = v[0]
	}
	params["vnp_ResponseCode"] = "00"
	params["vnp_TransactionStatus"] = "00"
	params["vnp_TransactionNo"] = "14422574"
	params["vnp_PayDate"] = "20240601120500"

	// Response fields are added by the gateway after signing, so the
	// callback carries a fresh signature over the full parameter set.
	signed := url.Values{}
	for k, v := range params {
		if k != "vnp_SecureHash" {
			signed.Set(k, v)
		}
	}
	params["vnp_SecureHash"] = p.sign(signed)

	result, err := p.VerifyCallback(params)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "ORD-ABCD1234", result.OrderNumber)
	assert.Equal(t, "14422574", result.TransactionID)
	assert.InDelta(t, 99.99, result.Amount, 1e-9)
	assert.Equal(t, 2024, result.PaidAt.Year())
}

func TestVerifyCallbackRejectsTamperedParams(t *testing.T) {
	p := testVNPay()

	params := map[string]string{
		"vnp_TxnRef":            "ORD-ABCD1234",
		"vnp_Amount":            "9999",
		"vnp_ResponseCode":      "00",
		"vnp_TransactionStatus": "00",
	}
	signed := url.Values{}
	for k, v := range params {
		signed.Set(k, v)
	}
	params["vnp_SecureHash"] = p.sign(signed)

	// Bump the amount after signing
	params["vnp_Amount"] = "1"

	_, err := p.VerifyCallback(params)
	assert.Error(t, err)
}

func TestVerifyCallbackMissingSignature(t *testing.T) {
	p := testVNPay()

	_, err := p.VerifyCallback(map[string]string{"vnp_TxnRef": "ORD-X"})
	assert.Error(t, err)
}

func TestVerifyCallbackFailureCode(t *testing.T) {
	p := testVNPay()

	params := map[string]string{
		"vnp_TxnRef":            "ORD-ABCD1234",
		"vnp_Amount":            "5000",
		"vnp_ResponseCode":      "24",
		"vnp_TransactionStatus": "02",
	}
	signed := url.Values{}
	for k, v := range params {
		signed.Set(k, v)
	}
	params["vnp_SecureHash"] = p.sign(signed)

	result, err := p.VerifyCallback(params)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "ORD-ABCD1234", result.OrderNumber)
}
