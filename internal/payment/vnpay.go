// internal/payment/vnpay.go
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	vnpayVersion      = "2.1.0"
	vnpayCommand      = "pay"
	vnpayCodeSuccess  = "00"
	vnpayDateLayout   = "20060102150405"
	vnpaySecureHash   = "vnp_SecureHash"
	vnpayParamPrefix  = "vnp_"
	vnpayCurrencyCode = "VND"
)

// VNPayConfig holds the merchant credentials issued by the gateway.
type VNPayConfig struct {
	TmnCode    string
	SecretKey  string
	GatewayURL string
	ReturnURL  string
}

// VNPay signs the sorted query string with HMAC-SHA512 and appends the
// digest as vnp_SecureHash, matching the gateway's v2.1.0 contract.
type VNPay struct {
	cfg VNPayConfig
	now func() time.Time
}

func NewVNPay(cfg VNPayConfig) *VNPay {
	return &VNPay{cfg: cfg, now: time.Now}
}

func (p *VNPay) sign(values url.Values) string {
	mac := hmac.New(sha512.New, []byte(p.cfg.SecretKey))
	mac.Write([]byte(values.Encode())) // Encode sorts by key
	return hex.EncodeToString(mac.Sum(nil))
}

func (p *VNPay) PaymentURL(_ context.Context, req Request) (string, error) {
	if req.OrderNumber == "" {
		return "", errors.New("order number is required")
	}
	if req.Amount <= 0 {
		return "", errors.New("amount must be positive")
	}

	returnURL := req.ReturnURL
	if returnURL == "" {
		returnURL = p.cfg.ReturnURL
	}

	values := url.Values{}
	values.Set("vnp_Version", vnpayVersion)
	values.Set("vnp_Command", vnpayCommand)
	values.Set("vnp_TmnCode", p.cfg.TmnCode)
	// The gateway takes the amount in minor units
	values.Set("vnp_Amount", strconv.FormatInt(int64(req.Amount*100), 10))
	values.Set("vnp_CurrCode", vnpayCurrencyCode)
	values.Set("vnp_TxnRef", req.OrderNumber)
	values.Set("vnp_OrderInfo", req.Description)
	values.Set("vnp_OrderType", "other")
	values.Set("vnp_Locale", "vi")
	values.Set("vnp_ReturnUrl", returnURL)
	values.Set("vnp_IpAddr", req.ClientIP)
	values.Set("vnp_CreateDate", p.now().Format(vnpayDateLayout))

	values.Set(vnpaySecureHash, p.sign(values))

	return p.cfg.GatewayURL + "?" + values.Encode(), nil
}

func (p *VNPay) VerifyCallback(params map[string]string) (Result, error) {
	signature, ok := params[vnpaySecureHash]
	if !ok || signature == "" {
		return Result{}, errors.New("missing callback signature")
	}

	// Only vnp_-prefixed parameters participate in the signature
	signed := url.Values{}
	for k, v := range params {
		if strings.HasPrefix(k, vnpayParamPrefix) && k != vnpaySecureHash {
			signed.Set(k, v)
		}
	}

	expected := p.sign(signed)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return Result{}, errors.New("invalid callback signature")
	}

	result := Result{
		OrderNumber:   params["vnp_TxnRef"],
		TransactionID: params["vnp_TransactionNo"],
	}

	if raw := params["vnp_Amount"]; raw != "" {
		if minor, err := strconv.ParseInt(raw, 10, 64); err == nil {
			result.Amount = float64(minor) / 100
		}
	}
	if raw := params["vnp_PayDate"]; raw != "" {
		if paidAt, err := time.Parse(vnpayDateLayout, raw); err == nil {
			result.PaidAt = paidAt
		}
	}

	if params["vnp_ResponseCode"] == vnpayCodeSuccess && params["vnp_TransactionStatus"] == vnpayCodeSuccess {
		result.Success = true
		result.Message = "Payment successful"
	} else {
		result.Success = false
		result.Message = "Payment failed with code " + params["vnp_ResponseCode"]
	}

	return result, nil
}
