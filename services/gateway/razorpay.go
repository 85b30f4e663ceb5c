package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math"

	"huduma/config"
	"huduma/models"

	razorpay "github.com/razorpay/razorpay-go"
)

// ErrSignatureMismatch means the checkout signature did not match the order
// and payment identifiers: the client-reported success cannot be trusted.
var ErrSignatureMismatch = errors.New("gateway payment signature mismatch")

// Client wraps the Razorpay SDK for order creation, segment charges, and
// post-checkout verification.
type Client struct {
	rz       *razorpay.Client
	keyID    string
	secret   string
	currency string
}

// NewClient builds a gateway client from the configured credentials.
func NewClient() *Client {
	cfg := config.AppConfig
	return &Client{
		rz:       razorpay.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret),
		keyID:    cfg.RazorpayKeyID,
		secret:   cfg.RazorpayKeySecret,
		currency: cfg.Currency,
	}
}

// minorUnits converts a decimal amount to the gateway's integer minor units.
func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CreateOrder opens a gateway order for client-side checkout.
func (c *Client) CreateOrder(ctx context.Context, req models.GatewayOrderRequest) (*models.PendingOrder, error) {
	data := map[string]interface{}{
		"amount":   minorUnits(req.Amount),
		"currency": c.currency,
		"receipt":  req.BookingID,
		"notes": map[string]interface{}{
			"bookingId":     req.BookingID,
			"scheduledDate": req.ScheduledDate,
			"scheduledSlot": req.ScheduledSlot,
		},
	}

	body, err := c.rz.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("gateway order creation failed: %w", err)
	}
	orderID, ok := body["id"].(string)
	if !ok || orderID == "" {
		return nil, fmt.Errorf("gateway order response missing id")
	}

	return &models.PendingOrder{
		OrderID:    orderID,
		Amount:     req.Amount,
		Currency:   c.currency,
		GatewayKey: c.keyID,
	}, nil
}

// VerifyPayment checks the checkout signature: HMAC-SHA256 of
// "<orderID>|<paymentID>" under the key secret.
func (c *Client) VerifyPayment(orderID, paymentID, signature string) error {
	mac := hmac.New(sha256.New, []byte(c.secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) != 1 {
		return ErrSignatureMismatch
	}
	return nil
}

// Charge settles a payment segment synchronously against the instrument
// saved with the gateway when the first segment was paid.
func (c *Client) Charge(ctx context.Context, req models.GatewayCharge) error {
	data := map[string]interface{}{
		"amount":      minorUnits(req.Amount),
		"currency":    c.currency,
		"recurring":   "1",
		"description": fmt.Sprintf("Segment %d for booking %s", req.Sequence, req.BookingID),
		"notes": map[string]interface{}{
			"bookingId": req.BookingID,
			"segment":   req.Sequence,
		},
	}

	body, err := c.rz.Payment.CreateRecurringPayment(data, nil)
	if err != nil {
		return fmt.Errorf("gateway segment charge failed: %w", err)
	}
	if status, ok := body["status"].(string); ok && status == "failed" {
		return fmt.Errorf("gateway segment charge rejected")
	}
	return nil
}
