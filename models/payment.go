package models

// WalletSummary is the ledger's view of a user's stored balance. The balance
// is a cached read; the authoritative check happens on debit.
type WalletSummary struct {
	CurrentBalance float64 `json:"currentBalance"`
}

// WalletDebit is a debit request issued against the wallet ledger.
type WalletDebit struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Reference   string  `json:"reference"` // booking ID
	Description string  `json:"description,omitempty"`
}

// GatewayOrderRequest asks the payment gateway to open an order for
// client-side checkout.
type GatewayOrderRequest struct {
	BookingID     string
	Amount        float64
	ScheduledDate string
	ScheduledSlot string
}

// GatewayCharge is a synchronous charge for a payment segment, settled
// against the instrument saved with the gateway when the first segment was
// paid. No client-side checkout step follows.
type GatewayCharge struct {
	BookingID string
	Sequence  int
	Amount    float64
}

// CheckoutCompletion carries the three gateway-supplied identifiers reported
// by the client after a checkout succeeds.
type CheckoutCompletion struct {
	OrderID   string `json:"orderId" binding:"required"`
	PaymentID string `json:"paymentId" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}
