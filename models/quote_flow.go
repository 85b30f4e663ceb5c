package models

// FlowStep identifies the current step of a quote acceptance flow.
type FlowStep string

const (
	StepDateSelect FlowStep = "date-select"
	StepTimeSelect FlowStep = "time-select"
	StepPayment    FlowStep = "payment"
	StepProcessing FlowStep = "processing"
	StepDone       FlowStep = "done"
)

// PaymentMethod selects how a quote is paid.
type PaymentMethod string

const (
	MethodWallet  PaymentMethod = "wallet"
	MethodGateway PaymentMethod = "gateway"
)

// PendingOrder is a gateway order awaiting client-side checkout.
type PendingOrder struct {
	OrderID    string  `json:"orderId"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	GatewayKey string  `json:"gatewayKey"`
}

// QuoteFlowState holds the context of one open quote acceptance flow.
// It lives in the flow cache under its flow ID and is destroyed on close
// or shortly after terminal success.
type QuoteFlowState struct {
	FlowID       string        `json:"flowId"`
	BookingID    string        `json:"bookingId"`
	UserID       string        `json:"userId"`
	Step         FlowStep      `json:"step"`
	MultiSegment bool          `json:"multiSegment"`
	SelectedDate string        `json:"selectedDate,omitempty"` // "YYYY-MM-DD"
	SelectedSlot *Slot         `json:"selectedSlot,omitempty"`
	Method       PaymentMethod `json:"selectedPaymentMethod,omitempty"`
	// PendingOrder identifies the one checkout in flight; a completion
	// reporting a different order is stale and must be discarded.
	PendingOrder *PendingOrder `json:"pendingOrder,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// ReadyToProceed reports whether a payment attempt may start: a method is
// selected, and either the booking is multi-segment (scheduling already
// fixed) or both date and slot have been chosen.
func (s *QuoteFlowState) ReadyToProceed() bool {
	if s.Method == "" {
		return false
	}
	if s.MultiSegment {
		return true
	}
	return s.SelectedDate != "" && s.SelectedSlot != nil
}
