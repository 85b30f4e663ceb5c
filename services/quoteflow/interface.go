package quoteflow

import (
	"context"
	"time"

	bookingRepo "huduma/database/repository/booking"
	"huduma/models"

	"go.uber.org/zap"
)

// QuoteFlowService owns the quote acceptance flow: step sequence, selections,
// validation gates, and dispatch to payment.
type QuoteFlowService interface {
	Open(ctx context.Context, bookingID, userID string) (*models.QuoteFlowState, error)
	Get(ctx context.Context, flowID string) (*models.QuoteFlowState, error)
	SelectDate(ctx context.Context, flowID, date string) (*models.QuoteFlowState, []models.Slot, error)
	SelectSlot(ctx context.Context, flowID string, slot models.Slot) (*models.QuoteFlowState, error)
	SelectMethod(ctx context.Context, flowID string, method models.PaymentMethod) (*models.QuoteFlowState, error)
	Proceed(ctx context.Context, flowID string) (*models.QuoteFlowState, error)
	CompleteGatewayCheckout(ctx context.Context, flowID string, completion models.CheckoutCompletion) (*models.QuoteFlowState, error)
	FailGatewayCheckout(ctx context.Context, flowID, reason string) (*models.QuoteFlowState, error)
	Close(ctx context.Context, flowID string) error
}

// SlotSource returns available time slots for a service and date.
type SlotSource interface {
	GetAvailableSlots(ctx context.Context, serviceID, date string, durationMins int) ([]models.Slot, error)
}

// WalletLedger is the external service holding the user's stored balance.
// GetSummary is a cached pre-check; Debit is the authoritative call and may
// still refuse for balance.
type WalletLedger interface {
	GetSummary(ctx context.Context, userID string) (*models.WalletSummary, error)
	Debit(ctx context.Context, userID string, req models.WalletDebit) error
}

// PaymentGateway creates and verifies checkout orders with the external
// payment processor.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, req models.GatewayOrderRequest) (*models.PendingOrder, error)
	VerifyPayment(orderID, paymentID, signature string) error
	// Charge settles a segment synchronously against the saved instrument.
	Charge(ctx context.Context, req models.GatewayCharge) error
}

// Notifier sends the payment confirmation push.
type Notifier interface {
	SendUserPushNotification(ctx context.Context, userID, title, body string, data map[string]string) error
}

// ReminderScheduler queues a due-date reminder for a later payment segment.
type ReminderScheduler interface {
	ScheduleSegmentReminder(payload models.SegmentReminderPayload, fireAt time.Time) error
}

// DefaultQuoteFlowService implements QuoteFlowService.
type DefaultQuoteFlowService struct {
	Store        FlowStore
	Bookings     bookingRepo.BookingRepository
	Availability SlotSource
	Wallet       WalletLedger
	Gateway      PaymentGateway
	Notifier     Notifier
	Reminders    ReminderScheduler
	Logger       *zap.Logger
}
