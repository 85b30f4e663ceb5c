package quoteflow

import (
	"context"
	"fmt"

	"huduma/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Open creates a new quote flow for a booking. Multi-segment bookings start
// directly at the payment step: scheduling was fixed when an earlier segment
// was paid.
func (s *DefaultQuoteFlowService) Open(ctx context.Context, bookingID, userID string) (*models.QuoteFlowState, error) {
	booking, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if booking.UserID != userID {
		return nil, fmt.Errorf("booking %s does not belong to user %s", bookingID, userID)
	}
	if booking.Status.Terminal() {
		return nil, fmt.Errorf("booking %s is %s and cannot be paid", bookingID, booking.Status)
	}
	if booking.DueAmount() <= 0 {
		return nil, fmt.Errorf("booking %s has no payable quote", bookingID)
	}

	state := &models.QuoteFlowState{
		FlowID:       uuid.New().String(),
		BookingID:    bookingID,
		UserID:       userID,
		MultiSegment: booking.MultiSegment(),
		Step:         models.StepDateSelect,
	}
	if state.MultiSegment {
		state.Step = models.StepPayment
	}

	if err := s.Store.Save(ctx, state); err != nil {
		return nil, err
	}
	s.Logger.Info("quote flow opened",
		zap.String("flowID", state.FlowID),
		zap.String("bookingID", bookingID),
		zap.String("step", string(state.Step)))
	return state, nil
}

// Get returns the current flow state for rendering.
func (s *DefaultQuoteFlowService) Get(ctx context.Context, flowID string) (*models.QuoteFlowState, error) {
	return s.Store.Get(ctx, flowID)
}

// SelectDate records the chosen date and fetches the slots for it. The
// booking must carry a resolvable service, else the flow stays on the date
// step with a MissingServiceInfo error.
func (s *DefaultQuoteFlowService) SelectDate(ctx context.Context, flowID, date string) (*models.QuoteFlowState, []models.Slot, error) {
	state, err := s.Store.Get(ctx, flowID)
	if err != nil {
		return nil, nil, err
	}
	if state.Step != models.StepDateSelect {
		return state, nil, NewFlowError(CodeInvalidStep, fmt.Sprintf("cannot select a date at step %s", state.Step))
	}

	booking, err := s.Bookings.GetByID(state.BookingID)
	if err != nil {
		return state, nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if booking.ServiceID == "" {
		state.Error = msgMissingServiceInfo
		if err := s.Store.Save(ctx, state); err != nil {
			return state, nil, err
		}
		return state, nil, NewFlowError(CodeMissingServiceInfo, msgMissingServiceInfo)
	}

	slots, err := s.Availability.GetAvailableSlots(ctx, booking.ServiceID, date, booking.QuoteDurationMins)
	if err != nil {
		s.Logger.Error("failed to fetch slots",
			zap.String("flowID", flowID), zap.String("date", date), zap.Error(err))
		return state, nil, fmt.Errorf("failed to fetch available slots: %w", err)
	}

	state.SelectedDate = date
	state.SelectedSlot = nil
	state.Step = models.StepTimeSelect
	state.Error = ""
	if err := s.Store.Save(ctx, state); err != nil {
		return state, nil, err
	}
	return state, slots, nil
}

// SelectSlot records the chosen time slot and moves to the payment step.
func (s *DefaultQuoteFlowService) SelectSlot(ctx context.Context, flowID string, slot models.Slot) (*models.QuoteFlowState, error) {
	state, err := s.Store.Get(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if state.Step != models.StepTimeSelect {
		return state, NewFlowError(CodeInvalidStep, fmt.Sprintf("cannot select a slot at step %s", state.Step))
	}

	state.SelectedSlot = &slot
	state.Step = models.StepPayment
	state.Error = ""
	if err := s.Store.Save(ctx, state); err != nil {
		return state, err
	}
	return state, nil
}

// SelectMethod records the payment method. Wallet is refused up front when
// the cached balance is below the due amount; the ledger still has the final
// say on debit.
func (s *DefaultQuoteFlowService) SelectMethod(ctx context.Context, flowID string, method models.PaymentMethod) (*models.QuoteFlowState, error) {
	state, err := s.Store.Get(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if state.Step != models.StepPayment {
		return state, NewFlowError(CodeInvalidStep, fmt.Sprintf("cannot select a payment method at step %s", state.Step))
	}
	if method != models.MethodWallet && method != models.MethodGateway {
		return state, fmt.Errorf("unsupported payment method: %s", method)
	}

	if method == models.MethodWallet {
		booking, err := s.Bookings.GetByID(state.BookingID)
		if err != nil {
			return state, fmt.Errorf("failed to load booking: %w", err)
		}
		summary, err := s.Wallet.GetSummary(ctx, state.UserID)
		if err != nil {
			return state, fmt.Errorf("failed to fetch wallet summary: %w", err)
		}
		if summary.CurrentBalance < booking.DueAmount() {
			state.Error = msgInsufficientFunds
			if err := s.Store.Save(ctx, state); err != nil {
				return state, err
			}
			return state, NewFlowError(CodeInsufficientFunds, msgInsufficientFunds)
		}
	}

	state.Method = method
	state.Error = ""
	if err := s.Store.Save(ctx, state); err != nil {
		return state, err
	}
	return state, nil
}

// Proceed starts a payment attempt. It enforces the selection gate and the
// single in-flight invariant: a flow already processing refuses a second
// proceed.
func (s *DefaultQuoteFlowService) Proceed(ctx context.Context, flowID string) (*models.QuoteFlowState, error) {
	state, err := s.Store.Get(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if state.Step == models.StepProcessing {
		return state, NewFlowError(CodeInvalidStep, "a payment attempt is already in progress")
	}
	if state.Step != models.StepPayment {
		return state, NewFlowError(CodeInvalidStep, fmt.Sprintf("cannot proceed at step %s", state.Step))
	}
	if !state.ReadyToProceed() {
		state.Error = msgIncompleteSelection
		if err := s.Store.Save(ctx, state); err != nil {
			return state, err
		}
		return state, NewFlowError(CodeIncompleteSelection, msgIncompleteSelection)
	}

	booking, err := s.Bookings.GetByID(state.BookingID)
	if err != nil {
		return state, fmt.Errorf("failed to load booking: %w", err)
	}

	state.Step = models.StepProcessing
	state.Error = ""
	if err := s.Store.Save(ctx, state); err != nil {
		return state, err
	}
	s.Logger.Info("payment attempt started",
		zap.String("flowID", flowID),
		zap.String("method", string(state.Method)))

	return s.executePayment(ctx, booking, state)
}

// CompleteGatewayCheckout is the asynchronous checkout success callback.
// Results for a reset or superseded flow are discarded: the pending order
// must still match the reported order.
func (s *DefaultQuoteFlowService) CompleteGatewayCheckout(ctx context.Context, flowID string, completion models.CheckoutCompletion) (*models.QuoteFlowState, error) {
	state, err := s.Store.Get(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if state.Step != models.StepProcessing || state.PendingOrder == nil || state.PendingOrder.OrderID != completion.OrderID {
		s.Logger.Warn("discarding stale checkout completion",
			zap.String("flowID", flowID), zap.String("orderID", completion.OrderID))
		return state, NewFlowError(CodeStaleCheckout, "checkout result no longer matches this flow")
	}

	if err := s.Gateway.VerifyPayment(completion.OrderID, completion.PaymentID, completion.Signature); err != nil {
		s.Logger.Warn("gateway verification rejected",
			zap.String("flowID", flowID), zap.String("orderID", completion.OrderID), zap.Error(err))
		state.PendingOrder = nil
		state.Step = models.StepPayment
		state.Error = msgVerificationFailed
		if err := s.Store.Save(ctx, state); err != nil {
			return state, err
		}
		return state, NewFlowError(CodeVerificationFailed, msgVerificationFailed)
	}

	booking, err := s.Bookings.GetByID(state.BookingID)
	if err != nil {
		return state, fmt.Errorf("failed to load booking: %w", err)
	}
	return s.finalize(ctx, booking, state)
}

// FailGatewayCheckout records a client-side checkout failure. The flow stays
// in processing with the pending order intact so checkout specifically can
// be retried.
func (s *DefaultQuoteFlowService) FailGatewayCheckout(ctx context.Context, flowID, reason string) (*models.QuoteFlowState, error) {
	state, err := s.Store.Get(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if state.Step != models.StepProcessing || state.PendingOrder == nil {
		return state, NewFlowError(CodeInvalidStep, "no gateway checkout is in flight")
	}

	if reason == "" {
		reason = msgPaymentFailed
	}
	state.Error = reason
	if err := s.Store.Save(ctx, state); err != nil {
		return state, err
	}
	return state, nil
}

// Close resets the flow. In-flight completions find no state afterwards and
// are ignored.
func (s *DefaultQuoteFlowService) Close(ctx context.Context, flowID string) error {
	if err := s.Store.Delete(ctx, flowID); err != nil {
		return err
	}
	s.Logger.Info("quote flow closed", zap.String("flowID", flowID))
	return nil
}
