package quoteflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"huduma/models"
	"huduma/services/wallet"

	"go.uber.org/zap"
)

// executePayment resolves the amount and method of the actual payment call,
// executes it, and records the outcome on the flow state. All rejections are
// converted into the state's error field; the flow stays recoverable.
func (s *DefaultQuoteFlowService) executePayment(ctx context.Context, booking *models.Booking, state *models.QuoteFlowState) (*models.QuoteFlowState, error) {
	amount := booking.DueAmount()

	switch state.Method {
	case models.MethodWallet:
		return s.payWithWallet(ctx, booking, state, amount)
	case models.MethodGateway:
		if state.MultiSegment {
			// A later segment settles synchronously against the instrument
			// saved at the first payment; no client-side checkout follows.
			return s.chargeSegmentWithGateway(ctx, booking, state, amount)
		}
		return s.openGatewayCheckout(ctx, booking, state, amount)
	default:
		return s.failAttempt(ctx, state, CodePaymentFailed, fmt.Sprintf("unsupported payment method: %s", state.Method))
	}
}

func (s *DefaultQuoteFlowService) payWithWallet(ctx context.Context, booking *models.Booking, state *models.QuoteFlowState, amount float64) (*models.QuoteFlowState, error) {
	debit := models.WalletDebit{
		Amount:      amount,
		Reference:   booking.ID,
		Description: fmt.Sprintf("Payment for booking %s", booking.ID),
	}
	if err := s.Wallet.Debit(ctx, state.UserID, debit); err != nil {
		if errors.Is(err, wallet.ErrInsufficientFunds) {
			return s.failAttempt(ctx, state, CodeInsufficientFunds, msgInsufficientFunds)
		}
		s.Logger.Error("wallet debit failed",
			zap.String("flowID", state.FlowID), zap.Error(err))
		return s.failAttempt(ctx, state, CodePaymentFailed, msgPaymentFailed)
	}
	return s.finalize(ctx, booking, state)
}

func (s *DefaultQuoteFlowService) chargeSegmentWithGateway(ctx context.Context, booking *models.Booking, state *models.QuoteFlowState, amount float64) (*models.QuoteFlowState, error) {
	seg := booking.FirstSegment()
	charge := models.GatewayCharge{
		BookingID: booking.ID,
		Sequence:  seg.Sequence,
		Amount:    amount,
	}
	if err := s.Gateway.Charge(ctx, charge); err != nil {
		s.Logger.Error("gateway segment charge failed",
			zap.String("flowID", state.FlowID),
			zap.Int("segment", seg.Sequence), zap.Error(err))
		return s.failAttempt(ctx, state, CodePaymentFailed, msgPaymentFailed)
	}
	return s.finalize(ctx, booking, state)
}

func (s *DefaultQuoteFlowService) openGatewayCheckout(ctx context.Context, booking *models.Booking, state *models.QuoteFlowState, amount float64) (*models.QuoteFlowState, error) {
	req := models.GatewayOrderRequest{
		BookingID:     booking.ID,
		Amount:        amount,
		ScheduledDate: state.SelectedDate,
	}
	if state.SelectedSlot != nil {
		req.ScheduledSlot = state.SelectedSlot.Window
	}

	order, err := s.Gateway.CreateOrder(ctx, req)
	if err != nil {
		s.Logger.Error("gateway order creation failed",
			zap.String("flowID", state.FlowID), zap.Error(err))
		return s.failAttempt(ctx, state, CodePaymentFailed, msgPaymentFailed)
	}

	// The flow stays in processing; the client runs the external checkout
	// and reports back through the completion callback.
	state.PendingOrder = order
	if err := s.Store.Save(ctx, state); err != nil {
		return state, err
	}
	s.Logger.Info("gateway checkout opened",
		zap.String("flowID", state.FlowID), zap.String("orderID", order.OrderID))
	return state, nil
}

// finalize records the payment outcome on the booking, notifies the user,
// schedules the next segment reminder, and parks the flow in done.
func (s *DefaultQuoteFlowService) finalize(ctx context.Context, booking *models.Booking, state *models.QuoteFlowState) (*models.QuoteFlowState, error) {
	method := string(state.Method)
	amount := booking.DueAmount()

	if booking.Segmented() {
		seg := booking.FirstSegment()
		if err := s.Bookings.MarkSegmentPaid(booking.ID, seg.Sequence, method); err != nil {
			s.Logger.Error("failed to record segment payment",
				zap.String("bookingID", booking.ID), zap.Int("segment", seg.Sequence), zap.Error(err))
			return s.failAttempt(ctx, state, CodePaymentFailed, msgPaymentFailed)
		}
		// Only the first unpaid segment's payment carries the scheduling
		// side effect; later segments arrive with scheduling already fixed.
		if !state.MultiSegment {
			if err := s.markScheduled(booking.ID, state, amount, method); err != nil {
				s.Logger.Error("failed to record booking schedule",
					zap.String("bookingID", booking.ID), zap.Error(err))
				return s.failAttempt(ctx, state, CodePaymentFailed, msgPaymentFailed)
			}
		}
		s.scheduleNextReminder(booking, seg.Sequence)
	} else {
		if err := s.markScheduled(booking.ID, state, amount, method); err != nil {
			s.Logger.Error("failed to record booking payment",
				zap.String("bookingID", booking.ID), zap.Error(err))
			return s.failAttempt(ctx, state, CodePaymentFailed, msgPaymentFailed)
		}
	}

	s.notifyPaymentConfirmed(ctx, state, amount)

	state.PendingOrder = nil
	state.Error = ""
	state.Step = models.StepDone
	if err := s.Store.SaveDone(ctx, state); err != nil {
		return state, err
	}
	s.Logger.Info("payment confirmed",
		zap.String("flowID", state.FlowID),
		zap.String("bookingID", booking.ID),
		zap.Float64("amount", amount),
		zap.String("method", method))
	return state, nil
}

func (s *DefaultQuoteFlowService) markScheduled(bookingID string, state *models.QuoteFlowState, amount float64, method string) error {
	slot := ""
	if state.SelectedSlot != nil {
		slot = state.SelectedSlot.Window
	}
	return s.Bookings.MarkScheduled(bookingID, state.SelectedDate, slot, amount, method)
}

// failAttempt surfaces a recoverable payment failure: the flow returns to the
// payment step with the message set, pending order cleared, selections kept.
func (s *DefaultQuoteFlowService) failAttempt(ctx context.Context, state *models.QuoteFlowState, code, msg string) (*models.QuoteFlowState, error) {
	state.PendingOrder = nil
	state.Step = models.StepPayment
	state.Error = msg
	if err := s.Store.Save(ctx, state); err != nil {
		return state, err
	}
	return state, NewFlowError(code, msg)
}

func (s *DefaultQuoteFlowService) notifyPaymentConfirmed(ctx context.Context, state *models.QuoteFlowState, amount float64) {
	if s.Notifier == nil {
		return
	}
	data := map[string]string{
		"bookingId": state.BookingID,
		"flowId":    state.FlowID,
	}
	body := fmt.Sprintf("Your payment of %.2f was received.", amount)
	if err := s.Notifier.SendUserPushNotification(ctx, state.UserID, "Payment confirmed", body, data); err != nil {
		s.Logger.Warn("failed to send payment push",
			zap.String("userID", state.UserID), zap.Error(err))
	}
}

func (s *DefaultQuoteFlowService) scheduleNextReminder(booking *models.Booking, paidSequence int) {
	if s.Reminders == nil {
		return
	}
	next := booking.NextPendingSegment(paidSequence)
	if next == nil || next.DueDate == nil {
		return
	}
	fireAt := next.DueDate.Add(-24 * time.Hour)
	if fireAt.Before(time.Now()) {
		fireAt = time.Now().Add(time.Minute)
	}
	payload := models.SegmentReminderPayload{
		UserID:    booking.UserID,
		BookingID: booking.ID,
		Sequence:  next.Sequence,
		Amount:    next.Amount,
		FireDate:  fireAt.Format(time.RFC3339),
	}
	if err := s.Reminders.ScheduleSegmentReminder(payload, fireAt); err != nil {
		s.Logger.Warn("failed to schedule segment reminder",
			zap.String("bookingID", booking.ID), zap.Int("segment", next.Sequence), zap.Error(err))
	}
}
