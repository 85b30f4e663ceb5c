package quoteflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"huduma/models"

	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	pushes []string
}

func (f *fakeNotifier) SendUserPushNotification(ctx context.Context, userID, title, body string, data map[string]string) error {
	f.pushes = append(f.pushes, title)
	return nil
}

type fakeReminders struct {
	scheduled []models.SegmentReminderPayload
}

func (f *fakeReminders) ScheduleSegmentReminder(payload models.SegmentReminderPayload, fireAt time.Time) error {
	f.scheduled = append(f.scheduled, payload)
	return nil
}

// Drives a single-segment-free flow through date, slot and method selection.
func readyState(t *testing.T, svc *DefaultQuoteFlowService, method models.PaymentMethod) *models.QuoteFlowState {
	t.Helper()
	ctx := context.Background()

	state, err := svc.Open(ctx, "bk_1", "user_1")
	require.NoError(t, err)
	state, _, err = svc.SelectDate(ctx, state.FlowID, "2024-03-10")
	require.NoError(t, err)
	state, err = svc.SelectSlot(ctx, state.FlowID, models.Slot{ID: "slot_1", Date: "2024-03-10", Window: "10:00-12:00"})
	require.NoError(t, err)
	state, err = svc.SelectMethod(ctx, state.FlowID, method)
	require.NoError(t, err)
	return state
}

func TestWalletPaymentSchedulesBooking(t *testing.T) {
	repo := repoWith(singleQuoteBooking())
	w := &fakeWallet{balance: 2000}
	g := &fakeGateway{}
	svc := newTestService(t, repo, w, g)
	notifier := &fakeNotifier{}
	svc.Notifier = notifier

	state := readyState(t, svc, models.MethodWallet)
	state, err := svc.Proceed(context.Background(), state.FlowID)
	require.NoError(t, err)
	require.Equal(t, models.StepDone, state.Step)

	require.Len(t, w.debits, 1)
	require.Equal(t, 1500.0, w.debits[0].Amount)
	require.Equal(t, "bk_1", w.debits[0].Reference)

	require.Len(t, repo.scheduled, 1)
	require.Equal(t, "2024-03-10", repo.scheduled[0].date)
	require.Equal(t, "10:00-12:00", repo.scheduled[0].slot)
	require.Equal(t, 1500.0, repo.scheduled[0].amount)
	require.Equal(t, "wallet", repo.scheduled[0].method)

	// The wallet path never touches the gateway.
	require.Empty(t, g.orders)
	require.Empty(t, g.charges)
	require.Zero(t, g.verifies)

	require.Equal(t, []string{"Payment confirmed"}, notifier.pushes)
}

func TestGatewayCheckoutOpensPendingOrder(t *testing.T) {
	repo := repoWith(singleQuoteBooking())
	w := &fakeWallet{}
	g := &fakeGateway{}
	svc := newTestService(t, repo, w, g)

	state := readyState(t, svc, models.MethodGateway)
	state, err := svc.Proceed(context.Background(), state.FlowID)
	require.NoError(t, err)

	require.Equal(t, models.StepProcessing, state.Step)
	require.NotNil(t, state.PendingOrder)
	require.Equal(t, "order_test_1", state.PendingOrder.OrderID)
	require.Equal(t, 1500.0, state.PendingOrder.Amount)

	// Nothing is recorded on the booking until checkout completes.
	require.Empty(t, repo.scheduled)
	require.Empty(t, w.debits)
}

func TestGatewayCompletionFinalizesBooking(t *testing.T) {
	repo := repoWith(singleQuoteBooking())
	g := &fakeGateway{}
	svc := newTestService(t, repo, &fakeWallet{}, g)
	ctx := context.Background()

	state := readyState(t, svc, models.MethodGateway)
	state, err := svc.Proceed(ctx, state.FlowID)
	require.NoError(t, err)

	state, err = svc.CompleteGatewayCheckout(ctx, state.FlowID, models.CheckoutCompletion{
		OrderID:   "order_test_1",
		PaymentID: "pay_test_1",
		Signature: "sig",
	})
	require.NoError(t, err)
	require.Equal(t, models.StepDone, state.Step)
	require.Nil(t, state.PendingOrder)
	require.Equal(t, 1, g.verifies)

	require.Len(t, repo.scheduled, 1)
	require.Equal(t, "gateway", repo.scheduled[0].method)
}

func TestGatewayVerificationRejectionReturnsToPayment(t *testing.T) {
	repo := repoWith(singleSegmentBooking())
	g := &fakeGateway{verifyErr: errors.New("signature mismatch")}
	svc := newTestService(t, repo, &fakeWallet{}, g)
	ctx := context.Background()

	state := readyState(t, svc, models.MethodGateway)
	state, err := svc.Proceed(ctx, state.FlowID)
	require.NoError(t, err)
	require.Equal(t, models.StepProcessing, state.Step)
	require.Len(t, g.orders, 1)
	require.Empty(t, g.charges)

	state, err = svc.CompleteGatewayCheckout(ctx, state.FlowID, models.CheckoutCompletion{
		OrderID:   "order_test_1",
		PaymentID: "pay_test_1",
		Signature: "forged",
	})
	require.Equal(t, CodeVerificationFailed, flowCode(t, err))
	require.Equal(t, models.StepPayment, state.Step)
	require.Nil(t, state.PendingOrder)
	require.Empty(t, repo.scheduled)
	require.Empty(t, repo.segments)

	// Selections survive the rejection so the user can retry.
	require.Equal(t, "2024-03-10", state.SelectedDate)
	require.Equal(t, models.MethodGateway, state.Method)
}

func TestSingleSegmentGatewayUsesCheckout(t *testing.T) {
	repo := repoWith(singleSegmentBooking())
	g := &fakeGateway{}
	svc := newTestService(t, repo, &fakeWallet{}, g)
	ctx := context.Background()

	state := readyState(t, svc, models.MethodGateway)
	state, err := svc.Proceed(ctx, state.FlowID)
	require.NoError(t, err)

	// A first segment payment goes through client-side checkout, not a
	// synchronous charge.
	require.Equal(t, models.StepProcessing, state.Step)
	require.NotNil(t, state.PendingOrder)
	require.Len(t, g.orders, 1)
	require.Equal(t, 1500.0, g.orders[0].Amount)
	require.Empty(t, g.charges)

	state, err = svc.CompleteGatewayCheckout(ctx, state.FlowID, models.CheckoutCompletion{
		OrderID:   "order_test_1",
		PaymentID: "pay_test_1",
		Signature: "sig",
	})
	require.NoError(t, err)
	require.Equal(t, models.StepDone, state.Step)

	require.Len(t, repo.segments, 1)
	require.Equal(t, 1, repo.segments[0].sequence)
	require.Len(t, repo.scheduled, 1)
	require.Equal(t, "2024-03-10", repo.scheduled[0].date)
}

func TestScheduleFailureReturnsFlowToPayment(t *testing.T) {
	repo := repoWith(singleSegmentBooking())
	repo.scheduleErr = errors.New("mongo write failed")
	svc := newTestService(t, repo, &fakeWallet{balance: 2000}, &fakeGateway{})
	ctx := context.Background()

	state := readyState(t, svc, models.MethodWallet)
	state, err := svc.Proceed(ctx, state.FlowID)
	require.Equal(t, CodePaymentFailed, flowCode(t, err))
	require.Equal(t, models.StepPayment, state.Step)
	require.NotEmpty(t, state.Error)

	// The stored state is back on payment too, so a retry is accepted
	// instead of being refused as already in progress.
	stored, err := svc.Get(ctx, state.FlowID)
	require.NoError(t, err)
	require.Equal(t, models.StepPayment, stored.Step)
	require.NotEmpty(t, stored.Error)
}

func TestStaleCompletionIsDiscarded(t *testing.T) {
	repo := repoWith(singleQuoteBooking())
	g := &fakeGateway{}
	svc := newTestService(t, repo, &fakeWallet{}, g)
	ctx := context.Background()

	state := readyState(t, svc, models.MethodGateway)
	state, err := svc.Proceed(ctx, state.FlowID)
	require.NoError(t, err)

	_, err = svc.CompleteGatewayCheckout(ctx, state.FlowID, models.CheckoutCompletion{
		OrderID:   "order_from_an_earlier_attempt",
		PaymentID: "pay_test_1",
		Signature: "sig",
	})
	require.Equal(t, CodeStaleCheckout, flowCode(t, err))
	require.Zero(t, g.verifies)
	require.Empty(t, repo.scheduled)
}

func TestFailedCheckoutKeepsOrderForRetry(t *testing.T) {
	svc := newTestService(t, repoWith(singleQuoteBooking()), &fakeWallet{}, &fakeGateway{})
	ctx := context.Background()

	state := readyState(t, svc, models.MethodGateway)
	state, err := svc.Proceed(ctx, state.FlowID)
	require.NoError(t, err)

	state, err = svc.FailGatewayCheckout(ctx, state.FlowID, "card declined")
	require.NoError(t, err)
	require.Equal(t, models.StepProcessing, state.Step)
	require.NotNil(t, state.PendingOrder)
	require.Equal(t, "card declined", state.Error)
}

func TestSegmentChargeTargetsFirstSegment(t *testing.T) {
	repo := repoWith(twoSegmentBooking())
	w := &fakeWallet{}
	g := &fakeGateway{}
	svc := newTestService(t, repo, w, g)
	ctx := context.Background()

	state, err := svc.Open(ctx, "bk_1", "user_1")
	require.NoError(t, err)
	state, err = svc.SelectMethod(ctx, state.FlowID, models.MethodGateway)
	require.NoError(t, err)

	state, err = svc.Proceed(ctx, state.FlowID)
	require.NoError(t, err)
	require.Equal(t, models.StepDone, state.Step)

	// Segment charges settle synchronously; no checkout round-trip.
	require.Len(t, g.charges, 1)
	require.Equal(t, 1, g.charges[0].Sequence)
	require.Equal(t, 1000.0, g.charges[0].Amount)
	require.Empty(t, g.orders)
	require.Zero(t, g.verifies)
	require.Empty(t, w.debits)

	require.Len(t, repo.segments, 1)
	require.Equal(t, 1, repo.segments[0].sequence)
	// Scheduling was fixed when the earlier segment was paid.
	require.Empty(t, repo.scheduled)
}

func TestSingleSegmentPaymentAlsoSchedules(t *testing.T) {
	repo := repoWith(singleSegmentBooking())
	w := &fakeWallet{balance: 2000}
	svc := newTestService(t, repo, w, &fakeGateway{})

	state := readyState(t, svc, models.MethodWallet)
	state, err := svc.Proceed(context.Background(), state.FlowID)
	require.NoError(t, err)
	require.Equal(t, models.StepDone, state.Step)

	require.Len(t, repo.segments, 1)
	require.Equal(t, 1, repo.segments[0].sequence)
	require.Len(t, repo.scheduled, 1)
	require.Equal(t, 1500.0, repo.scheduled[0].amount)
}

func TestSegmentPaymentSchedulesNextReminder(t *testing.T) {
	due := time.Now().Add(30 * 24 * time.Hour)
	b := twoSegmentBooking()
	b.PaymentSegments[1].DueDate = &due

	repo := repoWith(b)
	svc := newTestService(t, repo, &fakeWallet{balance: 5000}, &fakeGateway{})
	reminders := &fakeReminders{}
	svc.Reminders = reminders
	ctx := context.Background()

	state, _ := svc.Open(ctx, "bk_1", "user_1")
	state, err := svc.SelectMethod(ctx, state.FlowID, models.MethodWallet)
	require.NoError(t, err)
	_, err = svc.Proceed(ctx, state.FlowID)
	require.NoError(t, err)

	require.Len(t, reminders.scheduled, 1)
	require.Equal(t, 2, reminders.scheduled[0].Sequence)
	require.Equal(t, 2000.0, reminders.scheduled[0].Amount)
	require.Equal(t, "bk_1", reminders.scheduled[0].BookingID)
}

func TestAmountFallsBackToQuoteWithoutSegments(t *testing.T) {
	b := singleQuoteBooking()
	b.QuoteAmount = 875.50
	repo := repoWith(b)
	w := &fakeWallet{balance: 1000}
	svc := newTestService(t, repo, w, &fakeGateway{})

	state := readyState(t, svc, models.MethodWallet)
	_, err := svc.Proceed(context.Background(), state.FlowID)
	require.NoError(t, err)

	require.Len(t, w.debits, 1)
	require.Equal(t, 875.50, w.debits[0].Amount)
}
