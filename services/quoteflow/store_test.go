package quoteflow

import (
	"context"
	"testing"
	"time"

	"huduma/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RedisFlowStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisFlowStore(client), mr
}

func TestFlowStoreRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	state := &models.QuoteFlowState{
		FlowID:       "flow_1",
		BookingID:    "bk_1",
		UserID:       "user_1",
		Step:         models.StepTimeSelect,
		SelectedDate: "2024-03-10",
		SelectedSlot: &models.Slot{ID: "slot_1", Window: "10:00-12:00"},
	}
	require.NoError(t, store.Save(ctx, state))

	got, err := store.Get(ctx, "flow_1")
	require.NoError(t, err)
	require.Equal(t, state.BookingID, got.BookingID)
	require.Equal(t, models.StepTimeSelect, got.Step)
	require.NotNil(t, got.SelectedSlot)
	require.Equal(t, "10:00-12:00", got.SelectedSlot.Window)
}

func TestFlowStoreMissingFlow(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrFlowNotFound)
}

func TestFlowStoreDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	state := &models.QuoteFlowState{FlowID: "flow_1", Step: models.StepDateSelect}
	require.NoError(t, store.Save(ctx, state))
	require.NoError(t, store.Delete(ctx, "flow_1"))

	_, err := store.Get(ctx, "flow_1")
	require.ErrorIs(t, err, ErrFlowNotFound)

	// Deleting an absent flow is not an error.
	require.NoError(t, store.Delete(ctx, "flow_1"))
}

func TestFlowStoreIdleExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	state := &models.QuoteFlowState{FlowID: "flow_1", Step: models.StepDateSelect}
	require.NoError(t, store.Save(ctx, state))
	require.Equal(t, flowTTL, mr.TTL(flowKey("flow_1")))

	mr.FastForward(flowTTL + time.Second)
	_, err := store.Get(ctx, "flow_1")
	require.ErrorIs(t, err, ErrFlowNotFound)
}

func TestFlowStoreDoneExpiresSooner(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	state := &models.QuoteFlowState{FlowID: "flow_1", Step: models.StepDone}
	require.NoError(t, store.SaveDone(ctx, state))
	require.Equal(t, doneTTL, mr.TTL(flowKey("flow_1")))

	// Readable right away, gone shortly after.
	got, err := store.Get(ctx, "flow_1")
	require.NoError(t, err)
	require.Equal(t, models.StepDone, got.Step)

	mr.FastForward(doneTTL + time.Second)
	_, err = store.Get(ctx, "flow_1")
	require.ErrorIs(t, err, ErrFlowNotFound)
}

func TestFlowStoreSaveRefreshesTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	state := &models.QuoteFlowState{FlowID: "flow_1", Step: models.StepDateSelect}
	require.NoError(t, store.Save(ctx, state))

	mr.FastForward(20 * time.Minute)
	state.Step = models.StepTimeSelect
	require.NoError(t, store.Save(ctx, state))
	require.Equal(t, flowTTL, mr.TTL(flowKey("flow_1")))
}
