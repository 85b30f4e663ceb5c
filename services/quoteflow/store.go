package quoteflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"huduma/models"

	"github.com/go-redis/redis/v8"
)

const (
	flowKeyPrefix = "quoteflow:"
	// Flow state lives this long between actions.
	flowTTL = 30 * time.Minute
	// A completed flow lingers briefly so the confirmation can be read,
	// then expires on its own.
	doneTTL = 90 * time.Second
)

// ErrFlowNotFound is returned when a flow state is absent or expired.
var ErrFlowNotFound = errors.New("quote flow not found or expired")

// FlowStore persists ephemeral quote flow state.
type FlowStore interface {
	Get(ctx context.Context, flowID string) (*models.QuoteFlowState, error)
	Save(ctx context.Context, state *models.QuoteFlowState) error
	SaveDone(ctx context.Context, state *models.QuoteFlowState) error
	Delete(ctx context.Context, flowID string) error
}

// RedisFlowStore keeps flow state JSON-marshaled in the flow cache.
type RedisFlowStore struct {
	Client *redis.Client
}

func NewRedisFlowStore(client *redis.Client) *RedisFlowStore {
	return &RedisFlowStore{Client: client}
}

func flowKey(flowID string) string {
	return flowKeyPrefix + flowID
}

func (s *RedisFlowStore) Get(ctx context.Context, flowID string) (*models.QuoteFlowState, error) {
	data, err := s.Client.Get(ctx, flowKey(flowID)).Result()
	if err == redis.Nil {
		return nil, ErrFlowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load quote flow %s: %w", flowID, err)
	}

	var state models.QuoteFlowState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("failed to parse quote flow %s: %w", flowID, err)
	}
	return &state, nil
}

func (s *RedisFlowStore) Save(ctx context.Context, state *models.QuoteFlowState) error {
	return s.save(ctx, state, flowTTL)
}

// SaveDone re-stores a terminal state with a short TTL.
func (s *RedisFlowStore) SaveDone(ctx context.Context, state *models.QuoteFlowState) error {
	return s.save(ctx, state, doneTTL)
}

func (s *RedisFlowStore) save(ctx context.Context, state *models.QuoteFlowState, ttl time.Duration) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal quote flow %s: %w", state.FlowID, err)
	}
	if err := s.Client.Set(ctx, flowKey(state.FlowID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store quote flow %s: %w", state.FlowID, err)
	}
	return nil
}

func (s *RedisFlowStore) Delete(ctx context.Context, flowID string) error {
	if err := s.Client.Del(ctx, flowKey(flowID)).Err(); err != nil {
		return fmt.Errorf("failed to delete quote flow %s: %w", flowID, err)
	}
	return nil
}
