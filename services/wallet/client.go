package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"huduma/config"
	"huduma/models"

	"github.com/go-redis/redis/v8"
	"github.com/go-resty/resty/v2"
)

// ErrInsufficientFunds is the ledger's refusal to debit for balance. It is a
// legitimate, expected failure mode: the client-side balance is a stale
// cache and the ledger has the final say.
var ErrInsufficientFunds = errors.New("wallet balance insufficient for debit")

const (
	summaryKeyPrefix = "wallet:summary:"
	// Balance reads tolerate this much staleness.
	summaryTTL = 30 * time.Second
)

// Client talks to the wallet ledger service.
type Client struct {
	http  *resty.Client
	cache *redis.Client
}

// NewClient builds a wallet client against the configured ledger endpoint.
func NewClient(cache *redis.Client) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(config.AppConfig.WalletServiceURL).
			SetTimeout(10 * time.Second),
		cache: cache,
	}
}

// NewClientWithBaseURL builds a wallet client for a specific endpoint.
func NewClientWithBaseURL(baseURL string, cache *redis.Client) *Client {
	c := NewClient(cache)
	c.http.SetBaseURL(baseURL)
	return c
}

// GetSummary returns the ledger's balance summary, cached briefly.
func (c *Client) GetSummary(ctx context.Context, userID string) (*models.WalletSummary, error) {
	key := summaryKeyPrefix + userID
	if c.cache != nil {
		if data, err := c.cache.Get(ctx, key).Result(); err == nil {
			var summary models.WalletSummary
			if err := json.Unmarshal([]byte(data), &summary); err == nil {
				return &summary, nil
			}
		}
	}

	var summary models.WalletSummary
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&summary).
		Get(fmt.Sprintf("/api/wallet/%s/summary", userID))
	if err != nil {
		return nil, fmt.Errorf("wallet summary request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("wallet summary returned %d: %s", resp.StatusCode(), resp.String())
	}

	if c.cache != nil {
		if data, err := json.Marshal(summary); err == nil {
			_ = c.cache.Set(ctx, key, data, summaryTTL).Err()
		}
	}
	return &summary, nil
}

// Debit asks the ledger to debit the user. A payment-required refusal maps
// to ErrInsufficientFunds; anything else non-2xx is a generic failure.
func (c *Client) Debit(ctx context.Context, userID string, req models.WalletDebit) error {
	if req.Currency == "" {
		req.Currency = config.AppConfig.Currency
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post(fmt.Sprintf("/api/wallet/%s/debit", userID))
	if err != nil {
		return fmt.Errorf("wallet debit request failed: %w", err)
	}
	if resp.StatusCode() == http.StatusPaymentRequired {
		return ErrInsufficientFunds
	}
	if resp.IsError() {
		return fmt.Errorf("wallet debit returned %d: %s", resp.StatusCode(), resp.String())
	}

	// The cached summary is stale after a successful debit.
	if c.cache != nil {
		_ = c.cache.Del(ctx, summaryKeyPrefix+userID).Err()
	}
	return nil
}
