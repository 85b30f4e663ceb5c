package wallet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"huduma/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

func TestGetSummary(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		require.Equal(t, "/api/wallet/user_1/summary", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.WalletSummary{CurrentBalance: 2450})
	}))
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL, nil)
	summary, err := client.GetSummary(context.Background(), "user_1")
	require.NoError(t, err)
	require.Equal(t, 2450.0, summary.CurrentBalance)
	require.Equal(t, 1, hits)
}

func TestGetSummaryUsesCache(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.WalletSummary{CurrentBalance: 100})
	}))
	defer srv.Close()

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	client := NewClientWithBaseURL(srv.URL, cache)
	ctx := context.Background()

	_, err := client.GetSummary(ctx, "user_1")
	require.NoError(t, err)
	_, err = client.GetSummary(ctx, "user_1")
	require.NoError(t, err)
	require.Equal(t, 1, hits)
}

func TestDebitInsufficientFunds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL, nil)
	err := client.Debit(context.Background(), "user_1", models.WalletDebit{Amount: 500, Reference: "bk_1"})
	require.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestDebitInvalidatesCachedSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(models.WalletSummary{CurrentBalance: 1000})
		case http.MethodPost:
			require.Equal(t, "/api/wallet/user_1/debit", r.URL.Path)
			var req models.WalletDebit
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, 600.0, req.Amount)
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	client := NewClientWithBaseURL(srv.URL, cache)
	ctx := context.Background()

	_, err := client.GetSummary(ctx, "user_1")
	require.NoError(t, err)
	require.True(t, mr.Exists("wallet:summary:user_1"))

	require.NoError(t, client.Debit(ctx, "user_1", models.WalletDebit{Amount: 600, Reference: "bk_1"}))
	require.False(t, mr.Exists("wallet:summary:user_1"))
}

func TestDebitServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL, nil)
	err := client.Debit(context.Background(), "user_1", models.WalletDebit{Amount: 500})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInsufficientFunds)
}
