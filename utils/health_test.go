package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestProbeCollaborator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := &http.Client{Timeout: time.Second}
	require.True(t, probeCollaborator(client, srv.URL))
}

func TestProbeCollaboratorAcceptsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := &http.Client{Timeout: time.Second}
	require.True(t, probeCollaborator(client, srv.URL))
}

func TestProbeCollaboratorFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := &http.Client{Timeout: time.Second}
	require.False(t, probeCollaborator(client, srv.URL))
	require.False(t, probeCollaborator(client, ""))

	down := httptest.NewServer(nil)
	down.Close()
	require.False(t, probeCollaborator(client, down.URL))
}
