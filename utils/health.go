package utils

import (
	"context"
	"net/http"
	"sync"
	"time"

	"huduma/config"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus is the latest reachability snapshot of everything the flow
// service depends on: its own stores plus the collaborator services it
// calls during payment.
type HealthStatus struct {
	Mongo         bool            `json:"mongo"`
	Redis         []bool          `json:"redis"`
	Collaborators map[string]bool `json:"collaborators"`
	CheckedAt     time.Time       `json:"checkedAt"`
}

var (
	healthSnapshot HealthStatus
	healthMu       sync.RWMutex
)

// GetHealthStatus returns the most recent snapshot.
func GetHealthStatus() HealthStatus {
	healthMu.RLock()
	defer healthMu.RUnlock()
	return healthSnapshot
}

// StartHealthMonitor pings Mongo, the Redis clients and the collaborator
// endpoints once a minute and keeps the snapshot served by /health.
func StartHealthMonitor(redisClients []*redis.Client, mongoClient *mongo.Client) {
	collaborators := map[string]string{
		"wallet":       config.AppConfig.WalletServiceURL,
		"availability": config.AppConfig.AvailabilityServiceURL,
	}
	probe := &http.Client{Timeout: 3 * time.Second}

	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

			redisUp := make([]bool, 0, len(redisClients))
			for _, client := range redisClients {
				redisUp = append(redisUp, client.Ping(ctx).Err() == nil)
			}
			collabUp := make(map[string]bool, len(collaborators))
			for name, baseURL := range collaborators {
				collabUp[name] = probeCollaborator(probe, baseURL)
			}
			mongoUp := mongoClient.Ping(ctx, nil) == nil
			cancel()

			healthMu.Lock()
			healthSnapshot = HealthStatus{
				Mongo:         mongoUp,
				Redis:         redisUp,
				Collaborators: collabUp,
				CheckedAt:     time.Now(),
			}
			healthMu.Unlock()
		}
	}()
}

// probeCollaborator treats any response below 500 as reachable: a 404 on
// /health still proves the service is up.
func probeCollaborator(client *http.Client, baseURL string) bool {
	if baseURL == "" {
		return false
	}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < http.StatusInternalServerError
}
