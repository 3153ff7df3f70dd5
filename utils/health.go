package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus is the latest probe of the local stores: the mongo transaction
// journal and the redis instances backing sessions and the availability
// caches. The remote astrology backend is deliberately not probed here; its
// reachability surfaces per-request as a NetworkError.
type HealthStatus struct {
	Journal   bool      `json:"journal"`
	Caches    []bool    `json:"caches"`
	CheckedAt time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	healthMu      sync.RWMutex
)

// GetHealthStatus returns the last recorded snapshot.
func GetHealthStatus() HealthStatus {
	healthMu.RLock()
	defer healthMu.RUnlock()
	return currentHealth
}

// StartHealthMonitor pings the session/cache redis clients and the journal
// once a minute. Probes never block the serving path.
func StartHealthMonitor(cacheClients []*redis.Client, journalClient *mongo.Client) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		ctx := context.Background()
		for range ticker.C {
			caches := make([]bool, 0, len(cacheClients))
			for _, client := range cacheClients {
				caches = append(caches, client.Ping(ctx).Err() == nil)
			}

			healthMu.Lock()
			currentHealth = HealthStatus{
				Journal:   journalClient.Ping(ctx, nil) == nil,
				Caches:    caches,
				CheckedAt: time.Now(),
			}
			healthMu.Unlock()
		}
	}()
}
