package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"astraguru/backend"
	"astraguru/models"

	"github.com/go-redis/redis/v8"
)

const AvailabilityPrefix = "availability:"

// AvailabilityCache caches a guru's open slots per (guru, date). Entries are
// short-lived snapshots: a slot can be consumed by another user at any time,
// so bookings and cancellations invalidate the pair eagerly.
type AvailabilityCache struct {
	API   backend.AvailabilityAPI
	Cache *redis.Client
	TTL   time.Duration
}

func availabilityKey(guruID, date string) string {
	return AvailabilityPrefix + guruID + ":" + date
}

// Get returns the cached slots for (guru, date), fetching on a miss.
func (c *AvailabilityCache) Get(ctx context.Context, guruID, date string) ([]models.TimeSlot, error) {
	key := availabilityKey(guruID, date)

	data, err := c.Cache.Get(ctx, key).Result()
	if err == nil {
		var slots []models.TimeSlot
		if err := json.Unmarshal([]byte(data), &slots); err == nil {
			return slots, nil
		}
		// Corrupt entry; fall through to a fresh fetch.
	} else if err != redis.Nil {
		return nil, fmt.Errorf("availability cache read failed: %w", err)
	}

	slots, err := c.API.GetAvailability(ctx, guruID, date)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(slots)
	if err != nil {
		return nil, err
	}
	if err := c.Cache.Set(ctx, key, string(encoded), c.TTL).Err(); err != nil {
		return nil, fmt.Errorf("availability cache write failed: %w", err)
	}
	return slots, nil
}

// Invalidate drops the cached entry for (guru, date).
func (c *AvailabilityCache) Invalidate(ctx context.Context, guruID, date string) error {
	return c.Cache.Del(ctx, availabilityKey(guruID, date)).Err()
}

// ForceRefresh drops the cached entry and refetches from the backend. Used
// after a booking conflict, when the local copy is known stale.
func (c *AvailabilityCache) ForceRefresh(ctx context.Context, guruID, date string) ([]models.TimeSlot, error) {
	if err := c.Invalidate(ctx, guruID, date); err != nil {
		return nil, err
	}
	return c.Get(ctx, guruID, date)
}
