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

const ConsultationTypesPrefix = "consultTypes:"

// ConsultationTypeCache caches a guru's offerings. Unlike availability these
// change rarely, so a longer TTL is fine.
type ConsultationTypeCache struct {
	API   backend.GuruAPI
	Cache *redis.Client
	TTL   time.Duration
}

// Get returns the consultation types for a guru, fetching on a miss.
func (c *ConsultationTypeCache) Get(ctx context.Context, guruID string) ([]models.ConsultationType, error) {
	key := ConsultationTypesPrefix + guruID

	data, err := c.Cache.Get(ctx, key).Result()
	if err == nil {
		var types []models.ConsultationType
		if err := json.Unmarshal([]byte(data), &types); err == nil {
			return types, nil
		}
	} else if err != redis.Nil {
		return nil, fmt.Errorf("consultation type cache read failed: %w", err)
	}

	types, err := c.API.GetConsultationTypes(ctx, guruID)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(types)
	if err != nil {
		return nil, err
	}
	if err := c.Cache.Set(ctx, key, string(encoded), c.TTL).Err(); err != nil {
		return nil, fmt.Errorf("consultation type cache write failed: %w", err)
	}
	return types, nil
}
