package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"astraguru/models"

	"github.com/go-redis/redis/v8"
)

const (
	FlowPrefix = "bookingFlow:"
	// FlowTTL bounds how long an abandoned flow lingers.
	FlowTTL = 30 * time.Minute
)

// FlowRepository persists in-progress booking flows.
type FlowRepository interface {
	Get(ctx context.Context, flowID string) (*models.BookingFlow, error)
	Put(ctx context.Context, flow models.BookingFlow) error
	Delete(ctx context.Context, flowID string) error
}

// RedisFlowRepository keeps flows in Redis with a TTL.
type RedisFlowRepository struct {
	Client *redis.Client
}

func (r *RedisFlowRepository) Get(ctx context.Context, flowID string) (*models.BookingFlow, error) {
	data, err := r.Client.Get(ctx, FlowPrefix+flowID).Result()
	if err == redis.Nil {
		return nil, ErrFlowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking flow %s: %w", flowID, err)
	}

	var flow models.BookingFlow
	if err := json.Unmarshal([]byte(data), &flow); err != nil {
		return nil, fmt.Errorf("corrupt booking flow %s: %w", flowID, err)
	}
	return &flow, nil
}

func (r *RedisFlowRepository) Put(ctx context.Context, flow models.BookingFlow) error {
	data, err := json.Marshal(flow)
	if err != nil {
		return fmt.Errorf("failed to marshal booking flow %s: %w", flow.FlowID, err)
	}
	return r.Client.Set(ctx, FlowPrefix+flow.FlowID, string(data), FlowTTL).Err()
}

func (r *RedisFlowRepository) Delete(ctx context.Context, flowID string) error {
	return r.Client.Del(ctx, FlowPrefix+flowID).Err()
}
