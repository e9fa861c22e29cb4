package formation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"pawpack/models"
)

const latestReportKey = "formation:latest"

// RedisSuggestionCache keeps the latest report as JSON under one key.
type RedisSuggestionCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisSuggestionCache(client *redis.Client, ttl time.Duration) *RedisSuggestionCache {
	return &RedisSuggestionCache{Client: client, TTL: ttl}
}

func (c *RedisSuggestionCache) Store(ctx context.Context, report models.FormationReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode formation report: %w", err)
	}
	return c.Client.Set(ctx, latestReportKey, data, c.TTL).Err()
}

func (c *RedisSuggestionCache) Load(ctx context.Context) (*models.FormationReport, error) {
	data, err := c.Client.Get(ctx, latestReportKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoReport
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read formation report: %w", err)
	}

	var report models.FormationReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode formation report: %w", err)
	}
	return &report, nil
}
