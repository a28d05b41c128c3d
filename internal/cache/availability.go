package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	domain "github.com/medbrief/telemed-api/internal/domain/scheduling"
)

// AvailabilityCache keeps each doctor's open-slot list in Redis so the
// public directory does not hit Postgres on every browse. Every slot
// mutation invalidates the doctor's entry; cache failures are soft and
// only logged.
type AvailabilityCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewAvailabilityCache(rdb *redis.Client, log *zap.Logger) *AvailabilityCache {
	return &AvailabilityCache{
		rdb: rdb,
		ttl: 5 * time.Minute,
		log: log,
	}
}

func key(doctorID uint) string {
	return fmt.Sprintf("availability:%d", doctorID)
}

func (c *AvailabilityCache) Get(
	ctx context.Context,
	doctorID uint,
) ([]domain.SlotView, bool) {

	b, err := c.rdb.Get(ctx, key(doctorID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("availability cache read failed",
				zap.Uint("doctor_id", doctorID),
				zap.Error(err),
			)
		}
		return nil, false
	}

	var views []domain.SlotView
	if err := json.Unmarshal(b, &views); err != nil {
		return nil, false
	}

	return views, true
}

func (c *AvailabilityCache) Set(
	ctx context.Context,
	doctorID uint,
	views []domain.SlotView,
) {

	b, err := json.Marshal(views)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, key(doctorID), b, c.ttl).Err(); err != nil {
		c.log.Warn("availability cache write failed",
			zap.Uint("doctor_id", doctorID),
			zap.Error(err),
		)
	}
}

func (c *AvailabilityCache) Invalidate(ctx context.Context, doctorID uint) {
	if err := c.rdb.Del(ctx, key(doctorID)).Err(); err != nil {
		c.log.Warn("availability cache invalidation failed",
			zap.Uint("doctor_id", doctorID),
			zap.Error(err),
		)
	}
}
