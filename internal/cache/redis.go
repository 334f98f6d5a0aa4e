package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/reefcrew/seabooking/config"
	"github.com/reefcrew/seabooking/internal/domain"
)

type RedisCache struct {
	client   *redis.Client
	slotsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, slotsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:   redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		slotsTTL: slotsTTL,
	}
}

func (c *RedisCache) GetSlots(ctx context.Context, activityID int64, daysAhead int) ([]domain.TripSlot, error) {
	data, err := c.client.Get(ctx, slotsKey(activityID, daysAhead)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var slots []domain.TripSlot
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (c *RedisCache) SetSlots(ctx context.Context, activityID int64, daysAhead int, slots []domain.TripSlot) error {
	payload, err := json.Marshal(slots)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, slotsKey(activityID, daysAhead), payload, c.slotsTTL).Err()
}

func (c *RedisCache) InvalidateSlots(ctx context.Context, activityID int64) error {
	iter := c.client.Scan(ctx, 0, fmt.Sprintf("cache:slots:%d:*", activityID), 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// AcquireBookingHold guards against double-submits of the same booking
// while the payment flow is in flight.
func (c *RedisCache) AcquireBookingHold(ctx context.Context, slotID int64, email string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, holdKey(slotID, email), "held", ttl).Result()
}

func (c *RedisCache) ReleaseBookingHold(ctx context.Context, slotID int64, email string) error {
	return c.client.Del(ctx, holdKey(slotID, email)).Err()
}

func slotsKey(activityID int64, daysAhead int) string {
	return fmt.Sprintf("cache:slots:%d:%d", activityID, daysAhead)
}

func holdKey(slotID int64, email string) string {
	return fmt.Sprintf("hold:slot:%d:%s", slotID, email)
}
