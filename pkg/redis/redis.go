package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/halildurmus/hotdeals-backend/config"
	"github.com/halildurmus/hotdeals-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

const viewKeyPrefix = "deal:views:"

// Init initializes the Redis connection. Redis is optional: when it is not
// configured the deal ledger falls back to direct database view counting.
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client = nil
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// Available reports whether a Redis connection has been established.
func Available() bool {
	return client != nil
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// IncrementDealViews bumps the pending view counter for a deal. Counters are
// drained to the database by the view-flush scheduler job.
func IncrementDealViews(ctx context.Context, dealID string) error {
	if client == nil {
		return fmt.Errorf("redis is not initialized")
	}
	return client.Incr(ctx, viewKeyPrefix+dealID).Err()
}

// DrainDealViews atomically collects and resets all pending view counters,
// returning dealID -> accumulated views. Counters read as zero are skipped.
func DrainDealViews(ctx context.Context) (map[string]int, error) {
	if client == nil {
		return nil, fmt.Errorf("redis is not initialized")
	}

	counts := make(map[string]int)

	iter := client.Scan(ctx, 0, viewKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()

		val, err := client.GetDel(ctx, key).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return counts, err
		}

		n, err := strconv.Atoi(val)
		if err != nil || n <= 0 {
			continue
		}
		counts[key[len(viewKeyPrefix):]] = n
	}
	if err := iter.Err(); err != nil {
		return counts, err
	}

	return counts, nil
}
