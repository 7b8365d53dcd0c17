// internal/service/revenue/cache.go
package revenue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	reportKeyPrefix = "parkdesk:revenue:"
	reportTTL       = 30 * time.Second
)

// ReportCache keeps named-window reports in redis for the dashboard's
// polling loop. Cache misses and redis failures both fall through to a
// fresh aggregation, so the cache is never load-bearing.
type ReportCache struct {
	client *redis.Client
	logger *zap.Logger
}

func NewReportCache(client *redis.Client, logger *zap.Logger) *ReportCache {
	return &ReportCache{client: client, logger: logger}
}

func (c *ReportCache) Get(ctx context.Context, window string) (*Report, bool) {
	raw, err := c.client.Get(ctx, reportKeyPrefix+window).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("revenue cache read failed", zap.String("window", window), zap.Error(err))
		return nil, false
	}

	var report Report
	if err := json.Unmarshal(raw, &report); err != nil {
		c.logger.Warn("revenue cache entry corrupt", zap.String("window", window), zap.Error(err))
		return nil, false
	}
	return &report, true
}

func (c *ReportCache) Set(ctx context.Context, window string, report *Report) {
	raw, err := json.Marshal(report)
	if err != nil {
		c.logger.Warn("revenue cache marshal failed", zap.String("window", window), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, reportKeyPrefix+window, raw, reportTTL).Err(); err != nil {
		c.logger.Warn("revenue cache write failed", zap.String("window", window), zap.Error(err))
	}
}
