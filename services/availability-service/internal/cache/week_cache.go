package cache

import (
	"context"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/md-rashed-zaman/openhours/services/availability-service/internal/bitset"
)

// WeekCache keeps raw week bitmaps in Redis so hot week reads skip SQL
// entirely. Every failure is treated as a miss; the store stays authoritative.
type WeekCache struct {
	rdb    *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

func NewWeekCache(rdb *redis.Client, logger *slog.Logger, ttl time.Duration) *WeekCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &WeekCache{rdb: rdb, logger: logger, ttl: ttl}
}

const dateLayout = "2006-01-02"

func weekKey(providerID string, weekStart time.Time) string {
	return "avail:week:" + providerID + ":" + weekStart.Format(dateLayout)
}

func (c *WeekCache) GetWeek(ctx context.Context, providerID string, weekStart time.Time) (map[string]bitset.Bitmap, bool) {
	raw, err := c.rdb.HGetAll(ctx, weekKey(providerID, weekStart)).Result()
	if err != nil {
		c.logger.Warn("week cache read failed", "err", err)
		return nil, false
	}
	if len(raw) == 0 {
		return nil, false
	}

	week := make(map[string]bitset.Bitmap, len(raw))
	for date, encoded := range raw {
		if date == "_" {
			continue
		}
		b, err := hex.DecodeString(encoded)
		if err != nil || len(b) != bitset.BitmapLen {
			c.logger.Warn("week cache entry corrupt; treating as miss", "date", date)
			return nil, false
		}
		var bm bitset.Bitmap
		copy(bm[:], b)
		week[date] = bm
	}
	return week, true
}

func (c *WeekCache) SetWeek(ctx context.Context, providerID string, weekStart time.Time, week map[string]bitset.Bitmap) {
	key := weekKey(providerID, weekStart)
	// The marker field makes an all-empty week cacheable: HGetAll of a missing
	// key and of an empty week would otherwise be indistinguishable.
	fields := map[string]any{"_": "1"}
	for date, bm := range week {
		fields[date] = hex.EncodeToString(bm[:])
	}

	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn("week cache write failed", "err", err)
	}
}

func (c *WeekCache) Invalidate(ctx context.Context, providerID string, weekStarts ...time.Time) {
	if len(weekStarts) == 0 {
		return
	}
	keys := make([]string, 0, len(weekStarts))
	for _, ws := range weekStarts {
		keys = append(keys, weekKey(providerID, ws))
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("week cache invalidate failed", "err", err)
	}
}
