package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/TRHS-OMNIA/crew-backend/config"
)

// Client wraps the Redis connection. It backs the rate limiter and a
// best-effort scan-status cache for QR polling; callers must tolerate a nil
// Client and fall back to the database.
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient connects to Redis and verifies the connection with a ping.
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── rate limiting ──

// CheckRateLimit implements a fixed-window counter. Returns false once the
// window holds more than limit requests.
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(limit), nil
}

// ── QR scan-status cache ──

const scannedPrefix = "qr:scanned:"

func scannedKey(qrid, userID string) string {
	return scannedPrefix + qrid + ":" + userID
}

// MarkScanned records that a QR token has been scanned. Entries are keyed on
// the issuing user so polls never read another user's code; the entry carries
// the ttl of the remaining poll window and the database stays the source of
// truth.
func (c *Client) MarkScanned(ctx context.Context, qrid, userID string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return c.rdb.Set(ctx, scannedKey(qrid, userID), "1", ttl).Err()
}

// WasScanned reports whether the scan-status cache has seen qrid for its
// issuing user. A miss means "unknown", not "unscanned".
func (c *Client) WasScanned(ctx context.Context, qrid, userID string) (bool, error) {
	n, err := c.rdb.Exists(ctx, scannedKey(qrid, userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
