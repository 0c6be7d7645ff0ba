package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss is returned when a key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

const (
	reportPrefix     = "report:"
	preferencePrefix = "pref:"
)

type Client struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

func (c *Client) setJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return c.rdb.Set(ctx, key, jsonData, ttl).Err()
}

func (c *Client) getJSON(ctx context.Context, key string, dest interface{}) error {
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get %s: %w", key, err)
	}
	return json.Unmarshal([]byte(val), dest)
}

// Report caching
func (c *Client) SetReport(ctx context.Context, key string, report interface{}, ttl time.Duration) error {
	return c.setJSON(ctx, reportPrefix+key, report, ttl)
}

func (c *Client) GetReport(ctx context.Context, key string, dest interface{}) error {
	return c.getJSON(ctx, reportPrefix+key, dest)
}

// Preferences are small per-user UI settings.
func preferenceKey(userID, key string) string {
	return preferencePrefix + userID + ":" + key
}

func (c *Client) SetPreference(ctx context.Context, userID, key string, value json.RawMessage, ttl time.Duration) error {
	return c.rdb.Set(ctx, preferenceKey(userID, key), []byte(value), ttl).Err()
}

func (c *Client) GetPreference(ctx context.Context, userID, key string) (json.RawMessage, error) {
	val, err := c.rdb.Get(ctx, preferenceKey(userID, key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get preference: %w", err)
	}
	return json.RawMessage(val), nil
}

func (c *Client) DeletePreference(ctx context.Context, userID, key string) error {
	return c.rdb.Del(ctx, preferenceKey(userID, key)).Err()
}

// ClearReports removes every cached report and returns how many keys went.
func (c *Client) ClearReports(ctx context.Context) (int64, error) {
	return c.deletePrefix(ctx, reportPrefix)
}

// ClearPreferences removes every stored preference.
func (c *Client) ClearPreferences(ctx context.Context) (int64, error) {
	return c.deletePrefix(ctx, preferencePrefix)
}

func (c *Client) deletePrefix(ctx context.Context, prefix string) (int64, error) {
	var deleted int64
	iter := c.rdb.Scan(ctx, 0, prefix+"*", 200).Iterator()
	batch := make([]string, 0, 200)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			n, err := c.rdb.Del(ctx, batch...).Result()
			if err != nil {
				return deleted, err
			}
			deleted += n
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, err
	}
	if len(batch) > 0 {
		n, err := c.rdb.Del(ctx, batch...).Result()
		if err != nil {
			return deleted, err
		}
		deleted += n
	}
	return deleted, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
