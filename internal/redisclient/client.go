package redisclient

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	catalogKey     = "catalog:food"
	bestsellersKey = "sales:bestsellers"
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetCatalog returns the cached catalog listing, nil if not cached
func (c *Client) GetCatalog(ctx context.Context) ([]byte, error) {
	data, err := c.rdb.Get(ctx, catalogKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// SetCatalog caches the serialized catalog listing
func (c *Client) SetCatalog(ctx context.Context, data []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, catalogKey, data, ttl).Err()
}

// InvalidateCatalog drops the cached catalog listing
func (c *Client) InvalidateCatalog(ctx context.Context) error {
	return c.rdb.Del(ctx, catalogKey).Err()
}

// IncrementSales bumps the best-sellers leaderboard for a food item
func (c *Client) IncrementSales(ctx context.Context, foodID int64, quantity int) error {
	return c.rdb.ZIncrBy(ctx, bestsellersKey, float64(quantity), strconv.FormatInt(foodID, 10)).Err()
}

// TopSellers returns food ids with their sold counts, best first
func (c *Client) TopSellers(ctx context.Context, limit int) (map[int64]int64, []int64, error) {
	results, err := c.rdb.ZRevRangeWithScores(ctx, bestsellersKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, nil, err
	}

	sold := make(map[int64]int64, len(results))
	order := make([]int64, 0, len(results))
	for _, z := range results {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		foodID, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		sold[foodID] = int64(z.Score)
		order = append(order, foodID)
	}
	return sold, order, nil
}
