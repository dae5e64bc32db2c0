package redis

import (
	"context"
	"fmt"
	"log"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Read-side cache keys. The store stays the source of truth; everything
// here is reconciled explicitly after each mutation.
const (
	rideFeedKey    = "rides:feed"
	rideFeedTTL    = 30 * time.Second
	reservationTTL = 24 * time.Hour
)

// Client wraps the Redis connection.
type Client struct {
	rdb *goredis.Client
}

// NewClient connects to Redis with retry.
func NewClient(addr string) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	for i := 0; i < 20; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(ctx).Err(); err == nil {
			cancel()
			log.Println("[redis] connected")
			return &Client{rdb: rdb}, nil
		}
		cancel()
		log.Printf("[redis] waiting for Redis... (%d/20)", i+1)
		time.Sleep(2 * time.Second)
	}
	return nil, fmt.Errorf("redis: failed to connect after 20 attempts")
}

func reservationKey(userID string) string { return "user:" + userID + ":reservations" }

// AddReservation records a ride id in the user's reservation set.
func (c *Client) AddReservation(ctx context.Context, userID, rideID string) error {
	key := reservationKey(userID)
	pipe := c.rdb.Pipeline()
	pipe.SAdd(ctx, key, rideID)
	pipe.Expire(ctx, key, reservationTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// RemoveReservation drops a ride id from the user's reservation set.
func (c *Client) RemoveReservation(ctx context.Context, userID, rideID string) error {
	return c.rdb.SRem(ctx, reservationKey(userID), rideID).Err()
}

// Reservations returns the cached reservation set for a user. An empty
// result may mean a cold cache; callers fall back to the store.
func (c *Client) Reservations(ctx context.Context, userID string) ([]string, error) {
	return c.rdb.SMembers(ctx, reservationKey(userID)).Result()
}

// FillReservations replaces the user's reservation set from the store.
func (c *Client) FillReservations(ctx context.Context, userID string, rideIDs []string) error {
	key := reservationKey(userID)
	pipe := c.rdb.Pipeline()
	pipe.Del(ctx, key)
	if len(rideIDs) > 0 {
		members := make([]any, len(rideIDs))
		for i, id := range rideIDs {
			members[i] = id
		}
		pipe.SAdd(ctx, key, members...)
	}
	pipe.Expire(ctx, key, reservationTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// CacheRideFeed stores the marshalled anonymous ride listing.
func (c *Client) CacheRideFeed(ctx context.Context, payload []byte) error {
	return c.rdb.Set(ctx, rideFeedKey, payload, rideFeedTTL).Err()
}

// RideFeed returns the cached listing, or nil on a miss.
func (c *Client) RideFeed(ctx context.Context) ([]byte, error) {
	data, err := c.rdb.Get(ctx, rideFeedKey).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	return data, err
}

// InvalidateRideFeed drops the cached listing after any ride mutation.
func (c *Client) InvalidateRideFeed(ctx context.Context) error {
	return c.rdb.Del(ctx, rideFeedKey).Err()
}

// Close tears down the Redis connection.
func (c *Client) Close() error { return c.rdb.Close() }
