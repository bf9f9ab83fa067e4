package cache

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps Redis for the two read-side concerns of this service:
// short-lived seat-map snapshots for display, and the Basic Auth fast
// path. Booking decisions never read from here.
type Client struct {
	client       *redis.Client
	usersHashKey string
	seatMapTTL   time.Duration
}

type Config struct {
	Addr          string
	Password      string
	DB            int
	UsersHashKey  string
	SeatMapTTLSec int
}

func NewClient(cfg Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{
		client:       rdb,
		usersHashKey: cfg.UsersHashKey,
		seatMapTTL:   time.Duration(cfg.SeatMapTTLSec) * time.Second,
	}, nil
}

func seatMapKey(screeningID int64) string {
	return fmt.Sprintf("seatmap:%d", screeningID)
}

// GetSeatMapRaw returns the cached seat-map JSON for a screening.
// Raw bytes are kept to skip the unmarshal/marshal round trip.
func (c *Client) GetSeatMapRaw(ctx context.Context, screeningID int64) ([]byte, error) {
	data, err := c.client.Get(ctx, seatMapKey(screeningID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("seat map not in cache")
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}
	return data, nil
}

// SetSeatMap stores a seat-map snapshot with a short TTL. The snapshot is
// display-only and allowed to go stale; the allocator recomputes
// availability under row locks regardless.
func (c *Client) SetSeatMap(ctx context.Context, screeningID int64, seatMap interface{}) {
	data, err := json.Marshal(seatMap)
	if err != nil {
		return
	}
	c.client.Set(ctx, seatMapKey(screeningID), data, c.seatMapTTL)
}

// InvalidateSeatMap drops the snapshot after a mutation so the display
// catches up before the TTL would expire it.
func (c *Client) InvalidateSeatMap(ctx context.Context, screeningID int64) {
	c.client.Del(ctx, seatMapKey(screeningID))
}

// GetUserIDByAuth resolves a user id from cached credentials.
func (c *Client) GetUserIDByAuth(ctx context.Context, email, passwordHash string) (int64, error) {
	authString := fmt.Sprintf("%s:%s", email, passwordHash)
	cacheKey := base64.StdEncoding.EncodeToString([]byte(authString))

	userIDStr, err := c.client.HGet(ctx, c.usersHashKey, cacheKey).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, fmt.Errorf("user not found in cache")
		}
		return 0, fmt.Errorf("cache lookup error: %w", err)
	}

	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID in cache: %w", err)
	}

	return userID, nil
}

// SetUserAuth caches verified credentials for subsequent requests.
func (c *Client) SetUserAuth(ctx context.Context, email, passwordHash string, userID int64) {
	authString := fmt.Sprintf("%s:%s", email, passwordHash)
	cacheKey := base64.StdEncoding.EncodeToString([]byte(authString))
	c.client.HSet(ctx, c.usersHashKey, cacheKey, strconv.FormatInt(userID, 10))
}

// HashPassword returns the hex SHA-256 digest used for stored passwords
// and cache keys.
func HashPassword(password string) string {
	hash := sha256.Sum256([]byte(password))
	return fmt.Sprintf("%x", hash)
}

func (c *Client) Close() error {
	return c.client.Close()
}
