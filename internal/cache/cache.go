package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReportCache keeps raw vendor payloads in Redis so repeat lookups for the
// same parcel do not burn vendor quota. Entries carry a stale horizon: a
// stale hit is still served, flagged, and left for the caller to refresh.
type ReportCache struct {
	rdb        *redis.Client
	ttl        time.Duration
	staleAfter time.Duration
}

// Envelope wraps one cached payload with its fetch metadata.
type Envelope struct {
	Payload    json.RawMessage `json:"payload"`
	FetchedAt  time.Time       `json:"fetched_at"`
	StaleAfter time.Time       `json:"stale_after"`
}

func New(addr, password string, db int, ttl, staleAfter time.Duration) *ReportCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if staleAfter <= 0 {
		staleAfter = 5 * time.Minute
	}
	return &ReportCache{
		rdb:        redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
		ttl:        ttl,
		staleAfter: staleAfter,
	}
}

func (c *ReportCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func key(env, endpoint, propertyKey string) string {
	return "report:" + env + ":" + endpoint + ":" + propertyKey
}

// Lookup returns the cached payload and whether it is past its stale horizon.
// A miss returns (nil, false, nil).
func (c *ReportCache) Lookup(ctx context.Context, env, endpoint, propertyKey string) (*Envelope, bool, error) {
	val, err := c.rdb.Get(ctx, key(env, endpoint, propertyKey)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var envl Envelope
	if err := json.Unmarshal([]byte(val), &envl); err != nil {
		return nil, false, nil // poisoned entry, treat as miss
	}
	return &envl, time.Now().After(envl.StaleAfter), nil
}

// Store writes a fresh payload with the configured TTL.
func (c *ReportCache) Store(ctx context.Context, env, endpoint, propertyKey string, payload []byte) error {
	now := time.Now()
	envl := Envelope{
		Payload:    payload,
		FetchedAt:  now,
		StaleAfter: now.Add(c.staleAfter),
	}
	b, err := json.Marshal(envl)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key(env, endpoint, propertyKey), string(b), c.ttl).Err()
}
