package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis stores sessions as JSON under "<prefix><id>" with a matching TTL, so
// expiry is enforced by Redis itself.
type Redis struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedis builds a store on client. An empty prefix defaults to "session:".
func NewRedis(client *redis.Client, prefix string, now func() time.Time) *Redis {
	if prefix == "" {
		prefix = "session:"
	}
	if now == nil {
		now = time.Now
	}
	return &Redis{client: client, prefix: prefix, now: now}
}

// Save writes s under id with a TTL matching its remaining lifetime.
func (r *Redis) Save(ctx context.Context, id string, s Session) error {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return errors.New("session already expired")
	}
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.prefix+id, b, ttl).Err()
}

// Load returns the live session for id, or nil.
func (r *Redis) Load(ctx context.Context, id string) (*Session, error) {
	b, err := r.client.Get(ctx, r.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.Expired(r.now()) {
		return nil, nil
	}
	return &s, nil
}

// Delete removes id; unknown ids are ignored.
func (r *Redis) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.prefix+id).Err()
}
