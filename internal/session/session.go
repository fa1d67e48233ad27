package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Session binds an opaque id to a user until ExpiresAt.
type Session struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether s is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store keeps sessions server-side. Load returns (nil, nil) for unknown or
// expired ids.
type Store interface {
	Save(ctx context.Context, id string, s Session) error
	Load(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// NewID returns 32 random bytes, hex encoded.
func NewID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
