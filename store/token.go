package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// Kind selects which result-message variant downstream rendering uses.
type Kind string

const (
	KindStandard  Kind = "standard"
	KindSuspended Kind = "suspended"
)

// Valid reports whether k is one of the known package kinds.
func (k Kind) Valid() bool {
	return k == KindStandard || k == KindSuspended
}

var (
	// ErrNotFound is returned when a token id is unknown, already evicted,
	// or past its expiry. Callers must not be able to distinguish the three.
	ErrNotFound = errors.New("token not found or expired")

	// ErrCapacity is returned when the store cannot accept a new record.
	ErrCapacity = errors.New("token store at capacity")
)

// TokenConfig holds configuration for token issuance and eviction.
type TokenConfig struct {
	TTL           time.Duration // validity window after issuance (default: 20 min)
	EntropyBytes  int           // random id size in bytes (default: 32)
	SweepInterval time.Duration // background eviction cadence (default: 1 min)
	MaxActive     int           // cap on live records, 0 = unlimited
}

// DefaultTokenConfig returns sensible defaults.
func DefaultTokenConfig() TokenConfig {
	return TokenConfig{
		TTL:           20 * time.Minute,
		EntropyBytes:  32,
		SweepInterval: time.Minute,
		MaxActive:     10000,
	}
}

func (c TokenConfig) withDefaults() TokenConfig {
	d := DefaultTokenConfig()
	if c.TTL <= 0 {
		c.TTL = d.TTL
	}
	if c.EntropyBytes <= 0 {
		c.EntropyBytes = d.EntropyBytes
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = d.SweepInterval
	}
	return c
}

// AuthToken represents one pending or resolved authorization request.
type AuthToken struct {
	ID         string    `json:"id"`
	Recipient  string    `json:"recipient"`
	Subject    string    `json:"subject"`
	Kind       Kind      `json:"kind"`
	Locale     string    `json:"locale"`
	Authorized bool      `json:"authorized"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// IssueParams carries the caller-supplied fields for a new token.
type IssueParams struct {
	Recipient string
	Subject   string
	Kind      Kind
	Locale    string
}

// AuthorizedInfo is the snapshot returned by a successful Authorize call.
// FirstTransition is true only for the call that flipped the token to
// authorized, so callers can fire one-shot notifications.
type AuthorizedInfo struct {
	Subject         string
	Kind            Kind
	Locale          string
	FirstTransition bool
}

// TokenStatus is the read-only view of a token's liveness.
type TokenStatus struct {
	Exists        bool
	Authorized    bool
	Expired       bool
	Subject       string
	TimeRemaining time.Duration
}

// TokenStore owns the lifecycle of authorization tokens: issuance,
// time-bounded validity, the one-way transition to authorized, and
// expiry-driven eviction. Expiry is always checked against wall-clock
// time at lookup; the background sweep only bounds memory.
type TokenStore interface {
	// Issue creates a token with an unguessable id and a fixed TTL.
	// Returns ErrCapacity when the store cannot accept a new record.
	Issue(ctx context.Context, params IssueParams) (*AuthToken, error)

	// Authorize flips the token to authorized and returns its snapshot.
	// Idempotent on live, already-authorized tokens. Returns ErrNotFound
	// for unknown, evicted, or expired ids.
	Authorize(ctx context.Context, id string) (*AuthorizedInfo, error)

	// Status reports liveness without mutating anything.
	Status(ctx context.Context, id string) (*TokenStatus, error)

	// Close releases background resources (sweeper, connections).
	Close() error
}

// generateTokenID creates a cryptographically random hex id of n bytes.
// The id is the sole access-control factor for the authorize action, so
// entropy below 16 bytes is rejected outright.
func generateTokenID(n int) (string, error) {
	if n < 16 {
		return "", fmt.Errorf("token entropy too small: %d bytes", n)
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// statusOf derives a TokenStatus from a record at the given instant.
func statusOf(tok *AuthToken, now time.Time) *TokenStatus {
	st := &TokenStatus{
		Exists:     true,
		Authorized: tok.Authorized,
		Subject:    tok.Subject,
	}
	if !now.Before(tok.ExpiresAt) {
		st.Expired = true
		return st
	}
	st.TimeRemaining = tok.ExpiresAt.Sub(now)
	return st
}
