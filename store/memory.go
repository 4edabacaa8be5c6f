package store

import (
	"context"
	"sync"
	"time"
)

// MemoryTokenStore keeps tokens in a mutex-guarded map with a single
// periodic sweep goroutine evicting expired records. The expected
// concurrency is low (tens of live tokens), so one coarse lock covers
// the whole table.
type MemoryTokenStore struct {
	cfg TokenConfig

	mu     sync.Mutex
	tokens map[string]*AuthToken

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryTokenStore creates an in-memory store and starts its sweeper.
func NewMemoryTokenStore(cfg TokenConfig) *MemoryTokenStore {
	s := &MemoryTokenStore{
		cfg:    cfg.withDefaults(),
		tokens: make(map[string]*AuthToken),
		stop:   make(chan struct{}),
	}
	go s.sweepLoop()
	return s
}

// Issue creates a new token record with a random id and fixed TTL.
func (s *MemoryTokenStore) Issue(ctx context.Context, params IssueParams) (*AuthToken, error) {
	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.MaxActive > 0 && len(s.tokens) >= s.cfg.MaxActive {
		// Evicting expired records may free a slot before giving up.
		s.evictExpiredLocked(now)
		if len(s.tokens) >= s.cfg.MaxActive {
			return nil, ErrCapacity
		}
	}

	id, err := generateTokenID(s.cfg.EntropyBytes)
	if err != nil {
		return nil, err
	}
	// 256-bit ids never collide in practice; the check keeps the
	// uniqueness invariant explicit anyway.
	for {
		if _, exists := s.tokens[id]; !exists {
			break
		}
		if id, err = generateTokenID(s.cfg.EntropyBytes); err != nil {
			return nil, err
		}
	}

	tok := &AuthToken{
		ID:        id,
		Recipient: params.Recipient,
		Subject:   params.Subject,
		Kind:      params.Kind,
		Locale:    params.Locale,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.TTL),
	}
	s.tokens[id] = tok

	out := *tok
	return &out, nil
}

// Authorize marks a live token as authorized. The transition is one-way
// and idempotent: repeating the call on a live token returns the same
// snapshot with FirstTransition false.
func (s *MemoryTokenStore) Authorize(ctx context.Context, id string) (*AuthorizedInfo, error) {
	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	tok, ok := s.tokens[id]
	if !ok || !now.Before(tok.ExpiresAt) {
		// Expired-but-unswept must look identical to never-issued.
		return nil, ErrNotFound
	}

	first := !tok.Authorized
	tok.Authorized = true

	return &AuthorizedInfo{
		Subject:         tok.Subject,
		Kind:            tok.Kind,
		Locale:          tok.Locale,
		FirstTransition: first,
	}, nil
}

// Status reports liveness for the given id. Pure read.
func (s *MemoryTokenStore) Status(ctx context.Context, id string) (*TokenStatus, error) {
	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	tok, ok := s.tokens[id]
	if !ok {
		return &TokenStatus{}, nil
	}
	return statusOf(tok, now), nil
}

// Close stops the sweep goroutine. Safe to call more than once.
func (s *MemoryTokenStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

// Len reports the number of physically stored records, expired included.
func (s *MemoryTokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

func (s *MemoryTokenStore) sweepLoop() {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.evictExpiredLocked(time.Now().UTC())
			s.mu.Unlock()
		}
	}
}

func (s *MemoryTokenStore) evictExpiredLocked(now time.Time) {
	for id, tok := range s.tokens {
		if !now.Before(tok.ExpiresAt) {
			delete(s.tokens, id)
		}
	}
}
