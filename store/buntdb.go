package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tidwall/buntdb"
)

// BuntTokenStore persists tokens in a buntdb file (or ":memory:") using
// buntdb's native key TTLs for eviction. Liveness is still re-checked
// against wall-clock time on every lookup; the TTL only bounds storage.
type BuntTokenStore struct {
	db  *buntdb.DB
	cfg TokenConfig
}

// NewBuntTokenStore opens (or creates) the buntdb file at path.
// Use ":memory:" for an ephemeral database.
func NewBuntTokenStore(path string, cfg TokenConfig) (*BuntTokenStore, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, err
	}
	return &BuntTokenStore{db: db, cfg: cfg.withDefaults()}, nil
}

func tokenKey(id string) string { return "token:" + id }

// Issue creates a new token record keyed by its random id.
func (s *BuntTokenStore) Issue(ctx context.Context, params IssueParams) (*AuthToken, error) {
	id, err := generateTokenID(s.cfg.EntropyBytes)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	tok := &AuthToken{
		ID:        id,
		Recipient: params.Recipient,
		Subject:   params.Subject,
		Kind:      params.Kind,
		Locale:    params.Locale,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.TTL),
	}

	jv, err := json.Marshal(tok)
	if err != nil {
		return nil, err
	}

	err = s.db.Update(func(tx *buntdb.Tx) error {
		if s.cfg.MaxActive > 0 {
			n := 0
			if err := tx.Ascend("", func(key, value string) bool {
				n++
				return n < s.cfg.MaxActive
			}); err != nil {
				return err
			}
			if n >= s.cfg.MaxActive {
				return ErrCapacity
			}
		}
		_, _, err := tx.Set(tokenKey(id), string(jv), &buntdb.SetOptions{
			Expires: true,
			TTL:     s.cfg.TTL,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return tok, nil
}

// Authorize flips the stored record to authorized, keeping its original
// expiry. Expired records are rejected even if buntdb has not evicted
// them yet.
func (s *BuntTokenStore) Authorize(ctx context.Context, id string) (*AuthorizedInfo, error) {
	var info *AuthorizedInfo
	err := s.db.Update(func(tx *buntdb.Tx) error {
		val, err := tx.Get(tokenKey(id))
		if err != nil {
			if err == buntdb.ErrNotFound {
				return ErrNotFound
			}
			return err
		}

		var tok AuthToken
		if err := json.Unmarshal([]byte(val), &tok); err != nil {
			return err
		}

		now := time.Now().UTC()
		if !now.Before(tok.ExpiresAt) {
			return ErrNotFound
		}

		first := !tok.Authorized
		tok.Authorized = true

		jv, err := json.Marshal(&tok)
		if err != nil {
			return err
		}
		if _, _, err := tx.Set(tokenKey(id), string(jv), &buntdb.SetOptions{
			Expires: true,
			TTL:     tok.ExpiresAt.Sub(now),
		}); err != nil {
			return err
		}

		info = &AuthorizedInfo{
			Subject:         tok.Subject,
			Kind:            tok.Kind,
			Locale:          tok.Locale,
			FirstTransition: first,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// Status reports liveness for the given id without mutating it.
func (s *BuntTokenStore) Status(ctx context.Context, id string) (*TokenStatus, error) {
	st := &TokenStatus{}
	err := s.db.View(func(tx *buntdb.Tx) error {
		val, err := tx.Get(tokenKey(id))
		if err != nil {
			if err == buntdb.ErrNotFound {
				return nil
			}
			return err
		}
		var tok AuthToken
		if err := json.Unmarshal([]byte(val), &tok); err != nil {
			return err
		}
		st = statusOf(&tok, time.Now().UTC())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// Close closes the underlying database.
func (s *BuntTokenStore) Close() error {
	return s.db.Close()
}
