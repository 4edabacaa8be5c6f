package store

import (
	"context"
	"encoding/json"
	"time"

	valkey "github.com/valkey-io/valkey-go"
)

// ValkeyTokenStore stores tokens in Valkey (Redis-compatible) for
// multi-node deployments. Records are JSON values under prefix+id with
// a server-side TTL; lookups still verify expiry against the record's
// own timestamp so a lagging server clock cannot extend a token.
type ValkeyTokenStore struct {
	client valkey.Client
	prefix string
	cfg    TokenConfig
}

// NewValkeyTokenStore connects to addr (e.g. "127.0.0.1:6379"). The
// prefix namespaces keys; empty defaults to "pkgauth:".
func NewValkeyTokenStore(addr, prefix string, cfg TokenConfig) (*ValkeyTokenStore, error) {
	cli, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{addr}})
	if err != nil {
		return nil, err
	}
	if prefix == "" {
		prefix = "pkgauth:"
	}
	return &ValkeyTokenStore{client: cli, prefix: prefix, cfg: cfg.withDefaults()}, nil
}

func (s *ValkeyTokenStore) key(id string) string { return s.prefix + "token:" + id }

// Issue stores a new token record with a server-side TTL.
func (s *ValkeyTokenStore) Issue(ctx context.Context, params IssueParams) (*AuthToken, error) {
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

	cmd := s.client.B().Set().Key(s.key(id)).Value(string(jv)).Ex(s.cfg.TTL).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return nil, err
	}
	return tok, nil
}

// Authorize rewrites the record as authorized, keeping the original TTL.
func (s *ValkeyTokenStore) Authorize(ctx context.Context, id string) (*AuthorizedInfo, error) {
	tok, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if tok == nil || !now.Before(tok.ExpiresAt) {
		return nil, ErrNotFound
	}

	first := !tok.Authorized
	tok.Authorized = true

	jv, err := json.Marshal(tok)
	if err != nil {
		return nil, err
	}
	cmd := s.client.B().Set().Key(s.key(id)).Value(string(jv)).Keepttl().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return nil, err
	}

	return &AuthorizedInfo{
		Subject:         tok.Subject,
		Kind:            tok.Kind,
		Locale:          tok.Locale,
		FirstTransition: first,
	}, nil
}

// Status reports liveness for the given id without mutating it.
func (s *ValkeyTokenStore) Status(ctx context.Context, id string) (*TokenStatus, error) {
	tok, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return &TokenStatus{}, nil
	}
	return statusOf(tok, time.Now().UTC()), nil
}

// Close releases the client connection pool.
func (s *ValkeyTokenStore) Close() error {
	s.client.Close()
	return nil
}

// get fetches and unmarshals a record; missing keys return (nil, nil).
func (s *ValkeyTokenStore) get(ctx context.Context, id string) (*AuthToken, error) {
	res := s.client.Do(ctx, s.client.B().Get().Key(s.key(id)).Build())
	if err := res.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}
	val, err := res.ToString()
	if err != nil {
		return nil, err
	}
	var tok AuthToken
	if err := json.Unmarshal([]byte(val), &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}
