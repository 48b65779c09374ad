// Package session stores wizard sessions in a key-value store with expiry.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/cityscout/internal/db"
	"github.com/kailas-cloud/cityscout/internal/domain"
	"github.com/kailas-cloud/cityscout/internal/domain/wizard"
)

// DefaultPrefix namespaces session keys.
const DefaultPrefix = "cityscout:session:"

// store is the consumer interface for session persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Repo implements usecase/session.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates a session repository. An empty prefix uses DefaultPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// Save writes the state and resets its TTL.
func (r *Repo) Save(ctx context.Context, id string, s wizard.State, ttl time.Duration) error {
	data, err := encodeState(s)
	if err != nil {
		return err
	}
	if err := r.store.SetWithTTL(ctx, r.key(id), data, ttl); err != nil {
		return fmt.Errorf("set session %s: %w", id, err)
	}
	return nil
}

// Load reads a state.
func (r *Repo) Load(ctx context.Context, id string) (wizard.State, error) {
	data, err := r.store.Get(ctx, r.key(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return wizard.State{}, domain.ErrSessionNotFound
		}
		return wizard.State{}, fmt.Errorf("get session %s: %w", id, err)
	}
	return decodeState(data)
}

// Delete removes a state.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, r.key(id)); err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.ErrSessionNotFound
		}
		return fmt.Errorf("del session %s: %w", id, err)
	}
	return nil
}

func (r *Repo) key(id string) string { return r.prefix + id }
