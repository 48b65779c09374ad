package redis

import (
	"context"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/cityscout/internal/db"
)

// Get retrieves a value by key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	cmd := s.b().Get().Key(key).Build()
	data, err := s.do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return data, nil
}

// SetWithTTL stores a value with an expiration.
func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	cmd := s.b().Set().Key(key).Value(rueidis.BinaryString(value)).Ex(ttl).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// Expire resets the TTL of a key. A missing key yields db.ErrKeyNotFound.
func (s *Store) Expire(ctx context.Context, key string, ttl time.Duration) error {
	cmd := s.b().Expire().Key(key).Seconds(int64(ttl.Seconds())).Build()
	n, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return &db.Error{Op: db.OpExpire, Err: err}
	}
	if n == 0 {
		return db.ErrKeyNotFound
	}
	return nil
}

// Del removes a key. A missing key yields db.ErrKeyNotFound.
func (s *Store) Del(ctx context.Context, key string) error {
	cmd := s.b().Del().Key(key).Build()
	n, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	if n == 0 {
		return db.ErrKeyNotFound
	}
	return nil
}
