// Package redisstore keeps session records in Redis so they can be revoked
// before their cookie expires.
//
// Each record is stored as JSON under prefix + sha256(token) with a TTL equal
// to its remaining lifetime. A set per user indexes that user's keys for
// DeleteByUserID.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/websession/pkg/session"
)

const DefaultPrefix = "websession:"

// Store implements session.Store and session.UserRevoker on Redis.
type Store struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix namespaces every key.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithClock overrides the clock used to compute TTLs.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a store on client.
func New(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: DefaultPrefix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	_ session.Store       = (*Store)(nil)
	_ session.UserRevoker = (*Store)(nil)
)

// Save stores rec until it expires. Already expired records are not stored.
func (s *Store) Save(ctx context.Context, token string, rec session.Record) error {
	if token == "" || rec.UserID == "" {
		return session.ErrInvalidRecord
	}
	ttl := rec.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return session.ErrInvalidRecord
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	key := s.sessionKey(token)
	userKey := s.userKey(rec.UserID)

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, data, ttl)
		pipe.SAdd(ctx, userKey, key)
		// the index lives as long as the longest session in it
		pipe.ExpireGT(ctx, userKey, ttl)
		pipe.ExpireNX(ctx, userKey, ttl)
		return nil
	})
	return err
}

// Get returns the record for token or session.ErrSessionNotFound.
func (s *Store) Get(ctx context.Context, token string) (session.Record, error) {
	data, err := s.client.Get(ctx, s.sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return session.Record{}, session.ErrSessionNotFound
	}
	if err != nil {
		return session.Record{}, err
	}

	var rec session.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return session.Record{}, err
	}
	return rec, nil
}

// Delete removes the record for token. Unknown tokens are ignored.
func (s *Store) Delete(ctx context.Context, token string) error {
	key := s.sessionKey(token)

	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		var rec session.Record
		if json.Unmarshal(data, &rec) == nil && rec.UserID != "" {
			pipe.SRem(ctx, s.userKey(rec.UserID), key)
		}
		return nil
	})
	return err
}

// DeleteByUserID removes every session of userID.
func (s *Store) DeleteByUserID(ctx context.Context, userID string) error {
	userKey := s.userKey(userID)

	keys, err := s.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(keys) > 0 {
			pipe.Del(ctx, keys...)
		}
		pipe.Del(ctx, userKey)
		return nil
	})
	return err
}

func (s *Store) sessionKey(token string) string {
	return s.prefix + "session:" + session.TokenKey(token)
}

func (s *Store) userKey(userID string) string {
	return s.prefix + "user:" + userID
}
