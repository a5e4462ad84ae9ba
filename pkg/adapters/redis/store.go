// Package redis persists exploration progress in Redis, for runs whose
// working directory is ephemeral (containers, spot instances) or that report
// progress to a shared dashboard. The whole table travels as a single JSON
// value, keeping the same full-replacement semantics as the file store.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
)

const defaultPrefix = "ifexplore:"

// Store implements ports.ProgressStore on a Redis key.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets the key prefix. The default is "ifexplore:".
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithTTL makes saved progress expire. Zero, the default, keeps it forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// New creates a store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a store from an existing client. The caller keeps
// ownership of the client unless it hands it over and uses Close.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: defaultPrefix,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key() string {
	return s.prefix + "progress"
}

// Save replaces the stored table with p.
func (s *Store) Save(ctx context.Context, p *domain.Progress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	if err := s.client.Set(ctx, s.key(), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save progress to redis: %w", err)
	}
	return nil
}

// Load returns the stored table, or domain.ErrNoProgress when the key does
// not exist (never saved, reset, or expired).
func (s *Store) Load(ctx context.Context) (*domain.Progress, error) {
	val, err := s.client.Get(ctx, s.key()).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrNoProgress
		}
		return nil, fmt.Errorf("load progress from redis: %w", err)
	}

	var p domain.Progress
	if err := json.Unmarshal([]byte(val), &p); err != nil {
		return nil, fmt.Errorf("parse stored progress: %w", err)
	}
	if p.Entries == nil {
		p.Entries = make(map[string]domain.StrandStats)
	}
	return &p, nil
}

// Reset deletes the stored table.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key()).Err(); err != nil {
		return fmt.Errorf("reset progress in redis: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
