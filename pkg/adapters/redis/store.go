package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/orderbot/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

const defaultPrefix = "orderbot:"

// farFuture is the index score used for sessions without expiration (2100-01-01).
const farFuture = 4102444800

// Store implements ports.SessionStore using Redis.
// State and cart id are kept under separate keys: <prefix>state:<user> and <prefix>cart:<user>.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for session keys.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for sessions.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
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

// Client exposes the underlying connection so a Locker can share it.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) stateKey(userID string) string {
	return s.prefix + "state:" + userID
}

func (s *Store) cartKey(userID string) string {
	return s.prefix + "cart:" + userID
}

func (s *Store) indexKey() string {
	return s.prefix + "sessions"
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStoreUnavailable, op, err)
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

// GetState reads the committed state. The value is returned as stored;
// validation against the dispatch table is the coordinator's job.
func (s *Store) GetState(ctx context.Context, userID string) (domain.StateName, error) {
	val, err := s.client.Get(ctx, s.stateKey(userID)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return "", domain.ErrSessionNotFound
		}
		return "", unavailable("get state", err)
	}
	return domain.StateName(val), nil
}

// SetState overwrites the state and refreshes the session index.
func (s *Store) SetState(ctx context.Context, userID string, state domain.StateName) error {
	pipe := s.client.TxPipeline()

	pipe.Set(ctx, s.stateKey(userID), string(state), s.ttl)

	// Score = Now + TTL, so List can prune lazily.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = farFuture
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: userID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return unavailable("set state", err)
	}
	return nil
}

// GetCartID returns the cached cart id, ok == false when none is cached.
func (s *Store) GetCartID(ctx context.Context, userID string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.cartKey(userID)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return "", false, nil
		}
		return "", false, unavailable("get cart id", err)
	}
	return val, true, nil
}

// SetCartID caches the cart id.
func (s *Store) SetCartID(ctx context.Context, userID, cartID string) error {
	if err := s.client.Set(ctx, s.cartKey(userID), cartID, s.ttl).Err(); err != nil {
		return unavailable("set cart id", err)
	}
	return nil
}

// Delete removes state, cart id and index entry.
func (s *Store) Delete(ctx context.Context, userID string) error {
	pipe := s.client.TxPipeline()

	pipe.Del(ctx, s.stateKey(userID), s.cartKey(userID))
	pipe.ZRem(ctx, s.indexKey(), userID)

	if _, err := pipe.Exec(ctx); err != nil {
		return unavailable("delete", err)
	}
	return nil
}

// List returns users with a live session, pruning expired index entries first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())

	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, unavailable("prune sessions", err)
	}

	users, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, unavailable("list sessions", err)
	}

	return users, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
