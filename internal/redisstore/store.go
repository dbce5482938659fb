// Package redisstore implements nodestore.Store on top of Redis so that node
// statuses of a running flow are visible to other processes, such as the
// canvas UI polling for busy flags.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/specialistvlad/botgrid/internal/node"
)

const (
	keyPrefix = "botgrid"
	// DefaultTTL bounds how long a status survives a crashed run. A busy key
	// left by a process that died mid-action refuses the node until it
	// expires or Reset is called; the app resets every flow node on startup.
	DefaultTTL = 60 * time.Minute
)

// acquireScript moves a status key to busy unless it already is busy.
var acquireScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if current == ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'EX', ARGV[2])
return 1
`)

// Store implements nodestore.Store using a Redis client.
type Store struct {
	client *redis.Client
	flow   string
	ttl    time.Duration
}

// New creates a store for the given flow on an existing client.
func New(client *redis.Client, flow string) *Store {
	return &Store{client: client, flow: flow, ttl: DefaultTTL}
}

// Connect parses a redis:// URL, verifies the connection and returns a store.
func Connect(ctx context.Context, redisURL, flow string) (*Store, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis url is required")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return New(client, flow), nil
}

// WithTTL returns the store with a different key expiry. Redis expiries
// have second granularity, so shorter values are ignored.
func (s *Store) WithTTL(ttl time.Duration) *Store {
	if ttl >= time.Second {
		s.ttl = ttl
	}
	return s
}

func (s *Store) statusKey(id string) string {
	return fmt.Sprintf("%s:%s:status:%s", keyPrefix, s.flow, id)
}

func (s *Store) errorKey(id string) string {
	return fmt.Sprintf("%s:%s:error:%s", keyPrefix, s.flow, id)
}

// Acquire atomically marks a node busy.
func (s *Store) Acquire(ctx context.Context, id string) (bool, error) {
	res, err := acquireScript.Run(ctx, s.client, []string{s.statusKey(id)},
		string(node.StatusBusy), int(s.ttl.Seconds())).Int()
	if err != nil {
		return false, fmt.Errorf("failed to acquire node '%s': %w", id, err)
	}
	return res == 1, nil
}

// SetStatus stores the status of a node.
func (s *Store) SetStatus(ctx context.Context, id string, status node.Status) error {
	if err := s.client.Set(ctx, s.statusKey(id), string(status), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set status of '%s': %w", id, err)
	}
	return nil
}

// GetStatus returns the stored status, or StatusIdle when none is stored.
func (s *Store) GetStatus(ctx context.Context, id string) (node.Status, error) {
	v, err := s.client.Get(ctx, s.statusKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return node.StatusIdle, nil
	}
	if err != nil {
		return node.StatusIdle, fmt.Errorf("failed to get status of '%s': %w", id, err)
	}
	return node.Status(v), nil
}

// SetError stores the error message of a node. A nil error deletes it.
func (s *Store) SetError(ctx context.Context, id string, nodeErr error) error {
	var err error
	if nodeErr == nil {
		err = s.client.Del(ctx, s.errorKey(id)).Err()
	} else {
		err = s.client.Set(ctx, s.errorKey(id), nodeErr.Error(), s.ttl).Err()
	}
	if err != nil {
		return fmt.Errorf("failed to set error of '%s': %w", id, err)
	}
	return nil
}

// GetError returns the stored error message as an error value.
func (s *Store) GetError(ctx context.Context, id string) (error, error) {
	v, err := s.client.Get(ctx, s.errorKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get error of '%s': %w", id, err)
	}
	return errors.New(v), nil
}

// Reset removes both keys of a node.
func (s *Store) Reset(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.statusKey(id), s.errorKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to reset '%s': %w", id, err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}
