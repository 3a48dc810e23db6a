package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrNotFound is returned when no artifact is stored under the key
var ErrNotFound = errors.New("artifact not found")

// ModelStore reads and publishes model artifacts stored under a Redis key
type ModelStore struct {
	client redis.UniversalClient
	key    string
	logger *zap.Logger
}

// NewModelStore creates a new Redis model store
func NewModelStore(client redis.UniversalClient, key string, logger *zap.Logger) *ModelStore {
	return &ModelStore{
		client: client,
		key:    key,
		logger: logger,
	}
}

// Fetch retrieves the artifact bytes
func (s *ModelStore) Fetch(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.key)
		}
		return nil, fmt.Errorf("failed to get artifact: %w", err)
	}

	s.logger.Debug("artifact fetched",
		zap.String("key", s.key),
		zap.Int("bytes", len(data)))

	return data, nil
}

// Publish stores artifact bytes under the key without expiry
func (s *ModelStore) Publish(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to publish artifact: %w", err)
	}

	s.logger.Info("artifact published",
		zap.String("key", s.key),
		zap.Int("bytes", len(data)))

	return nil
}

// Location identifies the source in logs
func (s *ModelStore) Location() string {
	return fmt.Sprintf("redis://%s", s.key)
}
