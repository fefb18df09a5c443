package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/signal-map/internal/domain"
	"github.com/signal-map/internal/domain/repository"
	"go.uber.org/zap"
)

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

// GetDecoded получает результат декодирования из кеша
func (r *cacheRepository) GetDecoded(ctx context.Context, key string) ([]domain.SignalRecord, error) {
	data, err := r.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil // Cache miss
	}

	records := make([]domain.SignalRecord, 0)
	if err := json.Unmarshal(data, &records); err != nil {
		r.logger.Error("Failed to unmarshal decoded records from cache", zap.Error(err))
		return nil, fmt.Errorf("unmarshal decoded records: %w", err)
	}

	return records, nil
}

// SetDecoded сохраняет результат декодирования в кеше
func (r *cacheRepository) SetDecoded(ctx context.Context, key string, records []domain.SignalRecord, ttl time.Duration) error {
	if records == nil {
		records = []domain.SignalRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		r.logger.Error("Failed to marshal decoded records", zap.Error(err))
		return fmt.Errorf("marshal decoded records: %w", err)
	}

	return r.Set(ctx, key, data, ttl)
}
