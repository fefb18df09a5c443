package repository

import (
	"context"
	"time"

	"github.com/signal-map/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// GetDecoded получает результат декодирования по ключу отправки (nil, nil при промахе)
	GetDecoded(ctx context.Context, key string) ([]domain.SignalRecord, error)

	// SetDecoded сохраняет результат декодирования
	SetDecoded(ctx context.Context, key string, records []domain.SignalRecord, ttl time.Duration) error
}
