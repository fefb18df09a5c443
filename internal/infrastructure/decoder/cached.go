package decoder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/signal-map/internal/domain"
	"github.com/signal-map/internal/domain/repository"
	"go.uber.org/zap"
)

type cachedDecoder struct {
	next     repository.DecoderRepository
	cache    repository.CacheRepository
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewCachedDecoder - декодер с кешем успешных результатов по содержимому отправки.
// Ошибки кеша не влияют на результат: при сбое запрос уходит в декодер.
func NewCachedDecoder(
	next repository.DecoderRepository,
	cache repository.CacheRepository,
	cacheTTL time.Duration,
	logger *zap.Logger,
) repository.DecoderRepository {
	return &cachedDecoder{
		next:     next,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func (d *cachedDecoder) Decode(ctx context.Context, req domain.DecodeRequest) (domain.Dataset, error) {
	key := CacheKey(req)

	records, err := d.cache.GetDecoded(ctx, key)
	if err != nil {
		d.logger.Warn("Failed to get decoded payload from cache", zap.Error(err))
	} else if records != nil {
		d.logger.Debug("Decoded payload fetched from cache", zap.String("key", key))
		return domain.NewDataset(records), nil
	}

	ds, err := d.next.Decode(ctx, req)
	if err != nil {
		return domain.Dataset{}, err
	}

	if err := d.cache.SetDecoded(ctx, key, ds.Records(), d.cacheTTL); err != nil {
		d.logger.Warn("Failed to cache decoded payload", zap.Error(err))
	}

	return ds, nil
}

// CacheKey - ключ кеша: эндпоинт + sha256 полезной нагрузки в том виде, в каком она уходит в декодер.
// Hex-строка не нормализуется: "0x2020" и "2020" для декодера разные входы.
func CacheKey(req domain.DecodeRequest) string {
	h := sha256.New()
	h.Write([]byte(req.Endpoint))
	h.Write([]byte{0})
	if req.IsHex() {
		h.Write([]byte(req.HexData))
	} else {
		h.Write(req.Content)
	}
	return "decode:" + string(req.Endpoint) + ":" + hex.EncodeToString(h.Sum(nil))
}
