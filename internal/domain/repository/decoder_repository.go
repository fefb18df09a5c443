package repository

import (
	"context"

	"github.com/signal-map/internal/domain"
)

// DecoderRepository - граница внешнего сервиса декодирования.
// Возвращает датасет либо ошибку: errors.CodeDecodeService с дословным сообщением сервиса
// или errors.CodeTransport, если запрос не завершился.
type DecoderRepository interface {
	Decode(ctx context.Context, req domain.DecodeRequest) (domain.Dataset, error)
}
