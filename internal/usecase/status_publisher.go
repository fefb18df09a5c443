package usecase

import (
	"context"
	"time"

	"github.com/signal-map/internal/domain"
	"github.com/signal-map/internal/domain/repository"
	"go.uber.org/zap"
)

const publishTimeout = 2 * time.Second

// StatusPublisher пишет переходы состояния сессий в Redis Stream.
// Ошибки публикации только логируются: стрим не влияет на датасет.
type StatusPublisher struct {
	stream string
	repo   repository.StreamRepository
	logger *zap.Logger
}

// NewStatusPublisher создает публикатор событий
func NewStatusPublisher(repo repository.StreamRepository, stream string, logger *zap.Logger) *StatusPublisher {
	if stream == "" {
		stream = domain.StreamViewStatus
	}
	return &StatusPublisher{
		stream: stream,
		repo:   repo,
		logger: logger,
	}
}

// OnStatus - StatusObserver
func (p *StatusPublisher) OnStatus(ctx context.Context, event domain.StatusEvent) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.repo.PublishToStream(ctx, p.stream, event); err != nil {
		p.logger.Warn("Failed to publish status event",
			zap.String("session_id", event.SessionID.String()),
			zap.String("outcome", string(event.Outcome)),
			zap.Error(err))
	}
}
