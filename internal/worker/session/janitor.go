package session

import (
	"context"
	"time"

	"github.com/signal-map/internal/worker"
	"go.uber.org/zap"
)

// Sweeper - реестр сессий, из которого можно удалить простаивающие
type Sweeper interface {
	Sweep(now time.Time, idleTTL time.Duration) int
}

// Janitor периодически удаляет сессии, простаивающие дольше idleTTL
type Janitor struct {
	*worker.BaseWorker
	sessions Sweeper
	idleTTL  time.Duration
	interval time.Duration
	now      func() time.Time
}

// NewJanitor создает воркер очистки сессий
func NewJanitor(sessions Sweeper, idleTTL, interval time.Duration, logger *zap.Logger) *Janitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Janitor{
		BaseWorker: worker.NewBaseWorker("session-janitor", logger),
		sessions:   sessions,
		idleTTL:    idleTTL,
		interval:   interval,
		now:        time.Now,
	}
}

// Start блокируется до отмены ctx или Stop
func (j *Janitor) Start(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.Logger().Info("Session janitor started",
		zap.Duration("idle_ttl", j.idleTTL),
		zap.Duration("interval", j.interval))

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-j.StopChan():
			return nil
		case <-ticker.C:
			j.sweep()
		}
	}
}

func (j *Janitor) sweep() int {
	removed := j.sessions.Sweep(j.now(), j.idleTTL)
	if removed > 0 {
		j.Logger().Debug("Sweep finished", zap.Int("removed", removed))
	}
	return removed
}
