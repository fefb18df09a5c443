package usecase

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/signal-map/internal/domain/repository"
	"github.com/signal-map/internal/pkg/errors"
	"go.uber.org/zap"
)

type session struct {
	view     *ViewUseCase
	lastSeen time.Time
}

// SessionRegistry - сессии пользователей, у каждой свой ViewUseCase и ровно один активный датасет
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session

	decoder   repository.DecoderRepository
	cfg       ViewConfig
	observers []StatusObserver
	logger    *zap.Logger

	now      func() time.Time
	onChange func(active int)
}

// NewSessionRegistry создает реестр сессий
func NewSessionRegistry(
	decoder repository.DecoderRepository,
	cfg ViewConfig,
	logger *zap.Logger,
	observers ...StatusObserver,
) *SessionRegistry {
	return &SessionRegistry{
		sessions:  make(map[uuid.UUID]*session),
		decoder:   decoder,
		cfg:       cfg,
		observers: observers,
		logger:    logger,
		now:       time.Now,
	}
}

// OnChange регистрирует колбэк на изменение числа сессий (gauge метрик)
func (r *SessionRegistry) OnChange(fn func(active int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// Create открывает новую сессию
func (r *SessionRegistry) Create() *ViewUseCase {
	id := uuid.New()
	view := NewViewUseCase(id, r.decoder, r.cfg, r.logger, r.observers...)

	r.mu.Lock()
	r.sessions[id] = &session{view: view, lastSeen: r.now()}
	active := len(r.sessions)
	notify := r.onChange
	r.mu.Unlock()

	r.logger.Info("Session created", zap.String("session_id", id.String()))
	if notify != nil {
		notify(active)
	}
	return view
}

// Get возвращает сессию и продлевает её жизнь
func (r *SessionRegistry) Get(id uuid.UUID) (*ViewUseCase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, errors.ErrSessionNotFound.WithDetails(map[string]interface{}{
			"session_id": id.String(),
		})
	}
	s.lastSeen = r.now()
	return s.view, nil
}

// Delete закрывает сессию
func (r *SessionRegistry) Delete(id uuid.UUID) error {
	r.mu.Lock()
	if _, ok := r.sessions[id]; !ok {
		r.mu.Unlock()
		return errors.ErrSessionNotFound.WithDetails(map[string]interface{}{
			"session_id": id.String(),
		})
	}
	delete(r.sessions, id)
	active := len(r.sessions)
	notify := r.onChange
	r.mu.Unlock()

	r.logger.Info("Session deleted", zap.String("session_id", id.String()))
	if notify != nil {
		notify(active)
	}
	return nil
}

// Sweep удаляет сессии, к которым не обращались дольше idleTTL. Возвращает число удалённых.
func (r *SessionRegistry) Sweep(now time.Time, idleTTL time.Duration) int {
	r.mu.Lock()
	removed := 0
	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) > idleTTL {
			delete(r.sessions, id)
			removed++
		}
	}
	active := len(r.sessions)
	notify := r.onChange
	r.mu.Unlock()

	if removed > 0 {
		r.logger.Info("Idle sessions removed",
			zap.Int("removed", removed),
			zap.Int("active", active))
		if notify != nil {
			notify(active)
		}
	}
	return removed
}

// Len - число активных сессий
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
