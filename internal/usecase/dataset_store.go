package usecase

import (
	"sync"

	"github.com/signal-map/internal/domain"
	"go.uber.org/zap"
)

// DatasetChange - уведомление наблюдателям о смене активного датасета
type DatasetChange struct {
	Sequence  uint64
	Phase     domain.Phase
	Dataset   domain.Dataset
	Partition domain.TypePartition
	Err       error
}

// DatasetObserver получает уведомления синхронно, под блокировкой хранилища
type DatasetObserver interface {
	OnDatasetChanged(change DatasetChange)
}

// DatasetState - согласованный снимок хранилища
type DatasetState struct {
	Phase     domain.Phase
	Sequence  uint64
	Submitted bool
	Dataset   domain.Dataset
	Partition domain.TypePartition
	Err       error
}

// DatasetStore - единственный источник истины для активного датасета.
// Каждой отправке выдаётся возрастающий номер; применяется только результат последней выданной.
type DatasetStore struct {
	mu sync.RWMutex

	issued uint64
	state  DatasetState

	// порядок фиксирован: слои, агрегаты, выгрузка
	observers []DatasetObserver
	logger    *zap.Logger
}

// NewDatasetStore создает хранилище. Наблюдатели уведомляются строго в порядке layers, aggregates, exports.
func NewDatasetStore(layers, aggregates, exports DatasetObserver, logger *zap.Logger) *DatasetStore {
	s := &DatasetStore{
		logger: logger,
		state:  initialState(),
	}
	for _, o := range []DatasetObserver{layers, aggregates, exports} {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
	return s
}

func initialState() DatasetState {
	return DatasetState{
		Phase:     domain.PhaseIdle,
		Partition: domain.Partition(domain.Dataset{}),
	}
}

// Begin выдаёт номер новой отправки и переводит хранилище в Submitting.
// Текущий датасет остаётся на карте до прихода ответа.
func (s *DatasetStore) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.issued++
	s.state.Phase = domain.PhaseSubmitting
	return s.issued
}

// Replace применяет результат отправки seq: датасет или ошибку декодирования.
// Возвращает применённое состояние и false, если после seq уже была выдана более новая отправка
// (или Clear) - тогда результат отброшен.
func (s *DatasetStore) Replace(seq uint64, ds domain.Dataset, decodeErr error) (DatasetState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.issued {
		s.logger.Info("Discarding superseded decode result",
			zap.Uint64("sequence", seq),
			zap.Uint64("latest", s.issued))
		return s.state, false
	}

	next := DatasetState{
		Phase:     domain.PhaseSucceeded,
		Sequence:  seq,
		Submitted: true,
		Dataset:   ds,
		Err:       decodeErr,
	}
	if decodeErr != nil {
		// при ошибке прежний датасет всё равно сбрасывается
		next.Phase = domain.PhaseFailed
		next.Dataset = domain.Dataset{}
	}
	next.Partition = domain.Partition(next.Dataset)

	s.apply(next)
	return next, true
}

// Clear возвращает хранилище в исходное состояние. Идемпотентна.
// Отправки, выданные до Clear, считаются устаревшими.
func (s *DatasetStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.issued++
	s.apply(initialState())
}

// apply вызывается под s.mu
func (s *DatasetStore) apply(next DatasetState) {
	s.state = next

	change := DatasetChange{
		Sequence:  next.Sequence,
		Phase:     next.Phase,
		Dataset:   next.Dataset,
		Partition: next.Partition,
		Err:       next.Err,
	}
	for _, o := range s.observers {
		o.OnDatasetChanged(change)
	}

	s.logger.Debug("Dataset replaced",
		zap.String("phase", string(next.Phase)),
		zap.Uint64("sequence", next.Sequence),
		zap.Int("records", next.Dataset.Len()))
}

// Current - активный датасет (пустой, если его нет)
func (s *DatasetStore) Current() domain.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Dataset
}

// State - снимок состояния
func (s *DatasetStore) State() DatasetState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Latest - последний выданный номер отправки
func (s *DatasetStore) Latest() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.issued
}

// View выполняет fn под блокировкой чтения: производное состояние наблюдателей согласовано с датасетом
func (s *DatasetStore) View(fn func(state DatasetState)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.state)
}

// Update выполняет fn под блокировкой записи (например, переключение видимости слоя)
func (s *DatasetStore) Update(fn func(state DatasetState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}
