package usecase_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/signal-map/internal/domain"
)

// MockDecoder - мок для DecoderRepository
type MockDecoder struct {
	mock.Mock
}

func (m *MockDecoder) Decode(ctx context.Context, req domain.DecodeRequest) (domain.Dataset, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.Dataset), args.Error(1)
}

// decoderFunc позволяет описать декодер прямо в тесте
type decoderFunc func(ctx context.Context, req domain.DecodeRequest) (domain.Dataset, error)

func (f decoderFunc) Decode(ctx context.Context, req domain.DecodeRequest) (domain.Dataset, error) {
	return f(ctx, req)
}

// MockStreamRepository - мок для StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

// recordingObserver запоминает события переходов
type recordingObserver struct {
	mu     sync.Mutex
	events []domain.StatusEvent
}

func (o *recordingObserver) OnStatus(_ context.Context, event domain.StatusEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) Outcomes() []domain.Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	outcomes := make([]domain.Outcome, 0, len(o.events))
	for _, e := range o.events {
		outcomes = append(outcomes, e.Outcome)
	}
	return outcomes
}

func (o *recordingObserver) Last() domain.StatusEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

func twoTypeDataset() domain.Dataset {
	return domain.NewDataset([]domain.SignalRecord{
		{Type: "A", Lat: 10, Lng: 20},
		{Type: "B", Lat: -5, Lng: 30},
	})
}
