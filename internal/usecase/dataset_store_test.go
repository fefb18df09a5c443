package usecase_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/signal-map/internal/domain"
	"github.com/signal-map/internal/pkg/errors"
	"github.com/signal-map/internal/usecase"
)

// orderObserver пишет своё имя в общий журнал при каждом уведомлении
type orderObserver struct {
	name    string
	journal *[]string
	last    usecase.DatasetChange
}

func (o *orderObserver) OnDatasetChanged(change usecase.DatasetChange) {
	*o.journal = append(*o.journal, o.name)
	o.last = change
}

func newObservedStore() (*usecase.DatasetStore, *[]string, []*orderObserver) {
	journal := &[]string{}
	layers := &orderObserver{name: "layers", journal: journal}
	aggregates := &orderObserver{name: "aggregates", journal: journal}
	exports := &orderObserver{name: "exports", journal: journal}
	store := usecase.NewDatasetStore(layers, aggregates, exports, zap.NewNop())
	return store, journal, []*orderObserver{layers, aggregates, exports}
}

func TestDatasetStore_InitialState(t *testing.T) {
	store, journal, _ := newObservedStore()

	state := store.State()
	assert.Equal(t, domain.PhaseIdle, state.Phase)
	assert.False(t, state.Submitted)
	assert.True(t, store.Current().IsEmpty())
	assert.Equal(t, uint64(0), store.Latest())
	assert.Empty(t, *journal)
}

func TestDatasetStore_ReplaceNotifiesInOrder(t *testing.T) {
	store, journal, observers := newObservedStore()

	seq := store.Begin()
	assert.Equal(t, uint64(1), seq)
	assert.Equal(t, domain.PhaseSubmitting, store.State().Phase)
	// Begin не трогает производное состояние
	assert.Empty(t, *journal)

	state, applied := store.Replace(seq, twoTypeDataset(), nil)
	require.True(t, applied)
	assert.Equal(t, domain.PhaseSucceeded, state.Phase)
	assert.Equal(t, []string{"layers", "aggregates", "exports"}, *journal)

	for _, o := range observers {
		assert.Equal(t, 2, o.last.Dataset.Len())
		assert.Equal(t, 2, o.last.Partition.Len())
		assert.Equal(t, seq, o.last.Sequence)
	}
	assert.Equal(t, 2, store.Current().Len())
}

func TestDatasetStore_StaleResultDiscarded(t *testing.T) {
	store, journal, _ := newObservedStore()

	first := store.Begin()
	second := store.Begin()
	require.Greater(t, second, first)

	_, applied := store.Replace(second, twoTypeDataset(), nil)
	require.True(t, applied)

	state, applied := store.Replace(first, domain.NewDataset([]domain.SignalRecord{{Type: "C", Lat: 1, Lng: 1}}), nil)
	assert.False(t, applied)
	assert.Equal(t, second, state.Sequence)
	assert.Equal(t, 2, store.Current().Len())
	assert.Len(t, *journal, 3)
}

func TestDatasetStore_DecodeErrorDiscardsPreviousDataset(t *testing.T) {
	store, _, observers := newObservedStore()

	_, applied := store.Replace(store.Begin(), twoTypeDataset(), nil)
	require.True(t, applied)

	state, applied := store.Replace(store.Begin(), domain.Dataset{}, errors.DecodeServiceError("bad checksum"))
	require.True(t, applied)

	assert.Equal(t, domain.PhaseFailed, state.Phase)
	assert.True(t, state.Dataset.IsEmpty())
	assert.True(t, errors.HasCode(state.Err, errors.CodeDecodeService))
	assert.True(t, store.Current().IsEmpty())
	for _, o := range observers {
		assert.True(t, o.last.Dataset.IsEmpty())
		assert.Equal(t, domain.PhaseFailed, o.last.Phase)
	}
}

func TestDatasetStore_EmptyDatasetIsSucceeded(t *testing.T) {
	store, _, _ := newObservedStore()

	state, applied := store.Replace(store.Begin(), domain.NewDataset(nil), nil)
	require.True(t, applied)

	assert.Equal(t, domain.PhaseSucceeded, state.Phase)
	assert.True(t, state.Submitted)
	assert.True(t, state.Dataset.IsEmpty())
	assert.NoError(t, state.Err)
}

func TestDatasetStore_Clear(t *testing.T) {
	store, journal, _ := newObservedStore()

	_, applied := store.Replace(store.Begin(), twoTypeDataset(), nil)
	require.True(t, applied)

	inFlight := store.Begin()
	store.Clear()

	state := store.State()
	assert.Equal(t, domain.PhaseIdle, state.Phase)
	assert.False(t, state.Submitted)
	assert.True(t, store.Current().IsEmpty())

	// результат отправки, выданной до Clear, отбрасывается
	_, applied = store.Replace(inFlight, twoTypeDataset(), nil)
	assert.False(t, applied)
	assert.True(t, store.Current().IsEmpty())

	store.Clear()
	assert.Equal(t, state.Phase, store.State().Phase)
	assert.True(t, store.Current().IsEmpty())
	assert.Len(t, *journal, 9)
}

func TestDatasetStore_ConcurrentReadersSeeConsistentState(t *testing.T) {
	layers := usecase.NewLayerManager(usecase.LayerConfig{}, zap.NewNop())
	aggregates := usecase.NewAggregationEngine()
	exports := usecase.NewExportModule(zap.NewNop())
	store := usecase.NewDatasetStore(layers, aggregates, exports, zap.NewNop())

	datasets := []domain.Dataset{
		twoTypeDataset(),
		domain.NewDataset([]domain.SignalRecord{{Type: "A", Lat: 1, Lng: 1}}),
		domain.NewDataset(nil),
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			store.Replace(store.Begin(), datasets[i%len(datasets)], nil)
		}(i)
		go func() {
			defer wg.Done()
			store.View(func(state usecase.DatasetState) {
				markers := 0
				for _, g := range layers.Groups() {
					markers += len(g.Markers)
				}
				assert.Equal(t, state.Dataset.Len(), markers)
				assert.Equal(t, state.Dataset.Len(), aggregates.Snapshot().Total())
				assert.Equal(t, !state.Dataset.IsEmpty(), exports.Available())
			})
		}()
	}
	wg.Wait()
}
