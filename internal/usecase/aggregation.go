package usecase

import (
	"math"

	"github.com/signal-map/internal/domain"
)

// latBandWidth - ширина широтного пояса в градусах
const latBandWidth = 10

// LatBand - ключ пояса: round(lat/10)*10, половина округляется от нуля (5 -> 10, -5 -> -10)
func LatBand(lat float64) int {
	return int(math.Round(lat/latBandWidth)) * latBandWidth
}

// Aggregate - чистая функция датасета; пустой датасет даёт пустые таблицы
func Aggregate(ds domain.Dataset) domain.AggregateSnapshot {
	snapshot := domain.AggregateSnapshot{
		CountsByType:    make(map[domain.SignalTypeID]int),
		CountsByLatBand: make(map[int]int),
	}
	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		snapshot.CountsByType[r.Type]++
		snapshot.CountsByLatBand[LatBand(r.Lat)]++
	}
	return snapshot
}

// AggregationEngine хранит последний снимок статистики для графиков.
// Снимок заменяется целиком при каждой смене датасета.
type AggregationEngine struct {
	snapshot domain.AggregateSnapshot
}

// NewAggregationEngine создает движок с пустым снимком
func NewAggregationEngine() *AggregationEngine {
	return &AggregationEngine{snapshot: Aggregate(domain.Dataset{})}
}

// Recompute пересчитывает снимок по датасету
func (e *AggregationEngine) Recompute(ds domain.Dataset) domain.AggregateSnapshot {
	e.snapshot = Aggregate(ds)
	return e.snapshot
}

// OnDatasetChanged - наблюдатель DatasetStore
func (e *AggregationEngine) OnDatasetChanged(change DatasetChange) {
	e.Recompute(change.Dataset)
}

// Snapshot - текущий снимок
func (e *AggregationEngine) Snapshot() domain.AggregateSnapshot {
	return e.snapshot
}
