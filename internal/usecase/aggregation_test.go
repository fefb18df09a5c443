package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/signal-map/internal/domain"
	"github.com/signal-map/internal/usecase"
)

func TestLatBand(t *testing.T) {
	tests := []struct {
		lat  float64
		band int
	}{
		{0, 0},
		{4.99, 0},
		{5, 10},
		{-5, -10},
		{-4.99, 0},
		{14.9, 10},
		{15, 20},
		{89.9, 90},
		{-90, -90},
		{90, 90},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.band, usecase.LatBand(tt.lat), "lat %v", tt.lat)
	}
}

func TestAggregate(t *testing.T) {
	ds := domain.NewDataset([]domain.SignalRecord{
		{Type: "A", Lat: 10, Lng: 20},
		{Type: "B", Lat: -5, Lng: 30},
		{Type: "A", Lat: 12, Lng: 21},
		{Type: "C", Lat: 44, Lng: 0},
	})

	s := usecase.Aggregate(ds)

	assert.Equal(t, map[domain.SignalTypeID]int{"A": 2, "B": 1, "C": 1}, s.CountsByType)
	assert.Equal(t, map[int]int{10: 2, -10: 1, 40: 1}, s.CountsByLatBand)
	assert.Equal(t, ds.Len(), s.Total())

	bandTotal := 0
	for _, c := range s.CountsByLatBand {
		bandTotal += c
	}
	assert.Equal(t, ds.Len(), bandTotal)
}

func TestAggregate_Empty(t *testing.T) {
	s := usecase.Aggregate(domain.Dataset{})

	assert.NotNil(t, s.CountsByType)
	assert.NotNil(t, s.CountsByLatBand)
	assert.Empty(t, s.CountsByType)
	assert.Empty(t, s.CountsByLatBand)
	assert.Empty(t, s.TypeSeries())
	assert.Empty(t, s.LatBandSeries())
}

func TestAggregationEngine_ReplacedWholesale(t *testing.T) {
	e := usecase.NewAggregationEngine()
	assert.Equal(t, 0, e.Snapshot().Total())

	e.Recompute(twoTypeDataset())
	assert.Equal(t, 2, e.Snapshot().Total())

	e.Recompute(domain.NewDataset([]domain.SignalRecord{{Type: "C", Lat: 0, Lng: 0}}))
	s := e.Snapshot()
	assert.Equal(t, map[domain.SignalTypeID]int{"C": 1}, s.CountsByType)
	assert.Equal(t, map[int]int{0: 1}, s.CountsByLatBand)
}
