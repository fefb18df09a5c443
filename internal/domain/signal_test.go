package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartition_CoversEveryRecordOnce(t *testing.T) {
	datasets := map[string]Dataset{
		"empty": NewDataset(nil),
		"single type": NewDataset([]SignalRecord{
			{Type: "A", Lat: 1, Lng: 2},
			{Type: "A", Lat: 3, Lng: 4},
		}),
		"interleaved": NewDataset([]SignalRecord{
			{Type: "B", Lat: -5, Lng: 30},
			{Type: "A", Lat: 10, Lng: 20},
			{Type: "C", Lat: 0, Lng: 0},
			{Type: "B", Lat: 7, Lng: 8},
			{Type: "A", Lat: 11, Lng: 21},
		}),
	}

	for name, ds := range datasets {
		t.Run(name, func(t *testing.T) {
			p := Partition(ds)

			assert.Equal(t, ds.Len(), p.Size())
			assert.ElementsMatch(t, ds.Types(), p.Types())

			var regrouped []SignalRecord
			for _, typ := range p.Types() {
				group := p.Records(typ)
				for _, r := range group {
					assert.Equal(t, typ, r.Type)
				}
				regrouped = append(regrouped, group...)
			}
			assert.ElementsMatch(t, ds.Records(), regrouped)
		})
	}
}

func TestPartition_PreservesInsertionOrder(t *testing.T) {
	ds := NewDataset([]SignalRecord{
		{Type: "B", Lat: 1, Lng: 1},
		{Type: "A", Lat: 2, Lng: 2},
		{Type: "B", Lat: 3, Lng: 3},
	})

	p := Partition(ds)

	assert.Equal(t, []SignalTypeID{"B", "A"}, p.Types())
	assert.Equal(t, []SignalTypeID{"A", "B"}, p.SortedTypes())
	assert.Equal(t, []SignalRecord{{Type: "B", Lat: 1, Lng: 1}, {Type: "B", Lat: 3, Lng: 3}}, p.Records("B"))
	assert.Nil(t, p.Records("Z"))
	assert.False(t, p.Has("Z"))
}

func TestDataset_IsAValue(t *testing.T) {
	records := []SignalRecord{{Type: "A", Lat: 1, Lng: 2}}
	ds := NewDataset(records)

	records[0].Lat = 50
	out := ds.Records()
	out[0].Lng = 99

	require.Equal(t, 1, ds.Len())
	assert.Equal(t, 1.0, ds.At(0).Lat)
	assert.Equal(t, 2.0, ds.At(0).Lng)
}

func TestBoundsOf(t *testing.T) {
	_, ok := BoundsOf(nil)
	assert.False(t, ok)

	b, ok := BoundsOf([]LatLng{{Lat: 10, Lng: 20}, {Lat: -5, Lng: 30}})
	require.True(t, ok)
	assert.Equal(t, BoundingBox{MinLat: -5, MaxLat: 10, MinLng: 20, MaxLng: 30}, b)

	padded := b.Pad(0.1)
	assert.InDelta(t, -6.5, padded.MinLat, 1e-9)
	assert.InDelta(t, 11.5, padded.MaxLat, 1e-9)
	assert.InDelta(t, 19, padded.MinLng, 1e-9)
	assert.InDelta(t, 31, padded.MaxLng, 1e-9)

	single, _ := BoundsOf([]LatLng{{Lat: 1, Lng: 1}})
	assert.Equal(t, single, single.Pad(0.1))
	assert.Equal(t, LatLng{Lat: 1, Lng: 1}, single.Center())
}

func TestAggregateSnapshot_Series(t *testing.T) {
	s := AggregateSnapshot{
		CountsByType:    map[SignalTypeID]int{"B": 1, "A": 2},
		CountsByLatBand: map[int]int{10: 1, -10: 1, 0: 1, -80: 1, 5: 0},
	}

	assert.Equal(t, 3, s.Total())
	assert.Equal(t, []TypeCount{{Type: "A", Count: 2}, {Type: "B", Count: 1}}, s.TypeSeries())

	bands := s.LatBandSeries()
	keys := make([]int, len(bands))
	for i, b := range bands {
		keys[i] = b.Band
	}
	assert.Equal(t, []int{-80, -10, 0, 5, 10}, keys)
}
