package domain

import "sort"

// AggregateSnapshot - сводная статистика по датасету, пересчитывается целиком
type AggregateSnapshot struct {
	CountsByType    map[SignalTypeID]int `json:"counts_by_type"`
	CountsByLatBand map[int]int          `json:"counts_by_lat_band"`
}

// TypeCount - точка графика по типам
type TypeCount struct {
	Type  SignalTypeID `json:"type"`
	Count int          `json:"count"`
}

// LatBandCount - точка гистограммы по широтным поясам
type LatBandCount struct {
	Band  int `json:"band"`
	Count int `json:"count"`
}

// Total - сумма счётчиков по типам
func (s AggregateSnapshot) Total() int {
	total := 0
	for _, c := range s.CountsByType {
		total += c
	}
	return total
}

// TypeSeries - счётчики по типам, отсортированные по идентификатору
func (s AggregateSnapshot) TypeSeries() []TypeCount {
	series := make([]TypeCount, 0, len(s.CountsByType))
	for t, c := range s.CountsByType {
		series = append(series, TypeCount{Type: t, Count: c})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Type < series[j].Type })
	return series
}

// LatBandSeries - счётчики по поясам, отсортированные численно
func (s AggregateSnapshot) LatBandSeries() []LatBandCount {
	series := make([]LatBandCount, 0, len(s.CountsByLatBand))
	for b, c := range s.CountsByLatBand {
		series = append(series, LatBandCount{Band: b, Count: c})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Band < series[j].Band })
	return series
}
