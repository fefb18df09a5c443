package dto

import "github.com/signal-map/internal/domain"

// SessionResponse - созданная сессия
type SessionResponse struct {
	SessionID string        `json:"session_id"`
	Status    domain.Status `json:"status"`
}

// ViewSnapshot - согласованное состояние карты, графиков и выгрузки одной сессии
type ViewSnapshot struct {
	SessionID      string                `json:"session_id"`
	Status         domain.Status         `json:"status"`
	Layers         []domain.LayerGroup   `json:"layers"`
	Viewport       domain.Viewport       `json:"viewport"`
	FilterControls []domain.SignalTypeID `json:"filter_controls,omitempty"`
	Charts         ChartsResponse        `json:"charts"`
	Coordinates    []string              `json:"coordinates"`
	Export         ExportListResponse    `json:"export"`
}

// LayersResponse - слои и область просмотра
type LayersResponse struct {
	Layers         []domain.LayerGroup   `json:"layers"`
	Rendered       int                   `json:"rendered_markers"`
	Viewport       domain.Viewport       `json:"viewport"`
	FilterControls []domain.SignalTypeID `json:"filter_controls,omitempty"`
}

// ChartsResponse - ряды для графиков
type ChartsResponse struct {
	ByType    []domain.TypeCount    `json:"by_type"`
	ByLatBand []domain.LatBandCount `json:"by_lat_band"`
}

// ExportListResponse - доступные файлы выгрузки
type ExportListResponse struct {
	Available bool                `json:"available"`
	Message   string              `json:"message,omitempty"`
	Files     []domain.ExportFile `json:"files,omitempty"`
}

// NewChartsResponse строит отсортированные ряды из снимка
func NewChartsResponse(s domain.AggregateSnapshot) ChartsResponse {
	return ChartsResponse{
		ByType:    s.TypeSeries(),
		ByLatBand: s.LatBandSeries(),
	}
}
