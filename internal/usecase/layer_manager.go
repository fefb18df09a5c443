package usecase

import (
	"fmt"
	"html"
	"math"

	"github.com/signal-map/internal/domain"
	"github.com/signal-map/internal/pkg/errors"
	"github.com/signal-map/internal/pkg/utils"
	"go.uber.org/zap"
)

const (
	// FallbackColor - цвет для типов, которых нет в палитре
	FallbackColor = "grey"

	// viewportPadding - доля размаха прямоугольника, добавляемая с каждой стороны
	viewportPadding = 0.1

	tileSizePx = 256.0

	markerRadius      = 5
	markerBorderColor = "#000"
	markerWeight      = 1
	markerOpacity     = 1.0
	markerFillOpacity = 0.8
)

// Palette - цвет слоя по типу сигнала. Тотальная функция: неизвестный тип получает FallbackColor.
type Palette struct {
	colors map[domain.SignalTypeID]string
}

// DefaultPalette - A синий, B красный
func DefaultPalette() Palette {
	return NewPalette(map[string]string{"A": "blue", "B": "red"})
}

// NewPalette создает палитру из таблицы "тип -> цвет"
func NewPalette(colors map[string]string) Palette {
	p := Palette{colors: make(map[domain.SignalTypeID]string, len(colors))}
	for t, c := range colors {
		p.colors[domain.SignalTypeID(t)] = c
	}
	return p
}

// Color возвращает цвет типа или FallbackColor
func (p Palette) Color(t domain.SignalTypeID) string {
	if c, ok := p.colors[t]; ok && c != "" {
		return c
	}
	return FallbackColor
}

// LayerConfig - размеры карты в пикселях и ограничение зума
type LayerConfig struct {
	Palette  Palette
	WidthPx  int
	HeightPx int
	MaxZoom  int
}

// LayerManager держит по одной группе слоёв на тип сигнала и область просмотра карты.
// Не потокобезопасен: доступ сериализует DatasetStore.
type LayerManager struct {
	palette  Palette
	widthPx  float64
	heightPx float64
	maxZoom  int

	groups   map[domain.SignalTypeID]*domain.LayerGroup
	order    []domain.SignalTypeID
	viewport domain.Viewport

	logger *zap.Logger
}

// NewLayerManager создает менеджер слоёв с видом на весь мир
func NewLayerManager(cfg LayerConfig, logger *zap.Logger) *LayerManager {
	if cfg.WidthPx <= 0 {
		cfg.WidthPx = 1024
	}
	if cfg.HeightPx <= 0 {
		cfg.HeightPx = 600
	}
	if cfg.MaxZoom <= 0 {
		cfg.MaxZoom = 18
	}
	if cfg.Palette.colors == nil {
		cfg.Palette = DefaultPalette()
	}
	return &LayerManager{
		palette:  cfg.Palette,
		widthPx:  float64(cfg.WidthPx),
		heightPx: float64(cfg.HeightPx),
		maxZoom:  cfg.MaxZoom,
		groups:   make(map[domain.SignalTypeID]*domain.LayerGroup),
		viewport: domain.DefaultViewport(),
		logger:   logger,
	}
}

// OnDatasetChanged перестраивает слои под новый датасет
func (m *LayerManager) OnDatasetChanged(change DatasetChange) {
	if change.Dataset.IsEmpty() {
		m.Clear()
		return
	}
	m.Rebuild(change.Partition)
}

// Rebuild удаляет все слои и строит по группе на каждый тип разбиения. Все группы видимы.
func (m *LayerManager) Rebuild(partition domain.TypePartition) {
	m.reset()

	points := make([]domain.LatLng, 0, partition.Size())
	for _, t := range partition.Types() {
		records := partition.Records(t)
		color := m.palette.Color(t)
		group := &domain.LayerGroup{
			Type:    t,
			Color:   color,
			Visible: true,
			Markers: make([]domain.Marker, 0, len(records)),
		}
		for _, r := range records {
			group.Markers = append(group.Markers, newMarker(r, color))
			points = append(points, domain.LatLng{Lat: r.Lat, Lng: r.Lng})
		}
		m.groups[t] = group
		m.order = append(m.order, t)
	}

	if bounds, ok := domain.BoundsOf(points); ok {
		m.viewport = m.fit(bounds)
	}

	m.logger.Debug("Layers rebuilt",
		zap.Int("groups", len(m.order)),
		zap.Int("markers", len(points)),
		zap.Int("zoom", m.viewport.Zoom))
}

// SetVisible скрывает или возвращает группу без пересчёта маркеров
func (m *LayerManager) SetVisible(t domain.SignalTypeID, visible bool) error {
	group, ok := m.groups[t]
	if !ok {
		return errors.ErrLayerNotFound.WithDetails(map[string]interface{}{
			"type": string(t),
		})
	}
	group.Visible = visible
	return nil
}

// Clear удаляет все группы и возвращает вид на весь мир
func (m *LayerManager) Clear() {
	m.reset()
	m.viewport = domain.DefaultViewport()
}

func (m *LayerManager) reset() {
	m.groups = make(map[domain.SignalTypeID]*domain.LayerGroup)
	m.order = nil
}

// Groups возвращает копии всех групп в порядке построения
func (m *LayerManager) Groups() []domain.LayerGroup {
	groups := make([]domain.LayerGroup, 0, len(m.order))
	for _, t := range m.order {
		g := *m.groups[t]
		g.Markers = append([]domain.Marker(nil), g.Markers...)
		groups = append(groups, g)
	}
	return groups
}

// Rendered - маркеры видимых групп
func (m *LayerManager) Rendered() []domain.Marker {
	markers := make([]domain.Marker, 0)
	for _, t := range m.order {
		if g := m.groups[t]; g.Visible {
			markers = append(markers, g.Markers...)
		}
	}
	return markers
}

// FilterControls - переключатели показываются только при нескольких типах
func (m *LayerManager) FilterControls() []domain.SignalTypeID {
	if len(m.order) <= 1 {
		return nil
	}
	return append([]domain.SignalTypeID(nil), m.order...)
}

// Viewport - текущая область просмотра
func (m *LayerManager) Viewport() domain.Viewport {
	return m.viewport
}

// fit подбирает центр и зум, при которых прямоугольник с отступом помещается в карту
func (m *LayerManager) fit(bounds domain.BoundingBox) domain.Viewport {
	padded := bounds.Pad(viewportPadding)
	return domain.Viewport{
		Center: padded.Center(),
		Zoom:   m.zoomFor(padded),
		Bounds: &padded,
	}
}

// zoomFor - наибольший зум, при котором прямоугольник целиком виден (Web Mercator, тайлы 256px).
// Вырожденный прямоугольник (одна точка) получает максимальный зум.
func (m *LayerManager) zoomFor(b domain.BoundingBox) int {
	dx := utils.MercatorX(b.MaxLng) - utils.MercatorX(b.MinLng)
	dy := utils.MercatorY(b.MinLat) - utils.MercatorY(b.MaxLat)

	zoom := math.Inf(1)
	if dx > 0 {
		zoom = math.Min(zoom, math.Log2(m.widthPx/(dx*tileSizePx)))
	}
	if dy > 0 {
		zoom = math.Min(zoom, math.Log2(m.heightPx/(dy*tileSizePx)))
	}
	if math.IsInf(zoom, 0) || math.IsNaN(zoom) {
		return m.maxZoom
	}

	z := int(math.Floor(zoom))
	if z < 0 {
		return 0
	}
	if z > m.maxZoom {
		return m.maxZoom
	}
	return z
}

func newMarker(r domain.SignalRecord, color string) domain.Marker {
	return domain.Marker{
		Position:    domain.LatLng{Lat: r.Lat, Lng: r.Lng},
		Radius:      markerRadius,
		FillColor:   color,
		Color:       markerBorderColor,
		Weight:      markerWeight,
		Opacity:     markerOpacity,
		FillOpacity: markerFillOpacity,
		Popup: fmt.Sprintf("<b>Signal %s</b><br>Lat: %.5f<br>Lng: %.5f",
			html.EscapeString(string(r.Type)), r.Lat, r.Lng),
	}
}
