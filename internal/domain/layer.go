package domain

// Marker - круглый маркер одной записи на карте
type Marker struct {
	Position    LatLng  `json:"position"`
	Radius      int     `json:"radius"`
	FillColor   string  `json:"fill_color"`
	Color       string  `json:"color"`
	Weight      int     `json:"weight"`
	Opacity     float64 `json:"opacity"`
	FillOpacity float64 `json:"fill_opacity"`
	Popup       string  `json:"popup"`
}

// LayerGroup - маркеры одного типа сигнала и флаг видимости
type LayerGroup struct {
	Type    SignalTypeID `json:"type"`
	Color   string       `json:"color"`
	Visible bool         `json:"visible"`
	Markers []Marker     `json:"markers"`
}

// Viewport - видимая область карты
type Viewport struct {
	Center LatLng       `json:"center"`
	Zoom   int          `json:"zoom"`
	Bounds *BoundingBox `json:"bounds,omitempty"`
}

// DefaultViewport - вид на весь мир
func DefaultViewport() Viewport {
	return Viewport{
		Center: LatLng{Lat: 20, Lng: 0},
		Zoom:   2,
	}
}
