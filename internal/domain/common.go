package domain

import "math"

// LatLng - географическая точка
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// BoundingBox - прямоугольник в градусах
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

// BoundsOf строит минимальный прямоугольник по точкам; ok=false для пустого набора
func BoundsOf(points []LatLng) (BoundingBox, bool) {
	if len(points) == 0 {
		return BoundingBox{}, false
	}
	b := BoundingBox{
		MinLat: points[0].Lat, MaxLat: points[0].Lat,
		MinLng: points[0].Lng, MaxLng: points[0].Lng,
	}
	for _, p := range points[1:] {
		b.MinLat = math.Min(b.MinLat, p.Lat)
		b.MaxLat = math.Max(b.MaxLat, p.Lat)
		b.MinLng = math.Min(b.MinLng, p.Lng)
		b.MaxLng = math.Max(b.MaxLng, p.Lng)
	}
	return b, true
}

// Pad расширяет прямоугольник на долю его размаха по каждой оси
func (b BoundingBox) Pad(ratio float64) BoundingBox {
	dLat := (b.MaxLat - b.MinLat) * ratio
	dLng := (b.MaxLng - b.MinLng) * ratio
	return BoundingBox{
		MinLat: math.Max(-90, b.MinLat-dLat),
		MaxLat: math.Min(90, b.MaxLat+dLat),
		MinLng: math.Max(-180, b.MinLng-dLng),
		MaxLng: math.Min(180, b.MaxLng+dLng),
	}
}

// Center - центр прямоугольника
func (b BoundingBox) Center() LatLng {
	return LatLng{
		Lat: (b.MinLat + b.MaxLat) / 2,
		Lng: (b.MinLng + b.MaxLng) / 2,
	}
}
