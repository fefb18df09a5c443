package utils

import "math"

// maxMercatorLat - граница проекции Web Mercator
const maxMercatorLat = 85.0511287798

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ClampLat ограничивает широту диапазоном проекции Web Mercator
func ClampLat(lat float64) float64 {
	return math.Max(-maxMercatorLat, math.Min(maxMercatorLat, lat))
}

// MercatorY переводит широту в нормализованную координату Y проекции (0 на севере, 1 на юге)
func MercatorY(lat float64) float64 {
	rad := ClampLat(lat) * math.Pi / 180.0
	return (1 - math.Log(math.Tan(rad)+1/math.Cos(rad))/math.Pi) / 2
}

// MercatorX переводит долготу в нормализованную координату X проекции (0..1)
func MercatorX(lon float64) float64 {
	return (lon + 180.0) / 360.0
}
