package utils

import (
	"math"

	"github.com/paulmach/orb"
)

const earthRadiusKm = 6371.0

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ValidateBound проверяет, что охват геометрии лежит в пределах долготы/широты
func ValidateBound(b orb.Bound) bool {
	for _, p := range []orb.Point{b.Min, b.Max} {
		if math.IsNaN(p.X()) || math.IsNaN(p.Y()) {
			return false
		}
		if !ValidateCoordinates(p.Lat(), p.Lon()) {
			return false
		}
	}
	return true
}

// ApproxAreaKm2 оценивает площадь охвата в км² (для логов и ограничений запроса)
func ApproxAreaKm2(b orb.Bound) float64 {
	midLat := (b.Min.Lat() + b.Max.Lat()) / 2 * math.Pi / 180.0
	width := (b.Max.Lon() - b.Min.Lon()) * math.Pi / 180.0 * earthRadiusKm * math.Cos(midLat)
	height := (b.Max.Lat() - b.Min.Lat()) * math.Pi / 180.0 * earthRadiusKm
	return math.Abs(width * height)
}
