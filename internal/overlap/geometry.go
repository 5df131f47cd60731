package overlap

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"

	"github.com/ous-demographics/internal/domain"
)

// DefaultSimplifyTolerance - допуск Douglas-Peucker в градусах (~5 м)
const DefaultSimplifyTolerance = 0.00005

// SimplifyArea упрощает геометрию каждого участка. Исходный участок не изменяется.
func SimplifyArea(area *domain.PlanningArea, tolerance float64) *domain.PlanningArea {
	if area == nil || tolerance <= 0 {
		return area
	}
	return area.WithGeometry(func(g orb.Geometry) orb.Geometry {
		return simplifyGeometry(g, tolerance)
	})
}

func simplifyGeometry(g orb.Geometry, tolerance float64) orb.Geometry {
	switch v := g.(type) {
	case orb.Polygon:
		return simplifyPolygon(v, tolerance)
	case orb.MultiPolygon:
		out := make(orb.MultiPolygon, len(v))
		for i, p := range v {
			out[i] = simplifyPolygon(p, tolerance)
		}
		return out
	default:
		return g
	}
}

// simplifyPolygon упрощает каждое кольцо; кольцо, выродившееся меньше чем
// в треугольник, остается исходным
func simplifyPolygon(poly orb.Polygon, tolerance float64) orb.Polygon {
	out := make(orb.Polygon, len(poly))
	for i, ring := range poly {
		ls := orb.LineString(ring)
		s := simplify.DouglasPeucker(tolerance).Simplify(ls.Clone())
		result, ok := s.(orb.LineString)
		if !ok || len(result) < 4 {
			out[i] = ring.Clone()
			continue
		}
		out[i] = orb.Ring(result)
	}
	return out
}

// Combine объединяет полигоны всех участков в одну геометрию для проверки пересечения.
// Пересечение с объединением равносильно пересечению хотя бы с одним полигоном,
// поэтому перекрывающиеся участки не требуют топологического слияния.
func Combine(area *domain.PlanningArea) orb.MultiPolygon {
	return area.Polygons()
}
