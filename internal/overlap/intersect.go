package overlap

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Intersects проверяет, имеют ли геометрия записи и объединенный участок общие точки.
// Касание границ считается пересечением.
func Intersects(g orb.Geometry, area orb.MultiPolygon) bool {
	if g == nil || len(area) == 0 {
		return false
	}
	if !g.Bound().Intersects(area.Bound()) {
		return false
	}

	switch v := g.(type) {
	case orb.Polygon:
		return polygonIntersectsAny(v, area)
	case orb.MultiPolygon:
		for _, p := range v {
			if polygonIntersectsAny(p, area) {
				return true
			}
		}
	}
	return false
}

func polygonIntersectsAny(p orb.Polygon, area orb.MultiPolygon) bool {
	for _, q := range area {
		if polygonsIntersect(p, q) {
			return true
		}
	}
	return false
}

func polygonsIntersect(a, b orb.Polygon) bool {
	if len(a) == 0 || len(b) == 0 || len(a[0]) == 0 || len(b[0]) == 0 {
		return false
	}
	ab, bb := a.Bound(), b.Bound()
	if !ab.Intersects(bb) {
		return false
	}

	// пересечение ребер (включая внутренние кольца)
	for _, ra := range a {
		for _, rb := range b {
			if ringsCross(ra, rb, bb) {
				return true
			}
		}
	}

	// без пересечения ребер один полигон либо целиком внутри другого, либо снаружи
	if planar.PolygonContains(b, a[0][0]) {
		return true
	}
	return planar.PolygonContains(a, b[0][0])
}

func ringsCross(ra, rb orb.Ring, rbBound orb.Bound) bool {
	for i := 0; i+1 < len(ra); i++ {
		p1, p2 := ra[i], ra[i+1]
		if !segmentBound(p1, p2).Intersects(rbBound) {
			continue
		}
		for j := 0; j+1 < len(rb); j++ {
			if segmentsIntersect(p1, p2, rb[j], rb[j+1]) {
				return true
			}
		}
	}
	return false
}

func segmentBound(p, q orb.Point) orb.Bound {
	return orb.Bound{Min: p, Max: p}.Extend(q)
}

// segmentsIntersect проверяет пересечение отрезков p1p2 и p3p4 по знакам ориентации
func segmentsIntersect(p1, p2, p3, p4 orb.Point) bool {
	d1 := orientation(p3, p4, p1)
	d2 := orientation(p3, p4, p2)
	d3 := orientation(p1, p2, p3)
	d4 := orientation(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	// коллинеарные и концевые случаи
	switch {
	case d1 == 0 && onSegment(p3, p4, p1):
		return true
	case d2 == 0 && onSegment(p3, p4, p2):
		return true
	case d3 == 0 && onSegment(p1, p2, p3):
		return true
	case d4 == 0 && onSegment(p1, p2, p4):
		return true
	}
	return false
}

func orientation(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

// onSegment - лежит ли коллинеарная точка c в прямоугольнике отрезка ab
func onSegment(a, b, c orb.Point) bool {
	return min(a[0], b[0]) <= c[0] && c[0] <= max(a[0], b[0]) &&
		min(a[1], b[1]) <= c[1] && c[1] <= max(a[1], b[1])
}
