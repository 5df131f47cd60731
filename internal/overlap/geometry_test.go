package overlap

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ous-demographics/internal/domain"
)

func TestIntersects(t *testing.T) {
	withHole := orb.Polygon{
		{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
		{{3, 3}, {7, 3}, {7, 7}, {3, 7}, {3, 3}},
	}

	tests := []struct {
		name string
		g    orb.Geometry
		area orb.MultiPolygon
		want bool
	}{
		{name: "crossing edges", g: square(0, 0, 2), area: orb.MultiPolygon{square(1, 1, 2)}, want: true},
		{name: "disjoint", g: square(0, 0, 1), area: orb.MultiPolygon{square(5, 5, 1)}, want: false},
		{name: "bounds overlap only", g: orb.Polygon{{{0, 0}, {4, 0}, {0, 4}, {0, 0}}}, area: orb.MultiPolygon{square(3, 3, 1)}, want: false},
		{name: "shared edge", g: square(0, 0, 1), area: orb.MultiPolygon{square(1, 0, 1)}, want: true},
		{name: "shared corner", g: square(0, 0, 1), area: orb.MultiPolygon{square(1, 1, 1)}, want: true},
		{name: "record inside area", g: square(2, 2, 1), area: orb.MultiPolygon{square(0, 0, 10)}, want: true},
		{name: "area inside record", g: square(0, 0, 10), area: orb.MultiPolygon{square(2, 2, 1)}, want: true},
		{name: "area inside hole", g: withHole, area: orb.MultiPolygon{square(4, 4, 1)}, want: false},
		{name: "record inside hole", g: square(4, 4, 1), area: orb.MultiPolygon{withHole}, want: false},
		{name: "multipolygon record", g: orb.MultiPolygon{square(20, 20, 1), square(0, 0, 1)}, area: orb.MultiPolygon{square(0.5, 0.5, 1)}, want: true},
		{name: "second area polygon", g: square(0, 0, 1), area: orb.MultiPolygon{square(5, 5, 1), square(0.5, -0.5, 1)}, want: true},
		{name: "empty area", g: square(0, 0, 1), area: nil, want: false},
		{name: "nil geometry", g: nil, area: orb.MultiPolygon{square(0, 0, 1)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Intersects(tt.g, tt.area))
		})
	}
}

func TestSegmentsIntersect_Collinear(t *testing.T) {
	assert.True(t, segmentsIntersect(orb.Point{0, 0}, orb.Point{2, 0}, orb.Point{1, 0}, orb.Point{3, 0}))
	assert.False(t, segmentsIntersect(orb.Point{0, 0}, orb.Point{1, 0}, orb.Point{2, 0}, orb.Point{3, 0}))
}

func TestSimplifyArea(t *testing.T) {
	// почти коллинеарные вершины на нижней стороне
	noisy := orb.Polygon{{
		{0, 0}, {0.25, 0.00001}, {0.5, 0}, {0.75, 0.00001}, {1, 0}, {1, 1}, {0, 1}, {0, 0},
	}}
	tiny := orb.Polygon{{{0, 0}, {0.00001, 0}, {0.00001, 0.00001}, {0, 0}}}
	area := &domain.PlanningArea{
		ID: "a",
		Sketches: []domain.Sketch{
			{ID: "noisy", Geometry: noisy},
			{ID: "tiny", Geometry: orb.MultiPolygon{tiny}},
		},
	}

	simplified := SimplifyArea(area, DefaultSimplifyTolerance)
	require.Len(t, simplified.Sketches, 2)

	got := simplified.Sketches[0].Geometry.(orb.Polygon)
	assert.Equal(t, orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}, got[0])
	assert.Equal(t, orb.MultiPolygon{tiny}, simplified.Sketches[1].Geometry)

	// исходный участок не изменился
	assert.Len(t, area.Sketches[0].Geometry.(orb.Polygon)[0], 8)
	assert.Same(t, area, SimplifyArea(area, 0))
}

func TestSplitGear(t *testing.T) {
	tests := []struct {
		name string
		gear domain.Attribute
		want []string
	}{
		{name: "absent", gear: domain.Absent(), want: []string{domain.UnknownGear}},
		{name: "single", gear: domain.Present("Longline"), want: []string{"Longline"}},
		{name: "single space kept", gear: domain.Present("Pole and line"), want: []string{"Pole and line"}},
		{name: "two spaces", gear: domain.Present("Nets  Jigging"), want: []string{"Nets", "Jigging"}},
		{name: "tab and spaces", gear: domain.Present("Nets\t Jigging   Trolling"), want: []string{"Nets", "Jigging", "Trolling"}},
		{name: "leading separator", gear: domain.Present("  Nets"), want: []string{"", "Nets"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitGear(tt.gear))
		})
	}
}

func TestIslandKey(t *testing.T) {
	assert.Equal(t, "HA - Dhidhdhoo", islandKey(domain.Present("HA"), domain.Present("Dhidhdhoo")))
	assert.Equal(t, domain.UnknownIsland, islandKey(domain.Absent(), domain.Present("Dhidhdhoo")))
	assert.Equal(t, domain.UnknownIsland, islandKey(domain.Present("HA"), domain.Absent()))
}
