package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolylineToPathStraightEdges(t *testing.T) {
	points := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	bulges := []float64{0, 0, 0, 0}

	path := PolylineToPath(points, bulges, "test")

	require.Len(t, path.Segments, 4)
	assert.Equal(t, "test", path.Layer)
	for i, seg := range path.Segments {
		assert.IsType(t, Line{}, seg, "segment %d", i)
	}

	// The wrap-around edge closes back to the first vertex.
	last := path.Segments[3].(Line)
	assert.Equal(t, Point{0, 10}, last.Start)
	assert.Equal(t, Point{0, 0}, last.End)
}

func TestPolylineToPathBulgeCreatesArc(t *testing.T) {
	points := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	bulges := []float64{0.5, 0, 0, 0}

	path := PolylineToPath(points, bulges, "test")

	require.Len(t, path.Segments, 4)
	assert.IsType(t, Arc{}, path.Segments[0])
	assert.IsType(t, Line{}, path.Segments[1])
}

func TestPolylineToPathShortBulgeList(t *testing.T) {
	// Missing trailing bulges default to straight edges.
	points := []Point{{0, 0}, {4, 0}, {4, 4}}

	path := PolylineToPath(points, []float64{0}, "")

	require.Len(t, path.Segments, 3)
	for _, seg := range path.Segments {
		assert.IsType(t, Line{}, seg)
	}
}

func TestBulgeArcSemicircle(t *testing.T) {
	// Bulge 1 is tan(45°): a half turn. The arc over a chord of length 10
	// is a semicircle of radius 5 centered on the chord midpoint.
	arc := BulgeArc(Point{0, 0}, Point{10, 0}, 1.0)

	assert.InDelta(t, 5.0, arc.Radius, 1e-9)
	assert.InDelta(t, 5.0, arc.Center.X, 1e-9)
	assert.InDelta(t, 0.0, arc.Center.Y, 1e-9)
	assert.Equal(t, Point{0, 0}, arc.StartPoint)
	assert.Equal(t, Point{10, 0}, arc.EndPoint)
}

func TestBulgeArcNegativeSweepsClockwise(t *testing.T) {
	// A negative bulge puts the center on the left of the chord so the arc
	// bulges right (clockwise sweep from start to end).
	arc := BulgeArc(Point{0, 0}, Point{10, 0}, -1.0)

	assert.InDelta(t, 5.0, arc.Radius, 1e-9)
	assert.InDelta(t, 5.0, arc.Center.X, 1e-9)
	assert.InDelta(t, 0.0, arc.Center.Y, 1e-9)
	assert.InDelta(t, 180.0, arc.StartAngle, 1e-9)
	assert.InDelta(t, 0.0, arc.EndAngle, 1e-9)
}

func TestBulgeArcQuarterTurn(t *testing.T) {
	// Bulge tan(22.5°) subtends a quarter turn; the radius follows from
	// chord = r·√2.
	b := 0.41421356237309503 // tan(pi/8)
	arc := BulgeArc(Point{0, 0}, Point{10, 0}, b)

	assert.InDelta(t, 10.0/1.4142135623730951, arc.Radius, 1e-9)
}

func TestBulgeArcDegenerateChord(t *testing.T) {
	// Coincident endpoints must not divide by zero; the placeholder arc
	// contributes no geometry.
	arc := BulgeArc(Point{3, 3}, Point{3, 3}, 0.7)

	assert.Zero(t, arc.Radius)
	assert.Equal(t, Point{3, 3}, arc.StartPoint)
}
