package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rectLines(x, y, w, h float64) []Line {
	return []Line{
		{Start: Point{x, y}, End: Point{x + w, y}},
		{Start: Point{x + w, y}, End: Point{x + w, y + h}},
		{Start: Point{x + w, y + h}, End: Point{x, y + h}},
		{Start: Point{x, y + h}, End: Point{x, y}},
	}
}

func TestAssembleSimpleRectangle(t *testing.T) {
	paths := Assemble(rectLines(0, 0, 10, 5), nil, DefaultTolerance, "outline")

	require.Len(t, paths, 1)
	assert.Len(t, paths[0].Segments, 4)
	assert.Equal(t, "outline", paths[0].Layer)
}

func TestAssembleShuffledSegments(t *testing.T) {
	// Same rectangle, segments in arbitrary order and orientation.
	lines := []Line{
		{Start: Point{10, 5}, End: Point{0, 5}},
		{Start: Point{0, 0}, End: Point{10, 0}},
		{Start: Point{0, 5}, End: Point{0, 0}},
		{Start: Point{10, 0}, End: Point{10, 5}},
	}

	paths := Assemble(lines, nil, DefaultTolerance, "")

	require.Len(t, paths, 1)
	assert.Len(t, paths[0].Segments, 4)
	assert.InDelta(t, 50.0, abs(paths[0].Area()), 1e-9)
}

func TestAssembleTwoSeparateLoops(t *testing.T) {
	lines := append(rectLines(0, 0, 5, 5), rectLines(20, 20, 5, 5)...)

	paths := Assemble(lines, nil, DefaultTolerance, "")

	assert.Len(t, paths, 2)
}

func TestAssembleEmptyInput(t *testing.T) {
	assert.Empty(t, Assemble(nil, nil, DefaultTolerance, ""))
}

func TestAssembleOpenChainDropped(t *testing.T) {
	// Three sides of a rectangle cannot close.
	lines := rectLines(0, 0, 10, 5)[:3]

	paths := Assemble(lines, nil, DefaultTolerance, "")

	assert.Empty(t, paths)
}

func TestAssembleOpenChainDoesNotStealFromLoop(t *testing.T) {
	// A dangling segment sharing a corner with a complete rectangle must not
	// prevent the rectangle from closing.
	lines := append(rectLines(0, 0, 10, 5),
		Line{Start: Point{0, 0}, End: Point{-4, -4}})

	paths := Assemble(lines, nil, DefaultTolerance, "")

	require.Len(t, paths, 1)
	assert.Len(t, paths[0].Segments, 4)
}

func TestAssembleMixedLinesAndArcs(t *testing.T) {
	// Square with the top edge replaced by a semicircular bulge.
	lines := []Line{
		{Start: Point{0, 0}, End: Point{10, 0}},
		{Start: Point{10, 0}, End: Point{10, 10}},
		{Start: Point{0, 10}, End: Point{0, 0}},
	}
	arcs := []Arc{NewArc(Point{5, 10}, 5, 0, 180)}

	paths := Assemble(lines, arcs, DefaultTolerance, "")

	require.Len(t, paths, 1)
	assert.Len(t, paths[0].Segments, 4)
}

func TestAssembleToleranceMatching(t *testing.T) {
	// Endpoints 0.0005 apart close under a 0.001 tolerance but not under
	// a 0.0001 tolerance.
	lines := []Line{
		{Start: Point{0, 0}, End: Point{10.0003, 0}},
		{Start: Point{9.9998, 0}, End: Point{10, 5}},
		{Start: Point{10, 5}, End: Point{0, 5}},
		{Start: Point{0, 5}, End: Point{0, 0}},
	}

	assert.Len(t, Assemble(lines, nil, 0.001, ""), 1)
	assert.Empty(t, Assemble(lines, nil, 0.0001, ""))
}

func TestAssembleSegmentsAppearExactlyOnce(t *testing.T) {
	// Order independence over a couple of rotations of the same input.
	base := rectLines(0, 0, 8, 3)
	for shift := 0; shift < len(base); shift++ {
		lines := append(append([]Line{}, base[shift:]...), base[:shift]...)

		paths := Assemble(lines, nil, DefaultTolerance, "")

		require.Len(t, paths, 1, "shift %d", shift)
		assert.Len(t, paths[0].Segments, 4, "shift %d", shift)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
