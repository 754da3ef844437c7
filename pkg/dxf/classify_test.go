package dxf

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceDXF/pkg/board"
)

// boardFixture is a 100x80 outline drawn as loose lines on a "BoardOutline"
// layer, a closed rounded slot polyline inside it, and a drill circle.
const boardFixture = `0
SECTION
2
HEADER
9
$INSUNITS
70
4
0
ENDSEC
0
SECTION
2
ENTITIES
0
LINE
8
BoardOutline
10
0
20
0
11
100
21
0
0
LINE
8
BoardOutline
10
100
20
0
11
100
21
80
0
LINE
8
BoardOutline
10
100
20
80
11
0
21
80
0
LINE
8
BoardOutline
10
0
20
80
11
0
21
0
0
LWPOLYLINE
8
Route
90
4
70
1
10
40
20
30
10
60
20
30
10
60
20
50
10
40
20
50
0
CIRCLE
8
Drill
10
10
20
10
40
1.5
0
ENDSEC
0
EOF
`

func TestClassifyDocumentHeuristic(t *testing.T) {
	doc, err := Parse(strings.NewReader(boardFixture))
	require.NoError(t, err)

	result := doc.Classify(ReadOptions{})

	require.NotNil(t, result.Outline)
	assert.InDelta(t, 100*80, math.Abs(result.Outline.Area()), 1e-9)
	assert.Equal(t, 1.0, result.UnitScale)

	require.Len(t, result.Cutouts, 1)
	assert.InDelta(t, 20*20, math.Abs(result.Cutouts[0].Area()), 1e-9)

	require.Len(t, result.Holes, 1)
	assert.Equal(t, 1.5, result.Holes[0].Radius)
}

func TestClassifyDocumentLayerMap(t *testing.T) {
	doc, err := Parse(strings.NewReader(boardFixture))
	require.NoError(t, err)

	result := doc.Classify(ReadOptions{LayerMap: map[string]board.Role{
		"BoardOutline": board.RoleOutline,
		"Route":        board.RoleCutout,
		"Drill":        board.RoleHole,
	}})

	require.NotNil(t, result.Outline)
	assert.Len(t, result.Cutouts, 1)
	assert.Len(t, result.Holes, 1)
	assert.Empty(t, result.UnclassifiedPaths)
	assert.Empty(t, result.UnclassifiedCircles)
}

func TestClassifyDocumentForcedUnit(t *testing.T) {
	doc, err := Parse(strings.NewReader(boardFixture))
	require.NoError(t, err)

	result := doc.Classify(ReadOptions{ForcedUnit: "in"})

	require.NotNil(t, result.Outline)
	assert.Equal(t, 25.4, result.UnitScale)
	bb := result.Outline.BoundingBox()
	assert.InDelta(t, 100*25.4, bb.Width(), 1e-9)
}

func TestClassifyDocumentMilHeuristic(t *testing.T) {
	// No declared units, 4000x3000 drawing units: reads as mil.
	src := strings.ReplaceAll(boardFixture, "$INSUNITS", "$UNUSED")
	src = strings.ReplaceAll(src, "100", "4000")
	src = strings.ReplaceAll(src, "80", "3000")

	doc, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	result := doc.Classify(ReadOptions{})
	assert.Equal(t, 0.0254, result.UnitScale)
}

func TestClassifySlotPolyline(t *testing.T) {
	// A circular slot encoded the common way: a closed two-vertex polyline
	// whose both edges are semicircle bulges.
	src := `0
SECTION
2
ENTITIES
0
LWPOLYLINE
8
Slot
90
2
70
1
10
0
20
0
42
1
10
10
20
0
42
1
0
ENDSEC
0
EOF
`
	doc, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	result := doc.Classify(ReadOptions{})
	require.Equal(t, 1, result.PathCount())
	require.Len(t, result.Cutouts, 1)
	assert.Len(t, result.Cutouts[0].Segments, 2)
	assert.InDelta(t, math.Pi*25, math.Abs(result.Cutouts[0].Area()), 1e-6)
}

func TestClassifyHatches(t *testing.T) {
	// One solid hatch with a polyline boundary, one patterned hatch whose
	// boundary is four line edges.
	src := `0
SECTION
2
ENTITIES
0
HATCH
8
Fill
2
SOLID
70
1
91
1
92
3
72
0
73
1
93
4
10
0
20
0
10
10
20
0
10
10
20
10
10
0
20
10
97
0
75
0
98
1
10
5
20
5
0
HATCH
8
Fill
2
ANSI31
91
1
92
1
93
4
72
1
10
0
20
0
11
8
21
0
72
1
10
8
20
0
11
8
21
4
72
1
10
8
20
4
11
0
21
4
72
1
10
0
20
4
11
0
21
0
97
0
75
1
0
ENDSEC
0
EOF
`
	doc, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	result := doc.Classify(ReadOptions{})
	require.Len(t, result.Hatches, 2)

	solid := result.Hatches[0]
	assert.True(t, solid.Solid)
	assert.Equal(t, "Fill", solid.Layer)
	require.Len(t, solid.Boundaries, 1)
	assert.InDelta(t, 100.0, math.Abs(solid.Boundaries[0].Area()), 1e-9)

	patterned := result.Hatches[1]
	assert.False(t, patterned.Solid)
	require.Len(t, patterned.Boundaries, 1)
	assert.Len(t, patterned.Boundaries[0].Segments, 4)
	assert.InDelta(t, 32.0, math.Abs(patterned.Boundaries[0].Area()), 1e-9)
}

func TestClassifyOpenPolylineJoinsPool(t *testing.T) {
	// Two open polylines on one layer that together close a rectangle.
	src := `0
SECTION
2
ENTITIES
0
LWPOLYLINE
8
Edge
90
3
70
0
10
0
20
0
10
10
20
0
10
10
20
5
0
LWPOLYLINE
8
Edge
90
3
70
0
10
10
20
5
10
0
20
5
10
0
20
0
0
ENDSEC
0
EOF
`
	doc, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	result := doc.Classify(ReadOptions{})
	require.NotNil(t, result.Outline)
	assert.InDelta(t, 50.0, math.Abs(result.Outline.Area()), 1e-9)
}
