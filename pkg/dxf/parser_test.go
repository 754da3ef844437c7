package dxf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tagStream joins group-code/value pairs into a DXF stream.
func tagStream(pairs ...string) string {
	return strings.Join(pairs, "\n") + "\n"
}

func TestParseHeader(t *testing.T) {
	src := tagStream(
		"0", "SECTION",
		"2", "HEADER",
		"9", "$ACADVER",
		"1", "AC1015",
		"9", "$INSUNITS",
		"70", "4",
		"0", "ENDSEC",
		"0", "EOF",
	)

	doc, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "AC1015", doc.Version)
	assert.Equal(t, 4, doc.Insunits)
	assert.Equal(t, "mm", doc.DeclaredUnit())
}

func TestParseEntities(t *testing.T) {
	src := tagStream(
		"0", "SECTION",
		"2", "ENTITIES",
		"0", "LINE",
		"8", "Outline",
		"10", "0.0",
		"20", "0.0",
		"11", "10.0",
		"21", "0.0",
		"0", "ARC",
		"8", "Outline",
		"10", "5.0",
		"20", "5.0",
		"40", "2.5",
		"50", "0.0",
		"51", "90.0",
		"0", "CIRCLE",
		"8", "Drill",
		"10", "3.0",
		"20", "3.0",
		"40", "0.5",
		"0", "ENDSEC",
		"0", "EOF",
	)

	doc, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	require.Len(t, doc.Lines, 1)
	assert.Equal(t, "Outline", doc.Lines[0].Layer)
	assert.Equal(t, 10.0, doc.Lines[0].End.X)

	require.Len(t, doc.Arcs, 1)
	assert.Equal(t, 2.5, doc.Arcs[0].Radius)
	assert.Equal(t, 90.0, doc.Arcs[0].EndAngle)

	require.Len(t, doc.Circles, 1)
	assert.Equal(t, "Drill", doc.Circles[0].Layer)

	assert.Equal(t, map[string]int{"LINE": 1, "ARC": 1, "CIRCLE": 1}, doc.EntityCounts)
	assert.Equal(t, map[string]int{"Outline": 2, "Drill": 1}, doc.LayerCounts)
}

func TestParsePolylineBulges(t *testing.T) {
	src := tagStream(
		"0", "SECTION",
		"2", "ENTITIES",
		"0", "LWPOLYLINE",
		"8", "Outline",
		"90", "3",
		"70", "1",
		"10", "0.0",
		"20", "0.0",
		"10", "10.0",
		"20", "0.0",
		"42", "1.0",
		"10", "10.0",
		"20", "10.0",
		"0", "ENDSEC",
		"0", "EOF",
	)

	doc, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	require.Len(t, doc.Polylines, 1)
	pl := doc.Polylines[0]
	assert.True(t, pl.Closed)
	require.Len(t, pl.Points, 3)
	require.Len(t, pl.Bulges, 3)
	assert.Equal(t, []float64{0, 1.0, 0}, pl.Bulges)
	assert.Equal(t, 10.0, pl.Points[2].Y)
}

func TestParseSkipsUnknownEntities(t *testing.T) {
	src := tagStream(
		"0", "SECTION",
		"2", "ENTITIES",
		"0", "DIMENSION",
		"8", "Dims",
		"0", "LINE",
		"8", "Outline",
		"10", "0",
		"20", "0",
		"11", "1",
		"21", "1",
		"0", "ENDSEC",
		"0", "EOF",
	)

	doc, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	assert.Len(t, doc.Lines, 1)
	assert.Equal(t, 1, doc.EntityCounts["DIMENSION"])
}

func TestParseHatchPolylineBoundary(t *testing.T) {
	src := tagStream(
		"0", "SECTION",
		"2", "ENTITIES",
		"0", "HATCH",
		"8", "Fill",
		"2", "SOLID",
		"70", "1",
		"91", "1",
		"92", "3",
		"72", "1",
		"73", "1",
		"93", "3",
		"10", "0",
		"20", "0",
		"42", "0.5",
		"10", "6",
		"20", "0",
		"10", "3",
		"20", "4",
		"97", "0",
		"75", "0",
		"98", "1",
		"10", "99",
		"20", "99",
		"0", "ENDSEC",
		"0", "EOF",
	)

	doc, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, doc.Hatches, 1)

	h := doc.Hatches[0]
	assert.Equal(t, "Fill", h.Layer)
	assert.True(t, h.Solid())
	require.Len(t, h.Boundaries, 1)

	b := h.Boundaries[0]
	// The seed point after code 98 must not leak into the vertex list.
	require.Len(t, b.Points, 3)
	assert.Equal(t, []float64{0.5, 0, 0}, b.Bulges)
	assert.Equal(t, 6.0, b.Points[1].X)
}

func TestParseHatchEdgeBoundary(t *testing.T) {
	src := tagStream(
		"0", "SECTION",
		"2", "ENTITIES",
		"0", "HATCH",
		"8", "Fill",
		"2", "ANSI31",
		"91", "1",
		"92", "1",
		"93", "3",
		"72", "1",
		"10", "0",
		"20", "0",
		"11", "10",
		"21", "0",
		"72", "2",
		"10", "10",
		"20", "5",
		"40", "5",
		"50", "270",
		"51", "90",
		"72", "1",
		"10", "10",
		"20", "10",
		"11", "0",
		"21", "10",
		"97", "0",
		"75", "1",
		"0", "ENDSEC",
		"0", "EOF",
	)

	doc, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, doc.Hatches, 1)

	h := doc.Hatches[0]
	assert.False(t, h.Solid())
	require.Len(t, h.Boundaries, 1)

	b := h.Boundaries[0]
	require.Len(t, b.LineEdges, 2)
	require.Len(t, b.ArcEdges, 1)
	assert.Equal(t, 10.0, b.LineEdges[0].End.X)
	assert.Equal(t, 5.0, b.ArcEdges[0].Radius)
	assert.Equal(t, 270.0, b.ArcEdges[0].StartAngle)
	assert.Equal(t, 90.0, b.ArcEdges[0].EndAngle)
}

func TestParseSplineExtentOnly(t *testing.T) {
	src := tagStream(
		"0", "SECTION",
		"2", "ENTITIES",
		"0", "SPLINE",
		"8", "Outline",
		"10", "-5.0",
		"20", "0.0",
		"10", "25.0",
		"20", "12.0",
		"0", "ENDSEC",
		"0", "EOF",
	)

	doc, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	bb := doc.RawBoundingBox()
	assert.Equal(t, -5.0, bb.Min.X)
	assert.Equal(t, 25.0, bb.Max.X)
	assert.InDelta(t, 30.0, doc.RawExtent(), 1e-12)
}

func TestParseMText(t *testing.T) {
	src := tagStream(
		"0", "SECTION",
		"2", "ENTITIES",
		"0", "MTEXT",
		"8", "Notes",
		"1", "rev B",
		"10", "1.0",
		"20", "2.0",
		"40", "1.5",
		"0", "ENDSEC",
		"0", "EOF",
	)

	doc, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, doc.Texts, 1)
	assert.Equal(t, "rev B", doc.Texts[0].Content)
	assert.Equal(t, 1.5, doc.Texts[0].Height)
}

func TestParseDanglingCode(t *testing.T) {
	_, err := Parse(strings.NewReader("0\nSECTION\n2\nENTITIES\n10\n"))
	require.Error(t, err)
}

func TestParseSkipsOtherSections(t *testing.T) {
	src := tagStream(
		"0", "SECTION",
		"2", "BLOCKS",
		"0", "BLOCK",
		"2", "whatever",
		"0", "ENDSEC",
		"0", "SECTION",
		"2", "ENTITIES",
		"0", "CIRCLE",
		"8", "Drill",
		"10", "0",
		"20", "0",
		"40", "1",
		"0", "ENDSEC",
		"0", "EOF",
	)

	doc, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	assert.Len(t, doc.Circles, 1)
}
