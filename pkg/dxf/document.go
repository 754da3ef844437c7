package dxf

import (
	"github.com/OpenTraceLab/OpenTraceDXF/pkg/board"
	"github.com/OpenTraceLab/OpenTraceDXF/pkg/geom"
)

// LineEntity is a raw LINE in drawing units.
type LineEntity struct {
	Start geom.Point
	End   geom.Point
	Layer string
}

// ArcEntity is a raw ARC in drawing units, counter-clockwise from
// StartAngle to EndAngle in degrees.
type ArcEntity struct {
	Center     geom.Point
	Radius     float64
	StartAngle float64
	EndAngle   float64
	Layer      string
}

// CircleEntity is a raw CIRCLE in drawing units.
type CircleEntity struct {
	Center geom.Point
	Radius float64
	Layer  string
}

// PolylineEntity is a raw LWPOLYLINE: vertices plus one bulge per vertex
// (zero = straight edge to the next vertex).
type PolylineEntity struct {
	Points []geom.Point
	Bulges []float64
	Closed bool
	Layer  string
}

// HatchEntity is a raw HATCH filled region in drawing units.
type HatchEntity struct {
	Pattern    string
	Style      int
	Boundaries []HatchBoundary
	Layer      string
}

// Solid reports whether the hatch is a solid fill.
func (h HatchEntity) Solid() bool {
	return h.Style == 0 || h.Pattern == "SOLID"
}

// HatchBoundary is one boundary loop of a HATCH: either a polyline
// boundary (Points plus per-vertex Bulges) or an edge boundary (typed
// line and arc edges).
type HatchBoundary struct {
	Points []geom.Point
	Bulges []float64

	LineEdges []LineEdge
	ArcEdges  []ArcEdge
}

// LineEdge is a straight HATCH boundary edge.
type LineEdge struct {
	Start geom.Point
	End   geom.Point
}

// ArcEdge is a circular HATCH boundary edge, counter-clockwise from
// StartAngle to EndAngle in degrees.
type ArcEdge struct {
	Center     geom.Point
	Radius     float64
	StartAngle float64
	EndAngle   float64
}

// TextEntity is a raw TEXT or MTEXT annotation.
type TextEntity struct {
	Content  string
	Position geom.Point
	Height   float64
	Rotation float64 // degrees
	Layer    string
}

// Document is a parsed DXF file: the header variables this tool cares about
// plus the raw modelspace entities, still in drawing units.
type Document struct {
	Version  string // $ACADVER, e.g. "AC1015"
	Insunits int    // $INSUNITS code, 0 when absent or unitless

	Lines     []LineEntity
	Arcs      []ArcEntity
	Circles   []CircleEntity
	Polylines []PolylineEntity
	Hatches   []HatchEntity
	Texts     []TextEntity

	// EntityCounts counts every entity type seen, including skipped ones.
	EntityCounts map[string]int
	// LayerCounts counts entities per layer name.
	LayerCounts map[string]int

	// splinePoints are SPLINE control points; they only inform the raw
	// bounding box used for unit resolution.
	splinePoints []geom.Point
}

// RawBoundingBox computes the bounding box over all entity coordinates in
// drawing units, before any unit scaling. Circles and arcs contribute their
// full circle extent.
func (d *Document) RawBoundingBox() geom.BoundingBox {
	bb := geom.NewBoundingBox()

	for _, l := range d.Lines {
		bb.Expand(l.Start)
		bb.Expand(l.End)
	}
	for _, a := range d.Arcs {
		bb.Expand(geom.Point{X: a.Center.X - a.Radius, Y: a.Center.Y - a.Radius})
		bb.Expand(geom.Point{X: a.Center.X + a.Radius, Y: a.Center.Y + a.Radius})
	}
	for _, c := range d.Circles {
		bb.Expand(geom.Point{X: c.Center.X - c.Radius, Y: c.Center.Y - c.Radius})
		bb.Expand(geom.Point{X: c.Center.X + c.Radius, Y: c.Center.Y + c.Radius})
	}
	for _, p := range d.Polylines {
		for _, pt := range p.Points {
			bb.Expand(pt)
		}
	}
	for _, pt := range d.splinePoints {
		bb.Expand(pt)
	}

	if bb.IsEmpty() {
		return geom.BoundingBox{}
	}
	return bb
}

// RawExtent returns the largest axis of the raw bounding box, the input to
// unit resolution.
func (d *Document) RawExtent() float64 {
	bb := d.RawBoundingBox()
	if bb.Width() > bb.Height() {
		return bb.Width()
	}
	return bb.Height()
}

// DeclaredUnit returns the unit name declared by $INSUNITS, or "" when the
// header is absent or unitless.
func (d *Document) DeclaredUnit() string {
	name, ok := board.InsunitsName(d.Insunits)
	if !ok {
		return ""
	}
	return name
}
