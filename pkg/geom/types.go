// Package geom provides the geometric primitives and contour assembly used to
// reconstruct board outlines from mechanical CAD exports. Coordinates are in
// millimeters; angles are in degrees with arcs swept counter-clockwise from
// start to end.
package geom

import "math"

// Point is a 2D coordinate in millimeters.
type Point struct {
	X float64
	Y float64
}

// Line is a directed straight segment. Direction matters for loop assembly
// and for the sign of the enclosed area.
type Line struct {
	Start Point
	End   Point
}

// Arc is a circular arc swept counter-clockwise from StartAngle to EndAngle.
// StartPoint and EndPoint are derived from the center, radius, and angles;
// they are stored so that loop assembly can treat arcs and lines uniformly.
type Arc struct {
	Center     Point
	Radius     float64
	StartAngle float64 // degrees
	EndAngle   float64 // degrees
	StartPoint Point
	EndPoint   Point
}

// NewArc builds an Arc from center, radius, and angles, deriving the
// endpoint coordinates.
func NewArc(center Point, radius, startAngle, endAngle float64) Arc {
	return Arc{
		Center:     center,
		Radius:     radius,
		StartAngle: startAngle,
		EndAngle:   endAngle,
		StartPoint: pointAtAngle(center, radius, startAngle),
		EndPoint:   pointAtAngle(center, radius, endAngle),
	}
}

// pointAtAngle returns the point on a circle at the given angle in degrees.
func pointAtAngle(center Point, radius, angleDeg float64) Point {
	rad := angleDeg * math.Pi / 180.0
	return Point{
		X: center.X + radius*math.Cos(rad),
		Y: center.Y + radius*math.Sin(rad),
	}
}

// Segment is the unit of chain assembly: either a Line or an Arc.
// The sum is closed; metrics switch exhaustively over the two variants.
type Segment interface {
	// Endpoints returns the directed (start, end) points of the segment.
	Endpoints() (Point, Point)

	// Reverse returns the segment with its direction flipped.
	Reverse() Segment

	isSegment()
}

func (l Line) isSegment() {}
func (a Arc) isSegment()  {}

// Endpoints returns the line's (start, end) points.
func (l Line) Endpoints() (Point, Point) { return l.Start, l.End }

// Reverse returns the line traversed end to start.
func (l Line) Reverse() Segment { return Line{Start: l.End, End: l.Start} }

// Endpoints returns the arc's derived (start, end) points.
func (a Arc) Endpoints() (Point, Point) { return a.StartPoint, a.EndPoint }

// Reverse returns the arc traversed end to start, swapping both the angles
// and the derived endpoints.
func (a Arc) Reverse() Segment {
	return Arc{
		Center:     a.Center,
		Radius:     a.Radius,
		StartAngle: a.EndAngle,
		EndAngle:   a.StartAngle,
		StartPoint: a.EndPoint,
		EndPoint:   a.StartPoint,
	}
}

// Path is a closed contour: an ordered sequence of segments where each
// segment's end meets the next segment's start within tolerance and the last
// segment closes back to the first. The assembler never produces a path with
// fewer than two segments.
type Path struct {
	Segments []Segment
	Layer    string // originating layer name (provenance)
}

// Circle is a standalone circular feature. Circles are never decomposed into
// arcs; they classify as drill holes or stay unclassified.
type Circle struct {
	Center Point
	Radius float64
	Layer  string
}

// BoundingBox is an axis-aligned rectangular extent.
type BoundingBox struct {
	Min Point
	Max Point
}

// NewBoundingBox creates an empty bounding box ready for Expand calls.
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		Min: Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
}

// IsEmpty reports whether the bounding box has never been expanded.
func (bb BoundingBox) IsEmpty() bool {
	return bb.Min.X > bb.Max.X || bb.Min.Y > bb.Max.Y
}

// Expand grows the bounding box to include a point.
func (bb *BoundingBox) Expand(p Point) {
	if p.X < bb.Min.X {
		bb.Min.X = p.X
	}
	if p.Y < bb.Min.Y {
		bb.Min.Y = p.Y
	}
	if p.X > bb.Max.X {
		bb.Max.X = p.X
	}
	if p.Y > bb.Max.Y {
		bb.Max.Y = p.Y
	}
}

// ExpandBox grows the bounding box to include another box.
func (bb *BoundingBox) ExpandBox(other BoundingBox) {
	if !other.IsEmpty() {
		bb.Expand(other.Min)
		bb.Expand(other.Max)
	}
}

// Width returns the horizontal extent of the bounding box.
func (bb BoundingBox) Width() float64 { return bb.Max.X - bb.Min.X }

// Height returns the vertical extent of the bounding box.
func (bb BoundingBox) Height() float64 { return bb.Max.Y - bb.Min.Y }

// Center returns the midpoint of the bounding box.
func (bb BoundingBox) Center() Point {
	return Point{X: (bb.Min.X + bb.Max.X) / 2.0, Y: (bb.Min.Y + bb.Max.Y) / 2.0}
}
