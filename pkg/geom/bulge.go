package geom

import "math"

// A bulge value encodes the arc replacing one polyline edge: it is the
// tangent of a quarter of the arc's included angle. Positive means the arc
// sweeps counter-clockwise from the edge's start vertex to its end vertex.
const (
	// bulgeEpsilon below which an edge is treated as straight.
	bulgeEpsilon = 1e-10
	// chordEpsilon below which an edge is degenerate and yields a
	// zero-radius placeholder arc instead of failing.
	chordEpsilon = 1e-12
)

// PolylineToPath converts a closed polyline given as vertices plus per-vertex
// bulge values into a Path. Each bulge pairs with the edge from its vertex to
// the next one, wrapping from the last vertex back to the first. Missing
// bulges (bulges shorter than points) are treated as zero.
func PolylineToPath(points []Point, bulges []float64, layer string) Path {
	n := len(points)
	segments := make([]Segment, 0, n)

	for i := 0; i < n; i++ {
		p1 := points[i]
		p2 := points[(i+1)%n]
		bulge := 0.0
		if i < len(bulges) {
			bulge = bulges[i]
		}
		segments = append(segments, EdgeSegment(p1, p2, bulge))
	}

	return Path{Segments: segments, Layer: layer}
}

// EdgeSegment converts one bulge-encoded edge into a segment: a Line when
// the bulge is below the straightness threshold, a BulgeArc otherwise.
func EdgeSegment(p1, p2 Point, bulge float64) Segment {
	if math.Abs(bulge) < bulgeEpsilon {
		return Line{Start: p1, End: p2}
	}
	return BulgeArc(p1, p2, bulge)
}

// BulgeArc converts a bulge-encoded edge between two points into an Arc.
// For a degenerate chord the result is a zero-radius arc at p1, which
// contributes no geometry downstream.
func BulgeArc(p1, p2 Point, bulge float64) Arc {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	chord := math.Hypot(dx, dy)

	if chord < chordEpsilon {
		return Arc{Center: p1, StartPoint: p1, EndPoint: p2}
	}

	// Sagitta: perpendicular distance from the chord midpoint to the arc.
	s := bulge * chord / 2.0
	radius := math.Abs((chord*chord/4.0 + s*s) / (2.0 * s))

	mx := (p1.X + p2.X) / 2.0
	my := (p1.Y + p2.Y) / 2.0

	// Unit normal pointing left of the p1→p2 direction.
	nx := -dy / chord
	ny := dx / chord

	d := radius - math.Abs(s)
	var cx, cy float64
	if bulge > 0 {
		cx = mx + d*nx
		cy = my + d*ny
	} else {
		cx = mx - d*nx
		cy = my - d*ny
	}

	center := Point{X: cx, Y: cy}
	startAngle := math.Atan2(p1.Y-cy, p1.X-cx) * 180.0 / math.Pi
	endAngle := math.Atan2(p2.Y-cy, p2.X-cx) * 180.0 / math.Pi

	return Arc{
		Center:     center,
		Radius:     radius,
		StartAngle: startAngle,
		EndAngle:   endAngle,
		StartPoint: p1,
		EndPoint:   p2,
	}
}
