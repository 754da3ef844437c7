package geom

import "math"

// BoundingBox computes the axis-aligned bounding box of the path. Arc
// extrema are not necessarily at the arc endpoints, so for every arc the
// cardinal angles (0°, 90°, 180°, 270°) that fall inside the arc's angular
// span contribute their circle points as well.
func (p Path) BoundingBox() BoundingBox {
	bb := NewBoundingBox()

	for _, seg := range p.Segments {
		switch s := seg.(type) {
		case Line:
			bb.Expand(s.Start)
			bb.Expand(s.End)
		case Arc:
			bb.Expand(s.StartPoint)
			bb.Expand(s.EndPoint)
			for _, angle := range [4]float64{0, 90, 180, 270} {
				if angleInSpan(angle, s.StartAngle, s.EndAngle) {
					bb.Expand(pointAtAngle(s.Center, s.Radius, angle))
				}
			}
		}
	}

	if bb.IsEmpty() {
		return BoundingBox{}
	}
	return bb
}

// angleInSpan reports whether an angle lies on the counter-clockwise arc
// from start to end. All angles are normalized to [0,360); a span whose end
// is numerically below its start wraps through 0°.
func angleInSpan(angle, start, end float64) bool {
	angle = normalizeAngle(angle)
	start = normalizeAngle(start)
	end = normalizeAngle(end)

	if start <= end {
		return start <= angle && angle <= end
	}
	return angle >= start || angle <= end
}

func normalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Area computes the signed area of the path. The shoelace formula runs over
// the chord of every segment; each arc then adds the circular-segment area
// between its chord and the arc, r²(θ−sinθ)/2 with θ the signed sweep.
// Positive area means counter-clockwise winding.
func (p Path) Area() float64 {
	area := 0.0

	for _, seg := range p.Segments {
		switch s := seg.(type) {
		case Line:
			area += s.Start.X*s.End.Y - s.End.X*s.Start.Y
		case Arc:
			area += s.StartPoint.X*s.EndPoint.Y - s.EndPoint.X*s.StartPoint.Y
			area += arcChordArea(s)
		}
	}

	return area / 2.0
}

// arcChordArea is the signed area between an arc and its chord, doubled to
// match the un-halved shoelace accumulation in Area.
func arcChordArea(a Arc) float64 {
	if a.Radius < 1e-12 {
		return 0
	}

	// Sweep normalized to (-180, 180]: a sweep beyond a half turn is the
	// short way around in the other direction.
	sweep := math.Mod(a.EndAngle-a.StartAngle, 360)
	if sweep < 0 {
		sweep += 360
	}
	if sweep > 180 {
		sweep -= 360
	}

	rad := sweep * math.Pi / 180.0
	return a.Radius * a.Radius * (rad - math.Sin(rad))
}

// Contains tests whether a point lies inside the path using a horizontal ray
// cast toward +x. Arc edges are approximated by a polyline of equal-angle
// steps before the per-chord crossing test.
func (p Path) Contains(pt Point) bool {
	crossings := 0

	for _, seg := range p.Segments {
		switch s := seg.(type) {
		case Line:
			crossings += rayCrossesChord(pt, s.Start.X, s.Start.Y, s.End.X, s.End.Y)
		case Arc:
			crossings += rayCrossesArc(pt, s)
		}
	}

	return crossings%2 == 1
}

// rayCrossesChord counts crossings of the +x ray from pt with one chord.
// The y-range test is half-open so a ray through a shared vertex is counted
// exactly once.
func rayCrossesChord(pt Point, x1, y1, x2, y2 float64) int {
	if (y1 <= pt.Y && pt.Y < y2) || (y2 <= pt.Y && pt.Y < y1) {
		t := (pt.Y - y1) / (y2 - y1)
		if x1+t*(x2-x1) > pt.X {
			return 1
		}
	}
	return 0
}

// rayCrossesArc counts crossings of the +x ray with an arc, polygonized at
// max(8, |sweep|/5°) steps.
func rayCrossesArc(pt Point, a Arc) int {
	sweep := a.EndAngle - a.StartAngle
	steps := int(math.Abs(sweep) / 5.0)
	if steps < 8 {
		steps = 8
	}

	crossings := 0
	prev := pointAtAngle(a.Center, a.Radius, a.StartAngle)
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		next := pointAtAngle(a.Center, a.Radius, a.StartAngle+t*sweep)
		crossings += rayCrossesChord(pt, prev.X, prev.Y, next.X, next.Y)
		prev = next
	}

	return crossings
}
