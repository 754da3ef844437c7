package geom

import "math"

// DefaultTolerance is the endpoint matching tolerance in millimeters.
// Mechanical CAD exports routinely leave sub-micron gaps between entities
// that were drawn as connected.
const DefaultTolerance = 0.001

// gridKey identifies a tolerance-grid cell. Two endpoints are considered the
// same point iff they quantize to the same cell.
type gridKey struct {
	X int64
	Y int64
}

// touch records that a segment has an endpoint in a grid cell.
type touch struct {
	index   int  // index into the segment arena
	atStart bool // true if the touching endpoint is the segment's start
}

func pointKey(p Point, gridInv float64) gridKey {
	return gridKey{
		X: int64(math.Round(p.X * gridInv)),
		Y: int64(math.Round(p.Y * gridInv)),
	}
}

// Assemble partitions an unordered bag of lines and arcs into maximal closed
// loops. Segments that cannot be closed into any loop are dropped; callers
// that need to detect leftovers compare the input size against the sum of
// segment counts across the returned paths.
//
// Matching uses a tolerance grid: endpoints within the same round(coord/tol)
// cell connect. At junctions where more than two segments meet, the walk
// greedily takes the first unused match; the partition is then valid but not
// canonical.
func Assemble(lines []Line, arcs []Arc, tolerance float64, layer string) []Path {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	gridInv := math.Round(1.0 / tolerance)

	segments := make([]Segment, 0, len(lines)+len(arcs))
	for _, l := range lines {
		segments = append(segments, l)
	}
	for _, a := range arcs {
		segments = append(segments, a)
	}

	if len(segments) == 0 {
		return nil
	}

	// Adjacency: grid cell -> touching segments, referenced by index so the
	// reverse lookup never owns the segments themselves.
	adjacency := make(map[gridKey][]touch, 2*len(segments))
	for i, seg := range segments {
		start, end := seg.Endpoints()
		adjacency[pointKey(start, gridInv)] = append(adjacency[pointKey(start, gridInv)], touch{index: i, atStart: true})
		adjacency[pointKey(end, gridInv)] = append(adjacency[pointKey(end, gridInv)], touch{index: i, atStart: false})
	}

	used := make([]bool, len(segments))
	var paths []Path

	for startIdx := range segments {
		if used[startIdx] {
			continue
		}
		if loop := walkLoop(segments, adjacency, used, startIdx, gridInv); loop != nil {
			paths = append(paths, Path{Segments: loop, Layer: layer})
		}
	}

	return paths
}

// walkLoop tries to close a loop starting from the given segment. On success
// it returns the chain of oriented segments; on a dead end it marks every
// segment it consumed as unused again and returns nil, so the segments stay
// available for loops begun elsewhere.
func walkLoop(segments []Segment, adjacency map[gridKey][]touch, used []bool, startIdx int, gridInv float64) []Segment {
	seg := segments[startIdx]
	startPt, endPt := seg.Endpoints()
	loopStart := pointKey(startPt, gridInv)

	chain := []Segment{seg}
	chainIdx := []int{startIdx}
	used[startIdx] = true
	current := pointKey(endPt, gridInv)

	// The walk visits each segment at most once, so the total segment count
	// bounds the number of steps even on malformed input.
	maxSteps := len(segments)
	for step := 0; step < maxSteps; step++ {
		if current == loopStart && len(chain) > 1 {
			return chain
		}

		next, ok := findNext(adjacency, used, current)
		if !ok {
			// Dead end: roll back so a different starting segment can
			// still consume these.
			for _, idx := range chainIdx {
				used[idx] = false
			}
			return nil
		}

		used[next.index] = true
		seg = segments[next.index]
		if !next.atStart {
			// Entered at the candidate's end: flip it so the chain stays
			// head-to-tail.
			seg = seg.Reverse()
		}

		chain = append(chain, seg)
		chainIdx = append(chainIdx, next.index)
		_, endPt = seg.Endpoints()
		current = pointKey(endPt, gridInv)
	}

	// Step bound exceeded. The accumulated segments stay consumed; they
	// cannot participate in any loop this walk could not finish.
	return nil
}

// findNext returns the first unused segment touching the given grid cell.
func findNext(adjacency map[gridKey][]touch, used []bool, key gridKey) (touch, bool) {
	for _, t := range adjacency[key] {
		if !used[t.index] {
			return t, true
		}
	}
	return touch{}, false
}
