package dxf

import (
	"sort"

	"github.com/OpenTraceLab/OpenTraceDXF/pkg/board"
	"github.com/OpenTraceLab/OpenTraceDXF/pkg/geom"
)

// ReadOptions control how a parsed document is turned into a classified
// board.
type ReadOptions struct {
	// ForcedUnit overrides unit detection ("mm", "in", "mil", ...).
	ForcedUnit string
	// LayerMap, when non-nil, routes entities by exact layer name instead of
	// keyword heuristics.
	LayerMap map[string]board.Role
	// Tolerance is the endpoint matching distance in millimeters for contour
	// assembly. Zero selects geom.DefaultTolerance.
	Tolerance float64
}

// Classify resolves units, assembles closed contours from the document's
// loose segments, and routes everything into board roles.
func (d *Document) Classify(opts ReadOptions) *board.Classified {
	tolerance := opts.Tolerance
	if tolerance <= 0 {
		tolerance = geom.DefaultTolerance
	}

	scale := board.ResolveUnitScale(opts.ForcedUnit, d.DeclaredUnit(), d.RawExtent())
	Logger().Debug("resolved unit scale",
		"scale", scale,
		"declared", d.DeclaredUnit(),
		"forced", opts.ForcedUnit,
		"rawExtent", d.RawExtent())

	pools := map[string]*segmentPool{}
	pool := func(layer string) *segmentPool {
		p, ok := pools[layer]
		if !ok {
			p = &segmentPool{}
			pools[layer] = p
		}
		return p
	}

	for _, l := range d.Lines {
		p := pool(l.Layer)
		p.lines = append(p.lines, geom.Line{
			Start: scalePoint(l.Start, scale),
			End:   scalePoint(l.End, scale),
		})
	}
	for _, a := range d.Arcs {
		p := pool(a.Layer)
		p.arcs = append(p.arcs, geom.NewArc(
			scalePoint(a.Center, scale), a.Radius*scale, a.StartAngle, a.EndAngle))
	}

	var paths []geom.Path
	for _, pl := range d.Polylines {
		points := make([]geom.Point, len(pl.Points))
		for i, pt := range pl.Points {
			points[i] = scalePoint(pt, scale)
		}
		// Two closed vertices are enough for a contour: a slot is commonly
		// encoded as two bulged edges wrapping between two vertices.
		if pl.Closed && len(points) >= 2 {
			paths = append(paths, geom.PolylineToPath(points, pl.Bulges, pl.Layer))
			continue
		}
		// Open polylines contribute their edges to the assembly pool; they
		// may close a contour together with loose lines and arcs.
		p := pool(pl.Layer)
		for i := 0; i+1 < len(points); i++ {
			bulge := 0.0
			if i < len(pl.Bulges) {
				bulge = pl.Bulges[i]
			}
			switch seg := geom.EdgeSegment(points[i], points[i+1], bulge).(type) {
			case geom.Line:
				p.lines = append(p.lines, seg)
			case geom.Arc:
				p.arcs = append(p.arcs, seg)
			}
		}
	}

	// Layer order is deterministic so repeated runs produce identical path
	// ordering.
	layers := make([]string, 0, len(pools))
	for layer := range pools {
		layers = append(layers, layer)
	}
	sort.Strings(layers)
	for _, layer := range layers {
		p := pools[layer]
		paths = append(paths, geom.Assemble(p.lines, p.arcs, tolerance, layer)...)
	}

	circles := make([]geom.Circle, 0, len(d.Circles))
	for _, c := range d.Circles {
		circles = append(circles, geom.Circle{
			Center: scalePoint(c.Center, scale),
			Radius: c.Radius * scale,
			Layer:  c.Layer,
		})
	}

	hatches := make([]board.Hatch, 0, len(d.Hatches))
	for _, h := range d.Hatches {
		var boundaries []geom.Path
		for _, b := range h.Boundaries {
			if len(b.Points) >= 3 {
				pts := make([]geom.Point, len(b.Points))
				for i, pt := range b.Points {
					pts[i] = scalePoint(pt, scale)
				}
				boundaries = append(boundaries, geom.PolylineToPath(pts, b.Bulges, h.Layer))
				continue
			}
			var lines []geom.Line
			var arcs []geom.Arc
			for _, e := range b.LineEdges {
				lines = append(lines, geom.Line{
					Start: scalePoint(e.Start, scale),
					End:   scalePoint(e.End, scale),
				})
			}
			for _, e := range b.ArcEdges {
				arcs = append(arcs, geom.NewArc(
					scalePoint(e.Center, scale), e.Radius*scale, e.StartAngle, e.EndAngle))
			}
			if len(lines)+len(arcs) > 0 {
				boundaries = append(boundaries, geom.Assemble(lines, arcs, tolerance, h.Layer)...)
			}
		}
		if len(boundaries) == 0 {
			continue
		}
		hatches = append(hatches, board.Hatch{
			Boundaries: boundaries,
			Solid:      h.Solid(),
			Layer:      h.Layer,
		})
	}

	texts := make([]board.Text, 0, len(d.Texts))
	for _, t := range d.Texts {
		texts = append(texts, board.Text{
			Content:  t.Content,
			Position: scalePoint(t.Position, scale),
			Height:   t.Height * scale,
			Rotation: t.Rotation,
			Layer:    t.Layer,
		})
	}

	return board.Classify(paths, circles, texts, hatches, opts.LayerMap, scale)
}

// ReadBoard parses the DXF file at path and classifies its contents.
func ReadBoard(path string, opts ReadOptions) (*board.Classified, error) {
	doc, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return doc.Classify(opts), nil
}

type segmentPool struct {
	lines []geom.Line
	arcs  []geom.Arc
}

func scalePoint(p geom.Point, scale float64) geom.Point {
	return geom.Point{X: p.X * scale, Y: p.Y * scale}
}
