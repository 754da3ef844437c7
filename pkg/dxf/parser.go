package dxf

import (
	"fmt"
	"io"
	"os"

	"github.com/OpenTraceLab/OpenTraceDXF/pkg/geom"
)

// Parse reads a DXF tag stream and returns the document. Entity types this
// tool does not understand are counted and skipped, not errors.
func Parse(r io.Reader) (*Document, error) {
	doc := &Document{
		EntityCounts: map[string]int{},
		LayerCounts:  map[string]int{},
	}
	tr := newTagReader(r)

	for {
		tag, err := tr.Next()
		if err == io.EOF {
			return doc, nil
		}
		if err != nil {
			return nil, err
		}
		if tag.Code != 0 || tag.Value != "SECTION" {
			continue
		}

		name, err := tr.Next()
		if err != nil {
			return nil, fmt.Errorf("unterminated SECTION: %w", err)
		}
		if name.Code != 2 {
			tr.Unread(name)
			continue
		}

		switch name.Value {
		case "HEADER":
			err = parseHeader(tr, doc)
		case "ENTITIES":
			err = parseEntities(tr, doc)
		default:
			err = skipSection(tr)
		}
		if err != nil {
			return nil, err
		}
	}
}

// ParseFile parses the DXF file at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

func skipSection(tr *tagReader) error {
	for {
		tag, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if tag.Code == 0 && tag.Value == "ENDSEC" {
			return nil
		}
	}
}

func parseHeader(tr *tagReader, doc *Document) error {
	var varName string
	for {
		tag, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch {
		case tag.Code == 0 && tag.Value == "ENDSEC":
			return nil
		case tag.Code == 9:
			varName = tag.Value
		case tag.Code == 1 && varName == "$ACADVER":
			doc.Version = tag.Value
		case tag.Code == 70 && varName == "$INSUNITS":
			doc.Insunits = tag.Int()
		}
	}
}

func parseEntities(tr *tagReader, doc *Document) error {
	for {
		tag, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if tag.Code != 0 {
			continue
		}
		if tag.Value == "ENDSEC" {
			return nil
		}

		tags, err := readEntityTags(tr)
		if err != nil {
			return fmt.Errorf("entity %s: %w", tag.Value, err)
		}
		doc.EntityCounts[tag.Value]++
		if layer := tagValue(tags, 8); layer != "" {
			doc.LayerCounts[layer]++
		}

		switch tag.Value {
		case "LINE":
			doc.Lines = append(doc.Lines, parseLine(tags))
		case "ARC":
			doc.Arcs = append(doc.Arcs, parseArc(tags))
		case "CIRCLE":
			doc.Circles = append(doc.Circles, parseCircle(tags))
		case "LWPOLYLINE":
			doc.Polylines = append(doc.Polylines, parsePolyline(tags))
		case "TEXT", "MTEXT":
			doc.Texts = append(doc.Texts, parseText(tags))
		case "HATCH":
			if h := parseHatch(tags); len(h.Boundaries) > 0 {
				doc.Hatches = append(doc.Hatches, h)
			} else {
				Logger().Debug("skipping HATCH without usable boundaries")
			}
		case "SPLINE":
			doc.splinePoints = append(doc.splinePoints, controlPoints(tags)...)
			Logger().Debug("spline approximated by control points for extent only")
		default:
			Logger().Debug("skipping unsupported entity", "type", tag.Value)
		}
	}
}

// readEntityTags collects tags up to but not including the next group
// code 0, which starts the next entity or ends the section.
func readEntityTags(tr *tagReader) ([]Tag, error) {
	var tags []Tag
	for {
		tag, err := tr.Next()
		if err == io.EOF {
			return tags, nil
		}
		if err != nil {
			return nil, err
		}
		if tag.Code == 0 {
			tr.Unread(tag)
			return tags, nil
		}
		tags = append(tags, tag)
	}
}

func tagValue(tags []Tag, code int) string {
	for _, t := range tags {
		if t.Code == code {
			return t.Value
		}
	}
	return ""
}

func tagFloat(tags []Tag, code int) float64 {
	for _, t := range tags {
		if t.Code == code {
			return t.Float()
		}
	}
	return 0
}

func parseLine(tags []Tag) LineEntity {
	return LineEntity{
		Start: geom.Point{X: tagFloat(tags, 10), Y: tagFloat(tags, 20)},
		End:   geom.Point{X: tagFloat(tags, 11), Y: tagFloat(tags, 21)},
		Layer: tagValue(tags, 8),
	}
}

func parseArc(tags []Tag) ArcEntity {
	return ArcEntity{
		Center:     geom.Point{X: tagFloat(tags, 10), Y: tagFloat(tags, 20)},
		Radius:     tagFloat(tags, 40),
		StartAngle: tagFloat(tags, 50),
		EndAngle:   tagFloat(tags, 51),
		Layer:      tagValue(tags, 8),
	}
}

func parseCircle(tags []Tag) CircleEntity {
	return CircleEntity{
		Center: geom.Point{X: tagFloat(tags, 10), Y: tagFloat(tags, 20)},
		Radius: tagFloat(tags, 40),
		Layer:  tagValue(tags, 8),
	}
}

// parsePolyline walks the vertex tags in order: each code 10 starts a new
// vertex, its 20 completes it, and a 42 attaches a bulge to the most recent
// vertex.
func parsePolyline(tags []Tag) PolylineEntity {
	p := PolylineEntity{Layer: tagValue(tags, 8)}
	for _, t := range tags {
		switch t.Code {
		case 70:
			p.Closed = t.Int()&1 != 0
		case 10:
			p.Points = append(p.Points, geom.Point{X: t.Float()})
			p.Bulges = append(p.Bulges, 0)
		case 20:
			if len(p.Points) > 0 {
				p.Points[len(p.Points)-1].Y = t.Float()
			}
		case 42:
			if len(p.Bulges) > 0 {
				p.Bulges[len(p.Bulges)-1] = t.Float()
			}
		}
	}
	return p
}

// parseHatch collects the boundary path records: each code 92 carries the
// boundary type flags (bit 2 set means polyline data follows inline,
// otherwise typed edge records introduced by code 72). Ellipse and spline
// edges are left out, matching the rest of the curve support.
func parseHatch(tags []Tag) HatchEntity {
	h := HatchEntity{
		Pattern: tagValue(tags, 2),
		Style:   int(tagFloat(tags, 75)),
		Layer:   tagValue(tags, 8),
	}
	for i := 0; i < len(tags); i++ {
		if tags[i].Code != 92 {
			continue
		}
		boundary, next := parseHatchBoundary(tags, i+1, tags[i].Int()&2 != 0)
		if len(boundary.Points) > 0 || len(boundary.LineEdges)+len(boundary.ArcEdges) > 0 {
			h.Boundaries = append(h.Boundaries, boundary)
		}
		i = next - 1
	}
	return h
}

// parseHatchBoundary reads one boundary starting at tags[i] and returns it
// with the index of the tag that ended it. Code 92 starts the next
// boundary; codes 97 (source objects), 75 (hatch style), and 98 (seed
// points) end the boundary data, keeping seed point coordinates out of the
// vertex list.
func parseHatchBoundary(tags []Tag, i int, polyline bool) (HatchBoundary, int) {
	var b HatchBoundary
	edgeType := 0
	for ; i < len(tags); i++ {
		t := tags[i]
		switch t.Code {
		case 92, 97, 75, 98:
			return b, i
		}

		if polyline {
			switch t.Code {
			case 10:
				b.Points = append(b.Points, geom.Point{X: t.Float()})
				b.Bulges = append(b.Bulges, 0)
			case 20:
				if len(b.Points) > 0 {
					b.Points[len(b.Points)-1].Y = t.Float()
				}
			case 42:
				if len(b.Bulges) > 0 {
					b.Bulges[len(b.Bulges)-1] = t.Float()
				}
			}
			continue
		}

		switch t.Code {
		case 72:
			edgeType = t.Int()
			switch edgeType {
			case 1:
				b.LineEdges = append(b.LineEdges, LineEdge{})
			case 2:
				b.ArcEdges = append(b.ArcEdges, ArcEdge{})
			}
		case 10:
			if edgeType == 1 && len(b.LineEdges) > 0 {
				b.LineEdges[len(b.LineEdges)-1].Start.X = t.Float()
			} else if edgeType == 2 && len(b.ArcEdges) > 0 {
				b.ArcEdges[len(b.ArcEdges)-1].Center.X = t.Float()
			}
		case 20:
			if edgeType == 1 && len(b.LineEdges) > 0 {
				b.LineEdges[len(b.LineEdges)-1].Start.Y = t.Float()
			} else if edgeType == 2 && len(b.ArcEdges) > 0 {
				b.ArcEdges[len(b.ArcEdges)-1].Center.Y = t.Float()
			}
		case 11:
			if edgeType == 1 && len(b.LineEdges) > 0 {
				b.LineEdges[len(b.LineEdges)-1].End.X = t.Float()
			}
		case 21:
			if edgeType == 1 && len(b.LineEdges) > 0 {
				b.LineEdges[len(b.LineEdges)-1].End.Y = t.Float()
			}
		case 40:
			if edgeType == 2 && len(b.ArcEdges) > 0 {
				b.ArcEdges[len(b.ArcEdges)-1].Radius = t.Float()
			}
		case 50:
			if edgeType == 2 && len(b.ArcEdges) > 0 {
				b.ArcEdges[len(b.ArcEdges)-1].StartAngle = t.Float()
			}
		case 51:
			if edgeType == 2 && len(b.ArcEdges) > 0 {
				b.ArcEdges[len(b.ArcEdges)-1].EndAngle = t.Float()
			}
		}
	}
	return b, i
}

func parseText(tags []Tag) TextEntity {
	return TextEntity{
		Content:  tagValue(tags, 1),
		Position: geom.Point{X: tagFloat(tags, 10), Y: tagFloat(tags, 20)},
		Height:   tagFloat(tags, 40),
		Rotation: tagFloat(tags, 50),
		Layer:    tagValue(tags, 8),
	}
}

func controlPoints(tags []Tag) []geom.Point {
	var pts []geom.Point
	for _, t := range tags {
		switch t.Code {
		case 10:
			pts = append(pts, geom.Point{X: t.Float()})
		case 20:
			if len(pts) > 0 {
				pts[len(pts)-1].Y = t.Float()
			}
		}
	}
	return pts
}
