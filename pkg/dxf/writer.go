package dxf

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/OpenTraceLab/OpenTraceDXF/pkg/geom"
)

// Vertex is one LWPOLYLINE vertex. StartWidth and EndWidth give the stroke
// width at and after the vertex; Bulge curves the edge to the next vertex.
type Vertex struct {
	Point      geom.Point
	StartWidth float64
	EndWidth   float64
	Bulge      float64
}

// Drawing accumulates layers and entities and writes them out as a minimal
// DXF file: HEADER, a LAYER table, ENTITIES, EOF. Coordinates are
// millimeters.
type Drawing struct {
	layers    []layerDef
	layerSeen map[string]bool
	entities  []Tag
}

type layerDef struct {
	name  string
	color int
}

// NewDrawing returns an empty drawing.
func NewDrawing() *Drawing {
	return &Drawing{layerSeen: map[string]bool{}}
}

// AddLayer registers a layer with an AutoCAD color index. Adding the same
// name twice keeps the first definition.
func (d *Drawing) AddLayer(name string, color int) {
	if d.layerSeen[name] {
		return
	}
	d.layerSeen[name] = true
	d.layers = append(d.layers, layerDef{name: name, color: color})
}

// AddLine emits a LINE entity.
func (d *Drawing) AddLine(start, end geom.Point, layer string) {
	d.entities = append(d.entities,
		Tag{0, "LINE"},
		Tag{8, layer},
		Tag{10, formatFloat(start.X)},
		Tag{20, formatFloat(start.Y)},
		Tag{11, formatFloat(end.X)},
		Tag{21, formatFloat(end.Y)},
	)
}

// AddArc emits an ARC entity, counter-clockwise from startAngle to endAngle
// in degrees.
func (d *Drawing) AddArc(center geom.Point, radius, startAngle, endAngle float64, layer string) {
	d.entities = append(d.entities,
		Tag{0, "ARC"},
		Tag{8, layer},
		Tag{10, formatFloat(center.X)},
		Tag{20, formatFloat(center.Y)},
		Tag{40, formatFloat(radius)},
		Tag{50, formatFloat(startAngle)},
		Tag{51, formatFloat(endAngle)},
	)
}

// AddCircle emits a CIRCLE entity.
func (d *Drawing) AddCircle(center geom.Point, radius float64, layer string) {
	d.entities = append(d.entities,
		Tag{0, "CIRCLE"},
		Tag{8, layer},
		Tag{10, formatFloat(center.X)},
		Tag{20, formatFloat(center.Y)},
		Tag{40, formatFloat(radius)},
	)
}

// AddPoint emits a POINT entity.
func (d *Drawing) AddPoint(p geom.Point, layer string) {
	d.entities = append(d.entities,
		Tag{0, "POINT"},
		Tag{8, layer},
		Tag{10, formatFloat(p.X)},
		Tag{20, formatFloat(p.Y)},
	)
}

// AddPolyline emits an LWPOLYLINE. Vertex widths and bulges are written
// only when non-zero.
func (d *Drawing) AddPolyline(vertices []Vertex, closed bool, layer string) {
	if len(vertices) < 2 {
		return
	}
	flags := 0
	if closed {
		flags = 1
	}
	d.entities = append(d.entities,
		Tag{0, "LWPOLYLINE"},
		Tag{8, layer},
		Tag{90, strconv.Itoa(len(vertices))},
		Tag{70, strconv.Itoa(flags)},
	)
	for _, v := range vertices {
		d.entities = append(d.entities,
			Tag{10, formatFloat(v.Point.X)},
			Tag{20, formatFloat(v.Point.Y)},
		)
		if v.StartWidth != 0 {
			d.entities = append(d.entities, Tag{40, formatFloat(v.StartWidth)})
		}
		if v.EndWidth != 0 {
			d.entities = append(d.entities, Tag{41, formatFloat(v.EndWidth)})
		}
		if v.Bulge != 0 {
			d.entities = append(d.entities, Tag{42, formatFloat(v.Bulge)})
		}
	}
}

// AddClosedOutline emits a closed zero-width LWPOLYLINE through the points.
func (d *Drawing) AddClosedOutline(points []geom.Point, layer string) {
	vertices := make([]Vertex, len(points))
	for i, p := range points {
		vertices[i] = Vertex{Point: p}
	}
	d.AddPolyline(vertices, true, layer)
}

// AddWideLine emits a stroked line as a 2-vertex LWPOLYLINE with per-vertex
// widths. Per-vertex widths render in viewers that ignore a polyline's
// constant width.
func (d *Drawing) AddWideLine(p1, p2 geom.Point, width float64, layer string) {
	d.AddPolyline([]Vertex{
		{Point: p1, StartWidth: width, EndWidth: width},
		{Point: p2, StartWidth: width, EndWidth: width},
	}, false, layer)
}

// AddWideArc emits a stroked arc as a 2-vertex LWPOLYLINE whose first
// vertex carries the bulge for the counter-clockwise sweep.
func (d *Drawing) AddWideArc(center geom.Point, radius, startAngle, endAngle, width float64, layer string) {
	p1 := geom.Point{
		X: center.X + radius*math.Cos(startAngle*math.Pi/180),
		Y: center.Y + radius*math.Sin(startAngle*math.Pi/180),
	}
	p2 := geom.Point{
		X: center.X + radius*math.Cos(endAngle*math.Pi/180),
		Y: center.Y + radius*math.Sin(endAngle*math.Pi/180),
	}
	included := endAngle - startAngle
	if included <= 0 {
		included += 360
	}
	bulge := math.Tan(included * math.Pi / 180 / 4)
	d.AddPolyline([]Vertex{
		{Point: p1, StartWidth: width, EndWidth: width, Bulge: bulge},
		{Point: p2, StartWidth: width, EndWidth: width},
	}, false, layer)
}

// AddText emits a TEXT entity.
func (d *Drawing) AddText(content string, position geom.Point, height, rotation float64, layer string) {
	d.entities = append(d.entities,
		Tag{0, "TEXT"},
		Tag{8, layer},
		Tag{1, content},
		Tag{10, formatFloat(position.X)},
		Tag{20, formatFloat(position.Y)},
		Tag{40, formatFloat(height)},
		Tag{50, formatFloat(rotation)},
	)
}

// Write emits the complete DXF stream.
func (d *Drawing) Write(w io.Writer) error {
	tw := &tagWriter{w: w}

	tw.tags(
		Tag{0, "SECTION"}, Tag{2, "HEADER"},
		Tag{9, "$ACADVER"}, Tag{1, "AC1015"},
		Tag{9, "$INSUNITS"}, Tag{70, "4"},
		Tag{0, "ENDSEC"},
	)

	tw.tags(
		Tag{0, "SECTION"}, Tag{2, "TABLES"},
		Tag{0, "TABLE"}, Tag{2, "LAYER"},
		Tag{70, strconv.Itoa(len(d.layers))},
	)
	for _, layer := range d.layers {
		tw.tags(
			Tag{0, "LAYER"},
			Tag{2, layer.name},
			Tag{70, "0"},
			Tag{62, strconv.Itoa(layer.color)},
			Tag{6, "CONTINUOUS"},
		)
	}
	tw.tags(Tag{0, "ENDTAB"}, Tag{0, "ENDSEC"})

	tw.tags(Tag{0, "SECTION"}, Tag{2, "ENTITIES"})
	tw.tags(d.entities...)
	tw.tags(Tag{0, "ENDSEC"}, Tag{0, "EOF"})

	return tw.err
}

// WriteFile writes the drawing to path.
func (d *Drawing) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := d.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

type tagWriter struct {
	w   io.Writer
	err error
}

func (tw *tagWriter) tags(tags ...Tag) {
	for _, t := range tags {
		if tw.err != nil {
			return
		}
		_, tw.err = fmt.Fprintf(tw.w, "%3d\r\n%s\r\n", t.Code, t.Value)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
