package jitx

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/OpenTraceLab/OpenTraceDXF/pkg/geom"
)

// Raw element shapes for encoding/xml. Attribute defaults are applied in
// the conversion step because missing attributes decode to zero values.

type xmlDesign struct {
	Board *xmlBoard `xml:"BOARD"`
}

type xmlBoard struct {
	Boundaries []xmlBoundary `xml:"BOARD-BOUNDARY"`
	Packages   []xmlPackage  `xml:"PACKAGE"`
	Instances  []xmlInst     `xml:"INST"`
	Shapes     []xmlShape    `xml:"SHAPE"`
	Tracks     []xmlTrack    `xml:"TRACK"`
	Fills      []xmlFill     `xml:"FILL"`
	Vias       []xmlVia      `xml:"VIA"`
	Stackup    *xmlStackup   `xml:"STACKUP"`
}

type xmlPoint struct {
	X float64 `xml:"X,attr"`
	Y float64 `xml:"Y,attr"`
}

type xmlPose struct {
	X     float64 `xml:"X,attr"`
	Y     float64 `xml:"Y,attr"`
	Angle float64 `xml:"ANGLE,attr"`
	FlipX string  `xml:"FLIPX,attr"`
}

type xmlLine struct {
	Width  float64    `xml:"WIDTH,attr"`
	Points []xmlPoint `xml:"POINT"`
}

type xmlArc struct {
	X          float64 `xml:"X,attr"`
	Y          float64 `xml:"Y,attr"`
	Radius     float64 `xml:"RADIUS,attr"`
	StartAngle float64 `xml:"START_ANGLE,attr"`
	EndAngle   float64 `xml:"END_ANGLE,attr"`
	Width      float64 `xml:"WIDTH,attr"`
}

type xmlBoundary struct {
	Line *xmlLine `xml:"LINE"`
	Arc  *xmlArc  `xml:"ARC"`
}

type xmlCircle struct {
	Radius float64 `xml:"RADIUS,attr"`
}

type xmlRectangle struct {
	Width  float64  `xml:"WIDTH,attr"`
	Height float64  `xml:"HEIGHT,attr"`
	Pose   *xmlPose `xml:"POSE"`
}

type xmlPolygon struct {
	Points []xmlPoint `xml:"POINT"`
}

type xmlHole struct {
	Circle *xmlCircle `xml:"CIRCLE"`
}

type xmlPad struct {
	Name      string        `xml:"NAME,attr"`
	Side      string        `xml:"SIDE,attr"`
	Pose      *xmlPose      `xml:"POSE"`
	Circle    *xmlCircle    `xml:"CIRCLE"`
	Rectangle *xmlRectangle `xml:"RECTANGLE"`
	Polygon   *xmlPolygon   `xml:"POLYGON"`
	Hole      *xmlHole      `xml:"HOLE"`
}

type xmlLayerSpec struct {
	Name string `xml:"NAME,attr"`
	Side string `xml:"SIDE,attr"`
}

type xmlLayerIndex struct {
	Index int    `xml:"INDEX,attr"`
	Side  string `xml:"SIDE,attr"`
}

type xmlText struct {
	String string   `xml:"STRING,attr"`
	Size   *float64 `xml:"SIZE,attr"`
	Anchor string   `xml:"ANCHOR,attr"`
	Pose   *xmlPose `xml:"POSE"`
}

type xmlShape struct {
	LayerSpec  *xmlLayerSpec  `xml:"LAYER-SPECIFIER"`
	LayerIndex *xmlLayerIndex `xml:"LAYER-INDEX"`
	Polygon    *xmlPolygon    `xml:"POLYGON"`
	Line       *xmlLine       `xml:"LINE"`
	Arc        *xmlArc        `xml:"ARC"`
	Text       *xmlText       `xml:"TEXT"`
}

type xmlPackage struct {
	Name   string     `xml:"NAME,attr"`
	Pads   []xmlPad   `xml:"PAD"`
	Shapes []xmlShape `xml:"SHAPE"`
}

type xmlDesignatorText struct {
	Text *xmlText `xml:"TEXT"`
}

type xmlInst struct {
	Designator     string             `xml:"DESIGNATOR,attr"`
	Package        string             `xml:"PACKAGE,attr"`
	Side           string             `xml:"SIDE,attr"`
	Pose           *xmlPose           `xml:"POSE"`
	DesignatorText *xmlDesignatorText `xml:"DESIGNATOR-TEXT"`
	Shapes         []xmlShape         `xml:"SHAPE"`
}

type xmlTrack struct {
	Net    string     `xml:"NET,attr"`
	Shapes []xmlShape `xml:"SHAPE"`
}

type xmlFill struct {
	Net    string     `xml:"NET,attr"`
	Shapes []xmlShape `xml:"SHAPE"`
}

type xmlViaLayer struct {
	LayerIndex *xmlLayerIndex `xml:"LAYER-INDEX"`
}

type xmlVia struct {
	Diameter     float64      `xml:"DIAMETER,attr"`
	HoleDiameter float64      `xml:"HOLE-DIAMETER,attr"`
	Net          string       `xml:"NET,attr"`
	Point        *xmlPoint    `xml:"POINT"`
	StartLayer   *xmlViaLayer `xml:"START-LAYER"`
	EndLayer     *xmlViaLayer `xml:"END-LAYER"`
}

type xmlStackup struct {
	Layers []xmlStackupLayer `xml:"STACKUP-LAYER"`
}

type xmlStackupLayer struct {
	Name         string `xml:"NAME,attr"`
	MaterialType string `xml:"MATERIAL-TYPE,attr"`
}

// Parse reads a JITX board design XML document.
func Parse(r io.Reader) (*BoardData, error) {
	var design xmlDesign
	if err := xml.NewDecoder(r).Decode(&design); err != nil {
		return nil, fmt.Errorf("decode design: %w", err)
	}
	if design.Board == nil {
		return nil, fmt.Errorf("no BOARD element found")
	}
	return convertBoard(design.Board)
}

// ParseFile reads the JITX XML design at path.
func ParseFile(path string) (*BoardData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return data, nil
}

func convertBoard(b *xmlBoard) (*BoardData, error) {
	data := &BoardData{
		Packages:   map[string]*Package{},
		LayerNames: map[int]string{},
	}

	for _, bb := range b.Boundaries {
		switch {
		case bb.Line != nil:
			if len(bb.Line.Points) == 2 {
				data.BoundaryLines = append(data.BoundaryLines, BoundaryLine{
					P1:    point(bb.Line.Points[0]),
					P2:    point(bb.Line.Points[1]),
					Width: bb.Line.Width,
				})
			}
		case bb.Arc != nil:
			data.BoundaryArcs = append(data.BoundaryArcs, BoundaryArc{
				Center:     geom.Point{X: bb.Arc.X, Y: bb.Arc.Y},
				Radius:     bb.Arc.Radius,
				StartAngle: bb.Arc.StartAngle,
				EndAngle:   bb.Arc.EndAngle,
				Width:      bb.Arc.Width,
			})
		}
	}

	for _, pe := range b.Packages {
		pkg := convertPackage(pe)
		data.Packages[pkg.Name] = pkg
	}

	for _, ie := range b.Instances {
		inst, err := convertInstance(ie)
		if err != nil {
			return nil, err
		}
		data.Instances = append(data.Instances, inst)
	}

	for _, se := range b.Shapes {
		if se.LayerSpec == nil {
			continue
		}
		name, shapeSide := se.LayerSpec.Name, side(se.LayerSpec.Side)
		if se.Polygon != nil {
			data.Shapes = append(data.Shapes, PolygonShape{
				Points:    points(se.Polygon.Points),
				LayerName: name,
				Side:      shapeSide,
			})
		}
		if se.Line != nil && len(se.Line.Points) == 2 {
			data.LineShapes = append(data.LineShapes, LineShape{
				P1:        point(se.Line.Points[0]),
				P2:        point(se.Line.Points[1]),
				Width:     se.Line.Width,
				LayerName: name,
				Side:      shapeSide,
			})
		}
	}

	for _, te := range b.Tracks {
		data.Tracks = append(data.Tracks, convertCopper(te.Shapes, te.Net)...)
	}
	for _, fe := range b.Fills {
		for _, se := range fe.Shapes {
			if se.Polygon == nil {
				continue
			}
			data.Fills = append(data.Fills, CopperPolygon{
				Layer:  layerIndex(se),
				Net:    fe.Net,
				Points: points(se.Polygon.Points),
			})
		}
	}

	for _, ve := range b.Vias {
		if ve.Point == nil {
			continue
		}
		via := Via{
			Center:       point(*ve.Point),
			Diameter:     ve.Diameter,
			HoleDiameter: ve.HoleDiameter,
			Net:          ve.Net,
			StartSide:    SideTop,
			EndSide:      SideBottom,
		}
		if ve.StartLayer != nil && ve.StartLayer.LayerIndex != nil {
			via.StartSide = side(ve.StartLayer.LayerIndex.Side)
		}
		if ve.EndLayer != nil && ve.EndLayer.LayerIndex != nil && ve.EndLayer.LayerIndex.Side != "" {
			via.EndSide = side(ve.EndLayer.LayerIndex.Side)
		}
		data.Vias = append(data.Vias, via)
	}

	if b.Stackup != nil {
		idx := 0
		for _, layer := range b.Stackup.Layers {
			if layer.MaterialType != "CONDUCTOR" {
				continue
			}
			name := layer.Name
			if name == "" {
				name = fmt.Sprintf("L%d", idx)
			}
			data.LayerNames[idx] = name
			idx++
		}
	}

	return data, nil
}

func convertPackage(pe xmlPackage) *Package {
	pkg := &Package{Name: pe.Name}

	for _, pad := range pe.Pads {
		if pad.Pose == nil {
			continue
		}
		padPose := pose(pad.Pose)
		padSide := side(pad.Side)
		holeRadius := 0.0
		if pad.Hole != nil && pad.Hole.Circle != nil {
			holeRadius = pad.Hole.Circle.Radius
		}

		switch {
		case pad.Circle != nil:
			pkg.Pads = append(pkg.Pads, CirclePad{
				Name:       pad.Name,
				Center:     geom.Point{X: padPose.X, Y: padPose.Y},
				Radius:     pad.Circle.Radius,
				Side:       padSide,
				HoleRadius: holeRadius,
			})
		case pad.Rectangle != nil:
			pkg.RectanglePads = append(pkg.RectanglePads, RectanglePad{
				Name:       pad.Name,
				Width:      pad.Rectangle.Width,
				Height:     pad.Rectangle.Height,
				RectPose:   pose(pad.Rectangle.Pose),
				PadPose:    padPose,
				Side:       padSide,
				HoleRadius: holeRadius,
			})
		case pad.Polygon != nil:
			pkg.PolygonPads = append(pkg.PolygonPads, PolygonPad{
				Name:       pad.Name,
				Points:     points(pad.Polygon.Points),
				Pose:       padPose,
				Side:       padSide,
				HoleRadius: holeRadius,
			})
		}
	}

	for _, se := range pe.Shapes {
		if se.LayerSpec == nil {
			continue
		}
		name, shapeSide := se.LayerSpec.Name, side(se.LayerSpec.Side)
		if se.Polygon != nil {
			pkg.Polygons = append(pkg.Polygons, PolygonShape{
				Points:    points(se.Polygon.Points),
				LayerName: name,
				Side:      shapeSide,
			})
		}
		if se.Line != nil && len(se.Line.Points) == 2 {
			pkg.Lines = append(pkg.Lines, LineShape{
				P1:        point(se.Line.Points[0]),
				P2:        point(se.Line.Points[1]),
				Width:     se.Line.Width,
				LayerName: name,
				Side:      shapeSide,
			})
		}
	}

	return pkg
}

func convertInstance(ie xmlInst) (Instance, error) {
	if ie.Pose == nil {
		return Instance{}, fmt.Errorf("instance %q has no POSE", ie.Designator)
	}
	inst := Instance{
		Designator:  ie.Designator,
		PackageName: ie.Package,
		Side:        side(ie.Side),
		Pose:        pose(ie.Pose),
	}

	if ie.DesignatorText != nil && ie.DesignatorText.Text != nil {
		text := ie.DesignatorText.Text
		if text.Pose == nil {
			return Instance{}, fmt.Errorf("instance %q designator text has no POSE", ie.Designator)
		}
		anchor := text.Anchor
		if anchor == "" {
			anchor = "C"
		}
		inst.DesignatorText = &DesignatorText{
			String: text.String,
			Size:   floatOr(text.Size, 1.0),
			Anchor: anchor,
			Pose:   pose(text.Pose),
		}
	}

	for _, se := range ie.Shapes {
		if se.LayerSpec == nil {
			continue
		}
		name, shapeSide := se.LayerSpec.Name, side(se.LayerSpec.Side)
		if se.Text != nil && se.Text.Pose != nil {
			inst.Texts = append(inst.Texts, TextShape{
				String:    se.Text.String,
				Size:      floatOr(se.Text.Size, 1.0),
				Pose:      pose(se.Text.Pose),
				LayerName: name,
				Side:      shapeSide,
			})
		}
		if se.Polygon != nil {
			inst.Polygons = append(inst.Polygons, PolygonShape{
				Points:    points(se.Polygon.Points),
				LayerName: name,
				Side:      shapeSide,
			})
		}
		if se.Line != nil && len(se.Line.Points) == 2 {
			inst.Lines = append(inst.Lines, LineShape{
				P1:        point(se.Line.Points[0]),
				P2:        point(se.Line.Points[1]),
				Width:     se.Line.Width,
				LayerName: name,
				Side:      shapeSide,
			})
		}
	}

	return inst, nil
}

func convertCopper(shapes []xmlShape, net string) []CopperShape {
	var out []CopperShape
	for _, se := range shapes {
		idx := layerIndex(se)
		switch {
		case se.Polygon != nil:
			out = append(out, CopperPolygon{Layer: idx, Net: net, Points: points(se.Polygon.Points)})
		case se.Line != nil:
			if len(se.Line.Points) == 2 {
				out = append(out, CopperLine{
					Layer: idx,
					Net:   net,
					P1:    point(se.Line.Points[0]),
					P2:    point(se.Line.Points[1]),
					Width: se.Line.Width,
				})
			}
		case se.Arc != nil:
			out = append(out, CopperArc{
				Layer:      idx,
				Net:        net,
				Center:     geom.Point{X: se.Arc.X, Y: se.Arc.Y},
				Radius:     se.Arc.Radius,
				StartAngle: se.Arc.StartAngle,
				EndAngle:   se.Arc.EndAngle,
				Width:      se.Arc.Width,
			})
		}
	}
	return out
}

func point(p xmlPoint) geom.Point {
	return geom.Point{X: p.X, Y: p.Y}
}

func points(ps []xmlPoint) []geom.Point {
	out := make([]geom.Point, len(ps))
	for i, p := range ps {
		out[i] = point(p)
	}
	return out
}

func pose(p *xmlPose) Pose {
	if p == nil {
		return Pose{}
	}
	return Pose{
		X:     p.X,
		Y:     p.Y,
		Angle: p.Angle,
		FlipX: strings.EqualFold(p.FlipX, "true"),
	}
}

func side(s string) Side {
	if s == string(SideBottom) {
		return SideBottom
	}
	return SideTop
}

func layerIndex(se xmlShape) int {
	if se.LayerIndex != nil {
		return se.LayerIndex.Index
	}
	return 0
}

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
