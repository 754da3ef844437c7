// Package jitx parses JITX board design XML exports and emits them as DXF
// drawings: board outline, component pads, silkscreen and courtyard shapes,
// copper tracks and fills, vias, and drills.
package jitx

import (
	"github.com/OpenTraceLab/OpenTraceDXF/pkg/geom"
)

// Side is a board side, "Top" or "Bottom".
type Side string

const (
	SideTop    Side = "Top"
	SideBottom Side = "Bottom"
)

// Flip returns the opposite side.
func (s Side) Flip() Side {
	if s == SideBottom {
		return SideTop
	}
	return SideBottom
}

// Pose is a 2D placement: mirror about the Y axis, then rotate
// counter-clockwise by Angle degrees, then translate to (X, Y).
type Pose struct {
	X     float64
	Y     float64
	Angle float64
	FlipX bool
}

// BoundaryLine is one straight segment of the board outline.
type BoundaryLine struct {
	P1    geom.Point
	P2    geom.Point
	Width float64
}

// BoundaryArc is one arc segment of the board outline, counter-clockwise
// degrees.
type BoundaryArc struct {
	Center     geom.Point
	Radius     float64
	StartAngle float64
	EndAngle   float64
	Width      float64
}

// CirclePad is a round pad in package-local coordinates. HoleRadius > 0
// means the pad is through-hole.
type CirclePad struct {
	Name       string
	Center     geom.Point
	Radius     float64
	Side       Side
	HoleRadius float64
}

// RectanglePad is a rectangular pad. The rectangle is centered in its own
// frame; RectPose places it in the pad frame and PadPose places the pad in
// the package frame.
type RectanglePad struct {
	Name       string
	Width      float64
	Height     float64
	RectPose   Pose
	PadPose    Pose
	Side       Side
	HoleRadius float64
}

// PolygonPad is an arbitrary pad shape placed by Pose in the package frame.
type PolygonPad struct {
	Name       string
	Points     []geom.Point
	Pose       Pose
	Side       Side
	HoleRadius float64
}

// PolygonShape is a closed polygon on a named layer (silkscreen, courtyard).
type PolygonShape struct {
	Points    []geom.Point
	LayerName string
	Side      Side
}

// LineShape is a stroked segment on a named layer.
type LineShape struct {
	P1        geom.Point
	P2        geom.Point
	Width     float64
	LayerName string
	Side      Side
}

// TextShape is a text label on a named layer.
type TextShape struct {
	String    string
	Size      float64
	Pose      Pose
	LayerName string
	Side      Side
}

// DesignatorText is a component reference label in instance-local
// coordinates.
type DesignatorText struct {
	String string
	Size   float64
	Anchor string
	Pose   Pose
}

// Package is a reusable footprint: pads and drawing shapes in package-local
// coordinates, defined relative to a Top-side placement.
type Package struct {
	Name          string
	Pads          []CirclePad
	RectanglePads []RectanglePad
	PolygonPads   []PolygonPad
	Polygons      []PolygonShape
	Lines         []LineShape
}

// Instance places a package on the board.
type Instance struct {
	Designator     string
	PackageName    string
	Side           Side
	Pose           Pose
	DesignatorText *DesignatorText

	// Instance-level shapes are already in board coordinates.
	Texts    []TextShape
	Polygons []PolygonShape
	Lines    []LineShape
}

// CopperShape is a track or fill element on a conductor layer.
type CopperShape interface {
	LayerIndex() int
	isCopper()
}

// CopperLine is a stroked copper segment.
type CopperLine struct {
	Layer int
	Net   string
	P1    geom.Point
	P2    geom.Point
	Width float64
}

// CopperArc is a stroked copper arc.
type CopperArc struct {
	Layer      int
	Net        string
	Center     geom.Point
	Radius     float64
	StartAngle float64
	EndAngle   float64
	Width      float64
}

// CopperPolygon is a filled copper region.
type CopperPolygon struct {
	Layer  int
	Net    string
	Points []geom.Point
}

func (c CopperLine) LayerIndex() int    { return c.Layer }
func (c CopperArc) LayerIndex() int     { return c.Layer }
func (c CopperPolygon) LayerIndex() int { return c.Layer }

func (CopperLine) isCopper()    {}
func (CopperArc) isCopper()     {}
func (CopperPolygon) isCopper() {}

// Via is a plated through connection.
type Via struct {
	Center       geom.Point
	Diameter     float64
	HoleDiameter float64
	Net          string
	StartSide    Side
	EndSide      Side
}

// BoardData is a complete parsed board design.
type BoardData struct {
	BoundaryLines []BoundaryLine
	BoundaryArcs  []BoundaryArc
	Packages      map[string]*Package
	Instances     []Instance

	// Board-level shapes, already in board coordinates.
	Shapes     []PolygonShape
	LineShapes []LineShape

	Tracks []CopperShape
	Fills  []CopperPolygon
	Vias   []Via

	// LayerNames maps conductor layer index to its stackup name.
	LayerNames map[int]string
}
