// Package board classifies reconstructed contours and circular features into
// the semantic roles used by board-design tooling, and resolves the linear
// unit of a drawing.
package board

import "github.com/OpenTraceLab/OpenTraceDXF/pkg/geom"

// Role is the semantic role of a contour or circle on a board.
type Role string

const (
	RoleOutline    Role = "outline"
	RoleCutout     Role = "cutout"
	RoleHole       Role = "hole"
	RoleKeepout    Role = "keepout"
	RoleSoldermask Role = "soldermask"
	RoleAnnotation Role = "annotation"
)

// ValidRole reports whether a string names a known role.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleOutline, RoleCutout, RoleHole, RoleKeepout, RoleSoldermask, RoleAnnotation:
		return true
	}
	return false
}

// Text is a non-geometric annotation carried through classification
// unchanged.
type Text struct {
	Content  string
	Position geom.Point
	Height   float64
	Rotation float64 // degrees
	Layer    string
}

// Hatch is a filled region carried through classification unchanged: its
// boundary contours, whether the fill is solid, and the source layer.
type Hatch struct {
	Boundaries []geom.Path
	Solid      bool
	Layer      string
}

// Classified is the result of routing every input path and circle into
// exactly one role bucket. At most one path is the outline; everything that
// matched no role ends up in the unclassified lists, so the input partitions
// without loss or duplication.
type Classified struct {
	Outline             *geom.Path
	Cutouts             []geom.Path
	Holes               []geom.Circle
	Keepouts            []geom.Path
	SoldermaskOpenings  []geom.Path
	Texts               []Text
	Hatches             []Hatch
	UnclassifiedPaths   []geom.Path
	UnclassifiedCircles []geom.Circle

	// UnitScale is the multiplier that converted raw drawing coordinates
	// to millimeters.
	UnitScale float64
}

// PathCount returns the total number of paths across all buckets, for
// completeness checks against the assembler's input.
func (c *Classified) PathCount() int {
	n := len(c.Cutouts) + len(c.Keepouts) + len(c.SoldermaskOpenings) + len(c.UnclassifiedPaths)
	if c.Outline != nil {
		n++
	}
	return n
}
