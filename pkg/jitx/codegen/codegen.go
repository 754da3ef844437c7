// Package codegen turns classified board geometry into JITX Board class
// definitions: the board outline, cutouts, and mounting holes as shape
// expressions.
package codegen

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/OpenTraceDXF/pkg/board"
	"github.com/OpenTraceLab/OpenTraceDXF/pkg/geom"
)

// Options control code generation.
type Options struct {
	// ClassName names the generated Board class. Empty selects
	// "ImportedBoard".
	ClassName string
	// ModuleName, when set, appears in the file header comment.
	ModuleName string
	// NoRecenter keeps the original coordinates instead of shifting the
	// outline's bounding box center to the origin.
	NoRecenter bool
}

// Generate produces a complete Board class definition file.
func Generate(classified *board.Classified, opts Options) string {
	className := opts.ClassName
	if className == "" {
		className = "ImportedBoard"
	}
	offset := recenterOffset(classified, opts)

	var lines []string
	if opts.ModuleName != "" {
		lines = append(lines, fmt.Sprintf(`"""Board definition imported from %s."""`, opts.ModuleName))
	} else {
		lines = append(lines, `"""Board definition imported from DXF."""`)
	}
	lines = append(lines, "", "from jitx.board import Board")

	if imports := shapeImports(classified); len(imports) > 0 {
		lines = append(lines, fmt.Sprintf("from jitx.shapes.primitive import %s", strings.Join(imports, ", ")))
	}

	lines = append(lines, "", "", fmt.Sprintf("class %s(Board):", className))

	if classified.Outline != nil {
		lines = append(lines, fmt.Sprintf("    board_shape = %s", outlineExpression(*classified.Outline, offset, 1)))
	} else {
		lines = append(lines, "    board_shape = None  # No outline detected in DXF")
	}

	if len(classified.Cutouts) > 0 || len(classified.Holes) > 0 {
		lines = append(lines, "", "    cutouts = [")
		for _, cutout := range classified.Cutouts {
			lines = append(lines, fmt.Sprintf("        %s,", pathExpression(cutout, offset, 2)))
		}
		for _, hole := range classified.Holes {
			lines = append(lines, fmt.Sprintf("        %s,", circleExpression(hole, offset)))
		}
		lines = append(lines, "    ]")
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

// OutlineSnippet produces just the board outline shape expression.
func OutlineSnippet(classified *board.Classified, opts Options) string {
	if classified.Outline == nil {
		return "# No outline detected in DXF"
	}
	offset := recenterOffset(classified, opts)
	return fmt.Sprintf("board_shape = %s", outlineExpression(*classified.Outline, offset, 0))
}

// CutoutsSnippet produces cutout and hole shape expressions.
func CutoutsSnippet(classified *board.Classified, opts Options) string {
	if len(classified.Cutouts) == 0 && len(classified.Holes) == 0 {
		return "# No cutouts or holes detected in DXF"
	}
	offset := recenterOffset(classified, opts)

	parts := []string{"cutouts = ["}
	for _, cutout := range classified.Cutouts {
		parts = append(parts, fmt.Sprintf("    %s,", pathExpression(cutout, offset, 1)))
	}
	for _, hole := range classified.Holes {
		parts = append(parts, fmt.Sprintf("    %s,", circleExpression(hole, offset)))
	}
	parts = append(parts, "]")
	return strings.Join(parts, "\n")
}

// HolesSnippet produces one circle expression per detected hole.
func HolesSnippet(classified *board.Classified, opts Options) string {
	if len(classified.Holes) == 0 {
		return "# No holes detected in DXF"
	}
	offset := recenterOffset(classified, opts)

	parts := make([]string, 0, len(classified.Holes))
	for _, hole := range classified.Holes {
		parts = append(parts, circleExpression(hole, offset))
	}
	return strings.Join(parts, "\n")
}

func recenterOffset(classified *board.Classified, opts Options) geom.Point {
	if opts.NoRecenter || classified.Outline == nil {
		return geom.Point{}
	}
	center := classified.Outline.BoundingBox().Center()
	return geom.Point{X: -center.X, Y: -center.Y}
}

func shapeImports(classified *board.Classified) []string {
	var needsPolygon, needsArcPolygon bool

	notePath := func(p geom.Path) {
		if pathHasArcs(p) {
			needsArcPolygon = true
		} else {
			needsPolygon = true
		}
	}
	if classified.Outline != nil {
		notePath(*classified.Outline)
	}
	for _, cutout := range classified.Cutouts {
		notePath(cutout)
	}

	var imports []string
	if needsPolygon {
		imports = append(imports, "Polygon")
	}
	if needsArcPolygon {
		imports = append(imports, "ArcPolyline")
	}
	if len(classified.Holes) > 0 {
		imports = append(imports, "Circle")
	}
	sort.Strings(imports)
	return imports
}

func pathHasArcs(p geom.Path) bool {
	for _, seg := range p.Segments {
		if _, ok := seg.(geom.Arc); ok {
			return true
		}
	}
	return false
}

func outlineExpression(path geom.Path, offset geom.Point, indentLevel int) string {
	if isAxisAlignedRectangle(path) {
		bb := path.BoundingBox()
		hw, hh := bb.Width()/2, bb.Height()/2
		return fmt.Sprintf("Polygon([(%s, %s), (%s, %s), (%s, %s), (%s, %s)])",
			fmtFloat(-hw), fmtFloat(-hh),
			fmtFloat(hw), fmtFloat(-hh),
			fmtFloat(hw), fmtFloat(hh),
			fmtFloat(-hw), fmtFloat(hh))
	}
	return pathExpression(path, offset, indentLevel)
}

func pathExpression(path geom.Path, offset geom.Point, indentLevel int) string {
	if pathHasArcs(path) {
		return arcPolygonExpression(path, offset, indentLevel)
	}
	return polygonExpression(path, offset, indentLevel)
}

func polygonExpression(path geom.Path, offset geom.Point, indentLevel int) string {
	var points []string
	for _, seg := range path.Segments {
		if line, ok := seg.(geom.Line); ok {
			points = append(points, fmt.Sprintf("(%s, %s)",
				fmtFloat(line.Start.X+offset.X), fmtFloat(line.Start.Y+offset.Y)))
		}
	}

	if len(points) <= 6 {
		return fmt.Sprintf("Polygon([%s])", strings.Join(points, ", "))
	}
	pad := strings.Repeat("    ", indentLevel+1)
	return fmt.Sprintf("Polygon([\n%s%s,\n%s])",
		pad, strings.Join(points, ",\n"+pad), strings.Repeat("    ", indentLevel))
}

func arcPolygonExpression(path geom.Path, offset geom.Point, indentLevel int) string {
	pad := strings.Repeat("    ", indentLevel+1)
	var elements []string

	for _, seg := range path.Segments {
		switch s := seg.(type) {
		case geom.Line:
			elements = append(elements, fmt.Sprintf("(%s, %s)",
				fmtFloat(s.Start.X+offset.X), fmtFloat(s.Start.Y+offset.Y)))
		case geom.Arc:
			elements = append(elements, fmt.Sprintf("(%s, %s)",
				fmtFloat(s.StartPoint.X+offset.X), fmtFloat(s.StartPoint.Y+offset.Y)))
			elements = append(elements, fmt.Sprintf("Arc((%s, %s), %s, %s, %s)",
				fmtFloat(s.Center.X+offset.X), fmtFloat(s.Center.Y+offset.Y),
				fmtFloat(s.Radius), fmtFloat(s.StartAngle), fmtFloat(s.EndAngle)))
		}
	}

	return fmt.Sprintf("ArcPolyline([\n%s%s,\n%s])",
		pad, strings.Join(elements, ",\n"+pad), strings.Repeat("    ", indentLevel))
}

func circleExpression(hole geom.Circle, offset geom.Point) string {
	return fmt.Sprintf("Circle(radius=%s).at(%s, %s)",
		fmtFloat(hole.Radius),
		fmtFloat(hole.Center.X+offset.X), fmtFloat(hole.Center.Y+offset.Y))
}

// isAxisAlignedRectangle reports whether the path is four axis-aligned line
// segments.
func isAxisAlignedRectangle(path geom.Path) bool {
	if len(path.Segments) != 4 {
		return false
	}
	for _, seg := range path.Segments {
		line, ok := seg.(geom.Line)
		if !ok {
			return false
		}
		dx := math.Abs(line.End.X - line.Start.X)
		dy := math.Abs(line.End.Y - line.Start.Y)
		if dx > 1e-6 && dy > 1e-6 {
			return false
		}
	}
	return true
}

// fmtFloat renders a coordinate at 0.1 um precision, trimming trailing
// zeros but always keeping one decimal.
func fmtFloat(v float64) string {
	if math.Abs(v) < 1e-6 {
		return "0.0"
	}
	rounded := math.Round(v*1e4) / 1e4
	if rounded == math.Trunc(rounded) {
		return strconv.FormatFloat(rounded, 'f', 1, 64)
	}
	s := strconv.FormatFloat(rounded, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}
