// Package render draws a classified board to an offscreen raster: the
// outline, cutouts, keepouts, soldermask openings, drill holes, and
// optionally the unclassified leftovers, fit to the canvas.
package render

import (
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gg"

	"github.com/OpenTraceLab/OpenTraceDXF/pkg/board"
	"github.com/OpenTraceLab/OpenTraceDXF/pkg/geom"
)

// Options control rasterization.
type Options struct {
	// Width and Height are the canvas size in pixels. Zero selects 1024x768.
	Width  int
	Height int
	// Margin is the border around the board in pixels.
	Margin float64
	// HideUnclassified leaves unrouted paths and circles out of the render.
	HideUnclassified bool
}

type rgb struct{ r, g, b float64 }

// Role colors on the dark background.
var (
	colorBackground   = rgb{0.08, 0.08, 0.10}
	colorOutline      = rgb{0.90, 0.90, 0.90}
	colorCutout       = rgb{0.95, 0.60, 0.15}
	colorHole         = rgb{0.55, 0.55, 0.60}
	colorKeepout      = rgb{0.85, 0.25, 0.25}
	colorSoldermask   = rgb{0.60, 0.30, 0.75}
	colorUnclassified = rgb{0.35, 0.35, 0.35}
)

// viewport maps board millimeters to canvas pixels, y axis flipped.
type viewport struct {
	scale  float64
	origin geom.Point
	height float64
}

func (v viewport) x(p geom.Point) float64 { return (p.X - v.origin.X) * v.scale }
func (v viewport) y(p geom.Point) float64 { return v.height - (p.Y-v.origin.Y)*v.scale }

// Render rasterizes the classified board and returns the image.
func Render(classified *board.Classified, opts Options) (image.Image, error) {
	dc, err := renderContext(classified, opts)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// SavePNG rasterizes the classified board and writes it to path.
func SavePNG(classified *board.Classified, path string, opts Options) error {
	dc, err := renderContext(classified, opts)
	if err != nil {
		return err
	}
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func renderContext(classified *board.Classified, opts Options) (*gg.Context, error) {
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = 1024
	}
	if height <= 0 {
		height = 768
	}
	margin := opts.Margin
	if margin <= 0 {
		margin = 24
	}

	bounds := contentBounds(classified, !opts.HideUnclassified)
	if bounds.IsEmpty() {
		return nil, fmt.Errorf("nothing to render")
	}

	scale := math.Min(
		(float64(width)-2*margin)/bounds.Width(),
		(float64(height)-2*margin)/bounds.Height(),
	)
	if math.IsInf(scale, 0) || scale <= 0 {
		scale = 1
	}

	// Center the board inside the margins.
	vp := viewport{
		scale: scale,
		origin: geom.Point{
			X: bounds.Min.X - (float64(width)/scale-bounds.Width())/2,
			Y: bounds.Min.Y - (float64(height)/scale-bounds.Height())/2,
		},
		height: float64(height),
	}

	dc := gg.NewContext(width, height)
	dc.SetRGB(colorBackground.r, colorBackground.g, colorBackground.b)
	dc.DrawRectangle(0, 0, float64(width), float64(height))
	if err := dc.Fill(); err != nil {
		return nil, fmt.Errorf("fill background: %w", err)
	}

	if !opts.HideUnclassified {
		if err := strokePaths(dc, vp, classified.UnclassifiedPaths, colorUnclassified, 1); err != nil {
			return nil, err
		}
		if err := strokeCircles(dc, vp, classified.UnclassifiedCircles, colorUnclassified, 1); err != nil {
			return nil, err
		}
	}
	if err := strokePaths(dc, vp, classified.SoldermaskOpenings, colorSoldermask, 1.5); err != nil {
		return nil, err
	}
	if err := strokePaths(dc, vp, classified.Keepouts, colorKeepout, 1.5); err != nil {
		return nil, err
	}
	if err := strokePaths(dc, vp, classified.Cutouts, colorCutout, 1.5); err != nil {
		return nil, err
	}
	if err := fillCircles(dc, vp, classified.Holes, colorHole); err != nil {
		return nil, err
	}
	if classified.Outline != nil {
		if err := strokePaths(dc, vp, []geom.Path{*classified.Outline}, colorOutline, 2); err != nil {
			return nil, err
		}
	}

	return dc, nil
}

func contentBounds(classified *board.Classified, withUnclassified bool) geom.BoundingBox {
	bb := geom.NewBoundingBox()
	expandPaths := func(paths []geom.Path) {
		for _, p := range paths {
			bb.ExpandBox(p.BoundingBox())
		}
	}
	expandCircles := func(circles []geom.Circle) {
		for _, c := range circles {
			bb.Expand(geom.Point{X: c.Center.X - c.Radius, Y: c.Center.Y - c.Radius})
			bb.Expand(geom.Point{X: c.Center.X + c.Radius, Y: c.Center.Y + c.Radius})
		}
	}

	if classified.Outline != nil {
		bb.ExpandBox(classified.Outline.BoundingBox())
	}
	expandPaths(classified.Cutouts)
	expandPaths(classified.Keepouts)
	expandPaths(classified.SoldermaskOpenings)
	expandCircles(classified.Holes)
	if withUnclassified {
		expandPaths(classified.UnclassifiedPaths)
		expandCircles(classified.UnclassifiedCircles)
	}
	return bb
}

func strokePaths(dc *gg.Context, vp viewport, paths []geom.Path, col rgb, lineWidth float64) error {
	dc.SetRGB(col.r, col.g, col.b)
	dc.SetLineWidth(lineWidth)
	for _, path := range paths {
		tracePath(dc, vp, path)
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("stroke path: %w", err)
		}
	}
	return nil
}

// tracePath walks a closed path, flattening arcs so the screen-space y flip
// needs no angle bookkeeping.
func tracePath(dc *gg.Context, vp viewport, path geom.Path) {
	for i, seg := range path.Segments {
		start, _ := seg.Endpoints()
		if i == 0 {
			dc.MoveTo(vp.x(start), vp.y(start))
		}
		switch s := seg.(type) {
		case geom.Line:
			dc.LineTo(vp.x(s.End), vp.y(s.End))
		case geom.Arc:
			for _, p := range flattenArc(s) {
				dc.LineTo(vp.x(p), vp.y(p))
			}
		}
	}
	dc.ClosePath()
}

// flattenArc samples an arc into points after its start point, two degrees
// per step.
func flattenArc(a geom.Arc) []geom.Point {
	sweep := a.EndAngle - a.StartAngle
	if sweep <= 0 {
		sweep += 360
	}
	steps := int(math.Max(8, sweep/2))

	points := make([]geom.Point, steps)
	for i := 1; i <= steps; i++ {
		angle := (a.StartAngle + sweep*float64(i)/float64(steps)) * math.Pi / 180
		points[i-1] = geom.Point{
			X: a.Center.X + a.Radius*math.Cos(angle),
			Y: a.Center.Y + a.Radius*math.Sin(angle),
		}
	}
	return points
}

func strokeCircles(dc *gg.Context, vp viewport, circles []geom.Circle, col rgb, lineWidth float64) error {
	dc.SetRGB(col.r, col.g, col.b)
	dc.SetLineWidth(lineWidth)
	for _, c := range circles {
		dc.DrawCircle(vp.x(c.Center), vp.y(c.Center), c.Radius*vp.scale)
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("stroke circle: %w", err)
		}
	}
	return nil
}

func fillCircles(dc *gg.Context, vp viewport, circles []geom.Circle, col rgb) error {
	dc.SetRGB(col.r, col.g, col.b)
	for _, c := range circles {
		dc.DrawCircle(vp.x(c.Center), vp.y(c.Center), c.Radius*vp.scale)
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("fill circle: %w", err)
		}
	}
	return nil
}
