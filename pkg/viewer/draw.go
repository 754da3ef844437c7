package viewer

import (
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/OpenTraceLab/OpenTraceDXF/pkg/board"
	"github.com/OpenTraceLab/OpenTraceDXF/pkg/geom"
)

// Role colors on the dark background.
var (
	ColorBackground   = color.NRGBA{R: 0, G: 16, B: 35, A: 255}
	colorOutline      = color.NRGBA{R: 230, G: 230, B: 230, A: 255}
	colorCutout       = color.NRGBA{R: 242, G: 153, B: 38, A: 255}
	colorHole         = color.NRGBA{R: 140, G: 140, B: 153, A: 255}
	colorKeepout      = color.NRGBA{R: 217, G: 64, B: 64, A: 255}
	colorSoldermask   = color.NRGBA{R: 153, G: 77, B: 191, A: 255}
	colorUnclassified = color.NRGBA{R: 90, G: 90, B: 90, A: 255}
)

// RenderBoard draws the classified board through the camera. Unclassified
// geometry is drawn first so role colors stay on top.
func RenderBoard(gtx layout.Context, camera *Camera, classified *board.Classified) {
	for _, path := range classified.UnclassifiedPaths {
		renderPath(gtx, camera, path, colorUnclassified, 1)
	}
	for _, circle := range classified.UnclassifiedCircles {
		renderCircleOutline(gtx, camera, circle, colorUnclassified, 1)
	}

	for _, path := range classified.SoldermaskOpenings {
		renderPath(gtx, camera, path, colorSoldermask, 1.5)
	}
	for _, path := range classified.Keepouts {
		renderPath(gtx, camera, path, colorKeepout, 1.5)
	}
	for _, path := range classified.Cutouts {
		renderPath(gtx, camera, path, colorCutout, 1.5)
	}
	for _, circle := range classified.Holes {
		renderCircleOutline(gtx, camera, circle, colorHole, 2)
	}
	if classified.Outline != nil {
		renderPath(gtx, camera, *classified.Outline, colorOutline, 2)
	}
}

// renderPath strokes a closed contour, flattening arcs in board space so
// the camera transform applies uniformly.
func renderPath(gtx layout.Context, camera *Camera, p geom.Path, col color.NRGBA, width float32) {
	if len(p.Segments) == 0 {
		return
	}

	var path clip.Path
	path.Begin(gtx.Ops)

	first, _ := p.Segments[0].Endpoints()
	path.MoveTo(screenPt(camera, first))

	for _, seg := range p.Segments {
		switch s := seg.(type) {
		case geom.Line:
			path.LineTo(screenPt(camera, s.End))
		case geom.Arc:
			sweep := s.EndAngle - s.StartAngle
			if sweep <= 0 {
				sweep += 360
			}
			steps := int(math.Max(8, sweep/2))
			for i := 1; i <= steps; i++ {
				angle := (s.StartAngle + sweep*float64(i)/float64(steps)) * math.Pi / 180
				path.LineTo(screenPt(camera, geom.Point{
					X: s.Center.X + s.Radius*math.Cos(angle),
					Y: s.Center.Y + s.Radius*math.Sin(angle),
				}))
			}
		}
	}
	path.Close()

	stroke := clip.Stroke{
		Path:  path.End(),
		Width: width,
	}.Op()
	paint.FillShape(gtx.Ops, col, stroke)
}

func renderCircleOutline(gtx layout.Context, camera *Camera, c geom.Circle, col color.NRGBA, width float32) {
	cx, cy := camera.WorldToScreen(c.Center)
	radius := c.Radius * camera.Zoom
	if radius < 1.0 {
		radius = 1.0
	}

	var path clip.Path
	path.Begin(gtx.Ops)

	segments := 64
	for i := 0; i <= segments; i++ {
		angle := float64(i) * 2.0 * math.Pi / float64(segments)
		px := cx + radius*math.Cos(angle)
		py := cy + radius*math.Sin(angle)
		if i == 0 {
			path.MoveTo(f32.Pt(float32(px), float32(py)))
		} else {
			path.LineTo(f32.Pt(float32(px), float32(py)))
		}
	}

	stroke := clip.Stroke{
		Path:  path.End(),
		Width: width,
	}.Op()
	paint.FillShape(gtx.Ops, col, stroke)
}

func screenPt(camera *Camera, p geom.Point) f32.Point {
	x, y := camera.WorldToScreen(p)
	return f32.Pt(float32(x), float32(y))
}
