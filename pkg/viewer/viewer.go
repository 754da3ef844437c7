package viewer

import (
	"gioui.org/app"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/unit"

	"github.com/OpenTraceLab/OpenTraceDXF/pkg/board"
	"github.com/OpenTraceLab/OpenTraceDXF/pkg/geom"
)

// boardBounds is the extent of everything the viewer draws.
func boardBounds(classified *board.Classified) geom.BoundingBox {
	bb := geom.NewBoundingBox()
	if classified.Outline != nil {
		bb.ExpandBox(classified.Outline.BoundingBox())
	}
	for _, p := range classified.Cutouts {
		bb.ExpandBox(p.BoundingBox())
	}
	for _, p := range classified.Keepouts {
		bb.ExpandBox(p.BoundingBox())
	}
	for _, p := range classified.SoldermaskOpenings {
		bb.ExpandBox(p.BoundingBox())
	}
	for _, p := range classified.UnclassifiedPaths {
		bb.ExpandBox(p.BoundingBox())
	}
	for _, c := range classified.Holes {
		bb.Expand(geom.Point{X: c.Center.X - c.Radius, Y: c.Center.Y - c.Radius})
		bb.Expand(geom.Point{X: c.Center.X + c.Radius, Y: c.Center.Y + c.Radius})
	}
	for _, c := range classified.UnclassifiedCircles {
		bb.Expand(geom.Point{X: c.Center.X - c.Radius, Y: c.Center.Y - c.Radius})
		bb.Expand(geom.Point{X: c.Center.X + c.Radius, Y: c.Center.Y + c.Radius})
	}
	return bb
}

// Show opens an interactive window on the classified board and blocks until
// it is closed.
//
// Controls:
//
//	Left Click / R    - Rotate 90 degrees
//	Right Click / F   - Flip board
//	Scroll Wheel      - Zoom in/out
//	Space             - Fit board to window
//	Q / Escape        - Quit
func Show(classified *board.Classified, title string) error {
	w := new(app.Window)
	w.Option(app.Title(title))
	w.Option(app.Size(unit.Dp(1000), unit.Dp(800)))
	return runWindow(w, classified)
}

func runWindow(w *app.Window, classified *board.Classified) error {
	bbox := boardBounds(classified)

	camera := NewCamera(1000, 800)
	if !bbox.IsEmpty() {
		camera.Fit(bbox)
	}

	var ops op.Ops

	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err

		case app.FrameEvent:
			ops.Reset()

			gtx := layout.Context{
				Ops:         &ops,
				Constraints: layout.Exact(e.Size),
				Metric:      e.Metric,
				Now:         e.Now,
				Source:      e.Source,
			}

			camera.UpdateScreenSize(e.Size.X, e.Size.Y)

			for {
				ev, ok := gtx.Event(key.Filter{})
				if !ok {
					break
				}
				if ke, ok := ev.(key.Event); ok && ke.State == key.Press {
					if handleKeyPress(ke.Name, camera, bbox) {
						return nil
					}
					w.Invalidate()
				}
			}

			for {
				ev, ok := gtx.Event(pointer.Filter{
					Kinds: pointer.Press | pointer.Scroll,
				})
				if !ok {
					break
				}
				if pe, ok := ev.(pointer.Event); ok {
					switch pe.Kind {
					case pointer.Press:
						if pe.Buttons == pointer.ButtonPrimary {
							camera.Rotate(90)
							w.Invalidate()
						} else if pe.Buttons == pointer.ButtonSecondary {
							camera.Flip()
							w.Invalidate()
						}
					case pointer.Scroll:
						zoomFactor := 1.0 + float64(pe.Scroll.Y)*0.1
						camera.ZoomAt(float64(pe.Position.X), float64(pe.Position.Y), zoomFactor)
						w.Invalidate()
					}
				}
			}

			paint.Fill(&ops, ColorBackground)
			RenderBoard(gtx, camera, classified)

			e.Frame(&ops)
		}
	}
}

func handleKeyPress(k key.Name, camera *Camera, bbox geom.BoundingBox) bool {
	switch k {
	case key.NameEscape, "Q":
		return true
	case "F":
		camera.Flip()
	case "R":
		camera.Rotate(90)
	case key.NameLeftArrow:
		camera.Rotate(-90)
	case key.NameSpace:
		if !bbox.IsEmpty() {
			camera.Fit(bbox)
		}
	}
	return false
}
