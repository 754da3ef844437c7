package jitx

import (
	"fmt"
	"sort"

	"github.com/OpenTraceLab/OpenTraceDXF/pkg/dxf"
	"github.com/OpenTraceLab/OpenTraceDXF/pkg/geom"
)

// Static DXF layers and their AutoCAD color indices.
var layerDefs = []struct {
	Name  string
	Color int
}{
	{"BoardOutline", 7},
	{"Pads_Top", 1},
	{"Pads_Bottom", 5},
	{"Vias", 8},
	{"Drill", 8},
	{"Silkscreen_Top", 3},
	{"Silkscreen_Bottom", 4},
	{"Courtyard_Top", 6},
	{"Courtyard_Bottom", 2},
	{"Components", 7},
}

// copperColors cycle across conductor layers by index.
var copperColors = []int{30, 140, 170, 200, 50, 110}

// CopperLayerName names the DXF layer for a conductor layer index, using
// the stackup name when the board declares one.
func CopperLayerName(index int, layerNames map[int]string) string {
	name, ok := layerNames[index]
	if !ok {
		name = fmt.Sprintf("L%d", index)
	}
	return "Copper_" + name
}

// LayerFor maps a design layer name and side to a DXF layer name.
func LayerFor(layerName string, side Side) string {
	switch layerName {
	case "SILKSCREEN":
		return fmt.Sprintf("Silkscreen_%s", side)
	case "COURTYARD":
		return fmt.Sprintf("Courtyard_%s", side)
	}
	return fmt.Sprintf("%s_%s", layerName, side)
}

// ResolveSide resolves a package shape's side for an instance placement.
// Package shapes are defined relative to a Top-side placement, so a
// Bottom-side instance flips every shape side.
func ResolveSide(shapeSide, instSide Side) Side {
	if instSide == SideBottom {
		return shapeSide.Flip()
	}
	return shapeSide
}

// EmitOptions control drawing generation.
type EmitOptions struct {
	// Layers, when non-nil, restricts output to the named DXF layers.
	Layers map[string]bool
}

func (o EmitOptions) wants(layer string) bool {
	return o.Layers == nil || o.Layers[layer]
}

// BuildDrawing renders a board design into a DXF drawing.
func BuildDrawing(data *BoardData, opts EmitOptions) *dxf.Drawing {
	d := dxf.NewDrawing()
	for _, def := range layerDefs {
		d.AddLayer(def.Name, def.Color)
	}
	for _, idx := range sortedLayerIndices(data.LayerNames) {
		d.AddLayer(CopperLayerName(idx, data.LayerNames), copperColors[idx%len(copperColors)])
	}

	if opts.wants("BoardOutline") {
		emitBoundary(d, data)
	}
	for i := range data.Instances {
		emitInstance(d, &data.Instances[i], data.Packages, opts)
	}
	emitCopper(d, data, opts)
	emitVias(d, data.Vias, opts)

	for _, shape := range data.Shapes {
		layer := LayerFor(shape.LayerName, shape.Side)
		if opts.wants(layer) {
			emitPolygon(d, shape.Points, layer, nil)
		}
	}
	for _, ls := range data.LineShapes {
		layer := LayerFor(ls.LayerName, ls.Side)
		if opts.wants(layer) {
			d.AddWideLine(ls.P1, ls.P2, ls.Width, layer)
		}
	}

	return d
}

func emitBoundary(d *dxf.Drawing, data *BoardData) {
	for _, line := range data.BoundaryLines {
		d.AddLine(line.P1, line.P2, "BoardOutline")
	}
	for _, arc := range data.BoundaryArcs {
		d.AddArc(arc.Center, arc.Radius, arc.StartAngle, arc.EndAngle, "BoardOutline")
	}
}

func emitInstance(d *dxf.Drawing, inst *Instance, packages map[string]*Package, opts EmitOptions) {
	pkg, ok := packages[inst.PackageName]
	if !ok {
		dxf.Logger().Warn("package not found for instance",
			"package", inst.PackageName, "designator", inst.Designator)
		return
	}

	if opts.wants("Components") {
		d.AddPoint(geom.Point{X: inst.Pose.X, Y: inst.Pose.Y}, "Components")
	}

	padLayer := fmt.Sprintf("Pads_%s", inst.Side)
	if opts.wants(padLayer) || opts.Layers["Drill"] {
		emitPads(d, pkg, inst.Pose, inst.Side)
	}

	for _, poly := range pkg.Polygons {
		layer := LayerFor(poly.LayerName, ResolveSide(poly.Side, inst.Side))
		if opts.wants(layer) {
			emitPolygon(d, poly.Points, layer, &inst.Pose)
		}
	}
	for _, ls := range pkg.Lines {
		layer := LayerFor(ls.LayerName, ResolveSide(ls.Side, inst.Side))
		if opts.wants(layer) {
			p1 := TransformPoint(ls.P1, inst.Pose)
			p2 := TransformPoint(ls.P2, inst.Pose)
			d.AddWideLine(p1, p2, ls.Width, layer)
		}
	}

	if opts.wants("Components") && inst.DesignatorText != nil {
		dt := inst.DesignatorText
		position := TransformPoint(geom.Point{X: dt.Pose.X, Y: dt.Pose.Y}, inst.Pose)
		rotation := TransformAngle(dt.Pose.Angle, inst.Pose)
		d.AddText(dt.String, position, dt.Size, rotation, "Components")
	}

	// Instance-level shapes are already in board coordinates.
	for _, ts := range inst.Texts {
		layer := LayerFor(ts.LayerName, ts.Side)
		if opts.wants(layer) {
			d.AddText(ts.String, geom.Point{X: ts.Pose.X, Y: ts.Pose.Y}, ts.Size, ts.Pose.Angle, layer)
		}
	}
	for _, poly := range inst.Polygons {
		layer := LayerFor(poly.LayerName, poly.Side)
		if opts.wants(layer) {
			emitPolygon(d, poly.Points, layer, nil)
		}
	}
	for _, ls := range inst.Lines {
		layer := LayerFor(ls.LayerName, ls.Side)
		if opts.wants(layer) {
			d.AddWideLine(ls.P1, ls.P2, ls.Width, layer)
		}
	}
}

func emitPads(d *dxf.Drawing, pkg *Package, instPose Pose, instSide Side) {
	layer := fmt.Sprintf("Pads_%s", instSide)

	for _, pad := range pkg.Pads {
		center := TransformPoint(pad.Center, instPose)
		d.AddCircle(center, pad.Radius, layer)
		emitDrill(d, pad.Center, pad.HoleRadius, instPose)
	}

	for _, pad := range pkg.RectanglePads {
		hw, hh := pad.Width/2, pad.Height/2
		corners := [4]geom.Point{
			{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh},
		}
		// rect-local -> pad-local -> package-local -> board
		transformed := make([]geom.Point, 4)
		for i, pt := range corners {
			pt = TransformPoint(pt, pad.RectPose)
			pt = TransformPoint(pt, pad.PadPose)
			transformed[i] = TransformPoint(pt, instPose)
		}
		d.AddClosedOutline(transformed, layer)
		emitDrill(d, geom.Point{X: pad.PadPose.X, Y: pad.PadPose.Y}, pad.HoleRadius, instPose)
	}

	for _, pad := range pkg.PolygonPads {
		if len(pad.Points) < 2 {
			continue
		}
		transformed := make([]geom.Point, len(pad.Points))
		for i, pt := range pad.Points {
			pt = TransformPoint(pt, pad.Pose)
			transformed[i] = TransformPoint(pt, instPose)
		}
		d.AddClosedOutline(transformed, layer)
		emitDrill(d, geom.Point{X: pad.Pose.X, Y: pad.Pose.Y}, pad.HoleRadius, instPose)
	}
}

func emitDrill(d *dxf.Drawing, center geom.Point, holeRadius float64, instPose Pose) {
	if holeRadius <= 0 {
		return
	}
	d.AddCircle(TransformPoint(center, instPose), holeRadius, "Drill")
}

func emitPolygon(d *dxf.Drawing, pts []geom.Point, layer string, pose *Pose) {
	if len(pts) < 2 {
		return
	}
	if pose == nil {
		d.AddClosedOutline(pts, layer)
		return
	}
	transformed := make([]geom.Point, len(pts))
	for i, pt := range pts {
		transformed[i] = TransformPoint(pt, *pose)
	}
	d.AddClosedOutline(transformed, layer)
}

func emitCopper(d *dxf.Drawing, data *BoardData, opts EmitOptions) {
	for _, track := range data.Tracks {
		layer := CopperLayerName(track.LayerIndex(), data.LayerNames)
		if !opts.wants(layer) {
			continue
		}
		switch t := track.(type) {
		case CopperPolygon:
			emitPolygon(d, t.Points, layer, nil)
		case CopperLine:
			d.AddWideLine(t.P1, t.P2, t.Width, layer)
		case CopperArc:
			d.AddWideArc(t.Center, t.Radius, t.StartAngle, t.EndAngle, t.Width, layer)
		}
	}
	for _, fill := range data.Fills {
		layer := CopperLayerName(fill.Layer, data.LayerNames)
		if opts.wants(layer) {
			emitPolygon(d, fill.Points, layer, nil)
		}
	}
}

func emitVias(d *dxf.Drawing, vias []Via, opts EmitOptions) {
	for _, via := range vias {
		if opts.wants("Vias") {
			d.AddCircle(via.Center, via.Diameter/2, "Vias")
		}
		if opts.wants("Drill") {
			d.AddCircle(via.Center, via.HoleDiameter/2, "Drill")
		}
	}
}

// LayerNames lists every DXF layer name the design would emit, sorted.
func LayerNames(data *BoardData) []string {
	layers := map[string]bool{}

	if len(data.BoundaryLines) > 0 || len(data.BoundaryArcs) > 0 {
		layers["BoardOutline"] = true
	}
	if len(data.Vias) > 0 {
		layers["Vias"] = true
		layers["Drill"] = true
	}
	if len(data.Instances) > 0 {
		layers["Components"] = true
	}
	for idx := range data.LayerNames {
		layers[CopperLayerName(idx, data.LayerNames)] = true
	}
	for _, track := range data.Tracks {
		layers[CopperLayerName(track.LayerIndex(), data.LayerNames)] = true
	}
	for _, fill := range data.Fills {
		layers[CopperLayerName(fill.Layer, data.LayerNames)] = true
	}

	for _, inst := range data.Instances {
		pkg, ok := data.Packages[inst.PackageName]
		if !ok {
			continue
		}
		if len(pkg.Pads)+len(pkg.RectanglePads)+len(pkg.PolygonPads) > 0 {
			layers[fmt.Sprintf("Pads_%s", inst.Side)] = true
		}
		if packageHasDrills(pkg) {
			layers["Drill"] = true
		}
		for _, poly := range pkg.Polygons {
			layers[LayerFor(poly.LayerName, ResolveSide(poly.Side, inst.Side))] = true
		}
		for _, ls := range pkg.Lines {
			layers[LayerFor(ls.LayerName, ResolveSide(ls.Side, inst.Side))] = true
		}
		for _, ts := range inst.Texts {
			layers[LayerFor(ts.LayerName, ts.Side)] = true
		}
		for _, poly := range inst.Polygons {
			layers[LayerFor(poly.LayerName, poly.Side)] = true
		}
		for _, ls := range inst.Lines {
			layers[LayerFor(ls.LayerName, ls.Side)] = true
		}
	}

	for _, shape := range data.Shapes {
		layers[LayerFor(shape.LayerName, shape.Side)] = true
	}
	for _, ls := range data.LineShapes {
		layers[LayerFor(ls.LayerName, ls.Side)] = true
	}

	names := make([]string, 0, len(layers))
	for name := range layers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func packageHasDrills(pkg *Package) bool {
	for _, p := range pkg.Pads {
		if p.HoleRadius > 0 {
			return true
		}
	}
	for _, p := range pkg.RectanglePads {
		if p.HoleRadius > 0 {
			return true
		}
	}
	for _, p := range pkg.PolygonPads {
		if p.HoleRadius > 0 {
			return true
		}
	}
	return false
}

func sortedLayerIndices(names map[int]string) []int {
	indices := make([]int, 0, len(names))
	for idx := range names {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices
}
