package jitx

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceDXF/pkg/dxf"
)

// sideFlipFixture places the same package once on each board side. Package
// shapes are Top-relative, so the Bottom instance must land on Bottom
// layers.
const sideFlipFixture = `<?xml version="1.0"?>
<DESIGN>
  <BOARD>
    <PACKAGE NAME="SOIC">
      <PAD NAME="p1" SIDE="Top">
        <POSE X="-1" Y="0"/>
        <CIRCLE RADIUS="0.3"/>
      </PAD>
      <PAD NAME="p2" SIDE="Top">
        <POSE X="1" Y="0"/>
        <CIRCLE RADIUS="0.3"/>
      </PAD>
      <SHAPE>
        <LAYER-SPECIFIER NAME="SILKSCREEN" SIDE="Top"/>
        <POLYGON>
          <POINT X="-2" Y="-1"/>
          <POINT X="2" Y="-1"/>
          <POINT X="2" Y="1"/>
          <POINT X="-2" Y="1"/>
        </POLYGON>
      </SHAPE>
      <SHAPE>
        <LAYER-SPECIFIER NAME="SILKSCREEN" SIDE="Top"/>
        <LINE WIDTH="0.15">
          <POINT X="-2" Y="0"/>
          <POINT X="2" Y="0"/>
        </LINE>
      </SHAPE>
      <SHAPE>
        <LAYER-SPECIFIER NAME="COURTYARD" SIDE="Top"/>
        <POLYGON>
          <POINT X="-2.5" Y="-1.5"/>
          <POINT X="2.5" Y="-1.5"/>
          <POINT X="2.5" Y="1.5"/>
        </POLYGON>
      </SHAPE>
      <SHAPE>
        <LAYER-SPECIFIER NAME="FINISH" SIDE="Top"/>
        <POLYGON>
          <POINT X="0" Y="0"/>
          <POINT X="1" Y="0"/>
          <POINT X="1" Y="1"/>
        </POLYGON>
      </SHAPE>
    </PACKAGE>
    <INST DESIGNATOR="U1" PACKAGE="SOIC" SIDE="Top">
      <POSE X="0" Y="0"/>
    </INST>
    <INST DESIGNATOR="U2" PACKAGE="SOIC" SIDE="Bottom">
      <POSE X="20" Y="0"/>
    </INST>
  </BOARD>
</DESIGN>
`

// layerCounts renders the design and counts emitted entities per layer.
func layerCounts(t *testing.T, data *BoardData, filter map[string]bool) map[string]int {
	t.Helper()

	d := BuildDrawing(data, EmitOptions{Layers: filter})
	var buf bytes.Buffer
	require.NoError(t, d.Write(&buf))

	doc, err := dxf.Parse(&buf)
	require.NoError(t, err)
	return doc.LayerCounts
}

func TestEmitTopInstanceKeepsTopLayers(t *testing.T) {
	data, err := Parse(strings.NewReader(sideFlipFixture))
	require.NoError(t, err)

	counts := layerCounts(t, data, map[string]bool{
		"Pads_Top": true, "Silkscreen_Top": true, "Courtyard_Top": true, "FINISH_Top": true,
	})

	assert.Equal(t, 2, counts["Pads_Top"])
	assert.Equal(t, 2, counts["Silkscreen_Top"])
	assert.Equal(t, 1, counts["Courtyard_Top"])
	assert.Equal(t, 1, counts["FINISH_Top"])

	assert.Zero(t, counts["Silkscreen_Bottom"])
	assert.Zero(t, counts["Courtyard_Bottom"])
	assert.Zero(t, counts["FINISH_Bottom"])
}

func TestEmitBottomInstanceFlipsToBottomLayers(t *testing.T) {
	data, err := Parse(strings.NewReader(sideFlipFixture))
	require.NoError(t, err)

	counts := layerCounts(t, data, map[string]bool{
		"Pads_Bottom": true, "Silkscreen_Bottom": true, "Courtyard_Bottom": true, "FINISH_Bottom": true,
	})

	assert.Equal(t, 2, counts["Pads_Bottom"])
	assert.Equal(t, 2, counts["Silkscreen_Bottom"])
	assert.Equal(t, 1, counts["Courtyard_Bottom"])
	assert.Equal(t, 1, counts["FINISH_Bottom"])

	assert.Zero(t, counts["Silkscreen_Top"])
	assert.Zero(t, counts["Courtyard_Top"])
	assert.Zero(t, counts["FINISH_Top"])
}

func TestEmitBothInstancesUnfiltered(t *testing.T) {
	data, err := Parse(strings.NewReader(sideFlipFixture))
	require.NoError(t, err)

	counts := layerCounts(t, data, nil)

	assert.Equal(t, 2, counts["Pads_Top"])
	assert.Equal(t, 2, counts["Pads_Bottom"])
	assert.Equal(t, 2, counts["Silkscreen_Top"])
	assert.Equal(t, 2, counts["Silkscreen_Bottom"])
	assert.Equal(t, 1, counts["Courtyard_Top"])
	assert.Equal(t, 1, counts["Courtyard_Bottom"])
	assert.Equal(t, 1, counts["FINISH_Top"])
	assert.Equal(t, 1, counts["FINISH_Bottom"])

	// One component origin marker per instance.
	assert.Equal(t, 2, counts["Components"])
}

func TestEmitBoundaryAndVias(t *testing.T) {
	src := `<DESIGN><BOARD>
      <BOARD-BOUNDARY>
        <LINE WIDTH="0.2">
          <POINT X="0" Y="0"/>
          <POINT X="30" Y="0"/>
        </LINE>
      </BOARD-BOUNDARY>
      <BOARD-BOUNDARY>
        <ARC X="15" Y="10" RADIUS="5" START_ANGLE="0" END_ANGLE="180" WIDTH="0.2"/>
      </BOARD-BOUNDARY>
      <VIA DIAMETER="0.6" HOLE-DIAMETER="0.3" NET="GND">
        <POINT X="2" Y="2"/>
      </VIA>
    </BOARD></DESIGN>`

	data, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	counts := layerCounts(t, data, nil)
	assert.Equal(t, 2, counts["BoardOutline"])
	assert.Equal(t, 1, counts["Vias"])
	assert.Equal(t, 1, counts["Drill"])
}

func TestEmitPadDrills(t *testing.T) {
	src := `<DESIGN><BOARD>
      <PACKAGE NAME="TH">
        <PAD NAME="p1">
          <POSE X="0" Y="0"/>
          <CIRCLE RADIUS="0.8"/>
          <HOLE><CIRCLE RADIUS="0.4"/></HOLE>
        </PAD>
      </PACKAGE>
      <INST DESIGNATOR="J1" PACKAGE="TH">
        <POSE X="5" Y="5"/>
      </INST>
    </BOARD></DESIGN>`

	data, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	d := BuildDrawing(data, EmitOptions{})
	var buf bytes.Buffer
	require.NoError(t, d.Write(&buf))

	doc, err := dxf.Parse(&buf)
	require.NoError(t, err)

	require.Len(t, doc.Circles, 2)
	byLayer := map[string]float64{}
	for _, c := range doc.Circles {
		byLayer[c.Layer] = c.Radius
	}
	assert.Equal(t, 0.8, byLayer["Pads_Top"])
	assert.Equal(t, 0.4, byLayer["Drill"])
	assert.Equal(t, 5.0, doc.Circles[0].Center.X)
}

func TestCopperLayerName(t *testing.T) {
	names := map[int]string{0: "Top", 1: "Bottom"}
	assert.Equal(t, "Copper_Top", CopperLayerName(0, names))
	assert.Equal(t, "Copper_Bottom", CopperLayerName(1, names))
	assert.Equal(t, "Copper_L3", CopperLayerName(3, names))
}

func TestLayerFor(t *testing.T) {
	assert.Equal(t, "Silkscreen_Top", LayerFor("SILKSCREEN", SideTop))
	assert.Equal(t, "Courtyard_Bottom", LayerFor("COURTYARD", SideBottom))
	assert.Equal(t, "FINISH_Top", LayerFor("FINISH", SideTop))
}

func TestLayerNames(t *testing.T) {
	data, err := Parse(strings.NewReader(sideFlipFixture))
	require.NoError(t, err)

	names := LayerNames(data)
	assert.Contains(t, names, "Components")
	assert.Contains(t, names, "Pads_Top")
	assert.Contains(t, names, "Pads_Bottom")
	assert.Contains(t, names, "Silkscreen_Top")
	assert.Contains(t, names, "Silkscreen_Bottom")
	assert.Contains(t, names, "FINISH_Top")
	assert.Contains(t, names, "FINISH_Bottom")
	assert.NotContains(t, names, "BoardOutline")
	assert.NotContains(t, names, "Drill")
}

func TestEmitMissingPackageSkipsInstance(t *testing.T) {
	src := `<DESIGN><BOARD>
      <INST DESIGNATOR="U1" PACKAGE="NOPE">
        <POSE X="0" Y="0"/>
      </INST>
    </BOARD></DESIGN>`

	data, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	counts := layerCounts(t, data, nil)
	assert.Zero(t, counts["Components"])
}
