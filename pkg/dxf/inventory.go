package dxf

import (
	"fmt"
	"sort"
	"strings"

	"github.com/OpenTraceLab/OpenTraceDXF/pkg/geom"
)

// Inventory summarizes a document without classifying it: what the file
// declares and what it contains.
type Inventory struct {
	Version      string
	Insunits     int
	DeclaredUnit string
	EntityCounts map[string]int
	LayerCounts  map[string]int
	RawBounds    geom.BoundingBox
	RawExtent    float64
}

// Inventory builds the document summary.
func (d *Document) Inventory() Inventory {
	return Inventory{
		Version:      d.Version,
		Insunits:     d.Insunits,
		DeclaredUnit: d.DeclaredUnit(),
		EntityCounts: d.EntityCounts,
		LayerCounts:  d.LayerCounts,
		RawBounds:    d.RawBoundingBox(),
		RawExtent:    d.RawExtent(),
	}
}

func (inv Inventory) String() string {
	var b strings.Builder

	version := inv.Version
	if version == "" {
		version = "(not declared)"
	}
	unit := inv.DeclaredUnit
	if unit == "" {
		unit = "(not declared)"
	}
	fmt.Fprintf(&b, "Version:  %s\n", version)
	fmt.Fprintf(&b, "Units:    %s (INSUNITS %d)\n", unit, inv.Insunits)

	if !inv.RawBounds.IsEmpty() {
		fmt.Fprintf(&b, "Bounds:   (%.3f, %.3f) to (%.3f, %.3f), extent %.3f drawing units\n",
			inv.RawBounds.Min.X, inv.RawBounds.Min.Y,
			inv.RawBounds.Max.X, inv.RawBounds.Max.Y,
			inv.RawExtent)
	}

	fmt.Fprintf(&b, "Entities:\n")
	for _, name := range sortedKeys(inv.EntityCounts) {
		fmt.Fprintf(&b, "  %-12s %d\n", name, inv.EntityCounts[name])
	}
	fmt.Fprintf(&b, "Layers:\n")
	for _, name := range sortedKeys(inv.LayerCounts) {
		fmt.Fprintf(&b, "  %-20s %d\n", name, inv.LayerCounts[name])
	}

	return b.String()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
