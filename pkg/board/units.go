package board

// Unit-to-millimeter conversion factors for the unit names a drawing can
// declare or a caller can force.
var UnitToMM = map[string]float64{
	"mm":  1.0,
	"cm":  10.0,
	"m":   1000.0,
	"in":  25.4,
	"ft":  304.8,
	"mil": 0.0254,
	"μin": 0.0000254,
	"μm":  0.001,
	"yd":  914.4,
}

// insunitsNames maps DXF $INSUNITS header codes to unit names. Codes absent
// from the table (including 0, "unitless") carry no unit information.
var insunitsNames = map[int]string{
	1:  "in",
	2:  "ft",
	3:  "mi",
	4:  "mm",
	5:  "cm",
	6:  "m",
	8:  "μin",
	9:  "μm",
	10: "yd",
}

// InsunitsName translates a DXF $INSUNITS code into a unit name.
func InsunitsName(code int) (string, bool) {
	name, ok := insunitsNames[code]
	return name, ok
}

// maxSaneExtentMM rejects declared units that would make the board larger
// than 5 meters: almost certainly a mis-declared header, not a real board.
const maxSaneExtentMM = 5000.0

// milHeuristicThreshold: raw extents beyond this are assumed to be in
// thousandths of an inch, the fine-pitch CAD convention for boards whose
// numbers land in that range.
const milHeuristicThreshold = 500.0

// ResolveUnitScale determines the factor that converts raw drawing
// coordinates to millimeters.
//
// Priority: a forced unit from the caller always wins; a declared unit is
// accepted only if it keeps the largest axis under 5000 mm; otherwise a
// magnitude heuristic on the raw extent decides between mil and mm. With no
// geometry at all the scale defaults to 1.0 (millimeters).
func ResolveUnitScale(forcedUnit, declaredUnit string, rawExtent float64) float64 {
	if forcedUnit != "" {
		if scale, ok := UnitToMM[forcedUnit]; ok {
			return scale
		}
		return 1.0
	}

	if declaredUnit != "" {
		if scale, ok := UnitToMM[declaredUnit]; ok && rawExtent*scale <= maxSaneExtentMM {
			return scale
		}
	}

	if rawExtent == 0 {
		return 1.0
	}
	if rawExtent > milHeuristicThreshold {
		return UnitToMM["mil"]
	}
	return 1.0
}
