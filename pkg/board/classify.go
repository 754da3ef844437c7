package board

import (
	"math"
	"strings"

	"github.com/OpenTraceLab/OpenTraceDXF/pkg/geom"
)

// layerPatterns are the substrings matched (case-insensitively) against
// layer names when no explicit layer map is supplied.
var layerPatterns = map[Role][]string{
	RoleOutline:    {"outline", "board", "boundary", "profile", "edge", "border"},
	RoleCutout:     {"cutout", "route", "rout", "slot"},
	RoleHole:       {"hole", "drill", "mount"},
	RoleKeepout:    {"keepout", "keep-out", "keep_out", "restrict"},
	RoleSoldermask: {"mask", "soldermask", "solder"},
	RoleAnnotation: {"dim", "dimension", "note", "text", "anno"},
}

// Classify routes paths and circles into role buckets. With a non-nil
// layerMap every entity is routed by exact layer-name lookup; otherwise
// layer-name keyword heuristics plus containment tests against the detected
// outline decide.
func Classify(paths []geom.Path, circles []geom.Circle, texts []Text, hatches []Hatch, layerMap map[string]Role, unitScale float64) *Classified {
	if layerMap != nil {
		return classifyByMap(paths, circles, texts, hatches, layerMap, unitScale)
	}
	return classifyByHeuristics(paths, circles, texts, hatches, unitScale)
}

// classifyByMap uses an explicit layer name → role mapping. Unmapped layers
// fall through to the unclassified buckets. Among multiple outline-mapped
// paths only the one with the greatest absolute area survives as the
// outline; the rest are demoted to unclassified.
func classifyByMap(paths []geom.Path, circles []geom.Circle, texts []Text, hatches []Hatch, layerMap map[string]Role, unitScale float64) *Classified {
	result := &Classified{UnitScale: unitScale}

	var outlineCandidates []geom.Path
	for _, path := range paths {
		switch layerMap[path.Layer] {
		case RoleOutline:
			outlineCandidates = append(outlineCandidates, path)
		case RoleCutout:
			result.Cutouts = append(result.Cutouts, path)
		case RoleKeepout:
			result.Keepouts = append(result.Keepouts, path)
		case RoleSoldermask:
			result.SoldermaskOpenings = append(result.SoldermaskOpenings, path)
		default:
			result.UnclassifiedPaths = append(result.UnclassifiedPaths, path)
		}
	}

	if len(outlineCandidates) > 0 {
		best := largestByArea(outlineCandidates)
		outline := outlineCandidates[best]
		result.Outline = &outline
		for i, p := range outlineCandidates {
			if i != best {
				result.UnclassifiedPaths = append(result.UnclassifiedPaths, p)
			}
		}
	}

	for _, circle := range circles {
		if layerMap[circle.Layer] == RoleHole {
			result.Holes = append(result.Holes, circle)
		} else {
			result.UnclassifiedCircles = append(result.UnclassifiedCircles, circle)
		}
	}

	result.Texts = texts
	result.Hatches = hatches
	return result
}

// classifyByHeuristics matches layer names against role keywords, then
// resolves the leftovers geometrically: the largest path becomes the outline
// and anything whose representative point sits inside it becomes a cutout or
// hole.
func classifyByHeuristics(paths []geom.Path, circles []geom.Circle, texts []Text, hatches []Hatch, unitScale float64) *Classified {
	result := &Classified{UnitScale: unitScale}

	var outlineCandidates, unresolvedPaths []geom.Path
	var unresolvedCircles []geom.Circle

	for _, path := range paths {
		switch classifyLayerName(path.Layer) {
		case RoleOutline:
			outlineCandidates = append(outlineCandidates, path)
		case RoleCutout:
			result.Cutouts = append(result.Cutouts, path)
		case RoleKeepout:
			result.Keepouts = append(result.Keepouts, path)
		case RoleSoldermask:
			result.SoldermaskOpenings = append(result.SoldermaskOpenings, path)
		default:
			unresolvedPaths = append(unresolvedPaths, path)
		}
	}

	for _, circle := range circles {
		if classifyLayerName(circle.Layer) == RoleHole {
			result.Holes = append(result.Holes, circle)
		} else {
			unresolvedCircles = append(unresolvedCircles, circle)
		}
	}

	if len(outlineCandidates) > 0 {
		best := largestByArea(outlineCandidates)
		outline := outlineCandidates[best]
		result.Outline = &outline
		for i, p := range outlineCandidates {
			if i != best {
				result.UnclassifiedPaths = append(result.UnclassifiedPaths, p)
			}
		}
	} else if len(unresolvedPaths) > 0 {
		// A board always has exactly one largest closed contour; promote it
		// even without a matching layer name.
		best := largestByArea(unresolvedPaths)
		outline := unresolvedPaths[best]
		result.Outline = &outline
		unresolvedPaths = append(unresolvedPaths[:best], unresolvedPaths[best+1:]...)
	}

	if result.Outline != nil {
		for _, path := range unresolvedPaths {
			if result.Outline.Contains(path.BoundingBox().Center()) {
				result.Cutouts = append(result.Cutouts, path)
			} else {
				result.UnclassifiedPaths = append(result.UnclassifiedPaths, path)
			}
		}
		for _, circle := range unresolvedCircles {
			if result.Outline.Contains(circle.Center) {
				result.Holes = append(result.Holes, circle)
			} else {
				result.UnclassifiedCircles = append(result.UnclassifiedCircles, circle)
			}
		}
	} else {
		result.UnclassifiedPaths = append(result.UnclassifiedPaths, unresolvedPaths...)
		result.UnclassifiedCircles = append(result.UnclassifiedCircles, unresolvedCircles...)
	}

	result.Texts = texts
	result.Hatches = hatches
	return result
}

// classifyLayerName matches a layer name against the role keyword lists.
// The empty role means no keyword matched.
func classifyLayerName(layer string) Role {
	lower := strings.ToLower(layer)
	// Outline keywords win over later roles when a name matches several
	// lists, so check in a fixed order.
	for _, role := range [6]Role{RoleOutline, RoleCutout, RoleHole, RoleKeepout, RoleSoldermask, RoleAnnotation} {
		for _, pattern := range layerPatterns[role] {
			if strings.Contains(lower, pattern) {
				return role
			}
		}
	}
	return ""
}

// largestByArea returns the index of the path with the greatest absolute
// signed area.
func largestByArea(paths []geom.Path) int {
	best := 0
	bestArea := math.Abs(paths[0].Area())
	for i := 1; i < len(paths); i++ {
		if a := math.Abs(paths[i].Area()); a > bestArea {
			best = i
			bestArea = a
		}
	}
	return best
}
