package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveUnitScale(t *testing.T) {
	tests := []struct {
		name         string
		forcedUnit   string
		declaredUnit string
		rawExtent    float64
		want         float64
	}{
		{"forced unit wins", "in", "mm", 100, 25.4},
		{"forced unknown unit falls back to mm", "furlong", "mm", 100, 1.0},
		{"declared mm accepted", "", "mm", 100, 1.0},
		{"declared inches accepted when sane", "", "in", 10, 25.4},
		{"declared meters rejected as implausible", "", "m", 100, 1.0},
		{"rejected declaration falls to mil heuristic", "", "m", 800, 0.0254},
		{"large raw extent assumed mils", "", "", 4000, 0.0254},
		{"small raw extent assumed mm", "", "", 120, 1.0},
		{"no geometry defaults to mm", "", "", 0, 1.0},
		{"declared in too large for a board", "", "in", 600, 0.0254},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveUnitScale(tt.forcedUnit, tt.declaredUnit, tt.rawExtent)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestInsunitsName(t *testing.T) {
	name, ok := InsunitsName(4)
	assert.True(t, ok)
	assert.Equal(t, "mm", name)

	name, ok = InsunitsName(1)
	assert.True(t, ok)
	assert.Equal(t, "in", name)

	_, ok = InsunitsName(0)
	assert.False(t, ok)

	_, ok = InsunitsName(99)
	assert.False(t, ok)
}
