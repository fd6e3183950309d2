package metrics

import (
	"math"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/pkg/domain"
)

// Bounds clamps a composite index into [Floor, Ceiling].
type Bounds struct {
	Floor   float64 `yaml:"floor"`
	Ceiling float64 `yaml:"ceiling"`
}

var (
	// BoardroomBounds keeps the headline index off the extremes so no scenario reads as certain failure or success.
	BoardroomBounds = Bounds{Floor: 20, Ceiling: 98}
	// FullRange leaves the scaled index unclamped.
	FullRange = Bounds{Floor: 0, Ceiling: 100}
)

// Clamp returns v limited to the bounds. NaN maps to the floor.
func (b Bounds) Clamp(v float64) float64 {
	if math.IsNaN(v) || v < b.Floor {
		return b.Floor
	}
	if v > b.Ceiling {
		return b.Ceiling
	}
	return v
}

// CompositeIndex returns the weighted mean of the component scores scaled to
// [0, 100], rounded, and clamped to b. Scores are clamped to [0, 1] first and
// non-positive weights are ignored; with no usable weight the floor is returned.
// Weights are scaled by the largest one so huge finite weights cannot overflow.
func CompositeIndex(components []domain.HealthComponent, b Bounds) float64 {
	var largest float64
	for _, c := range components {
		if usableWeight(c.Weight) && c.Weight > largest {
			largest = c.Weight
		}
	}
	if largest == 0 {
		return b.Floor
	}
	var weighted, total float64
	for _, c := range components {
		if !usableWeight(c.Weight) {
			continue
		}
		w := c.Weight / largest
		weighted += w * unit(c.Score)
		total += w
	}
	if total == 0 {
		return b.Floor
	}
	return b.Clamp(math.Round(weighted / total * 100))
}

func usableWeight(w float64) bool {
	return w > 0 && !math.IsNaN(w) && !math.IsInf(w, 0)
}

func unit(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
