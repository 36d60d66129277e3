package maturity

import (
	"fmt"
	"math"
)

// Policy turns summed levels into an overall percentage.
//
// sum is the total of selected levels, count the number of sub-dimensions and
// maxSum the sum of every sub-dimension's L. Callers guarantee count > 0 and
// count <= sum <= maxSum.
type Policy interface {
	Name() string
	Percentage(sum, count, maxSum int) float64
}

const (
	PolicyRaw        = "raw"
	PolicyNormalized = "normalized"
)

// Raw scores (averageLevel / L) * 100, so "all at level 1" on a 4-level scale
// is 25%. With per-sub-dimension scales L is replaced by the summed maxima,
// which reduces to the same value for a uniform catalog.
type Raw struct{}

func (Raw) Name() string { return PolicyRaw }

func (Raw) Percentage(sum, _, maxSum int) float64 {
	return float64(sum) / float64(maxSum) * 100
}

// Normalized rescales so "all at level 1" is 0% and "all at level L" is 100%:
// ((sum - count) / (maxSum - count)) * 100. A catalog whose sub-dimensions all
// have a single level has nothing to rescale and scores 100%.
type Normalized struct{}

func (Normalized) Name() string { return PolicyNormalized }

func (Normalized) Percentage(sum, count, maxSum int) float64 {
	span := maxSum - count
	if span == 0 {
		return 100
	}
	return float64(sum-count) / float64(span) * 100
}

// Floored clamps another policy to a minimum display value. It is only used
// when a floor is configured explicitly.
type Floored struct {
	Policy Policy
	Min    float64
}

func (f Floored) Name() string {
	return fmt.Sprintf("%s+floor(%g)", f.Policy.Name(), f.Min)
}

func (f Floored) Percentage(sum, count, maxSum int) float64 {
	return math.Max(f.Min, f.Policy.Percentage(sum, count, maxSum))
}

// PolicyByName resolves a configured policy. floor <= 0 disables clamping.
func PolicyByName(name string, floor float64) (Policy, error) {
	var p Policy
	switch name {
	case PolicyRaw, "":
		p = Raw{}
	case PolicyNormalized:
		p = Normalized{}
	default:
		return nil, fmt.Errorf("unknown scoring policy %q", name)
	}
	if floor < 0 || floor > 100 {
		return nil, fmt.Errorf("scoring floor %v outside [0, 100]", floor)
	}
	if floor > 0 {
		p = Floored{Policy: p, Min: floor}
	}
	return p, nil
}
