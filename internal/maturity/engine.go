// Package maturity computes progress and maturity scores from a catalog and a
// selection. Every function is pure: the same inputs always give the same
// aggregates and nothing is mutated.
package maturity

import (
	"fmt"
	"math"

	"maturity.app/assessor/internal/model"
)

const (
	StatusComplete   = "complete"
	StatusIncomplete = "incomplete"
)

// DimensionProgress is the per-dimension result. Percentage and Band are nil
// unless every sub-dimension of the dimension is selected.
type DimensionProgress struct {
	Dimension  int      `json:"dimension"`
	Name       string   `json:"name"`
	Status     string   `json:"status"`
	Selected   int      `json:"selected"`
	Total      int      `json:"total"`
	Percentage *float64 `json:"percentage,omitempty"`
	Band       *int     `json:"band,omitempty"`
}

func (p DimensionProgress) Complete() bool { return p.Status == StatusComplete }

// OverallScore is the catalog-wide result. Score fields are nil unless every
// sub-dimension across the catalog is selected.
type OverallScore struct {
	Status       string       `json:"status"`
	Policy       string       `json:"policy"`
	Selected     int          `json:"selected"`
	Total        int          `json:"total"`
	AverageLevel *float64     `json:"average_level,omitempty"`
	RoundedLevel *int         `json:"rounded_level,omitempty"`
	Percentage   *float64     `json:"percentage,omitempty"`
	Stage        *model.Stage `json:"stage,omitempty"`
}

func (s OverallScore) Complete() bool { return s.Status == StatusComplete }

// Aggregates is everything the UI needs after a state change.
type Aggregates struct {
	PerDimension []DimensionProgress `json:"per_dimension"`
	Overall      OverallScore        `json:"overall"`
}

// SubDimensionComplete reports whether the entry is present and selected.
func SubDimensionComplete(sel model.Selection, dim, sub int) bool {
	_, ok := sel.Get(dim, sub)
	return ok
}

// Progress computes one dimension's progress:
// (sum of selected levels / sum of L over its sub-dimensions) * 100, defined
// only when all of its sub-dimensions are selected.
func Progress(cat *model.Catalog, sel model.Selection, dim int) (DimensionProgress, error) {
	if cat == nil || dim < 0 || dim >= len(cat.Dimensions) {
		return DimensionProgress{}, fmt.Errorf("%w: unknown dimension %d", model.ErrInvalidSelection, dim)
	}
	d := cat.Dimensions[dim]
	if len(d.SubDimensions) == 0 {
		return DimensionProgress{}, fmt.Errorf("%w: dimensions[%d] (%s) has no sub-dimensions", model.ErrInvalidCatalog, dim, d.Name)
	}

	out := DimensionProgress{
		Dimension: dim,
		Name:      d.Name,
		Status:    StatusIncomplete,
		Total:     len(d.SubDimensions),
	}

	sum, maxSum, err := sumDimension(cat, sel, dim, &out.Selected)
	if err != nil {
		return DimensionProgress{}, err
	}
	if out.Selected < out.Total {
		return out, nil
	}

	pct := float64(sum) / float64(maxSum) * 100
	band := Band(pct)
	out.Status = StatusComplete
	out.Percentage = &pct
	out.Band = &band
	return out, nil
}

// Overall computes the catalog-wide score. averageLevel is the mean selected
// level; the percentage follows the given policy. Incomplete selections yield
// a result without score fields.
func Overall(cat *model.Catalog, sel model.Selection, policy Policy) (OverallScore, error) {
	if policy == nil {
		policy = Raw{}
	}
	if cat == nil || len(cat.Dimensions) == 0 {
		return OverallScore{}, fmt.Errorf("%w: catalog has no dimensions", model.ErrInvalidCatalog)
	}

	out := OverallScore{
		Status: StatusIncomplete,
		Policy: policy.Name(),
		Total:  cat.SubDimensionCount(),
	}
	if out.Total == 0 {
		return OverallScore{}, fmt.Errorf("%w: catalog has no sub-dimensions", model.ErrInvalidCatalog)
	}

	var sum, maxSum int
	for dim, d := range cat.Dimensions {
		if len(d.SubDimensions) == 0 {
			return OverallScore{}, fmt.Errorf("%w: dimensions[%d] (%s) has no sub-dimensions", model.ErrInvalidCatalog, dim, d.Name)
		}
		s, m, err := sumDimension(cat, sel, dim, &out.Selected)
		if err != nil {
			return OverallScore{}, err
		}
		sum += s
		maxSum += m
	}
	if out.Selected < out.Total {
		return out, nil
	}

	avg := float64(sum) / float64(out.Total)
	rounded := int(math.Round(avg))
	pct := policy.Percentage(sum, out.Total, maxSum)

	out.Status = StatusComplete
	out.AverageLevel = &avg
	out.RoundedLevel = &rounded
	out.Percentage = &pct
	if st, ok := cat.Stage(rounded); ok {
		out.Stage = &st
	}
	return out, nil
}

// Recompute returns per-dimension progress and the overall score.
func Recompute(cat *model.Catalog, sel model.Selection, policy Policy) (Aggregates, error) {
	if cat == nil || len(cat.Dimensions) == 0 {
		return Aggregates{}, fmt.Errorf("%w: catalog has no dimensions", model.ErrInvalidCatalog)
	}
	agg := Aggregates{PerDimension: make([]DimensionProgress, 0, len(cat.Dimensions))}
	for dim := range cat.Dimensions {
		p, err := Progress(cat, sel, dim)
		if err != nil {
			return Aggregates{}, err
		}
		agg.PerDimension = append(agg.PerDimension, p)
	}
	overall, err := Overall(cat, sel, policy)
	if err != nil {
		return Aggregates{}, err
	}
	agg.Overall = overall
	return agg, nil
}

// Band classifies a dimension percentage into colour bands 1..5.
func Band(pct float64) int {
	switch {
	case pct >= 100:
		return 5
	case pct > 75:
		return 4
	case pct > 50:
		return 3
	case pct > 25:
		return 2
	default:
		return 1
	}
}

// sumDimension adds up selected levels and level maxima for one dimension,
// counting selected entries into selected.
func sumDimension(cat *model.Catalog, sel model.Selection, dim int, selected *int) (sum, maxSum int, err error) {
	d := cat.Dimensions[dim]
	for sub, sd := range d.SubDimensions {
		l := len(sd.Levels)
		if l == 0 {
			return 0, 0, fmt.Errorf("%w: dimensions[%d].subDimensions[%d] (%s) has no levels", model.ErrInvalidCatalog, dim, sub, sd.Name)
		}
		maxSum += l
		if !SubDimensionComplete(sel, dim, sub) {
			continue
		}
		lvl, _ := sel.Get(dim, sub)
		if lvl < 1 || lvl > l {
			return 0, 0, fmt.Errorf("%w: level %d for (%d, %d) outside [1, %d]", model.ErrInvalidSelection, lvl, dim, sub, l)
		}
		sum += lvl
		*selected++
	}
	return sum, maxSum, nil
}
