package maturity

import (
	"maturity.app/assessor/internal/model"
)

// Engine binds a validated catalog to a scoring policy.
type Engine struct {
	catalog *model.Catalog
	policy  Policy
}

// NewEngine validates the catalog up front so later calls cannot hit a
// division by zero. A nil policy means Raw.
func NewEngine(cat *model.Catalog, policy Policy) (*Engine, error) {
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	if policy == nil {
		policy = Raw{}
	}
	return &Engine{catalog: cat, policy: policy}, nil
}

func (e *Engine) Catalog() *model.Catalog { return e.catalog }

func (e *Engine) Policy() Policy { return e.policy }

func (e *Engine) Progress(sel model.Selection, dim int) (DimensionProgress, error) {
	return Progress(e.catalog, sel, dim)
}

func (e *Engine) Overall(sel model.Selection) (OverallScore, error) {
	return Overall(e.catalog, sel, e.policy)
}

func (e *Engine) Recompute(sel model.Selection) (Aggregates, error) {
	return Recompute(e.catalog, sel, e.policy)
}
