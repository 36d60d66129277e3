package service

import (
	"maturity.app/assessor/internal/maturity"
	"maturity.app/assessor/internal/model"
)

// AssessmentService answers stateless scoring questions against the loaded
// catalog.
type AssessmentService interface {
	Catalog() *model.Catalog
	Aggregates(sel model.Selection) (maturity.Aggregates, error)
}

type assessmentService struct {
	engine *maturity.Engine
}

func NewAssessmentService(engine *maturity.Engine) AssessmentService {
	return &assessmentService{engine: engine}
}

func (s *assessmentService) Catalog() *model.Catalog {
	return s.engine.Catalog()
}

func (s *assessmentService) Aggregates(sel model.Selection) (maturity.Aggregates, error) {
	if err := sel.Validate(s.engine.Catalog()); err != nil {
		return maturity.Aggregates{}, err
	}
	return s.engine.Recompute(sel)
}
