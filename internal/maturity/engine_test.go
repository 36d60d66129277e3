package maturity_test

import (
	"fmt"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"maturity.app/assessor/internal/maturity"
	"maturity.app/assessor/internal/model"
)

// twoByTwo builds 2 dimensions x 2 sub-dimensions with L=4.
func twoByTwo() *model.Catalog {
	levels := func() []model.LevelDescription {
		return []model.LevelDescription{{Summary: "one"}, {Summary: "two"}, {Summary: "three"}, {Summary: "four"}}
	}
	return &model.Catalog{
		Stages: []model.Stage{{Level: 1, Name: "Foundational"}, {Level: 4, Name: "Leading"}},
		Dimensions: []model.Dimension{
			{Name: "Culture", SubDimensions: []model.SubDimension{{Name: "Ownership", Levels: levels()}, {Name: "Learning", Levels: levels()}}},
			{Name: "Delivery", SubDimensions: []model.SubDimension{{Name: "Build", Levels: levels()}, {Name: "Deploy", Levels: levels()}}},
		},
	}
}

func fill(level int) model.Selection {
	sel := model.NewSelection()
	for d := 0; d < 2; d++ {
		for s := 0; s < 2; s++ {
			Expect(sel.Set(d, s, level)).To(Succeed())
		}
	}
	return sel
}

var _ = Describe("Engine", func() {
	var (
		cat    *model.Catalog
		engine *maturity.Engine
	)

	BeforeEach(func() {
		cat = twoByTwo()
		var err error
		engine, err = maturity.NewEngine(cat, maturity.Raw{})
		Expect(err).NotTo(HaveOccurred())
	})

	It("scores 100% with average 4 when everything is at the top level", func() {
		overall, err := engine.Overall(fill(4))
		Expect(err).NotTo(HaveOccurred())
		Expect(overall.Complete()).To(BeTrue())
		Expect(*overall.Percentage).To(BeNumerically("~", 100, 1e-9))
		Expect(*overall.AverageLevel).To(BeNumerically("~", 4, 1e-9))
		Expect(*overall.RoundedLevel).To(Equal(4))
		Expect(overall.Stage).NotTo(BeNil())
		Expect(overall.Stage.Name).To(Equal("Leading"))
	})

	It("scores 25% when everything is at level 1 under the raw policy", func() {
		overall, err := engine.Overall(fill(1))
		Expect(err).NotTo(HaveOccurred())
		Expect(overall.Policy).To(Equal(maturity.PolicyRaw))
		Expect(*overall.Percentage).To(BeNumerically("~", 25, 1e-9))
		Expect(*overall.AverageLevel).To(BeNumerically("~", 1, 1e-9))
	})

	It("reports incomplete for the overall score and the affected dimension only", func() {
		sel := fill(3)
		sel.Clear(1, 0)

		agg, err := engine.Recompute(sel)
		Expect(err).NotTo(HaveOccurred())

		Expect(agg.Overall.Status).To(Equal(maturity.StatusIncomplete))
		Expect(agg.Overall.Percentage).To(BeNil())
		Expect(agg.Overall.AverageLevel).To(BeNil())
		Expect(agg.Overall.Selected).To(Equal(3))
		Expect(agg.Overall.Total).To(Equal(4))

		Expect(agg.PerDimension).To(HaveLen(2))
		Expect(agg.PerDimension[0].Complete()).To(BeTrue())
		Expect(*agg.PerDimension[0].Percentage).To(BeNumerically("~", 75, 1e-9))
		Expect(*agg.PerDimension[0].Band).To(Equal(3))

		Expect(agg.PerDimension[1].Status).To(Equal(maturity.StatusIncomplete))
		Expect(agg.PerDimension[1].Percentage).To(BeNil())
		Expect(agg.PerDimension[1].Band).To(BeNil())
		Expect(agg.PerDimension[1].Selected).To(Equal(1))
	})

	It("treats an empty selection as incomplete everywhere", func() {
		agg, err := engine.Recompute(model.NewSelection())
		Expect(err).NotTo(HaveOccurred())
		Expect(agg.Overall.Complete()).To(BeFalse())
		for _, p := range agg.PerDimension {
			Expect(p.Complete()).To(BeFalse())
		}
	})

	It("marks a sub-dimension complete only while it is selected", func() {
		sel := model.NewSelection()
		Expect(maturity.SubDimensionComplete(sel, 0, 0)).To(BeFalse())

		Expect(sel.Set(0, 0, 3)).To(Succeed())
		Expect(maturity.SubDimensionComplete(sel, 0, 0)).To(BeTrue())
		Expect(maturity.SubDimensionComplete(sel, 0, 1)).To(BeFalse())

		sel.Clear(0, 0)
		Expect(maturity.SubDimensionComplete(sel, 0, 0)).To(BeFalse())

		p, err := maturity.Progress(cat, sel, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Selected).To(Equal(0))
	})

	It("rejects a level above the sub-dimension's scale", func() {
		sel := fill(2)
		Expect(sel.Set(0, 1, 5)).To(Succeed())

		_, err := engine.Recompute(sel)
		Expect(err).To(MatchError(model.ErrInvalidSelection))
	})

	It("returns identical aggregates when recomputed twice", func() {
		sel := fill(2)
		Expect(sel.Set(1, 1, 4)).To(Succeed())

		first, err := engine.Recompute(sel)
		Expect(err).NotTo(HaveOccurred())
		second, err := engine.Recompute(sel)
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(Equal(first))
	})

	It("does not mutate the selection it scores", func() {
		sel := fill(2)
		before := sel.Clone()
		_, err := engine.Recompute(sel)
		Expect(err).NotTo(HaveOccurred())
		Expect(sel.Equal(before)).To(BeTrue())
	})

	It("keeps complete percentages within [0, 100] for every policy", func() {
		r := rand.New(rand.NewSource(7))
		policies := []maturity.Policy{maturity.Raw{}, maturity.Normalized{}, maturity.Floored{Policy: maturity.Normalized{}, Min: 20}}

		for i := 0; i < 200; i++ {
			sel := model.NewSelection()
			for d := 0; d < 2; d++ {
				for s := 0; s < 2; s++ {
					Expect(sel.Set(d, s, 1+r.Intn(4))).To(Succeed())
				}
			}
			for _, p := range policies {
				overall, err := maturity.Overall(cat, sel, p)
				Expect(err).NotTo(HaveOccurred())
				Expect(*overall.Percentage).To(BeNumerically(">=", 0), fmt.Sprintf("policy %s", p.Name()))
				Expect(*overall.Percentage).To(BeNumerically("<=", 100), fmt.Sprintf("policy %s", p.Name()))
			}
		}
	})

	It("weights sub-dimensions with different scales by their own maximum", func() {
		cat.Dimensions[0].SubDimensions[0].Levels = cat.Dimensions[0].SubDimensions[0].Levels[:2]
		sel := fill(2)

		progress, err := maturity.Progress(cat, sel, 0)
		Expect(err).NotTo(HaveOccurred())
		// (2 + 2) / (2 + 4)
		Expect(*progress.Percentage).To(BeNumerically("~", 400.0/6, 1e-9))
	})

	Describe("catalog validation", func() {
		It("refuses a dimension without sub-dimensions", func() {
			cat.Dimensions[1].SubDimensions = nil
			_, err := maturity.NewEngine(cat, nil)
			Expect(err).To(MatchError(model.ErrInvalidCatalog))
		})

		It("refuses a sub-dimension without levels", func() {
			cat.Dimensions[0].SubDimensions[1].Levels = nil
			_, err := maturity.NewEngine(cat, nil)
			Expect(err).To(MatchError(model.ErrInvalidCatalog))
		})

		It("fails the pure functions instead of dividing by zero", func() {
			cat.Dimensions[0].SubDimensions[1].Levels = nil
			_, err := maturity.Progress(cat, model.NewSelection(), 0)
			Expect(err).To(MatchError(model.ErrInvalidCatalog))
			_, err = maturity.Overall(cat, model.NewSelection(), nil)
			Expect(err).To(MatchError(model.ErrInvalidCatalog))
		})
	})

	DescribeTable("Band",
		func(pct float64, want int) {
			Expect(maturity.Band(pct)).To(Equal(want))
		},
		Entry("full", 100.0, 5),
		Entry("just above three quarters", 75.1, 4),
		Entry("exactly three quarters", 75.0, 3),
		Entry("above half", 50.5, 3),
		Entry("above a quarter", 30.0, 2),
		Entry("a quarter", 25.0, 1),
		Entry("zero", 0.0, 1),
	)
})

var _ = Describe("Policy", func() {
	It("normalizes the top of the scale to 100", func() {
		Expect(maturity.Normalized{}.Percentage(16, 4, 16)).To(BeNumerically("~", 100, 1e-9))
	})

	It("normalizes the midpoint of a 1..5 scale to 50", func() {
		// four sub-dimensions at level 3 of 5
		Expect(maturity.Normalized{}.Percentage(12, 4, 20)).To(BeNumerically("~", 50, 1e-9))
	})

	It("scores single-level catalogs as complete under normalization", func() {
		Expect(maturity.Normalized{}.Percentage(3, 3, 3)).To(Equal(100.0))
	})

	It("clamps to the configured floor", func() {
		p := maturity.Floored{Policy: maturity.Raw{}, Min: 30}
		Expect(p.Percentage(4, 4, 16)).To(Equal(30.0))
		Expect(p.Percentage(16, 4, 16)).To(BeNumerically("~", 100, 1e-9))
	})

	DescribeTable("PolicyByName",
		func(name string, floor float64, want string, wantErr bool) {
			p, err := maturity.PolicyByName(name, floor)
			if wantErr {
				Expect(err).To(HaveOccurred())
				return
			}
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Name()).To(Equal(want))
		},
		Entry("raw", "raw", 0.0, "raw", false),
		Entry("default", "", 0.0, "raw", false),
		Entry("normalized", "normalized", 0.0, "normalized", false),
		Entry("floored", "normalized", 20.0, "normalized+floor(20)", false),
		Entry("unknown", "median", 0.0, "", true),
		Entry("floor out of range", "raw", 120.0, "", true),
	)
})
