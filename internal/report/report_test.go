package report_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"maturity.app/assessor/internal/maturity"
	"maturity.app/assessor/internal/model"
	"maturity.app/assessor/internal/report"
)

func testCatalog() *model.Catalog {
	return &model.Catalog{
		Stages: []model.Stage{{Level: 2, Name: "Improving"}},
		Dimensions: []model.Dimension{
			{Name: "Delivery", SubDimensions: []model.SubDimension{
				{Name: "Build", Levels: []model.LevelDescription{
					{Summary: "Manual builds"},
					{Summary: "CI on main", Detail: "Builds run on a shared server."},
					{Summary: "CI on every change | fast"},
				}},
				{Name: "Deploy", Levels: []model.LevelDescription{
					{Summary: "Manual releases"},
					{Summary: "Scripted releases"},
				}},
			}},
			{Name: "Operations", SubDimensions: []model.SubDimension{
				{Name: "Monitoring", Levels: []model.LevelDescription{
					{Summary: "Users report problems"},
					{Summary: "Host monitoring"},
				}},
			}},
		},
	}
}

func snapshotOf(cat *model.Catalog, set func(*model.Selection)) model.Snapshot {
	sel := model.NewSelection()
	set(&sel)
	data, err := model.EncodeSelection(cat, sel)
	Expect(err).NotTo(HaveOccurred())
	return model.Snapshot{ID: 42, Timestamp: "2024-06-01T12:00:00Z", State: string(data)}
}

var _ = Describe("Build", func() {
	var (
		cat    *model.Catalog
		engine *maturity.Engine
	)

	BeforeEach(func() {
		cat = testCatalog()
		var err error
		engine, err = maturity.NewEngine(cat, nil)
		Expect(err).NotTo(HaveOccurred())
	})

	It("emits current and next summaries for selected sub-dimensions only", func() {
		snap := snapshotOf(cat, func(s *model.Selection) {
			Expect(s.Set(0, 0, 2)).To(Succeed())
			Expect(s.Set(1, 0, 1)).To(Succeed())
		})

		rep, err := report.Build(engine, snap, report.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(rep.SnapshotID).To(Equal(int64(42)))
		Expect(rep.Rows).To(HaveLen(2))

		Expect(rep.Rows[0].Dimension).To(Equal("Delivery"))
		Expect(rep.Rows[0].SubDimension).To(Equal("Build"))
		Expect(rep.Rows[0].CurrentLevel).To(Equal(2))
		Expect(rep.Rows[0].CurrentSummary).To(Equal("CI on main"))
		Expect(rep.Rows[0].CurrentDetail).To(BeEmpty())
		Expect(*rep.Rows[0].NextLevel).To(Equal(3))
		Expect(rep.Rows[0].NextSummary).To(Equal("CI on every change | fast"))

		Expect(rep.Rows[1].SubDimension).To(Equal("Monitoring"))
		Expect(rep.Rows[1].NextSummary).To(Equal("Host monitoring"))
		Expect(rep.Overall.Complete()).To(BeFalse())
	})

	It("shows N/A as the next level at the top of the scale", func() {
		snap := snapshotOf(cat, func(s *model.Selection) {
			Expect(s.Set(0, 1, 2)).To(Succeed())
		})

		rep, err := report.Build(engine, snap, report.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(rep.Rows).To(HaveLen(1))
		Expect(rep.Rows[0].AtMax()).To(BeTrue())
		Expect(rep.Rows[0].NextSummary).To(Equal(report.NotApplicable))
		Expect(rep.Rows[0].NextLevelNumber()).To(Equal(0))
	})

	It("includes detail text on request", func() {
		snap := snapshotOf(cat, func(s *model.Selection) {
			Expect(s.Set(0, 0, 1)).To(Succeed())
		})

		rep, err := report.Build(engine, snap, report.Options{IncludeDetails: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(rep.Rows[0].NextDetail).To(Equal("Builds run on a shared server."))
	})

	It("rejects a snapshot whose state does not parse", func() {
		_, err := report.Build(engine, model.Snapshot{ID: 1, State: "nope"}, report.Options{})
		Expect(err).To(MatchError(model.ErrSerialization))
	})

	It("rejects a snapshot that no longer fits the catalog", func() {
		_, err := report.Build(engine, model.Snapshot{ID: 1, State: `{"selectedLevels":{"3":{"0":1}}}`}, report.Options{})
		Expect(err).To(MatchError(model.ErrInvalidSelection))
	})

	Describe("rendering", func() {
		var rep *report.Report

		BeforeEach(func() {
			snap := snapshotOf(cat, func(s *model.Selection) {
				Expect(s.Set(0, 0, 2)).To(Succeed())
				Expect(s.Set(0, 1, 2)).To(Succeed())
				Expect(s.Set(1, 0, 2)).To(Succeed())
			})
			var err error
			rep, err = report.Build(engine, snap, report.Options{IncludeDetails: true})
			Expect(err).NotTo(HaveOccurred())
		})

		It("renders a Markdown table with escaped cells", func() {
			md := rep.Markdown()
			Expect(md).To(ContainSubstring("| Dimension | Sub-dimension | Current | Next |"))
			Expect(md).To(ContainSubstring(`Level 3: CI on every change \| fast`))
			Expect(md).To(ContainSubstring("| Delivery | Deploy | Level 2: Scripted releases | N/A |"))
			Expect(md).To(ContainSubstring("**Overall level:** 2 (Improving)"))
			Expect(md).To(ContainSubstring("### Delivery / Build"))
		})

		It("renders an escaped HTML page", func() {
			page, err := rep.HTML()
			Expect(err).NotTo(HaveOccurred())
			html := string(page)
			Expect(html).To(ContainSubstring("<table>"))
			Expect(html).To(ContainSubstring("Level 3: CI on every change | fast"))
			Expect(html).To(ContainSubstring(`<td class="na">N/A</td>`))
			Expect(html).To(ContainSubstring("Snapshot 42"))
		})
	})
})
