package trend_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"maturity.app/assessor/internal/catalog"
	"maturity.app/assessor/internal/maturity"
	"maturity.app/assessor/internal/model"
	"maturity.app/assessor/internal/store"
	"maturity.app/assessor/internal/trend"
)

func uniform(cat *model.Catalog, level int) string {
	sel := model.NewSelection()
	for d, dim := range cat.Dimensions {
		for s := range dim.SubDimensions {
			Expect(sel.Set(d, s, level)).To(Succeed())
		}
	}
	data, err := model.EncodeSelection(cat, sel)
	Expect(err).NotTo(HaveOccurred())
	return string(data)
}

var _ = Describe("Render", func() {
	var (
		ctx    context.Context
		cat    *model.Catalog
		engine *maturity.Engine
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		cat, err = catalog.Default()
		Expect(err).NotTo(HaveOccurred())
		engine, err = maturity.NewEngine(cat, maturity.Raw{})
		Expect(err).NotTo(HaveOccurred())
	})

	It("orders points by timestamp even when keys disagree with the clock", func() {
		now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }
		s := store.NewMemoryStore(store.WithClock(clock))

		// inserted as t+2h, t, t+1h
		now = time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)
		_, err := s.Append(ctx, model.NewSnapshot{State: uniform(cat, 4)})
		Expect(err).NotTo(HaveOccurred())
		now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		_, err = s.Append(ctx, model.NewSnapshot{State: uniform(cat, 1)})
		Expect(err).NotTo(HaveOccurred())
		now = time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC)
		_, err = s.Append(ctx, model.NewSnapshot{State: uniform(cat, 2)})
		Expect(err).NotTo(HaveOccurred())

		snaps, err := s.List(ctx)
		Expect(err).NotTo(HaveOccurred())

		series := trend.Render(ctx, engine, snaps)
		Expect(series.Skipped).To(BeEmpty())
		Expect(series.Points).To(HaveLen(3))

		var stamps []string
		var pcts []float64
		for _, p := range series.Points {
			stamps = append(stamps, p.Timestamp)
			pcts = append(pcts, p.Percentage)
		}
		Expect(stamps).To(Equal([]string{
			"2024-06-01T12:00:00Z",
			"2024-06-01T13:00:00Z",
			"2024-06-01T14:00:00Z",
		}))
		Expect(pcts[0]).To(BeNumerically("~", 25, 1e-9))
		Expect(pcts[1]).To(BeNumerically("~", 50, 1e-9))
		Expect(pcts[2]).To(BeNumerically("~", 100, 1e-9))
	})

	It("breaks timestamp ties by key", func() {
		ts := "2024-06-01T12:00:00Z"
		series := trend.Render(ctx, engine, []model.Snapshot{
			{ID: 9, Timestamp: ts, State: uniform(cat, 2)},
			{ID: 3, Timestamp: ts, State: uniform(cat, 3)},
		})
		Expect(series.Points).To(HaveLen(2))
		Expect(series.Points[0].SnapshotID).To(Equal(int64(3)))
		Expect(series.Points[1].SnapshotID).To(Equal(int64(9)))
	})

	It("skips bad records one by one and keeps the rest", func() {
		stale := 12.5
		series := trend.Render(ctx, engine, []model.Snapshot{
			{ID: 1, Timestamp: "2024-06-01T10:00:00Z", State: uniform(cat, 3), DerivedScore: &stale},
			{ID: 2, Timestamp: "2024-06-01T11:00:00Z", State: "{not json"},
			{ID: 3, Timestamp: "yesterday", State: uniform(cat, 3)},
			{ID: 4, Timestamp: "2024-06-01T12:00:00Z", State: `{"selectedLevels":{"0":{"0":9}}}`},
			{ID: 5, Timestamp: "2024-06-01T13:00:00Z", State: `{"selectedLevels":{"0":{"0":2,"1":""}}}`},
			{ID: 6, Timestamp: "2024-06-01T14:00:00Z", State: uniform(cat, 4)},
		})

		Expect(series.Points).To(HaveLen(2))
		Expect(series.Points[0].SnapshotID).To(Equal(int64(1)))
		// recomputed, the stored score is carried for audit only
		Expect(series.Points[0].Percentage).To(BeNumerically("~", 75, 1e-9))
		Expect(*series.Points[0].StoredScore).To(Equal(12.5))
		Expect(series.Points[1].SnapshotID).To(Equal(int64(6)))

		reasons := map[int64]trend.SkipReason{}
		for _, s := range series.Skipped {
			reasons[s.SnapshotID] = s.Reason
		}
		Expect(reasons).To(Equal(map[int64]trend.SkipReason{
			2: trend.SkipUnparseable,
			3: trend.SkipUnparseable,
			4: trend.SkipInvalid,
			5: trend.SkipIncomplete,
		}))
	})

	It("follows the engine's policy", func() {
		normalized, err := maturity.NewEngine(cat, maturity.Normalized{})
		Expect(err).NotTo(HaveOccurred())

		series := trend.Render(ctx, normalized, []model.Snapshot{
			{ID: 1, Timestamp: "2024-06-01T10:00:00Z", State: uniform(cat, 4)},
		})
		Expect(series.Policy).To(Equal(maturity.PolicyNormalized))
		Expect(series.Points[0].Percentage).To(BeNumerically("~", 100, 1e-9))
	})

	It("returns empty slices for an empty history", func() {
		series := trend.Render(ctx, engine, nil)
		Expect(series.Points).NotTo(BeNil())
		Expect(series.Points).To(BeEmpty())
		Expect(series.Skipped).NotTo(BeNil())
	})
})
