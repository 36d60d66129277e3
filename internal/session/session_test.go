package session_test

import (
	"context"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"maturity.app/assessor/internal/catalog"
	"maturity.app/assessor/internal/maturity"
	"maturity.app/assessor/internal/model"
	"maturity.app/assessor/internal/service"
	"maturity.app/assessor/internal/session"
	"maturity.app/assessor/internal/store"
)

// flakyStore fails Append while failing is set.
type flakyStore struct {
	*store.MemoryStore
	failing bool
}

func (s *flakyStore) Append(ctx context.Context, snap model.NewSnapshot) (*model.Snapshot, error) {
	if s.failing {
		return nil, errors.New("connection reset")
	}
	return s.MemoryStore.Append(ctx, snap)
}

var _ = Describe("Session", func() {
	var (
		ctx       context.Context
		cat       *model.Catalog
		engine    *maturity.Engine
		backing   *flakyStore
		snapshots service.SnapshotService
		sess      *session.Session
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		cat, err = catalog.Default()
		Expect(err).NotTo(HaveOccurred())
		engine, err = maturity.NewEngine(cat, maturity.Raw{})
		Expect(err).NotTo(HaveOccurred())
		backing = &flakyStore{MemoryStore: store.NewMemoryStore()}
		snapshots = service.NewSnapshotService(engine, backing, nil)
		sess = session.New(engine, snapshots)
	})

	selectAll := func(level int) session.State {
		var st session.State
		for d, dim := range cat.Dimensions {
			for s := range dim.SubDimensions {
				var err error
				st, err = sess.Select(d, s, level)
				Expect(err).NotTo(HaveOccurred())
			}
		}
		return st
	}

	It("starts empty and incomplete", func() {
		st, err := sess.State()
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Selection.Len()).To(BeZero())
		Expect(st.Aggregates.Overall.Complete()).To(BeFalse())
		Expect(st.LoadedFrom).To(BeNil())
	})

	It("returns fresh aggregates after every change", func() {
		st, err := sess.Select(0, 0, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Aggregates.PerDimension[0].Selected).To(Equal(1))

		st, err = sess.Select(0, 1, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Aggregates.PerDimension[0].Complete()).To(BeTrue())
		Expect(*st.Aggregates.PerDimension[0].Percentage).To(BeNumerically("~", 100, 1e-9))

		st, err = sess.Clear(0, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Aggregates.PerDimension[0].Complete()).To(BeFalse())
	})

	It("rejects levels outside the sub-dimension's scale and keeps the state", func() {
		_, err := sess.Select(0, 0, 2)
		Expect(err).NotTo(HaveOccurred())

		_, err = sess.Select(0, 0, 5)
		Expect(err).To(MatchError(model.ErrInvalidSelection))
		_, err = sess.Select(0, 0, 0)
		Expect(err).To(MatchError(model.ErrInvalidSelection))
		_, err = sess.Select(9, 0, 1)
		Expect(err).To(MatchError(model.ErrInvalidSelection))

		st, err := sess.State()
		Expect(err).NotTo(HaveOccurred())
		lvl, ok := st.Selection.Get(0, 0)
		Expect(ok).To(BeTrue())
		Expect(lvl).To(Equal(2))
	})

	It("hands out copies that cannot change the session", func() {
		st, err := sess.Select(0, 0, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Selection.Set(0, 0, 4)).To(Succeed())

		again, err := sess.State()
		Expect(err).NotTo(HaveOccurred())
		lvl, _ := again.Selection.Get(0, 0)
		Expect(lvl).To(Equal(2))
	})

	It("starts fresh when loading from an empty history", func() {
		_, err := sess.Select(0, 0, 2)
		Expect(err).NotTo(HaveOccurred())

		st, err := sess.Load(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Selection.Len()).To(BeZero())
		Expect(st.LoadedFrom).To(BeNil())
	})

	It("loads the latest snapshot without aliasing it", func() {
		selectAll(3)
		rec, _, err := sess.Save(ctx)
		Expect(err).NotTo(HaveOccurred())

		_, err = sess.Reset()
		Expect(err).NotTo(HaveOccurred())

		st, err := sess.Load(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Selection.Len()).To(Equal(cat.SubDimensionCount()))
		Expect(*st.LoadedFrom).To(Equal(rec.ID))
		Expect(*st.Aggregates.Overall.Percentage).To(BeNumerically("~", 75, 1e-9))

		// editing after load leaves the stored snapshot alone
		_, err = sess.Select(0, 0, 1)
		Expect(err).NotTo(HaveOccurred())
		latest, err := snapshots.Latest(ctx)
		Expect(err).NotTo(HaveOccurred())
		stored, err := latest.Selection()
		Expect(err).NotTo(HaveOccurred())
		lvl, _ := stored.Get(0, 0)
		Expect(lvl).To(Equal(3))
	})

	It("keeps the state unchanged when saving fails", func() {
		before := selectAll(2)
		backing.failing = true

		_, _, err := sess.Save(ctx)
		Expect(err).To(MatchError(service.ErrPersistenceFailure))

		after, err := sess.State()
		Expect(err).NotTo(HaveOccurred())
		Expect(after.Selection.Equal(before.Selection)).To(BeTrue())
		Expect(after.LoadedFrom).To(BeNil())

		backing.failing = false
		rec, _, err := sess.Save(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.ID).To(BeNumerically(">", 0))
	})

	It("replaces the whole selection after validating it", func() {
		bad := model.NewSelection()
		Expect(bad.Set(0, 0, 7)).To(Succeed())
		_, err := sess.Replace(bad)
		Expect(err).To(MatchError(model.ErrInvalidSelection))

		good := model.NewSelection()
		Expect(good.Set(1, 2, 3)).To(Succeed())
		st, err := sess.Replace(good)
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Selection.Equal(good)).To(BeTrue())
	})

	It("serializes concurrent mutations", func() {
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer GinkgoRecover()
				defer wg.Done()
				_, err := sess.Select(1, i%3, 1+i%4)
				Expect(err).NotTo(HaveOccurred())
			}(i)
		}
		wg.Wait()

		st, err := sess.State()
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Aggregates.PerDimension[1].Selected).To(Equal(3))
	})
})
