package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"maturity.app/assessor/internal/http/handler"
	"maturity.app/assessor/internal/model"
	"maturity.app/assessor/internal/store"
)

var _ = Describe("LegacyHandler", func() {
	var (
		router *gin.Engine
		svc    *mockSnapshotService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockSnapshotService{}
		h := handler.NewLegacyHandler(svc)
		router.POST("/save-state", h.SaveState)
		router.GET("/load-state", h.LoadState)
		router.GET("/state-files", h.StateFiles)
		router.POST("/reset-state", h.ResetState)
	})

	DescribeTable("save-state accepts the state in both encodings",
		func(body string) {
			var saved model.Selection
			svc.saveFn = func(_ context.Context, sel model.Selection) (*model.Snapshot, error) {
				saved = sel
				return &model.Snapshot{ID: 7}, nil
			}

			req := httptest.NewRequest(http.MethodPost, "/save-state", bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["message"]).To(Equal("State saved successfully"))
			Expect(resp["id"]).To(Equal("7"))

			lvl, ok := saved.Get(0, 0)
			Expect(ok).To(BeTrue())
			Expect(lvl).To(Equal(2))
			_, ok = saved.Get(0, 1)
			Expect(ok).To(BeFalse())
		},
		Entry("string", `{"filename":"state.json","state":"{\"selectedLevels\":{\"0\":{\"0\":2,\"1\":\"\"}}}"}`),
		Entry("object", `{"state":{"selectedLevels":{"0":{"0":"2","1":""}}}}`),
	)

	It("rejects a body without state", func() {
		req := httptest.NewRequest(http.MethodPost, "/save-state", bytes.NewBufferString(`{"filename":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns the raw latest state", func() {
		state := `{"selectedLevels":{"0":{"0":3,"1":""}}}`
		svc.latestFn = func(context.Context) (*model.Snapshot, error) {
			return &model.Snapshot{ID: 4, State: state}, nil
		}
		req := httptest.NewRequest(http.MethodGet, "/load-state", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(state))
	})

	It("returns 404 when nothing was saved", func() {
		svc.latestFn = func(context.Context) (*model.Snapshot, error) {
			return nil, store.ErrNotFound
		}
		req := httptest.NewRequest(http.MethodGet, "/load-state", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("returns 500 when the latest state is not json", func() {
		svc.latestFn = func(context.Context) (*model.Snapshot, error) {
			return &model.Snapshot{ID: 4, State: "{broken"}, nil
		}
		req := httptest.NewRequest(http.MethodGet, "/load-state", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
	})

	It("lists stored rows with string ids that keep snowflake precision", func() {
		svc.listFn = func(context.Context) ([]model.Snapshot, error) {
			return []model.Snapshot{{ID: 1234567890123456789, Timestamp: "t2", State: "{}"}, {ID: 1, Timestamp: "t1", State: "{}"}}, nil
		}
		req := httptest.NewRequest(http.MethodGet, "/state-files", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`[{"id":"1234567890123456789","timestamp":"t2","state":"{}"},{"id":"1","timestamp":"t1","state":"{}"}]`))
	})

	It("resets the store", func() {
		cleared := false
		svc.clearFn = func(context.Context) error {
			cleared = true
			return nil
		}
		req := httptest.NewRequest(http.MethodPost, "/reset-state", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(cleared).To(BeTrue())
		Expect(w.Body.String()).To(MatchJSON(`{"message":"State reset successfully"}`))
	})
})
