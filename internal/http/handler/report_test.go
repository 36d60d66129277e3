package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"maturity.app/assessor/internal/http/handler"
	"maturity.app/assessor/internal/model"
	"maturity.app/assessor/internal/report"
	"maturity.app/assessor/internal/store"
	"maturity.app/assessor/internal/trend"
)

var _ = Describe("ReportHandler", func() {
	var (
		router  *gin.Engine
		reports *mockReportService
		opts    report.Options
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		next := 3
		reports = &mockReportService{
			latestFn: func(_ context.Context, o report.Options) (*report.Report, error) {
				opts = o
				return &report.Report{
					SnapshotID: 11,
					Timestamp:  "2024-06-01T00:00:00Z",
					Rows: []report.Row{
						{Dimension: "Delivery", SubDimension: "CI | CD", CurrentLevel: 2, CurrentSummary: "Scripted", NextLevel: &next, NextSummary: "Automated"},
						{Dimension: "Delivery", SubDimension: "Releases", CurrentLevel: 4, CurrentSummary: "Continuous", NextSummary: report.NotApplicable},
					},
				}, nil
			},
		}
		router.GET("/report", handler.NewReportHandler(reports).Get)
	})

	It("returns json by default", func() {
		req := httptest.NewRequest(http.MethodGet, "/report", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["rows"]).To(HaveLen(2))
		Expect(opts.IncludeDetails).To(BeFalse())
	})

	It("renders markdown with escaped cells", func() {
		req := httptest.NewRequest(http.MethodGet, "/report?format=markdown&details=true", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(HavePrefix("text/markdown"))
		Expect(w.Body.String()).To(ContainSubstring(`CI \| CD`))
		Expect(w.Body.String()).To(ContainSubstring("| N/A |"))
		Expect(opts.IncludeDetails).To(BeTrue())
	})

	It("renders html", func() {
		req := httptest.NewRequest(http.MethodGet, "/report?format=html", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(HavePrefix("text/html"))
		Expect(w.Body.String()).To(ContainSubstring("Level 3: Automated"))
		Expect(w.Body.String()).To(ContainSubstring(`<td class="na">N/A</td>`))
	})

	It("rejects an unknown format", func() {
		req := httptest.NewRequest(http.MethodGet, "/report?format=pdf", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 404 without snapshots", func() {
		reports.latestFn = func(context.Context, report.Options) (*report.Report, error) {
			return nil, store.ErrNotFound
		}
		req := httptest.NewRequest(http.MethodGet, "/report", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("returns 500 when the latest snapshot no longer decodes", func() {
		reports.latestFn = func(context.Context, report.Options) (*report.Report, error) {
			_, err := model.Snapshot{ID: 8, State: `{"selectedLevels":{"0":{"0":true}}}`}.Selection()
			return nil, err
		}
		req := httptest.NewRequest(http.MethodGet, "/report", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(w.Body.String()).To(ContainSubstring("stored snapshot unreadable"))
	})
})

var _ = Describe("TrendHandler", func() {
	It("returns the series with empty slices rather than null", func() {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		svc := &mockTrendService{
			seriesFn: func(context.Context) (trend.Series, error) {
				return trend.Series{Policy: "raw", Points: []trend.Point{}, Skipped: []trend.Skipped{}}, nil
			},
		}
		router.GET("/trend", handler.NewTrendHandler(svc).Get)

		req := httptest.NewRequest(http.MethodGet, "/trend", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"policy":"raw","points":[],"skipped":[]}`))
	})
})
