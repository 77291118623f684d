package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/hxtubes/hxreport/internal/domain/models"
	"github.com/hxtubes/hxreport/internal/domain/period"
	"github.com/hxtubes/hxreport/internal/server/handlers"
)

type stubService struct{}

func (stubService) Yesterday() models.Date { return models.NewDate(2026, time.January, 5) }

func (stubService) Period(ref models.Date) models.FiscalPeriod { return period.Of(ref) }

func (stubService) Dashboard(context.Context, models.Date, models.Filter) (models.Dashboard, error) {
	return models.Dashboard{}, nil
}

func (stubService) DailyReport(context.Context, models.Date, models.Filter) (models.DailyReport, error) {
	return models.DailyReport{}, nil
}

func TestRoutes(t *testing.T) {
	engine := New(handlers.NewReportHandler(stubService{}, nil), nil)

	cases := map[string]int{
		"/healthz":          http.StatusOK,
		"/api/period":       http.StatusOK,
		"/api/dashboard":    http.StatusOK,
		"/api/daily":        http.StatusOK,
		"/api/report/excel": http.StatusOK,
		"/api/unknown":      http.StatusNotFound,
	}

	for path, want := range cases {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code, path)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestWithCORS(t *testing.T) {
	engine := New(handlers.NewReportHandler(stubService{}, nil), nil)
	h := WithCORS(engine, []string{"http://dashboard.local"})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "http://dashboard.local", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, strings.ToLower(w.Header().Get("Access-Control-Expose-Headers")), "x-request-id")

	req = httptest.NewRequest(http.MethodOptions, "/api/daily", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", RequestIDHeader)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "http://dashboard.local", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, strings.ToLower(w.Header().Get("Access-Control-Allow-Headers")), "x-request-id")

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://elsewhere.local")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	engine := New(handlers.NewReportHandler(stubService{}, nil), nil)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
