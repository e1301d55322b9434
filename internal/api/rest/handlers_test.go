package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/meridiangrc/governance-backend/internal/domain/errors"
	"github.com/meridiangrc/governance-backend/internal/domain/governance"
	"github.com/meridiangrc/governance-backend/internal/service/trends"
	"github.com/meridiangrc/governance-backend/internal/testutil/fixtures"
)

type MockTrendService struct {
	mock.Mock
}

func (m *MockTrendService) GetTrend(ctx context.Context, rangeDays int) (*trends.TrendResponse, error) {
	args := m.Called(ctx, rangeDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trends.TrendResponse), args.Error(1)
}

func (m *MockTrendService) CurrentSummary(ctx context.Context) (governance.SummaryMetrics, error) {
	args := m.Called(ctx)
	return args.Get(0).(governance.SummaryMetrics), args.Error(1)
}

type mockPinger struct {
	err error
}

func (p mockPinger) Ping(context.Context) error { return p.err }

func trendFixture() *trends.TrendResponse {
	day1 := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	history := []*governance.Snapshot{
		{Date: day1, ComplianceRate: 60, OpenFindings: 4},
		{Date: day2, ComplianceRate: 65, OpenFindings: 3},
	}
	return &trends.TrendResponse{
		History: history,
		Forecast: []trends.ForecastPoint{
			{Date: day2.AddDate(0, 0, 1), ProjectedComplianceRate: 70, ProjectedOpenFindings: 2},
		},
		LatestSnapshot: history[1],
		LastUpdatedAt:  day2,
	}
}

func newTestHandler(svc TrendService) *Handler {
	return NewHandler(svc, nil)
}

func doRequest(h *Handler, method, target string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandleGetTrends(t *testing.T) {
	svc := new(MockTrendService)
	svc.On("GetTrend", mock.Anything, 30).Return(trendFixture(), nil)

	rec := doRequest(newTestHandler(svc), http.MethodGet, "/api/v1/dashboard/trends?range_days=30")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body TrendAPIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.History, 2)
	assert.Equal(t, "2025-12-01", body.History[0].Date)
	assert.Equal(t, 60.0, body.History[0].ComplianceRate)
	require.Len(t, body.Forecast, 1)
	assert.Equal(t, "2025-12-03", body.Forecast[0].Date)
	assert.Equal(t, "2025-12-02", body.LatestSnapshot.Date)
	assert.Equal(t, "2025-12-02T00:00:00Z", body.LastUpdatedAt)

	svc.AssertExpectations(t)
}

func TestHandleGetTrends_DefaultRange(t *testing.T) {
	svc := new(MockTrendService)
	svc.On("GetTrend", mock.Anything, 30).Return(trendFixture(), nil)

	rec := doRequest(newTestHandler(svc), http.MethodGet, "/api/v1/dashboard/trends")

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandleGetTrends_InvalidRange(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{name: "not a number", target: "/api/v1/dashboard/trends?range_days=abc"},
		{name: "zero", target: "/api/v1/dashboard/trends?range_days=0"},
		{name: "negative", target: "/api/v1/dashboard/trends?range_days=-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockTrendService)

			rec := doRequest(newTestHandler(svc), http.MethodGet, tt.target)

			require.Equal(t, http.StatusBadRequest, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "INVALID_RANGE_DAYS", body.Error.Code)
			svc.AssertNotCalled(t, "GetTrend", mock.Anything, mock.Anything)
		})
	}
}

func TestHandleGetTrends_UpstreamFailure(t *testing.T) {
	svc := new(MockTrendService)
	svc.On("GetTrend", mock.Anything, 30).Return(nil,
		apperrors.NewExternalError("governance summary", "failed to compute current metrics"))

	rec := doRequest(newTestHandler(svc), http.MethodGet, "/api/v1/dashboard/trends")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleGetTrends_InternalFailureHidesDetails(t *testing.T) {
	svc := new(MockTrendService)
	svc.On("GetTrend", mock.Anything, 30).Return(nil,
		apperrors.NewInternalError("failed to load snapshot range").WithCause(errors.New("pq: connection refused")))

	rec := doRequest(newTestHandler(svc), http.MethodGet, "/api/v1/dashboard/trends")

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.NotContains(t, body.Error.Message, "connection refused")
}

func TestHandleGetSummary(t *testing.T) {
	svc := new(MockTrendService)
	svc.On("CurrentSummary", mock.Anything).Return(
		fixtures.NewSummaryMetricsBuilder(t).
			WithControls(9, 12).
			WithFindings(2, 0, 5).
			Build(), nil)

	rec := doRequest(newTestHandler(svc), http.MethodGet, "/api/v1/dashboard/summary")

	require.Equal(t, http.StatusOK, rec.Code)

	var body governance.SummaryMetrics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 12, body.TotalControls)
	assert.Equal(t, 9, body.ImplementedControls)
}

func TestHandleHealthz(t *testing.T) {
	rec := doRequest(newTestHandler(new(MockTrendService)), http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleReadyz(t *testing.T) {
	tests := []struct {
		name     string
		dbErr    error
		wantCode int
	}{
		{name: "all healthy", dbErr: nil, wantCode: http.StatusOK},
		{name: "database down", dbErr: errors.New("dial tcp: refused"), wantCode: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(new(MockTrendService)).
				WithReadinessCheck("database", mockPinger{err: tt.dbErr}).
				WithReadinessCheck("redis", mockPinger{})

			rec := doRequest(h, http.MethodGet, "/readyz")

			require.Equal(t, tt.wantCode, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "ok", body["redis"])
		})
	}
}
