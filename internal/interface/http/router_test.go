package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/finsight/coverage-console/internal/domain/coverage"
	"github.com/finsight/coverage-console/internal/infra/config"
	apperrors "github.com/finsight/coverage-console/pkg/errors"
)

type stubCoverageService struct {
	overview     coverage.Overview
	actions      []coverage.Action
	runErr       error
	refreshes    int
	configures   []coverage.Query
	configureRet bool
	ranTasks     []string
}

func (s *stubCoverageService) Start(context.Context)   {}
func (s *stubCoverageService) Refresh(context.Context) { s.refreshes++ }

func (s *stubCoverageService) Configure(_ context.Context, q coverage.Query) bool {
	s.configures = append(s.configures, q)
	return s.configureRet
}

func (s *stubCoverageService) Overview(context.Context) coverage.Overview { return s.overview }
func (s *stubCoverageService) Actions() []coverage.Action                 { return s.actions }

func (s *stubCoverageService) RunAction(_ context.Context, taskName string) error {
	if s.runErr != nil {
		return s.runErr
	}
	s.ranTasks = append(s.ranTasks, taskName)
	return nil
}

func newRouterUnderTest(t *testing.T, svc coverage.Service) http.Handler {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.HTTP.RateLimit.Enabled = false

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(cfg, NewHandler(svc, logger)).Handler
}

func performRequest(method, path string, router http.Handler) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeErrorBody(t *testing.T, body []byte) map[string]map[string]string {
	t.Helper()
	var decoded map[string]map[string]string
	require.NoError(t, json.Unmarshal(body, &decoded))
	return decoded
}

func TestRouter_Overview(t *testing.T) {
	svc := &stubCoverageService{overview: coverage.Overview{
		State:       "ready",
		HasSnapshot: true,
		Hero:        coverage.HeroMeta{StatusLabel: "OK", StatusColor: "green"},
	}}

	recorder := performRequest(http.MethodGet, "/api/v1/coverage/overview", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got coverage.Overview
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.True(t, got.HasSnapshot)
	require.Equal(t, "OK", got.Hero.StatusLabel)
	require.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
}

func TestRouter_RefreshWithoutParams(t *testing.T) {
	svc := &stubCoverageService{}

	recorder := performRequest(http.MethodPost, "/api/v1/coverage/refresh", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, 1, svc.refreshes)
	require.Empty(t, svc.configures)
}

func TestRouter_RefreshWithFillParams(t *testing.T) {
	svc := &stubCoverageService{configureRet: true}

	recorder := performRequest(http.MethodPost, "/api/v1/coverage/refresh?fill_trading_days_window=30&fill_lookback_days=365", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Len(t, svc.configures, 1)
	require.Equal(t, 30, *svc.configures[0].FillTradingDaysWindow)
	require.Equal(t, 365, *svc.configures[0].FillLookbackDays)
	// Configure already refreshed, no second fetch.
	require.Zero(t, svc.refreshes)
}

func TestRouter_RefreshWithUnchangedParamsStillRefreshes(t *testing.T) {
	svc := &stubCoverageService{configureRet: false}

	recorder := performRequest(http.MethodPost, "/api/v1/coverage/refresh?fill_trading_days_window=30", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Len(t, svc.configures, 1)
	require.Equal(t, 1, svc.refreshes)
}

func TestRouter_RefreshInvalidParam(t *testing.T) {
	svc := &stubCoverageService{}

	recorder := performRequest(http.MethodPost, "/api/v1/coverage/refresh?fill_trading_days_window=abc", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
	require.Zero(t, svc.refreshes)
}

func TestRouter_Actions(t *testing.T) {
	svc := &stubCoverageService{actions: []coverage.Action{
		{Label: "Record Daily History", TaskName: "record_daily_history"},
	}}

	recorder := performRequest(http.MethodGet, "/api/v1/coverage/actions", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got map[string][]coverage.Action
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Len(t, got["actions"], 1)
	require.Equal(t, "record_daily_history", got["actions"][0].TaskName)
}

func TestRouter_RunAction(t *testing.T) {
	svc := &stubCoverageService{}

	recorder := performRequest(http.MethodPost, "/api/v1/coverage/actions/recompute_indicators", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusAccepted, recorder.Code)
	require.Equal(t, []string{"recompute_indicators"}, svc.ranTasks)
}

func TestRouter_RunActionUnknownTask(t *testing.T) {
	svc := &stubCoverageService{runErr: apperrors.Wrap("invalid_input", "unknown task nope", nil)}

	recorder := performRequest(http.MethodPost, "/api/v1/coverage/actions/nope", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
	require.Contains(t, errBody["error"]["message"], "unknown task")
}

func TestRouter_RunActionUpstreamFailure(t *testing.T) {
	svc := &stubCoverageService{runErr: apperrors.Wrap("upstream_error", "task failed", nil)}

	recorder := performRequest(http.MethodPost, "/api/v1/coverage/actions/recompute_indicators", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusBadGateway, recorder.Code)
}

func TestRouter_Healthz(t *testing.T) {
	recorder := performRequest(http.MethodGet, "/healthz", newRouterUnderTest(t, &stubCoverageService{}))
	require.Equal(t, http.StatusOK, recorder.Code)
}
