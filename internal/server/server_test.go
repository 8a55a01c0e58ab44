package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yashubustudio/sleepsurvey/internal/testhelper"
	"yashubustudio/sleepsurvey/survey"
)

type stubSource struct {
	data      []byte
	err       error
	loads     atomic.Int32
	refreshes atomic.Int32
}

func (s *stubSource) table() (*survey.Table, error) {
	if s.err != nil {
		return nil, s.err
	}
	return survey.ReadCSV(bytes.NewReader(s.data), ',')
}

func (s *stubSource) Load(ctx context.Context) (*survey.Table, error) {
	s.loads.Add(1)
	return s.table()
}

func (s *stubSource) Refresh(ctx context.Context) (*survey.Table, error) {
	s.refreshes.Add(1)
	return s.table()
}

func newTestServer(t *testing.T, src Source, config *Config) *httptest.Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	svc, err := survey.NewService(survey.Config{},
		survey.WithMetrics(survey.NewMetricsWithRegistry(reg)),
		survey.WithLogger(testhelper.Logger(t)))
	require.NoError(t, err)

	s, err := New(config, svc, src, WithGatherer(reg), WithLogger(testhelper.Logger(t)))
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestNewValidatesDependencies(t *testing.T) {
	svc, err := survey.NewService(survey.Config{})
	require.NoError(t, err)

	_, err = New(nil, nil, &stubSource{})
	assert.Error(t, err)
	_, err = New(nil, svc, nil)
	assert.Error(t, err)

	s, err := New(nil, svc, &stubSource{})
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", s.GetAddr())
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(survey.ServerConfig{Host: "0.0.0.0", Port: 9000, DisableCORS: true})
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 9000, cfg.Port)
	assert.False(t, cfg.EnableCORS)
	assert.True(t, cfg.EnableMetrics)
	assert.Equal(t, DefaultConfig().ShutdownTimeout, cfg.ShutdownTimeout)
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t, &stubSource{data: testhelper.SampleCSV(t)}, nil)

	var body map[string]any
	resp := getJSON(t, ts.URL+"/health", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "academic", body["durationConvention"])
}

func TestListResponses(t *testing.T) {
	src := &stubSource{data: testhelper.SampleCSV(t)}
	ts := newTestServer(t, src, nil)

	var body struct {
		Count      int              `json:"count"`
		Columns    []string         `json:"columns"`
		Rows       []map[string]any `json:"rows"`
		Convention string           `json:"durationConvention"`
	}
	resp := getJSON(t, ts.URL+"/api/v1/responses", &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	assert.Equal(t, 3, body.Count)
	assert.Equal(t, "academic", body.Convention)
	assert.Contains(t, body.Columns, string(survey.FieldSleepHours))
	assert.Contains(t, body.Columns, survey.ColInsomniaSeverityIndex)
	require.Len(t, body.Rows, 3)
	assert.Equal(t, 3.5, body.Rows[0][survey.ColSleepHoursEst])
	assert.Equal(t, "Severe", body.Rows[0][survey.ColISICategory])
	assert.Equal(t, 0.0, body.Rows[1][survey.ColInsomniaSeverityIndex])
	assert.Equal(t, int32(1), src.loads.Load())
}

func TestListResponsesFiltersFaculty(t *testing.T) {
	ts := newTestServer(t, &stubSource{data: testhelper.SampleCSV(t)}, nil)

	var body ResponsesPayload
	getJSON(t, ts.URL+"/api/v1/responses?faculty=engineering", &body)
	assert.Equal(t, 2, body.Count)
	for _, row := range body.Rows {
		assert.Equal(t, "Engineering", row[string(survey.FieldFaculty)].String())
	}

	getJSON(t, ts.URL+"/api/v1/responses?faculty=Law", &body)
	assert.Equal(t, 0, body.Count)
	assert.NotNil(t, body.Rows)
}

func TestGetSummary(t *testing.T) {
	ts := newTestServer(t, &stubSource{data: testhelper.SampleCSV(t)}, nil)

	var summary survey.Summary
	resp := getJSON(t, ts.URL+"/api/v1/summary", &summary)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, summary.TotalResponses)
	assert.Equal(t, 2, summary.Faculties)
	require.NotNil(t, summary.AverageSleepHours)
	assert.InDelta(t, 5.83, *summary.AverageSleepHours, 1e-9)
	assert.Equal(t, 1, summary.Lifestyle[survey.FieldDeviceUsage].Count)

	getJSON(t, ts.URL+"/api/v1/summary?faculty=Science", &summary)
	assert.Equal(t, 1, summary.TotalResponses)
}

func TestGetOutcomes(t *testing.T) {
	ts := newTestServer(t, &stubSource{data: []byte("SleepHours,Faculty\n7-8 hours,Arts\nnot sure,Law\n")}, nil)

	var body struct {
		Outcomes []survey.DerivedOutcome `json:"outcomes"`
	}
	resp := getJSON(t, ts.URL+"/api/v1/outcomes", &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	byColumn := map[string]survey.DerivedOutcome{}
	for _, o := range body.Outcomes {
		byColumn[o.Column] = o
	}
	est := byColumn[survey.ColSleepHoursEst]
	assert.True(t, est.Computed())
	assert.Equal(t, 1, est.Unknown)

	isi := byColumn[survey.ColInsomniaSeverityIndex]
	assert.Equal(t, survey.StatusAbsent, isi.Status)
	assert.ElementsMatch(t, []survey.CanonicalField{
		survey.FieldDifficultyFallingAsleep, survey.FieldNightWakeups, survey.FieldSleepQuality,
	}, isi.Missing)
}

func TestRefresh(t *testing.T) {
	src := &stubSource{data: testhelper.SampleCSV(t)}
	ts := newTestServer(t, src, nil)

	resp, err := http.Post(ts.URL+"/api/v1/refresh", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "refreshed", body["status"])
	assert.Equal(t, 3.0, body["rows"])
	assert.Equal(t, int32(1), src.refreshes.Load())
	assert.Equal(t, int32(0), src.loads.Load())

	get, err := http.Get(ts.URL + "/api/v1/refresh")
	require.NoError(t, err)
	get.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, get.StatusCode)
}

func TestSourceFailureIsBadGateway(t *testing.T) {
	ts := newTestServer(t, &stubSource{err: errors.New("sheet unavailable")}, nil)

	var body map[string]string
	resp := getJSON(t, ts.URL+"/api/v1/responses", &body)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "sheet unavailable", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, &stubSource{data: testhelper.SampleCSV(t)}, nil)
	getJSON(t, ts.URL+"/api/v1/responses", nil).Body.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sleepsurvey_enrich_runs_total 1")
	assert.Contains(t, string(data), "sleepsurvey_rows_processed_total 3")
}

func TestDisabledFeatures(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableMetrics = false
	cfg.EnableCORS = false
	ts := newTestServer(t, &stubSource{data: testhelper.SampleCSV(t)}, cfg)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestPreflight(t *testing.T) {
	ts := newTestServer(t, &stubSource{data: testhelper.SampleCSV(t)}, nil)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/v1/refresh", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(resp.Header.Get("Access-Control-Allow-Methods"), "POST"))
}

func TestStartAndStop(t *testing.T) {
	svc, err := survey.NewService(survey.Config{})
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.Port = 0
	cfg.EnableMetrics = false
	s, err := New(cfg, svc, &stubSource{data: testhelper.SampleCSV(t)})
	require.NoError(t, err)

	require.NoError(t, s.Start())
	addr := s.GetAddr()
	assert.NotEqual(t, "localhost:0", addr)

	resp, err := http.Get("http://" + addr + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}
