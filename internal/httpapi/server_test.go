package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/cohort"
	"github.com/hupe1980/cohort/testutil"
)

func newTestServer(t *testing.T, cfg Config) (*Server, *prometheus.Registry) {
	t.Helper()

	reg := prometheus.NewRegistry()
	a := cohort.New(cohort.WithMetricsCollector(NewPrometheusCollector(reg)))
	return New(a, reg, nil, cfg), reg
}

func clusterBody(t *testing.T, req cohort.Request) *bytes.Reader {
	t.Helper()

	data, err := json.Marshal(req)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.JSONEq(t, `{"status":"ok","service":"K-Means Clustering"}`, rec.Body.String())
}

func TestCluster(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	body := clusterBody(t, cohort.Request{
		Students: testutil.Scored([]float64{90, 85, 88, 20, 15, 25}),
		Category: "all",
		Clusters: 2,
	})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cluster", body))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var res cohort.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Len(t, res.Assignments, 6)
	assert.Equal(t, "High Achievers", res.Assignments[0].Label)
	assert.Greater(t, res.Report.SilhouetteScore, 0.5)
}

func TestCluster_RawJSON(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	body := `{"students":[{"user_id":"1","math_score":"95"},{"user_id":2,"math_score":12},{"user_id":3,"math_score":"n/a"}],"category":"math","clusters":2}`

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cluster", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var res cohort.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Assignments[0].UserID)
	assert.Equal(t, 95.0, res.Assignments[0].Score)
	assert.Equal(t, 0.0, res.Assignments[2].Score)
}

func TestCluster_InsufficientData(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	body := clusterBody(t, cohort.Request{Students: testutil.Scored([]float64{10}), Clusters: 3})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cluster", body))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"need at least 3 students, got 1"}`, rec.Body.String())
}

func TestCluster_ExtremeScores(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	body := `{"students":[
		{"user_id":1,"literacy_score":1e307,"math_score":1e307},
		{"user_id":2,"literacy_score":55,"math_score":60},
		{"user_id":3,"literacy_score":40,"math_score":42}
	],"clusters":2}`

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cluster", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Body.String())

	var res cohort.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, 1e307, res.Assignments[0].Score)
	assert.Len(t, res.Report.Clusters, 2)
}

func TestWriteJSON_Unencodable(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	rec := httptest.NewRecorder()
	s.writeJSON(rec, http.StatusOK, map[string]float64{"score": math.NaN()})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "encoding response")
}

func TestCluster_BadJSON(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cluster", strings.NewReader("{")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid request body")
}

func TestCluster_BodyTooLarge(t *testing.T) {
	s, _ := newTestServer(t, Config{MaxBodyBytes: 16})

	body := clusterBody(t, cohort.Request{Students: testutil.Scored([]float64{10, 20, 30}), Clusters: 2})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cluster", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCluster_MethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cluster", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPreflight(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/cluster", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestCluster_Gzip(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	body := clusterBody(t, cohort.Request{
		Students: testutil.NewRNG(1).Students(200, testutil.Band{Mean: 80, Spread: 10}, testutil.Band{Mean: 30, Spread: 10}),
		Clusters: 2,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/cluster", body)
	req.Header.Set("Accept-Encoding", "gzip")

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)

	var res cohort.Result
	require.NoError(t, json.NewDecoder(zr).Decode(&res))
	assert.Len(t, res.Assignments, 200)
}

func TestRateLimit(t *testing.T) {
	s, _ := newTestServer(t, Config{RateLimit: 0.001, Burst: 2})

	codes := make([]int, 3)
	for i := range codes {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		codes[i] = rec.Code
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimit_CORSHeaders(t *testing.T) {
	s, _ := newTestServer(t, Config{RateLimit: 0.001, Burst: 1})

	var rec *httptest.ResponseRecorder
	for range 2 {
		rec = httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	}

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	body := clusterBody(t, cohort.Request{Students: testutil.Scored([]float64{10, 90}), Clusters: 2})
	s.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/cluster", body))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `cohort_analyze_total{status="ok"} 1`)
	assert.Contains(t, rec.Body.String(), "cohort_kmeans_iterations")
}

func TestMetricsEndpoint_Disabled(t *testing.T) {
	s := New(cohort.New(), nil, nil, Config{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServe_Shutdown(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get(fmt.Sprintf("http://%s/api/health", ln.Addr()))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
