package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-screener/internal/analysis"
	"github.com/jonathan/resume-screener/internal/fetch"
	"github.com/jonathan/resume-screener/internal/metrics"
	"github.com/jonathan/resume-screener/internal/server/ratelimit"
	"github.com/jonathan/resume-screener/internal/types"
)

const (
	scenarioResume = "Experienced Python developer with 5 years building ML pipelines using TensorFlow."
	scenarioJob    = "Looking for a Python and TensorFlow engineer with 6+ years of experience in machine learning."
)

type testServer struct {
	*Server
	metrics *metrics.Metrics
	handler http.Handler
}

func newTestServer(t *testing.T, opts ...func(*Config)) *testServer {
	t.Helper()

	m := metrics.New()
	analyzer, err := analysis.New(nil, analysis.WithObserver(m))
	require.NoError(t, err)

	cfg := Config{
		Analyzer:  analyzer,
		Fetcher:   fetch.New(nil),
		Metrics:   m,
		RateLimit: &ratelimit.Config{Enabled: false},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	s, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	return &testServer{Server: s, metrics: cfg.Metrics, handler: s.Handler()}
}

func (ts *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) postJSON(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return ts.do(t, req)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["error"]
}

func TestHandleAnalyze_Scenario(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.postJSON(t, "/analyze", AnalyzeRequest{ResumeText: scenarioResume, JobText: scenarioJob})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var report types.Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	require.NotNil(t, report.Result)
	assert.Equal(t, "overlap", report.Strategy)
	assert.Equal(t, 71.67, report.Result.Score)
	assert.Equal(t, []string{"python", "tensorflow"}, report.Result.Matched.Sorted())
	assert.Equal(t, []string{"machine learning"}, report.Result.Missing.Sorted())
	assert.Len(t, report.Suggestions, 5)
}

func TestHandleAnalyze_Statistical(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.postJSON(t, "/analyze", AnalyzeRequest{ResumeText: scenarioJob, JobText: scenarioJob, Strategy: "statistical"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report types.Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	assert.Equal(t, "statistical", report.Strategy)
	assert.Equal(t, 100.0, report.Result.Score)
}

func TestHandleAnalyze_Errors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "blank job",
			body:       `{"resume_text":"python","job_text":"   "}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Please provide Job Description",
		},
		{
			name:       "blank resume",
			body:       `{"resume_text":"","job_text":"python"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Please provide Resume",
		},
		{
			name:       "malformed JSON",
			body:       `{"resume_text":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid JSON",
		},
		{
			name:       "unknown field",
			body:       `{"resume":"python","job_text":"python"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid JSON",
		},
		{
			name:       "unknown strategy",
			body:       `{"resume_text":"python","job_text":"python","strategy":"semantic"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "validation error: Strategy - oneof",
		},
		{
			name:       "text and url together",
			body:       `{"resume_text":"python","job_text":"python","job_url":"https://example.com/job"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "validation error: JobURL - excluded_with",
		},
		{
			name:       "bad url",
			body:       `{"resume_text":"python","job_url":"not a url"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "validation error: JobURL - url",
		},
		{
			name:       "statistical with stop words only",
			body:       `{"resume_text":"the and of","job_text":"python","strategy":"statistical"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "no terms after normalization",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(tt.body))
			rec := ts.do(t, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, decodeError(t, rec), tt.wantError)
		})
	}
}

func TestHandleAnalyze_JobURL(t *testing.T) {
	board := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jobs/1" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`<html><body><nav>Menu</nav><main><p>5+ years experience in Python and SQL</p></main></body></html>`))
	}))
	t.Cleanup(board.Close)

	ts := newTestServer(t)

	rec := ts.postJSON(t, "/analyze", AnalyzeRequest{
		ResumeText: "SQL and Python engineer, 7 years.",
		JobURL:     board.URL + "/jobs/1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report types.Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	assert.Equal(t, []string{"python", "sql"}, report.Result.Matched.Sorted())
	assert.Equal(t, 5, report.Result.RequiredYears)
	assert.Equal(t, 100.0, report.Result.Score)

	rec = ts.postJSON(t, "/analyze", AnalyzeRequest{ResumeText: "python", JobURL: board.URL + "/missing"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleAnalyze_JobURLWithoutFetcher(t *testing.T) {
	ts := newTestServer(t, func(c *Config) { c.Fetcher = nil })

	rec := ts.postJSON(t, "/analyze", AnalyzeRequest{ResumeText: "python", JobURL: "https://example.com/job"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec), "URL fetching is disabled")
}

func multipartRequest(t *testing.T, fields map[string]string, fileName string, file []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("resume", fileName)
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandleAnalyzeUpload(t *testing.T) {
	ts := newTestServer(t)

	t.Run("file only", func(t *testing.T) {
		req := multipartRequest(t, map[string]string{"job_text": scenarioJob}, "resume.txt", []byte(scenarioResume))
		rec := ts.do(t, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var report types.Report
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
		assert.Equal(t, 71.67, report.Result.Score)
	})

	t.Run("file text appended to pasted text", func(t *testing.T) {
		req := multipartRequest(t,
			map[string]string{"job_text": scenarioJob, "resume_text": "machine learning, 6 years"},
			"resume.md", []byte(scenarioResume))
		rec := ts.do(t, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var report types.Report
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
		assert.Equal(t, 100.0, report.Result.Score)
	})

	t.Run("unsupported file", func(t *testing.T) {
		req := multipartRequest(t, map[string]string{"job_text": scenarioJob}, "resume.png", []byte{0x89, 'P', 'N', 'G'})
		rec := ts.do(t, req)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, decodeError(t, rec), "unsupported file type")
	})

	t.Run("no resume at all", func(t *testing.T) {
		req := multipartRequest(t, map[string]string{"job_text": scenarioJob}, "", nil)
		rec := ts.do(t, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Please provide Resume", decodeError(t, rec))
	})

	t.Run("bad strategy", func(t *testing.T) {
		req := multipartRequest(t, map[string]string{"job_text": scenarioJob, "strategy": "llm"}, "resume.txt", []byte("python"))
		rec := ts.do(t, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not multipart", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/analyze/upload", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		rec := ts.do(t, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleAnalyzeUpload_TooLarge(t *testing.T) {
	ts := newTestServer(t, func(c *Config) { c.MaxUploadBytes = 1024 })

	req := multipartRequest(t, map[string]string{"job_text": scenarioJob}, "resume.txt", bytes.Repeat([]byte("python "), 1000))
	rec := ts.do(t, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHandleAnalyzeBatch(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.postJSON(t, "/analyze/batch", BatchRequest{
		JobText: scenarioJob,
		Resumes: []BatchResume{
			{Name: "carol", Text: "Gardener."},
			{Name: "alice", Text: scenarioResume + " Machine learning, 6 years."},
			{Name: "empty", Text: "  "},
			{Name: "bob", Text: scenarioResume},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Count int `json:"count"`
		Items []struct {
			Name   string        `json:"name"`
			Report *types.Report `json:"report"`
			Error  string        `json:"error"`
		} `json:"items"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, 4, resp.Count)

	names := make([]string, len(resp.Items))
	for i, item := range resp.Items {
		names[i] = item.Name
	}
	assert.Equal(t, []string{"alice", "bob", "carol", "empty"}, names)
	assert.Equal(t, 100.0, resp.Items[0].Report.Result.Score)
	assert.Nil(t, resp.Items[3].Report)
	assert.Contains(t, resp.Items[3].Error, "Please provide Resume")
}

func TestHandleAnalyzeBatch_Validation(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.postJSON(t, "/analyze/batch", BatchRequest{JobText: scenarioJob})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec), "Resumes - min")

	rec = ts.postJSON(t, "/analyze/batch", BatchRequest{JobText: scenarioJob, Resumes: []BatchResume{{Text: "python"}}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec), "Name - required")

	rec = ts.postJSON(t, "/analyze/batch", BatchRequest{Resumes: []BatchResume{{Name: "a", Text: "python"}}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please provide Job Description", decodeError(t, rec))

	tooMany := make([]BatchResume, MaxBatchResumes+1)
	for i := range tooMany {
		tooMany[i] = BatchResume{Name: fmt.Sprintf("cv-%d", i), Text: "python"}
	}
	rec = ts.postJSON(t, "/analyze/batch", BatchRequest{JobText: scenarioJob, Resumes: tooMany})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation error: resumes - at most 50 resumes per batch", decodeError(t, rec))

	rec = ts.postJSON(t, "/analyze/batch", BatchRequest{JobText: scenarioJob, Resumes: tooMany[:MaxBatchResumes]})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleVocabularyAndHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/vocabulary", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var vocab VocabularyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&vocab))
	assert.Equal(t, ts.analyzer.Vocabulary().Len(), vocab.Size)
	assert.Contains(t, vocab.Skills, "machine learning")

	rec = ts.do(t, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","strategy":"overlap"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	ts.postJSON(t, "/analyze", AnalyzeRequest{ResumeText: scenarioResume, JobText: scenarioJob})
	ts.do(t, httptest.NewRequest(http.MethodGet, "/nope", nil))

	rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="POST",path="POST /analyze",status_code="200"} 1`)
	assert.Contains(t, rec.Body.String(), `path="unmatched"`)
	assert.Equal(t, 1, testutil.CollectAndCount(ts.metrics.Registry(), "analyses_total"))
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, httptest.NewRequest(http.MethodOptions, "/analyze", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t, func(c *Config) {
		c.RateLimit = &ratelimit.Config{
			Enabled:       true,
			DefaultLimit:  100,
			DefaultWindow: time.Minute,
			EndpointConfigs: []ratelimit.EndpointConfig{
				{Path: "/analyze", Method: "POST", Limit: 1, Window: time.Hour},
			},
		}
	})

	body := AnalyzeRequest{ResumeText: scenarioResume, JobText: scenarioJob}
	rec := ts.postJSON(t, "/analyze", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))

	rec = ts.postJSON(t, "/analyze", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// Health checks are never limited
	for i := 0; i < 5; i++ {
		rec = ts.do(t, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestNew_RequiresAnalyzer(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}
