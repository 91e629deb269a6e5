package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/seoaudit/internal/domain"
)

type fakeReader struct {
	runs    []*domain.AuditRun
	issues  map[string][]domain.Issue
	reports []*domain.AuditReport
	err     error
}

func (f *fakeReader) ListRuns(_ context.Context, limit, offset int) ([]*domain.AuditRun, error) {
	if f.err != nil {
		return nil, f.err
	}
	if offset >= len(f.runs) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.runs) {
		end = len(f.runs)
	}
	return f.runs[offset:end], nil
}

func (f *fakeReader) GetRun(_ context.Context, id string) (*domain.AuditRun, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, run := range f.runs {
		if run.ID == id {
			return run, nil
		}
	}
	return nil, nil
}

func (f *fakeReader) RunIssues(_ context.Context, runID string) ([]domain.Issue, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.issues[runID], nil
}

func (f *fakeReader) ListReports(_ context.Context, _, _ int) ([]*domain.AuditReport, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.reports, nil
}

func testRouter(reader *fakeReader) http.Handler {
	return NewRouter(NewHandler(reader, nil), nil)
}

func doRequest(t *testing.T, router http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func sampleRuns() []*domain.AuditRun {
	started := time.Date(2026, 5, 1, 6, 0, 0, 0, time.UTC)
	return []*domain.AuditRun{
		{ID: "run-1", Status: domain.RunStatusCompleted, Score: 92, TotalPages: 10, StartedAt: started},
		{ID: "run-2", Status: domain.RunStatusFailed, StartedAt: started.AddDate(0, 0, 1)},
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	rec, body := doRequest(t, testRouter(&fakeReader{}), "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestListRuns(t *testing.T) {
	t.Parallel()

	rec, body := doRequest(t, testRouter(&fakeReader{runs: sampleRuns()}), "/api/v1/runs")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, body["count"])
}

func TestListRunsLimit(t *testing.T) {
	t.Parallel()

	rec, body := doRequest(t, testRouter(&fakeReader{runs: sampleRuns()}), "/api/v1/runs?limit=1")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["count"])
}

func TestListRunsError(t *testing.T) {
	t.Parallel()

	rec, body := doRequest(t, testRouter(&fakeReader{err: errors.New("db down")}), "/api/v1/runs")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, body["error"], "Failed")
}

func TestGetRun(t *testing.T) {
	t.Parallel()

	rec, body := doRequest(t, testRouter(&fakeReader{runs: sampleRuns()}), "/api/v1/runs/run-1")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "run-1", body["id"])
	assert.EqualValues(t, 92, body["score"])
}

func TestGetRunNotFound(t *testing.T) {
	t.Parallel()

	rec, _ := doRequest(t, testRouter(&fakeReader{runs: sampleRuns()}), "/api/v1/runs/missing")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListRunIssues(t *testing.T) {
	t.Parallel()

	reader := &fakeReader{
		runs: sampleRuns(),
		issues: map[string][]domain.Issue{
			"run-1": {
				domain.NewIssue(domain.TitleMissing, "https://example.com/a"),
				domain.NewIssue(domain.MetaDescriptionNoCTA, "https://example.com/a"),
			},
		},
	}

	rec, body := doRequest(t, testRouter(reader), "/api/v1/runs/run-1/issues")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, body["count"])
}

func TestListRunIssuesSeverityFilter(t *testing.T) {
	t.Parallel()

	reader := &fakeReader{
		runs: sampleRuns(),
		issues: map[string][]domain.Issue{
			"run-1": {
				domain.NewIssue(domain.TitleMissing, "https://example.com/a"),         // high
				domain.NewIssue(domain.MetaDescriptionNoCTA, "https://example.com/a"), // low
			},
		},
	}

	rec, body := doRequest(t, testRouter(reader), "/api/v1/runs/run-1/issues?severity=high")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["count"])
}

func TestListReports(t *testing.T) {
	t.Parallel()

	reader := &fakeReader{reports: []*domain.AuditReport{
		{ID: "rep-1", ScoreBefore: 80, ScoreAfter: 90},
	}}

	rec, body := doRequest(t, testRouter(reader), "/api/v1/reports")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["count"])
}
