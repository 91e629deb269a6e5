package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/seoaudit/internal/audit"
	"github.com/jonesrussell/seoaudit/internal/database"
	"github.com/jonesrussell/seoaudit/internal/domain"
)

// runColumns lists the columns returned by run SELECT queries.
var runColumns = []string{
	"id", "status", "score", "total_pages", "total_issues", "error",
	"started_at", "completed_at",
}

func newStore(t *testing.T) (*database.Store, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db := sqlx.NewDb(mockDB, "postgres")
	return database.NewStore(db), mock
}

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestRunRepositoryClaimRun(t *testing.T) {
	store, mock := newStore(t)

	started := time.Now().UTC()
	run := &domain.AuditRun{ID: "run-1", Status: domain.RunStatusRunning, StartedAt: started}

	mock.ExpectExec("INSERT INTO audit_runs").
		WithArgs("run-1", domain.RunStatusRunning, started).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.ClaimRun(context.Background(), run))
	expectationsMet(t, mock)
}

func TestRunRepositoryClaimRunActiveConflict(t *testing.T) {
	store, mock := newStore(t)

	run := &domain.AuditRun{ID: "run-2", Status: domain.RunStatusRunning, StartedAt: time.Now()}

	mock.ExpectExec("INSERT INTO audit_runs").
		WillReturnError(&pq.Error{Code: "23505"})

	err := store.ClaimRun(context.Background(), run)
	require.ErrorIs(t, err, audit.ErrRunActive)
	expectationsMet(t, mock)
}

func TestRunRepositoryClaimRunOtherError(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectExec("INSERT INTO audit_runs").
		WillReturnError(errors.New("connection refused"))

	err := store.ClaimRun(context.Background(), &domain.AuditRun{ID: "run-3"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, audit.ErrRunActive)
	expectationsMet(t, mock)
}

func TestRunRepositoryCompleteRun(t *testing.T) {
	store, mock := newStore(t)

	completed := time.Now().UTC()
	run := &domain.AuditRun{
		ID:          "run-1",
		Status:      domain.RunStatusCompleted,
		Score:       88,
		TotalPages:  12,
		TotalIssues: 29,
		CompletedAt: &completed,
	}

	mock.ExpectExec("UPDATE audit_runs").
		WithArgs("run-1", domain.RunStatusCompleted, 88, 12, 29, "", &completed).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.CompleteRun(context.Background(), run))
	expectationsMet(t, mock)
}

func TestRunRepositoryCompleteRunMissing(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectExec("UPDATE audit_runs").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.CompleteRun(context.Background(), &domain.AuditRun{ID: "ghost"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
	expectationsMet(t, mock)
}

func TestRunRepositoryGetRun(t *testing.T) {
	store, mock := newStore(t)

	started := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM audit_runs").
		WithArgs("run-1").
		WillReturnRows(sqlmock.NewRows(runColumns).
			AddRow("run-1", "completed", 92, 10, 16, "", started, nil))

	run, err := store.GetRun(context.Background(), "run-1")
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, 92, run.Score)
	assert.Equal(t, domain.RunStatusCompleted, run.Status)
	expectationsMet(t, mock)
}

func TestRunRepositoryGetRunNotFound(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectQuery("SELECT (.+) FROM audit_runs").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(runColumns))

	run, err := store.GetRun(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, run)
	expectationsMet(t, mock)
}

func TestRunRepositorySaveIssuesAssignsIDs(t *testing.T) {
	store, mock := newStore(t)

	issues := []domain.Issue{
		domain.NewIssue(domain.TitleMissing, "https://example.com/a"),
		domain.NewIssue(domain.SchemaMissing, "https://example.com/b"),
	}
	for i := range issues {
		issues[i].RunID = "run-1"
	}

	mock.ExpectExec("INSERT INTO audit_issues").
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, store.SaveIssues(context.Background(), issues))
	assert.NotEmpty(t, issues[0].ID)
	assert.NotEmpty(t, issues[1].ID)
	expectationsMet(t, mock)
}

func TestRunRepositorySaveIssuesEmpty(t *testing.T) {
	store, mock := newStore(t)

	require.NoError(t, store.SaveIssues(context.Background(), nil))
	expectationsMet(t, mock)
}

func TestRunRepositoryLatestCompletedRunBefore(t *testing.T) {
	store, mock := newStore(t)

	cutoff := time.Now().UTC()
	started := cutoff.Add(-48 * time.Hour)

	mock.ExpectQuery("SELECT (.+) FROM audit_runs").
		WithArgs(domain.RunStatusCompleted, cutoff).
		WillReturnRows(sqlmock.NewRows(runColumns).
			AddRow("run-9", "completed", 77, 5, 20, "", started, started))

	run, err := store.LatestCompletedRunBefore(context.Background(), cutoff)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, "run-9", run.ID)
	expectationsMet(t, mock)
}

func TestRunRepositoryRunIssues(t *testing.T) {
	store, mock := newStore(t)

	issueColumns := []string{
		"id", "run_id", "page_id", "issue_type", "issue_severity",
		"page_url", "page_title", "description", "requires_dev_fix",
	}

	mock.ExpectQuery("SELECT (.+) FROM audit_issues").
		WithArgs("run-1").
		WillReturnRows(sqlmock.NewRows(issueColumns).
			AddRow("i-1", "run-1", int64(4), "title_missing", 3, "https://example.com/a", "A", "Page is missing a title tag", false))

	issues, err := store.RunIssues(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, domain.TitleMissing, issues[0].IssueType)
	assert.Equal(t, domain.SeverityHigh, issues[0].Severity)
	expectationsMet(t, mock)
}
