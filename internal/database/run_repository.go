package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jonesrussell/seoaudit/internal/audit"
	"github.com/jonesrussell/seoaudit/internal/domain"
)

// RunRepository handles database operations for audit runs and their issues.
type RunRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new run repository.
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// ClaimRun inserts the run in running state. The partial unique index on
// the running status makes the claim atomic; a conflicting insert maps to
// audit.ErrRunActive.
func (r *RunRepository) ClaimRun(ctx context.Context, run *domain.AuditRun) error {
	query := `
		INSERT INTO audit_runs (id, status, started_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.ExecContext(ctx, query, run.ID, run.Status, run.StartedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return audit.ErrRunActive
		}
		return fmt.Errorf("claim run: %w", err)
	}
	return nil
}

// SaveIssues bulk-inserts the issues found by a run.
func (r *RunRepository) SaveIssues(ctx context.Context, issues []domain.Issue) error {
	if len(issues) == 0 {
		return nil
	}

	query := `
		INSERT INTO audit_issues
			(id, run_id, page_id, issue_type, issue_severity, page_url, page_title, description, requires_dev_fix)
		VALUES
			(:id, :run_id, :page_id, :issue_type, :issue_severity, :page_url, :page_title, :description, :requires_dev_fix)
	`

	for i := range issues {
		if issues[i].ID == "" {
			issues[i].ID = uuid.NewString()
		}
	}

	if _, err := r.db.NamedExecContext(ctx, query, issues); err != nil {
		return fmt.Errorf("save issues: %w", err)
	}
	return nil
}

// CompleteRun records the final state of a successful run.
func (r *RunRepository) CompleteRun(ctx context.Context, run *domain.AuditRun) error {
	return r.finishRun(ctx, run)
}

// FailRun records a failed run, leaving already-saved issues in place.
func (r *RunRepository) FailRun(ctx context.Context, run *domain.AuditRun) error {
	return r.finishRun(ctx, run)
}

func (r *RunRepository) finishRun(ctx context.Context, run *domain.AuditRun) error {
	query := `
		UPDATE audit_runs
		SET status = $2, score = $3, total_pages = $4, total_issues = $5,
		    error = $6, completed_at = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		run.ID, run.Status, run.Score, run.TotalPages, run.TotalIssues,
		run.Error, run.CompletedAt)
	if err != nil {
		return fmt.Errorf("update run %s: %w", run.ID, err)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("run not found: %s", run.ID)
	}
	return nil
}

// GetRun retrieves a run by id, or nil when it does not exist.
func (r *RunRepository) GetRun(ctx context.Context, id string) (*domain.AuditRun, error) {
	var run domain.AuditRun
	query := `
		SELECT id, status, score, total_pages, total_issues, error, started_at, completed_at
		FROM audit_runs
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &run, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return &run, nil
}

// ListRuns returns runs ordered newest first.
func (r *RunRepository) ListRuns(ctx context.Context, limit, offset int) ([]*domain.AuditRun, error) {
	var runs []*domain.AuditRun
	query := `
		SELECT id, status, score, total_pages, total_issues, error, started_at, completed_at
		FROM audit_runs
		ORDER BY started_at DESC
		LIMIT $1 OFFSET $2
	`

	if err := r.db.SelectContext(ctx, &runs, query, limit, offset); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// LatestCompletedRunBefore returns the newest completed run started at or
// before t, or nil when none qualifies.
func (r *RunRepository) LatestCompletedRunBefore(ctx context.Context, t time.Time) (*domain.AuditRun, error) {
	var run domain.AuditRun
	query := `
		SELECT id, status, score, total_pages, total_issues, error, started_at, completed_at
		FROM audit_runs
		WHERE status = $1 AND started_at <= $2
		ORDER BY started_at DESC
		LIMIT 1
	`

	err := r.db.GetContext(ctx, &run, query, domain.RunStatusCompleted, t)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest completed run: %w", err)
	}
	return &run, nil
}

// RunIssues returns all issues recorded for a run.
func (r *RunRepository) RunIssues(ctx context.Context, runID string) ([]domain.Issue, error) {
	var issues []domain.Issue
	query := `
		SELECT id, run_id, page_id, issue_type, issue_severity, page_url, page_title, description, requires_dev_fix
		FROM audit_issues
		WHERE run_id = $1
		ORDER BY issue_severity DESC, issue_type, page_id
	`

	if err := r.db.SelectContext(ctx, &issues, query, runID); err != nil {
		return nil, fmt.Errorf("list issues for run %s: %w", runID, err)
	}
	return issues, nil
}
