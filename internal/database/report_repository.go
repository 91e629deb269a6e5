package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/seoaudit/internal/domain"
)

// ReportRepository handles database operations for audit reports.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new report repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// SaveReport persists a newly generated report.
func (r *ReportRepository) SaveReport(ctx context.Context, report *domain.AuditReport) error {
	query := `
		INSERT INTO audit_reports
			(id, baseline_run_id, current_run_id, score_before, score_after,
			 issues_new, issues_resolved, issues_new_old_pages, issues_new_new_pages,
			 email_sent, email_sent_at, created_at)
		VALUES
			(:id, :baseline_run_id, :current_run_id, :score_before, :score_after,
			 :issues_new, :issues_resolved, :issues_new_old_pages, :issues_new_new_pages,
			 :email_sent, :email_sent_at, :created_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// LatestReport returns the most recent report, or nil when none exists.
func (r *ReportRepository) LatestReport(ctx context.Context) (*domain.AuditReport, error) {
	var report domain.AuditReport
	query := `
		SELECT id, baseline_run_id, current_run_id, score_before, score_after,
		       issues_new, issues_resolved, issues_new_old_pages, issues_new_new_pages,
		       email_sent, email_sent_at, created_at
		FROM audit_reports
		ORDER BY created_at DESC
		LIMIT 1
	`

	err := r.db.GetContext(ctx, &report, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest report: %w", err)
	}
	return &report, nil
}

// ListReports returns reports ordered newest first.
func (r *ReportRepository) ListReports(ctx context.Context, limit, offset int) ([]*domain.AuditReport, error) {
	var reports []*domain.AuditReport
	query := `
		SELECT id, baseline_run_id, current_run_id, score_before, score_after,
		       issues_new, issues_resolved, issues_new_old_pages, issues_new_new_pages,
		       email_sent, email_sent_at, created_at
		FROM audit_reports
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	if err := r.db.SelectContext(ctx, &reports, query, limit, offset); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// MarkReportEmailSent flips the one-shot email flag. A report already
// marked sent is left untouched.
func (r *ReportRepository) MarkReportEmailSent(ctx context.Context, reportID string, at time.Time) error {
	query := `
		UPDATE audit_reports
		SET email_sent = TRUE, email_sent_at = $2
		WHERE id = $1 AND email_sent = FALSE
	`

	if _, err := r.db.ExecContext(ctx, query, reportID, at); err != nil {
		return fmt.Errorf("mark report %s email sent: %w", reportID, err)
	}
	return nil
}
