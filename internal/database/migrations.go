package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS pages (
    id BIGINT PRIMARY KEY,
    url TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    seo_title TEXT NOT NULL DEFAULT '',
    search_description TEXT NOT NULL DEFAULT '',
    content_type TEXT NOT NULL DEFAULT '',
    first_published_at TIMESTAMPTZ,
    last_published_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS audit_runs (
    id UUID PRIMARY KEY,
    status TEXT NOT NULL,
    score INTEGER NOT NULL DEFAULT 0,
    total_pages INTEGER NOT NULL DEFAULT 0,
    total_issues INTEGER NOT NULL DEFAULT 0,
    error TEXT NOT NULL DEFAULT '',
    started_at TIMESTAMPTZ NOT NULL,
    completed_at TIMESTAMPTZ
);

-- At most one run may be scheduled or running at any time.
CREATE UNIQUE INDEX IF NOT EXISTS idx_audit_runs_single_active
    ON audit_runs ((TRUE)) WHERE status IN ('scheduled', 'running');

CREATE TABLE IF NOT EXISTS audit_issues (
    id UUID PRIMARY KEY,
    run_id UUID NOT NULL REFERENCES audit_runs(id) ON DELETE CASCADE,
    page_id BIGINT NOT NULL DEFAULT 0,
    issue_type TEXT NOT NULL,
    issue_severity INTEGER NOT NULL,
    page_url TEXT NOT NULL DEFAULT '',
    page_title TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    requires_dev_fix BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS audit_reports (
    id UUID PRIMARY KEY,
    baseline_run_id UUID NOT NULL REFERENCES audit_runs(id) ON DELETE CASCADE,
    current_run_id UUID NOT NULL REFERENCES audit_runs(id) ON DELETE CASCADE,
    score_before INTEGER NOT NULL DEFAULT 0,
    score_after INTEGER NOT NULL DEFAULT 0,
    issues_new INTEGER NOT NULL DEFAULT 0,
    issues_resolved INTEGER NOT NULL DEFAULT 0,
    issues_new_old_pages INTEGER NOT NULL DEFAULT 0,
    issues_new_new_pages INTEGER NOT NULL DEFAULT 0,
    email_sent BOOLEAN NOT NULL DEFAULT FALSE,
    email_sent_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_issues_run ON audit_issues(run_id);
CREATE INDEX IF NOT EXISTS idx_audit_issues_page ON audit_issues(page_id);
CREATE INDEX IF NOT EXISTS idx_audit_issues_type ON audit_issues(issue_type);
CREATE INDEX IF NOT EXISTS idx_audit_runs_started ON audit_runs(started_at);
CREATE INDEX IF NOT EXISTS idx_audit_reports_created ON audit_reports(created_at);
`

// Migrate creates the audit tables when they do not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
