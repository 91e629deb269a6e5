package domain

import "time"

// AuditReport is a stored comparison between two audit runs. The issue
// counts are set at creation and never change; the email fields flip at
// most once after a successful notification.
type AuditReport struct {
	ID                string     `db:"id"                   json:"id"`
	BaselineRunID     string     `db:"baseline_run_id"      json:"baseline_run_id"`
	CurrentRunID      string     `db:"current_run_id"       json:"current_run_id"`
	ScoreBefore       int        `db:"score_before"         json:"score_before"`
	ScoreAfter        int        `db:"score_after"          json:"score_after"`
	IssuesNew         int        `db:"issues_new"           json:"issues_new"`
	IssuesResolved    int        `db:"issues_resolved"      json:"issues_resolved"`
	IssuesNewOldPages int        `db:"issues_new_old_pages" json:"issues_new_old_pages"`
	IssuesNewNewPages int        `db:"issues_new_new_pages" json:"issues_new_new_pages"`
	EmailSent         bool       `db:"email_sent"           json:"email_sent"`
	EmailSentAt       *time.Time `db:"email_sent_at"        json:"email_sent_at,omitempty"`
	CreatedAt         time.Time  `db:"created_at"           json:"created_at"`
}

// ScoreDelta returns the score change between the two compared runs.
func (r *AuditReport) ScoreDelta() int {
	return r.ScoreAfter - r.ScoreBefore
}
