package domain

import "time"

// Audit run lifecycle states.
const (
	RunStatusScheduled = "scheduled"
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// AuditRun records one execution of the site audit.
type AuditRun struct {
	ID          string     `db:"id"           json:"id"`
	Status      string     `db:"status"       json:"status"`
	Score       int        `db:"score"        json:"score"`
	TotalPages  int        `db:"total_pages"  json:"total_pages"`
	TotalIssues int        `db:"total_issues" json:"total_issues"`
	Error       string     `db:"error"        json:"error,omitempty"`
	StartedAt   time.Time  `db:"started_at"   json:"started_at"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

// IsActive reports whether the run still holds the single active slot.
func (r *AuditRun) IsActive() bool {
	return r.Status == RunStatusScheduled || r.Status == RunStatusRunning
}

// Duration returns how long the run took, or the elapsed time so far for
// an active run.
func (r *AuditRun) Duration() time.Duration {
	if r.CompletedAt != nil {
		return r.CompletedAt.Sub(r.StartedAt)
	}
	return time.Since(r.StartedAt)
}
