package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/seoaudit/internal/domain"
	"github.com/jonesrussell/seoaudit/internal/logger"
)

// Store is the persistence surface the generator needs.
type Store interface {
	// LatestReport returns the most recent report, or nil when none exists.
	LatestReport(ctx context.Context) (*domain.AuditReport, error)
	// LatestCompletedRunBefore returns the newest completed run started at
	// or before t, or nil when none qualifies.
	LatestCompletedRunBefore(ctx context.Context, t time.Time) (*domain.AuditRun, error)
	// GetRun returns the run with the given id, or nil when absent.
	GetRun(ctx context.Context, id string) (*domain.AuditRun, error)
	// RunIssues returns all issues recorded for a run.
	RunIssues(ctx context.Context, runID string) ([]domain.Issue, error)
	// PagesByID returns the known pages among ids, keyed by id.
	PagesByID(ctx context.Context, ids []int64) (map[int64]*domain.Page, error)
	// SaveReport persists a new report.
	SaveReport(ctx context.Context, report *domain.AuditReport) error
	// MarkReportEmailSent flips the one-shot email flag.
	MarkReportEmailSent(ctx context.Context, reportID string, at time.Time) error
}

// Notifier delivers a generated report, typically by email.
type Notifier interface {
	SendReport(ctx context.Context, report *domain.AuditReport, diff *Diff) error
}

// Generator decides when a new report is due and produces it.
type Generator struct {
	store    Store
	notifier Notifier
	interval time.Duration
	logger   logger.Interface
	now      func() time.Time
}

// NewGenerator builds a report generator. notifier may be nil to disable
// notifications.
func NewGenerator(store Store, notifier Notifier, interval time.Duration, log logger.Interface) *Generator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = logger.NewNoOp()
	}
	return &Generator{
		store:    store,
		notifier: notifier,
		interval: interval,
		logger:   log,
		now:      time.Now,
	}
}

// ShouldGenerate reports whether a report is due for the given completed
// run and, if so, which earlier run to use as the baseline.
//
// With no prior report, the baseline is the newest completed run at least
// one interval older than the current run. Otherwise a report is due once
// an interval has elapsed since the last report, continuing from that
// report's current run.
func (g *Generator) ShouldGenerate(ctx context.Context, current *domain.AuditRun) (bool, *domain.AuditRun, error) {
	latest, err := g.store.LatestReport(ctx)
	if err != nil {
		return false, nil, fmt.Errorf("load latest report: %w", err)
	}

	if latest == nil {
		baseline, err := g.store.LatestCompletedRunBefore(ctx, current.StartedAt.Add(-g.interval))
		if err != nil {
			return false, nil, fmt.Errorf("find first baseline run: %w", err)
		}
		return baseline != nil, baseline, nil
	}

	if current.StartedAt.Sub(latest.CreatedAt) < g.interval {
		return false, nil, nil
	}

	baseline, err := g.store.GetRun(ctx, latest.CurrentRunID)
	if err != nil {
		return false, nil, fmt.Errorf("load baseline run: %w", err)
	}
	if baseline != nil && baseline.Status == domain.RunStatusCompleted {
		return true, baseline, nil
	}

	// The run the last report pointed at is gone or incomplete; fall back
	// to the newest completed run outside the interval.
	baseline, err = g.store.LatestCompletedRunBefore(ctx, current.StartedAt.Add(-g.interval))
	if err != nil {
		return false, nil, fmt.Errorf("find fallback baseline run: %w", err)
	}
	return baseline != nil, baseline, nil
}

// Generate produces, persists and (best-effort) delivers a report for the
// given run. Returns (nil, nil) when no report is due yet.
func (g *Generator) Generate(ctx context.Context, current *domain.AuditRun) (*domain.AuditReport, error) {
	due, baseline, err := g.ShouldGenerate(ctx, current)
	if err != nil {
		return nil, err
	}
	if !due {
		g.logger.Debug("report not due", "run_id", current.ID, "interval", g.interval.String())
		return nil, nil
	}

	report, diff, err := g.build(ctx, baseline, current)
	if err != nil {
		return nil, err
	}

	if err := g.store.SaveReport(ctx, report); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}

	g.logger.Info("audit report generated",
		"report_id", report.ID,
		"baseline_run", baseline.ID,
		"current_run", current.ID,
		"score_change", report.ScoreDelta(),
		"new_issues", report.IssuesNew,
		"fixed_issues", report.IssuesResolved)

	g.notify(ctx, report, diff)

	return report, nil
}

// build computes the diff between two runs and assembles the report row.
func (g *Generator) build(ctx context.Context, baseline, current *domain.AuditRun) (*domain.AuditReport, *Diff, error) {
	baselineIssues, err := g.store.RunIssues(ctx, baseline.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("load baseline issues: %w", err)
	}
	currentIssues, err := g.store.RunIssues(ctx, current.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("load current issues: %w", err)
	}

	pages, err := g.store.PagesByID(ctx, pageIDs(baselineIssues, currentIssues))
	if err != nil {
		return nil, nil, fmt.Errorf("load pages: %w", err)
	}

	diff := Compare(baselineIssues, currentIssues, pages, baseline.StartedAt)

	report := &domain.AuditReport{
		ID:                uuid.NewString(),
		BaselineRunID:     baseline.ID,
		CurrentRunID:      current.ID,
		ScoreBefore:       baseline.Score,
		ScoreAfter:        current.Score,
		IssuesNew:         len(diff.New),
		IssuesResolved:    len(diff.Fixed),
		IssuesNewOldPages: len(diff.NewOnOldPages),
		IssuesNewNewPages: len(diff.NewOnNewPages),
		CreatedAt:         g.now().UTC(),
	}
	return report, diff, nil
}

// notify attempts delivery once. Failures are logged and never block
// report creation; the email flag stays unset so the failure is visible.
func (g *Generator) notify(ctx context.Context, report *domain.AuditReport, diff *Diff) {
	if g.notifier == nil || report.EmailSent {
		return
	}

	if err := g.notifier.SendReport(ctx, report, diff); err != nil {
		g.logger.Warn("report notification failed", "report_id", report.ID, "error", err)
		return
	}

	sentAt := g.now().UTC()
	report.EmailSent = true
	report.EmailSentAt = &sentAt

	if err := g.store.MarkReportEmailSent(ctx, report.ID, sentAt); err != nil {
		g.logger.Warn("failed to record email delivery", "report_id", report.ID, "error", err)
	}
}

func pageIDs(issueSets ...[]domain.Issue) []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, issues := range issueSets {
		for _, issue := range issues {
			if issue.PageID == 0 {
				continue
			}
			if _, ok := seen[issue.PageID]; ok {
				continue
			}
			seen[issue.PageID] = struct{}{}
			ids = append(ids, issue.PageID)
		}
	}
	return ids
}
