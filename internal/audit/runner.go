package audit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonesrussell/seoaudit/internal/domain"
	"github.com/jonesrussell/seoaudit/internal/logger"
)

// ErrRunActive is returned when a run cannot start because another run
// is still in progress.
var ErrRunActive = errors.New("another audit run is already active")

// defaultWorkers bounds concurrent page audits.
const defaultWorkers = 4

// Store is the persistence surface a run needs.
type Store interface {
	// ClaimRun atomically records the run as running. Returns ErrRunActive
	// when another run holds the running state.
	ClaimRun(ctx context.Context, run *domain.AuditRun) error
	// SaveIssues persists the issues found by a run.
	SaveIssues(ctx context.Context, issues []domain.Issue) error
	// CompleteRun records a finished run with its final score and counts.
	CompleteRun(ctx context.Context, run *domain.AuditRun) error
	// FailRun marks a run failed, keeping whatever was already persisted.
	FailRun(ctx context.Context, run *domain.AuditRun) error
}

// HTMLSource supplies rendered HTML for a page.
type HTMLSource interface {
	FetchHTML(ctx context.Context, page *domain.Page) (string, error)
}

// Runner executes audit runs over a set of pages with bounded
// parallelism. Pages are independent; the only cross-page passes are
// the duplicate meta description check and the final score rollup.
type Runner struct {
	store   Store
	source  HTMLSource
	auditor *Auditor
	workers int
	logger  logger.Interface
	now     func() time.Time
}

// NewRunner assembles a runner. workers <= 0 selects the default.
func NewRunner(store Store, source HTMLSource, auditor *Auditor, workers int, log logger.Interface) *Runner {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if log == nil {
		log = logger.NewNoOp()
	}
	return &Runner{
		store:   store,
		source:  source,
		auditor: auditor,
		workers: workers,
		logger:  log,
		now:     time.Now,
	}
}

// Run audits all pages under a new run. A page that fails to render or
// audit is logged and skipped rather than aborting the run; a run-level
// failure (cancellation, persistence) marks the run failed but keeps the
// issues gathered so far.
func (r *Runner) Run(ctx context.Context, pages []*domain.Page) (*domain.AuditRun, error) {
	run := &domain.AuditRun{
		ID:        uuid.NewString(),
		Status:    domain.RunStatusRunning,
		StartedAt: r.now().UTC(),
	}

	if err := r.store.ClaimRun(ctx, run); err != nil {
		return nil, fmt.Errorf("claim audit run: %w", err)
	}

	r.logger.Info("audit run started", "run_id", run.ID, "pages", len(pages))

	perPage := make([][]domain.Issue, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, page := range pages {
		i, page := i, page
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			html, err := r.source.FetchHTML(gctx, page)
			if err != nil {
				r.logger.Warn("could not render page, skipping", "url", page.URL, "error", err)
				return nil
			}

			issues, err := r.auditor.AuditPage(gctx, page, html)
			if err != nil {
				r.logger.Warn("page audit failed, skipping", "url", page.URL, "error", err)
				return nil
			}
			perPage[i] = issues
			return nil
		})
	}
	runErr := g.Wait()

	issues := flattenIssues(run.ID, perPage)
	issues = append(issues, duplicateDescriptionIssues(run.ID, pages)...)

	if len(issues) > 0 {
		if err := r.store.SaveIssues(ctx, issues); err != nil {
			runErr = errors.Join(runErr, fmt.Errorf("save issues: %w", err))
		}
	}

	run.TotalPages = len(pages)
	run.TotalIssues = len(issues)

	if runErr != nil {
		return r.fail(ctx, run, runErr)
	}

	run.Score = Score(run.TotalIssues, run.TotalPages)
	run.Status = domain.RunStatusCompleted
	completedAt := r.now().UTC()
	run.CompletedAt = &completedAt

	if err := r.store.CompleteRun(ctx, run); err != nil {
		return r.fail(ctx, run, fmt.Errorf("complete run: %w", err))
	}

	r.logger.Info("audit run completed",
		"run_id", run.ID,
		"pages", run.TotalPages,
		"issues", run.TotalIssues,
		"score", run.Score)

	return run, nil
}

func (r *Runner) fail(ctx context.Context, run *domain.AuditRun, runErr error) (*domain.AuditRun, error) {
	run.Status = domain.RunStatusFailed
	run.Error = runErr.Error()
	failedAt := r.now().UTC()
	run.CompletedAt = &failedAt

	if err := r.store.FailRun(ctx, run); err != nil {
		r.logger.Error("could not mark run failed", "run_id", run.ID, "error", err)
	}

	r.logger.Error("audit run failed", "run_id", run.ID, "error", runErr)
	return run, runErr
}

func flattenIssues(runID string, perPage [][]domain.Issue) []domain.Issue {
	var out []domain.Issue
	for _, issues := range perPage {
		out = append(out, issues...)
	}
	for i := range out {
		out[i].RunID = runID
	}
	return out
}

// duplicateDescriptionIssues flags pages whose saved meta description is
// shared verbatim with other audited pages.
func duplicateDescriptionIssues(runID string, pages []*domain.Page) []domain.Issue {
	counts := make(map[string]int)
	for _, page := range pages {
		desc := strings.TrimSpace(page.SearchDescription)
		if desc == "" {
			continue
		}
		counts[desc]++
	}

	var out []domain.Issue
	for _, page := range pages {
		desc := strings.TrimSpace(page.SearchDescription)
		if desc == "" || counts[desc] < 2 {
			continue
		}
		issue := domain.NewIssue(domain.MetaDescriptionDuplicate, page.URL, counts[desc]-1)
		issue.RunID = runID
		issue.PageID = page.ID
		issue.PageTitle = page.Title
		out = append(out, issue)
	}
	return out
}
