package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/seoaudit/internal/domain"
)

func TestParseInterval(t *testing.T) {
	t.Parallel()

	day := 24 * time.Hour
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"7d", 7 * day},
		{"1d", day},
		{"2w", 14 * day},
		{"1m", 30 * day},
		{"3M", 90 * day},
		{" 7d ", 7 * day},
	}
	for _, tt := range tests {
		got, err := ParseInterval(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestParseIntervalRejectsBadFormats(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "7", "d", "7h", "7dd", "d7", "-7d", "7 d"} {
		_, err := ParseInterval(input)
		assert.Error(t, err, input)
	}
}

func TestIntervalOrDefaultFallsBack(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultInterval, IntervalOrDefault("bogus", nil))
	assert.Equal(t, 14*24*time.Hour, IntervalOrDefault("2w", nil))
}

func issue(pageID int64, t domain.IssueType) domain.Issue {
	return domain.Issue{PageID: pageID, IssueType: t, PageURL: "https://example.com/p"}
}

func diffKeys(issues []domain.Issue) []Key {
	keys := make([]Key, 0, len(issues))
	for _, i := range issues {
		keys = append(keys, KeyFor(i))
	}
	return keys
}

func TestCompareNewAndFixed(t *testing.T) {
	t.Parallel()

	baseline := []domain.Issue{
		issue(1, domain.TitleMissing),
		issue(2, domain.ContentThin),
	}
	current := []domain.Issue{
		issue(1, domain.TitleMissing),
		issue(3, domain.SchemaMissing),
	}

	diff := Compare(baseline, current, nil, time.Now())

	assert.Equal(t, []Key{{PageID: 3, IssueType: domain.SchemaMissing}}, diffKeys(diff.New))
	assert.Equal(t, []Key{{PageID: 2, IssueType: domain.ContentThin}}, diffKeys(diff.Fixed))
}

func TestCompareSamePageDifferentTypeIsNew(t *testing.T) {
	t.Parallel()

	baseline := []domain.Issue{issue(1, domain.TitleMissing)}
	current := []domain.Issue{
		issue(1, domain.TitleMissing),
		issue(1, domain.HeaderNoH1),
	}

	diff := Compare(baseline, current, nil, time.Now())

	assert.Equal(t, []Key{{PageID: 1, IssueType: domain.HeaderNoH1}}, diffKeys(diff.New))
	assert.Empty(t, diff.Fixed)
}

func TestComparePageSplit(t *testing.T) {
	t.Parallel()

	baselineTime := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	before := baselineTime.AddDate(0, -1, 0)
	after := baselineTime.AddDate(0, 1, 0)

	pages := map[int64]*domain.Page{
		1: {ID: 1, FirstPublishedAt: &before},
		2: {ID: 2, FirstPublishedAt: &after},
		3: {ID: 3}, // publish date unknown
	}

	current := []domain.Issue{
		issue(1, domain.TitleMissing),
		issue(2, domain.ContentThin),
		issue(3, domain.SchemaMissing),
	}

	diff := Compare(nil, current, pages, baselineTime)

	require.Len(t, diff.New, 3)
	assert.Equal(t, []Key{{PageID: 1, IssueType: domain.TitleMissing}}, diffKeys(diff.NewOnOldPages))
	assert.Equal(t, []Key{{PageID: 2, IssueType: domain.ContentThin}}, diffKeys(diff.NewOnNewPages))
}

func TestCompareIdenticalRuns(t *testing.T) {
	t.Parallel()

	issues := []domain.Issue{issue(1, domain.TitleMissing), issue(2, domain.ContentThin)}

	diff := Compare(issues, issues, nil, time.Now())

	assert.Empty(t, diff.New)
	assert.Empty(t, diff.Fixed)
}

// fakeStore is an in-memory Store for generator tests.
type fakeStore struct {
	latestReport *domain.AuditReport
	runs         map[string]*domain.AuditRun
	issues       map[string][]domain.Issue
	pages        map[int64]*domain.Page

	saved       []*domain.AuditReport
	emailMarked []string
}

func (s *fakeStore) LatestReport(context.Context) (*domain.AuditReport, error) {
	return s.latestReport, nil
}

func (s *fakeStore) LatestCompletedRunBefore(_ context.Context, t time.Time) (*domain.AuditRun, error) {
	var best *domain.AuditRun
	for _, run := range s.runs {
		if run.Status != domain.RunStatusCompleted || run.StartedAt.After(t) {
			continue
		}
		if best == nil || run.StartedAt.After(best.StartedAt) {
			best = run
		}
	}
	return best, nil
}

func (s *fakeStore) GetRun(_ context.Context, id string) (*domain.AuditRun, error) {
	return s.runs[id], nil
}

func (s *fakeStore) RunIssues(_ context.Context, runID string) ([]domain.Issue, error) {
	return s.issues[runID], nil
}

func (s *fakeStore) PagesByID(_ context.Context, ids []int64) (map[int64]*domain.Page, error) {
	out := make(map[int64]*domain.Page)
	for _, id := range ids {
		if p, ok := s.pages[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (s *fakeStore) SaveReport(_ context.Context, report *domain.AuditReport) error {
	s.saved = append(s.saved, report)
	return nil
}

func (s *fakeStore) MarkReportEmailSent(_ context.Context, reportID string, _ time.Time) error {
	s.emailMarked = append(s.emailMarked, reportID)
	return nil
}

type fakeNotifier struct {
	err   error
	calls int
}

func (n *fakeNotifier) SendReport(context.Context, *domain.AuditReport, *Diff) error {
	n.calls++
	return n.err
}

func runAt(id string, started time.Time, score int) *domain.AuditRun {
	return &domain.AuditRun{
		ID:        id,
		Status:    domain.RunStatusCompleted,
		Score:     score,
		StartedAt: started,
	}
}

func TestGenerateFirstReport(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	baseline := runAt("run-1", now.AddDate(0, 0, -10), 90)
	current := runAt("run-2", now, 85)

	store := &fakeStore{
		runs: map[string]*domain.AuditRun{"run-1": baseline, "run-2": current},
		issues: map[string][]domain.Issue{
			"run-1": {issue(1, domain.TitleMissing), issue(2, domain.ContentThin)},
			"run-2": {issue(1, domain.TitleMissing), issue(3, domain.SchemaMissing)},
		},
		pages: map[int64]*domain.Page{},
	}
	notifier := &fakeNotifier{}

	gen := NewGenerator(store, notifier, 7*24*time.Hour, nil)

	report, err := gen.Generate(context.Background(), current)
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, "run-1", report.BaselineRunID)
	assert.Equal(t, "run-2", report.CurrentRunID)
	assert.Equal(t, -5, report.ScoreDelta())
	assert.Equal(t, 1, report.IssuesNew)
	assert.Equal(t, 1, report.IssuesResolved)
	assert.True(t, report.EmailSent)
	require.NotNil(t, report.EmailSentAt)
	assert.Equal(t, 1, notifier.calls)
	require.Len(t, store.saved, 1)
	assert.Equal(t, []string{report.ID}, store.emailMarked)
}

func TestGenerateNotDueInsideInterval(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	current := runAt("run-2", now, 85)

	store := &fakeStore{
		latestReport: &domain.AuditReport{
			ID:           "rep-1",
			CurrentRunID: "run-1",
			CreatedAt:    now.AddDate(0, 0, -3),
		},
		runs: map[string]*domain.AuditRun{"run-2": current},
	}

	gen := NewGenerator(store, nil, 7*24*time.Hour, nil)

	report, err := gen.Generate(context.Background(), current)
	require.NoError(t, err)
	assert.Nil(t, report)
	assert.Empty(t, store.saved)
}

func TestGenerateContinuesFromLastReport(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	baseline := runAt("run-1", now.AddDate(0, 0, -8), 80)
	current := runAt("run-2", now, 95)

	store := &fakeStore{
		latestReport: &domain.AuditReport{
			ID:           "rep-1",
			CurrentRunID: "run-1",
			CreatedAt:    now.AddDate(0, 0, -8),
		},
		runs:   map[string]*domain.AuditRun{"run-1": baseline, "run-2": current},
		issues: map[string][]domain.Issue{},
		pages:  map[int64]*domain.Page{},
	}

	gen := NewGenerator(store, nil, 7*24*time.Hour, nil)

	report, err := gen.Generate(context.Background(), current)
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, "run-1", report.BaselineRunID)
	assert.Equal(t, 15, report.ScoreDelta())
}

func TestGenerateNoBaselineAvailable(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	current := runAt("run-1", now, 85)

	store := &fakeStore{runs: map[string]*domain.AuditRun{"run-1": current}}

	gen := NewGenerator(store, nil, 7*24*time.Hour, nil)

	report, err := gen.Generate(context.Background(), current)
	require.NoError(t, err)
	assert.Nil(t, report)
}

func TestGenerateEmailFailureDoesNotBlock(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	baseline := runAt("run-1", now.AddDate(0, 0, -10), 90)
	current := runAt("run-2", now, 90)

	store := &fakeStore{
		runs:   map[string]*domain.AuditRun{"run-1": baseline, "run-2": current},
		issues: map[string][]domain.Issue{},
		pages:  map[int64]*domain.Page{},
	}
	notifier := &fakeNotifier{err: errors.New("smtp unavailable")}

	gen := NewGenerator(store, notifier, 7*24*time.Hour, nil)

	report, err := gen.Generate(context.Background(), current)
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.False(t, report.EmailSent)
	assert.Nil(t, report.EmailSentAt)
	assert.Empty(t, store.emailMarked)
	require.Len(t, store.saved, 1)
}

func TestGeneratePageSplitCounts(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	baseline := runAt("run-1", now.AddDate(0, 0, -10), 90)
	current := runAt("run-2", now, 88)

	oldPage := baseline.StartedAt.AddDate(0, -2, 0)
	newPage := baseline.StartedAt.AddDate(0, 0, 5)

	store := &fakeStore{
		runs: map[string]*domain.AuditRun{"run-1": baseline, "run-2": current},
		issues: map[string][]domain.Issue{
			"run-1": {},
			"run-2": {issue(1, domain.TitleMissing), issue(2, domain.ContentThin)},
		},
		pages: map[int64]*domain.Page{
			1: {ID: 1, FirstPublishedAt: &oldPage},
			2: {ID: 2, FirstPublishedAt: &newPage},
		},
	}

	gen := NewGenerator(store, nil, 7*24*time.Hour, nil)

	report, err := gen.Generate(context.Background(), current)
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, 2, report.IssuesNew)
	assert.Equal(t, 1, report.IssuesNewOldPages)
	assert.Equal(t, 1, report.IssuesNewNewPages)
	assert.Equal(t, 0, report.IssuesResolved)
}
