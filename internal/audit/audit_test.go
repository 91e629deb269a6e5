package audit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/seoaudit/internal/domain"
)

func TestScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		issues int
		pages  int
		want   int
	}{
		{"no pages", 0, 0, 100},
		{"clean run", 0, 10, 100},
		{"one issue per page", 10, 10, 95},
		{"fractional average truncates", 3, 2, 92},
		{"heavy issue load floors at zero", 500, 10, 0},
		{"exactly at floor", 200, 10, 0},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Score(tt.issues, tt.pages))
		})
	}
}

func TestScoreMonotonicInIssueCount(t *testing.T) {
	t.Parallel()

	prev := Score(0, 5)
	for issues := 1; issues <= 250; issues++ {
		cur := Score(issues, 5)
		assert.LessOrEqual(t, cur, prev, "issues=%d", issues)
		assert.GreaterOrEqual(t, cur, 0)
		assert.LessOrEqual(t, cur, 100)
		prev = cur
	}
}

func TestExtractBaseDomain(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://example.com", extractBaseDomain("https://example.com/about?x=1"))
	assert.Equal(t, "http://example.com:8080", extractBaseDomain("http://example.com:8080/"))
	assert.Equal(t, "", extractBaseDomain(""))
	assert.Equal(t, "", extractBaseDomain("/relative/path"))
}

const auditedPage = `<!DOCTYPE html>
<html><head>
<title>Artisan Sourdough Baking Guide For Complete Beginners</title>
<meta name="description" content="Learn how to bake artisan sourdough bread at home with our complete beginners guide covering starters, proofing, shaping and baking your first loaf.">
<meta name="viewport" content="width=device-width, initial-scale=1">
<script type="application/ld+json">{"@type": "Organization", "name": "Bakery"}</script>
</head><body>
<h1>Sourdough Guide</h1>
<p><a href="/recipes">Recipes</a> <a href="/starters">Starters</a> <a href="/tools">Tools</a></p>
</body></html>`

func TestAuditPageStampsPageFields(t *testing.T) {
	t.Parallel()

	auditor := NewAuditor(nil)
	page := &domain.Page{ID: 42, Title: "Guide", URL: "https://example.com/guide"}

	issues, err := auditor.AuditPage(context.Background(), page, auditedPage)
	require.NoError(t, err)
	require.NotEmpty(t, issues)

	for _, issue := range issues {
		assert.Equal(t, int64(42), issue.PageID)
		assert.Equal(t, "Guide", issue.PageTitle)
		assert.Equal(t, "https://example.com/guide", issue.PageURL)
	}
}

func TestAuditPageWithoutDevFixIssues(t *testing.T) {
	t.Parallel()

	// No viewport or schema: both produce dev-fix issues.
	html := `<html><head><title>x</title></head><body></body></html>`
	page := &domain.Page{ID: 1, URL: "https://example.com/"}

	full, err := NewAuditor(nil).AuditPage(context.Background(), page, html)
	require.NoError(t, err)

	filtered, err := NewAuditor(nil, WithoutDevFixIssues()).AuditPage(context.Background(), page, html)
	require.NoError(t, err)

	assert.Less(t, len(filtered), len(full))
	for _, issue := range filtered {
		assert.False(t, issue.RequiresDevFix, issue.IssueType)
	}
}

// fakeRunStore records runner persistence calls.
type fakeRunStore struct {
	mu        sync.Mutex
	active    bool
	claimed   []*domain.AuditRun
	issues    []domain.Issue
	completed *domain.AuditRun
	failed    *domain.AuditRun
	saveErr   error
}

func (s *fakeRunStore) ClaimRun(_ context.Context, run *domain.AuditRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return ErrRunActive
	}
	s.active = true
	s.claimed = append(s.claimed, run)
	return nil
}

func (s *fakeRunStore) SaveIssues(_ context.Context, issues []domain.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.issues = append(s.issues, issues...)
	return nil
}

func (s *fakeRunStore) CompleteRun(_ context.Context, run *domain.AuditRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed = run
	s.active = false
	return nil
}

func (s *fakeRunStore) FailRun(_ context.Context, run *domain.AuditRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = run
	s.active = false
	return nil
}

type staticSource struct {
	html map[int64]string
	err  error
}

func (s *staticSource) FetchHTML(_ context.Context, page *domain.Page) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.html[page.ID], nil
}

func testPages() []*domain.Page {
	return []*domain.Page{
		{ID: 1, Title: "Home", URL: "https://example.com/"},
		{ID: 2, Title: "About", URL: "https://example.com/about"},
	}
}

func TestRunnerRun(t *testing.T) {
	t.Parallel()

	store := &fakeRunStore{}
	source := &staticSource{html: map[int64]string{
		1: auditedPage,
		2: `<html><head></head><body></body></html>`,
	}}

	runner := NewRunner(store, source, NewAuditor(nil), 2, nil)

	run, err := runner.Run(context.Background(), testPages())
	require.NoError(t, err)
	require.NotNil(t, run)

	assert.Equal(t, domain.RunStatusCompleted, run.Status)
	assert.Equal(t, 2, run.TotalPages)
	assert.Equal(t, len(store.issues), run.TotalIssues)
	assert.NotNil(t, run.CompletedAt)
	assert.Equal(t, Score(run.TotalIssues, 2), run.Score)

	require.NotNil(t, store.completed)
	for _, issue := range store.issues {
		assert.Equal(t, run.ID, issue.RunID)
	}
}

func TestRunnerRejectsConcurrentRun(t *testing.T) {
	t.Parallel()

	store := &fakeRunStore{active: true}
	runner := NewRunner(store, &staticSource{}, NewAuditor(nil), 1, nil)

	run, err := runner.Run(context.Background(), testPages())
	assert.Nil(t, run)
	require.ErrorIs(t, err, ErrRunActive)
}

func TestRunnerSkipsUnrenderablePages(t *testing.T) {
	t.Parallel()

	store := &fakeRunStore{}
	source := &staticSource{err: errors.New("render failed")}
	runner := NewRunner(store, source, NewAuditor(nil), 1, nil)

	run, err := runner.Run(context.Background(), testPages())
	require.NoError(t, err)

	assert.Equal(t, domain.RunStatusCompleted, run.Status)
	assert.Equal(t, 2, run.TotalPages)
	assert.Equal(t, 0, run.TotalIssues)
	assert.Equal(t, 100, run.Score)
}

func TestRunnerMarksRunFailedOnPersistenceError(t *testing.T) {
	t.Parallel()

	store := &fakeRunStore{saveErr: errors.New("db gone")}
	source := &staticSource{html: map[int64]string{
		1: auditedPage,
		2: auditedPage,
	}}
	runner := NewRunner(store, source, NewAuditor(nil), 1, nil)

	run, err := runner.Run(context.Background(), testPages())
	require.Error(t, err)
	require.NotNil(t, run)

	assert.Equal(t, domain.RunStatusFailed, run.Status)
	assert.NotEmpty(t, run.Error)
	require.NotNil(t, store.failed)
	assert.Nil(t, store.completed)
}

func TestDuplicateDescriptionIssues(t *testing.T) {
	t.Parallel()

	pages := []*domain.Page{
		{ID: 1, URL: "https://example.com/a", SearchDescription: "Shared description"},
		{ID: 2, URL: "https://example.com/b", SearchDescription: "Shared description"},
		{ID: 3, URL: "https://example.com/c", SearchDescription: "Unique description"},
		{ID: 4, URL: "https://example.com/d"},
	}

	issues := duplicateDescriptionIssues("run-1", pages)

	require.Len(t, issues, 2)
	for _, issue := range issues {
		assert.Equal(t, domain.MetaDescriptionDuplicate, issue.IssueType)
		assert.Equal(t, "run-1", issue.RunID)
		assert.Contains(t, issue.Description, "1 other page(s)")
	}
	assert.Equal(t, int64(1), issues[0].PageID)
	assert.Equal(t, int64(2), issues[1].PageID)
}
