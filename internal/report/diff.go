package report

import (
	"time"

	"github.com/jonesrussell/seoaudit/internal/domain"
)

// Key identifies an issue for diffing purposes. Two runs reporting the
// same issue type on the same page are treated as the same ongoing issue.
type Key struct {
	PageID    int64
	IssueType domain.IssueType
}

// KeyFor returns the diff key of an issue.
func KeyFor(issue domain.Issue) Key {
	return Key{PageID: issue.PageID, IssueType: issue.IssueType}
}

// Diff is the result of comparing two runs' issue sets.
type Diff struct {
	// New holds current-run issues whose key is absent from the baseline.
	New []domain.Issue
	// Fixed holds baseline issues whose key is absent from the current run.
	Fixed []domain.Issue
	// NewOnOldPages are new issues on pages published before the baseline run.
	NewOnOldPages []domain.Issue
	// NewOnNewPages are new issues on pages published after the baseline run.
	NewOnNewPages []domain.Issue
}

// Compare diffs the baseline and current issue sets by (page, issue type)
// key. The pages index and baseline time drive the old/new page split;
// issues on pages with no known publish date land in neither split.
func Compare(baseline, current []domain.Issue, pages map[int64]*domain.Page, baselineTime time.Time) *Diff {
	baselineKeys := keySet(baseline)
	currentKeys := keySet(current)

	diff := &Diff{}

	for _, issue := range current {
		if _, ok := baselineKeys[KeyFor(issue)]; ok {
			continue
		}
		diff.New = append(diff.New, issue)

		page, ok := pages[issue.PageID]
		if !ok || page.FirstPublishedAt == nil {
			continue
		}
		if page.FirstPublishedAt.After(baselineTime) {
			diff.NewOnNewPages = append(diff.NewOnNewPages, issue)
		} else {
			diff.NewOnOldPages = append(diff.NewOnOldPages, issue)
		}
	}

	for _, issue := range baseline {
		if _, ok := currentKeys[KeyFor(issue)]; !ok {
			diff.Fixed = append(diff.Fixed, issue)
		}
	}

	return diff
}

func keySet(issues []domain.Issue) map[Key]struct{} {
	set := make(map[Key]struct{}, len(issues))
	for _, issue := range issues {
		set[KeyFor(issue)] = struct{}{}
	}
	return set
}
