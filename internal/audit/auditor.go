// Package audit orchestrates checker execution over pages and rolls the
// findings up into scored audit runs.
package audit

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/seoaudit/internal/checker"
	"github.com/jonesrussell/seoaudit/internal/domain"
	"github.com/jonesrussell/seoaudit/internal/logger"
	"github.com/jonesrussell/seoaudit/internal/pagespeed"
)

// Auditor runs every registered checker over a single page.
type Auditor struct {
	checkers        []checker.Checker
	placeholder     *checker.PlaceholderChecker
	pagespeed       *pagespeed.Checker
	includeDevFixes bool
	logger          logger.Interface
}

// AuditorOption configures an Auditor.
type AuditorOption func(*Auditor)

// WithPageSpeed attaches the network-backed performance checker.
func WithPageSpeed(chk *pagespeed.Checker) AuditorOption {
	return func(a *Auditor) { a.pagespeed = chk }
}

// WithPlaceholderChecker attaches the metadata placeholder-leak checker.
func WithPlaceholderChecker(chk *checker.PlaceholderChecker) AuditorOption {
	return func(a *Auditor) { a.placeholder = chk }
}

// WithoutDevFixIssues drops issues editors cannot fix themselves.
func WithoutDevFixIssues() AuditorOption {
	return func(a *Auditor) { a.includeDevFixes = false }
}

// NewAuditor builds an auditor with the full checker registry.
func NewAuditor(log logger.Interface, opts ...AuditorOption) *Auditor {
	if log == nil {
		log = logger.NewNoOp()
	}
	a := &Auditor{
		checkers:        checker.Registry(),
		includeDevFixes: true,
		logger:          log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AuditPage parses the rendered HTML and runs all checks over it. Every
// returned issue is stamped with the page's id and title.
func (a *Auditor) AuditPage(ctx context.Context, page *domain.Page, html string) ([]domain.Issue, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html for %s: %w", page.URL, err)
	}

	pctx := checker.Context{
		URL:        page.URL,
		BaseDomain: extractBaseDomain(page.URL),
	}

	var issues []domain.Issue
	for _, c := range a.checkers {
		issues = append(issues, c.Check(doc, pctx)...)
	}

	if a.placeholder != nil {
		issues = append(issues, a.placeholder.CheckPage(page)...)
	}

	if a.pagespeed != nil {
		issues = append(issues, a.pagespeed.Check(ctx, page.URL)...)
	}

	if !a.includeDevFixes {
		issues = dropDevFixIssues(issues)
	}

	for i := range issues {
		issues[i].PageID = page.ID
		issues[i].PageTitle = page.Title
	}

	a.logger.Debug("page audited", "url", page.URL, "issues", len(issues))
	return issues, nil
}

func dropDevFixIssues(issues []domain.Issue) []domain.Issue {
	kept := issues[:0]
	for _, issue := range issues {
		if !issue.RequiresDevFix {
			kept = append(kept, issue)
		}
	}
	return kept
}

// extractBaseDomain returns scheme://host for an absolute URL, or an
// empty string when the URL has no host.
func extractBaseDomain(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
