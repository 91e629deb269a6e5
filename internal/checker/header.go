package checker

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/seoaudit/internal/domain"
)

// HeaderChecker checks H1 presence, subheading usage and header hierarchy.
type HeaderChecker struct{}

// Name returns the checker identifier.
func (c *HeaderChecker) Name() string { return "header" }

// Check inspects the page's header structure.
func (c *HeaderChecker) Check(doc *goquery.Document, pctx Context) []domain.Issue {
	var issues []domain.Issue

	h1Count := doc.Find("h1").Length()
	switch {
	case h1Count == 0:
		issues = append(issues, domain.NewIssue(domain.HeaderNoH1, pctx.URL))
	case h1Count > 1:
		issues = append(issues, domain.NewIssue(domain.HeaderMultipleH1, pctx.URL, h1Count))
	}

	// Subheadings are only expected on content pages.
	if isContentPage(doc) && doc.Find("h2, h3").Length() == 0 {
		issues = append(issues, domain.NewIssue(domain.HeaderNoSubheadings, pctx.URL,
			bodyWordCount(doc)))
	}

	if issue, broken := c.checkHierarchy(doc, pctx); broken {
		issues = append(issues, issue)
	}

	return issues
}

// checkHierarchy walks headers in document order and flags the first jump
// of more than one level, e.g. an H4 directly after an H2.
func (c *HeaderChecker) checkHierarchy(doc *goquery.Document, pctx Context) (domain.Issue, bool) {
	headers := doc.Find("h1, h2, h3, h4, h5, h6")
	if headers.Length() <= 1 {
		return domain.Issue{}, false
	}

	var (
		issue     domain.Issue
		found     bool
		prevLevel int
	)
	headers.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		level := headerLevel(s)
		if prevLevel > 0 && level > prevLevel+1 {
			issue = domain.NewIssue(domain.HeaderBrokenHierarchy, pctx.URL,
				"H"+strconv.Itoa(level), "H"+strconv.Itoa(prevLevel))
			found = true
			return false
		}
		prevLevel = level
		return true
	})

	return issue, found
}

func headerLevel(s *goquery.Selection) int {
	name := goquery.NodeName(s)
	if len(name) != 2 || !strings.HasPrefix(name, "h") {
		return 0
	}
	level, err := strconv.Atoi(name[1:])
	if err != nil {
		return 0
	}
	return level
}
