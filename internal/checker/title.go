package checker

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/seoaudit/internal/domain"
)

// Title tag constraints.
const (
	TitleMinLength = 50
	TitleMaxLength = 60
)

// TitleChecker checks title tag presence and length.
type TitleChecker struct{}

// Name returns the checker identifier.
func (c *TitleChecker) Name() string { return "title" }

// Check inspects the title tag.
func (c *TitleChecker) Check(doc *goquery.Document, pctx Context) []domain.Issue {
	var issues []domain.Issue

	// Collapse whitespace runs so multi-line titles measure the way they
	// render.
	title := strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
	if title == "" {
		return append(issues, domain.NewIssue(domain.TitleMissing, pctx.URL))
	}

	length := len([]rune(title))
	switch {
	case length < TitleMinLength:
		issues = append(issues, domain.NewIssue(domain.TitleTooShort, pctx.URL,
			length, TitleMinLength, TitleMaxLength, title))
	case length > TitleMaxLength:
		issues = append(issues, domain.NewIssue(domain.TitleTooLong, pctx.URL,
			length, TitleMinLength, TitleMaxLength))
	}

	return issues
}
