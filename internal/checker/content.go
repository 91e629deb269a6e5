package checker

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/seoaudit/internal/domain"
)

// nonContentSelector matches elements stripped before counting words.
const nonContentSelector = "script, style, nav, header, footer"

// ContentChecker checks content depth: word count and paragraph structure.
type ContentChecker struct{}

// Name returns the checker identifier.
func (c *ContentChecker) Name() string { return "content" }

// Check inspects the main content area of the page.
func (c *ContentChecker) Check(doc *goquery.Document, pctx Context) []domain.Issue {
	var issues []domain.Issue

	main := mainContent(doc)
	if main == nil {
		return append(issues, domain.NewIssue(domain.ContentEmpty, pctx.URL, "discernible"))
	}

	// Work on a clone so stripping chrome elements leaves the document
	// intact for later checkers.
	clean := main.Clone()
	clean.Find(nonContentSelector).Remove()

	wordCount := countWords(textContent(clean))
	if wordCount == 0 {
		return append(issues, domain.NewIssue(domain.ContentEmpty, pctx.URL, "text"))
	}

	if wordCount < MinWordCount {
		issues = append(issues, domain.NewIssue(domain.ContentThin, pctx.URL,
			wordCount, MinWordCount))
	}

	if wordCount > MinWordsForParagraphs && clean.Find("p").Length() == 0 {
		issues = append(issues, domain.NewIssue(domain.ContentNoParagraphs, pctx.URL))
	}

	return issues
}

// mainContent locates the primary content element: main, then article,
// then body.
func mainContent(doc *goquery.Document) *goquery.Selection {
	for _, selector := range []string{"main", "article", "body"} {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			return sel
		}
	}
	return nil
}
