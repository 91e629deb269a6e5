// Package checker implements the on-page SEO checks that run against
// rendered page HTML.
package checker

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/jonesrussell/seoaudit/internal/domain"
)

// Word count thresholds shared across checkers.
const (
	// MinWordCount is the word count above which a page counts as a
	// content page.
	MinWordCount = 300
	// MinWordsForParagraphs is the word count above which paragraph
	// structure is expected.
	MinWordsForParagraphs = 100
)

// Context carries per-page information the checkers need beyond the HTML.
type Context struct {
	// URL is the full URL of the page being audited.
	URL string
	// BaseDomain identifies internal links; links containing it count
	// as internal.
	BaseDomain string
}

// Checker is one SEO check over a parsed HTML document.
type Checker interface {
	// Name returns a stable identifier for the checker.
	Name() string
	// Check inspects the document and returns any issues found.
	Check(doc *goquery.Document, pctx Context) []domain.Issue
}

// Registry returns the full set of HTML checkers in the order they run.
func Registry() []Checker {
	return []Checker{
		&TitleChecker{},
		&MetaChecker{},
		&ContentChecker{},
		&HeaderChecker{},
		&ImageChecker{},
		&SchemaChecker{},
		&MobileChecker{},
		&LinkChecker{},
		&FreshnessChecker{},
	}
}

// textContent extracts the visible text of a selection with whitespace
// between adjacent elements, so words in sibling tags do not run together.
func textContent(sel *goquery.Selection) string {
	var sb strings.Builder
	for _, node := range sel.Nodes {
		collectText(node, &sb)
	}
	return strings.TrimSpace(sb.String())
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		sb.WriteByte(' ')
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

// countWords counts whitespace-separated words in text.
func countWords(text string) int {
	return len(strings.Fields(text))
}

// isContentPage reports whether the page has enough body text to be
// treated as a content page.
func isContentPage(doc *goquery.Document) bool {
	return bodyWordCount(doc) > MinWordCount
}

func bodyWordCount(doc *goquery.Document) int {
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return 0
	}
	return countWords(textContent(body))
}
