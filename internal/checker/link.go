package checker

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/seoaudit/internal/domain"
)

// MinInternalLinks is the minimum internal link count for content pages.
const MinInternalLinks = 3

// LinkChecker checks internal linking.
type LinkChecker struct{}

// Name returns the checker identifier.
func (c *LinkChecker) Name() string { return "link" }

// Check inspects the page's anchor tags.
func (c *LinkChecker) Check(doc *goquery.Document, pctx Context) []domain.Issue {
	var issues []domain.Issue

	links := doc.Find("a[href]")
	if links.Length() == 0 {
		// No links at all is not by itself an issue.
		return issues
	}

	internal, external := categorizeLinks(links, pctx.BaseDomain)

	switch {
	case internal == 0 && external > 0:
		issues = append(issues, domain.NewIssue(domain.InternalLinksAllExternal, pctx.URL, external))
	case internal == 0:
		issues = append(issues, domain.NewIssue(domain.InternalLinksNone, pctx.URL))
	case internal < MinInternalLinks && isContentPage(doc):
		issues = append(issues, domain.NewIssue(domain.InternalLinksFew, pctx.URL,
			internal, MinInternalLinks))
	}

	return issues
}

// categorizeLinks splits anchors into internal and external counts.
// Anchor-only, empty and javascript: hrefs are skipped; relative links
// count as internal.
func categorizeLinks(links *goquery.Selection, baseDomain string) (internal, external int) {
	links.Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		switch {
		case href == "", strings.HasPrefix(href, "#"), strings.HasPrefix(href, "javascript:"):
		case strings.HasPrefix(href, "/"),
			baseDomain != "" && strings.Contains(href, baseDomain):
			internal++
		case strings.HasPrefix(href, "http"):
			external++
		default:
			internal++
		}
	})
	return internal, external
}
