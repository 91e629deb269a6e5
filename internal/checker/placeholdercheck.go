package checker

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jonesrussell/seoaudit/internal/domain"
)

var placeholderPattern = regexp.MustCompile(`\{[^}]+\}`)

// PlaceholderChecker flags unprocessed template placeholders left in page
// SEO metadata. Unlike the HTML checkers it inspects stored page fields,
// and it only fires when runtime placeholder processing is disabled —
// with processing on, placeholders in stored fields are expected.
type PlaceholderChecker struct {
	// RuntimeProcessing mirrors the processing setting: when true,
	// placeholders are resolved at serve time and this check is a no-op.
	RuntimeProcessing bool
}

// Name returns the checker identifier.
func (c *PlaceholderChecker) Name() string { return "placeholder" }

// CheckPage inspects a page's stored SEO fields for raw placeholders.
func (c *PlaceholderChecker) CheckPage(page *domain.Page) []domain.Issue {
	if c.RuntimeProcessing {
		return nil
	}

	var found []string
	for _, m := range placeholderPattern.FindAllString(page.SEOTitle, -1) {
		found = append(found, "seo_title: "+m)
	}
	for _, m := range placeholderPattern.FindAllString(page.SearchDescription, -1) {
		found = append(found, "search_description: "+m)
	}
	if len(found) == 0 {
		return nil
	}

	return []domain.Issue{
		domain.NewIssue(domain.PlaceholderUnprocessed, page.URL,
			strings.Join(dedupe(found), ", ")),
	}
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
