package checker

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/seoaudit/internal/domain"
)

// Meta description constraints.
const (
	MetaDescMinLength = 120
	MetaDescMaxLength = 160
)

// CTAKeywords are call-to-action words searched for in meta descriptions.
var CTAKeywords = []string{
	"buy", "learn", "discover", "get", "find",
	"explore", "download", "try", "start", "join",
}

// MetaChecker checks meta description presence, length and CTA usage.
type MetaChecker struct{}

// Name returns the checker identifier.
func (c *MetaChecker) Name() string { return "meta" }

// Check inspects the meta description tag.
func (c *MetaChecker) Check(doc *goquery.Document, pctx Context) []domain.Issue {
	var issues []domain.Issue

	desc, _ := doc.Find(`meta[name="description"]`).First().Attr("content")
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return append(issues, domain.NewIssue(domain.MetaDescriptionMissing, pctx.URL))
	}

	length := len([]rune(desc))
	switch {
	case length < MetaDescMinLength:
		issues = append(issues, domain.NewIssue(domain.MetaDescriptionTooShort, pctx.URL,
			length, MetaDescMinLength, MetaDescMaxLength))
	case length > MetaDescMaxLength:
		issues = append(issues, domain.NewIssue(domain.MetaDescriptionTooLong, pctx.URL,
			length, MetaDescMinLength, MetaDescMaxLength))
	}

	if !containsCTA(desc) {
		issues = append(issues, domain.NewIssue(domain.MetaDescriptionNoCTA, pctx.URL,
			strings.Join(CTAKeywords[:5], ", ")))
	}

	return issues
}

func containsCTA(desc string) bool {
	lower := strings.ToLower(desc)
	for _, word := range CTAKeywords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}
