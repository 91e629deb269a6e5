package checker

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/seoaudit/internal/domain"
)

// MaxContentAgeDays is how old published content may get before it is
// flagged as stale.
const MaxContentAgeDays = 365

var publishedDateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FreshnessChecker checks publish/modified date metadata and content age.
type FreshnessChecker struct {
	// Now overrides the clock in tests. Nil means time.Now.
	Now func() time.Time
}

// Name returns the checker identifier.
func (c *FreshnessChecker) Name() string { return "freshness" }

// Check inspects date metadata in meta tags and JSON-LD.
func (c *FreshnessChecker) Check(doc *goquery.Document, pctx Context) []domain.Issue {
	var issues []domain.Issue

	publishedDate, hasPublishedSchema := publishedDateFromSchema(doc)

	if !hasPublishedMeta(doc) && !hasPublishedSchema {
		issues = append(issues, domain.NewIssue(domain.ContentNoPublishDate, pctx.URL))
	}
	if !hasModifiedMeta(doc) && !hasModifiedSchema(doc) {
		issues = append(issues, domain.NewIssue(domain.ContentNoModifiedDate, pctx.URL))
	}

	if !publishedDate.IsZero() {
		now := time.Now
		if c.Now != nil {
			now = c.Now
		}
		daysOld := int(now().Sub(publishedDate).Hours() / 24)
		if daysOld > MaxContentAgeDays {
			issues = append(issues, domain.NewIssue(domain.ContentNotUpdated, pctx.URL, daysOld))
		}
	}

	return issues
}

func hasPublishedMeta(doc *goquery.Document) bool {
	return doc.Find(`meta[property="article:published_time"]`).Length() > 0 ||
		doc.Find(`meta[name="publish_date"]`).Length() > 0 ||
		doc.Find(`meta[name="date"]`).Length() > 0
}

func hasModifiedMeta(doc *goquery.Document) bool {
	return doc.Find(`meta[property="article:modified_time"]`).Length() > 0 ||
		doc.Find(`meta[name="last-modified"]`).Length() > 0
}

// publishedDateFromSchema scans JSON-LD blocks for a datePublished field.
// found is true whenever the field is present, even if its value fails to
// parse.
func publishedDateFromSchema(doc *goquery.Document) (date time.Time, found bool) {
	forEachSchemaItem(doc, func(item map[string]any) bool {
		raw, ok := item["datePublished"]
		if !ok {
			return true
		}
		found = true
		if s, ok := raw.(string); ok {
			date = parsePublishedDate(s)
		}
		return false
	})
	return date, found
}

func hasModifiedSchema(doc *goquery.Document) bool {
	found := false
	forEachSchemaItem(doc, func(item map[string]any) bool {
		if _, ok := item["dateModified"]; ok {
			found = true
			return false
		}
		return true
	})
	return found
}

// forEachSchemaItem calls fn for every object in the page's JSON-LD
// blocks until fn returns false. Unparseable blocks are skipped.
func forEachSchemaItem(doc *goquery.Document, fn func(map[string]any) bool) {
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, script *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(script.Text()), &data); err != nil {
			return true
		}
		for _, obj := range jsonLDObjects(data) {
			if !fn(obj) {
				return false
			}
		}
		return true
	})
}

func parsePublishedDate(raw string) time.Time {
	raw = strings.Replace(raw, "Z", "+00:00", 1)
	for _, format := range publishedDateFormats {
		if t, err := time.Parse(format, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
