package pagespeed

import (
	"regexp"
	"sort"

	"github.com/jonesrussell/seoaudit/internal/domain"
)

// Result is a parsed Lighthouse run: 0-100 category scores, key timing
// metrics, and the audits that failed.
type Result struct {
	Scores       map[string]int    `json:"scores"`
	Metrics      map[string]Metric `json:"metrics"`
	FailedAudits []FailedAudit     `json:"failed_audits"`
}

// Metric is a single Lighthouse timing metric.
type Metric struct {
	Score        *float64 `json:"score"`
	DisplayValue string   `json:"display_value"`
	NumericValue *float64 `json:"numeric_value"`
}

// FailedAudit is an audit Lighthouse flagged as failing.
type FailedAudit struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Score        float64 `json:"score"`
	DisplayValue string  `json:"display_value"`
}

// Category score thresholds on the 0-100 scale.
const (
	lowThreshold      = 90
	criticalThreshold = 50
)

// numericFailThreshold flags numeric audits scoring below it; binary
// audits fail on anything below a perfect score.
const numericFailThreshold = 0.9

// Timing metrics extracted into Result.Metrics.
var metricKeys = []string{
	"first-contentful-paint",
	"largest-contentful-paint",
	"speed-index",
	"total-blocking-time",
	"cumulative-layout-shift",
	"interactive",
}

// categoryIssues maps a Lighthouse category to its (low, critical) issue types.
var categoryIssues = map[string][2]domain.IssueType{
	"performance":    {domain.PageSpeedPerformanceScoreLow, domain.PageSpeedPerformanceScoreCritical},
	"accessibility":  {domain.PageSpeedAccessibilityScoreLow, domain.PageSpeedAccessibilityScoreCritical},
	"best-practices": {domain.PageSpeedBestPracticesScoreLow, domain.PageSpeedBestPracticesScoreCritical},
	"seo":            {domain.PageSpeedSEOScoreLow, domain.PageSpeedSEOScoreCritical},
}

// ParseLighthouse extracts scores, metrics and failed audits from a raw
// Lighthouse result.
func ParseLighthouse(lr lighthouseResult) *Result {
	res := &Result{
		Scores:  make(map[string]int),
		Metrics: make(map[string]Metric),
	}

	for id, cat := range lr.Categories {
		if cat.Score == nil {
			continue
		}
		res.Scores[id] = int(*cat.Score * 100)
	}

	for _, key := range metricKeys {
		audit, ok := lr.Audits[key]
		if !ok {
			continue
		}
		res.Metrics[key] = Metric{
			Score:        audit.Score,
			DisplayValue: audit.DisplayValue,
			NumericValue: audit.NumericValue,
		}
	}

	ids := make([]string, 0, len(lr.Audits))
	for id := range lr.Audits {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		audit := lr.Audits[id]
		if audit.Score == nil {
			continue
		}
		failed := false
		switch audit.ScoreDisplayMode {
		case "binary":
			failed = *audit.Score < 1.0
		default:
			failed = *audit.Score < numericFailThreshold
		}
		if !failed {
			continue
		}
		res.FailedAudits = append(res.FailedAudits, FailedAudit{
			ID:           id,
			Title:        audit.Title,
			Description:  audit.Description,
			Score:        *audit.Score,
			DisplayValue: audit.DisplayValue,
		})
	}

	return res
}

// IssuesFromScores turns low category scores into audit issues. Scores at
// or above the low threshold produce nothing.
func IssuesFromScores(scores map[string]int, pageURL string) []domain.Issue {
	cats := make([]string, 0, len(scores))
	for cat := range scores {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	var issues []domain.Issue
	for _, cat := range cats {
		types, ok := categoryIssues[cat]
		if !ok {
			continue
		}
		score := scores[cat]
		switch {
		case score < criticalThreshold:
			issues = append(issues, domain.NewIssue(types[1], pageURL, score))
		case score < lowThreshold:
			issues = append(issues, domain.NewIssue(types[0], pageURL, score))
		}
	}
	return issues
}

// markdownLinkPattern matches [text](url) links in audit descriptions.
var markdownLinkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

// renderMarkdownLinks converts markdown links in Lighthouse descriptions
// to HTML anchors so they render in reports.
func renderMarkdownLinks(text string) string {
	return markdownLinkPattern.ReplaceAllString(
		text, `<a href="$2" target="_blank" rel="noopener noreferrer">$1</a>`)
}

// IssuesFromAudits turns failed Lighthouse audits into audit issues.
func IssuesFromAudits(audits []FailedAudit, pageURL string) []domain.Issue {
	issues := make([]domain.Issue, 0, len(audits))
	for _, audit := range audits {
		issues = append(issues, domain.NewIssue(
			domain.PageSpeedLighthouseAuditFailed, pageURL,
			audit.Title, renderMarkdownLinks(audit.Description)))
	}
	return issues
}

// Issues combines score and audit issues for a parsed result.
func (r *Result) Issues(pageURL string) []domain.Issue {
	issues := IssuesFromScores(r.Scores, pageURL)
	return append(issues, IssuesFromAudits(r.FailedAudits, pageURL)...)
}
