// Package domain provides domain models used across the application.
package domain

// Severity is the ordered severity level of an audit issue.
type Severity int

const (
	SeverityLow    Severity = 1
	SeverityMedium Severity = 2
	SeverityHigh   Severity = 3
)

// String returns the display name for a severity level.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// IssueType identifies one kind of detected SEO problem.
type IssueType string

const (
	// Title issues
	TitleMissing  IssueType = "title_missing"
	TitleTooShort IssueType = "title_too_short"
	TitleTooLong  IssueType = "title_too_long"

	// Meta description issues
	MetaDescriptionMissing   IssueType = "meta_description_missing"
	MetaDescriptionTooShort  IssueType = "meta_description_too_short"
	MetaDescriptionTooLong   IssueType = "meta_description_too_long"
	MetaDescriptionDuplicate IssueType = "meta_description_duplicate"
	MetaDescriptionNoCTA     IssueType = "meta_description_no_cta"

	// Content issues
	ContentEmpty        IssueType = "content_empty"
	ContentThin         IssueType = "content_thin"
	ContentNoParagraphs IssueType = "content_no_paragraphs"

	// Header issues
	HeaderNoH1            IssueType = "header_no_h1"
	HeaderMultipleH1      IssueType = "header_multiple_h1"
	HeaderNoSubheadings   IssueType = "header_no_subheadings"
	HeaderBrokenHierarchy IssueType = "header_broken_hierarchy"

	// Image issues
	ImageNoAlt      IssueType = "image_no_alt"
	ImageAltGeneric IssueType = "image_alt_generic"
	ImageAltTooLong IssueType = "image_alt_too_long"

	// Schema issues
	SchemaMissing        IssueType = "schema_missing"
	SchemaNoOrganization IssueType = "schema_no_organization"
	SchemaNoArticle      IssueType = "schema_no_article"
	SchemaInvalid        IssueType = "schema_invalid"

	// Mobile issues
	MobileNoViewport IssueType = "mobile_no_viewport"
	MobileFixedWidth IssueType = "mobile_fixed_width"
	MobileTextSmall  IssueType = "mobile_text_small"

	// Internal linking issues
	InternalLinksNone        IssueType = "internal_links_none"
	InternalLinksFew         IssueType = "internal_links_few"
	InternalLinksAllExternal IssueType = "internal_links_all_external"

	// Content freshness issues
	ContentNotUpdated     IssueType = "content_not_updated"
	ContentNoPublishDate  IssueType = "content_no_publish_date"
	ContentNoModifiedDate IssueType = "content_no_modified_date"

	// PageSpeed Insights issues
	PageSpeedPerformanceScoreLow        IssueType = "pagespeed_performance_score_low"
	PageSpeedPerformanceScoreCritical   IssueType = "pagespeed_performance_score_critical"
	PageSpeedAccessibilityScoreLow      IssueType = "pagespeed_accessibility_score_low"
	PageSpeedAccessibilityScoreCritical IssueType = "pagespeed_accessibility_score_critical"
	PageSpeedBestPracticesScoreLow      IssueType = "pagespeed_best_practices_score_low"
	PageSpeedBestPracticesScoreCritical IssueType = "pagespeed_best_practices_score_critical"
	PageSpeedSEOScoreLow                IssueType = "pagespeed_seo_score_low"
	PageSpeedSEOScoreCritical           IssueType = "pagespeed_seo_score_critical"
	PageSpeedLighthouseAuditFailed      IssueType = "pagespeed_lighthouse_audit_failed"

	// Placeholder processing issues
	PlaceholderUnprocessed IssueType = "placeholder_unprocessed"
)

// Issue is one detected SEO problem on a page.
// Severity and RequiresDevFix are always derived from IssueType via the
// taxonomy tables; construct issues with NewIssue so the derivation holds
// at every call site.
type Issue struct {
	ID             string    `db:"id"               json:"id"`
	RunID          string    `db:"run_id"           json:"run_id,omitempty"`
	PageID         int64     `db:"page_id"          json:"page_id"`
	IssueType      IssueType `db:"issue_type"       json:"issue_type"`
	Severity       Severity  `db:"issue_severity"   json:"issue_severity"`
	PageURL        string    `db:"page_url"         json:"page_url"`
	PageTitle      string    `db:"page_title"       json:"page_title,omitempty"`
	Description    string    `db:"description"      json:"description"`
	RequiresDevFix bool      `db:"requires_dev_fix" json:"requires_dev_fix"`
}

// NewIssue builds an Issue for a page, deriving severity and the dev-fix
// flag from the issue type. Description template arguments are applied in
// the order the template expects them.
func NewIssue(t IssueType, pageURL string, args ...any) Issue {
	return Issue{
		IssueType:      t,
		Severity:       SeverityFor(t),
		PageURL:        pageURL,
		Description:    Description(t, args...),
		RequiresDevFix: RequiresDevFix(t),
	}
}
