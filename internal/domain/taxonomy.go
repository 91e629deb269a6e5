package domain

import "fmt"

// severityTable maps every issue type to its severity. Severity is a pure
// function of the issue type; nothing else may set it.
var severityTable = map[IssueType]Severity{
	TitleMissing:  SeverityHigh,
	TitleTooShort: SeverityMedium,
	TitleTooLong:  SeverityMedium,

	MetaDescriptionMissing:   SeverityHigh,
	MetaDescriptionTooShort:  SeverityMedium,
	MetaDescriptionTooLong:   SeverityMedium,
	MetaDescriptionDuplicate: SeverityLow,
	MetaDescriptionNoCTA:     SeverityLow,

	ContentEmpty:        SeverityHigh,
	ContentThin:         SeverityMedium,
	ContentNoParagraphs: SeverityLow,

	HeaderNoH1:            SeverityHigh,
	HeaderMultipleH1:      SeverityMedium,
	HeaderNoSubheadings:   SeverityMedium,
	HeaderBrokenHierarchy: SeverityLow,

	ImageNoAlt:      SeverityMedium,
	ImageAltGeneric: SeverityLow,
	ImageAltTooLong: SeverityLow,

	SchemaMissing:        SeverityHigh,
	SchemaNoOrganization: SeverityMedium,
	SchemaNoArticle:      SeverityMedium,
	SchemaInvalid:        SeverityHigh,

	MobileNoViewport: SeverityHigh,
	MobileFixedWidth: SeverityMedium,
	MobileTextSmall:  SeverityMedium,

	InternalLinksNone:        SeverityMedium,
	InternalLinksFew:         SeverityLow,
	InternalLinksAllExternal: SeverityMedium,

	ContentNotUpdated:     SeverityLow,
	ContentNoPublishDate:  SeverityLow,
	ContentNoModifiedDate: SeverityLow,

	PageSpeedPerformanceScoreLow:        SeverityMedium,
	PageSpeedPerformanceScoreCritical:   SeverityHigh,
	PageSpeedAccessibilityScoreLow:      SeverityMedium,
	PageSpeedAccessibilityScoreCritical: SeverityHigh,
	PageSpeedBestPracticesScoreLow:      SeverityMedium,
	PageSpeedBestPracticesScoreCritical: SeverityHigh,
	PageSpeedSEOScoreLow:                SeverityMedium,
	PageSpeedSEOScoreCritical:           SeverityHigh,
	PageSpeedLighthouseAuditFailed:      SeverityMedium,

	PlaceholderUnprocessed: SeverityHigh,
}

// devFixTable holds issue types content editors cannot fix themselves.
var devFixTable = map[IssueType]struct{}{
	SchemaMissing:        {},
	SchemaNoOrganization: {},
	SchemaNoArticle:      {},
	SchemaInvalid:        {},

	MobileNoViewport: {},
	MobileFixedWidth: {},
	MobileTextSmall:  {},

	ContentNoPublishDate:  {},
	ContentNoModifiedDate: {},

	PageSpeedPerformanceScoreLow:        {},
	PageSpeedPerformanceScoreCritical:   {},
	PageSpeedAccessibilityScoreLow:      {},
	PageSpeedAccessibilityScoreCritical: {},
	PageSpeedBestPracticesScoreLow:      {},
	PageSpeedBestPracticesScoreCritical: {},
	PageSpeedSEOScoreLow:                {},
	PageSpeedSEOScoreCritical:           {},
	PageSpeedLighthouseAuditFailed:      {},
}

// descriptionTemplates maps each issue type to its description template.
// Templates without verbs ignore any arguments passed to Description.
var descriptionTemplates = map[IssueType]string{
	TitleMissing:  "Page is missing a title tag. This is critical for SEO as title tags are the #1 on-page SEO factor.",
	TitleTooShort: "Title tag is too short (%d chars). Recommended: %d-%d characters. Current title: %q",
	TitleTooLong:  "Title tag is too long (%d chars). It may be truncated in search results. Recommended: %d-%d characters.",

	MetaDescriptionMissing:   "Page is missing a meta description. This impacts click-through rate in search results and AI Overviews context.",
	MetaDescriptionTooShort:  "Meta description is too short (%d chars). Recommended: %d-%d characters.",
	MetaDescriptionTooLong:   "Meta description is too long (%d chars). It may be truncated in search results. Recommended: %d-%d characters.",
	MetaDescriptionDuplicate: "Meta description is identical to %d other page(s). Duplicate descriptions dilute search result relevance.",
	MetaDescriptionNoCTA:     "Meta description lacks call-to-action words (e.g., %s). Adding CTAs can improve click-through rates.",

	ContentEmpty:        "Page has no %s content. Empty pages rarely rank in search results.",
	ContentThin:         "Page has thin content (%d words). Recommended: at least %d words. AI Overviews favor comprehensive content.",
	ContentNoParagraphs: "Content lacks paragraph structure. Breaking content into paragraphs improves readability and user experience.",

	HeaderNoH1:            "Page is missing an H1 tag. H1 tags are critical for SEO and help search engines understand page content.",
	HeaderMultipleH1:      "Page has %d H1 tags. Best practice is to have exactly one H1 per page.",
	HeaderNoSubheadings:   "Page has %d words but no H2 or H3 subheadings. Headers help structure content for users and search engines.",
	HeaderBrokenHierarchy: "Header hierarchy is broken: found %s after %s. Headers should follow sequential order (H1→H2→H3).",

	ImageNoAlt:      "%d image(s) are missing alt text. Alt text is critical for accessibility and helps images rank in Google Images.",
	ImageAltGeneric: "Image has generic alt text: %q. Alt text should be descriptive and meaningful.",
	ImageAltTooLong: "Image alt text is too long (%d chars). Recommended: under %d characters.",

	SchemaMissing:        "Page has no Schema markup (JSON-LD). AI Overviews and Google rely on structured data to understand content.",
	SchemaNoOrganization: "Page is missing Organization/Person schema. This helps establish entity relationships and trust signals.",
	SchemaNoArticle:      "Content page is missing Article/BlogPosting schema. This helps with rich results and AI Overview citations.",
	SchemaInvalid:        "Page has invalid JSON-LD structured data. Fix syntax errors to ensure search engines can parse your schema.",

	MobileNoViewport: `Page is missing viewport meta tag. This is essential for mobile-first indexing. Add: <meta name="viewport" content="width=device-width, initial-scale=1">`,
	MobileFixedWidth: "Page appears to use fixed-width layout. Use responsive design with relative units (%, em, rem) for better mobile experience.",
	MobileTextSmall:  "Page text appears too small for mobile devices. Use a base font size of at least 16px.",

	InternalLinksNone:        "Page has no internal links. Internal linking is critical for topical authority and helping users navigate your site.",
	InternalLinksFew:         "Content page has only %d internal link(s). Recommended: at least %d internal links for better site structure.",
	InternalLinksAllExternal: "Page has %d external links but no internal links. Internal links help Google understand site structure.",

	ContentNotUpdated:     "Content was published %d days ago and may need updating. Google favors fresh content for time-sensitive queries.",
	ContentNoPublishDate:  "Content page is missing published date metadata. Add article:published_time meta tag or datePublished in schema.",
	ContentNoModifiedDate: "Content page is missing last modified date. Add article:modified_time meta tag or dateModified in schema for time-sensitive content.",

	PageSpeedPerformanceScoreLow:        "Performance score is %d/100. Consider optimizing images, reducing JavaScript, and improving server response times.",
	PageSpeedPerformanceScoreCritical:   "Performance score is critically low (%d/100). This significantly impacts user experience and SEO rankings.",
	PageSpeedAccessibilityScoreLow:      "Accessibility score is %d/100. Improve keyboard navigation, color contrast, and screen reader compatibility.",
	PageSpeedAccessibilityScoreCritical: "Accessibility score is critically low (%d/100). This creates barriers for users with disabilities.",
	PageSpeedBestPracticesScoreLow:      "Best practices score is %d/100. Address security vulnerabilities, deprecated APIs, and modern web standards.",
	PageSpeedBestPracticesScoreCritical: "Best practices score is critically low (%d/100). Critical security or compatibility issues detected.",
	PageSpeedSEOScoreLow:                "SEO score is %d/100. Improve meta tags, structured data, and content optimization.",
	PageSpeedSEOScoreCritical:           "SEO score is critically low (%d/100). Major SEO issues affecting search visibility.",
	PageSpeedLighthouseAuditFailed:      "Lighthouse audit failed: %s. %s",

	PlaceholderUnprocessed: "SEO metadata contains unprocessed placeholders (%s). Runtime processing is disabled. Re-apply templates in the bulk editor to process placeholders.",
}

// BulkEditAction identifies which bulk-edit surface can resolve an issue.
type BulkEditAction string

const (
	BulkEditNone        BulkEditAction = ""
	BulkEditTitle       BulkEditAction = "edit_title"
	BulkEditDescription BulkEditAction = "edit_description"
)

var titleIssueTypes = []IssueType{TitleMissing, TitleTooShort, TitleTooLong}

var metaIssueTypes = []IssueType{
	MetaDescriptionMissing,
	MetaDescriptionTooShort,
	MetaDescriptionTooLong,
	MetaDescriptionDuplicate,
	MetaDescriptionNoCTA,
}

// SeverityFor returns the severity for an issue type. Unknown types default
// to medium, matching how unclassified problems are triaged.
func SeverityFor(t IssueType) Severity {
	if s, ok := severityTable[t]; ok {
		return s
	}
	return SeverityMedium
}

// RequiresDevFix reports whether an issue type needs developer attention
// and cannot be resolved by content editors.
func RequiresDevFix(t IssueType) bool {
	_, ok := devFixTable[t]
	return ok
}

// Description renders the description template for an issue type with the
// given arguments.
func Description(t IssueType, args ...any) string {
	tmpl, ok := descriptionTemplates[t]
	if !ok {
		return string(t)
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}

// IsBulkEditIssue reports whether the issue type can be fixed through the
// bulk metadata editor.
func IsBulkEditIssue(t IssueType) bool {
	return BulkEditActionFor(t) != BulkEditNone || t == PlaceholderUnprocessed
}

// BulkEditActionFor returns the bulk-edit action that resolves an issue
// type, or BulkEditNone when no bulk action applies.
func BulkEditActionFor(t IssueType) BulkEditAction {
	for _, it := range titleIssueTypes {
		if it == t {
			return BulkEditTitle
		}
	}
	for _, it := range metaIssueTypes {
		if it == t {
			return BulkEditDescription
		}
	}
	return BulkEditNone
}

// RelatedIssueTypes returns the group of issue types sharing a bulk-edit
// surface with t, or nil when t has no such group.
func RelatedIssueTypes(t IssueType) []IssueType {
	switch BulkEditActionFor(t) {
	case BulkEditTitle:
		return append([]IssueType(nil), titleIssueTypes...)
	case BulkEditDescription:
		return append([]IssueType(nil), metaIssueTypes...)
	default:
		return nil
	}
}

// AllIssueTypes returns every issue type in the taxonomy. Used by the API
// and by tests iterating the full table.
func AllIssueTypes() []IssueType {
	types := make([]IssueType, 0, len(severityTable))
	for t := range severityTable {
		types = append(types, t)
	}
	return types
}
