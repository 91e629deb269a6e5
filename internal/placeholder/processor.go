// Package placeholder substitutes metadata template tokens with page
// field values, stripping HTML and applying truncation.
package placeholder

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// SiteNameToken is the computed token resolved from the processor's site
// rather than a page field.
const SiteNameToken = "site_name"

// tokenPattern matches {field_name} or {field_name[:N]}.
var tokenPattern = regexp.MustCompile(`\{([^}:\[]+)(?:\[:(\d+)\])?\}`)

// blockBoundaryPattern matches HTML tags that end a visual block; these
// become spaces before tag stripping so text from adjacent blocks does
// not glue together.
var blockBoundaryPattern = regexp.MustCompile(`(?i)<br\s*/?>|</p>|</div>|</h[1-6]>|</li>|</td>|</tr>|</blockquote>`)

// tagPattern strips any remaining HTML tags.
var tagPattern = regexp.MustCompile(`<[^>]*>`)

// FieldResolver looks up a named field on a content object. Resolve
// returns false when the object has no such field.
type FieldResolver interface {
	Resolve(name string) (string, bool)
}

// ResolverFunc adapts a function to the FieldResolver interface.
type ResolverFunc func(name string) (string, bool)

// Resolve calls f.
func (f ResolverFunc) Resolve(name string) (string, bool) { return f(name) }

// Processor renders metadata templates for pages.
type Processor struct {
	// SiteName resolves the {site_name} token. Empty means the token
	// renders as an empty string.
	SiteName string
}

// Process replaces every token in the template with the resolved field
// value. Missing or empty fields become empty strings, never the literal
// token. Values containing HTML get block boundaries spaced, tags
// stripped and whitespace collapsed; truncation applies afterwards.
func (p *Processor) Process(template string, fields FieldResolver) string {
	return tokenPattern.ReplaceAllStringFunc(template, func(token string) string {
		groups := tokenPattern.FindStringSubmatch(token)
		name := strings.TrimSpace(groups[1])
		truncateLimit := groups[2]

		var value string
		if name == SiteNameToken {
			value = p.SiteName
		} else if fields != nil {
			if v, ok := fields.Resolve(name); ok {
				value = cleanValue(v)
			}
		}

		if truncateLimit != "" && value != "" {
			limit, err := strconv.Atoi(truncateLimit)
			if err == nil && limit < len([]rune(value)) {
				value = string([]rune(value)[:limit])
			}
		}
		return value
	})
}

// cleanValue strips HTML from a field value for use in meta tags. Plain
// values pass through unchanged.
func cleanValue(value string) string {
	if !strings.Contains(value, "<") {
		return value
	}
	value = blockBoundaryPattern.ReplaceAllString(value, " ")
	value = tagPattern.ReplaceAllString(value, "")
	return strings.Join(strings.Fields(value), " ")
}

// ExtractTokens returns the distinct token names in a template, without
// truncation suffixes, sorted for stable output.
func ExtractTokens(template string) []string {
	seen := make(map[string]struct{})
	for _, match := range tokenPattern.FindAllStringSubmatch(template, -1) {
		seen[strings.TrimSpace(match[1])] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateTemplate checks every token in the template against the set of
// available token names, returning the invalid subset. A template with no
// tokens is always valid.
func ValidateTemplate(template string, available []string) (bool, []string) {
	availableSet := make(map[string]struct{}, len(available)+1)
	availableSet[SiteNameToken] = struct{}{}
	for _, name := range available {
		availableSet[name] = struct{}{}
	}

	var invalid []string
	for _, name := range ExtractTokens(template) {
		if _, ok := availableSet[name]; !ok {
			invalid = append(invalid, name)
		}
	}
	return len(invalid) == 0, invalid
}
