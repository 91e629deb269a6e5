package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Validation statuses assigned to schema blocks.
const (
	StatusValid           = "valid"
	StatusMissingRequired = "missing_required"
	StatusDeprecated      = "deprecated"
	StatusBasic           = "basic"
	StatusUnknown         = "unknown"
	StatusInvalid         = "invalid"
)

// Result is the validation outcome for one schema object.
type Result struct {
	Type               string   `json:"type"`
	Eligible           bool     `json:"eligible"`
	Status             string   `json:"status"`
	MissingRequired    []string `json:"missing_required"`
	MissingRecommended []string `json:"missing_recommended"`
	Description        string   `json:"description,omitempty"`
	Note               string   `json:"note,omitempty"`
	DeprecatedDate     string   `json:"deprecated_date,omitempty"`
	Error              string   `json:"error,omitempty"`
}

// Report summarizes validation across every JSON-LD block on a page.
type Report struct {
	HasSchema     bool     `json:"has_schema"`
	Schemas       []Result `json:"schemas"`
	BasicTypes    []string `json:"basic_types"`
	SyntaxErrors  []string `json:"syntax_errors"`
	TotalSchemas  int      `json:"total_schemas"`
	EligibleCount int      `json:"eligible_count"`
	HasIssues     bool     `json:"has_issues"`
}

// Validate extracts every JSON-LD block from the HTML and checks each
// against the rich results rules. Unparsable blocks become syntax errors;
// parsing never aborts validation of remaining blocks.
func Validate(html string) (*Report, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var (
		syntaxErrors []string
		raw          []any
	)
	doc.Find(`script[type="application/ld+json"]`).Each(func(i int, script *goquery.Selection) {
		text := strings.TrimSpace(script.Text())
		if text == "" {
			return
		}
		var data any
		if err := json.Unmarshal([]byte(text), &data); err != nil {
			syntaxErrors = append(syntaxErrors, fmt.Sprintf("JSON-LD block %d: %v", i+1, err))
			return
		}
		raw = append(raw, data)
	})

	schemas := normalizeSchemas(raw)

	if len(schemas) == 0 && len(syntaxErrors) == 0 {
		return &Report{
			BasicTypes:   []string{},
			SyntaxErrors: []string{},
			Schemas:      []Result{},
			// No schema at all is itself an issue.
			HasIssues: true,
		}, nil
	}

	report := &Report{
		HasSchema:    true,
		Schemas:      []Result{},
		SyntaxErrors: syntaxErrors,
		HasIssues:    len(syntaxErrors) > 0,
	}
	if report.SyntaxErrors == nil {
		report.SyntaxErrors = []string{}
	}

	basicTypes := make(map[string]struct{})
	for _, obj := range schemas {
		result := validateSingle(obj)

		if result.Status == StatusBasic {
			basicTypes[result.Type] = struct{}{}
			continue
		}

		report.Schemas = append(report.Schemas, result)
		if result.Eligible {
			report.EligibleCount++
		} else {
			report.HasIssues = true
		}
	}

	report.TotalSchemas = len(report.Schemas)
	report.BasicTypes = sortedKeys(basicTypes)

	return report, nil
}

// normalizeSchemas flattens @graph arrays and top-level schema arrays
// into one flat list of schema objects.
func normalizeSchemas(raw []any) []map[string]any {
	var out []map[string]any

	var appendObj func(v any)
	appendObj = func(v any) {
		switch item := v.(type) {
		case []any:
			for _, nested := range item {
				appendObj(nested)
			}
		case map[string]any:
			if graph, ok := item["@graph"]; ok {
				appendObj(graph)
				return
			}
			out = append(out, item)
		}
	}

	for _, v := range raw {
		appendObj(v)
	}
	return out
}

// schemaType resolves @type, taking the first element of list-valued types.
func schemaType(obj map[string]any) string {
	switch t := obj["@type"].(type) {
	case string:
		return t
	case []any:
		if len(t) > 0 {
			if s, ok := t[0].(string); ok {
				return s
			}
		}
	}
	return ""
}

func validateSingle(obj map[string]any) Result {
	typ := schemaType(obj)
	if typ == "" {
		return Result{
			Type:               "Unknown",
			Status:             StatusInvalid,
			MissingRequired:    []string{},
			MissingRecommended: []string{},
			Error:              "No @type specified",
		}
	}

	if IsDeprecatedType(typ) {
		info := DeprecationInfo(typ)
		return Result{
			Type:               typ,
			Status:             StatusDeprecated,
			MissingRequired:    []string{},
			MissingRecommended: []string{},
			Note:               info.Note,
			DeprecatedDate:     info.Date,
		}
	}

	if IsBasicType(typ) {
		return Result{
			Type:               typ,
			Status:             StatusBasic,
			MissingRequired:    []string{},
			MissingRecommended: []string{},
			Note:               "Basic schema type - not eligible for rich results but valid",
		}
	}

	rule := RulesForType(typ)
	if rule == nil {
		return Result{
			Type:               typ,
			Status:             StatusUnknown,
			MissingRequired:    []string{},
			MissingRecommended: []string{},
			Note:               "Not recognized as a rich result type",
		}
	}

	missingRequired := missingRequiredProps(obj, rule.Required)
	missingRequired = append(missingRequired, missingNested(obj, rule.NestedRules)...)
	missingRecommended := missingRecommendedProps(obj, rule.Recommended)

	result := Result{
		Type:               typ,
		Eligible:           len(missingRequired) == 0,
		MissingRequired:    missingRequired,
		MissingRecommended: missingRecommended,
		Description:        rule.Description,
		Note:               rule.Note,
	}
	if result.Eligible {
		result.Status = StatusValid
	} else {
		result.Status = StatusMissingRequired
	}
	return result
}

// missingRequiredProps returns required properties that are absent, null,
// or blank strings.
func missingRequiredProps(obj map[string]any, required []string) []string {
	missing := []string{}
	for _, prop := range required {
		if propMissing(obj, prop, true) {
			missing = append(missing, prop)
		}
	}
	return missing
}

// missingRecommendedProps applies the absent-or-null test only; blank
// strings count as present for recommended properties.
func missingRecommendedProps(obj map[string]any, recommended []string) []string {
	missing := []string{}
	for _, prop := range recommended {
		if propMissing(obj, prop, false) {
			missing = append(missing, prop)
		}
	}
	return missing
}

func propMissing(obj map[string]any, prop string, blankCounts bool) bool {
	value, ok := obj[prop]
	if !ok || value == nil {
		return true
	}
	if blankCounts {
		if s, isString := value.(string); isString && strings.TrimSpace(s) == "" {
			return true
		}
	}
	return false
}

// missingNested recurses into nested rules, producing dotted paths like
// "offers.price" and indexed paths like "mainEntity[0].acceptedAnswer.text".
// An absent parent property is not a nested issue.
func missingNested(obj map[string]any, nested map[string]*Rule) []string {
	var missing []string

	props := make([]string, 0, len(nested))
	for prop := range nested {
		props = append(props, prop)
	}
	sort.Strings(props)

	for _, prop := range props {
		rule := nested[prop]
		value, ok := obj[prop]
		if !ok || value == nil {
			continue
		}

		switch v := value.(type) {
		case []any:
			for idx, item := range v {
				child, ok := item.(map[string]any)
				if !ok {
					continue
				}
				prefix := fmt.Sprintf("%s[%d]", prop, idx)
				for _, req := range rule.Required {
					if propMissing(child, req, false) {
						missing = append(missing, prefix+"."+req)
					}
				}
				for _, path := range missingNested(child, rule.NestedRules) {
					missing = append(missing, prefix+"."+path)
				}
			}
		case map[string]any:
			for _, req := range rule.Required {
				if propMissing(v, req, false) {
					missing = append(missing, prop+"."+req)
				}
			}
			for _, path := range missingNested(v, rule.NestedRules) {
				missing = append(missing, prop+"."+path)
			}
		}
	}

	return missing
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
