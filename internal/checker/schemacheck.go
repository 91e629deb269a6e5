package checker

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/seoaudit/internal/domain"
)

// Schema type groups looked for in JSON-LD markup.
var (
	organizationSchemaTypes = map[string]struct{}{
		"Organization": {}, "Person": {}, "LocalBusiness": {},
	}
	articleSchemaTypes = map[string]struct{}{
		"Article": {}, "BlogPosting": {}, "NewsArticle": {}, "ScholarlyArticle": {},
	}
)

// SchemaChecker checks for JSON-LD structured data presence.
type SchemaChecker struct{}

// Name returns the checker identifier.
func (c *SchemaChecker) Name() string { return "schema" }

// Check inspects the page's JSON-LD script blocks.
func (c *SchemaChecker) Check(doc *goquery.Document, pctx Context) []domain.Issue {
	var issues []domain.Issue

	scripts := doc.Find(`script[type="application/ld+json"]`)
	if scripts.Length() == 0 {
		return append(issues, domain.NewIssue(domain.SchemaMissing, pctx.URL))
	}

	types, invalidBlocks := parseSchemaTypes(scripts)
	for i := 0; i < invalidBlocks; i++ {
		issues = append(issues, domain.NewIssue(domain.SchemaInvalid, pctx.URL))
	}

	if !hasAnyType(types, organizationSchemaTypes) {
		issues = append(issues, domain.NewIssue(domain.SchemaNoOrganization, pctx.URL))
	}
	if isContentPage(doc) && !hasAnyType(types, articleSchemaTypes) {
		issues = append(issues, domain.NewIssue(domain.SchemaNoArticle, pctx.URL))
	}

	return issues
}

// parseSchemaTypes collects every @type across the page's JSON-LD blocks,
// descending into @graph wrappers. invalidBlocks counts the blocks that
// failed to parse.
func parseSchemaTypes(scripts *goquery.Selection) (types map[string]struct{}, invalidBlocks int) {
	types = make(map[string]struct{})

	scripts.Each(func(_ int, script *goquery.Selection) {
		raw := strings.TrimSpace(script.Text())

		var data any
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			invalidBlocks++
			return
		}

		for _, obj := range jsonLDObjects(data) {
			switch t := obj["@type"].(type) {
			case string:
				types[t] = struct{}{}
			case []any:
				for _, v := range t {
					if s, ok := v.(string); ok {
						types[s] = struct{}{}
					}
				}
			}
		}
	})

	return types, invalidBlocks
}

// jsonLDObjects flattens a decoded JSON-LD value into its schema objects,
// unwrapping top-level arrays and @graph containers.
func jsonLDObjects(data any) []map[string]any {
	var out []map[string]any

	var walk func(v any)
	walk = func(v any) {
		switch item := v.(type) {
		case []any:
			for _, nested := range item {
				walk(nested)
			}
		case map[string]any:
			if graph, ok := item["@graph"]; ok {
				walk(graph)
				return
			}
			out = append(out, item)
		}
	}
	walk(data)

	return out
}

func hasAnyType(types, wanted map[string]struct{}) bool {
	for t := range wanted {
		if _, ok := types[t]; ok {
			return true
		}
	}
	return false
}
