package placeholder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/seoaudit/internal/placeholder"
)

func mapResolver(fields map[string]string) placeholder.FieldResolver {
	return placeholder.ResolverFunc(func(name string) (string, bool) {
		v, ok := fields[name]
		return v, ok
	})
}

func TestProcessLiteralTemplateUnchanged(t *testing.T) {
	t.Parallel()

	p := &placeholder.Processor{}
	got := p.Process("Fresh bread since 1920", mapResolver(nil))
	assert.Equal(t, "Fresh bread since 1920", got)
}

func TestProcessSubstitutesFields(t *testing.T) {
	t.Parallel()

	p := &placeholder.Processor{SiteName: "Bakery Demo"}
	fields := mapResolver(map[string]string{"title": "About Us"})

	got := p.Process("{title} | {site_name}", fields)
	assert.Equal(t, "About Us | Bakery Demo", got)
}

func TestProcessMissingFieldBecomesEmpty(t *testing.T) {
	t.Parallel()

	p := &placeholder.Processor{}
	got := p.Process("{title} | {nonexistent}", mapResolver(map[string]string{"title": "Home"}))
	assert.Equal(t, "Home | ", got)
}

func TestProcessStripsHTMLWithBlockBoundaries(t *testing.T) {
	t.Parallel()

	p := &placeholder.Processor{}
	fields := mapResolver(map[string]string{
		"body": "<p>First block</p><p>Second   block</p><ul><li>Item</li></ul>",
	})

	got := p.Process("{body}", fields)
	assert.Equal(t, "First block Second block Item", got)
}

func TestProcessTruncation(t *testing.T) {
	t.Parallel()

	p := &placeholder.Processor{}
	fields := mapResolver(map[string]string{
		"introduction": "We are a family-owned bakery serving fresh bread",
	})

	got := p.Process("{introduction[:8]}", fields)
	assert.Equal(t, "We are a", got)
}

func TestProcessTruncationAfterStripping(t *testing.T) {
	t.Parallel()

	p := &placeholder.Processor{}
	fields := mapResolver(map[string]string{"body": "<p>Hello world</p>"})

	got := p.Process("{body[:5]}", fields)
	assert.Equal(t, "Hello", got)
}

func TestProcessReplacesAllOccurrences(t *testing.T) {
	t.Parallel()

	p := &placeholder.Processor{}
	fields := mapResolver(map[string]string{"title": "Go"})

	got := p.Process("{title} and {title} again", fields)
	assert.Equal(t, "Go and Go again", got)
}

func TestProcessSiteNameWithoutSite(t *testing.T) {
	t.Parallel()

	p := &placeholder.Processor{}
	got := p.Process("Welcome to {site_name}", mapResolver(nil))
	assert.Equal(t, "Welcome to ", got)
}

func TestExtractTokens(t *testing.T) {
	t.Parallel()

	tokens := placeholder.ExtractTokens("{title[:60]} | {site_name} | {title}")
	assert.Equal(t, []string{"site_name", "title"}, tokens)

	assert.Empty(t, placeholder.ExtractTokens("no tokens here"))
}

func TestValidateTemplate(t *testing.T) {
	t.Parallel()

	valid, invalid := placeholder.ValidateTemplate("{title} | {site_name}", []string{"title"})
	assert.True(t, valid)
	assert.Empty(t, invalid)

	valid, invalid = placeholder.ValidateTemplate("{title} | {made_up}", []string{"title"})
	assert.False(t, valid)
	assert.Equal(t, []string{"made_up"}, invalid)
}
