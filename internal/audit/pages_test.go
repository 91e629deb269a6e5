package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pagesYAML = `
pages:
  - id: 10
    url: https://example.com/
    title: Home
    search_description: "Discover our artisan bakery"
    first_published_at: 2025-01-15T09:00:00Z
  - url: https://example.com/about
    title: About
`

func TestParsePages(t *testing.T) {
	t.Parallel()

	pages, err := ParsePages([]byte(pagesYAML))
	require.NoError(t, err)
	require.Len(t, pages, 2)

	assert.Equal(t, int64(10), pages[0].ID)
	assert.Equal(t, "Home", pages[0].Title)
	require.NotNil(t, pages[0].FirstPublishedAt)
	assert.Equal(t, 2025, pages[0].FirstPublishedAt.Year())

	// missing id falls back to position
	assert.Equal(t, int64(2), pages[1].ID)
	assert.Nil(t, pages[1].FirstPublishedAt)
}

func TestParsePagesRequiresURL(t *testing.T) {
	t.Parallel()

	_, err := ParsePages([]byte("pages:\n  - title: No URL\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "url is required")
}
