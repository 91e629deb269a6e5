package redirects_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/seoaudit/internal/domain"
	"github.com/jonesrussell/seoaudit/internal/logger"
	"github.com/jonesrussell/seoaudit/internal/redirects"
)

func TestFlattenTwoHopChain(t *testing.T) {
	t.Parallel()

	site := testSite()
	// /old-about -> page /about, and /about -> page /blog.
	rs := []*domain.Redirect{
		{ID: 1, OldPath: "/old-about", PageID: int64Ptr(2)},
		{ID: 2, OldPath: "/about", PageID: int64Ptr(4)},
	}

	rewritten := redirects.Flatten(site, rs, logger.NewNoOp())

	assert.Equal(t, 1, rewritten)
	require.NotNil(t, rs[0].PageID)
	assert.Equal(t, int64(4), *rs[0].PageID)
}

func TestFlattenLongChainCollapsesFully(t *testing.T) {
	t.Parallel()

	site := &redirects.Site{
		ID:   1,
		Name: "main",
		Root: &redirects.PageNode{
			ID: 1, Slug: "", URL: "/", Live: true,
			Children: []*redirects.PageNode{
				{ID: 2, Slug: "b", URL: "/b", Live: true},
				{ID: 3, Slug: "c", URL: "/c", Live: true},
				{ID: 4, Slug: "d", URL: "/d", Live: true},
			},
		},
	}
	// /a -> page /b, /b -> page /c, /c -> page /d.
	rs := []*domain.Redirect{
		{ID: 1, OldPath: "/a", PageID: int64Ptr(2)},
		{ID: 2, OldPath: "/b", PageID: int64Ptr(3)},
		{ID: 3, OldPath: "/c", PageID: int64Ptr(4)},
	}

	redirects.Flatten(site, rs, logger.NewNoOp())

	// Every redirect ends up pointing at the terminal page.
	for _, r := range rs {
		require.NotNil(t, r.PageID)
		assert.Equal(t, int64(4), *r.PageID, "redirect %s", r.OldPath)
	}
}

func TestFlattenIsIdempotent(t *testing.T) {
	t.Parallel()

	site := testSite()
	rs := []*domain.Redirect{
		{ID: 1, OldPath: "/old-about", PageID: int64Ptr(2)},
		{ID: 2, OldPath: "/about", PageID: int64Ptr(4)},
	}

	first := redirects.Flatten(site, rs, logger.NewNoOp())
	second := redirects.Flatten(site, rs, logger.NewNoOp())

	assert.Positive(t, first)
	assert.Zero(t, second)
}

func TestFlattenRewritesToLinkTarget(t *testing.T) {
	t.Parallel()

	site := testSite()
	// /old-about -> page /about, and /about -> external link.
	rs := []*domain.Redirect{
		{ID: 1, OldPath: "/old-about", PageID: int64Ptr(2)},
		{ID: 2, OldPath: "/about", Link: "https://elsewhere.example/new-home"},
	}

	rewritten := redirects.Flatten(site, rs, logger.NewNoOp())

	assert.Equal(t, 1, rewritten)
	assert.Nil(t, rs[0].PageID)
	assert.Equal(t, "https://elsewhere.example/new-home", rs[0].Link)
}

func TestFlattenAlreadyFlatIsNoOp(t *testing.T) {
	t.Parallel()

	site := testSite()
	rs := []*domain.Redirect{
		{ID: 1, OldPath: "/somewhere", PageID: int64Ptr(4)},
	}

	assert.Zero(t, redirects.Flatten(site, rs, logger.NewNoOp()))
}

func TestLoadInventory(t *testing.T) {
	t.Parallel()

	raw := []byte(`
sites:
  - id: 1
    name: main
    root:
      id: 1
      slug: ""
      url: /
      live: true
      children:
        - id: 2
          slug: about
          url: /about
          live: true
redirects:
  - id: 10
    old_path: /legacy
    page_id: 2
    is_permanent: true
    site_id: 1
  - id: 11
    old_path: /external
    link: https://example.org/
`)

	inv, err := redirects.Parse(raw)
	require.NoError(t, err)

	require.Len(t, inv.Sites, 1)
	assert.Equal(t, "main", inv.Sites[0].Name)
	require.Len(t, inv.Redirects, 2)

	siteRedirects := inv.SiteRedirects(1)
	require.Len(t, siteRedirects, 1)
	assert.Equal(t, "/legacy", siteRedirects[0].OldPath)
	require.NotNil(t, siteRedirects[0].PageID)
	assert.Equal(t, int64(2), *siteRedirects[0].PageID)

	globals := inv.GlobalRedirects()
	require.Len(t, globals, 1)
	assert.Equal(t, "https://example.org/", globals[0].Link)
}

func TestParseRejectsMissingOldPath(t *testing.T) {
	t.Parallel()

	_, err := redirects.Parse([]byte("redirects:\n  - id: 1\n    link: /x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "old_path is required")
}
