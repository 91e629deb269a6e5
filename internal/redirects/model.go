// Package redirects audits site redirect rules for chains, loops and dead
// targets, and flattens multi-hop chains.
package redirects

import (
	"strings"

	"github.com/jonesrussell/seoaudit/internal/domain"
)

// GlobalSiteName labels findings from redirects not bound to any site.
const GlobalSiteName = "Global (no site)"

// PageNode is one node in a site's page tree.
type PageNode struct {
	ID       int64       `yaml:"id"       json:"id"`
	Title    string      `yaml:"title"    json:"title"`
	Slug     string      `yaml:"slug"     json:"slug"`
	URL      string      `yaml:"url"      json:"url"`
	Live     bool        `yaml:"live"     json:"live"`
	Children []*PageNode `yaml:"children" json:"children,omitempty"`
}

// Site is one audited site: a name plus the root of its page tree.
type Site struct {
	ID   int64     `yaml:"id"   json:"id"`
	Name string    `yaml:"name" json:"name"`
	Root *PageNode `yaml:"root" json:"root"`
}

// Pages returns an id-indexed view over the site's page tree.
func (s *Site) Pages() map[int64]*PageNode {
	pages := make(map[int64]*PageNode)
	if s == nil || s.Root == nil {
		return pages
	}
	var walk func(n *PageNode)
	walk = func(n *PageNode) {
		pages[n.ID] = n
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(s.Root)
	return pages
}

// Chain is a multi-hop redirect sequence.
type Chain struct {
	ChainPath       []string `json:"chain_path"`
	Hops            int      `json:"hops"`
	StartRedirectID int64    `json:"start_redirect_id"`
	SiteName        string   `json:"site_name"`
}

// Loop is a circular redirect sequence.
type Loop struct {
	LoopPath    []string `json:"loop_path"`
	RedirectIDs []int64  `json:"redirect_ids"`
	SiteName    string   `json:"site_name"`
}

// DeadTarget is a redirect whose destination no longer resolves.
type DeadTarget struct {
	RedirectID int64  `json:"redirect_id"`
	OldPath    string `json:"old_path"`
	Target     string `json:"target"`
	SiteName   string `json:"site_name"`
	Reason     string `json:"reason"`
}

// UnpublishedTarget is a redirect pointing at a page that exists but is
// not live.
type UnpublishedTarget struct {
	RedirectID      int64  `json:"redirect_id"`
	OldPath         string `json:"old_path"`
	TargetPageID    int64  `json:"target_page_id"`
	TargetPageTitle string `json:"target_page_title"`
	SiteName        string `json:"site_name"`
	Reason          string `json:"reason"`
}

// Report aggregates one site's redirect audit findings.
type Report struct {
	TotalRedirects         int                 `json:"total_redirects"`
	Chains                 []Chain             `json:"chains"`
	Loops                  []Loop              `json:"loops"`
	RedirectsTo404         []DeadTarget        `json:"redirects_to_404"`
	RedirectsToUnpublished []UnpublishedTarget `json:"redirects_to_unpublished"`
	ExternalRedirects      int                 `json:"external_redirects"`
}

// NormalizePath strips the trailing slash; an empty path becomes "/".
// All path comparisons in this package use normalized paths.
func NormalizePath(path string) string {
	normalized := strings.TrimRight(path, "/")
	if normalized == "" {
		return "/"
	}
	return normalized
}

// indexByOldPath builds the old_path -> redirect adjacency used by chain
// and loop walks.
func indexByOldPath(redirects []*domain.Redirect) map[string]*domain.Redirect {
	index := make(map[string]*domain.Redirect, len(redirects))
	for _, r := range redirects {
		index[NormalizePath(r.OldPath)] = r
	}
	return index
}
