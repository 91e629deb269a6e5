package redirects

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jonesrussell/seoaudit/internal/domain"
)

// fileRedirect is the YAML wire form of one redirect rule.
type fileRedirect struct {
	ID          int64  `yaml:"id"`
	OldPath     string `yaml:"old_path"`
	PageID      *int64 `yaml:"page_id"`
	Link        string `yaml:"link"`
	IsPermanent bool   `yaml:"is_permanent"`
	SiteID      *int64 `yaml:"site_id"`
}

// File is a redirect inventory loaded from disk: site page trees plus
// redirect rules, the offline input to the analyzer CLI.
type File struct {
	Sites     []*Site        `yaml:"sites"`
	Redirects []fileRedirect `yaml:"redirects"`
}

// Inventory is a parsed redirect file ready for auditing.
type Inventory struct {
	Sites     []*Site
	Redirects []*domain.Redirect
}

// SiteRedirects returns the redirects bound to one site.
func (inv *Inventory) SiteRedirects(siteID int64) []*domain.Redirect {
	var out []*domain.Redirect
	for _, r := range inv.Redirects {
		if r.SiteID != nil && *r.SiteID == siteID {
			out = append(out, r)
		}
	}
	return out
}

// GlobalRedirects returns redirects not bound to any site.
func (inv *Inventory) GlobalRedirects() []*domain.Redirect {
	var out []*domain.Redirect
	for _, r := range inv.Redirects {
		if r.SiteID == nil {
			out = append(out, r)
		}
	}
	return out
}

// Load reads a redirect inventory from a YAML file.
func Load(path string) (*Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read redirects file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a redirect inventory from YAML.
func Parse(data []byte) (*Inventory, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse redirects file: %w", err)
	}

	inv := &Inventory{Sites: file.Sites}
	for _, fr := range file.Redirects {
		if fr.OldPath == "" {
			return nil, fmt.Errorf("redirect %d: old_path is required", fr.ID)
		}
		inv.Redirects = append(inv.Redirects, &domain.Redirect{
			ID:          fr.ID,
			OldPath:     fr.OldPath,
			PageID:      fr.PageID,
			Link:        fr.Link,
			IsPermanent: fr.IsPermanent,
			SiteID:      fr.SiteID,
		})
	}
	return inv, nil
}
