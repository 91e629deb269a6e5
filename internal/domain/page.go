package domain

import "time"

// Page is the unit a checker operates on: published page metadata plus a
// pointer to its rendered HTML.
type Page struct {
	ID                int64      `db:"id"                 json:"id"`
	URL               string     `db:"url"                json:"url"`
	Title             string     `db:"title"              json:"title"`
	SEOTitle          string     `db:"seo_title"          json:"seo_title,omitempty"`
	SearchDescription string     `db:"search_description" json:"search_description,omitempty"`
	ContentType       string     `db:"content_type"       json:"content_type,omitempty"`
	FirstPublishedAt  *time.Time `db:"first_published_at" json:"first_published_at,omitempty"`
	LastPublishedAt   *time.Time `db:"last_published_at"  json:"last_published_at,omitempty"`
}

// EffectiveTitle returns the SEO title when set, falling back to the page
// title.
func (p *Page) EffectiveTitle() string {
	if p.SEOTitle != "" {
		return p.SEOTitle
	}
	return p.Title
}
