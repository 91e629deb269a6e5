package domain

// Redirect mirrors a site redirect rule: requests for OldPath are sent to
// either an internal page (PageID set) or an external link.
type Redirect struct {
	ID          int64  `db:"id"           json:"id"`
	OldPath     string `db:"old_path"     json:"old_path"`
	PageID      *int64 `db:"page_id"      json:"page_id,omitempty"`
	Link        string `db:"link"         json:"link,omitempty"`
	IsPermanent bool   `db:"is_permanent" json:"is_permanent"`
	SiteID      *int64 `db:"site_id"      json:"site_id,omitempty"`
}

// IsInternal reports whether the redirect targets a page rather than an
// external URL.
func (r *Redirect) IsInternal() bool {
	return r.PageID != nil
}

// Target returns a printable destination for the redirect.
func (r *Redirect) Target(pages map[int64]*Page) string {
	if r.PageID != nil {
		if p, ok := pages[*r.PageID]; ok {
			return p.URL
		}
		return "(unknown page)"
	}
	return r.Link
}
