package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/seoaudit/internal/domain"
)

// PageRepository handles database operations for the audited page index.
type PageRepository struct {
	db *sqlx.DB
}

// NewPageRepository creates a new page repository.
func NewPageRepository(db *sqlx.DB) *PageRepository {
	return &PageRepository{db: db}
}

// UpsertPages inserts or refreshes the page index rows.
func (r *PageRepository) UpsertPages(ctx context.Context, pages []*domain.Page) error {
	if len(pages) == 0 {
		return nil
	}

	query := `
		INSERT INTO pages
			(id, url, title, seo_title, search_description, content_type, first_published_at, last_published_at)
		VALUES
			(:id, :url, :title, :seo_title, :search_description, :content_type, :first_published_at, :last_published_at)
		ON CONFLICT (id) DO UPDATE SET
			url = EXCLUDED.url,
			title = EXCLUDED.title,
			seo_title = EXCLUDED.seo_title,
			search_description = EXCLUDED.search_description,
			content_type = EXCLUDED.content_type,
			first_published_at = EXCLUDED.first_published_at,
			last_published_at = EXCLUDED.last_published_at
	`

	if _, err := r.db.NamedExecContext(ctx, query, pages); err != nil {
		return fmt.Errorf("upsert pages: %w", err)
	}
	return nil
}

// PagesByID returns the known pages among ids, keyed by id.
func (r *PageRepository) PagesByID(ctx context.Context, ids []int64) (map[int64]*domain.Page, error) {
	out := make(map[int64]*domain.Page, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, url, title, seo_title, search_description, content_type, first_published_at, last_published_at
		FROM pages
		WHERE id IN (?)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("build pages query: %w", err)
	}

	var pages []*domain.Page
	if err := r.db.SelectContext(ctx, &pages, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("pages by id: %w", err)
	}

	for _, page := range pages {
		out[page.ID] = page
	}
	return out, nil
}
