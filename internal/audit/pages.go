package audit

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonesrussell/seoaudit/internal/domain"
)

type pageEntry struct {
	ID                int64      `yaml:"id"`
	URL               string     `yaml:"url"`
	Title             string     `yaml:"title"`
	SEOTitle          string     `yaml:"seo_title"`
	SearchDescription string     `yaml:"search_description"`
	ContentType       string     `yaml:"content_type"`
	FirstPublishedAt  *time.Time `yaml:"first_published_at"`
	LastPublishedAt   *time.Time `yaml:"last_published_at"`
}

type pagesFile struct {
	Pages []pageEntry `yaml:"pages"`
}

// LoadPages reads a YAML page inventory.
func LoadPages(path string) ([]*domain.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pages file: %w", err)
	}
	return ParsePages(data)
}

// ParsePages parses YAML page inventory data.
func ParsePages(data []byte) ([]*domain.Page, error) {
	var file pagesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse pages file: %w", err)
	}

	pages := make([]*domain.Page, 0, len(file.Pages))
	for i, entry := range file.Pages {
		if entry.URL == "" {
			return nil, fmt.Errorf("page %d: url is required", i)
		}
		id := entry.ID
		if id == 0 {
			id = int64(i + 1)
		}
		pages = append(pages, &domain.Page{
			ID:                id,
			URL:               entry.URL,
			Title:             entry.Title,
			SEOTitle:          entry.SEOTitle,
			SearchDescription: entry.SearchDescription,
			ContentType:       entry.ContentType,
			FirstPublishedAt:  entry.FirstPublishedAt,
			LastPublishedAt:   entry.LastPublishedAt,
		})
	}
	return pages, nil
}
