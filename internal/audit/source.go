package audit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonesrussell/seoaudit/internal/domain"
)

// maxDocumentSize caps how much rendered HTML is read per page.
const maxDocumentSize = 10 << 20

// HTTPSource fetches rendered page HTML over HTTP.
type HTTPSource struct {
	client *http.Client
}

// NewHTTPSource builds an HTML source with the given fetch timeout.
func NewHTTPSource(timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPSource{
		client: &http.Client{Timeout: timeout},
	}
}

// FetchHTML retrieves the page body. Non-2xx responses are errors so the
// runner skips the page instead of auditing an error document.
func (s *HTTPSource) FetchHTML(ctx context.Context, page *domain.Page) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, page.URL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", page.URL, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", page.URL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("fetch %s: status %d", page.URL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", page.URL, err)
	}
	return string(body), nil
}
