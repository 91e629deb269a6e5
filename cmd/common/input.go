package common

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jonesrussell/seoaudit/internal/audit"
	"github.com/jonesrussell/seoaudit/internal/checker"
	"github.com/jonesrussell/seoaudit/internal/config"
	"github.com/jonesrussell/seoaudit/internal/logger"
	"github.com/jonesrussell/seoaudit/internal/pagespeed"
)

const inputFetchTimeout = 30 * time.Second

// ReadInput loads HTML from a URL or a local file path. The returned URL
// is empty for file input.
func ReadInput(ctx context.Context, arg string) (html, pageURL string, err error) {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		html, err = fetchURL(ctx, arg)
		return html, arg, err
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", arg, err)
	}
	return string(data), "", nil
}

func fetchURL(ctx context.Context, rawURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, inputFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return string(body), nil
}

// NewAuditor assembles the page auditor from configuration.
func NewAuditor(cfg *config.Config, log logger.Interface) *audit.Auditor {
	opts := []audit.AuditorOption{
		audit.WithPlaceholderChecker(&checker.PlaceholderChecker{
			RuntimeProcessing: cfg.Metadata.RuntimeProcessing,
		}),
	}

	if cfg.PageSpeed.Enabled {
		opts = append(opts, audit.WithPageSpeed(pagespeed.NewChecker(
			pagespeed.Config{
				APIKey:   cfg.PageSpeed.APIKey,
				DryRun:   cfg.PageSpeed.DryRun,
				Strategy: cfg.PageSpeed.Strategy,
			},
			true,
			log,
		)))
	}

	if !cfg.Audit.IncludeDevFixes {
		opts = append(opts, audit.WithoutDevFixIssues())
	}

	return audit.NewAuditor(log, opts...)
}
