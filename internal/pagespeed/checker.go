package pagespeed

import (
	"context"

	"github.com/jonesrussell/seoaudit/internal/domain"
	"github.com/jonesrussell/seoaudit/internal/logger"
)

// Checker runs PageSpeed analysis for a page and reports issues. API
// failures are logged and swallowed so a flaky quota never aborts an
// audit run.
type Checker struct {
	client  *Client
	enabled bool
	logger  logger.Interface
}

// NewChecker wires a client into an audit checker. The checker is
// disabled when checks are turned off or when no API key is configured
// outside dry-run mode.
func NewChecker(cfg Config, enabled bool, log logger.Interface) *Checker {
	if log == nil {
		log = logger.NewNoOp()
	}
	if enabled && cfg.APIKey == "" && !cfg.DryRun {
		log.Debug("pagespeed checks disabled: no api key configured")
		enabled = false
	}
	return &Checker{
		client:  NewClient(cfg, log),
		enabled: enabled,
		logger:  log,
	}
}

// Enabled reports whether the checker will analyze pages.
func (c *Checker) Enabled() bool {
	return c.enabled
}

// Check analyzes pageURL and returns the resulting issues. Returns nil
// when disabled, when no URL is available, or when the API call fails.
func (c *Checker) Check(ctx context.Context, pageURL string) []domain.Issue {
	if !c.enabled || pageURL == "" {
		return nil
	}

	result, err := c.client.Analyze(ctx, pageURL)
	if err != nil {
		c.logger.Warn("pagespeed check failed", "url", pageURL, "error", err)
		return nil
	}

	issues := result.Issues(pageURL)
	c.logger.Debug("pagespeed check completed", "url", pageURL, "issues", len(issues))
	return issues
}
