// Package pagespeed wraps the Google PageSpeed Insights API and turns
// Lighthouse results into audit issues.
package pagespeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/jonesrussell/seoaudit/internal/logger"
)

const (
	// DefaultBaseURL is the production PageSpeed Insights endpoint.
	DefaultBaseURL = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"

	// DefaultStrategy analyzes pages as a mobile device.
	DefaultStrategy = "mobile"

	requestTimeout = 30 * time.Second

	// minCallInterval spaces out API calls to stay under the free quota.
	minCallInterval = time.Second
)

// categories requested on every API call.
var categories = []string{"performance", "accessibility", "best-practices", "seo"}

// Config controls how the client talks to the API.
type Config struct {
	APIKey   string
	BaseURL  string
	Strategy string
	// DryRun returns canned Lighthouse data instead of calling the API.
	DryRun bool
}

// Client calls the PageSpeed Insights API with rate limiting between requests.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     logger.Interface

	mu       sync.Mutex
	lastCall time.Time
}

// NewClient builds a PageSpeed client. Zero-value config fields fall back
// to the production endpoint and mobile strategy.
func NewClient(cfg Config, log logger.Interface) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Strategy == "" {
		cfg.Strategy = DefaultStrategy
	}
	if log == nil {
		log = logger.NewNoOp()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     log,
	}
}

// Analyze fetches and parses Lighthouse results for pageURL.
func (c *Client) Analyze(ctx context.Context, pageURL string) (*Result, error) {
	if c.cfg.DryRun {
		return ParseLighthouse(mockLighthouse()), nil
	}

	c.throttle()

	raw, err := c.call(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return ParseLighthouse(raw.LighthouseResult), nil
}

func (c *Client) call(ctx context.Context, pageURL string) (*apiResponse, error) {
	params := url.Values{}
	params.Set("url", pageURL)
	params.Set("strategy", c.cfg.Strategy)
	for _, cat := range categories {
		params.Add("category", cat)
	}
	if c.cfg.APIKey != "" {
		params.Set("key", c.cfg.APIKey)
	}

	endpoint := c.cfg.BaseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build pagespeed request: %w", err)
	}

	c.logger.Debug("calling pagespeed api", "url", pageURL, "strategy", c.cfg.Strategy)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pagespeed request for %s: %w", pageURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pagespeed api returned %d for %s", resp.StatusCode, pageURL)
	}

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode pagespeed response: %w", err)
	}
	return &out, nil
}

// throttle enforces the minimum interval between API calls.
func (c *Client) throttle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if wait := minCallInterval - time.Since(c.lastCall); wait > 0 {
		time.Sleep(wait)
	}
	c.lastCall = time.Now()
}

type apiResponse struct {
	LighthouseResult lighthouseResult `json:"lighthouseResult"`
}

type lighthouseResult struct {
	Categories map[string]lighthouseCategory `json:"categories"`
	Audits     map[string]lighthouseAudit    `json:"audits"`
}

type lighthouseCategory struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Score *float64 `json:"score"`
}

type lighthouseAudit struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Score            *float64 `json:"score"`
	ScoreDisplayMode string   `json:"scoreDisplayMode"`
	DisplayValue     string   `json:"displayValue"`
	NumericValue     *float64 `json:"numericValue"`
}

// mockLighthouse returns canned data for dry-run mode: two failing
// categories, one passing, and two failed audits.
func mockLighthouse() lighthouseResult {
	score := func(v float64) *float64 { return &v }
	return lighthouseResult{
		Categories: map[string]lighthouseCategory{
			"performance":    {ID: "performance", Title: "Performance", Score: score(0.75)},
			"accessibility":  {ID: "accessibility", Title: "Accessibility", Score: score(0.85)},
			"best-practices": {ID: "best-practices", Title: "Best Practices", Score: score(0.45)},
			"seo":            {ID: "seo", Title: "SEO", Score: score(0.92)},
		},
		Audits: map[string]lighthouseAudit{
			"unused-css-rules": {
				ID:               "unused-css-rules",
				Title:            "Remove unused CSS",
				Description:      "Remove dead rules from stylesheets and defer the loading of CSS not used for above-the-fold content.",
				Score:            score(0),
				ScoreDisplayMode: "numeric",
				DisplayValue:     "Potential savings of 2.1 KiB",
			},
			"uses-text-compression": {
				ID:               "uses-text-compression",
				Title:            "Enable text compression",
				Description:      "Text-based resources should be served with compression (gzip, deflate or brotli) to minimize total network bytes.",
				Score:            score(0),
				ScoreDisplayMode: "binary",
			},
		},
	}
}
