package redirects

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jonesrussell/seoaudit/internal/domain"
	"github.com/jonesrussell/seoaudit/internal/logger"
)

// externalCheckTimeout bounds each external URL reachability probe.
const externalCheckTimeout = 5 * time.Second

// browserHeaders make external probes look like a regular browser so
// bot-blocking CDNs don't skew reachability results.
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
}

// Analyzer detects redirect chains, loops and dead targets.
type Analyzer struct {
	logger        logger.Interface
	client        *http.Client
	checkExternal bool
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithExternalChecks toggles network probes of external redirect targets.
func WithExternalChecks(enabled bool) Option {
	return func(a *Analyzer) { a.checkExternal = enabled }
}

// WithHTTPClient overrides the probe client, mainly for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(a *Analyzer) { a.client = client }
}

// NewAnalyzer creates a redirect analyzer.
func NewAnalyzer(log logger.Interface, opts ...Option) *Analyzer {
	a := &Analyzer{
		logger:        log,
		client:        &http.Client{Timeout: externalCheckTimeout},
		checkExternal: true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Audit runs chain, loop and dead-target detection over one site's
// redirects. A nil site means global redirects, which skip internal-path
// resolution since there is no page tree to walk.
func (a *Analyzer) Audit(ctx context.Context, site *Site, redirects []*domain.Redirect) *Report {
	report := &Report{
		TotalRedirects:         len(redirects),
		Chains:                 []Chain{},
		Loops:                  []Loop{},
		RedirectsTo404:         []DeadTarget{},
		RedirectsToUnpublished: []UnpublishedTarget{},
	}

	siteName := GlobalSiteName
	var pages map[int64]*PageNode
	if site != nil {
		siteName = site.Name
		pages = site.Pages()
	} else {
		pages = map[int64]*PageNode{}
	}

	a.logger.Info("Auditing redirects", "site", siteName, "count", len(redirects))

	report.Chains = detectChains(redirects, pages, siteName)
	report.Loops = detectLoops(redirects, pages, siteName)
	a.detectDeadTargets(ctx, site, redirects, pages, siteName, report)

	for _, r := range redirects {
		if !r.IsInternal() && r.Link != "" {
			report.ExternalRedirects++
		}
	}

	a.logger.Info("Redirect audit complete",
		"site", siteName,
		"chains", len(report.Chains),
		"loops", len(report.Loops),
		"dead_targets", len(report.RedirectsTo404),
		"unpublished", len(report.RedirectsToUnpublished))

	return report
}

// targetPath resolves where a redirect points: the target page's
// normalized URL, a normalized internal link path, or the full external
// URL. Empty means the redirect has no resolvable target.
func targetPath(r *domain.Redirect, pages map[int64]*PageNode) string {
	if r.PageID != nil {
		if page, ok := pages[*r.PageID]; ok && page.URL != "" {
			return NormalizePath(page.URL)
		}
		return ""
	}
	if r.Link == "" {
		return ""
	}
	parsed, err := url.Parse(r.Link)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return NormalizePath(r.Link)
	}
	return r.Link
}

// detectChains finds redirect sequences longer than one hop. Each
// redirect is followed until its target has no further redirect or a
// revisit occurs; chains with more than two paths are reported and their
// members marked visited so overlapping chains are not double-reported.
func detectChains(redirects []*domain.Redirect, pages map[int64]*PageNode, siteName string) []Chain {
	chains := []Chain{}
	visited := make(map[int64]struct{})
	index := indexByOldPath(redirects)

	for _, redirect := range redirects {
		if _, seen := visited[redirect.ID]; seen {
			continue
		}

		chainPath := []string{redirect.OldPath}
		chainIDs := []int64{redirect.ID}
		current := redirect

		for {
			target := targetPath(current, pages)
			if target == "" {
				break
			}
			chainPath = append(chainPath, target)

			next, ok := index[NormalizePath(target)]
			if !ok || containsID(chainIDs, next.ID) {
				break
			}
			chainIDs = append(chainIDs, next.ID)
			current = next
		}

		if len(chainPath) > 2 {
			chains = append(chains, Chain{
				ChainPath:       chainPath,
				Hops:            len(chainPath) - 1,
				StartRedirectID: redirect.ID,
				SiteName:        siteName,
			})
			for _, id := range chainIDs {
				visited[id] = struct{}{}
			}
		}
	}

	return chains
}

// detectLoops finds circular redirect sequences. Walks track visited
// paths; on a repeat, the loop is the sub-sequence from the first
// occurrence of the repeated path, closed by re-appending it. Loops are
// deduplicated by the set of redirect ids involved, since every member
// of a loop discovers the same cycle.
func detectLoops(redirects []*domain.Redirect, pages map[int64]*PageNode, siteName string) []Loop {
	loops := []Loop{}
	found := make(map[string]struct{})
	index := indexByOldPath(redirects)

	for _, redirect := range redirects {
		visitedPaths := make(map[string]struct{})
		var pathList []string
		var redirectIDs []int64
		current := redirect

		for current != nil {
			currentPath := NormalizePath(current.OldPath)

			if _, seen := visitedPaths[currentPath]; seen {
				start := indexOf(pathList, currentPath)
				loopPath := append(append([]string{}, pathList[start:]...), currentPath)
				loopIDs := append([]int64{}, redirectIDs[start:]...)

				key := idSetKey(loopIDs)
				if _, dup := found[key]; !dup {
					found[key] = struct{}{}
					loops = append(loops, Loop{
						LoopPath:    loopPath,
						RedirectIDs: loopIDs,
						SiteName:    siteName,
					})
				}
				break
			}

			visitedPaths[currentPath] = struct{}{}
			pathList = append(pathList, currentPath)
			redirectIDs = append(redirectIDs, current.ID)

			target := targetPath(current, pages)
			if target == "" {
				break
			}
			current = index[NormalizePath(target)]
		}
	}

	return loops
}

// detectDeadTargets finds redirects pointing at deleted pages, unpublished
// pages, unresolvable internal paths and unreachable external URLs.
func (a *Analyzer) detectDeadTargets(
	ctx context.Context,
	site *Site,
	redirects []*domain.Redirect,
	pages map[int64]*PageNode,
	siteName string,
	report *Report,
) {
	for _, redirect := range redirects {
		switch {
		case redirect.PageID != nil:
			page, ok := pages[*redirect.PageID]
			if !ok {
				report.RedirectsTo404 = append(report.RedirectsTo404, DeadTarget{
					RedirectID: redirect.ID,
					OldPath:    redirect.OldPath,
					Target:     "Page ID " + itoa(*redirect.PageID) + " (deleted)",
					SiteName:   siteName,
					Reason:     "Target page has been deleted",
				})
				continue
			}
			if !page.Live {
				report.RedirectsToUnpublished = append(report.RedirectsToUnpublished, UnpublishedTarget{
					RedirectID:      redirect.ID,
					OldPath:         redirect.OldPath,
					TargetPageID:    page.ID,
					TargetPageTitle: page.Title,
					SiteName:        siteName,
					Reason:          "Page is unpublished",
				})
			}

		case redirect.Link != "":
			parsed, err := url.Parse(redirect.Link)
			isInternal := err != nil || parsed.Scheme == "" || parsed.Host == ""

			if isInternal {
				if site == nil {
					// Global redirects carry no site, so there is no page
					// tree to resolve internal paths against.
					a.logger.Debug("Skipping internal path check for global redirect",
						"old_path", redirect.OldPath, "link", redirect.Link)
					continue
				}
				path := redirect.Link
				if err == nil {
					path = parsed.Path
				}
				if !internalPathExists(site, path) {
					report.RedirectsTo404 = append(report.RedirectsTo404, DeadTarget{
						RedirectID: redirect.ID,
						OldPath:    redirect.OldPath,
						Target:     redirect.Link,
						SiteName:   siteName,
						Reason:     "Internal path does not match any page",
					})
				}
				continue
			}

			if a.checkExternal && !a.externalURLReachable(ctx, redirect.Link) {
				report.RedirectsTo404 = append(report.RedirectsTo404, DeadTarget{
					RedirectID: redirect.ID,
					OldPath:    redirect.OldPath,
					Target:     redirect.Link,
					SiteName:   siteName,
					Reason:     "External URL returns 404 or is unreachable",
				})
			}
		}
	}
}

// internalPathExists routes a path through the site's page tree segment
// by segment, matching child slugs; the final page must be live.
func internalPathExists(site *Site, path string) bool {
	if site == nil || site.Root == nil {
		return false
	}

	normalized := NormalizePath(path)
	if normalized == "/" {
		return site.Root.Live
	}

	current := site.Root
	for _, part := range strings.Split(strings.Trim(normalized, "/"), "/") {
		var next *PageNode
		for _, child := range current.Children {
			if child.Slug == part {
				next = child
				break
			}
		}
		if next == nil {
			return false
		}
		current = next
	}
	return current.Live
}

// externalURLReachable probes a URL with HEAD, falling back to GET on 405.
// Any transport error counts as unreachable; doubt is treated as broken
// rather than propagated.
func (a *Analyzer) externalURLReachable(ctx context.Context, rawURL string) bool {
	status, err := a.probe(ctx, http.MethodHead, rawURL)
	if err != nil {
		a.logger.Debug("External URL probe failed", "url", rawURL, "error", err)
		return false
	}
	if status == http.StatusMethodNotAllowed {
		status, err = a.probe(ctx, http.MethodGet, rawURL)
		if err != nil {
			return false
		}
	}
	return status < http.StatusBadRequest
}

func (a *Analyzer) probe(ctx context.Context, method, rawURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, http.NoBody)
	if err != nil {
		return 0, err
	}
	for key, value := range browserHeaders {
		req.Header.Set(key, value)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func indexOf(paths []string, path string) int {
	for i, p := range paths {
		if p == path {
			return i
		}
	}
	return 0
}

func idSetKey(ids []int64) string {
	sorted := append([]int64{}, ids...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	var sb strings.Builder
	for _, id := range sorted {
		sb.WriteString(itoa(id))
		sb.WriteByte(',')
	}
	return sb.String()
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
