package redirects

import (
	"github.com/jonesrussell/seoaudit/internal/domain"
	"github.com/jonesrussell/seoaudit/internal/logger"
)

// Flatten rewrites chained redirects to point directly at their final
// target: for A→B where B is itself the source of B→C, A is rewritten to
// A→C. Passes repeat until no rewrite happens, so chains of any length
// collapse fully and a second Flatten call on the result is a no-op.
// Returns the number of redirects rewritten.
func Flatten(site *Site, redirects []*domain.Redirect, log logger.Interface) int {
	pages := site.Pages()
	total := 0

	// A pass can shorten every chain by at least one hop, so the longest
	// possible chain bounds the passes needed.
	for pass := 0; pass <= len(redirects); pass++ {
		rewritten := flattenPass(redirects, pages, log)
		total += rewritten
		if rewritten == 0 {
			break
		}
	}

	if total > 0 {
		log.Info("Flattened redirect chains", "site", site.Name, "rewritten", total)
	}
	return total
}

func flattenPass(redirects []*domain.Redirect, pages map[int64]*PageNode, log logger.Interface) int {
	index := indexByOldPath(redirects)
	rewritten := 0

	for _, redirect := range redirects {
		if redirect.PageID == nil {
			continue
		}
		page, ok := pages[*redirect.PageID]
		if !ok || page.URL == "" {
			continue
		}

		target := NormalizePath(page.URL)
		next, ok := index[target]
		if !ok || next.ID == redirect.ID {
			continue
		}

		switch {
		case next.PageID != nil:
			if redirect.PageID != nil && *redirect.PageID == *next.PageID {
				continue // Already pointing at the final target.
			}
			pageID := *next.PageID
			redirect.PageID = &pageID
			redirect.Link = ""
		case next.Link != "":
			redirect.PageID = nil
			redirect.Link = next.Link
		default:
			continue
		}

		rewritten++
		log.Info("Flattened chain",
			"old_path", redirect.OldPath,
			"via", target,
			"target", targetPath(redirect, pages))
	}

	return rewritten
}
