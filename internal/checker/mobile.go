package checker

import (
	"regexp"
	"strconv"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/seoaudit/internal/domain"
)

// MinBaseFontSizePx is the smallest comfortable base font size on mobile.
const MinBaseFontSizePx = 16

// maxContainerCandidates caps how many layout containers get inspected.
const maxContainerCandidates = 5

var (
	fixedWidthPattern  = regexp.MustCompile(`width\s*:\s*\d+px`)
	containerIDPattern = regexp.MustCompile(`(?i)(container|wrapper|main)`)
	fontSizePattern    = regexp.MustCompile(`font-size\s*:\s*(\d+)px`)
)

// MobileChecker checks viewport configuration and layout responsiveness.
type MobileChecker struct{}

// Name returns the checker identifier.
func (c *MobileChecker) Name() string { return "mobile" }

// Check inspects the page's mobile readiness.
func (c *MobileChecker) Check(doc *goquery.Document, pctx Context) []domain.Issue {
	var issues []domain.Issue

	if doc.Find(`meta[name="viewport"]`).Length() == 0 {
		issues = append(issues, domain.NewIssue(domain.MobileNoViewport, pctx.URL))
	}

	containers := layoutContainers(doc)
	if hasFixedWidth(containers) {
		issues = append(issues, domain.NewIssue(domain.MobileFixedWidth, pctx.URL))
	}
	if hasSmallBaseFont(containers) {
		issues = append(issues, domain.NewIssue(domain.MobileTextSmall, pctx.URL))
	}

	return issues
}

// layoutContainers returns the body plus up to five elements whose id
// suggests a main layout container.
func layoutContainers(doc *goquery.Document) []*goquery.Selection {
	containers := []*goquery.Selection{doc.Find("body").First()}

	doc.Find("div[id], main[id], section[id]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if containerIDPattern.MatchString(s.AttrOr("id", "")) {
			containers = append(containers, s)
		}
		return len(containers) < 1+maxContainerCandidates
	})

	return containers
}

func hasFixedWidth(containers []*goquery.Selection) bool {
	for _, c := range containers {
		if c.Length() == 0 {
			continue
		}
		if fixedWidthPattern.MatchString(c.AttrOr("style", "")) {
			return true
		}
	}
	return false
}

func hasSmallBaseFont(containers []*goquery.Selection) bool {
	for _, c := range containers {
		if c.Length() == 0 {
			continue
		}
		m := fontSizePattern.FindStringSubmatch(c.AttrOr("style", ""))
		if m == nil {
			continue
		}
		size, err := strconv.Atoi(m[1])
		if err == nil && size < MinBaseFontSizePx {
			return true
		}
	}
	return false
}
