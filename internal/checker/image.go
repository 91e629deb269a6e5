package checker

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/seoaudit/internal/domain"
)

// MaxAltLength is the longest useful alt text.
const MaxAltLength = 125

// genericAltTexts are alt values that carry no information.
var genericAltTexts = map[string]struct{}{
	"image":   {},
	"photo":   {},
	"picture": {},
	"img":     {},
	"icon":    {},
}

// ImageChecker checks image alt text quality.
type ImageChecker struct{}

// Name returns the checker identifier.
func (c *ImageChecker) Name() string { return "image" }

// Check inspects every img tag's alt attribute.
func (c *ImageChecker) Check(doc *goquery.Document, pctx Context) []domain.Issue {
	var issues []domain.Issue
	missing := 0

	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		alt := strings.TrimSpace(img.AttrOr("alt", ""))
		if alt == "" {
			missing++
			return
		}

		if _, generic := genericAltTexts[strings.ToLower(alt)]; generic {
			issues = append(issues, domain.NewIssue(domain.ImageAltGeneric, pctx.URL, alt))
		}
		if length := len([]rune(alt)); length > MaxAltLength {
			issues = append(issues, domain.NewIssue(domain.ImageAltTooLong, pctx.URL,
				length, MaxAltLength))
		}
	})

	if missing > 0 {
		issues = append(issues, domain.NewIssue(domain.ImageNoAlt, pctx.URL, missing))
	}

	return issues
}
