package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const noiseSelector = "nav, footer, header, script, style, noscript, iframe, form, " +
	".ad, .ads, .advertisement, .sidebar, .cookie-banner, .popup"

const blockSelector = "p, div, li, br, tr, section, article, h1, h2, h3, h4, h5, h6"

// DefaultSelectors locate the main content of a general page.
func DefaultSelectors() []string {
	return []string{"main", "article", ".content", "#content", ".main-content", "#main-content"}
}

// JobPostingSelectors locate the description on common job boards before
// falling back to generic content containers.
func JobPostingSelectors() []string {
	return []string{
		".job-description",
		".job-content",
		"#job-description",
		"#job-content",
		".posting-content",
		".job-details",
		"[data-testid='job-description']",
		"[itemprop='description']",
		"main",
		"article",
		".content",
		"#content",
	}
}

// HTMLText returns the text of the first element matching one of selectors,
// or of the body when none matches. Block elements end a line so section
// headers survive.
func HTMLText(document string, selectors []string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	doc.Find(noiseSelector).Remove()
	doc.Find(blockSelector).AfterHtml("\n")

	var main *goquery.Selection
	for _, sel := range selectors {
		if s := doc.Find(sel); s.Length() > 0 {
			main = s.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}
	return cleanLines(main.Text()), nil
}
