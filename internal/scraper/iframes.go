package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// iframePlatformPatterns maps URL substrings to review platforms, in
// match order.
var iframePlatformPatterns = []struct {
	substring string
	platform  string
}{
	{"trustpilot", "Trustpilot"},
	{"google.com/maps", "Google"},
	{"maps.google", "Google"},
	{"google.com/reviews", "Google"},
	{"facebook.com/plugins", "Facebook"},
	{"yelp.", "Yelp"},
	{"tripadvisor", "TripAdvisor"},
	{"anmeld-haandvaerker", "Anmeld Håndværker"},
	{"haandvaerker.dk", "Håndværker.dk"},
}

// extractReviewIframes finds embedded review-platform widgets: iframes
// whose src points at a known platform, plus Trustpilot TrustBox divs
// which carry their configuration in data attributes instead of an
// iframe.
func extractReviewIframes(doc *goquery.Document) []ReviewIframe {
	var iframes []ReviewIframe
	seen := make(map[string]struct{})

	doc.Find("iframe").Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok || src == "" {
			src, _ = sel.Attr("data-src")
		}
		if src == "" {
			return
		}

		platform := matchIframePlatform(src)
		if platform == "" {
			return
		}
		if _, dup := seen[src]; dup {
			return
		}
		seen[src] = struct{}{}

		width, _ := sel.Attr("width")
		height, _ := sel.Attr("height")
		embed, _ := goquery.OuterHtml(sel)

		iframes = append(iframes, ReviewIframe{
			Platform:  platform,
			Src:       src,
			Width:     width,
			Height:    height,
			EmbedCode: embed,
		})
	})

	doc.Find("div[data-locale][data-template-id][data-businessunit-id]").Each(func(_ int, sel *goquery.Selection) {
		templateID, _ := sel.Attr("data-template-id")
		businessUnitID, _ := sel.Attr("data-businessunit-id")
		if templateID == "" || businessUnitID == "" {
			return
		}

		src := fmt.Sprintf("https://widget.trustpilot.com/trustboxes/%s/index.html?businessunitId=%s",
			templateID, businessUnitID)
		if _, dup := seen[src]; dup {
			return
		}
		seen[src] = struct{}{}

		embed, _ := goquery.OuterHtml(sel)
		iframes = append(iframes, ReviewIframe{
			Platform:   "Trustpilot",
			Src:        src,
			EmbedCode:  embed,
			WidgetType: "trustbox",
		})
	})

	return iframes
}

func matchIframePlatform(src string) string {
	lower := strings.ToLower(src)
	for _, pattern := range iframePlatformPatterns {
		if strings.Contains(lower, pattern.substring) {
			return pattern.platform
		}
	}
	return ""
}
