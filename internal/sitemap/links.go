package sitemap

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var binaryExtensions = []string{".pdf", ".jpg", ".jpeg", ".png", ".gif", ".zip"}

// DiscoverLinks fetches the base URL once and extracts same-domain
// anchor links not already present in existing. Used as a fallback when
// the sitemap yields too few URLs. Any failure returns an empty list.
func (d *Discoverer) DiscoverLinks(ctx context.Context, baseURL string, existing []string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", crawlerUserAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		d.log.WithError(err).Debug("link discovery fetch failed", map[string]interface{}{"url": baseURL})
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil
	}

	known := make(map[string]struct{}, len(existing)*3)
	for _, u := range existing {
		for _, variant := range slashVariants(u) {
			known[variant] = struct{}{}
		}
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || !isCrawlableHref(href) {
			return
		}

		parsed, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(parsed)
		resolved.Fragment = ""

		if !sameSite(resolved.Hostname(), base.Hostname()) {
			return
		}
		if hasBinaryExtension(resolved.Path) {
			return
		}

		abs := resolved.String()
		for _, variant := range slashVariants(abs) {
			if _, seen := known[variant]; seen {
				return
			}
		}
		for _, variant := range slashVariants(abs) {
			known[variant] = struct{}{}
		}
		links = append(links, abs)
	})

	return links
}

// sameSite compares hosts ignoring case and a www prefix, so a
// www.example.dk homepage keeps links pointing at example.dk.
func sameSite(a, b string) bool {
	return strings.EqualFold(stripWWW(a), stripWWW(b))
}

func stripWWW(host string) string {
	if len(host) > 4 && strings.EqualFold(host[:4], "www.") {
		return host[4:]
	}
	return host
}

func isCrawlableHref(href string) bool {
	lower := strings.ToLower(href)
	if strings.HasPrefix(lower, "#") {
		return false
	}
	for _, scheme := range []string{"tel:", "mailto:", "javascript:"} {
		if strings.HasPrefix(lower, scheme) {
			return false
		}
	}
	return true
}

func hasBinaryExtension(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range binaryExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// slashVariants returns the forms a URL may already be recorded under:
// as-is, with a trailing slash, and without one.
func slashVariants(u string) []string {
	trimmed := strings.TrimSuffix(u, "/")
	return []string{u, trimmed, trimmed + "/"}
}
