package sitemap

import (
	"net/url"
	"regexp"
	"strings"
)

// priorityPatterns match the page paths worth crawling first: home,
// about, contact, services, prices, FAQ and team pages.
var priorityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^/?$`),
	regexp.MustCompile(`^/om-os(/|$)`),
	regexp.MustCompile(`^/about(/|$)`),
	regexp.MustCompile(`^/om(/|$)`),
	regexp.MustCompile(`^/kontakt(/|$)`),
	regexp.MustCompile(`^/contact(/|$)`),
	regexp.MustCompile(`^/services?(/|$)`),
	regexp.MustCompile(`^/ydelser(/|$)`),
	regexp.MustCompile(`^/priser(/|$)`),
	regexp.MustCompile(`^/prices?(/|$)`),
	regexp.MustCompile(`^/faq(/|$)`),
	regexp.MustCompile(`^/team(/|$)`),
	regexp.MustCompile(`^/medarbejdere(/|$)`),
}

// Prioritize orders urls so high-value pages come first, guarantees the
// base URL leads the list, deduplicates preserving first-seen order,
// and truncates to maxPages. A maxPages of 0 means no limit.
func Prioritize(urls []string, maxPages int, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	var priority, regular []string
	for _, raw := range urls {
		parsed, err := url.Parse(raw)
		if err != nil {
			continue
		}
		if !sameSite(parsed.Hostname(), base.Hostname()) {
			continue
		}
		if isPriorityPath(parsed.Path) {
			priority = append(priority, raw)
		} else {
			regular = append(regular, raw)
		}
	}

	// The base URL always heads the crawl order.
	if !containsSlashVariant(priority, baseURL) {
		priority = append([]string{baseURL}, priority...)
	} else {
		priority = moveToFront(priority, baseURL)
	}

	seen := make(map[string]struct{})
	var ordered []string
	for _, u := range append(priority, regular...) {
		key := strings.TrimSuffix(u, "/")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		ordered = append(ordered, u)
	}

	if maxPages > 0 && len(ordered) > maxPages {
		ordered = ordered[:maxPages]
	}
	return ordered
}

func isPriorityPath(path string) bool {
	lower := strings.ToLower(path)
	for _, pattern := range priorityPatterns {
		if pattern.MatchString(lower) {
			return true
		}
	}
	return false
}

func containsSlashVariant(urls []string, target string) bool {
	key := strings.TrimSuffix(target, "/")
	for _, u := range urls {
		if strings.TrimSuffix(u, "/") == key {
			return true
		}
	}
	return false
}

func moveToFront(urls []string, target string) []string {
	key := strings.TrimSuffix(target, "/")
	for i, u := range urls {
		if strings.TrimSuffix(u, "/") == key {
			if i == 0 {
				return urls
			}
			reordered := make([]string, 0, len(urls))
			reordered = append(reordered, u)
			reordered = append(reordered, urls[:i]...)
			reordered = append(reordered, urls[i+1:]...)
			return reordered
		}
	}
	return urls
}
