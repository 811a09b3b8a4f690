package scraper

import "strings"

// DetectPageType categorizes a page by its URL path.
func DetectPageType(path string) PageType {
	p := strings.ToLower(strings.TrimSuffix(path, "/"))

	switch {
	case p == "" || p == "/":
		return PageTypeForside
	case containsAny(p, "/om-os", "/om", "/about"):
		return PageTypeOmOs
	case containsAny(p, "/kontakt", "/contact"):
		return PageTypeKontakt
	case containsAny(p, "/ydelser", "/services", "/service"):
		return PageTypeServices
	case containsAny(p, "/priser", "/prices", "/pricing"):
		return PageTypePriser
	case strings.Contains(p, "/faq"):
		return PageTypeFAQ
	case containsAny(p, "/blog", "/nyheder", "/artikel", "/news"):
		return PageTypeBlog
	default:
		return PageTypeAndet
	}
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
