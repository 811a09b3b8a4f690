// Package slug builds Danish URL slugs and matches landing-page URLs
// across the common spelling variants of Danish city names.
package slug

import (
	"regexp"
	"strings"
)

var danishReplacer = strings.NewReplacer(
	"æ", "ae",
	"ø", "oe",
	"å", "aa",
)

var (
	invalidChars    = regexp.MustCompile(`[^a-z0-9\-]`)
	invalidDanish   = regexp.MustCompile(`[^a-zæøå0-9\-]`)
	repeatedHyphens = regexp.MustCompile(`-+`)
)

// Slugify converts Danish text to a URL-safe slug. æ, ø and å become
// ae, oe and aa; everything else non-alphanumeric collapses to single
// hyphens.
//
//	Slugify("Bagsværd") == "bagsvaerd"
//	Slugify("Ølstykke") == "oelstykke"
func Slugify(text string) string {
	if text == "" {
		return ""
	}
	s := strings.ToLower(strings.TrimSpace(text))
	s = danishReplacer.Replace(s)
	s = invalidChars.ReplaceAllString(s, "-")
	s = repeatedHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// CreateServiceSlug joins a service and city into a landing-page slug.
//
//	CreateServiceSlug("Fugemand", "Bagsværd") == "fugemand-bagsvaerd"
func CreateServiceSlug(service, city string) string {
	return Slugify(service) + "-" + Slugify(city)
}

// CreateFullURL builds the landing-page URL for a service+city pair.
// With an empty domain a root-relative path is returned.
func CreateFullURL(service, city, domain string) string {
	s := CreateServiceSlug(service, city)
	if domain == "" {
		return "/" + s + "/"
	}
	if !strings.HasPrefix(domain, "http") {
		domain = "https://" + domain
	}
	return domain + "/" + s + "/"
}

// SlugVariants returns every slug spelling used when matching URLs:
// the standard slug, a hyphen-free form, a form keeping æøå, and an
// ASCII-folded form (ø→o, æ→a, å→a).
func SlugVariants(text string) []string {
	if text == "" {
		return nil
	}

	lower := strings.ToLower(strings.TrimSpace(text))
	seen := make(map[string]struct{})
	var variants []string
	add := func(v string) {
		if v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		variants = append(variants, v)
	}

	standard := Slugify(text)
	add(standard)
	add(strings.ReplaceAll(standard, "-", ""))

	simple := invalidDanish.ReplaceAllString(lower, "-")
	simple = strings.Trim(repeatedHyphens.ReplaceAllString(simple, "-"), "-")
	add(simple)
	add(strings.ReplaceAll(simple, "-", ""))

	folded := strings.NewReplacer("æ", "a", "ø", "o", "å", "a").Replace(lower)
	folded = invalidChars.ReplaceAllString(folded, "-")
	folded = strings.Trim(repeatedHyphens.ReplaceAllString(folded, "-"), "-")
	if folded != standard {
		add(folded)
		add(strings.ReplaceAll(folded, "-", ""))
	}

	return variants
}

// NormalizeURLPath reduces a URL path to a comparable key: slashes
// stripped, lowercased, Danish characters standardized.
//
//	NormalizeURLPath("/Elektriker-København/") == "elektriker-koebenhavn"
func NormalizeURLPath(path string) string {
	if path == "" {
		return ""
	}
	s := strings.ToLower(strings.Trim(path, "/"))
	s = danishReplacer.Replace(s)
	return invalidChars.ReplaceAllString(s, "")
}

// URLsMatch reports whether two URL paths refer to the same page,
// ignoring slashes and Danish-character spelling variants.
func URLsMatch(a, b string) bool {
	return NormalizeURLPath(a) == NormalizeURLPath(b)
}
