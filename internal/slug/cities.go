package slug

import (
	"net/url"
	"strings"
)

// citySynonyms maps canonical Danish city names to the spellings and
// abbreviations seen in the wild on customer websites.
var citySynonyms = map[string][]string{
	"København":     {"kobenhavn", "koebenhavn", "copenhagen", "kbh", "cph"},
	"Aarhus":        {"aarhus", "århus", "aahus"},
	"Aalborg":       {"aalborg", "ålborg"},
	"Odense":        {"odense"},
	"Randers":       {"randers"},
	"Kolding":       {"kolding"},
	"Horsens":       {"horsens"},
	"Vejle":         {"vejle"},
	"Roskilde":      {"roskilde"},
	"Helsingør":     {"helsingoer", "helsingor", "elsinore"},
	"Hillerød":      {"hilleroed", "hillerod"},
	"Næstved":       {"naestved", "nastved"},
	"Frederiksberg": {"frederiksberg", "frb"},
	"Køge":          {"koege", "koge"},
	"Holbæk":        {"holbaek", "holbak"},
	"Slagelse":      {"slagelse"},
	"Herning":       {"herning"},
	"Silkeborg":     {"silkeborg"},
	"Esbjerg":       {"esbjerg"},
	"Fredericia":    {"fredericia"},
	"Viborg":        {"viborg"},
	"Sønderborg":    {"soenderborg", "sonderborg"},
	"Haderslev":     {"haderslev"},
	"Rødovre":       {"roedovre", "rodovre"},
	"Hvidovre":      {"hvidovre"},
	"Glostrup":      {"glostrup"},
	"Albertslund":   {"albertslund"},
	"Brøndby":       {"broendby", "brondby"},
	"Ishøj":         {"ishoej", "ishoj"},
	"Vallensbæk":    {"vallensbaek", "vallensbak"},
	"Greve":         {"greve"},
	"Solrød":        {"solroed", "solrod"},
	"Taastrup":      {"taastrup", "høje-taastrup", "hoeje-taastrup"},
	"Ballerup":      {"ballerup"},
	"Gentofte":      {"gentofte"},
	"Lyngby":        {"lyngby", "lyngby-taarbaek"},
	"Gladsaxe":      {"gladsaxe"},
	"Herlev":        {"herlev"},
	"Furesø":        {"furesoe", "fureso", "farum", "vaerloese"},
	"Egedal":        {"egedal", "olgod", "smorum"},
	"Frederikssund": {"frederikssund"},
	"Allerød":       {"alleroed", "allerod"},
	"Hørsholm":      {"hoersholm", "horsholm"},
	"Rudersdal":     {"rudersdal", "birkeroed", "holte"},
}

// CitySlugVariants returns every slug a city may appear under in a URL
// path, combining the standard slug forms with the synonym table.
func CitySlugVariants(city string) []string {
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

	add(Slugify(city))
	add(strings.ReplaceAll(Slugify(city), "-", ""))

	cityLower := strings.ToLower(city)
	for canonical, synonyms := range citySynonyms {
		match := cityLower == strings.ToLower(canonical)
		if !match {
			for _, syn := range synonyms {
				if cityLower == strings.ToLower(syn) {
					match = true
					break
				}
			}
		}
		if match {
			for _, syn := range synonyms {
				add(strings.ToLower(syn))
				add(strings.ReplaceAll(strings.ToLower(syn), "-", ""))
			}
			break
		}
	}

	return variants
}

// CityMatcher finds existing service+city landing pages among a site's
// URLs.
type CityMatcher struct {
	serviceName string
	serviceSlug string
}

func NewCityMatcher(serviceName string) *CityMatcher {
	return &CityMatcher{
		serviceName: serviceName,
		serviceSlug: Slugify(serviceName),
	}
}

// URLVariants returns the URL paths a service+city landing page might
// live at: hyphenated, joined, underscored and city-first forms, each
// with and without a trailing slash.
func (m *CityMatcher) URLVariants(city string) []string {
	seen := make(map[string]struct{})
	var variants []string
	add := func(v string) {
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		variants = append(variants, v)
	}

	for _, citySlug := range CitySlugVariants(city) {
		add("/" + m.serviceSlug + "-" + citySlug + "/")
		add("/" + m.serviceSlug + "-" + citySlug)
		add("/" + m.serviceSlug + citySlug + "/")
		add("/" + m.serviceSlug + citySlug)
		add("/" + m.serviceSlug + "_" + citySlug + "/")
		add("/" + m.serviceSlug + "_" + citySlug)
		add("/" + citySlug + "-" + m.serviceSlug + "/")
		add("/" + citySlug + "-" + m.serviceSlug)
	}
	return variants
}

// MatchCityURL returns the first site URL whose path matches any
// variant for the city, or "" if none match.
func (m *CityMatcher) MatchCityURL(siteURLs []string, city string) string {
	variants := m.URLVariants(city)

	for _, raw := range siteURLs {
		parsed, err := url.Parse(raw)
		if err != nil {
			continue
		}
		path := strings.ToLower(parsed.Path)

		for _, variant := range variants {
			v := strings.ToLower(variant)
			if path == v || strings.TrimSuffix(path, "/") == strings.TrimSuffix(v, "/") {
				return raw
			}
		}
	}
	return ""
}

// CityMatch is the per-city outcome of matching a site's URLs.
type CityMatch struct {
	City        string
	Existing    bool
	ExistingURL string
	ExpectedURL string
}

// MatchAllCities matches each city against the site URLs, returning the
// found URL or the expected landing-page path for missing ones.
func (m *CityMatcher) MatchAllCities(siteURLs []string, cities []string) []CityMatch {
	results := make([]CityMatch, 0, len(cities))
	for _, city := range cities {
		if existing := m.MatchCityURL(siteURLs, city); existing != "" {
			results = append(results, CityMatch{City: city, Existing: true, ExistingURL: existing})
			continue
		}
		results = append(results, CityMatch{
			City:        city,
			ExpectedURL: CreateFullURL(m.serviceName, city, ""),
		})
	}
	return results
}
