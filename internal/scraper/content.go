package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Keyword sets for tier classification. High priority marks awards,
// reviews and concrete achievements; medium marks credentials and
// availability claims.
var highPriorityKeywords = []string{
	"finalist", "vinder", "nomineret", "kåret", "årets",
	"trustpilot", "stjerner", "anmeldelser",
	"års erfaring", "+ anmeld", "+100", "+1000",
}

var mediumPriorityKeywords = []string{
	"certificer", "autoriseret", "godkendt",
	"24 timer", "døgnvagt",
	"etableret", "grundlagt",
}

// uspMarkers flag short standalone elements worth surfacing even when
// they sit outside normal text flow (badges, counters, trust seals).
var uspMarkers = []string{
	"års", "erfaring", "anmeld", "trustpilot",
	"finalist", "vinder", "certificer", "stjerner",
}

var strippedTags = []string{"script", "style", "nav", "footer", "header", "aside", "form", "noscript", "iframe"}

var (
	tripleNewlines = regexp.MustCompile(`\n{3,}`)
	repeatedSpaces = regexp.MustCompile(` {2,}`)
)

// priorityLevel classifies text by keyword match, high checked first.
func priorityLevel(text string) PriorityTier {
	lower := strings.ToLower(text)
	for _, kw := range highPriorityKeywords {
		if strings.Contains(lower, kw) {
			return TierHigh
		}
	}
	for _, kw := range mediumPriorityKeywords {
		if strings.Contains(lower, kw) {
			return TierMedium
		}
	}
	return TierRegular
}

// stripNonContent removes the subtrees that never carry page copy.
// Destructive; callers pass a document they own.
func stripNonContent(doc *goquery.Document) {
	doc.Find(strings.Join(strippedTags, ", ")).Remove()
}

// mainContent selects the extraction root: the first of main, article,
// body holding real content elements, else body unconditionally.
func mainContent(doc *goquery.Document) *goquery.Selection {
	for _, candidate := range []string{"main", "article", "body"} {
		sel := doc.Find(candidate).First()
		if sel.Length() > 0 && sel.Find("p, h1, h2, h3, li").Length() > 0 {
			return sel
		}
	}
	return doc.Find("body").First()
}

// extractContent pulls headings, paragraphs and list items out of an
// already-stripped document, orders them high/medium/regular and
// truncates to maxLength with a "..." marker.
func extractContent(doc *goquery.Document, maxLength int) string {
	root := mainContent(doc)
	if root.Length() == 0 {
		return ""
	}

	var high, medium, regular []string
	appendTiered := func(text string, tier PriorityTier) {
		switch tier {
		case TierHigh:
			high = append(high, text)
		case TierMedium:
			medium = append(medium, text)
		default:
			regular = append(regular, text)
		}
	}

	root.Find("h1, h2, h3").Each(func(_ int, sel *goquery.Selection) {
		text := cleanText(sel.Text())
		if len([]rune(text)) > 3 {
			appendTiered("## "+text, priorityLevel(text))
		}
	})

	root.Find("p").Each(func(_ int, sel *goquery.Selection) {
		text := cleanText(sel.Text())
		if len([]rune(text)) > 20 {
			appendTiered(text, priorityLevel(text))
		}
	})

	root.Find("li").Each(func(_ int, sel *goquery.Selection) {
		text := cleanText(sel.Text())
		tier := priorityLevel(text)
		maxLen := 200
		if tier > TierRegular {
			maxLen = 400
		}
		if n := len([]rune(text)); n > 10 && n < maxLen {
			appendTiered("• "+text, tier)
		}
	})

	// Short badge-like elements with USP markers go in as high
	// priority, skipping anything already collected.
	seen := make(map[string]struct{}, len(high)+len(medium)+len(regular))
	for _, lists := range [][]string{high, medium, regular} {
		for _, t := range lists {
			seen[t] = struct{}{}
		}
	}
	root.Find("span, div, strong, b").Each(func(_ int, sel *goquery.Selection) {
		text := cleanText(sel.Text())
		if text == "" || len([]rune(text)) >= 100 || !isUSPText(text) {
			return
		}
		formatted := "[USP] " + text
		if _, dup := seen[formatted]; dup {
			return
		}
		seen[formatted] = struct{}{}
		high = append(high, formatted)
	})

	full := strings.Join(append(append(high, medium...), regular...), "\n")
	full = tripleNewlines.ReplaceAllString(full, "\n\n")
	full = repeatedSpaces.ReplaceAllString(full, " ")
	full = truncateWithMarker(full, maxLength)
	return strings.TrimSpace(full)
}

func isUSPText(text string) bool {
	if strings.Contains(text, "+") || strings.Contains(text, "%") {
		return true
	}
	lower := strings.ToLower(text)
	for _, marker := range uspMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// truncateWithMarker caps text at maxLength runes, appending "..." only
// when something was actually cut.
func truncateWithMarker(text string, maxLength int) string {
	if maxLength <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	return string(runes[:maxLength]) + "..."
}

// cleanText collapses whitespace runs inside element text.
func cleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
