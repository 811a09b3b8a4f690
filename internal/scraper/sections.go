package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const minSectionFragment = 15

// extractSections splits the main content into header-led sections.
// Headers h1-h4 are taken in document order; the content of a section
// is every following p/li/td text until the next header. Page builders
// nest content arbitrarily, so the walk is document-order, not
// sibling-order. Destructive on doc.
func extractSections(doc *goquery.Document) []PageSection {
	stripNonContent(doc)
	root := mainContent(doc)
	if root.Length() == 0 {
		return nil
	}

	// Header texts seen anywhere on the page. A repeated header (the
	// same text rendered twice by a responsive layout) must not start
	// a new section.
	headerTexts := make(map[string]struct{})
	root.Find("h1, h2, h3, h4").Each(func(_ int, sel *goquery.Selection) {
		if text := cleanText(sel.Text()); text != "" {
			headerTexts[strings.ToLower(text)] = struct{}{}
		}
	})

	var sections []PageSection
	var current *PageSection
	var fragments []string

	flush := func() {
		if current == nil {
			return
		}
		current.Content = strings.TrimSpace(strings.Join(fragments, "\n"))
		if current.Header != "" || current.Content != "" {
			sections = append(sections, *current)
		}
		current = nil
		fragments = nil
	}

	addFragment := func(text string) {
		if len([]rune(text)) <= minSectionFragment {
			return
		}
		for i, existing := range fragments {
			if strings.Contains(existing, text) {
				return
			}
			if strings.Contains(text, existing) {
				fragments[i] = text
				return
			}
		}
		fragments = append(fragments, text)
	}

	root.Find("h1, h2, h3, h4, p, li, td").Each(func(_ int, sel *goquery.Selection) {
		text := cleanText(sel.Text())
		if text == "" {
			return
		}

		if tag := goquery.NodeName(sel); isHeaderTag(tag) {
			if _, known := headerTexts[strings.ToLower(text)]; !known {
				return
			}
			if current != nil && strings.EqualFold(current.Header, text) {
				return
			}
			flush()
			current = &PageSection{Tag: tag, Header: text}
			return
		}

		if current == nil {
			// Content before any header: collect into a headerless
			// leading section.
			current = &PageSection{}
		}
		addFragment(text)
	})
	flush()

	// A page without headers still yields one section so downstream
	// classification sees its text.
	if len(sections) == 0 {
		if text := cleanText(root.Text()); text != "" {
			sections = append(sections, PageSection{Content: text})
		}
	}

	return dedupSections(sections)
}

func isHeaderTag(name string) bool {
	switch name {
	case "h1", "h2", "h3", "h4":
		return true
	}
	return false
}

// dedupSections collapses sections sharing a header and the first 100
// chars of content, case-insensitive. Responsive layouts often render
// the same section twice with trailing differences.
func dedupSections(sections []PageSection) []PageSection {
	seen := make(map[string]struct{}, len(sections))
	deduped := make([]PageSection, 0, len(sections))
	for _, s := range sections {
		prefix := []rune(strings.ToLower(s.Content))
		if len(prefix) > 100 {
			prefix = prefix[:100]
		}
		key := strings.ToLower(s.Header) + "\x00" + string(prefix)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, s)
	}
	return deduped
}
