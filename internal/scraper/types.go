// Package scraper fetches Danish local-service websites and extracts
// prioritized text content, structured sections, testimonials and
// review widgets, with a crawl orchestrator that aggregates whole-site
// results.
package scraper

import (
	"encoding/json"
	"time"
)

// PriorityTier classifies an extracted text fragment.
type PriorityTier int

const (
	TierRegular PriorityTier = iota
	TierMedium
	TierHigh
)

// PageType categorizes a crawled page by its URL path.
type PageType string

const (
	PageTypeForside  PageType = "forside"
	PageTypeOmOs     PageType = "om_os"
	PageTypeKontakt  PageType = "kontakt"
	PageTypeServices PageType = "services"
	PageTypePriser   PageType = "priser"
	PageTypeFAQ      PageType = "faq"
	PageTypeBlog     PageType = "blog"
	PageTypeAndet    PageType = "andet"
)

// PageSection is one header-led block of page content. Tag records the
// heading level ("h1".."h4") that opened the section; empty for
// headerless leading or fallback sections.
type PageSection struct {
	Tag     string `json:"tag,omitempty"`
	Header  string `json:"header"`
	Content string `json:"content"`
}

// Review is a single extracted customer testimonial.
type Review struct {
	Author   string  `json:"author"`
	Rating   float64 `json:"rating"`
	Text     string  `json:"text"`
	Platform string  `json:"platform"`
}

// ReviewIframe is an embedded review-platform widget found on a page.
type ReviewIframe struct {
	Platform   string `json:"platform"`
	Src        string `json:"src"`
	Width      string `json:"width,omitempty"`
	Height     string `json:"height,omitempty"`
	EmbedCode  string `json:"embed_code,omitempty"`
	WidgetType string `json:"widget_type,omitempty"`
}

// ScrapedPage holds everything extracted from one crawled URL. Built
// once per URL and not mutated afterwards.
type ScrapedPage struct {
	URL                   string        `json:"url"`
	Path                  string        `json:"path"`
	Content               string        `json:"content"`
	MetaTitle             string        `json:"meta_title"`
	MetaDescription       string        `json:"meta_description"`
	PageType              PageType      `json:"page_type"`
	Sections              []PageSection `json:"sections"`
	ReviewSectionPosition *int          `json:"review_section_position,omitempty"`
}

// PageResult is the full outcome of scraping one URL with metadata.
type PageResult struct {
	Content               string
	MetaTitle             string
	MetaDescription       string
	Sections              []PageSection
	Reviews               []Review
	ReviewSectionPosition *int
	ReviewIframes         []ReviewIframe
}

// ScrapeResult is the terminal artifact of a whole-site crawl.
type ScrapeResult struct {
	URL              string                  `json:"url"`
	ScrapedAt        time.Time               `json:"scraped_at"`
	MaxPages         int                     `json:"max_pages"`
	SitemapURLsCount int                     `json:"sitemap_urls_count"`
	PagesScraped     int                     `json:"pages_scraped"`
	Pages            map[string]*ScrapedPage `json:"pages"`
	CombinedContent  string                  `json:"combined_content"`
	ServiceSummary   string                  `json:"service_summary"`
	ExtractedReviews []Review                `json:"extracted_reviews"`
	ReviewIframes    []ReviewIframe          `json:"review_iframes"`
}

// Marshal serializes a result for cache or client-record persistence.
func (r *ScrapeResult) Marshal() (json.RawMessage, error) {
	return json.Marshal(r)
}

// UnmarshalResult parses a stored scrape result.
func UnmarshalResult(data []byte) (*ScrapeResult, error) {
	var result ScrapeResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
