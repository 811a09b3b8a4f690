package scraper

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"adbuilder-scraper/internal/common/logger"
	"adbuilder-scraper/internal/common/metrics"
)

// reviewSectionMarkers identify a section heading that introduces
// customer testimonials.
var reviewSectionMarkers = []string{
	"anmeld", "testimonial", "udtalelser", "kunder siger", "siger om os", "referencer",
}

// PageScraper extracts content and structure from a single page.
type PageScraper struct {
	fetcher          *Fetcher
	maxContentLength int
	log              logger.Logger
}

func NewPageScraper(fetcher *Fetcher, maxContentLength int, log logger.Logger) *PageScraper {
	return &PageScraper{fetcher: fetcher, maxContentLength: maxContentLength, log: log}
}

// Scrape fetches a page and returns its prioritized text content.
// Returns an empty string on any failure.
func (s *PageScraper) Scrape(ctx context.Context, pageURL string) string {
	html := s.fetcher.Fetch(ctx, pageURL)
	if html == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		s.log.WithError(err).Warn("failed to parse page HTML", map[string]interface{}{"url": pageURL})
		return ""
	}
	stripNonContent(doc)
	return extractContent(doc, s.maxContentLength)
}

// ScrapeWithMeta fetches a page once and extracts everything the
// orchestrator needs. Sections, reviews and iframes come from separate
// parses of the raw HTML because content extraction strips the very
// elements they live in.
func (s *PageScraper) ScrapeWithMeta(ctx context.Context, pageURL string) *PageResult {
	start := time.Now()
	defer func() {
		metrics.PageFetchDuration.Observe(time.Since(start).Seconds())
	}()

	result := &PageResult{}

	html := s.fetcher.Fetch(ctx, pageURL)
	if html == "" {
		metrics.PagesScraped.WithLabelValues("empty").Inc()
		return result
	}

	pristine, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		s.log.WithError(err).Warn("failed to parse page HTML", map[string]interface{}{"url": pageURL})
		metrics.PagesScraped.WithLabelValues("parse_error").Inc()
		return result
	}

	result.MetaTitle = cleanText(pristine.Find("title").First().Text())
	result.MetaDescription, _ = pristine.Find(`meta[name="description"]`).Attr("content")
	result.MetaDescription = strings.TrimSpace(result.MetaDescription)
	result.Reviews = extractReviews(pristine)
	result.ReviewIframes = extractReviewIframes(pristine)

	if sectionDoc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		result.Sections = extractSections(sectionDoc)
		result.ReviewSectionPosition = findReviewSectionPosition(result.Sections)
	}

	if contentDoc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		stripNonContent(contentDoc)
		result.Content = extractContent(contentDoc, s.maxContentLength)
	}

	if len(result.Reviews) > 0 {
		metrics.ReviewsExtracted.WithLabelValues("html").Add(float64(len(result.Reviews)))
	}
	metrics.PagesScraped.WithLabelValues("ok").Inc()
	return result
}

// findReviewSectionPosition returns the index of the first section
// whose header reads like a testimonial block, or nil.
func findReviewSectionPosition(sections []PageSection) *int {
	for i, section := range sections {
		header := strings.ToLower(section.Header)
		for _, marker := range reviewSectionMarkers {
			if strings.Contains(header, marker) {
				idx := i
				return &idx
			}
		}
	}
	return nil
}
