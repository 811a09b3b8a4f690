package scraper

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"adbuilder-scraper/internal/ai"
	"adbuilder-scraper/internal/cache"
	"adbuilder-scraper/internal/clients"
	"adbuilder-scraper/internal/common/config"
	"adbuilder-scraper/internal/common/logger"
	"adbuilder-scraper/internal/common/metrics"
	"adbuilder-scraper/internal/sitemap"
)

const (
	summaryCharsPerPage = 500
	cacheKeyPrefix      = "scrape:"
)

// Orchestrator drives whole-site crawls: URL discovery, prioritized
// page scraping, review aggregation and result persistence. There is no
// fatal error path in normal operation; a completely unreachable site
// yields a well-formed result with zero pages.
type Orchestrator struct {
	cfg        config.ScraperConfig
	discoverer *sitemap.Discoverer
	pages      *PageScraper
	classifier *ai.ReviewClassifier
	cache      cache.Cache
	clients    clients.Store
	log        logger.Logger
}

func NewOrchestrator(
	cfg config.ScraperConfig,
	discoverer *sitemap.Discoverer,
	pages *PageScraper,
	classifier *ai.ReviewClassifier,
	resultCache cache.Cache,
	clientStore clients.Store,
	log logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg,
		discoverer: discoverer,
		pages:      pages,
		classifier: classifier,
		cache:      resultCache,
		clients:    clientStore,
		log:        log,
	}
}

// CacheKey derives the reuse key for a url+page-budget combination.
func CacheKey(rawURL string, maxPages int) string {
	sum := sha256.Sum256([]byte(rawURL))
	return fmt.Sprintf("%s%s-%d", cacheKeyPrefix, hex.EncodeToString(sum[:])[:12], maxPages)
}

// ScrapeWebsite crawls a site and returns the aggregated result. A
// clientID of 0 means no client record; results then live in the
// transient cache. An existing stored result is returned as-is without
// re-crawling, stale or not; freshness is the caller's concern via
// HasFreshScrape.
func (o *Orchestrator) ScrapeWebsite(ctx context.Context, rawURL string, maxPages int, clientID int64) (*ScrapeResult, error) {
	start := time.Now()
	defer func() {
		metrics.CrawlDuration.Observe(time.Since(start).Seconds())
	}()

	log := o.log.With(map[string]interface{}{"crawl_id": uuid.NewString()})

	baseURL := strings.TrimSuffix(NormalizeURL(rawURL), "/")
	key := CacheKey(baseURL, maxPages)

	if reused := o.lookupStored(ctx, baseURL, key, clientID); reused != nil {
		return reused, nil
	}

	urls, sitemapCount := o.discoverURLs(ctx, baseURL)
	prioritized := sitemap.Prioritize(urls, maxPages, baseURL)

	pageResults := o.scrapeAll(ctx, prioritized)

	result := &ScrapeResult{
		URL:              baseURL,
		ScrapedAt:        time.Now().UTC(),
		MaxPages:         maxPages,
		SitemapURLsCount: sitemapCount,
		Pages:            make(map[string]*ScrapedPage),
		ExtractedReviews: []Review{},
		ReviewIframes:    []ReviewIframe{},
	}

	var combined strings.Builder
	var summary strings.Builder
	var allSections []ai.TaggedSection

	for i, pr := range pageResults {
		if pr == nil {
			continue
		}
		pageURL := prioritized[i]
		path := urlPath(pageURL)

		result.ExtractedReviews = mergeReviews(result.ExtractedReviews, pr.Reviews)
		result.ReviewIframes = append(result.ReviewIframes, pr.ReviewIframes...)

		for idx, section := range pr.Sections {
			allSections = append(allSections, ai.TaggedSection{
				Path:    path,
				Index:   idx,
				Header:  section.Header,
				Content: section.Content,
			})
		}

		if pr.Content == "" {
			continue
		}

		page := &ScrapedPage{
			URL:                   pageURL,
			Path:                  path,
			Content:               pr.Content,
			MetaTitle:             pr.MetaTitle,
			MetaDescription:       pr.MetaDescription,
			PageType:              DetectPageType(path),
			Sections:              pr.Sections,
			ReviewSectionPosition: pr.ReviewSectionPosition,
		}
		if _, exists := result.Pages[path]; exists {
			continue
		}
		result.Pages[path] = page
		result.PagesScraped++

		fmt.Fprintf(&combined, "--- %s ---\n%s\n\n", path, pr.Content)
		fmt.Fprintf(&summary, "--- %s ---\n%s\n\n", path, truncateWithMarker(pr.Content, summaryCharsPerPage))
	}

	result.CombinedContent = truncateWithMarker(strings.TrimSpace(combined.String()), o.cfg.CombinedContentMax)
	result.ServiceSummary = strings.TrimSpace(summary.String())

	// One classification call for the whole crawl, not one per page.
	if len(allSections) > 0 && o.classifier != nil {
		classified := o.classifier.ClassifyBatch(ctx, allSections)
		result.ExtractedReviews = mergeReviews(result.ExtractedReviews, convertClassified(classified.Reviews))
	}

	o.persist(ctx, result, key, clientID)

	log.Info("website crawl finished", map[string]interface{}{
		"url":           baseURL,
		"pages_scraped": result.PagesScraped,
		"sitemap_urls":  sitemapCount,
		"reviews":       len(result.ExtractedReviews),
		"duration_ms":   time.Since(start).Milliseconds(),
	})
	return result, nil
}

// lookupStored checks the client record first when a clientID is given,
// else the transient cache. Returns nil when nothing reusable exists.
func (o *Orchestrator) lookupStored(ctx context.Context, baseURL, key string, clientID int64) *ScrapeResult {
	if clientID != 0 && o.clients != nil {
		rec, err := o.clients.GetClient(ctx, clientID)
		if err == nil && len(rec.ScrapedData) > 0 {
			if stored, err := UnmarshalResult(rec.ScrapedData); err == nil && stored.URL == baseURL {
				metrics.CacheLookups.WithLabelValues("client", "hit").Inc()
				return stored
			}
		}
		metrics.CacheLookups.WithLabelValues("client", "miss").Inc()
		return nil
	}

	if o.cache == nil {
		return nil
	}
	data, err := o.cache.Get(ctx, key)
	if err != nil {
		if err != cache.ErrMiss {
			o.log.WithError(err).Warn("cache lookup failed", map[string]interface{}{"key": key})
		}
		metrics.CacheLookups.WithLabelValues("cache", "miss").Inc()
		return nil
	}
	stored, err := UnmarshalResult(data)
	if err != nil {
		metrics.CacheLookups.WithLabelValues("cache", "miss").Inc()
		return nil
	}
	metrics.CacheLookups.WithLabelValues("cache", "hit").Inc()
	return stored
}

// discoverURLs combines sitemap parsing with the internal-link
// fallback. Total discovery failure degrades to a single-URL crawl of
// the base page.
func (o *Orchestrator) discoverURLs(ctx context.Context, baseURL string) ([]string, int) {
	var urls []string
	sitemapURL, err := o.discoverer.Discover(ctx, baseURL)
	if err == nil {
		urls = o.discoverer.Parse(ctx, sitemapURL)
	} else {
		o.log.Info("no sitemap found, falling back to link discovery", map[string]interface{}{"url": baseURL})
	}
	sitemapCount := len(urls)

	if len(urls) == 0 {
		urls = []string{baseURL}
	}
	if len(urls) < o.cfg.MinSitemapURLs {
		urls = append(urls, o.discoverer.DiscoverLinks(ctx, baseURL, urls)...)
	}
	return urls, sitemapCount
}

// scrapeAll fetches every URL with bounded concurrency. Results keep
// the input ordering regardless of completion order.
func (o *Orchestrator) scrapeAll(ctx context.Context, urls []string) []*PageResult {
	results := make([]*PageResult, len(urls))

	concurrency := o.cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, pageURL := range urls {
		i, pageURL := i, pageURL
		g.Go(func() error {
			results[i] = o.pages.ScrapeWithMeta(gctx, pageURL)
			return nil
		})
	}
	// Workers never return errors; a failed page is an empty result.
	_ = g.Wait()

	return results
}

func (o *Orchestrator) persist(ctx context.Context, result *ScrapeResult, key string, clientID int64) {
	data, err := result.Marshal()
	if err != nil {
		o.log.WithError(err).Error("failed to serialize scrape result", nil)
		return
	}

	if clientID != 0 && o.clients != nil {
		err := o.clients.SaveClientScrape(ctx, clientID, data, result.ScrapedAt)
		if err == nil {
			return
		}
		o.log.WithError(err).Warn("client persistence failed, falling back to cache", map[string]interface{}{
			"client_id": clientID,
		})
	}

	if o.cache == nil {
		return
	}
	ttl := time.Duration(o.cfg.CacheTTLDays) * 24 * time.Hour
	if err := o.cache.Set(ctx, key, data, ttl); err != nil {
		o.log.WithError(err).Warn("cache write failed", map[string]interface{}{"key": key})
	}
}

// convertClassified maps AI-classified reviews onto the Review type,
// clamping ratings into the 1-5 range with 5 as default.
func convertClassified(classified []ai.ClassifiedReview) []Review {
	reviews := make([]Review, 0, len(classified))
	for _, c := range classified {
		if strings.TrimSpace(c.Text) == "" {
			continue
		}
		rating := c.Rating
		if rating < 1 || rating > 5 {
			rating = 5
		}
		author := strings.TrimSpace(c.Author)
		if author == "" {
			author = "Anonym"
		}
		platform := c.Platform
		if platform == "" {
			platform = "Website"
		}
		reviews = append(reviews, Review{
			Author:   truncateAuthor(author),
			Rating:   rating,
			Text:     c.Text,
			Platform: platform,
		})
	}
	return reviews
}

func urlPath(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Path == "" {
		return "/"
	}
	return parsed.Path
}
