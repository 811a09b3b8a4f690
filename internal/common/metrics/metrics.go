package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PagesScraped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_pages_scraped_total",
			Help: "Total number of pages scraped, by result",
		},
		[]string{"result"},
	)

	PageFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "scraper_page_fetch_duration_seconds",
			Help: "Duration of single page fetch and extraction",
		},
	)

	CrawlDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scraper_crawl_duration_seconds",
			Help:    "Duration of full website crawls",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_cache_lookups_total",
			Help: "Scrape result reuse lookups, by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	ReviewsExtracted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_reviews_extracted_total",
			Help: "Reviews extracted, by extraction source",
		},
		[]string{"source"},
	)
)
