// cmd/scrape/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"adbuilder-scraper/internal/ai"
	"adbuilder-scraper/internal/cache"
	"adbuilder-scraper/internal/clients"
	"adbuilder-scraper/internal/common/config"
	"adbuilder-scraper/internal/common/database"
	"adbuilder-scraper/internal/common/httpclient"
	"adbuilder-scraper/internal/common/logger"
	"adbuilder-scraper/internal/prompts"
	"adbuilder-scraper/internal/scraper"
	"adbuilder-scraper/internal/sitemap"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	var (
		targetURL   = flag.String("url", "", "website to scrape, e.g. https://example.dk")
		maxPages    = flag.Int("max-pages", -1, "page budget for the crawl, 0 means unlimited, -1 uses the configured default")
		clientID    = flag.Int64("client", 0, "client record id to read from and persist to, 0 skips client storage")
		seed        = flag.Bool("seed", false, "seed the prompt template table and exit")
		metricsAddr = flag.String("metrics", "", "serve /metrics and /health on this address, e.g. :8080")
		pretty      = flag.Bool("pretty", false, "indent the JSON output")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	ctx := context.Background()

	// --- Init PostgreSQL with retry; the crawl works without it ---
	var pg *database.PostgresClient
	if cfg.Database.Postgres.Host != "" {
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 3, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			zapLog.Warn("postgres unavailable, continuing without client storage", zap.Error(err))
			pg = nil
		} else {
			defer pg.Close()
			zapLog.Info("PostgreSQL connected successfully")
		}
	}

	if *seed {
		if pg == nil {
			zapLog.Fatal("seeding prompt templates requires a postgres connection")
		}
		if err := prompts.NewStore(pg, log).Seed(ctx); err != nil {
			zapLog.Fatal("prompt template seeding failed", zap.Error(err))
		}
		zapLog.Info("prompt templates seeded")
		return
	}

	if *targetURL == "" {
		flag.Usage()
		os.Exit(2)
	}

	// --- Init Redis with retry; the crawl works without it ---
	var resultCache cache.Cache
	if cfg.Database.Redis.Address != "" {
		var redis *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 3, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Warn("redis unavailable, continuing without result cache", zap.Error(err))
		} else {
			defer redis.Close()
			resultCache = cache.NewRedis(redis)
			zapLog.Info("Redis connected successfully")
		}
	}

	// --- Metrics Server ---
	if *metricsAddr != "" {
		go func() {
			http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "healthy",
					"time":   time.Now().Format(time.RFC3339),
				})
			})
			http.Handle("/metrics", promhttp.Handler())
			zapLog.Info("Metrics server listening", zap.String("addr", *metricsAddr))
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				zapLog.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	// --- Assemble the pipeline ---
	discoverer := sitemap.NewDiscoverer(httpclient.New(config.GetDuration(cfg.HTTP.DiscoveryTimeout)), log)
	fetcher := scraper.NewFetcher(httpclient.New(config.GetDuration(cfg.HTTP.PageTimeout)), cfg.HTTP.UserAgents, log)
	pages := scraper.NewPageScraper(fetcher, cfg.Scraper.MaxContentLength, log)

	var classifier *ai.ReviewClassifier
	if pg != nil && cfg.OpenAI.APIKey != "" {
		classifier = ai.NewReviewClassifier(ai.NewClient(cfg.OpenAI, log), prompts.NewStore(pg, log), log)
	} else {
		zapLog.Info("review classification disabled, requires postgres and an OpenAI key")
	}

	var clientStore clients.Store
	if pg != nil {
		clientStore = clients.NewPostgresStore(pg)
	}

	orchestrator := scraper.NewOrchestrator(cfg.Scraper, discoverer, pages, classifier, resultCache, clientStore, log)

	budget := *maxPages
	if budget < 0 {
		budget = cfg.Scraper.MaxPages
	}

	result, err := orchestrator.ScrapeWebsite(ctx, *targetURL, budget, *clientID)
	if err != nil {
		zapLog.Fatal("scrape failed", zap.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		zapLog.Fatal("failed to encode result", zap.Error(err))
	}
}
