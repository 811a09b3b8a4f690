// Package sitemap discovers and parses website sitemaps, with an
// internal-link fallback for sites where the sitemap is missing or
// too small.
package sitemap

import (
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"strings"

	cerrors "adbuilder-scraper/internal/common/errors"
	"adbuilder-scraper/internal/common/logger"
)

// crawlerUserAgent identifies sitemap and discovery requests.
const crawlerUserAgent = "Mozilla/5.0 (compatible; AdBuilderBot/1.0)"

// maxIndexDepth bounds sitemap-index recursion. Together with the
// visited set it keeps a self-referential index from looping.
const maxIndexDepth = 5

// ErrNotFound is returned when neither the conventional sitemap paths
// nor robots.txt yield a sitemap URL.
var ErrNotFound = cerrors.New(cerrors.ErrCodeSitemapNotFound, "no sitemap found")

var sitemapLocations = []string{
	"/sitemap.xml",
	"/sitemap_index.xml",
	"/wp-sitemap.xml",
	"/sitemap/sitemap.xml",
	"/sitemaps/sitemap.xml",
}

// Discoverer finds and parses a site's sitemap.
type Discoverer struct {
	httpClient *http.Client
	log        logger.Logger
}

func NewDiscoverer(httpClient *http.Client, log logger.Logger) *Discoverer {
	return &Discoverer{httpClient: httpClient, log: log}
}

// Discover probes the conventional sitemap locations with HEAD
// requests, falling back to the robots.txt sitemap directive. Returns
// ErrNotFound when both strategies fail; callers degrade to a
// single-URL crawl.
func (d *Discoverer) Discover(ctx context.Context, baseURL string) (string, error) {
	base := strings.TrimSuffix(baseURL, "/")

	for _, location := range sitemapLocations {
		sitemapURL := base + location

		req, err := http.NewRequestWithContext(ctx, http.MethodHead, sitemapURL, nil)
		if err != nil {
			continue
		}
		req.Header.Set("User-Agent", crawlerUserAgent)

		resp, err := d.httpClient.Do(req)
		if err != nil {
			continue
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			continue
		}
		contentType := resp.Header.Get("Content-Type")
		if strings.Contains(contentType, "xml") || strings.HasSuffix(location, ".xml") {
			return sitemapURL, nil
		}
	}

	if fromRobots := d.sitemapFromRobots(ctx, base); fromRobots != "" {
		return fromRobots, nil
	}

	return "", ErrNotFound
}

func (d *Discoverer) sitemapFromRobots(ctx context.Context, base string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/robots.txt", nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", crawlerUserAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return ""
	}

	for _, line := range strings.Split(string(body), "\n") {
		if strings.HasPrefix(strings.ToLower(line), "sitemap:") {
			return strings.TrimSpace(line[len("sitemap:"):])
		}
	}
	return ""
}

type sitemapIndex struct {
	XMLName  xml.Name `xml:"sitemapindex"`
	Sitemaps []struct {
		Loc string `xml:"loc"`
	} `xml:"sitemap"`
}

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	URLs    []struct {
		Loc string `xml:"loc"`
	} `xml:"url"`
}

// Parse fetches a sitemap and returns its URLs. Sitemap indexes are
// followed recursively with a visited set and a depth bound. A failed
// or malformed child yields an empty contribution for that child only.
func (d *Discoverer) Parse(ctx context.Context, sitemapURL string) []string {
	return d.parse(ctx, sitemapURL, map[string]struct{}{}, 0)
}

func (d *Discoverer) parse(ctx context.Context, sitemapURL string, visited map[string]struct{}, depth int) []string {
	if depth > maxIndexDepth {
		d.log.Warn("sitemap index nesting too deep, stopping", map[string]interface{}{"url": sitemapURL})
		return nil
	}
	if _, seen := visited[sitemapURL]; seen {
		return nil
	}
	visited[sitemapURL] = struct{}{}

	body, err := d.fetch(ctx, sitemapURL)
	if err != nil {
		d.log.WithError(err).Warn("failed to fetch sitemap", map[string]interface{}{"url": sitemapURL})
		return nil
	}

	var index sitemapIndex
	if err := xml.Unmarshal(body, &index); err == nil && len(index.Sitemaps) > 0 {
		var all []string
		for _, child := range index.Sitemaps {
			loc := strings.TrimSpace(child.Loc)
			if loc == "" {
				continue
			}
			all = append(all, d.parse(ctx, loc, visited, depth+1)...)
		}
		return all
	}

	var set urlSet
	if err := xml.Unmarshal(body, &set); err != nil {
		d.log.WithError(err).Warn("malformed sitemap XML", map[string]interface{}{"url": sitemapURL})
		return nil
	}

	var urls []string
	for _, u := range set.URLs {
		if loc := strings.TrimSpace(u.Loc); loc != "" {
			urls = append(urls, loc)
		}
	}
	return urls
}

func (d *Discoverer) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", crawlerUserAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeFetchFailed, "sitemap fetch failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, cerrors.New(cerrors.ErrCodeFetchFailed, "sitemap fetch returned non-200 status").
			WithMetadata("status", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, 10<<20))
}
