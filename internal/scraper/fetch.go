package scraper

import (
	"context"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"

	"adbuilder-scraper/internal/common/logger"
)

var browserHeaders = map[string]string{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	"Accept-Language":           "da-DK,da;q=0.9,en-US;q=0.8,en;q=0.7",
	"Sec-Fetch-Dest":            "document",
	"Sec-Fetch-Mode":            "navigate",
	"Sec-Fetch-Site":            "none",
	"Sec-Fetch-User":            "?1",
	"Upgrade-Insecure-Requests": "1",
}

// Fetcher downloads pages with user-agent rotation. Some sites block
// the first agent and accept the next, so each agent is tried in order
// until one yields a usable HTML response.
type Fetcher struct {
	httpClient *http.Client
	userAgents []string
	log        logger.Logger
}

func NewFetcher(httpClient *http.Client, userAgents []string, log logger.Logger) *Fetcher {
	return &Fetcher{httpClient: httpClient, userAgents: userAgents, log: log}
}

// NormalizeURL prepends https:// when the URL carries no scheme.
func NormalizeURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	if !strings.HasPrefix(rawURL, "http") {
		return "https://" + rawURL
	}
	return rawURL
}

// Fetch retrieves a page as UTF-8 HTML. Each user agent is attempted in
// turn; an attempt succeeds when the response is 200 and either carries
// an HTML content type or a body over 100 bytes. All attempts failing
// yields an empty string, never an error: a dead page is skipped, not
// fatal.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) string {
	pageURL := NormalizeURL(rawURL)
	if pageURL == "" {
		return ""
	}

	for i, agent := range f.userAgents {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return ""
		}
		for key, value := range browserHeaders {
			req.Header.Set(key, value)
		}
		req.Header.Set("User-Agent", agent)

		resp, err := f.httpClient.Do(req)
		if err != nil {
			f.log.Debug("fetch attempt failed", map[string]interface{}{
				"url":     pageURL,
				"attempt": i + 1,
				"error":   err.Error(),
			})
			continue
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
		resp.Body.Close()
		if readErr != nil {
			continue
		}

		if resp.StatusCode != http.StatusOK {
			continue
		}
		contentType := resp.Header.Get("Content-Type")
		if !strings.Contains(contentType, "text/html") && len(body) <= 100 {
			continue
		}

		return decodeToUTF8(body, contentType)
	}

	f.log.Warn("all fetch attempts failed", map[string]interface{}{"url": pageURL})
	return ""
}

// decodeToUTF8 converts a response body to UTF-8. Bodies that already
// validate as UTF-8 pass through untouched even when the headers claim
// Latin-1; Danish sites routinely serve UTF-8 under a wrong or missing
// charset declaration.
func decodeToUTF8(body []byte, contentType string) string {
	if utf8.Valid(body) {
		return string(body)
	}

	enc, _, _ := charset.DetermineEncoding(body, contentType)
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}
