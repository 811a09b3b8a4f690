package sitemap

import (
	"context"
	"net/http"
	"strconv"
	"time"
)

// PageHeaders holds the change-detection headers from a HEAD probe.
type PageHeaders struct {
	StatusCode    int
	LastModified  *time.Time
	ETag          string
	ContentLength int64
}

// CheckPageHeaders sends a HEAD request and returns the Last-Modified,
// ETag and Content-Length headers. Callers compare these against stored
// values to decide whether a page needs re-scraping.
func (d *Discoverer) CheckPageHeaders(ctx context.Context, pageURL string) (*PageHeaders, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", crawlerUserAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()

	headers := &PageHeaders{StatusCode: resp.StatusCode, ContentLength: -1}
	if resp.StatusCode != http.StatusOK {
		return headers, nil
	}

	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		if parsed, err := http.ParseTime(lm); err == nil {
			headers.LastModified = &parsed
		}
	}
	headers.ETag = resp.Header.Get("ETag")
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		if n, err := strconv.ParseInt(cl, 10, 64); err == nil {
			headers.ContentLength = n
		}
	}

	return headers, nil
}
