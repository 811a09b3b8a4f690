// Package httpclient builds the shared HTTP clients used for crawling.
package httpclient

import (
	"net/http"
	"time"
)

// New returns an HTTP client with a transport tuned for crawling a
// single host: generous idle pool, per-request timeout, redirects
// followed.
func New(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			DisableCompression:  false,
		},
	}
}
