package sitemap

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"adbuilder-scraper/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDiscoverer(t *testing.T) *Discoverer {
	t.Helper()
	return NewDiscoverer(&http.Client{Timeout: 5 * time.Second}, logger.NewTestLogger(t))
}

func leafSitemap(urls ...string) string {
	body := `<?xml version="1.0" encoding="UTF-8"?><urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`
	for _, u := range urls {
		body += "<url><loc>" + u + "</loc></url>"
	}
	return body + "</urlset>"
}

func TestDiscoverStandardLocation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/sitemap.xml" {
			w.Header().Set("Content-Type", "application/xml")
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	found, err := newTestDiscoverer(t).Discover(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/sitemap.xml", found)
}

func TestDiscoverFallsBackToLaterLocation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/wp-sitemap.xml" {
			w.Header().Set("Content-Type", "text/xml; charset=utf-8")
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	found, err := newTestDiscoverer(t).Discover(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/wp-sitemap.xml", found)
}

func TestDiscoverViaRobots(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			fmt.Fprintf(w, "User-agent: *\nDisallow: /admin/\nSitemap: %s/custom-sitemap.xml\n", server.URL)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	found, err := newTestDiscoverer(t).Discover(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/custom-sitemap.xml", found)
}

func TestDiscoverNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestDiscoverer(t).Discover(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseLeafSitemap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, leafSitemap("https://example.dk/", "https://example.dk/kontakt/"))
	}))
	defer server.Close()

	urls := newTestDiscoverer(t).Parse(context.Background(), server.URL+"/sitemap.xml")
	assert.Equal(t, []string{"https://example.dk/", "https://example.dk/kontakt/"}, urls)
}

func TestParseSitemapIndex(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sitemap.xml":
			fmt.Fprintf(w, `<?xml version="1.0"?><sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
				<sitemap><loc>%s/pages.xml</loc></sitemap>
				<sitemap><loc>%s/posts.xml</loc></sitemap>
			</sitemapindex>`, server.URL, server.URL)
		case "/pages.xml":
			fmt.Fprint(w, leafSitemap("https://example.dk/", "https://example.dk/om-os/"))
		case "/posts.xml":
			fmt.Fprint(w, leafSitemap("https://example.dk/blog/post-1/"))
		}
	}))
	defer server.Close()

	urls := newTestDiscoverer(t).Parse(context.Background(), server.URL+"/sitemap.xml")
	assert.ElementsMatch(t, []string{
		"https://example.dk/",
		"https://example.dk/om-os/",
		"https://example.dk/blog/post-1/",
	}, urls)
}

func TestParsePartialFailure(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sitemap.xml":
			fmt.Fprintf(w, `<?xml version="1.0"?><sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
				<sitemap><loc>%s/good.xml</loc></sitemap>
				<sitemap><loc>%s/broken.xml</loc></sitemap>
			</sitemapindex>`, server.URL, server.URL)
		case "/good.xml":
			fmt.Fprint(w, leafSitemap("https://example.dk/ydelser/"))
		case "/broken.xml":
			fmt.Fprint(w, "this is not xml <<<")
		}
	}))
	defer server.Close()

	urls := newTestDiscoverer(t).Parse(context.Background(), server.URL+"/sitemap.xml")
	assert.Equal(t, []string{"https://example.dk/ydelser/"}, urls)
}

func TestParseSelfReferentialIndexTerminates(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<?xml version="1.0"?><sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
			<sitemap><loc>%s/sitemap.xml</loc></sitemap>
		</sitemapindex>`, server.URL)
	}))
	defer server.Close()

	done := make(chan []string, 1)
	go func() {
		done <- newTestDiscoverer(t).Parse(context.Background(), server.URL+"/sitemap.xml")
	}()

	select {
	case urls := <-done:
		assert.Empty(t, urls)
	case <-time.After(10 * time.Second):
		t.Fatal("self-referential sitemap index did not terminate")
	}
}

func TestParseMalformedXML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not xml at all")
	}))
	defer server.Close()

	urls := newTestDiscoverer(t).Parse(context.Background(), server.URL+"/sitemap.xml")
	assert.Empty(t, urls)
}

func TestCheckPageHeaders(t *testing.T) {
	lastModified := "Mon, 02 Jan 2006 15:04:05 GMT"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.Header().Set("Last-Modified", lastModified)
		w.Header().Set("ETag", `"abc123"`)
		w.Header().Set("Content-Length", "2048")
	}))
	defer server.Close()

	headers, err := newTestDiscoverer(t).CheckPageHeaders(context.Background(), server.URL+"/kontakt/")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, headers.StatusCode)
	require.NotNil(t, headers.LastModified)
	assert.Equal(t, 2006, headers.LastModified.Year())
	assert.Equal(t, `"abc123"`, headers.ETag)
	assert.Equal(t, int64(2048), headers.ContentLength)
}

func TestCheckPageHeadersNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer server.Close()

	headers, err := newTestDiscoverer(t).CheckPageHeaders(context.Background(), server.URL+"/vaek/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusGone, headers.StatusCode)
	assert.Nil(t, headers.LastModified)
}
