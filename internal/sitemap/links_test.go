package sitemap

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscoverLinks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="/ydelser/">Ydelser</a>
			<a href="/kontakt">Kontakt</a>
			<a href="https://other-site.dk/side/">Ekstern</a>
			<a href="/brochure.pdf">Brochure</a>
			<a href="tel:+4512345678">Ring</a>
			<a href="mailto:info@example.dk">Skriv</a>
			<a href="javascript:void(0)">Menu</a>
			<a href="#section">Sektion</a>
			<a href="/ydelser/">Ydelser igen</a>
		</body></html>`)
	}))
	defer server.Close()

	links := newTestDiscoverer(t).DiscoverLinks(context.Background(), server.URL, nil)

	assert.ElementsMatch(t, []string{
		server.URL + "/ydelser/",
		server.URL + "/kontakt",
	}, links)
}

func TestDiscoverLinksSkipsExisting(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="/ydelser/">Ydelser</a>
			<a href="/priser/">Priser</a>
		</body></html>`)
	}))
	defer server.Close()

	// Known without trailing slash; the slash variant must still be
	// recognized as already present.
	links := newTestDiscoverer(t).DiscoverLinks(context.Background(), server.URL, []string{server.URL + "/ydelser"})

	assert.Equal(t, []string{server.URL + "/priser/"}, links)
}

func TestDiscoverLinksAcceptsWWWVariant(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body>
			<a href="http://www.%s/ydelser/">Ydelser</a>
			<a href="https://other-site.dk/side/">Ekstern</a>
		</body></html>`, r.Host)
	}))
	defer server.Close()

	// Sites commonly serve the apex domain while linking through the
	// www host; those links belong to the same site.
	links := newTestDiscoverer(t).DiscoverLinks(context.Background(), server.URL, nil)

	host := server.Listener.Addr().String()
	assert.Equal(t, []string{"http://www." + host + "/ydelser/"}, links)
}

func TestSameSite(t *testing.T) {
	assert.True(t, sameSite("www.example.dk", "example.dk"))
	assert.True(t, sameSite("example.dk", "www.example.dk"))
	assert.True(t, sameSite("WWW.Example.dk", "example.DK"))
	assert.True(t, sameSite("example.dk", "example.dk"))
	assert.False(t, sameSite("example.dk", "other-site.dk"))
	assert.False(t, sameSite("www.example.dk", "www.other-site.dk"))
	assert.False(t, sameSite("wwwexample.dk", "example.dk"))
}

func TestDiscoverLinksFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	links := newTestDiscoverer(t).DiscoverLinks(context.Background(), server.URL, nil)
	assert.Empty(t, links)
}

func TestDiscoverLinksUnreachableHost(t *testing.T) {
	links := newTestDiscoverer(t).DiscoverLinks(context.Background(), "http://127.0.0.1:1", nil)
	assert.Empty(t, links)
}
