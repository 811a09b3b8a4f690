package sitemap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrioritize(t *testing.T) {
	urls := []string{
		"https://example.dk/blog/post",
		"https://example.dk/",
		"https://example.dk/kontakt",
		"https://example.dk/ydelser/x",
	}

	got := Prioritize(urls, 3, "https://example.dk")

	assert.Len(t, got, 3)
	assert.Equal(t, "https://example.dk", strings.TrimSuffix(got[0], "/"))
	assert.ElementsMatch(t, []string{"https://example.dk/kontakt", "https://example.dk/ydelser/x"}, got[1:])
	assert.NotContains(t, got, "https://example.dk/blog/post")
}

func TestPrioritizeInsertsBaseURL(t *testing.T) {
	got := Prioritize([]string{"https://example.dk/blog/post"}, 0, "https://example.dk")

	assert.Equal(t, "https://example.dk", got[0])
}

func TestPrioritizePriorityBeforeRegular(t *testing.T) {
	urls := []string{
		"https://example.dk/galleri",
		"https://example.dk/om-os/",
		"https://example.dk/nyheder/2024",
		"https://example.dk/priser",
		"https://example.dk/faq/",
	}

	got := Prioritize(urls, 0, "https://example.dk")

	positions := make(map[string]int, len(got))
	for i, u := range got {
		positions[u] = i
	}
	for _, pri := range []string{"https://example.dk/om-os/", "https://example.dk/priser", "https://example.dk/faq/"} {
		for _, reg := range []string{"https://example.dk/galleri", "https://example.dk/nyheder/2024"} {
			assert.Less(t, positions[pri], positions[reg])
		}
	}
}

func TestPrioritizeSubPathsArePriority(t *testing.T) {
	got := Prioritize([]string{"https://example.dk/ydelser/fugning", "https://example.dk/galleri"}, 0, "https://example.dk")

	assert.Equal(t, []string{
		"https://example.dk",
		"https://example.dk/ydelser/fugning",
		"https://example.dk/galleri",
	}, got)
}

func TestPrioritizeZeroMeansUnlimited(t *testing.T) {
	urls := []string{
		"https://example.dk/a", "https://example.dk/b", "https://example.dk/c",
		"https://example.dk/d", "https://example.dk/e",
	}

	got := Prioritize(urls, 0, "https://example.dk")
	assert.Len(t, got, 6) // base URL prepended
}

func TestPrioritizeDropsForeignDomains(t *testing.T) {
	got := Prioritize([]string{"https://other.dk/kontakt", "https://example.dk/kontakt"}, 0, "https://example.dk")

	assert.NotContains(t, got, "https://other.dk/kontakt")
	assert.Contains(t, got, "https://example.dk/kontakt")
}

func TestPrioritizeKeepsWWWVariants(t *testing.T) {
	// Sitemaps often list www URLs while the crawl starts from the apex.
	got := Prioritize([]string{"https://www.example.dk/kontakt", "https://www.example.dk/galleri"}, 0, "https://example.dk")

	assert.Contains(t, got, "https://www.example.dk/kontakt")
	assert.Contains(t, got, "https://www.example.dk/galleri")
}

func TestPrioritizeDeduplicatesSlashVariants(t *testing.T) {
	got := Prioritize([]string{"https://example.dk/kontakt", "https://example.dk/kontakt/"}, 0, "https://example.dk")

	count := 0
	for _, u := range got {
		if u == "https://example.dk/kontakt" || u == "https://example.dk/kontakt/" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestPrioritizeBaseURLAlwaysPresent(t *testing.T) {
	got := Prioritize([]string{"https://example.dk/kontakt", "https://example.dk/om-os"}, 1, "https://example.dk")

	assert.Equal(t, []string{"https://example.dk"}, got)
}
