package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestPriorityLevel(t *testing.T) {
	cases := []struct {
		text string
		want PriorityTier
	}{
		{"Finalist til Årets Håndværker 2024", TierHigh},
		{"4.8 stjerner på Trustpilot", TierHigh},
		{"Over 30 års erfaring med fugearbejde", TierHigh},
		{"Autoriseret kloakmester", TierMedium},
		{"Vi har døgnvagt alle ugens dage", TierMedium},
		{"Vi tilbyder fugning af vinduer og døre", TierRegular},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.want, priorityLevel(tc.text))
		})
	}
}

func TestPriorityLevelHighBeforeMedium(t *testing.T) {
	// Matches both sets; high wins because it is checked first.
	assert.Equal(t, TierHigh, priorityLevel("Autoriseret og kåret som årets firma"))
}

func TestExtractContentOrdersByTier(t *testing.T) {
	doc := parseDoc(t, `<html><body><main>
		<p>Vi tilbyder professionel fugning af vinduer og døre i hele Nordsjælland.</p>
		<p>Vi er certificeret og godkendt af brancheforeningen i Danmark.</p>
		<p>Vinder af Årets Håndværker med flotte anmeldelser på Trustpilot.</p>
	</main></body></html>`)
	stripNonContent(doc)

	content := extractContent(doc, 6000)
	lines := strings.Split(content, "\n")

	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Vinder af Årets Håndværker")
	assert.Contains(t, lines[1], "certificeret")
	assert.Contains(t, lines[2], "professionel fugning")
}

func TestExtractContentHeadingsAndLists(t *testing.T) {
	doc := parseDoc(t, `<html><body><main>
		<h1>Fugemand i Bagsværd</h1>
		<ul><li>Gratis og uforpligtende tilbud</li></ul>
		<p>Vi udfører alle former for fugearbejde i private hjem.</p>
	</main></body></html>`)
	stripNonContent(doc)

	content := extractContent(doc, 6000)

	assert.Contains(t, content, "## Fugemand i Bagsværd")
	assert.Contains(t, content, "• Gratis og uforpligtende tilbud")
}

func TestExtractContentSkipsShortFragments(t *testing.T) {
	doc := parseDoc(t, `<html><body><main>
		<h1>Ja</h1>
		<p>For kort.</p>
		<ul><li>Kort</li></ul>
		<p>Denne paragraf er lang nok til at blive taget med i resultatet.</p>
	</main></body></html>`)
	stripNonContent(doc)

	content := extractContent(doc, 6000)

	assert.NotContains(t, content, "## Ja")
	assert.NotContains(t, content, "For kort.")
	assert.NotContains(t, content, "• Kort")
	assert.Contains(t, content, "lang nok")
}

func TestExtractContentUSPMarkers(t *testing.T) {
	doc := parseDoc(t, `<html><body><main>
		<div class="badge">+500 tilfredse kunder</div>
		<span>30 års erfaring</span>
		<p>Vi udfører alle former for fugearbejde i private hjem.</p>
	</main></body></html>`)
	stripNonContent(doc)

	content := extractContent(doc, 6000)
	lines := strings.Split(content, "\n")

	assert.Contains(t, content, "[USP] +500 tilfredse kunder")
	assert.Contains(t, content, "[USP] 30 års erfaring")
	// USP fragments are high priority and come before regular text.
	assert.Contains(t, lines[0], "[USP]")
}

func TestExtractContentStripsNonContentTags(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<nav><p>Forside Om os Kontakt denne tekst er navigation</p></nav>
		<main><p>Vi udfører alle former for fugearbejde i private hjem.</p></main>
		<footer><p>Copyright tekst der ikke er indhold paa siden her</p></footer>
	</body></html>`)
	stripNonContent(doc)

	content := extractContent(doc, 6000)

	assert.NotContains(t, content, "navigation")
	assert.NotContains(t, content, "Copyright")
	assert.Contains(t, content, "fugearbejde")
}

func TestTruncateWithMarker(t *testing.T) {
	long := strings.Repeat("a", 150)

	truncated := truncateWithMarker(long, 100)
	assert.Len(t, truncated, 103)
	assert.True(t, strings.HasSuffix(truncated, "..."))

	short := strings.Repeat("a", 50)
	assert.Equal(t, short, truncateWithMarker(short, 100))

	exact := strings.Repeat("a", 100)
	assert.Equal(t, exact, truncateWithMarker(exact, 100))
}

func TestTruncationBoundProperty(t *testing.T) {
	for _, length := range []int{10, 100, 6000} {
		for _, input := range []string{"", "kort", strings.Repeat("indhold ", 2000)} {
			out := truncateWithMarker(input, length)
			assert.LessOrEqual(t, len([]rune(out)), length+len("..."))
		}
	}
}

func TestExtractContentFallsBackToBody(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<div><p>Indhold uden main eller article element, men stadig brugbart.</p></div>
	</body></html>`)
	stripNonContent(doc)

	content := extractContent(doc, 6000)
	assert.Contains(t, content, "stadig brugbart")
}
