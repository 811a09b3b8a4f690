package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageBuilderReviews(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<div class="elementor-testimonial">
			<div class="elementor-testimonial__title">Google anmeldelse</div>
			<div class="elementor-testimonial__text">★★★★★ Fantastisk service fra start til slut, kan varmt anbefales.</div>
			<div class="elementor-testimonial__name">Peter Hansen</div>
		</div>
	</body></html>`)

	reviews := extractReviews(doc)
	require.Len(t, reviews, 1)

	assert.Equal(t, "Peter Hansen", reviews[0].Author)
	assert.Equal(t, 5.0, reviews[0].Rating)
	assert.Equal(t, "Google", reviews[0].Platform)
	assert.Contains(t, reviews[0].Text, "Fantastisk service")
	assert.NotContains(t, reviews[0].Text, "★")
}

func TestPageBuilderReviewsSkipsCarouselDuplicates(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<div class="swiper-slide">
			<div class="elementor-testimonial">
				<div class="elementor-testimonial__text">Hurtig og professionel håndtering af vores opgave.</div>
			</div>
		</div>
		<div class="swiper-slide swiper-slide-duplicate">
			<div class="elementor-testimonial">
				<div class="elementor-testimonial__text">Hurtig og professionel håndtering af vores opgave.</div>
			</div>
		</div>
	</body></html>`)

	reviews := extractReviews(doc)
	assert.Len(t, reviews, 1)
}

func TestPageBuilderReviewsDefaults(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<div class="elementor-testimonial">
			<div class="elementor-testimonial__text">Meget tilfreds med arbejdet, god kommunikation undervejs.</div>
		</div>
	</body></html>`)

	reviews := extractReviews(doc)
	require.Len(t, reviews, 1)

	assert.Equal(t, "Anonym", reviews[0].Author)
	assert.Equal(t, 5.0, reviews[0].Rating)
	assert.Equal(t, "Trustpilot", reviews[0].Platform)
}

func TestPageBuilderSuppressesGenericFallback(t *testing.T) {
	// The page-builder strategy is authoritative when it matches; the
	// generic review container on the same page must not contribute.
	doc := parseDoc(t, `<html><body>
		<div class="elementor-testimonial">
			<div class="elementor-testimonial__text">Fantastisk service fra start til slut, kan varmt anbefales.</div>
		</div>
		<div class="review-box">
			<p>En helt anden anmeldelse der kun findes i den generiske blok.</p>
		</div>
	</body></html>`)

	reviews := extractReviews(doc)
	require.Len(t, reviews, 1)
	assert.Contains(t, reviews[0].Text, "Fantastisk service")
}

func TestGenericReviews(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<div class="reviews-section">
			<div class="review-card" data-rating="4">
				<span class="consumer-name">Mette Jensen</span>
				<p class="review-text-body">Super fint arbejde og de ryddede pænt op efter sig selv.</p>
			</div>
			<div class="review-card" data-rating="5">
				<span class="consumer-name">Lars Nielsen</span>
				<p class="review-text-body">Kom til tiden og holdt prisen, vi er meget tilfredse.</p>
			</div>
		</div>
	</body></html>`)

	reviews := extractReviews(doc)
	require.Len(t, reviews, 2)

	assert.Equal(t, "Mette Jensen", reviews[0].Author)
	assert.Equal(t, 4.0, reviews[0].Rating)
	assert.Equal(t, "Lars Nielsen", reviews[1].Author)
}

func TestGenericReviewsContainerAsItem(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<div class="testimonial-block">
			<span class="author">Søren Madsen</span>
			<p>Vi har brugt firmaet to gange og begge gange var vi godt tilfredse.</p>
		</div>
	</body></html>`)

	reviews := extractReviews(doc)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Søren Madsen", reviews[0].Author)
}

func TestGenericReviewsSkipsShortText(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<div class="review-box"><p>Fint nok.</p></div>
	</body></html>`)

	assert.Empty(t, extractReviews(doc))
}

func TestParseStarRatingChain(t *testing.T) {
	cases := []struct {
		name string
		html string
		want float64
	}{
		{
			"data-rating attribute",
			`<div class="review-item" data-rating="3"><p>Nogenlunde oplevelse men lidt dyrt i sidste ende.</p></div>`,
			3,
		},
		{
			"aria-label",
			`<div class="review-item" aria-label="4 ud af 5 stjerner"><p>Rigtig godt arbejde og fin kommunikation hele vejen.</p></div>`,
			4,
		},
		{
			"nested rating element",
			`<div class="review-item"><div class="rating" data-score="4.5"></div><p>Meget tilfredsstillende forløb fra tilbud til aflevering.</p></div>`,
			4.5,
		},
		{
			"counted star icons",
			`<div class="review-item"><i class="fa-star"></i><i class="fa-star"></i><i class="fa-star"></i><p>Helt fint, men der var plads til forbedring hist og her.</p></div>`,
			3,
		},
		{
			"default",
			`<div class="review-item"><p>Kan varmt anbefales til alle der mangler en fugemand.</p></div>`,
			5,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := parseDoc(t, `<html><body><div class="reviews">`+tc.html+`</div></body></html>`)
			reviews := extractReviews(doc)
			require.NotEmpty(t, reviews)
			assert.Equal(t, tc.want, reviews[0].Rating)
		})
	}
}

func TestMergeReviewsAcrossSources(t *testing.T) {
	html := []Review{{
		Author:   "Peter Hansen",
		Rating:   5,
		Text:     "Fantastisk service fra start til slut, kan varmt anbefales til alle.",
		Platform: "Trustpilot",
	}}
	aiDetected := []Review{
		{
			Author:   "peter",
			Rating:   4,
			Text:     "FANTASTISK SERVICE FRA START TIL SLUT, kan varmt anbefales.",
			Platform: "Website",
		},
		{
			Author:   "Mette Jensen",
			Rating:   5,
			Text:     "Super fint arbejde og de ryddede pænt op efter sig selv.",
			Platform: "Website",
		},
	}

	merged := mergeReviews(html, aiDetected)
	require.Len(t, merged, 2)

	// The HTML-sourced review wins the prefix collision.
	assert.Equal(t, "Peter Hansen", merged[0].Author)
	assert.Equal(t, "Trustpilot", merged[0].Platform)
	assert.Equal(t, "Mette Jensen", merged[1].Author)
}

func TestTruncateAuthor(t *testing.T) {
	long := "Et meget langt firmanavn der helt sikkert er længere end halvtreds tegn i alt"
	truncated := truncateAuthor(long)

	assert.LessOrEqual(t, len([]rune(truncated)), maxAuthorLen+3)
	assert.Equal(t, "Peter Hansen", truncateAuthor("Peter Hansen"))
}
