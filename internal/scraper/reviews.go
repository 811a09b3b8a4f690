package scraper

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	minReviewTextLen = 20
	maxAuthorLen     = 50
	reviewDedupLen   = 100
)

var starGlyphs = regexp.MustCompile(`[★⭐☆]+`)

// extractReviews runs the structural strategies in priority order and
// returns the first non-empty result. The page-builder strategy is the
// most reliable when it matches at all, so its results are
// authoritative and suppress the generic fallback.
func extractReviews(doc *goquery.Document) []Review {
	if reviews := pageBuilderReviews(doc); len(reviews) > 0 {
		return reviews
	}
	return genericReviews(doc)
}

// pageBuilderReviews extracts testimonials from page-builder widget
// blocks.
func pageBuilderReviews(doc *goquery.Document) []Review {
	var reviews []Review
	seen := make(map[string]struct{})

	doc.Find(".elementor-testimonial").Each(func(_ int, block *goquery.Selection) {
		// Carousels clone slides for infinite scrolling; skip copies.
		if block.Closest(".swiper-slide-duplicate, .slick-cloned").Length() > 0 {
			return
		}

		rawText := block.Text()

		title := cleanText(block.Find(".elementor-testimonial__title, .elementor-testimonial-title").First().Text())

		textSel := block.Find(".elementor-testimonial__text, .elementor-testimonial-content, .elementor-testimonial-text").First()
		var text string
		if textSel.Length() > 0 {
			text = cleanText(textSel.Text())
		} else {
			text = cleanText(rawText)
		}
		text = strings.TrimSpace(starGlyphs.ReplaceAllString(text, ""))
		if title != "" {
			text = strings.TrimSpace(strings.ReplaceAll(text, title, ""))
		}
		if len([]rune(text)) <= minReviewTextLen {
			return
		}

		author := cleanText(block.Find(".elementor-testimonial__name, .elementor-testimonial-name, cite").First().Text())
		if author == "" {
			author = "Anonym"
		}
		author = truncateAuthor(author)

		review := Review{
			Author:   author,
			Rating:   starRatingFromGlyphs(rawText),
			Text:     text,
			Platform: platformFromTitle(title),
		}
		addUniqueReview(&reviews, seen, review)
	})

	return reviews
}

// starRatingFromGlyphs counts literal star glyphs, clamped to 1-5 with
// 5 as the default for anything out of range.
func starRatingFromGlyphs(text string) float64 {
	count := strings.Count(text, "★") + strings.Count(text, "⭐")
	if count >= 1 && count <= 5 {
		return float64(count)
	}
	return 5
}

func platformFromTitle(title string) string {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "google"):
		return "Google"
	case strings.Contains(lower, "facebook"):
		return "Facebook"
	default:
		return "Trustpilot"
	}
}

var genericContainerSelectors = []string{
	"[class*='review']",
	"[class*='Review']",
	"[class*='testimonial']",
	"[class*='TrustBox']",
	"[class*='anmeldelse']",
}

var genericItemSelectors = "[class*='card'], [class*='item']"

// genericReviews scans review-like class names for candidate containers
// and review items inside them.
func genericReviews(doc *goquery.Document) []Review {
	var reviews []Review
	seen := make(map[string]struct{})

	for _, selector := range genericContainerSelectors {
		doc.Find(selector).Each(func(_ int, container *goquery.Selection) {
			items := container.Find(genericItemSelectors)
			if items.Length() == 0 {
				// No sub-items: treat the container itself as one
				// review candidate.
				if review, ok := reviewFromItem(container); ok {
					addUniqueReview(&reviews, seen, review)
				}
				return
			}
			items.Each(func(_ int, item *goquery.Selection) {
				if review, ok := reviewFromItem(item); ok {
					addUniqueReview(&reviews, seen, review)
				}
			})
		})
	}

	return reviews
}

func reviewFromItem(item *goquery.Selection) (Review, bool) {
	text := cleanText(item.Find("[class*='review-text'], [class*='content'], [class*='body']").First().Text())
	if text == "" {
		text = cleanText(item.Find("p").First().Text())
	}
	text = strings.TrimSpace(starGlyphs.ReplaceAllString(text, ""))
	if len([]rune(text)) <= minReviewTextLen {
		return Review{}, false
	}

	author := cleanText(item.Find("[class*='name'], [class*='author'], [class*='consumer']").First().Text())
	if author == "" {
		author = "Anonym"
	}

	return Review{
		Author:   truncateAuthor(author),
		Rating:   parseStarRating(item),
		Text:     text,
		Platform: "Website",
	}, true
}

var numericRating = regexp.MustCompile(`([0-5](?:[.,]\d)?)`)

// parseStarRating tries the rating signals in order: explicit data
// attributes, accessibility labels, a nested rating element, counted
// star icons. Defaults to 5.
func parseStarRating(item *goquery.Selection) float64 {
	for _, attr := range []string{"data-rating", "data-score"} {
		if value, ok := item.Attr(attr); ok {
			if rating, ok := ratingFromString(value); ok {
				return rating
			}
		}
	}

	for _, attr := range []string{"aria-label", "title"} {
		if value, ok := item.Attr(attr); ok {
			if match := numericRating.FindString(value); match != "" {
				if rating, ok := ratingFromString(match); ok {
					return rating
				}
			}
		}
	}

	ratingEl := item.Find("[class*='rating'], [class*='stars']").First()
	if ratingEl.Length() > 0 {
		for _, attr := range []string{"data-rating", "data-score", "aria-label", "title"} {
			if value, ok := ratingEl.Attr(attr); ok {
				if match := numericRating.FindString(value); match != "" {
					if rating, ok := ratingFromString(match); ok {
						return rating
					}
				}
			}
		}
		if match := numericRating.FindString(cleanText(ratingEl.Text())); match != "" {
			if rating, ok := ratingFromString(match); ok {
				return rating
			}
		}
	}

	filled := item.Find(".fa-star, [class*='star-filled'], [class*='star--filled'], [class*='filled']").Length()
	if filled >= 1 && filled <= 5 {
		return float64(filled)
	}

	return 5
}

func ratingFromString(value string) (float64, bool) {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	rating, err := strconv.ParseFloat(value, 64)
	if err != nil || rating < 1 || rating > 5 {
		return 0, false
	}
	return rating, true
}

func truncateAuthor(author string) string {
	runes := []rune(author)
	if len(runes) <= maxAuthorLen {
		return author
	}
	return string(runes[:maxAuthorLen]) + "..."
}

// addUniqueReview appends review unless its 100-char text prefix was
// already collected. Returns true when appended.
func addUniqueReview(reviews *[]Review, seen map[string]struct{}, review Review) bool {
	key := reviewDedupKey(review.Text, reviewDedupLen)
	if _, dup := seen[key]; dup {
		return false
	}
	seen[key] = struct{}{}
	*reviews = append(*reviews, review)
	return true
}

func reviewDedupKey(text string, length int) string {
	runes := []rune(strings.ToLower(text))
	if len(runes) > length {
		runes = runes[:length]
	}
	return string(runes)
}

// mergeReviews unions additional reviews into base by case-insensitive
// 50-char text prefix, keeping the base entry on collision.
func mergeReviews(base, additional []Review) []Review {
	merged := make([]Review, 0, len(base)+len(additional))
	seen := make(map[string]struct{}, len(base))

	for _, r := range base {
		key := reviewDedupKey(r.Text, 50)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, r)
	}
	for _, r := range additional {
		key := reviewDedupKey(r.Text, 50)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, r)
	}
	return merged
}
