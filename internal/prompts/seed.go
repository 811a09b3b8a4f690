package prompts

// PromptTypeClassifyReviews identifies the batched review classification
// template used by the comprehensive scrape.
const PromptTypeClassifyReviews = "classify_reviews"

const classifyReviewsText = `Analyser disse website-sektioner og identificer hvilke der indeholder kundeanmeldelser/testimonials.

{sections_text}

En kundeanmeldelse kendetegnes ved:
- Et kundenavn efterfulgt af en kort tekst om deres oplevelse
- Første-persons perspektiv ("Vi fik...", "Jeg er...", "Vi har brugt...")
- Tilfredshedsudtryk ("Kan varmt anbefales", "Fantastisk service", "Meget tilfreds")
- Ofte korte tekster (1-3 sætninger)
- Kan indeholde stjernerating eller tilfredshedsindikatorer

For HVER sektion der er en anmeldelse, udtræk:
- section_index: Sektionens nummer
- author: Kundens navn (hvis det kan findes i overskriften eller starten af teksten)
- rating: 1-5 (estimér baseret på tonen, default 5 for positive)
- text: Selve anmeldelsesteksten (max 200 tegn)
- platform: "Website" (da det er fra kundens hjemmeside)

Returnér KUN valid JSON i dette format:
{
    "reviews": [
        {
            "section_index": 2,
            "author": "Peter Hansen",
            "rating": 5,
            "text": "Fantastisk service og hurtig respons...",
            "platform": "Website"
        }
    ],
    "review_section_indices": [2, 3, 4]
}

Hvis ingen sektioner er anmeldelser, returnér:
{"reviews": [], "review_section_indices": []}`

func defaultTemplates() []Template {
	return []Template{
		{
			PromptType: PromptTypeClassifyReviews,
			PromptText: classifyReviewsText,
			ModelSettings: ModelSettings{
				Model:       "gpt-4o-mini",
				Temperature: 0.1,
				MaxTokens:   2000,
			},
		},
	}
}
