package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"adbuilder-scraper/internal/common/logger"
	"adbuilder-scraper/internal/common/metrics"
	"adbuilder-scraper/internal/prompts"

	"github.com/xeipuuv/gojsonschema"
)

// TaggedSection is a page section tagged with its source page so
// classification results can be traced back.
type TaggedSection struct {
	Path    string
	Index   int
	Header  string
	Content string
}

// ClassifiedReview is one review the model pulled out of a section.
type ClassifiedReview struct {
	SectionIndex int     `json:"section_index"`
	Author       string  `json:"author"`
	Rating       float64 `json:"rating"`
	Text         string  `json:"text"`
	Platform     string  `json:"platform"`
}

// ClassificationResult is the parsed model response for one batch.
type ClassificationResult struct {
	Reviews              []ClassifiedReview `json:"reviews"`
	ReviewSectionIndices []int              `json:"review_section_indices"`
}

const classificationSchema = `{
	"type": "object",
	"required": ["reviews", "review_section_indices"],
	"properties": {
		"reviews": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["section_index", "text"],
				"properties": {
					"section_index": {"type": "integer"},
					"author": {"type": "string"},
					"rating": {"type": "number"},
					"text": {"type": "string"},
					"platform": {"type": "string"}
				}
			}
		},
		"review_section_indices": {
			"type": "array",
			"items": {"type": "integer"}
		}
	}
}`

// maxSectionContent caps how much of each section goes into the batch
// prompt so a content-heavy site stays inside the model context.
const maxSectionContent = 300

// TemplateStore is the prompt lookup the classifier depends on.
type TemplateStore interface {
	GetTemplate(ctx context.Context, promptType string) (*prompts.Template, error)
}

// Completer issues chat completions. Satisfied by *Client.
type Completer interface {
	Complete(ctx context.Context, model string, messages []Message, temperature float64, maxTokens int) (string, error)
}

// ReviewClassifier runs the batched review classification over all
// sections collected from a crawl. One call per crawl, never per page.
type ReviewClassifier struct {
	client    Completer
	templates TemplateStore
	log       logger.Logger
	schema    *gojsonschema.Schema
}

func NewReviewClassifier(client Completer, templates TemplateStore, log logger.Logger) *ReviewClassifier {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(classificationSchema))
	if err != nil {
		panic(fmt.Sprintf("invalid classification schema: %v", err))
	}
	return &ReviewClassifier{client: client, templates: templates, log: log, schema: schema}
}

// ClassifyBatch asks the model which sections are customer reviews. All
// failure modes degrade to an empty result: a missing template, a failed
// completion, and unparseable output each yield zero reviews.
func (c *ReviewClassifier) ClassifyBatch(ctx context.Context, sections []TaggedSection) *ClassificationResult {
	empty := &ClassificationResult{Reviews: []ClassifiedReview{}, ReviewSectionIndices: []int{}}
	if len(sections) == 0 {
		return empty
	}

	tmpl, err := c.templates.GetTemplate(ctx, prompts.PromptTypeClassifyReviews)
	if err != nil {
		if err == prompts.ErrNotFound {
			c.log.Warn("classify_reviews prompt template missing, skipping review classification; run the seed command to install it", nil)
		} else {
			c.log.WithError(err).Error("failed to load classify_reviews template", nil)
		}
		return empty
	}

	prompt := tmpl.Format(map[string]string{
		"sections_text": formatSections(sections),
	})

	raw, err := c.client.Complete(ctx, tmpl.ModelSettings.Model,
		[]Message{{Role: "user", Content: prompt}},
		tmpl.ModelSettings.Temperature, tmpl.ModelSettings.MaxTokens)
	if err != nil {
		c.log.WithError(err).Error("review classification call failed", map[string]interface{}{
			"sections": len(sections),
		})
		return empty
	}

	result, err := c.parseResponse(raw)
	if err != nil {
		c.log.WithError(err).Warn("review classification returned unparseable output", nil)
		return empty
	}

	metrics.ReviewsExtracted.WithLabelValues("ai").Add(float64(len(result.Reviews)))
	return result
}

func (c *ReviewClassifier) parseResponse(raw string) (*ClassificationResult, error) {
	cleaned := StripCodeFences(raw)

	validation, err := c.schema.Validate(gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}
	if !validation.Valid() {
		return nil, fmt.Errorf("response does not match classification schema: %v", validation.Errors())
	}

	var result ClassificationResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, err
	}
	if result.Reviews == nil {
		result.Reviews = []ClassifiedReview{}
	}
	if result.ReviewSectionIndices == nil {
		result.ReviewSectionIndices = []int{}
	}
	return &result, nil
}

// formatSections renders the numbered section list substituted into the
// {sections_text} placeholder. Indices are positions in the flat batch.
func formatSections(sections []TaggedSection) string {
	var b strings.Builder
	for i, s := range sections {
		content := s.Content
		if runes := []rune(content); len(runes) > maxSectionContent {
			content = string(runes[:maxSectionContent])
		}
		fmt.Fprintf(&b, "Sektion %d (%s):\nOverskrift: %s\nIndhold: %s\n\n", i, s.Path, s.Header, content)
	}
	return strings.TrimRight(b.String(), "\n")
}
