// Package prompts manages the AI prompt templates stored in Postgres.
// Templates carry Danish-language instructions with {named} placeholders
// and per-template model settings.
package prompts

import (
	"strings"

	cerrors "adbuilder-scraper/internal/common/errors"
)

// ErrNotFound is returned when no active template exists for a prompt type.
var ErrNotFound = cerrors.New(cerrors.ErrCodeTemplateNotFound, "prompt template not found")

// ModelSettings are the completion parameters attached to a template.
type ModelSettings struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// Template is an active prompt template loaded from the database.
type Template struct {
	PromptType    string
	PromptText    string
	ModelSettings ModelSettings
}

// Format substitutes {name} placeholders in the template text. Unknown
// placeholders are left untouched so a malformed template fails loudly
// at the model rather than silently dropping content.
func (t *Template) Format(values map[string]string) string {
	text := t.PromptText
	for name, value := range values {
		text = strings.ReplaceAll(text, "{"+name+"}", value)
	}
	return text
}

// applyDefaults fills in model settings a template row left empty.
func (s *ModelSettings) applyDefaults() {
	if s.Model == "" {
		s.Model = "gpt-4o-mini"
	}
	if s.Temperature == 0 {
		s.Temperature = 0.1
	}
	if s.MaxTokens == 0 {
		s.MaxTokens = 2000
	}
}
