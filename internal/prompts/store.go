package prompts

import (
	"context"
	"database/sql"
	"encoding/json"

	"adbuilder-scraper/internal/common/database"
	cerrors "adbuilder-scraper/internal/common/errors"
	"adbuilder-scraper/internal/common/logger"
)

// Store loads prompt templates from the ai_prompt_templates table.
type Store struct {
	db  *database.PostgresClient
	log logger.Logger
}

func NewStore(db *database.PostgresClient, log logger.Logger) *Store {
	return &Store{db: db, log: log}
}

// GetTemplate returns the active template for a prompt type, or
// ErrNotFound when none exists. Model settings missing from the row
// fall back to the classification defaults.
func (s *Store) GetTemplate(ctx context.Context, promptType string) (*Template, error) {
	row := s.db.QueryRow(ctx,
		`SELECT prompt_type, prompt_text, model_settings
		 FROM ai_prompt_templates
		 WHERE prompt_type = $1 AND is_active = TRUE`,
		promptType,
	)

	var (
		tmpl        Template
		settingsRaw []byte
	)
	if err := row.Scan(&tmpl.PromptType, &tmpl.PromptText, &settingsRaw); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, cerrors.Wrap(cerrors.ErrCodePersistence, "failed to load prompt template", err).
			WithMetadata("prompt_type", promptType)
	}

	if len(settingsRaw) > 0 {
		if err := json.Unmarshal(settingsRaw, &tmpl.ModelSettings); err != nil {
			s.log.Warn("invalid model settings on prompt template, using defaults", map[string]interface{}{
				"prompt_type": promptType,
				"error":       err.Error(),
			})
		}
	}
	tmpl.ModelSettings.applyDefaults()

	return &tmpl, nil
}

// Seed installs the default templates, leaving existing rows untouched
// so operator edits survive redeploys.
func (s *Store) Seed(ctx context.Context) error {
	for _, tmpl := range defaultTemplates() {
		settings, err := json.Marshal(tmpl.ModelSettings)
		if err != nil {
			return cerrors.Wrap(cerrors.ErrCodePersistence, "failed to encode model settings", err)
		}

		res, err := s.db.Exec(ctx,
			`INSERT INTO ai_prompt_templates (prompt_type, prompt_text, model_settings, is_active)
			 VALUES ($1, $2, $3, TRUE)
			 ON CONFLICT (prompt_type) DO NOTHING`,
			tmpl.PromptType, tmpl.PromptText, settings,
		)
		if err != nil {
			return cerrors.Wrap(cerrors.ErrCodePersistence, "failed to seed prompt template", err).
				WithMetadata("prompt_type", tmpl.PromptType)
		}

		if n, _ := res.RowsAffected(); n > 0 {
			s.log.Info("seeded prompt template", map[string]interface{}{
				"prompt_type": tmpl.PromptType,
			})
		}
	}
	return nil
}
