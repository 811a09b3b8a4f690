// Package clients reads and writes the scrape payloads stored against
// client records. A client record is the durable home for a scrape
// result; the transient cache in internal/cache covers anonymous runs.
package clients

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"adbuilder-scraper/internal/common/database"
	cerrors "adbuilder-scraper/internal/common/errors"
)

// ErrNotFound is returned when no client exists with the given id.
var ErrNotFound = cerrors.New(cerrors.ErrCodeClientNotFound, "client not found")

// ClientRecord is the scrape-relevant slice of a client row.
type ClientRecord struct {
	ID          int64
	WebsiteURL  string
	ScrapedData json.RawMessage
	ScrapedAt   *time.Time
}

// Store is the client persistence surface the orchestrator needs.
type Store interface {
	GetClient(ctx context.Context, id int64) (*ClientRecord, error)
	SaveClientScrape(ctx context.Context, id int64, data json.RawMessage, scrapedAt time.Time) error
	HasFreshScrape(ctx context.Context, id int64, maxAge time.Duration) (bool, error)
}

// PostgresStore implements Store on the clients table.
type PostgresStore struct {
	db *database.PostgresClient
}

func NewPostgresStore(db *database.PostgresClient) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetClient(ctx context.Context, id int64) (*ClientRecord, error) {
	row := s.db.QueryRow(ctx,
		`SELECT id, website_url, scraped_data, scraped_at FROM clients WHERE id = $1`,
		id,
	)

	var (
		rec       ClientRecord
		data      sql.NullString
		scrapedAt sql.NullTime
	)
	if err := row.Scan(&rec.ID, &rec.WebsiteURL, &data, &scrapedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, cerrors.Wrap(cerrors.ErrCodePersistence, "failed to load client", err).
			WithMetadata("client_id", id)
	}

	if data.Valid {
		rec.ScrapedData = json.RawMessage(data.String)
	}
	if scrapedAt.Valid {
		t := scrapedAt.Time
		rec.ScrapedAt = &t
	}
	return &rec, nil
}

func (s *PostgresStore) SaveClientScrape(ctx context.Context, id int64, data json.RawMessage, scrapedAt time.Time) error {
	res, err := s.db.Exec(ctx,
		`UPDATE clients SET scraped_data = $1, scraped_at = $2 WHERE id = $3`,
		string(data), scrapedAt, id,
	)
	if err != nil {
		return cerrors.Wrap(cerrors.ErrCodePersistence, "failed to save client scrape", err).
			WithMetadata("client_id", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// HasFreshScrape reports whether the client has stored data scraped
// within maxAge. Freshness is advisory: callers decide whether to
// re-crawl, the orchestrator never forces it.
func (s *PostgresStore) HasFreshScrape(ctx context.Context, id int64, maxAge time.Duration) (bool, error) {
	rec, err := s.GetClient(ctx, id)
	if err != nil {
		return false, err
	}
	if len(rec.ScrapedData) == 0 || rec.ScrapedAt == nil {
		return false, nil
	}
	return time.Since(*rec.ScrapedAt) <= maxAge, nil
}
