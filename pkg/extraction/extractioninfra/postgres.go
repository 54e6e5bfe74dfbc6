package extractioninfra

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pdfscope/pdfscope/pkg/errx"
	"github.com/pdfscope/pdfscope/pkg/extraction"
)

// PostgresResultStore persists extraction responses in a jsonb column.
//
// Expected schema:
//
//	CREATE TABLE extraction_results (
//	    id         TEXT PRIMARY KEY,
//	    document   TEXT NOT NULL,
//	    payload    JSONB NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL
//	);
type PostgresResultStore struct {
	db *sqlx.DB
}

func NewPostgresResultStore(db *sqlx.DB) *PostgresResultStore {
	return &PostgresResultStore{db: db}
}

type resultRow struct {
	ID        string    `db:"id"`
	Document  string    `db:"document"`
	Payload   []byte    `db:"payload"`
	CreatedAt time.Time `db:"created_at"`
}

func (s *PostgresResultStore) Save(ctx context.Context, id string, resp *extraction.Response) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return errx.Wrap(err, "encoding extraction result", errx.TypeInternal)
	}

	query := `
		INSERT INTO extraction_results (id, document, payload, created_at)
		VALUES (:id, :document, :payload, :created_at)`

	_, err = s.db.NamedExecContext(ctx, query, resultRow{
		ID:        id,
		Document:  resp.Document,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return errx.Wrap(err, "storing extraction result", errx.TypeInternal).
			WithDetail("result_id", id)
	}
	return nil
}

func (s *PostgresResultStore) Load(ctx context.Context, id string) (*extraction.Response, error) {
	var row resultRow
	query := `SELECT id, document, payload, created_at FROM extraction_results WHERE id = $1`

	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, extraction.ErrResultNotFound(id)
		}
		return nil, errx.Wrap(err, "loading extraction result", errx.TypeInternal).
			WithDetail("result_id", id)
	}

	var resp extraction.Response
	if err := json.Unmarshal(row.Payload, &resp); err != nil {
		return nil, errx.Wrap(err, "decoding extraction result", errx.TypeInternal).
			WithDetail("result_id", id)
	}
	return &resp, nil
}
