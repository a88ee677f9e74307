package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"llamaworker/internal/models"
	"llamaworker/internal/storage"
)

var recordColumns = []string{"category", "position", "collected_at", "collected_at_raw", "record"}

// collectedAtLayouts are tried in order. Zone-less layouts, as written by Python's isoformat(), are read as UTC.
var collectedAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// RecordStore implements storage.RecordSink using PostgreSQL.
type RecordStore struct {
	pool *Pool
}

// NewRecordStore creates a new RecordStore.
func NewRecordStore(pool *Pool) *RecordStore {
	return &RecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RecordSink = (*RecordStore)(nil)

// Name identifies the sink in reports.
func (s *RecordStore) Name() string {
	return "postgres"
}

// Store replaces all rows of category with records in one transaction.
// Empty input is rejected so a failed run never clears the table. A collection time in no known
// layout is stored as NULL with the raw text kept alongside.
func (s *RecordStore) Store(ctx context.Context, category models.Category, records []models.Record) error {
	if len(records) == 0 {
		return storage.ErrEmptyRecords
	}

	rows := make([][]any, 0, len(records))

	for i, record := range records {
		body, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal record %d: %w", i, err)
		}

		raw := record.CollectionTime()

		var collectedAt any
		if ts, ok := parseCollectedAt(raw); ok {
			collectedAt = ts
		}

		rows = append(rows, []any{string(category), i, collectedAt, raw, string(body)})
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM normalized_records WHERE category = $1`, string(category)); err != nil {
		return fmt.Errorf("delete %s records: %w", category, err)
	}

	copied, err := tx.CopyFrom(ctx, pgx.Identifier{"normalized_records"}, recordColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("copy %s records: %w", category, err)
	}

	if int(copied) != len(records) {
		return fmt.Errorf("copy %s records: copied %d of %d", category, copied, len(records))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// Count returns how many records of category are stored.
func (s *RecordStore) Count(ctx context.Context, category models.Category) (int, error) {
	var n int

	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM normalized_records WHERE category = $1`, string(category)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s records: %w", category, err)
	}

	return n, nil
}

// List returns the stored records of category in their original order.
func (s *RecordStore) List(ctx context.Context, category models.Category) ([]json.RawMessage, error) {
	query := `
		SELECT record
		FROM normalized_records
		WHERE category = $1
		ORDER BY position ASC
	`

	rows, err := s.pool.Query(ctx, query, string(category))
	if err != nil {
		return nil, fmt.Errorf("list %s records: %w", category, err)
	}
	defer rows.Close()

	var records []json.RawMessage

	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan record row: %w", err)
		}

		records = append(records, json.RawMessage(body))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate record rows: %w", err)
	}

	return records, nil
}

func parseCollectedAt(raw string) (time.Time, bool) {
	for _, layout := range collectedAtLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), true
		}
	}

	return time.Time{}, false
}
