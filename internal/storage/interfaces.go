// Package storage defines where normalized records are written.
package storage

import (
	"context"
	"errors"

	"llamaworker/internal/models"
)

// ErrEmptyRecords is returned by sinks asked to store an empty sequence.
// Previous output is kept rather than truncated.
var ErrEmptyRecords = errors.New("refusing to store an empty record sequence")

// RecordSink persists the normalized records of one category, replacing any previous run.
type RecordSink interface {
	Name() string
	Store(ctx context.Context, category models.Category, records []models.Record) error
}
