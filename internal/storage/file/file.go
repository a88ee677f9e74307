// Package file writes JSON documents and normalized record arrays to the local filesystem.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"llamaworker/internal/models"
	"llamaworker/internal/storage"
)

// ErrNoDocuments is returned by Latest when a directory holds no JSON document.
var ErrNoDocuments = errors.New("no JSON documents found")

// WriteJSON marshals v and writes it to path, creating parent directories.
func WriteJSON(path string, v any, pretty bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	var (
		data []byte
		err  error
	)

	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// Latest returns the most recently modified *.json file in dir. Ties go to the greater name.
func Latest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	type candidate struct {
		name    string
		modTime int64
	}

	var files []candidate

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		info, infoErr := entry.Info()
		if infoErr != nil {
			continue
		}

		files = append(files, candidate{name: entry.Name(), modTime: info.ModTime().UnixNano()})
	}

	if len(files) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoDocuments, dir)
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].modTime != files[j].modTime {
			return files[i].modTime > files[j].modTime
		}

		return files[i].name > files[j].name
	})

	return filepath.Join(dir, files[0].name), nil
}

// JSONArraySink writes each category's records as one JSON array file.
type JSONArraySink struct {
	paths  map[models.Category]string
	pretty bool
}

// NewJSONArraySink creates a sink writing each category to its path.
func NewJSONArraySink(paths map[models.Category]string, pretty bool) *JSONArraySink {
	return &JSONArraySink{paths: paths, pretty: pretty}
}

// Compile-time interface check.
var _ storage.RecordSink = (*JSONArraySink)(nil)

// Name identifies the sink in reports.
func (s *JSONArraySink) Name() string {
	return "file"
}

// Store replaces the category's output file with records. Empty input leaves the file untouched.
func (s *JSONArraySink) Store(_ context.Context, category models.Category, records []models.Record) error {
	if len(records) == 0 {
		return storage.ErrEmptyRecords
	}

	path, ok := s.paths[category]
	if !ok || path == "" {
		return fmt.Errorf("%w: no output path for %s", models.ErrUnknownCategory, category)
	}

	return WriteJSON(path, records, s.pretty)
}
