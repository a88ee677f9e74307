// Package document loads raw collector documents and navigates their loosely-typed JSON.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/PaesslerAG/jsonpath"

	"llamaworker/internal/models"
)

// Document errors.
var (
	ErrMissingContainer   = errors.New("expected container is missing")
	ErrWrongContainerKind = errors.New("container has the wrong kind")
	ErrEmptyDocument      = errors.New("document is empty")
)

// collectionTimePaths are tried in order to find the collection timestamp of a document.
var collectionTimePaths = []string{
	"$.metadata.collection_info.timestamp",
	"$.timestamp",
}

// RawDocument is a decoded collector document plus its collection time.
// Root is never modified after Decode.
type RawDocument struct {
	Root        any
	CollectedAt string
	Path        string
}

// Decode parses JSON keeping numbers as json.Number so they pass through unchanged.
func Decode(b []byte) (any, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, ErrEmptyDocument
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	return v, nil
}

// Parse builds a RawDocument from bytes. fallback is used when the document declares no collection time.
func Parse(b []byte, fallback time.Time) (*RawDocument, error) {
	root, err := Decode(b)
	if err != nil {
		return nil, err
	}

	doc := &RawDocument{Root: root}
	doc.CollectedAt = doc.declaredTimestamp()

	if doc.CollectedAt == "" {
		doc.CollectedAt = models.FormatTimestamp(fallback)
	}

	return doc, nil
}

// Load reads and parses a raw document. A document without a declared collection time
// takes the file's modification time.
func Load(path string) (*RawDocument, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc, err := Parse(b, info.ModTime())
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	doc.Path = path

	return doc, nil
}

// New wraps an already decoded value.
func New(root any, collectedAt string) *RawDocument {
	return &RawDocument{Root: root, CollectedAt: collectedAt}
}

func (d *RawDocument) declaredTimestamp() string {
	for _, path := range collectionTimePaths {
		v, err := d.Lookup(path)
		if err != nil {
			continue
		}

		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}

	return ""
}

// Lookup evaluates a jsonpath expression against the document.
func (d *RawDocument) Lookup(path string) (v any, err error) {
	if d == nil || d.Root == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingContainer, path)
	}

	defer func() {
		if r := recover(); r != nil {
			v, err = nil, fmt.Errorf("%w: %s: %v", ErrMissingContainer, path, r)
		}
	}()

	v, err = jsonpath.Get(path, d.Root)
	if err != nil || v == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingContainer, path)
	}

	return v, nil
}

// List returns the list found at path.
func (d *RawDocument) List(path string) ([]any, error) {
	v, err := d.Lookup(path)
	if err != nil {
		return nil, err
	}

	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %s, want list", ErrWrongContainerKind, path, KindOf(v))
	}

	return list, nil
}

// Object returns the object found at path.
func (d *RawDocument) Object(path string) (map[string]any, error) {
	v, err := d.Lookup(path)
	if err != nil {
		return nil, err
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %s, want object", ErrWrongContainerKind, path, KindOf(v))
	}

	return obj, nil
}

// CountAt returns the length of the list at path, or zero when it is absent or not a list.
func (d *RawDocument) CountAt(path string) int {
	list, err := d.List(path)
	if err != nil {
		return 0
	}

	return len(list)
}

// KindOf names the JSON kind of a decoded value.
func KindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "list"
	case string:
		return "string"
	case json.Number, float64:
		return "number"
	case bool:
		return "bool"
	default:
		return fmt.Sprintf("%T", v)
	}
}
