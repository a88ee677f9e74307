package file

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"llamaworker/internal/models"
	"llamaworker/internal/storage"
)

func strPtr(s string) *string { return &s }

func TestJSONArraySink_Store(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "fees.json")

	sink := NewJSONArraySink(map[models.Category]string{models.CategoryProtocolFee: path}, true)

	records := []models.Record{
		models.ProtocolFeeRecord{Name: strPtr("Lido"), Timestamp: "2024-01-01T00:00:00.000Z"},
		models.ProtocolFeeRecord{Name: strPtr("Aave"), Timestamp: "2024-01-01T00:00:00.000Z"},
	}

	if err := sink.Store(context.Background(), models.CategoryProtocolFee, records); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not a JSON array: %v", err)
	}

	if len(decoded) != 2 || decoded[1]["name"] != "Aave" {
		t.Errorf("unexpected output: %v", decoded)
	}

	if _, present := decoded[0]["fees_24h"]; !present {
		t.Error("nullable fields must be written as null, not omitted")
	}
}

func TestJSONArraySink_EmptyKeepsPreviousOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fees.json")
	if err := os.WriteFile(path, []byte(`[{"name":"previous"}]`), 0644); err != nil {
		t.Fatal(err)
	}

	sink := NewJSONArraySink(map[models.Category]string{models.CategoryProtocolFee: path}, false)

	err := sink.Store(context.Background(), models.CategoryProtocolFee, nil)
	if !errors.Is(err, storage.ErrEmptyRecords) {
		t.Fatalf("Store(nil) error = %v, want ErrEmptyRecords", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != `[{"name":"previous"}]` {
		t.Errorf("previous output was modified: %s", data)
	}
}

func TestJSONArraySink_UnknownCategory(t *testing.T) {
	sink := NewJSONArraySink(map[models.Category]string{}, false)

	err := sink.Store(context.Background(), models.CategoryStablecoin, []models.Record{models.StablecoinRecord{}})
	if !errors.Is(err, models.ErrUnknownCategory) {
		t.Errorf("error = %v, want ErrUnknownCategory", err)
	}
}

func TestLatest(t *testing.T) {
	dir := t.TempDir()

	older := filepath.Join(dir, "tvl_2024-01-01T00-00-00.000Z.json")
	newer := filepath.Join(dir, "tvl_2024-02-01T00-00-00.000Z.json")

	for _, p := range []string{older, newer, filepath.Join(dir, "notes.txt")} {
		if err := os.WriteFile(p, []byte(`{}`), 0644); err != nil {
			t.Fatal(err)
		}
	}

	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatal(err)
	}

	got, err := Latest(dir)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}

	if got != newer {
		t.Errorf("Latest = %s, want %s", got, newer)
	}
}

func TestLatest_Empty(t *testing.T) {
	_, err := Latest(t.TempDir())
	if !errors.Is(err, ErrNoDocuments) {
		t.Errorf("error = %v, want ErrNoDocuments", err)
	}

	if _, err := Latest(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}
