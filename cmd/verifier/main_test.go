package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"llamaworker/internal/storage/file"
	"llamaworker/pkg/metadata"
)

func TestVerifyTree(t *testing.T) {
	root := t.TempDir()

	data := map[string]any{"peggedAssets": []any{map[string]any{"name": "Tether"}}}

	meta := metadata.Metadata{CollectionInfo: metadata.CollectionInfo{Timestamp: "2024-01-01T00:00:00.000Z"}}
	if err := metadata.Sign(&meta, data); err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	good := filepath.Join(root, "stablecoins", "market", "market_a.json")
	if err := file.WriteJSON(good, map[string]any{"metadata": meta, "data": data}, true); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	bad := filepath.Join(root, "stablecoins", "market", "market_b.json")
	if err := file.WriteJSON(bad, map[string]any{"metadata": meta, "data": map[string]any{}}, true); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("skip"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	rows, failed, err := verifyTree(root)
	if err != nil {
		t.Fatalf("verifyTree failed: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d: %v", len(rows), rows)
	}

	if failed != 1 {
		t.Errorf("Expected 1 failure, got %d", failed)
	}

	if !strings.Contains(rows[0][1], "ok") || !strings.Contains(rows[1][2], "hash mismatch") {
		t.Errorf("Unexpected rows: %v", rows)
	}
}

func TestVerifyTree_MissingRoot(t *testing.T) {
	if _, _, err := verifyTree(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("Expected error for missing root")
	}
}
