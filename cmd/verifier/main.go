// Package main provides the verifier command that checks the content hash of every raw document.
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"llamaworker/internal/config"
	"llamaworker/internal/formatter"
	"llamaworker/pkg/metadata"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file (default: configs/worker.yaml when present)")
	dir := flag.String("dir", "", "Directory to verify (overrides collector.data_dir)")
	flag.Parse()

	cfg, source, err := config.LoadOrDefault(*configFile)
	if err != nil {
		log.Fatalf("❌ Failed to load config %s: %v\n", source, err)
	}

	root := cfg.Collector.DataDir
	if *dir != "" {
		root = *dir
	}

	fmt.Printf("🔍 Verifying documents under: %s\n\n", root)

	rows, failed, err := verifyTree(root)
	if err != nil {
		log.Fatalf("❌ %v\n", err)
	}

	fmt.Print(formatter.Table([]string{"File", "Status", "Note"}, rows))
	fmt.Printf("\n%d checked, %d failed\n", len(rows), failed)

	if failed > 0 {
		os.Exit(1)
	}
}

// verifyTree checks every *.json file below root and returns one table row per file.
func verifyTree(root string) ([][]string, int, error) {
	var (
		rows   [][]string
		failed int
	)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}

		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			failed++
			rows = append(rows, []string{rel, "❌ unreadable", readErr.Error()})

			return nil
		}

		if ok, verifyErr := metadata.Verify(raw); !ok {
			failed++
			rows = append(rows, []string{rel, "❌ invalid", verifyErr.Error()})

			return nil
		}

		rows = append(rows, []string{rel, "✅ ok", ""})

		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("walk %s: %w", root, err)
	}

	return rows, failed, nil
}
