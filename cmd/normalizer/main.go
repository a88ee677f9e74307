// Package main provides the normalizer command that flattens the latest raw documents into record arrays.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"llamaworker/internal/config"
	"llamaworker/internal/logger"
	"llamaworker/internal/normalizer"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file (default: configs/worker.yaml when present)")
	flag.Parse()

	cfg, source, err := config.LoadOrDefault(*configFile)
	if err != nil {
		log.Fatalf("❌ Failed to load config %s: %v\n", source, err)
	}

	fmt.Printf("⚙️  Configuration: %s (%s)\n", cfg, source)

	lg := logger.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	ctx := context.Background()

	sinks, closeSinks, err := normalizer.OpenSinks(ctx, cfg, lg)
	if err != nil {
		log.Fatalf("❌ %v\n", err)
	}
	defer closeSinks()

	specs := normalizer.ResolveSpecs(cfg, lg)
	for _, spec := range specs {
		input := spec.InputPath
		if input == "" {
			input = "(none)"
		}

		fmt.Printf("📂 %-13s %s\n", spec.Category, input)
	}

	report := normalizer.NewProcessor(specs, cfg.Normalizer.PrettyPrint, lg, sinks...).Run(ctx)

	fmt.Println()
	fmt.Print(report.Table())
	fmt.Printf("\n📊 %d of %d categories written\n", report.Written(), len(report.Results))
}
