// Package main provides the unified worker command that collects then normalizes in one run.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"llamaworker/internal/collector"
	"llamaworker/internal/config"
	"llamaworker/internal/logger"
	"llamaworker/internal/normalizer"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file (default: configs/worker.yaml when present)")
	skipCollect := flag.Bool("skip-collect", false, "Normalize the documents already on disk without fetching")
	writeConfig := flag.String("write-config", "", "Write the effective configuration to this YAML path and exit")
	flag.Parse()

	cfg, source, err := config.LoadOrDefault(*configFile)
	if err != nil {
		log.Fatalf("❌ Failed to load config %s: %v\n", source, err)
	}

	if *writeConfig != "" {
		if err := cfg.SaveConfig(*writeConfig); err != nil {
			log.Fatalf("❌ %v\n", err)
		}

		fmt.Printf("✅ Configuration from %s written to %s\n", source, *writeConfig)

		return
	}

	lg := logger.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	ctx := context.Background()

	lg.Info("🚀 Starting LlamaWorker pipeline", "config", source)

	startTime := time.Now()

	// Phase 1: collection
	if *skipCollect {
		lg.Info("Phase 1: Collection skipped")
	} else {
		lg.Info("Phase 1: Collection...")

		summary := collector.New(&cfg.Collector, lg).FetchAll(ctx)

		fmt.Print(collector.SummaryTable(summary))
		lg.Info(fmt.Sprintf("✅ Collection finished in %v", time.Since(startTime).Round(time.Millisecond)))
	}

	// Phase 2: normalization
	lg.Info("Phase 2: Normalization...")

	normalizeStart := time.Now()

	sinks, closeSinks, err := normalizer.OpenSinks(ctx, cfg, lg)
	if err != nil {
		lg.Error(fmt.Sprintf("❌ %v", err))
		os.Exit(1)
	}
	defer closeSinks()

	report := normalizer.NewProcessor(normalizer.ResolveSpecs(cfg, lg), cfg.Normalizer.PrettyPrint, lg, sinks...).Run(ctx)

	lg.Info(fmt.Sprintf("✅ Normalization finished in %v", time.Since(normalizeStart).Round(time.Millisecond)))

	fmt.Println("\n------------------------------------------------")
	fmt.Printf("📊 Summary Report\n")
	fmt.Println("------------------------------------------------")
	fmt.Print(report.Table())
	fmt.Printf("Categories Written: %d/%d\n", report.Written(), len(report.Results))
	fmt.Printf("Total Duration: %v\n", time.Since(startTime).Round(time.Millisecond))
	fmt.Println("------------------------------------------------")
}
