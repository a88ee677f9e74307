// Package main provides the collector command that fetches raw market data documents.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"llamaworker/internal/collector"
	"llamaworker/internal/config"
	"llamaworker/internal/logger"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file (default: configs/worker.yaml when present)")
	dex := flag.String("dex", "", "Fetch only the details of one DEX (e.g. uniswap)")
	flag.Parse()

	cfg, source, err := config.LoadOrDefault(*configFile)
	if err != nil {
		log.Fatalf("❌ Failed to load config %s: %v\n", source, err)
	}

	fmt.Printf("⚙️  Configuration: %s (%s)\n", cfg, source)

	lg := logger.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	c := collector.New(&cfg.Collector, lg)

	ctx := context.Background()
	startTime := time.Now()

	if *dex != "" {
		if env := c.FetchDexDetails(ctx, *dex); env != nil {
			fmt.Printf("✅ %s details collected in %v\n", *dex, time.Since(startTime).Round(time.Millisecond))
		}

		return
	}

	summary := c.FetchAll(ctx)

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		lg.Error("failed to encode summary", "error", err)
	} else {
		fmt.Println(string(out))
	}

	fmt.Println()
	fmt.Print(collector.SummaryTable(summary))
	fmt.Printf("\n✨ Collection finished in %v\n", time.Since(startTime).Round(time.Millisecond))
}
