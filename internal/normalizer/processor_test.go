package normalizer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llamaworker/internal/config"
	"llamaworker/internal/logger"
	"llamaworker/internal/models"
)

func writeInputs(t *testing.T, dir string, skip models.Category) []CategorySpec {
	t.Helper()

	var specs []CategorySpec

	for _, category := range models.AllCategories() {
		spec := CategorySpec{
			Category:   category,
			InputPath:  filepath.Join(dir, "in", string(category)+".json"),
			OutputPath: filepath.Join(dir, "out", category.MustInfo().OutputFile),
		}

		if category != skip {
			require.NoError(t, os.MkdirAll(filepath.Dir(spec.InputPath), 0755))
			require.NoError(t, os.WriteFile(spec.InputPath, []byte(validInputs[category]), 0644))
		}

		specs = append(specs, spec)
	}

	return specs
}

func TestProcessor_Run_MissingInputIsolated(t *testing.T) {
	dir := t.TempDir()
	specs := writeInputs(t, dir, models.CategoryYieldPool)

	report := NewProcessor(specs, true, logger.Discard()).Run(context.Background())
	require.Len(t, report.Results, 5)
	assert.Equal(t, 4, report.Written())

	for _, res := range report.Results {
		if res.Category == models.CategoryYieldPool {
			assert.Equal(t, StatusSkipped, res.Status)
			assert.Error(t, res.Err)

			continue
		}

		assert.Equal(t, StatusWritten, res.Status, res.Category)
		assert.FileExists(t, res.Output)
	}

	assert.NoFileExists(t, filepath.Join(dir, "out", "yield_pools.json"))

	raw, err := os.ReadFile(filepath.Join(dir, "out", "stablecoins.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{
		"id":"1","name":"Tether","symbol":"USDT","gecko_id":"tether","price":1.0002,
		"circulating":100,"market_cap":null,"chains":["Ethereum","Tron"],
		"peg_type":"peggedUSD","peg_mechanism":"fiat-backed",
		"price_change_24h":null,"market_cap_change_24h":null,
		"circulating_prev_day":99,"circulating_prev_week":95,"circulating_prev_month":90,
		"timestamp":"2024-03-01T12:00:00.000Z"
	}]`, string(raw))
}

func TestProcessor_Run_EmptyResultKeepsPreviousOutput(t *testing.T) {
	dir := t.TempDir()
	specs := writeInputs(t, dir, "")

	first := NewProcessor(specs, false, logger.Discard()).Run(context.Background())
	require.Equal(t, 5, first.Written())

	fees := filepath.Join(dir, "out", "protocol_fees.json")
	before, err := os.ReadFile(fees)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(specs[4].InputPath, []byte(envelope(`{"protocols":"gone"}`)), 0644))

	second := NewProcessor(specs, false, logger.Discard()).Run(context.Background())
	assert.Equal(t, StatusEmpty, second.Results[4].Status)

	after, err := os.ReadFile(fees)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestProcessor_Run_Idempotent(t *testing.T) {
	dir := t.TempDir()
	specs := writeInputs(t, dir, "")

	NewProcessor(specs, true, logger.Discard()).Run(context.Background())

	first, err := os.ReadFile(specs[1].OutputPath)
	require.NoError(t, err)

	NewProcessor(specs, true, logger.Discard()).Run(context.Background())

	second, err := os.ReadFile(specs[1].OutputPath)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

type recordingSink struct {
	stored map[models.Category]int
	err    error
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Store(_ context.Context, category models.Category, records []models.Record) error {
	if s.err != nil {
		return s.err
	}

	s.stored[category] = len(records)

	return nil
}

func TestProcessor_Run_ExtraSinks(t *testing.T) {
	dir := t.TempDir()
	specs := writeInputs(t, dir, "")

	sink := &recordingSink{stored: map[models.Category]int{}}
	NewProcessor(specs, true, logger.Discard(), sink).Run(context.Background())

	assert.Equal(t, 2, sink.stored[models.CategoryProtocolTVL])
	assert.Equal(t, 6, sink.stored[models.CategoryDexVolume])
	assert.Equal(t, 3, sink.stored[models.CategoryProtocolFee])

	failing := &recordingSink{err: errors.New("connection refused")}
	report := NewProcessor(specs, true, logger.Discard(), failing).Run(context.Background())

	for _, res := range report.Results {
		assert.Equal(t, StatusFailed, res.Status)
		assert.ErrorContains(t, res.Err, "recording")
		assert.FileExists(t, res.Output)
	}
}

func TestProcessor_Run_Cancelled(t *testing.T) {
	dir := t.TempDir()
	specs := writeInputs(t, dir, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := NewProcessor(specs, true, logger.Discard()).Run(ctx)
	assert.Equal(t, 0, report.Written())
	assert.ErrorIs(t, report.Results[0].Err, context.Canceled)
}

func TestResolveSpecs(t *testing.T) {
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Collector.DataDir = filepath.Join(dir, "data")
	cfg.Normalizer.OutputDir = filepath.Join(dir, "out")
	cfg.Normalizer.Inputs[string(models.CategoryProtocolFee)] = "explicit.json"

	poolsDir := filepath.Join(cfg.Collector.DataDir, "yields", "pools")
	require.NoError(t, os.MkdirAll(poolsDir, 0755))

	older := filepath.Join(poolsDir, "pools_2024-01-01T00-00-00.000Z.json")
	newer := filepath.Join(poolsDir, "pools_2024-02-01T00-00-00.000Z.json")

	require.NoError(t, os.WriteFile(older, []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(newer, []byte("{}"), 0644))
	require.NoError(t, os.Chtimes(older, time.Now().Add(-time.Hour), time.Now().Add(-time.Hour)))

	specs := ResolveSpecs(cfg, logger.Discard())
	require.Len(t, specs, 5)

	byCategory := map[models.Category]CategorySpec{}
	for _, s := range specs {
		byCategory[s.Category] = s
	}

	assert.Equal(t, newer, byCategory[models.CategoryYieldPool].InputPath)
	assert.Equal(t, "explicit.json", byCategory[models.CategoryProtocolFee].InputPath)
	assert.Empty(t, byCategory[models.CategoryStablecoin].InputPath)
	assert.Equal(t, filepath.Join(dir, "out", "stablecoins.json"), byCategory[models.CategoryStablecoin].OutputPath)
}

func TestReport_Table(t *testing.T) {
	report := Report{Results: []Result{
		{Category: models.CategoryStablecoin, Status: StatusWritten, Count: 3, Output: "out/stablecoins.json"},
		{Category: models.CategoryYieldPool, Status: StatusSkipped, Err: errors.New("no input document")},
	}}

	table := report.Table()
	assert.Contains(t, table, "| stablecoin | written | 3       | out/stablecoins.json | ")
	assert.Contains(t, table, "no input document")
}

func TestOpenSinks_Disabled(t *testing.T) {
	sinks, closeSinks, err := OpenSinks(context.Background(), config.DefaultConfig(), logger.Discard())
	require.NoError(t, err)
	require.NotNil(t, closeSinks)
	assert.Empty(t, sinks)

	closeSinks()
}

func TestOpenSinks_BadDSN(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.Postgres.Enabled = true
	cfg.Storage.Postgres.DSN = "://not a dsn"

	_, closeSinks, err := OpenSinks(context.Background(), cfg, logger.Discard())
	assert.Error(t, err)
	assert.NotNil(t, closeSinks)
}
