// Package normalizer turns raw collector documents into flat, timestamped record arrays.
package normalizer

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"llamaworker/internal/config"
	"llamaworker/internal/document"
	"llamaworker/internal/formatter"
	"llamaworker/internal/logger"
	"llamaworker/internal/models"
	"llamaworker/internal/storage"
	"llamaworker/internal/storage/file"
)

// Category outcomes reported by Run.
const (
	StatusWritten = "written"
	StatusSkipped = "skipped"
	StatusEmpty   = "empty"
	StatusFailed  = "failed"
)

// CategorySpec is one (input, output, rule) triple of a batch run.
type CategorySpec struct {
	Category   models.Category
	InputPath  string
	OutputPath string
}

// Result is the outcome of one category.
type Result struct {
	Category models.Category
	Input    string
	Output   string
	Count    int
	Status   string
	Err      error
}

// Report collects the per-category outcomes of a run in processing order.
type Report struct {
	Results []Result
}

// Written returns how many categories produced output.
func (r Report) Written() int {
	n := 0

	for _, res := range r.Results {
		if res.Status == StatusWritten {
			n++
		}
	}

	return n
}

// Table renders the report for terminal output.
func (r Report) Table() string {
	rows := make([][]string, 0, len(r.Results))

	for _, res := range r.Results {
		note := ""
		if res.Err != nil {
			note = res.Err.Error()
		}

		rows = append(rows, []string{string(res.Category), res.Status, strconv.Itoa(res.Count), res.Output, note})
	}

	return formatter.Table([]string{"Category", "Status", "Records", "Output", "Note"}, rows)
}

// Processor runs the batch: read, transform and store each category in turn.
// Categories never affect one another.
type Processor struct {
	specs       []CategorySpec
	transformer *Transformer
	sinks       []storage.RecordSink
	log         *logger.Logger
}

// NewProcessor creates a processor writing JSON arrays to each spec's output path,
// then to any extra sinks.
func NewProcessor(specs []CategorySpec, pretty bool, log *logger.Logger, extra ...storage.RecordSink) *Processor {
	paths := make(map[models.Category]string, len(specs))
	for _, spec := range specs {
		paths[spec.Category] = spec.OutputPath
	}

	sinks := append([]storage.RecordSink{file.NewJSONArraySink(paths, pretty)}, extra...)

	return &Processor{
		specs:       specs,
		transformer: NewTransformer(),
		sinks:       sinks,
		log:         log,
	}
}

// ResolveSpecs builds the five specs from configuration. An empty input path resolves to the
// newest collector document of the category; when none exists the input stays empty and Run skips it.
func ResolveSpecs(cfg *config.Config, log *logger.Logger) []CategorySpec {
	specs := make([]CategorySpec, 0, len(models.AllCategories()))

	for _, category := range models.AllCategories() {
		spec := CategorySpec{
			Category:   category,
			InputPath:  cfg.Normalizer.GetInputPath(category),
			OutputPath: cfg.Normalizer.GetOutputPath(category),
		}

		if spec.InputPath == "" {
			info := category.MustInfo()

			latest, err := file.Latest(cfg.Collector.GetCategoryDir(info.Group, info.Subgroup))
			if err != nil {
				log.Debug("no collector document found", "category", category, "error", err)
			} else {
				spec.InputPath = latest
			}
		}

		specs = append(specs, spec)
	}

	return specs
}

// Run processes every spec sequentially and reports each outcome.
func (p *Processor) Run(ctx context.Context) Report {
	report := Report{Results: make([]Result, 0, len(p.specs))}

	for _, spec := range p.specs {
		if err := ctx.Err(); err != nil {
			report.Results = append(report.Results, Result{
				Category: spec.Category, Input: spec.InputPath, Status: StatusSkipped, Err: err,
			})

			continue
		}

		report.Results = append(report.Results, p.process(ctx, spec))
	}

	return report
}

func (p *Processor) process(ctx context.Context, spec CategorySpec) Result {
	res := Result{Category: spec.Category, Input: spec.InputPath}
	log := p.log.With("category", spec.Category)

	if spec.InputPath == "" {
		log.Warn("no input document, skipping")

		res.Status = StatusSkipped
		res.Err = errors.New("no input document")

		return res
	}

	doc, err := document.Load(spec.InputPath)
	if err != nil {
		log.Warn("input unavailable, skipping", "input", spec.InputPath, "error", err)

		res.Status = StatusSkipped
		res.Err = err

		return res
	}

	records := p.transformer.Transform(spec.Category, doc)
	if len(records) == 0 {
		log.Warn("no records produced, output left untouched", "input", spec.InputPath)

		res.Status = StatusEmpty

		return res
	}

	res.Count = len(records)
	res.Status = StatusWritten
	res.Output = spec.OutputPath

	for _, sink := range p.sinks {
		if storeErr := sink.Store(ctx, spec.Category, records); storeErr != nil {
			log.Error("failed to store records", "sink", sink.Name(), "error", storeErr)

			res.Status = StatusFailed
			res.Err = fmt.Errorf("%s: %w", sink.Name(), storeErr)

			continue
		}

		log.Debug("records stored", "sink", sink.Name(), "count", len(records))
	}

	if res.Status == StatusWritten {
		log.Info("category normalized", "count", res.Count, "output", spec.OutputPath)
	}

	return res
}
