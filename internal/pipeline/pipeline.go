package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ts2427/breachstudy/internal/classifier"
	"github.com/ts2427/breachstudy/internal/dataset"
	"github.com/ts2427/breachstudy/internal/models"
	"github.com/ts2427/breachstudy/internal/store"
	"github.com/ts2427/breachstudy/internal/validation"
)

// Pipeline runs the batch classification flow: read the corpus, classify
// every row, write the enriched output, optionally persist to Postgres.
type Pipeline struct {
	classifier *classifier.Classifier
	columns    dataset.Columns
	workers    int
	store      *store.Store
	logger     *slog.Logger
}

type Option func(*Pipeline)

// WithWorkers enables parallel classification. Purely a throughput knob:
// output is identical to the sequential run.
func WithWorkers(n int) Option {
	return func(p *Pipeline) { p.workers = n }
}

// WithStore enables persistence of enriched records.
func WithStore(s *store.Store) Option {
	return func(p *Pipeline) { p.store = s }
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

func WithColumns(cols dataset.Columns) Option {
	return func(p *Pipeline) { p.columns = cols }
}

func New(c *classifier.Classifier, opts ...Option) *Pipeline {
	p := &Pipeline{
		classifier: c,
		columns:    dataset.DefaultColumns(),
		workers:    1,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Summary describes one batch run.
type Summary struct {
	BatchID      uuid.UUID
	Records      int
	HighSeverity int
	Complex      int
	ByCategory   map[models.Category]int
	Duration     time.Duration
}

// Classify reads records from in, classifies them, and writes the enriched
// corpus to out. A single malformed row never aborts the batch; only
// unreadable input or unwritable output do.
func (p *Pipeline) Classify(ctx context.Context, in io.Reader, out io.Writer) (*Summary, error) {
	start := time.Now()

	records, err := dataset.ReadRecords(in, p.columns)
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}
	p.logger.Info("dataset loaded", "records", len(records))

	var results []models.ClassificationResult
	if p.workers > 1 {
		results = p.classifier.ClassifyBatchParallel(records, p.workers)
	} else {
		results = p.classifier.ClassifyBatch(records)
	}

	summary := &Summary{
		BatchID:    uuid.New(),
		Records:    len(records),
		ByCategory: make(map[models.Category]int),
	}
	enriched := make([]models.EnrichedRecord, len(records))
	for i, res := range results {
		enriched[i] = models.EnrichedRecord{Record: records[i], Result: res}
		if res.HighSeverityBreach {
			summary.HighSeverity++
		}
		if res.ComplexBreach {
			summary.Complex++
		}
		for _, cat := range res.TrueCategories() {
			summary.ByCategory[cat]++
		}
	}

	if err := dataset.WriteEnriched(out, p.columns, enriched); err != nil {
		return nil, fmt.Errorf("writing enriched output: %w", err)
	}

	if p.store != nil {
		if err := p.store.SaveEnriched(ctx, summary.BatchID, enriched); err != nil {
			return nil, fmt.Errorf("persisting enriched records: %w", err)
		}
		p.logger.Info("enriched records persisted", "batch_id", summary.BatchID)
	}

	summary.Duration = time.Since(start)
	p.logger.Info("classification complete",
		"records", summary.Records,
		"high_severity", summary.HighSeverity,
		"complex", summary.Complex,
		"duration", summary.Duration)

	return summary, nil
}

// Validate classifies the rows referenced by the manual-label file and scores
// the classifier against the human coding. Alignment is by row_id; a label
// row pointing at a row_id absent from the dataset is fatal.
func (p *Pipeline) Validate(ctx context.Context, in io.Reader, labelsIn io.Reader) (*validation.MetricsReport, error) {
	records, err := dataset.ReadRecords(in, p.columns)
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}

	labels, err := dataset.ReadManualLabels(labelsIn)
	if err != nil {
		return nil, fmt.Errorf("loading manual labels: %w", err)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("manual label file has no rows")
	}

	byRowID := make(map[int]models.BreachRecord, len(records))
	for _, rec := range records {
		byRowID[rec.RowID] = rec
	}

	predicted := make([]models.ClassificationResult, 0, len(labels))
	for _, ml := range labels {
		rec, ok := byRowID[ml.RowID]
		if !ok {
			return nil, fmt.Errorf("manual labels reference row_id %d not present in dataset", ml.RowID)
		}
		predicted = append(predicted, p.classifier.ClassifyRecord(rec))
	}

	report, err := validation.Score(predicted, labels)
	if err != nil {
		return nil, err
	}
	p.logger.Info("validation scored",
		"run_id", report.RunID,
		"sample", report.SampleSize,
		"weighted_f1", report.WeightedF1)

	if p.store != nil {
		if err := p.store.SaveValidationRun(ctx, report); err != nil {
			return nil, fmt.Errorf("persisting validation run: %w", err)
		}
	}

	return report, nil
}

// Sample classifies the corpus and writes a stratified manual-coding
// worksheet covering all severity quartiles.
func (p *Pipeline) Sample(in io.Reader, out io.Writer, size int, seed int64) (int, error) {
	records, err := dataset.ReadRecords(in, p.columns)
	if err != nil {
		return 0, fmt.Errorf("loading dataset: %w", err)
	}

	results := p.classifier.ClassifyBatch(records)
	indexes := validation.StratifiedSample(results, size, seed)

	if err := dataset.WriteCodingSheet(out, records, indexes); err != nil {
		return 0, fmt.Errorf("writing coding sheet: %w", err)
	}

	p.logger.Info("coding sheet written", "selected", len(indexes), "of", len(records), "seed", seed)
	return len(indexes), nil
}
