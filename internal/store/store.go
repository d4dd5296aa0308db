package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/ts2427/breachstudy/internal/models"
	"github.com/ts2427/breachstudy/internal/validation"
)

type Store struct {
	db *sqlx.DB
}

type Config struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

func New(cfg Config) (*Store, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const schema = `
CREATE TABLE IF NOT EXISTS enriched_records (
	id                       UUID PRIMARY KEY,
	batch_id                 UUID NOT NULL,
	row_id                   INTEGER NOT NULL,
	external_id              TEXT,
	incident_details         TEXT,
	information_types        TEXT,
	org_name                 TEXT,
	org_type                 TEXT,
	total_affected           TEXT,
	categories               TEXT[],
	severity_score           INTEGER NOT NULL,
	records_severity         INTEGER NOT NULL,
	records_affected_numeric DOUBLE PRECISION NOT NULL,
	combined_severity_score  INTEGER NOT NULL,
	high_severity_breach     BOOLEAN NOT NULL,
	num_breach_types         INTEGER NOT NULL,
	complex_breach           BOOLEAN NOT NULL,
	created_at               TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS validation_runs (
	id                 UUID PRIMARY KEY,
	sample_size        INTEGER NOT NULL,
	accuracy           DOUBLE PRECISION NOT NULL,
	weighted_precision DOUBLE PRECISION NOT NULL,
	weighted_recall    DOUBLE PRECISION NOT NULL,
	weighted_f1        DOUBLE PRECISION NOT NULL,
	metrics            JSONB,
	created_at         TIMESTAMPTZ NOT NULL
);
`

// EnsureSchema creates the tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}

// SaveEnriched persists one classification batch under a shared batch ID.
func (s *Store) SaveEnriched(ctx context.Context, batchID uuid.UUID, enriched []models.EnrichedRecord) error {
	query := `
		INSERT INTO enriched_records (
			id, batch_id, row_id, external_id, incident_details, information_types,
			org_name, org_type, total_affected, categories,
			severity_score, records_severity, records_affected_numeric,
			combined_severity_score, high_severity_breach, num_breach_types,
			complex_breach, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for _, e := range enriched {
		cats := make(models.StringArray, 0, 4)
		for _, cat := range e.Result.TrueCategories() {
			cats = append(cats, string(cat))
		}

		_, err := tx.ExecContext(ctx, query,
			uuid.New(),
			batchID,
			e.Record.RowID,
			e.Record.ID,
			e.Record.IncidentDetails,
			e.Record.InformationTypes,
			e.Record.OrgName,
			e.Record.OrgType,
			e.Record.TotalAffected,
			cats,
			e.Result.SeverityScore,
			e.Result.RecordsSeverity,
			e.Result.RecordsAffected,
			e.Result.CombinedSeverityScore,
			e.Result.HighSeverityBreach,
			e.Result.NumBreachTypes,
			e.Result.ComplexBreach,
			now,
		)
		if err != nil {
			return fmt.Errorf("inserting enriched row %d: %w", e.Record.RowID, err)
		}
	}

	return tx.Commit()
}

type ValidationRun struct {
	ID                uuid.UUID    `db:"id"`
	SampleSize        int          `db:"sample_size"`
	Accuracy          float64      `db:"accuracy"`
	WeightedPrecision float64      `db:"weighted_precision"`
	WeightedRecall    float64      `db:"weighted_recall"`
	WeightedF1        float64      `db:"weighted_f1"`
	Metrics           models.JSONB `db:"metrics"`
	CreatedAt         time.Time    `db:"created_at"`
}

// SaveValidationRun persists a metrics report, with the full per-category
// breakdown as JSONB.
func (s *Store) SaveValidationRun(ctx context.Context, report *validation.MetricsReport) error {
	perCategory := make(models.JSONB, len(report.PerCategory))
	for _, m := range report.PerCategory {
		perCategory[string(m.Category)] = map[string]interface{}{
			"precision":           m.Precision,
			"recall":              m.Recall,
			"f1":                  m.F1,
			"true_positives":      m.TruePositives,
			"actual_positives":    m.ActualPositives,
			"predicted_positives": m.PredictedPositives,
		}
	}

	query := `
		INSERT INTO validation_runs (
			id, sample_size, accuracy, weighted_precision, weighted_recall,
			weighted_f1, metrics, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		report.RunID,
		report.SampleSize,
		report.Accuracy,
		report.WeightedPrecision,
		report.WeightedRecall,
		report.WeightedF1,
		perCategory,
		report.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting validation run: %w", err)
	}
	return nil
}

// ListValidationRuns returns recent runs, newest first.
func (s *Store) ListValidationRuns(ctx context.Context, limit int) ([]ValidationRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []ValidationRun
	query := `SELECT * FROM validation_runs ORDER BY created_at DESC LIMIT $1`
	if err := s.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, fmt.Errorf("listing validation runs: %w", err)
	}
	return runs, nil
}
