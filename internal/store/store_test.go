package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ts2427/breachstudy/internal/models"
	"github.com/ts2427/breachstudy/internal/validation"
)

// getTestDSN returns the test database DSN from environment
func getTestDSN() string {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost port=5432 user=breachstudy password=breachstudy dbname=breachstudy_test sslmode=disable"
	}
	return dsn
}

// skipIfNoTestDB skips the test if no test database is available
func skipIfNoTestDB(t *testing.T) *Store {
	t.Helper()

	store, err := New(Config{
		DSN:          getTestDSN(),
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	})
	if err != nil {
		t.Skipf("Skipping test, database not available: %v", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := store.Ping(ctx); err != nil {
		t.Skipf("Skipping test, database not reachable: %v", err)
		return nil
	}

	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	return store
}

func TestStore_SaveEnriched(t *testing.T) {
	store := skipIfNoTestDB(t)
	if store == nil {
		return
	}
	defer store.Close()

	ctx := context.Background()

	flags := make(map[models.Category]bool)
	for _, cat := range models.Categories() {
		flags[cat] = false
	}
	flags[models.CategoryRansomware] = true
	flags[models.CategoryPII] = true

	batchID := uuid.New()
	enriched := []models.EnrichedRecord{{
		Record: models.BreachRecord{
			RowID:           0,
			ID:              "B-1",
			IncidentDetails: "Ransomware attack stole customer social security numbers",
		},
		Result: models.ClassificationResult{
			RowID:                 0,
			Flags:                 flags,
			SeverityScore:         6,
			CombinedSeverityScore: 6,
			NumBreachTypes:        2,
			ComplexBreach:         true,
		},
	}}

	if err := store.SaveEnriched(ctx, batchID, enriched); err != nil {
		t.Fatalf("SaveEnriched: %v", err)
	}
}

func TestStore_ValidationRuns(t *testing.T) {
	store := skipIfNoTestDB(t)
	if store == nil {
		return
	}
	defer store.Close()

	ctx := context.Background()

	report := &validation.MetricsReport{
		RunID:       uuid.New(),
		GeneratedAt: time.Now().UTC(),
		SampleSize:  50,
		PerCategory: []validation.CategoryMetrics{{
			Category:  models.CategoryPII,
			Precision: 0.9, Recall: 0.8, F1: 0.847,
			TruePositives: 9, ActualPositives: 11, PredictedPositives: 10,
			SampleSize: 50,
		}},
		Accuracy:          0.95,
		WeightedPrecision: 0.9,
		WeightedRecall:    0.8,
		WeightedF1:        0.847,
	}

	if err := store.SaveValidationRun(ctx, report); err != nil {
		t.Fatalf("SaveValidationRun: %v", err)
	}

	runs, err := store.ListValidationRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListValidationRuns: %v", err)
	}

	found := false
	for _, run := range runs {
		if run.ID == report.RunID {
			found = true
			if run.SampleSize != 50 {
				t.Errorf("sample size = %d, expected 50", run.SampleSize)
			}
		}
	}
	if !found {
		t.Error("saved run not returned by ListValidationRuns")
	}
}
