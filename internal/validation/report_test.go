package validation

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/ts2427/breachstudy/internal/models"
)

func TestBands_Grade(t *testing.T) {
	bands := DefaultBands()

	tests := []struct {
		f1       float64
		expected string
	}{
		{0.90, "excellent"},
		{0.85, "excellent"},
		{0.84, "good"},
		{0.75, "good"},
		{0.74, "needs improvement"},
		{0.0, "needs improvement"},
	}

	for _, tt := range tests {
		if got := bands.Grade(tt.f1); got != tt.expected {
			t.Errorf("Grade(%v) = %q, expected %q", tt.f1, got, tt.expected)
		}
	}
}

func sampleReport() *MetricsReport {
	report := &MetricsReport{
		RunID:      uuid.New(),
		SampleSize: 50,
	}
	for _, cat := range models.Categories() {
		m := CategoryMetrics{
			Category:        cat,
			Precision:       0.9,
			Recall:          0.9,
			F1:              0.9,
			ActualPositives: 5,
			SampleSize:      50,
		}
		report.PerCategory = append(report.PerCategory, m)
	}
	report.Accuracy = 0.95
	report.WeightedPrecision = 0.9
	report.WeightedRecall = 0.9
	report.WeightedF1 = 0.9
	return report
}

func TestRenderText_FlagsWeakCategories(t *testing.T) {
	report := sampleReport()

	// phishing: weak recall, decent precision
	m := report.Category(models.CategoryPhishing)
	m.Precision = 0.9
	m.Recall = 0.4
	m.F1 = 0.55

	// malware: weak precision
	m = report.Category(models.CategoryMalware)
	m.Precision = 0.5
	m.Recall = 0.9
	m.F1 = 0.64

	out := RenderText(report, DefaultBands())

	if !strings.Contains(out, "phishing") || !strings.Contains(out, "add keywords") {
		t.Error("expected low-recall diagnostic for phishing")
	}
	if !strings.Contains(out, "malware") || !strings.Contains(out, "narrow keywords") {
		t.Error("expected low-precision diagnostic for malware")
	}
	if !strings.Contains(out, "needs improvement") {
		t.Error("expected needs-improvement grade in table")
	}
}

func TestRenderText_SkipsZeroSupportCategories(t *testing.T) {
	report := sampleReport()

	// zero-support category with zero scores must not be flagged weak
	m := report.Category(models.CategoryDoS)
	m.Precision, m.Recall, m.F1 = 0, 0, 0
	m.ActualPositives = 0

	out := RenderText(report, DefaultBands())

	if strings.Contains(out, "below the") && strings.Contains(out, string(models.CategoryDoS)+": F1") {
		t.Error("zero-support category must not appear in the weak list")
	}
}

func TestRenderText_ContainsAggregates(t *testing.T) {
	out := RenderText(sampleReport(), DefaultBands())

	for _, want := range []string{"weighted aggregate", "accuracy", "50 manually coded records"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}
