package validation

import (
	"math"
	"strings"
	"testing"

	"github.com/ts2427/breachstudy/internal/models"
)

func allFalse() map[models.Category]bool {
	flags := make(map[models.Category]bool, 10)
	for _, cat := range models.Categories() {
		flags[cat] = false
	}
	return flags
}

func makeRow(i int, pred, actual map[models.Category]bool) (models.ClassificationResult, models.ManualLabels) {
	return models.ClassificationResult{RowID: i, Flags: pred},
		models.ManualLabels{RowID: i, Labels: actual}
}

// buildConfusion builds a 20-row sample where pii_breach has exactly
// 10 TP, 2 FP, 3 FN and every other category agrees everywhere.
func buildConfusion() ([]models.ClassificationResult, []models.ManualLabels) {
	var predicted []models.ClassificationResult
	var truth []models.ManualLabels

	add := func(i int, pred, actual bool) {
		p, a := allFalse(), allFalse()
		p[models.CategoryPII] = pred
		a[models.CategoryPII] = actual
		pr, tr := makeRow(i, p, a)
		predicted = append(predicted, pr)
		truth = append(truth, tr)
	}

	i := 0
	for ; i < 10; i++ {
		add(i, true, true) // TP
	}
	for ; i < 12; i++ {
		add(i, true, false) // FP
	}
	for ; i < 15; i++ {
		add(i, false, true) // FN
	}
	for ; i < 20; i++ {
		add(i, false, false) // TN
	}

	return predicted, truth
}

func TestScore_ConfusionTable(t *testing.T) {
	predicted, truth := buildConfusion()

	report, err := Score(predicted, truth)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	m := report.Category(models.CategoryPII)
	if m == nil {
		t.Fatal("missing pii_breach metrics")
	}

	approx := func(got, want float64) bool { return math.Abs(got-want) < 1e-9 }

	if !approx(m.Precision, 10.0/12.0) {
		t.Errorf("precision = %v, expected %v", m.Precision, 10.0/12.0)
	}
	if !approx(m.Recall, 10.0/13.0) {
		t.Errorf("recall = %v, expected %v", m.Recall, 10.0/13.0)
	}
	if !approx(m.F1, 0.8) {
		t.Errorf("f1 = %v, expected 0.8", m.F1)
	}
	if m.TruePositives != 10 || m.ActualPositives != 13 || m.PredictedPositives != 12 {
		t.Errorf("counts = tp %d actual %d pred %d, expected 10/13/12",
			m.TruePositives, m.ActualPositives, m.PredictedPositives)
	}

	// 5 disagreements in 200 record-category pairs
	if !approx(report.Accuracy, 195.0/200.0) {
		t.Errorf("accuracy = %v, expected %v", report.Accuracy, 195.0/200.0)
	}
}

func TestScore_ZeroSupportCategoriesHaveZeroWeight(t *testing.T) {
	predicted, truth := buildConfusion()

	report, err := Score(predicted, truth)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	// pii_breach is the only category with true instances, so the weighted
	// aggregates must equal its metrics exactly, with no NaN from the
	// zero-support categories.
	m := report.Category(models.CategoryPII)
	if report.WeightedF1 != m.F1 || report.WeightedPrecision != m.Precision || report.WeightedRecall != m.Recall {
		t.Errorf("weighted aggregates %v/%v/%v, expected %v/%v/%v",
			report.WeightedPrecision, report.WeightedRecall, report.WeightedF1,
			m.Precision, m.Recall, m.F1)
	}
	for _, v := range []float64{report.WeightedPrecision, report.WeightedRecall, report.WeightedF1, report.Accuracy} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("aggregate metric is not finite: %v", v)
		}
	}
}

func TestScore_PerfectAgreement(t *testing.T) {
	p, a := allFalse(), allFalse()
	p[models.CategoryRansomware] = true
	a[models.CategoryRansomware] = true
	pr, tr := makeRow(0, p, a)

	report, err := Score([]models.ClassificationResult{pr}, []models.ManualLabels{tr})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if report.Accuracy != 1.0 || report.WeightedF1 != 1.0 {
		t.Errorf("accuracy %v, weighted f1 %v, expected 1.0 for perfect agreement",
			report.Accuracy, report.WeightedF1)
	}
}

func TestScore_LengthMismatchFatal(t *testing.T) {
	predicted, truth := buildConfusion()

	_, err := Score(predicted[:10], truth)
	if err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
	if !strings.Contains(err.Error(), "10") || !strings.Contains(err.Error(), "20") {
		t.Errorf("error %q does not name both lengths", err)
	}
}

func TestScore_MissingCategoryFatal(t *testing.T) {
	predicted, truth := buildConfusion()
	delete(truth[3].Labels, models.CategoryMalware)

	_, err := Score(predicted, truth)
	if err == nil {
		t.Fatal("expected error for missing category")
	}
	if !strings.Contains(err.Error(), string(models.CategoryMalware)) {
		t.Errorf("error %q does not name the missing category", err)
	}
}

func TestScore_EmptySampleFatal(t *testing.T) {
	if _, err := Score(nil, nil); err == nil {
		t.Fatal("expected error for empty sample")
	}
}
