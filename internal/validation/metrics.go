package validation

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ts2427/breachstudy/internal/models"
)

// CategoryMetrics holds the confusion-derived scores for one category.
type CategoryMetrics struct {
	Category           models.Category `json:"category"`
	Precision          float64         `json:"precision"`
	Recall             float64         `json:"recall"`
	F1                 float64         `json:"f1"`
	TruePositives      int             `json:"true_positives"`
	ActualPositives    int             `json:"actual_positives"`
	PredictedPositives int             `json:"predicted_positives"`
	SampleSize         int             `json:"sample_size"`
}

// MetricsReport quantifies classifier agreement with the human-coded sample.
// It is produced fresh on each validation run and has no identity beyond it.
type MetricsReport struct {
	RunID       uuid.UUID         `json:"run_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	SampleSize  int               `json:"sample_size"`
	PerCategory []CategoryMetrics `json:"per_category"`

	Accuracy          float64 `json:"accuracy"`
	WeightedPrecision float64 `json:"weighted_precision"`
	WeightedRecall    float64 `json:"weighted_recall"`
	WeightedF1        float64 `json:"weighted_f1"`
}

// Category returns the metrics row for cat, or nil if absent.
func (r *MetricsReport) Category(cat models.Category) *CategoryMetrics {
	for i := range r.PerCategory {
		if r.PerCategory[i].Category == cat {
			return &r.PerCategory[i]
		}
	}
	return nil
}

// Score compares classifier output against manual labels for the same,
// aligned sample. Structural problems (length mismatch, a category missing
// from either side) are fatal. Precision and recall are defined as 0 when
// their denominator is 0 so the report stays numerically complete; aggregates
// weight each category by its support (count of true instances, TP+FN), which
// gives zero weight to categories absent from the sample.
func Score(predicted []models.ClassificationResult, truth []models.ManualLabels) (*MetricsReport, error) {
	if len(predicted) != len(truth) {
		return nil, fmt.Errorf("validation: %d predicted rows but %d manual rows", len(predicted), len(truth))
	}
	if len(predicted) == 0 {
		return nil, fmt.Errorf("validation: empty sample")
	}

	cats := models.Categories()
	for i := range predicted {
		for _, cat := range cats {
			if _, ok := predicted[i].Flags[cat]; !ok {
				return nil, fmt.Errorf("validation: predicted row %d missing category %q", i, cat)
			}
			if _, ok := truth[i].Labels[cat]; !ok {
				return nil, fmt.Errorf("validation: manual row %d missing category %q", i, cat)
			}
		}
	}

	n := len(predicted)
	report := &MetricsReport{
		RunID:       uuid.New(),
		GeneratedAt: time.Now().UTC(),
		SampleSize:  n,
		PerCategory: make([]CategoryMetrics, 0, len(cats)),
	}

	correct := 0
	totalWeight := 0.0
	for _, cat := range cats {
		var tp, fp, fn int
		for i := range predicted {
			pred := predicted[i].Flags[cat]
			actual := truth[i].Labels[cat]
			switch {
			case pred && actual:
				tp++
			case pred && !actual:
				fp++
			case !pred && actual:
				fn++
			}
			if pred == actual {
				correct++
			}
		}

		m := CategoryMetrics{
			Category:           cat,
			TruePositives:      tp,
			ActualPositives:    tp + fn,
			PredictedPositives: tp + fp,
			SampleSize:         n,
		}
		if tp+fp > 0 {
			m.Precision = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			m.Recall = float64(tp) / float64(tp+fn)
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		report.PerCategory = append(report.PerCategory, m)

		weight := float64(m.ActualPositives)
		report.WeightedPrecision += weight * m.Precision
		report.WeightedRecall += weight * m.Recall
		report.WeightedF1 += weight * m.F1
		totalWeight += weight
	}

	report.Accuracy = float64(correct) / float64(n*len(cats))
	if totalWeight > 0 {
		report.WeightedPrecision /= totalWeight
		report.WeightedRecall /= totalWeight
		report.WeightedF1 /= totalWeight
	}

	return report, nil
}
