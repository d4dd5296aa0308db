package validation

import (
	"fmt"
	"strings"
)

// Bands are the F1 cutoffs for the narrative quality labels in the rendered
// report. The defaults are an editorial choice, documented and overridable,
// not a statistical derivation.
type Bands struct {
	Excellent float64 `yaml:"excellent_f1"`
	Good      float64 `yaml:"good_f1"`
}

// DefaultBands returns the study's published quality cutoffs.
func DefaultBands() Bands {
	return Bands{Excellent: 0.85, Good: 0.75}
}

// Grade returns the narrative label for an F1 score.
func (b Bands) Grade(f1 float64) string {
	switch {
	case f1 >= b.Excellent:
		return "excellent"
	case f1 >= b.Good:
		return "good"
	default:
		return "needs improvement"
	}
}

// RenderText renders the report as a plain-text table with interpretation
// bands and per-category diagnostics. Purely presentational: every number
// comes from the MetricsReport as computed by Score.
func RenderText(report *MetricsReport, bands Bands) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Classifier Validation Report\n")
	fmt.Fprintf(&b, "Run %s, generated %s\n", report.RunID, report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "Sample: %d manually coded records\n\n", report.SampleSize)

	fmt.Fprintf(&b, "%-20s %9s %9s %9s %6s %6s %6s  %s\n",
		"category", "precision", "recall", "f1", "tp", "actual", "pred", "grade")
	fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 88))
	for _, m := range report.PerCategory {
		fmt.Fprintf(&b, "%-20s %9.3f %9.3f %9.3f %6d %6d %6d  %s\n",
			m.Category, m.Precision, m.Recall, m.F1,
			m.TruePositives, m.ActualPositives, m.PredictedPositives,
			bands.Grade(m.F1))
	}

	fmt.Fprintf(&b, "\n%-20s %9.3f %9.3f %9.3f\n", "weighted aggregate",
		report.WeightedPrecision, report.WeightedRecall, report.WeightedF1)
	fmt.Fprintf(&b, "%-20s %9.3f\n", "accuracy", report.Accuracy)
	fmt.Fprintf(&b, "\nOverall agreement with manual coding: %s (weighted F1 %.3f)\n",
		bands.Grade(report.WeightedF1), report.WeightedF1)

	var flagged []string
	for _, m := range report.PerCategory {
		if m.ActualPositives == 0 {
			continue // no ground truth to judge against
		}
		if m.F1 >= bands.Good {
			continue
		}
		diag := describeWeakness(m)
		flagged = append(flagged, fmt.Sprintf("  - %s: F1 %.3f; %s", m.Category, m.F1, diag))
	}
	if len(flagged) > 0 {
		fmt.Fprintf(&b, "\nCategories below the %.2f quality threshold:\n", bands.Good)
		b.WriteString(strings.Join(flagged, "\n"))
		b.WriteString("\n")
	}

	return b.String()
}

func describeWeakness(m CategoryMetrics) string {
	switch {
	case m.Recall < m.Precision:
		return fmt.Sprintf("low recall (%.3f) - add keywords to catch missed incidents", m.Recall)
	case m.Precision < m.Recall:
		return fmt.Sprintf("low precision (%.3f) - narrow keywords to cut false positives", m.Precision)
	default:
		return "both precision and recall weak - revisit the keyword list"
	}
}
