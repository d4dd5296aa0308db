package reports

import (
	"fmt"

	"github.com/ts2427/breachstudy/internal/models"
	"github.com/ts2427/breachstudy/internal/validation"
)

// ValidationReportPDF renders a MetricsReport for inclusion in the written
// study documentation. All numbers come straight from the report; nothing is
// recomputed here.
func ValidationReportPDF(report *validation.MetricsReport, bands validation.Bands) ([]byte, error) {
	pdf := NewPDFReport("Classifier Validation Report")

	pdf.AddParagraph(fmt.Sprintf(
		"Run %s. Keyword classifier output scored against %d manually coded breach records.",
		report.RunID, report.SampleSize))

	pdf.AddSection("Per-Category Metrics")
	headers := []string{"Category", "Precision", "Recall", "F1", "TP", "Actual", "Grade"}
	rows := make([][]string, 0, len(report.PerCategory))
	for _, m := range report.PerCategory {
		rows = append(rows, []string{
			string(m.Category),
			fmt.Sprintf("%.3f", m.Precision),
			fmt.Sprintf("%.3f", m.Recall),
			fmt.Sprintf("%.3f", m.F1),
			fmt.Sprintf("%d", m.TruePositives),
			fmt.Sprintf("%d", m.ActualPositives),
			bands.Grade(m.F1),
		})
	}
	pdf.AddTable(headers, rows)

	pdf.AddSection("Aggregate")
	pdf.AddParagraph(fmt.Sprintf(
		"Accuracy %.3f over all record-category pairs. Weighted precision %.3f, recall %.3f, F1 %.3f "+
			"(weighted by each category's count of true instances). Overall agreement with manual coding: %s.",
		report.Accuracy, report.WeightedPrecision, report.WeightedRecall, report.WeightedF1,
		bands.Grade(report.WeightedF1)))

	var weak []string
	for _, m := range report.PerCategory {
		if m.ActualPositives > 0 && m.F1 < bands.Good {
			weak = append(weak, string(m.Category))
		}
	}
	if len(weak) > 0 {
		pdf.AddSection("Categories Needing Keyword Review")
		for _, cat := range weak {
			m := report.Category(models.Category(cat))
			if m.Recall < m.Precision {
				pdf.AddParagraph(fmt.Sprintf("%s: low recall (%.3f) - add keywords.", cat, m.Recall))
			} else {
				pdf.AddParagraph(fmt.Sprintf("%s: low precision (%.3f) - narrow keywords.", cat, m.Precision))
			}
		}
	}

	return pdf.Output()
}

// ClassificationSummaryPDF renders corpus-level counts after a batch run.
func ClassificationSummaryPDF(total, highSeverity, complexCount int, byCategory map[models.Category]int) ([]byte, error) {
	pdf := NewPDFReport("Breach Classification Summary")

	pdf.AddParagraph(fmt.Sprintf(
		"%d breach records classified. %d flagged high severity, %d flagged complex (two or more breach types).",
		total, highSeverity, complexCount))

	pdf.AddSection("Records by Category")
	labels := make([]string, 0, len(byCategory))
	data := make(map[string]int, len(byCategory))
	for _, cat := range models.Categories() {
		labels = append(labels, string(cat))
		data[string(cat)] = byCategory[cat]
	}
	pdf.AddChart("", labels, data)

	return pdf.Output()
}
