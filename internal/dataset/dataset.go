package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/ts2427/breachstudy/internal/models"
)

// Columns names the source-table columns the engine interprets. Any column
// may be absent from the file; absent fields read as empty. Everything else
// passes through untouched.
type Columns struct {
	ID               string `yaml:"id"`
	IncidentDetails  string `yaml:"incident_details"`
	InformationTypes string `yaml:"information_types"`
	OrgName          string `yaml:"org_name"`
	OrgType          string `yaml:"org_type"`
	TotalAffected    string `yaml:"total_affected"`
}

// DefaultColumns matches the column names the upstream enrichment pipeline
// emits.
func DefaultColumns() Columns {
	return Columns{
		ID:               "id",
		IncidentDetails:  "incident_details",
		InformationTypes: "information_types",
		OrgName:          "org_name",
		OrgType:          "org_type",
		TotalAffected:    "total_affected",
	}
}

// ReadRecords reads the breach corpus from CSV. The first row is the header;
// row order is preserved and becomes each record's RowID.
func ReadRecords(r io.Reader, cols Columns) ([]models.BreachRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading dataset header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	known := map[string]bool{
		cols.ID: true, cols.IncidentDetails: true, cols.InformationTypes: true,
		cols.OrgName: true, cols.OrgType: true, cols.TotalAffected: true,
	}

	var records []models.BreachRecord
	for rowID := 0; ; rowID++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading dataset row %d: %w", rowID+2, err)
		}

		rec := models.BreachRecord{
			RowID:            rowID,
			ID:               field(row, cols.ID),
			IncidentDetails:  field(row, cols.IncidentDetails),
			InformationTypes: field(row, cols.InformationTypes),
			OrgName:          field(row, cols.OrgName),
			OrgType:          field(row, cols.OrgType),
			TotalAffected:    field(row, cols.TotalAffected),
		}
		for name, i := range index {
			if !known[name] && i < len(row) && row[i] != "" {
				if rec.Extra == nil {
					rec.Extra = make(map[string]string)
				}
				rec.Extra[name] = row[i]
			}
		}
		records = append(records, rec)
	}

	return records, nil
}

// enriched column order: interpreted source columns, passthrough columns,
// then the engineered columns consumed by the regression pipeline.
func enrichedHeader(cols Columns, extraCols []string) []string {
	header := []string{
		"row_id", cols.ID, cols.IncidentDetails, cols.InformationTypes,
		cols.OrgName, cols.OrgType, cols.TotalAffected,
	}
	header = append(header, extraCols...)
	for _, cat := range models.Categories() {
		header = append(header, string(cat))
	}
	return append(header,
		"severity_score",
		"records_severity",
		"records_affected_numeric",
		"combined_severity_score",
		"high_severity_breach",
		"num_breach_types",
		"complex_breach",
	)
}

// WriteEnriched writes the classified corpus: original fields plus one 0/1
// column per category and the numeric severity columns.
func WriteEnriched(w io.Writer, cols Columns, enriched []models.EnrichedRecord) error {
	extraSet := make(map[string]bool)
	for _, e := range enriched {
		for name := range e.Record.Extra {
			extraSet[name] = true
		}
	}
	extraCols := make([]string, 0, len(extraSet))
	for name := range extraSet {
		extraCols = append(extraCols, name)
	}
	sort.Strings(extraCols)

	cw := csv.NewWriter(w)
	if err := cw.Write(enrichedHeader(cols, extraCols)); err != nil {
		return fmt.Errorf("writing enriched header: %w", err)
	}

	for _, e := range enriched {
		rec, res := e.Record, e.Result
		row := []string{
			strconv.Itoa(rec.RowID), rec.ID, rec.IncidentDetails,
			rec.InformationTypes, rec.OrgName, rec.OrgType, rec.TotalAffected,
		}
		for _, name := range extraCols {
			row = append(row, rec.Extra[name])
		}
		for _, cat := range models.Categories() {
			row = append(row, boolCell(res.Flags[cat]))
		}
		row = append(row,
			strconv.Itoa(res.SeverityScore),
			strconv.Itoa(res.RecordsSeverity),
			strconv.FormatFloat(res.RecordsAffected, 'f', -1, 64),
			strconv.Itoa(res.CombinedSeverityScore),
			boolCell(res.HighSeverityBreach),
			strconv.Itoa(res.NumBreachTypes),
			boolCell(res.ComplexBreach),
		)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing enriched row %d: %w", rec.RowID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func boolCell(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// ReadManualLabels reads the human-coded ground truth: a row_id column plus
// one 0/1 column per category. Any other cell value is invalid input needing
// operator correction, never silent coercion.
func ReadManualLabels(r io.Reader) ([]models.ManualLabels, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading manual labels header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	rowIdx, ok := index["row_id"]
	if !ok {
		return nil, fmt.Errorf("manual labels: missing row_id column")
	}
	for _, cat := range models.Categories() {
		if _, ok := index[string(cat)]; !ok {
			return nil, fmt.Errorf("manual labels: missing category column %q", cat)
		}
	}

	var labels []models.ManualLabels
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading manual labels line %d: %w", line, err)
		}

		if rowIdx >= len(row) {
			return nil, fmt.Errorf("manual labels line %d: missing row_id", line)
		}
		rowID, err := strconv.Atoi(row[rowIdx])
		if err != nil {
			return nil, fmt.Errorf("manual labels line %d: bad row_id %q", line, row[rowIdx])
		}

		ml := models.ManualLabels{
			RowID:  rowID,
			Labels: make(map[models.Category]bool, 10),
		}
		if i, ok := index["id"]; ok && i < len(row) {
			ml.ID = row[i]
		}
		for _, cat := range models.Categories() {
			i := index[string(cat)]
			if i >= len(row) {
				return nil, fmt.Errorf("manual labels line %d: missing value for %q", line, cat)
			}
			switch row[i] {
			case "0":
				ml.Labels[cat] = false
			case "1":
				ml.Labels[cat] = true
			default:
				return nil, fmt.Errorf("manual labels line %d: column %q has %q, want 0 or 1", line, cat, row[i])
			}
		}
		labels = append(labels, ml)
	}

	return labels, nil
}

// WriteCodingSheet writes the worksheet handed to human coders: identifying
// fields plus blank category columns to fill with 0/1.
func WriteCodingSheet(w io.Writer, records []models.BreachRecord, indexes []int) error {
	cw := csv.NewWriter(w)

	header := []string{"row_id", "id", "incident_details", "information_types"}
	for _, cat := range models.Categories() {
		header = append(header, string(cat))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing coding sheet header: %w", err)
	}

	blanks := make([]string, len(models.Categories()))
	for _, i := range indexes {
		if i < 0 || i >= len(records) {
			return fmt.Errorf("coding sheet: index %d out of range", i)
		}
		rec := records[i]
		row := []string{strconv.Itoa(rec.RowID), rec.ID, rec.IncidentDetails, rec.InformationTypes}
		row = append(row, blanks...)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing coding sheet row %d: %w", rec.RowID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
