package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/lib/pq"
)

// StringArray is an alias for pq.StringArray to handle PostgreSQL arrays
type StringArray = pq.StringArray

// Category identifies one of the ten breach categories produced by the
// classifier. Values double as column names in the enriched output.
type Category string

const (
	CategoryPII         Category = "pii_breach"
	CategoryHealth      Category = "health_breach"
	CategoryFinancial   Category = "financial_breach"
	CategoryIP          Category = "ip_breach"
	CategoryRansomware  Category = "ransomware"
	CategoryNationState Category = "nation_state"
	CategoryInsider     Category = "insider_threat"
	CategoryDoS         Category = "denial_of_service"
	CategoryPhishing    Category = "phishing"
	CategoryMalware     Category = "malware"
)

// Categories returns the ten breach categories in canonical column order.
func Categories() []Category {
	return []Category{
		CategoryPII,
		CategoryHealth,
		CategoryFinancial,
		CategoryIP,
		CategoryRansomware,
		CategoryNationState,
		CategoryInsider,
		CategoryDoS,
		CategoryPhishing,
		CategoryMalware,
	}
}

// BreachRecord is one row of the enriched breach corpus. Every field except
// RowID is optional; absent fields are empty strings. The classifier never
// mutates a record.
type BreachRecord struct {
	RowID            int    `json:"row_id" db:"row_id"`
	ID               string `json:"id,omitempty" db:"external_id"`
	IncidentDetails  string `json:"incident_details,omitempty" db:"incident_details"`
	InformationTypes string `json:"information_types,omitempty" db:"information_types"`
	OrgName          string `json:"org_name,omitempty" db:"org_name"`
	OrgType          string `json:"org_type,omitempty" db:"org_type"`
	// TotalAffected carries the raw magnitude value as read from the source
	// table. It may be empty, non-numeric, or comma-grouped; coercion happens
	// in the classifier.
	TotalAffected string `json:"total_affected,omitempty" db:"total_affected"`
	// Extra holds passthrough columns not interpreted by the engine.
	Extra map[string]string `json:"extra,omitempty" db:"-"`
}

// ClassificationResult is the engineered feature set for one record. Every
// field is a deterministic function of the record and the taxonomy.
type ClassificationResult struct {
	RowID                 int               `json:"row_id"`
	Flags                 map[Category]bool `json:"flags"`
	SeverityScore         int               `json:"severity_score"`
	RecordsSeverity       int               `json:"records_severity"`
	RecordsAffected       float64           `json:"records_affected_numeric"`
	CombinedSeverityScore int               `json:"combined_severity_score"`
	HighSeverityBreach    bool              `json:"high_severity_breach"`
	NumBreachTypes        int               `json:"num_breach_types"`
	ComplexBreach         bool              `json:"complex_breach"`
}

// TrueCategories returns the flagged categories in canonical order.
func (r ClassificationResult) TrueCategories() []Category {
	var out []Category
	for _, cat := range Categories() {
		if r.Flags[cat] {
			out = append(out, cat)
		}
	}
	return out
}

// EnrichedRecord pairs a source record with its classification for export
// and persistence.
type EnrichedRecord struct {
	Record BreachRecord
	Result ClassificationResult
}

// ManualLabels is one human-coded row of the validation sample: a 0/1 label
// per category, aligned to a classified record by position.
type ManualLabels struct {
	RowID  int               `json:"row_id"`
	ID     string            `json:"id,omitempty"`
	Labels map[Category]bool `json:"labels"`
}

type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, j)
}
