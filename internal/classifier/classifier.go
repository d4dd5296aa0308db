package classifier

import (
	"math"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/ts2427/breachstudy/internal/models"
	"github.com/ts2427/breachstudy/internal/taxonomy"
)

// DefaultHighSeverityThreshold is the combined-severity cutoff above which a
// breach is flagged high severity. The value flags roughly the upper quartile
// of observed combined scores; it is an editorial constant, not a derived
// statistic. Changing it changes study conclusions.
const DefaultHighSeverityThreshold = 7

// ComplexBreachMinTypes is the number of simultaneous category flags at which
// a breach counts as complex.
const ComplexBreachMinTypes = 2

// Classifier converts incident narratives into category flags and severity
// scores. It holds no mutable state; all methods are safe for concurrent use.
type Classifier struct {
	tax       *taxonomy.Taxonomy
	threshold int

	// keywords normalized once, the same way classify input is normalized
	keywords map[models.Category][]string
}

// New creates a Classifier over the given taxonomy with the default
// high-severity threshold.
func New(tax *taxonomy.Taxonomy) *Classifier {
	return NewWithThreshold(tax, DefaultHighSeverityThreshold)
}

// NewWithThreshold creates a Classifier with an explicit high-severity cutoff.
func NewWithThreshold(tax *taxonomy.Taxonomy, threshold int) *Classifier {
	c := &Classifier{
		tax:       tax,
		threshold: threshold,
		keywords:  make(map[models.Category][]string),
	}
	for _, cat := range models.Categories() {
		for _, kw := range tax.Keywords(cat) {
			if norm := normalize(kw); norm != "" {
				c.keywords[cat] = append(c.keywords[cat], norm)
			}
		}
	}
	return c
}

// HighSeverityThreshold returns the active combined-severity cutoff.
func (c *Classifier) HighSeverityThreshold() int {
	return c.threshold
}

// normalize lowercases text and collapses punctuation and whitespace runs to
// single spaces, so "Denial-of-Service" matches the keyword "denial of
// service". No stemming, no tokenization: the matcher is a reproducible
// heuristic, not a statistical model.
func normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	lastSpace := true
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
			lastSpace = false
		} else if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// ClassifyText flags every category whose keyword list has at least one
// phrase occurring in the text. Matching is case-insensitive and tolerant of
// punctuation. Empty or missing text yields all-false flags. Categories are
// independent: several may be true at once.
func (c *Classifier) ClassifyText(text string) map[models.Category]bool {
	flags := make(map[models.Category]bool, len(c.keywords))
	norm := normalize(text)
	for _, cat := range models.Categories() {
		flags[cat] = false
		if norm == "" {
			continue
		}
		for _, kw := range c.keywords[cat] {
			if strings.Contains(norm, kw) {
				flags[cat] = true
				break
			}
		}
	}
	return flags
}

// CoerceAffected converts the raw records-affected value to a number.
// Grouping commas and surrounding whitespace are tolerated; empty or
// non-numeric input coerces to zero rather than erroring, since breach
// records have heterogeneous completeness. ParseFloat accepts "nan" and
// "inf", which upstream tooling emits as missing-value markers, so
// non-finite parses coerce to zero too.
func CoerceAffected(raw string) float64 {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// RecordsSeverity maps an affected-record count onto a 0-5 ordinal tier.
// The tiers are an order-of-magnitude discretization: breach impact scales
// non-linearly with record count, and capping at tier 5 bounds the influence
// of extreme outliers on any downstream model.
func RecordsSeverity(count float64) int {
	switch {
	case count < 1:
		return 0
	case count < 1_000:
		return 1
	case count < 10_000:
		return 2
	case count < 100_000:
		return 3
	case count < 1_000_000:
		return 4
	default:
		return 5
	}
}

// ClassifyRecord produces the full feature set for one record. Missing or
// malformed fields degrade to the zero/false result; classification of a
// heterogeneous corpus must never abort on a single bad row.
func (c *Classifier) ClassifyRecord(rec models.BreachRecord) models.ClassificationResult {
	var parts []string
	for _, f := range []string{rec.IncidentDetails, rec.InformationTypes, rec.OrgName, rec.OrgType} {
		if f != "" {
			parts = append(parts, f)
		}
	}

	flags := c.ClassifyText(strings.Join(parts, " "))

	severity := 0
	numTypes := 0
	for cat, on := range flags {
		if on {
			severity += c.tax.Weight(cat)
			numTypes++
		}
	}

	affected := CoerceAffected(rec.TotalAffected)
	recSeverity := RecordsSeverity(affected)
	combined := severity + recSeverity

	return models.ClassificationResult{
		RowID:                 rec.RowID,
		Flags:                 flags,
		SeverityScore:         severity,
		RecordsSeverity:       recSeverity,
		RecordsAffected:       affected,
		CombinedSeverityScore: combined,
		HighSeverityBreach:    combined >= c.threshold,
		NumBreachTypes:        numTypes,
		ComplexBreach:         numTypes >= ComplexBreachMinTypes,
	}
}

// ClassifyBatch classifies records independently, preserving input order.
func (c *Classifier) ClassifyBatch(records []models.BreachRecord) []models.ClassificationResult {
	results := make([]models.ClassificationResult, len(records))
	for i, rec := range records {
		results[i] = c.ClassifyRecord(rec)
	}
	return results
}

// ClassifyBatchParallel fans records out across workers. Records share no
// state, so the output is identical to ClassifyBatch; each result lands at
// its source index.
func (c *Classifier) ClassifyBatchParallel(records []models.BreachRecord, workers int) []models.ClassificationResult {
	if workers <= 1 || len(records) < 2 {
		return c.ClassifyBatch(records)
	}
	if workers > len(records) {
		workers = len(records)
	}

	results := make([]models.ClassificationResult, len(records))
	indexes := make(chan int, len(records))
	for i := range records {
		indexes <- i
	}
	close(indexes)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = c.ClassifyRecord(records[i])
			}
		}()
	}
	wg.Wait()

	return results
}
