package taxonomy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ts2427/breachstudy/internal/models"
)

func TestDefault(t *testing.T) {
	tax := Default()

	for _, cat := range models.Categories() {
		if len(tax.Keywords(cat)) == 0 {
			t.Errorf("category %s has no keywords", cat)
		}
		w := tax.Weight(cat)
		if w < 1 || w > 4 {
			t.Errorf("category %s has weight %d outside [1,4]", cat, w)
		}
	}

	if tax.Weight(models.CategoryHealth) != 4 {
		t.Errorf("health weight = %d, expected 4", tax.Weight(models.CategoryHealth))
	}
	if tax.Weight(models.CategoryDoS) != 1 {
		t.Errorf("denial_of_service weight = %d, expected 1", tax.Weight(models.CategoryDoS))
	}
}

func TestDefault_IntentionalOverlap(t *testing.T) {
	tax := Default()

	// "credit card" appears under both PII and financial on purpose: a
	// breach can legitimately be both.
	for _, cat := range []models.Category{models.CategoryPII, models.CategoryFinancial} {
		found := false
		for _, kw := range tax.Keywords(cat) {
			if kw == "credit card" {
				found = true
			}
		}
		if !found {
			t.Errorf("expected %q under %s", "credit card", cat)
		}
	}
}

func TestKeywords_ReturnsCopy(t *testing.T) {
	tax := Default()

	kws := tax.Keywords(models.CategoryMalware)
	kws[0] = "mutated"

	if tax.Keywords(models.CategoryMalware)[0] == "mutated" {
		t.Error("mutating the returned slice must not affect the taxonomy")
	}
}

func validKeywords() map[models.Category][]string {
	keywords := make(map[models.Category][]string)
	for _, cat := range models.Categories() {
		keywords[cat] = []string{"keyword for " + string(cat)}
	}
	return keywords
}

func validWeights() map[models.Category]int {
	weights := make(map[models.Category]int)
	for _, cat := range models.Categories() {
		weights[cat] = 2
	}
	return weights
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(map[models.Category][]string, map[models.Category]int)
		wantErr string
	}{
		{
			"missing category",
			func(k map[models.Category][]string, w map[models.Category]int) {
				delete(k, models.CategoryPhishing)
			},
			"no keywords",
		},
		{
			"empty keyword list",
			func(k map[models.Category][]string, w map[models.Category]int) {
				k[models.CategoryDoS] = nil
			},
			"no keywords",
		},
		{
			"blank keyword",
			func(k map[models.Category][]string, w map[models.Category]int) {
				k[models.CategoryMalware] = []string{"  "}
			},
			"empty keyword",
		},
		{
			"zero weight",
			func(k map[models.Category][]string, w map[models.Category]int) {
				w[models.CategoryPII] = 0
			},
			"non-positive weight",
		},
		{
			"unknown category",
			func(k map[models.Category][]string, w map[models.Category]int) {
				k["made_up"] = []string{"x"}
			},
			"unknown category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keywords, weights := validKeywords(), validWeights()
			tt.mutate(keywords, weights)
			_, err := New(keywords, weights)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateKeywordConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     map[string]interface{}
		wantErr bool
	}{
		{
			"valid",
			map[string]interface{}{"pii_breach": []interface{}{"ssn", "social security"}},
			false,
		},
		{
			"nil config",
			nil,
			true,
		},
		{
			"non-list value",
			map[string]interface{}{"pii_breach": "ssn"},
			true,
		},
		{
			"non-string entry",
			map[string]interface{}{"pii_breach": []interface{}{"ssn", 42}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKeywordConfig(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKeywordConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func writeTaxonomyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	content := `keywords:
  pii_breach: ["social security", "ssn"]
  health_breach: ["medical"]
  financial_breach: ["credit card"]
  ip_breach: ["trade secret"]
  ransomware: ["ransomware"]
  nation_state: ["espionage"]
  insider_threat: ["insider"]
  denial_of_service: ["ddos"]
  phishing: ["phishing"]
  malware: ["malware"]
weights:
  health_breach: 4
  denial_of_service: 1
`
	tax, err := LoadFile(writeTaxonomyFile(t, content))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if got := tax.Keywords(models.CategoryPII); len(got) != 2 {
		t.Errorf("pii keywords = %v, expected 2 entries", got)
	}
	if tax.Weight(models.CategoryHealth) != 4 {
		t.Errorf("health weight = %d, expected 4", tax.Weight(models.CategoryHealth))
	}
	// weight absent from the file falls back to the default
	if tax.Weight(models.CategoryRansomware) != Default().Weight(models.CategoryRansomware) {
		t.Error("expected default weight for ransomware")
	}
}

func TestLoadFile_RejectsMalformedShape(t *testing.T) {
	content := `keywords:
  pii_breach: "not a list"
`
	if _, err := LoadFile(writeTaxonomyFile(t, content)); err == nil {
		t.Fatal("expected error for non-list keyword value")
	}
}

func TestLoadFile_RejectsIncompleteTaxonomy(t *testing.T) {
	content := `keywords:
  pii_breach: ["ssn"]
`
	if _, err := LoadFile(writeTaxonomyFile(t, content)); err == nil {
		t.Fatal("expected error when categories are missing")
	}
}
