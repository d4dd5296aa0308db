package taxonomy

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ts2427/breachstudy/internal/models"
)

// Taxonomy maps each breach category to its keyword phrases and sensitivity
// weight. It is immutable after construction; substitute a whole new Taxonomy
// to change keyword lists, never mutate one in place.
type Taxonomy struct {
	keywords map[models.Category][]string
	weights  map[models.Category]int
}

// New builds a Taxonomy from keyword lists and weights. All ten categories
// must be present with at least one keyword and a positive weight. Keywords
// are lowercased; input maps are copied.
func New(keywords map[models.Category][]string, weights map[models.Category]int) (*Taxonomy, error) {
	t := &Taxonomy{
		keywords: make(map[models.Category][]string, len(keywords)),
		weights:  make(map[models.Category]int, len(weights)),
	}

	for _, cat := range models.Categories() {
		kws, ok := keywords[cat]
		if !ok || len(kws) == 0 {
			return nil, fmt.Errorf("taxonomy: category %q has no keywords", cat)
		}
		cleaned := make([]string, 0, len(kws))
		for _, kw := range kws {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				return nil, fmt.Errorf("taxonomy: category %q has an empty keyword", cat)
			}
			cleaned = append(cleaned, kw)
		}
		t.keywords[cat] = cleaned

		w, ok := weights[cat]
		if !ok {
			return nil, fmt.Errorf("taxonomy: category %q has no weight", cat)
		}
		if w < 1 {
			return nil, fmt.Errorf("taxonomy: category %q has non-positive weight %d", cat, w)
		}
		t.weights[cat] = w
	}

	for cat := range keywords {
		if _, ok := t.keywords[cat]; !ok {
			return nil, fmt.Errorf("taxonomy: unknown category %q", cat)
		}
	}
	for cat := range weights {
		if _, ok := t.weights[cat]; !ok {
			return nil, fmt.Errorf("taxonomy: unknown category %q in weights", cat)
		}
	}

	return t, nil
}

// Keywords returns a copy of the keyword list for cat.
func (t *Taxonomy) Keywords(cat models.Category) []string {
	kws := t.keywords[cat]
	out := make([]string, len(kws))
	copy(out, kws)
	return out
}

// Weight returns the sensitivity weight for cat, or 0 for unknown categories.
func (t *Taxonomy) Weight(cat models.Category) int {
	return t.weights[cat]
}

// ValidateKeywordConfig checks the shape of a raw keyword configuration
// before it is adopted: every value must be a list, and every list entry a
// string. Malformed configuration is a fatal operator error, never a silent
// degradation of classification quality.
func ValidateKeywordConfig(cfg map[string]interface{}) error {
	if cfg == nil {
		return fmt.Errorf("keyword config: no categories defined")
	}
	for name, value := range cfg {
		list, ok := value.([]interface{})
		if !ok {
			return fmt.Errorf("keyword config: category %q: keywords must be a list, got %T", name, value)
		}
		for i, entry := range list {
			if _, ok := entry.(string); !ok {
				return fmt.Errorf("keyword config: category %q: keyword %d is %T, not a string", name, i, entry)
			}
		}
	}
	return nil
}

type fileFormat struct {
	Keywords map[string]interface{} `yaml:"keywords"`
	Weights  map[string]int         `yaml:"weights"`
}

// LoadFile reads a taxonomy from a yaml file. Categories absent from the
// weights section fall back to the default weight. Environment variables in
// the file are expanded.
func LoadFile(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading taxonomy file: %w", err)
	}

	data = []byte(os.ExpandEnv(string(data)))

	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing taxonomy file: %w", err)
	}

	if err := ValidateKeywordConfig(f.Keywords); err != nil {
		return nil, err
	}

	def := Default()
	keywords := make(map[models.Category][]string, len(f.Keywords))
	weights := make(map[models.Category]int)

	for name, value := range f.Keywords {
		cat := models.Category(name)
		list := value.([]interface{})
		kws := make([]string, 0, len(list))
		for _, entry := range list {
			kws = append(kws, entry.(string))
		}
		keywords[cat] = kws
	}

	for _, cat := range models.Categories() {
		if w, ok := f.Weights[string(cat)]; ok {
			weights[cat] = w
		} else {
			weights[cat] = def.Weight(cat)
		}
	}

	return New(keywords, weights)
}
