package validation

import (
	"math/rand"
	"sort"

	"github.com/ts2427/breachstudy/internal/models"
)

// StratifiedSample picks record indexes for manual coding, stratified across
// combined-severity quartiles so both trivially easy and hard cases reach the
// human coders. The validation harness assumes its input sample is NOT
// uniform random; Score must therefore never re-weight by anything beyond
// category-level true counts.
//
// The seed is explicit so a published sample can be regenerated exactly.
// Returned indexes are ascending. If size >= len(results), every index is
// returned.
func StratifiedSample(results []models.ClassificationResult, size int, seed int64) []int {
	n := len(results)
	if n == 0 || size <= 0 {
		return nil
	}
	if size >= n {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return results[order[a]].CombinedSeverityScore < results[order[b]].CombinedSeverityScore
	})

	rng := rand.New(rand.NewSource(seed))

	// Split the severity-ordered indexes into four quartile strata and draw
	// an equal share from each; remainder spills into the hardest strata.
	const strata = 4
	var picked []int
	for s := 0; s < strata; s++ {
		lo := s * n / strata
		hi := (s + 1) * n / strata
		bucket := append([]int(nil), order[lo:hi]...)

		want := size / strata
		if s >= strata-size%strata {
			want++
		}
		if want > len(bucket) {
			want = len(bucket)
		}

		rng.Shuffle(len(bucket), func(i, j int) {
			bucket[i], bucket[j] = bucket[j], bucket[i]
		})
		picked = append(picked, bucket[:want]...)
	}

	sort.Ints(picked)
	return picked
}
