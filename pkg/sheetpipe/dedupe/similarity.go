package dedupe

import (
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rcameron/sheetpipe/pkg/sheetpipe/models"
)

// DefaultSimilarityThreshold is the cosine similarity above which two
// basenames are flagged as near-duplicates.
const DefaultSimilarityThreshold = 0.8

// n-gram window for basename vectors.
const (
	minGram = 2
	maxGram = 5
)

// SimilarFilenames flags pairs of paths whose basenames are
// near-duplicates under character n-gram TF-IDF cosine similarity. Pairs
// at or above the threshold are returned sorted by descending score.
// This only informs deduplication of candidate inputs; records are never
// merged from it.
func SimilarFilenames(paths []string, threshold float64) []models.SimilarPair {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	if len(paths) < 2 {
		return nil
	}

	vectors := make([]map[string]float64, len(paths))
	df := make(map[string]int)
	for i, p := range paths {
		tf := ngramCounts(normalizeBasename(p))
		vectors[i] = tf
		for gram := range tf {
			df[gram]++
		}
	}

	// Inverse document frequency dampens grams shared by every export
	// (common prefixes, extensions) so the distinctive parts dominate.
	n := float64(len(paths))
	for _, vec := range vectors {
		for gram, count := range vec {
			vec[gram] = count * math.Log(1+n/float64(df[gram]))
		}
		normalize(vec)
	}

	var pairs []models.SimilarPair
	for i := 0; i < len(paths); i++ {
		for j := i + 1; j < len(paths); j++ {
			score := dot(vectors[i], vectors[j])
			if score >= threshold {
				a, b := paths[i], paths[j]
				if b < a {
					a, b = b, a
				}
				pairs = append(pairs, models.SimilarPair{FileA: a, FileB: b, Score: score})
			}
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Score != pairs[j].Score {
			return pairs[i].Score > pairs[j].Score
		}
		return pairs[i].FileA < pairs[j].FileA
	})
	return pairs
}

func normalizeBasename(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ToLower(base)
}

// ngramCounts builds raw term frequencies over character n-grams of
// lengths 2 through 5.
func ngramCounts(s string) map[string]float64 {
	counts := make(map[string]float64)
	runes := []rune(s)
	for size := minGram; size <= maxGram; size++ {
		for i := 0; i+size <= len(runes); i++ {
			counts[string(runes[i:i+size])]++
		}
	}
	return counts
}

func normalize(vec map[string]float64) {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	mag := math.Sqrt(sum)
	for k, v := range vec {
		vec[k] = v / mag
	}
}

// dot of two unit vectors is their cosine similarity.
func dot(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for k, v := range a {
		sum += v * b[k]
	}
	return sum
}
