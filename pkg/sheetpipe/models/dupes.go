package models

// DuplicateGroup is a set of files sharing an identical content hash.
type DuplicateGroup struct {
	// Hash is the shared content hash, hex-encoded.
	Hash string `json:"hash"`
	// Files are the paths in the group, sorted.
	Files []string `json:"files"`
}

// SimilarPair flags two files whose basenames are near-duplicates.
// It informs input deduplication only; records are never merged from it.
type SimilarPair struct {
	// FileA is the first path, ordered before FileB.
	FileA string `json:"file_a"`
	// FileB is the second path.
	FileB string `json:"file_b"`
	// Score is cosine similarity in [0,1].
	Score float64 `json:"score"`
}
