// Package dedupe detects duplicate and near-duplicate source files.
package dedupe

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/rcameron/sheetpipe/pkg/sheetpipe/models"
)

// hashSampleRows bounds how many data rows feed the content hash. The
// sample is deterministic (leading rows in grid order) so two exports of
// the same data always hash identically.
const hashSampleRows = 64

// ContentHash computes a stable hash over a bounded sample of a grid's
// rows. Hashing parsed cell values rather than raw bytes makes the hash
// insensitive to whitespace and formatting differences between exports.
func ContentHash(g *models.RawGrid) string {
	h := xxhash.New()

	rows := g.RowCount()
	if rows > hashSampleRows {
		rows = hashSampleRows
	}
	for row := 0; row < rows; row++ {
		for _, cell := range g.Rows[row] {
			// Unit/record separators keep cell and row boundaries
			// unambiguous in the hashed stream.
			h.WriteString(cell.Value)
			h.Write([]byte{0x1f})
		}
		h.Write([]byte{0x1e})
	}

	return fmt.Sprintf("%016x", h.Sum64())
}

// GroupDuplicates groups file paths by identical content hash. Only
// hashes shared by two or more files produce a group. Groups and their
// members are sorted for reproducible output.
func GroupDuplicates(hashes map[string]string) []models.DuplicateGroup {
	byHash := make(map[string][]string)
	for path, hash := range hashes {
		byHash[hash] = append(byHash[hash], path)
	}

	var groups []models.DuplicateGroup
	for hash, files := range byHash {
		if len(files) < 2 {
			continue
		}
		sort.Strings(files)
		groups = append(groups, models.DuplicateGroup{Hash: hash, Files: files})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Hash < groups[j].Hash })
	return groups
}
