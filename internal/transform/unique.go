package transform

import (
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/salmonumbrella/tabkit/internal/builder"
)

// Unique removes records that repeat an earlier record cell for cell and
// returns how many were removed. The first occurrence is kept.
func Unique(b *builder.Builder) int {
	records := b.Records()
	seen := make(map[uint64][]int, len(records))
	var dups []int

	for i, row := range records {
		sum := fingerprint(row)
		dup := false
		for _, j := range seen[sum] {
			if slices.Equal(records[j], row) {
				dup = true
				break
			}
		}
		if dup {
			dups = append(dups, i)
			continue
		}
		seen[sum] = append(seen[sum], i)
	}

	for i := len(dups) - 1; i >= 0; i-- {
		b.RemoveRecord(dups[i])
	}
	return len(dups)
}

// fingerprint hashes a row. Each cell is length-prefixed so that cell
// boundaries are part of the hash.
func fingerprint(row []string) uint64 {
	d := xxhash.New()
	var size [8]byte
	for _, cell := range row {
		n := uint64(len(cell))
		for i := range size {
			size[i] = byte(n >> (8 * i))
		}
		_, _ = d.Write(size[:])
		_, _ = d.WriteString(cell)
	}
	return d.Sum64()
}
