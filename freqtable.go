package rangecoder

import (
	"sort"

	"github.com/pkg/errors"
)

// alphabetSize is the byte alphabet used by ByteHistogram and the commands.
const alphabetSize = 256

// A FreqTable is a static Model over a cumulative-frequency table built once
// from per-symbol counts. Lookups are O(1) and FindSymbol is a binary search
// over the table, so it suits models rebuilt between blocks rather than per
// symbol.
type FreqTable struct {
	// cum[s] is the sum of the counts of all symbols before s;
	// cum[len] is the total.
	cum []uint64
}

// NewFreqTable builds a table from one count per symbol. Symbols with a zero
// count stay representable in the table but cannot be coded; Encode and
// Decode report ErrZeroFrequency for them.
func NewFreqTable(counts []uint64) *FreqTable {
	cum := make([]uint64, len(counts)+1)
	for i, c := range counts {
		cum[i+1] = cum[i] + c
	}
	return &FreqTable{cum: cum}
}

// Len returns the alphabet size.
func (t *FreqTable) Len() int { return len(t.cum) - 1 }

// Total returns the sum of all counts.
func (t *FreqTable) Total() uint64 { return t.cum[len(t.cum)-1] }

// CumFreq returns the sum of the counts of all symbols before symbol.
func (t *FreqTable) CumFreq(symbol int) uint64 { return t.cum[symbol] }

// Freq returns symbol's count.
func (t *FreqTable) Freq(symbol int) uint64 { return t.cum[symbol+1] - t.cum[symbol] }

// FindSymbol returns the symbol whose interval contains value.
func (t *FreqTable) FindSymbol(value uint64) (int, error) {
	n := t.Len()
	s := sort.Search(n, func(i int) bool { return t.cum[i+1] > value })
	if s == n || t.cum[s] > value {
		return 0, errors.WithStack(ErrInvalidModel)
	}
	return s, nil
}

// ByteHistogram returns a 256-symbol count table over data, one plus the
// observed occurrences per byte value. The smoothing keeps every byte
// codable, so one table built from a sample can code arbitrary input.
func ByteHistogram(data []byte) []uint64 {
	counts := make([]uint64, alphabetSize)
	for i := range counts {
		counts[i] = 1
	}
	for _, b := range data {
		counts[b]++
	}
	return counts
}
