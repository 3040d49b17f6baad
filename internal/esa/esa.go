// Package esa builds and queries an enhanced suffix array: a plain
// suffix array (SA) augmented with an LCP array, a child table, and a
// top-level k-mer cache, per Abouelhoda & Kurtz.
package esa

import "github.com/pkg/errors"

// ErrAllocationFailed is returned when a backing array cannot be sized
// for the reference text.
var ErrAllocationFailed = errors.New("esa: allocation failed")

// ESA is an immutable, read-only-after-construction suffix array index
// over a reference text it borrows but does not own.
type ESA struct {
	Text  []byte // borrowed reference bytes, not owned
	SA    []int32
	LCP   []int32 // LCP[0] = LCP[n] = -1 sentinels
	child []int32 // see child.go for the up/down/nextL encoding

	k     int
	cache []cacheEntry
}

// symK is the size of the integer alphabet SA-IS operates over: every
// byte value shifted up by one, so the suffix order is the raw byte
// order, plus 0, which is reserved for the internal recursion sentinel
// and never appears in real input.
const symK = 257

func encode(b byte) int {
	return int(b) + 1
}

// Build constructs an ESA over text using the default k-mer cache
// depth. text must be non-empty; it is retained by reference and must
// not be mutated afterward.
func Build(text []byte) (*ESA, error) {
	return BuildWithK(text, defaultCacheK)
}

// BuildWithK is Build with an explicit cache k-mer length, exposed so
// callers (and tests exercising small references) can choose a k that
// fits their reference rather than always paying for a 4^10-entry
// table.
func BuildWithK(text []byte, k int) (*ESA, error) {
	if len(text) == 0 {
		return nil, errors.New("esa: empty text")
	}
	if k <= 0 {
		return nil, errors.New("esa: k must be positive")
	}
	n := len(text)

	encoded := make([]int, n+1)
	for i, b := range text {
		encoded[i] = encode(b)
	}
	encoded[n] = 0 // internal SA-IS sentinel only, never reported

	saFull := sais(encoded, symK)
	if len(saFull) != n+1 || saFull[0] != n {
		return nil, errors.Wrap(ErrAllocationFailed, "sais produced malformed suffix array")
	}

	sa32 := make([]int32, n)
	for i, p := range saFull[1:] {
		sa32[i] = int32(p)
	}

	lcp := kasaiLCP(text, sa32)

	e := &ESA{
		Text: text,
		SA:   sa32,
		LCP:  lcp,
	}
	e.child = buildChildTable(lcp)
	e.buildCache(k)
	return e, nil
}

// Len returns the number of indexed positions (len(Text)).
func (e *ESA) Len() int { return len(e.SA) }

// TextBytes returns the borrowed reference text.
func (e *ESA) TextBytes() []byte { return e.Text }

// SuffixArray returns the underlying suffix array.
func (e *ESA) SuffixArray() []int32 { return e.SA }

// ChildDepth returns the lcp-depth of the child interval [lo, hi]:
// the remaining suffix length if it is a singleton, otherwise the
// shared-prefix length recorded at its own first l-index.
func (e *ESA) ChildDepth(lo, hi int32) int32 {
	if lo == hi {
		return int32(len(e.Text)) - e.SA[lo]
	}
	first, ok := firstLIndex(e.child, lo, hi)
	if !ok {
		// Non-singleton intervals always have at least one l-index;
		// reaching here means the child table is malformed.
		panic("esa: non-singleton interval has no l-index")
	}
	return e.LCP[first]
}
