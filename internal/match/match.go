// Package match implements the cached top-down interval walk (spec
// component C4): given an enhanced suffix array and a query suffix,
// find the SA interval of the longest prefix of the query that occurs
// in the reference.
package match

import "github.com/kloetzl/tummer/internal/seq"

// Result is the SA interval (I, J) of the longest prefix of the query
// occurring in the reference, with L the length of that prefix.
// I == J iff the prefix is unique in the reference.
type Result struct {
	I, J, L int32
}

// Index is the subset of *esa.ESA the match engine depends on, kept
// narrow so tests can swap in purpose-built fixtures without building
// a full ESA.
type Index interface {
	Children(i, j int32) [][2]int32
	Lookup(q []byte) (i, j, l int32, hit bool)
	ChildDepth(lo, hi int32) int32
	Len() int
	TextBytes() []byte
	SuffixArray() []int32
}

// GetMatchCached resolves the longest prefix of q that occurs
// anywhere in the reference indexed by e.
//
// It starts from the top-level k-mer cache when possible, otherwise
// from the root interval, then alternates child-table lookups with
// bulk character comparisons until the interval becomes a singleton
// (direct extension against the text) or q is exhausted or no
// compatible child exists.
func GetMatchCached(e Index, q []byte) Result {
	n := int32(e.Len())
	if n == 0 || len(q) == 0 {
		return Result{}
	}

	var i, j, l int32
	if ci, cj, cl, hit := e.Lookup(q); hit {
		i, j, l = ci, cj, cl
	} else {
		i, j, l = 0, n-1, 0
	}

	text := e.TextBytes()
	sa := e.SuffixArray()

	for i != j && int(l) < len(q) {
		if depth := e.ChildDepth(i, j); depth > l {
			// The interval's own shared prefix reaches past l (a cache
			// hit shallower than its interval, or a root whose suffixes
			// all share a first letter): compare up to it before
			// choosing a child.
			m := bulkCompare(text, sa, i, q, l, depth)
			if m < depth-l {
				return Result{i, j, l + m}
			}
			l = depth
			continue
		}
		children := e.Children(i, j)
		next, found := selectChild(children, text, sa, l, q[l])
		if !found {
			return Result{i, j, l}
		}
		lo, hi := next[0], next[1]

		childLen := e.ChildDepth(lo, hi)
		m := bulkCompare(text, sa, lo, q, l, childLen)
		if m < childLen-l {
			return Result{lo, hi, l + m}
		}
		i, j, l = lo, hi, childLen
	}

	if i == j {
		l = extendSingleton(text, sa, i, q, l)
	}
	return Result{i, j, l}
}

// selectChild finds the child interval whose first differing
// character (at offset l, the parent's depth) equals want.
func selectChild(children [][2]int32, text []byte, sa []int32, l int32, want byte) ([2]int32, bool) {
	for _, c := range children {
		pos := int(sa[c[0]]) + int(l)
		if pos >= len(text) {
			continue
		}
		if seq.BasesEqual(text[pos], want) {
			return c, true
		}
	}
	return [2]int32{}, false
}

// bulkCompare compares q[l:upto] against text[sa[lo]+l:sa[lo]+upto]
// and returns the offset (relative to l) of the first mismatch, or
// upto-l if they fully agree (capped by q's remaining length).
func bulkCompare(text []byte, sa []int32, lo int32, q []byte, l, upto int32) int32 {
	limit := upto - l
	if remaining := int32(len(q)) - l; remaining < limit {
		limit = remaining
	}
	base := int(sa[lo]) + int(l)
	var m int32
	for m < limit {
		if base+int(m) >= len(text) || !seq.BasesEqual(text[base+int(m)], q[l+m]) {
			return m
		}
		m++
	}
	return m
}

// extendSingleton extends a singleton match by direct character
// comparison against the reference until mismatch or q is exhausted.
func extendSingleton(text []byte, sa []int32, i int32, q []byte, l int32) int32 {
	base := int(sa[i])
	for int(l) < len(q) && base+int(l) < len(text) && seq.BasesEqual(text[base+int(l)], q[l]) {
		l++
	}
	return l
}
