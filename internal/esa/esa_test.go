package esa

import (
	"bytes"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// naiveSuffixArray sorts all suffixes directly, used only as a test
// oracle against the SA-IS output — the same cross-check role
// xiles84/dnatools's binary-search helpers played against its SAIS
// implementation.
func naiveSuffixArray(text []byte) []int {
	n := len(text)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		return bytes.Compare(text[idx[a]:], text[idx[b]:]) < 0
	})
	return idx
}

func lcpLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

func TestBuildSAMatchesNaive(t *testing.T) {
	cases := []string{
		"banana",
		"mississippi",
		"ACGTACGTACGTACGT",
		"AAAACGTAAAA",
		"ACACACAC",
		"A",
		"GATTACA",
		"NNNNACGTNNNN",
	}
	for _, c := range cases {
		text := []byte(c)
		e, err := BuildWithK(text, 2)
		require.NoError(t, err)

		want := naiveSuffixArray(text)
		got := make([]int, len(e.SA))
		for i, v := range e.SA {
			got[i] = int(v)
		}
		assert.Equal(t, want, got, "suffix array mismatch for %q", c)
	}
}

func TestSAIsPermutation(t *testing.T) {
	text := []byte("ACGTACGTACGTACGTN")
	e, err := BuildWithK(text, 2)
	require.NoError(t, err)

	seen := make([]bool, len(text))
	for _, p := range e.SA {
		require.False(t, seen[p], "duplicate SA entry %d", p)
		seen[p] = true
	}
	for i, ok := range seen {
		assert.True(t, ok, "position %d missing from SA", i)
	}
}

func TestLCPCorrectness(t *testing.T) {
	text := []byte("GATTACAGATTACA")
	e, err := BuildWithK(text, 2)
	require.NoError(t, err)

	assert.EqualValues(t, -1, e.LCP[0])
	assert.EqualValues(t, -1, e.LCP[len(text)])
	for i := 1; i < len(text); i++ {
		a := text[e.SA[i-1]:]
		b := text[e.SA[i]:]
		assert.EqualValues(t, lcpLen(a, b), e.LCP[i], "LCP[%d]", i)
	}
}

// TestChildTableVisitsEverySAIndex walks the lcp-interval tree purely
// via the child table (the spec's "child-table round-trip" property)
// and checks every SA index is reached exactly once.
func TestChildTableVisitsEverySAIndex(t *testing.T) {
	text := []byte("mississippi")
	e, err := BuildWithK(text, 2)
	require.NoError(t, err)

	visited := make([]int, len(e.SA))
	var walk func(i, j int32)
	walk = func(i, j int32) {
		if i == j {
			visited[i]++
			return
		}
		bounds := childBounds(e.child, i, j)
		for c := 0; c < len(bounds)-1; c++ {
			lo, hi := bounds[c], bounds[c+1]-1
			if lo == hi {
				visited[lo]++
			} else {
				walk(lo, hi)
			}
		}
	}
	walk(0, int32(len(e.SA)-1))

	for i, count := range visited {
		assert.Equal(t, 1, count, "SA index %d visited %d times", i, count)
	}
}

func TestCacheSoundness(t *testing.T) {
	text := []byte("ACGTACGTTGCA")
	e, err := BuildWithK(text, 3)
	require.NoError(t, err)

	for a := 0; a < 4; a++ {
		for b := 0; b < 4; b++ {
			for c := 0; c < 4; c++ {
				kmer := []byte{base(a), base(b), base(c)}
				entry, hit := e.lookup(kmer)
				anyMatch := bytes.Contains(text, kmer)
				if !hit {
					assert.False(t, anyMatch, "cache missed %s but it occurs in text", kmer)
					continue
				}
				require.True(t, anyMatch)
				for k := entry.i; k <= entry.j; k++ {
					pos := int(e.SA[k])
					require.GreaterOrEqual(t, len(text)-pos, 3)
					assert.Equal(t, kmer, text[pos:pos+3])
				}
			}
		}
	}
}

func base(i int) byte {
	return "ACGT"[i]
}
