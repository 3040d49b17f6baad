package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kloetzl/tummer/internal/esa"
	"github.com/kloetzl/tummer/internal/match"
)

func buildIndex(t *testing.T, reference string) *esa.ESA {
	t.Helper()
	e, err := esa.BuildWithK([]byte(reference), 2)
	require.NoError(t, err)
	return e
}

// Scenario 1 (spec.md §8): identical sequences, whole query matches.
func TestIdenticalSequences(t *testing.T) {
	e := buildIndex(t, "ACGTACGTACGTACGT")
	r := match.GetMatchCached(e, []byte("ACGTACGTACGTACGT"))
	assert.EqualValues(t, 16, r.L)
}

// Scenario 2: single unique substring.
func TestSingleUniqueSubstring(t *testing.T) {
	e := buildIndex(t, "AAAACGTAAAA")
	r := match.GetMatchCached(e, []byte("CGTGG"))
	require.EqualValues(t, 3, r.L)
	require.Equal(t, r.I, r.J, "match should be unique")
	assert.EqualValues(t, 4, e.SuffixArray()[r.I]) // 0-based ref pos 4 == "CGT"
}

// Scenario 3: non-unique prefix, match interval has more than one
// element.
func TestNonUniquePrefix(t *testing.T) {
	e := buildIndex(t, "ACACACAC")
	r := match.GetMatchCached(e, []byte("ACAC"))
	assert.EqualValues(t, 4, r.L)
	assert.NotEqual(t, r.I, r.J, "ACAC should occur more than once")
}

// Scenario 5: N never matches, including another N.
func TestNNeverMatches(t *testing.T) {
	e := buildIndex(t, "AAAANAAAA")
	r := match.GetMatchCached(e, []byte("AAAANAAAA"))
	assert.Less(t, int(r.L), 9, "match must not cross the N boundary")
}

func TestMatchMaximality(t *testing.T) {
	text := "GATTACAGATTACAXGATTACA"
	e := buildIndex(t, text)
	q := []byte("GATTACAZZZ")
	r := match.GetMatchCached(e, q)
	pos := e.SuffixArray()[r.I]
	assert.Equal(t, string(q[:r.L]), string(e.TextBytes()[pos:int(pos)+int(r.L)]))
}

func TestEmptyQuery(t *testing.T) {
	e := buildIndex(t, "ACGT")
	r := match.GetMatchCached(e, nil)
	assert.EqualValues(t, 0, r.L)
}
