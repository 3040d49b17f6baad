// Package seq owns reference and query byte buffers, normalizes the
// DNA alphabet, and computes the statistics the rest of the pipeline
// needs (GC content, reverse complement).
package seq

import "github.com/pkg/errors"

// MaxLength bounds a sequence to (MaxInt-1)/2 bases, per the spec's
// overflow guard on signed index arithmetic inside the suffix array.
const MaxLength = (int(^uint(0)>>1) - 1) / 2

// ErrEmpty is returned by New for a zero-length sequence.
var ErrEmpty = errors.New("sequence: empty input")

// ErrTooLong is returned by New when bytes exceed MaxLength.
var ErrTooLong = errors.New("sequence: exceeds maximum length")

// Sequence is an immutable, normalized DNA byte buffer.
type Sequence struct {
	Name    string
	Bytes   []byte  // restricted to A, C, G, T, N
	NonACGT bool    // set if any input byte was coerced to N
	gc      float64 // cached GC fraction
}

// New normalizes raw and returns an immutable Sequence.
//
// Any byte outside {A,C,G,T,N} (case-insensitively) becomes N and sets
// NonACGT; an N already in the input is kept and does not set it.
// Empty input is rejected; input longer than MaxLength is rejected.
func New(name string, raw []byte) (*Sequence, error) {
	if err := validateLength(len(raw)); err != nil {
		return nil, errors.Wrapf(err, "sequence %q", name)
	}
	normalized, nonACGT := normalize(raw)
	s := &Sequence{
		Name:    name,
		Bytes:   normalized,
		NonACGT: nonACGT,
	}
	s.gc = gcFraction(normalized)
	return s, nil
}

// validateLength checks n against the empty and maximum-length
// invariants, split out from New so the boundary can be tested
// without allocating a MaxLength-sized buffer.
func validateLength(n int) error {
	if n == 0 {
		return ErrEmpty
	}
	if n > MaxLength {
		return ErrTooLong
	}
	return nil
}

// normalize upper-cases ASCII and coerces every non-ACGT byte to 'N'.
func normalize(raw []byte) ([]byte, bool) {
	out := make([]byte, len(raw))
	coerced := false
	for i, b := range raw {
		switch b {
		case 'A', 'a':
			out[i] = 'A'
		case 'C', 'c':
			out[i] = 'C'
		case 'G', 'g':
			out[i] = 'G'
		case 'T', 't':
			out[i] = 'T'
		case 'N', 'n':
			out[i] = 'N'
		default:
			out[i] = 'N'
			coerced = true
		}
	}
	return out, coerced
}

// gcFraction computes (|C|+|G|) / (|A|+|C|+|G|+|T|). A reference with
// no called bases (all N) returns 0.5, a neutral value that only
// affects the downstream anchor-length threshold.
func gcFraction(bytes []byte) float64 {
	var gc, acgt int
	for _, b := range bytes {
		switch b {
		case 'C', 'G':
			gc++
			acgt++
		case 'A', 'T':
			acgt++
		}
	}
	if acgt == 0 {
		return 0.5
	}
	return float64(gc) / float64(acgt)
}

// GC returns the sequence's GC fraction.
func (s *Sequence) GC() float64 { return s.gc }

// Len returns the number of bases.
func (s *Sequence) Len() int { return len(s.Bytes) }

var complement = [256]byte{}

func init() {
	for i := range complement {
		complement[i] = 'N'
	}
	complement['A'] = 'T'
	complement['T'] = 'A'
	complement['C'] = 'G'
	complement['G'] = 'C'
	complement['N'] = 'N'
}

// RevComp returns the reverse complement of b. A↔T, C↔G, N→N.
func RevComp(b []byte) []byte {
	out := make([]byte, len(b))
	n := len(b)
	for i, c := range b {
		out[n-1-i] = complement[c]
	}
	return out
}

// RevComp returns the reverse complement of the sequence's bytes.
func (s *Sequence) RevComp() []byte {
	return RevComp(s.Bytes)
}

// BasesEqual reports whether two normalized bases should be treated
// as a match. N never matches anything, including another N: it
// stands for "unknown", not a wildcard.
func BasesEqual(a, b byte) bool {
	return a == b && a != 'N'
}

// SubjectText returns the exact byte buffer C2 should build a suffix
// array over: the normalized reference bytes, with no sentinel
// appended. Match-length reporting in C4/C6 assumes this.
func SubjectText(s *Sequence) []byte {
	return s.Bytes
}
