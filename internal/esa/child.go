package esa

// childKind discriminates which of the three classical child-table
// fields (up, down, nextL) a given slot holds. Abouelhoda & Kurtz fold
// all three into one array: up never shares a slot with the others,
// and where down and nextL are both defined only nextL is kept, since
// an interval starting at such an index finds its first l-index
// through up instead. We keep the discriminator explicit rather than relying
// on the original's undocumented slot-reuse trick (per spec.md's
// DESIGN NOTES: a discriminated encoding preserves the same O(1)
// child-lookup contract).
type childKind uint8

const (
	childNone childKind = iota
	childUp
	childDown
	childNextL
)

type childSlot struct {
	kind  childKind
	value int32
}

const childKindShift = 30
const childValueMask = (1 << childKindShift) - 1

func encodeSlot(s childSlot) int32 {
	return int32(s.kind)<<childKindShift | (s.value & childValueMask)
}

func decodeSlot(v int32) childSlot {
	return childSlot{
		kind:  childKind(uint32(v) >> childKindShift),
		value: v & childValueMask,
	}
}

// buildChildTable builds the child table from LCP (length n+1, with
// sentinels LCP[0]=LCP[n]=-1) in two linear passes over an explicit
// monotone stack, following Abouelhoda, Kurtz & Ohlebusch's
// construction of the up/down/nextL fields.
func buildChildTable(lcp []int32) []int32 {
	n := len(lcp) - 1
	up := make([]int32, n+1)
	down := make([]int32, n+1)
	nextL := make([]int32, n+1)
	for i := range up {
		up[i] = -1
		down[i] = -1
		nextL[i] = -1
	}
	if n == 0 {
		return packChildTable(up, down, nextL)
	}

	// Pass 1: up/down.
	stack := []int32{0}
	lastIndex := int32(-1)
	for i := 1; i <= n; i++ {
		for len(stack) > 0 && lcp[i] < lcp[stack[len(stack)-1]] {
			lastIndex = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				if lcp[i] <= lcp[top] && lcp[top] != lcp[lastIndex] {
					down[top] = lastIndex
				}
			}
		}
		if lastIndex != -1 {
			up[i-1] = lastIndex
			lastIndex = -1
		}
		stack = append(stack, int32(i))
	}

	// Pass 2: nextL.
	stack = stack[:0]
	stack = append(stack, 0)
	for i := 1; i <= n; i++ {
		for len(stack) > 0 && lcp[i] < lcp[stack[len(stack)-1]] {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 && lcp[i] == lcp[stack[len(stack)-1]] {
			prev := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			nextL[prev] = int32(i)
		}
		stack = append(stack, int32(i))
	}

	return packChildTable(up, down, nextL)
}

func packChildTable(up, down, nextL []int32) []int32 {
	table := make([]int32, len(up))
	for i := range table {
		switch {
		case nextL[i] != -1:
			table[i] = encodeSlot(childSlot{childNextL, nextL[i]})
		case down[i] != -1:
			table[i] = encodeSlot(childSlot{childDown, down[i]})
		case up[i] != -1:
			table[i] = encodeSlot(childSlot{childUp, up[i]})
		default:
			table[i] = encodeSlot(childSlot{childNone, 0})
		}
	}
	return table
}

func up(table []int32, i int32) (int32, bool) {
	s := decodeSlot(table[i])
	if s.kind == childUp {
		return s.value, true
	}
	return 0, false
}

func down(table []int32, i int32) (int32, bool) {
	s := decodeSlot(table[i])
	if s.kind == childDown {
		return s.value, true
	}
	return 0, false
}

func nextL(table []int32, i int32) (int32, bool) {
	s := decodeSlot(table[i])
	if s.kind == childNextL {
		return s.value, true
	}
	return 0, false
}

// firstLIndex returns the first l-index of the lcp-interval (i, j):
// up[j] if it falls in (i, j], otherwise down[i]. Per Abouelhoda &
// Kurtz, down[i] can hold an ancestor interval's l-index when i is
// also that ancestor's left boundary, so both candidates must be
// range-checked against (i, j] rather than trusted unconditionally.
func firstLIndex(table []int32, i, j int32) (int32, bool) {
	if i == j {
		return 0, false
	}
	if v, ok := up(table, j); ok && v > i && v <= j {
		return v, true
	}
	if v, ok := down(table, i); ok && v > i && v <= j {
		return v, true
	}
	return 0, false
}

// Children enumerates the child lcp-intervals of (i, j) as
// [lo, hi] pairs in left-to-right order, using only the child table —
// O(σ) per the spec's child-lookup contract (DNA alphabet size 4 + N).
func (e *ESA) Children(i, j int32) [][2]int32 {
	bounds := childBounds(e.child, i, j)
	children := make([][2]int32, 0, len(bounds)-1)
	for c := 0; c < len(bounds)-1; c++ {
		children = append(children, [2]int32{bounds[c], bounds[c+1] - 1})
	}
	return children
}

// childBounds enumerates the lcp-interval's child boundaries
// [i, b1, b2, ..., bk, j+1] in left-to-right order by walking nextL
// from the first l-index. Each adjacent pair [bm, bm+1) is one child
// interval's SA range.
func childBounds(table []int32, i, j int32) []int32 {
	bounds := []int32{i}
	first, ok := firstLIndex(table, i, j)
	if !ok {
		return bounds
	}
	idx := first
	for {
		bounds = append(bounds, idx)
		next, ok := nextL(table, idx)
		if !ok {
			break
		}
		idx = next
	}
	bounds = append(bounds, j+1)
	return bounds
}
