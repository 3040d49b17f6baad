package esa

// sais constructs a suffix array for s using the SA-IS algorithm
// (Nong, Zhang & Chen). s must already be encoded as small integers
// with exactly one occurrence of the minimum symbol (the sentinel) at
// the end; K is the alphabet size (max symbol + 1).
//
// Adapted from a classical recursive SA-IS formulation: S/L-type
// classification, LMS extraction, induced sort, and recursion on the
// renamed LMS-substring summary only when names collide.
func sais(s []int, K int) []int {
	n := len(s)
	sa := make([]int, n)
	return saisInto(s, K, n, sa, make([]int, n))
}

func saisInto(s []int, K, n int, sa, lmsNames []int) []int {
	sa = sa[:n]
	for i := range sa {
		sa[i] = -1
	}
	if n == 0 {
		return sa
	}
	if n == 1 {
		sa[0] = 0
		return sa
	}

	t := classifyTypes(s)
	lmsPositions := lmsPositionsOf(t)

	sa = induceSort(s, sa, t, K, lmsPositions)

	sortedLMS := sortedLMSFromSA(sa, t)

	lmsNames = lmsNames[:n]
	for i := range lmsNames {
		lmsNames[i] = -1
	}
	numNames := nameLMSSubstrings(s, t, sortedLMS, lmsNames)

	reduced := make([]int, 0, len(lmsPositions))
	for _, pos := range lmsPositions {
		reduced = append(reduced, lmsNames[pos])
	}

	var reducedSA []int
	if numNames < len(reduced) {
		reducedSA = saisInto(reduced, numNames, len(reduced), sa, lmsNames)
	} else {
		reducedSA = make([]int, len(reduced))
		for i, name := range reduced {
			reducedSA[name] = i
		}
	}

	orderedLMS := make([]int, len(reducedSA))
	for i, idx := range reducedSA {
		orderedLMS[i] = lmsPositions[idx]
	}
	for i := range sa {
		sa[i] = -1
	}
	return induceSort(s, sa, t, K, orderedLMS)
}

// classifyTypes marks each position S-type (true) or L-type (false).
// The sentinel (last position) is always S-type.
func classifyTypes(s []int) []bool {
	n := len(s)
	t := make([]bool, n)
	t[n-1] = true
	for i := n - 2; i >= 0; i-- {
		switch {
		case s[i] < s[i+1]:
			t[i] = true
		case s[i] > s[i+1]:
			t[i] = false
		default:
			t[i] = t[i+1]
		}
	}
	return t
}

// lmsPositionsOf returns positions i (i>0) where t[i] is S-type and
// t[i-1] is L-type — the left-most S positions.
func lmsPositionsOf(t []bool) []int {
	var lms []int
	for i := 1; i < len(t); i++ {
		if t[i] && !t[i-1] {
			lms = append(lms, i)
		}
	}
	return lms
}

func sortedLMSFromSA(sa []int, t []bool) []int {
	var sorted []int
	for _, pos := range sa {
		if pos > 0 && t[pos] && !t[pos-1] {
			sorted = append(sorted, pos)
		}
	}
	return sorted
}

// nameLMSSubstrings assigns a name to each LMS substring in sortedLMS
// order, writing lmsNames[pos] = name, and returns the count of
// distinct names.
func nameLMSSubstrings(s []int, t []bool, sortedLMS, lmsNames []int) int {
	name := 0
	prev := -1
	for _, pos := range sortedLMS {
		if prev != -1 && !lmsSubstringEqual(s, t, prev, pos) {
			name++
		}
		lmsNames[pos] = name
		prev = pos
	}
	if len(sortedLMS) == 0 {
		return 0
	}
	return name + 1
}

// induceSort performs the induced-sorting pass given a set of seed
// LMS positions, placing them at bucket ends and then sweeping L-type
// then S-type suffixes into place.
func induceSort(s []int, sa []int, t []bool, K int, lms []int) []int {
	bs := bucketSizes(s, K)
	tails := bucketTails(bs)
	for i := len(lms) - 1; i >= 0; i-- {
		pos := lms[i]
		c := s[pos]
		sa[tails[c]] = pos
		tails[c]--
	}

	heads := bucketHeads(bs)
	for i := range sa {
		pos := sa[i]
		if pos > 0 && !t[pos-1] {
			c := s[pos-1]
			sa[heads[c]] = pos - 1
			heads[c]++
		}
	}

	tails = bucketTails(bs)
	for i := len(sa) - 1; i >= 0; i-- {
		pos := sa[i]
		if pos > 0 && t[pos-1] {
			c := s[pos-1]
			sa[tails[c]] = pos - 1
			tails[c]--
		}
	}
	return sa
}

func bucketSizes(s []int, K int) []int {
	bs := make([]int, K)
	for _, c := range s {
		bs[c]++
	}
	return bs
}

func bucketHeads(bs []int) []int {
	heads := make([]int, len(bs))
	sum := 0
	for i, v := range bs {
		heads[i] = sum
		sum += v
	}
	return heads
}

func bucketTails(bs []int) []int {
	tails := make([]int, len(bs))
	sum := 0
	for i, v := range bs {
		sum += v
		tails[i] = sum - 1
	}
	return tails
}

// lmsSubstringEqual compares the LMS substrings starting at i and j,
// including their closing LMS boundary, for equality.
func lmsSubstringEqual(s []int, t []bool, i, j int) bool {
	n := len(s)
	// Both substrings open on an LMS position; step past it so the
	// loop below stops at the closing one.
	if s[i] != s[j] {
		return false
	}
	i++
	j++
	for {
		if s[i] != s[j] {
			return false
		}
		iIsLMS := i > 0 && t[i] && !t[i-1]
		jIsLMS := j > 0 && t[j] && !t[j-1]
		if iIsLMS && jIsLMS {
			return true
		}
		if iIsLMS != jIsLMS {
			return false
		}
		i++
		j++
		if i >= n || j >= n {
			break
		}
	}
	return false
}
