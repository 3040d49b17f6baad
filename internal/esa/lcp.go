package esa

// kasaiLCP computes the LCP array in linear time from text and its
// suffix array, using an inverse permutation (ISA) that is released
// once the array is built. LCP[0] = LCP[n] = -1 are sentinels; LCP[i]
// for 0 < i < n is the length of the common prefix of S[SA[i-1]:] and
// S[SA[i]:].
func kasaiLCP(text []byte, sa []int32) []int32 {
	n := len(sa)
	lcp := make([]int32, n+1)
	lcp[0] = -1
	lcp[n] = -1
	if n == 0 {
		return lcp
	}

	isa := make([]int32, n)
	for i, pos := range sa {
		isa[pos] = int32(i)
	}

	h := 0
	for i := 0; i < n; i++ {
		rank := isa[i]
		if rank == 0 {
			continue // LCP[0] is the sentinel, left at -1 above
		}
		j := int(sa[rank-1])
		for i+h < n && j+h < n && text[i+h] == text[j+h] {
			h++
		}
		lcp[rank] = int32(h)
		if h > 0 {
			h--
		}
	}
	return lcp
}
