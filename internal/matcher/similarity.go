package matcher

// Similarity computes a Ratcliff/Obershelp ratio between two strings:
// twice the total length of matching blocks divided by the combined length.
// The result is in [0,1], symmetric, and 1.0 only for identical strings.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	ra, rb := []rune(a), []rune(b)
	matched := matchingBlocks(ra, rb)
	return 2.0 * float64(matched) / float64(len(ra)+len(rb))
}

// matchingBlocks returns the total length of the recursive longest matching
// blocks between a and b.
func matchingBlocks(a, b []rune) int {
	alo, ahi, blo, bhi := longestMatch(a, b)
	if ahi == alo {
		return 0
	}
	size := ahi - alo
	size += matchingBlocks(a[:alo], b[:blo])
	size += matchingBlocks(a[ahi:], b[bhi:])
	return size
}

// longestMatch finds the longest contiguous matching block between a and b,
// preferring the earliest occurrence in a on ties.
func longestMatch(a, b []rune) (alo, ahi, blo, bhi int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0, 0
	}

	// Positions of each rune in b, so candidate matches extend in O(1).
	positions := make(map[rune][]int, len(b))
	for j, r := range b {
		positions[r] = append(positions[r], j)
	}

	best := 0
	// lengths[j] = length of match ending at a[i-1], b[j-1] from previous row.
	lengths := make(map[int]int)
	for i, r := range a {
		row := make(map[int]int, len(positions[r]))
		for _, j := range positions[r] {
			k := lengths[j-1] + 1
			row[j] = k
			if k > best {
				best = k
				alo, blo = i-k+1, j-k+1
				ahi, bhi = i+1, j+1
			}
		}
		lengths = row
	}
	return alo, ahi, blo, bhi
}
