package catalog

// Similarity computes a Ratcliff/Obershelp similarity ratio between
// two strings: twice the number of matching characters divided by the
// total length.  It is symmetric, bounded in [0,1] and returns 1 for
// equal strings.  The merge engine accepts a fuzzy candidate when the
// ratio reaches FuzzyThreshold.
func Similarity(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	m := matching(a, b)
	return 2 * float64(m) / float64(len(a)+len(b))
}

// matching counts characters covered by the longest common substring
// plus, recursively, the matches in the unmatched pieces on each side
// of it.
func matching(a, b string) int {
	ai, bi, n := longestCommon(a, b)
	if n == 0 {
		return 0
	}
	total := n
	total += matching(a[:ai], b[:bi])
	total += matching(a[ai+n:], b[bi+n:])
	return total
}

func longestCommon(a, b string) (ai, bi, n int) {
	// lengths[j] holds the common-suffix length ending at a[i], b[j]
	// for the current i.
	lengths := make([]int, len(b)+1)
	for i := 0; i < len(a); i++ {
		prev := 0
		for j := 0; j < len(b); j++ {
			cur := lengths[j+1]
			if a[i] == b[j] {
				lengths[j+1] = prev + 1
				if lengths[j+1] > n {
					n = lengths[j+1]
					ai = i - n + 1
					bi = j - n + 1
				}
			} else {
				lengths[j+1] = 0
			}
			prev = cur
		}
	}
	return ai, bi, n
}
