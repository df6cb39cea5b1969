package vdom

// longestIncreasing marks the positions of seq that belong to a longest
// strictly increasing subsequence. Negative entries never belong to it.
func longestIncreasing(seq []int) []bool {
	in := make([]bool, len(seq))

	// tails[k] is the position in seq ending the best run of length k+1.
	tails := make([]int, 0, len(seq))
	parent := make([]int, len(seq))

	for i, v := range seq {
		parent[i] = -1
		if v < 0 {
			continue
		}
		lo, hi := 0, len(tails)
		for lo < hi {
			mid := (lo + hi) / 2
			if seq[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo > 0 {
			parent[i] = tails[lo-1]
		}
		if lo == len(tails) {
			tails = append(tails, i)
		} else {
			tails[lo] = i
		}
	}

	if len(tails) == 0 {
		return in
	}
	for i := tails[len(tails)-1]; i >= 0; i = parent[i] {
		in[i] = true
	}
	return in
}
