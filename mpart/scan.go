package mpart

// findPattern returns the index of the first occurrence of pattern in window
// at or after from, or -1. An empty pattern or empty window never matches.
// Windows are bounded by the read-ahead slack, so a first-byte skip with
// byte-for-byte verification is enough.
func findPattern(window, pattern []byte, from int) int {
	if len(pattern) == 0 || len(window) == 0 {
		return -1
	}
	if from < 0 {
		from = 0
	}
	first := pattern[0]
	for i := from; i <= len(window)-len(pattern); i++ {
		if window[i] != first {
			continue
		}
		j := 1
		for j < len(pattern) && window[i+j] == pattern[j] {
			j++
		}
		if j == len(pattern) {
			return i
		}
	}
	return -1
}
