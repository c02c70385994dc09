// Package mining finds recurring event patterns in session sequences.
package mining

import "slices"

// Matches reports whether pattern occurs in sequence in order, not
// necessarily contiguously. An empty pattern matches everything.
func Matches(sequence, pattern []string) bool {
	if len(pattern) == 0 {
		return true
	}
	i := 0
	for _, sym := range sequence {
		if sym == pattern[i] {
			i++
			if i == len(pattern) {
				return true
			}
		}
	}
	return false
}

// Equal reports whether two sequences are identical.
func Equal(a, b []string) bool {
	return slices.Equal(a, b)
}
