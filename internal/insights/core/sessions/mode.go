package sessions

// Mode returns the most frequent non-empty value of values. Ties go to the
// value encountered first. ok is false when there is no such value.
func Mode(values []string) (mode string, ok bool) {
	counts := make(map[string]int, len(values))
	best := 0
	for _, v := range values {
		if v == "" {
			continue
		}
		counts[v]++
	}
	for _, v := range values {
		if v == "" {
			continue
		}
		if c := counts[v]; c > best {
			best = c
			mode = v
		}
	}
	return mode, best > 0
}

// ModeOr is Mode with a fallback for empty input.
func ModeOr(values []string, fallback string) string {
	if m, ok := Mode(values); ok {
		return m
	}
	return fallback
}
