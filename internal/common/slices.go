package common

// IsEmpty returns true if the slice is empty.
func IsEmpty[S ~[]E, E any](s S) bool {
	return len(s) == 0
}

// Map applies fn to every element and returns the results in order.
func Map[S ~[]E, E, R any](s S, fn func(E) R) []R {
	out := make([]R, len(s))
	for i, e := range s {
		out[i] = fn(e)
	}

	return out
}
