package core

// The As* helpers narrow an untyped operand to one shape. They report
// false instead of failing when the shape does not match, so callers can
// decide whether a mismatch is an error.

// AsNumber returns v as a float64 when it is an Int or a Real.
func AsNumber(v Object) (float64, bool) {
	switch n := v.(type) {
	case Int:
		return float64(n), true
	case Real:
		return float64(n), true
	default:
		return 0, false
	}
}

// AsInt returns v when it is an Int. Reals are rejected even when integral.
func AsInt(v Object) (int64, bool) {
	i, ok := v.(Int)
	return int64(i), ok
}

// AsName returns v when it is a Name.
func AsName(v Object) (Name, bool) {
	n, ok := v.(Name)
	return n, ok
}

// AsString returns v when it is a String.
func AsString(v Object) (String, bool) {
	s, ok := v.(String)
	return s, ok
}

// AsArray returns v when it is an Array.
func AsArray(v Object) (Array, bool) {
	a, ok := v.(Array)
	return a, ok
}
