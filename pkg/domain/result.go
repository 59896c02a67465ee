package domain

// NextResult is the outcome of handing a request to a leaf.
type NextResult int

const (
	// NextInvalid means no output was produced (e.g. emitting into a completed stream).
	NextInvalid NextResult = iota
	// NextBreak means the leaf handled the request; no further leaf is tried.
	NextBreak
	// NextFallthrough means the leaf declined; the next candidate is tried.
	NextFallthrough
)

func (r NextResult) String() string {
	switch r {
	case NextBreak:
		return "break"
	case NextFallthrough:
		return "fallthrough"
	default:
		return "invalid"
	}
}
