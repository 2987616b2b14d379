package fragment

// Overall is the combined status of a set of fragments
type Overall string

const (
	OverallValid   Overall = "VALID"
	OverallInvalid Overall = "INVALID"
	OverallError   Overall = "ERROR"

	// OverallNoApplicableChecks is returned when every fragment was skipped.
	// It is never folded into VALID.
	OverallNoApplicableChecks Overall = "NO_APPLICABLE_CHECKS"
)

// Policy controls how fragments are combined
type Policy struct {
	// Types restricts the reduction to fragments of these types. Empty means all.
	Types []Type

	// InvalidOverError ranks INVALID above ERROR, for callers that treat a
	// definite business failure as more informative than a flaky check
	InvalidOverError bool
}

// Reduce combines fragments with the default precedence ERROR > INVALID > VALID.
// SKIPPED fragments are neutral.
func Reduce(fragments []Fragment, types ...Type) Overall {
	return ReduceWithPolicy(fragments, Policy{Types: types})
}

func ReduceWithPolicy(fragments []Fragment, p Policy) Overall {
	var valid, invalid, errored int

	for _, f := range fragments {
		if !p.includes(f.Type) {
			continue
		}

		switch f.Status {
		case StatusValid:
			valid++
		case StatusInvalid:
			invalid++
		case StatusError:
			errored++
		}
	}

	switch {
	case errored > 0 && (invalid == 0 || !p.InvalidOverError):
		return OverallError
	case invalid > 0:
		return OverallInvalid
	case valid > 0:
		return OverallValid
	default:
		return OverallNoApplicableChecks
	}
}

// IsValid reports whether the fragments reduce to VALID
func IsValid(fragments []Fragment, types ...Type) bool {
	return Reduce(fragments, types...) == OverallValid
}

func (p Policy) includes(t Type) bool {
	if len(p.Types) == 0 {
		return true
	}

	for _, pt := range p.Types {
		if pt == t {
			return true
		}
	}

	return false
}

// Find returns the first fragment with the given name
func Find(fragments []Fragment, name string) (Fragment, bool) {
	for _, f := range fragments {
		if f.Name == name {
			return f, true
		}
	}

	return Fragment{}, false
}
