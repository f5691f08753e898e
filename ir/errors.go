package ir

import "fmt"

// UnsupportedConstructError is raised by the builder for every
// recognized-but-unimplemented parse-tree shape enumerated in spec.md
// §4.4.2. It is never raised for a shape the parser itself could not
// recognize — that is a parser.SyntaxError instead.
type UnsupportedConstructError struct {
	Feature    string
	Workaround string
}

func (e UnsupportedConstructError) Error() string {
	if e.Workaround == "" {
		return fmt.Sprintf("%s is not yet supported.", e.Feature)
	}
	return fmt.Sprintf("%s is not yet supported. %s", e.Feature, e.Workaround)
}

func unsupported(feature string, workaround ...string) error {
	w := ""
	if len(workaround) > 0 {
		w = workaround[0]
	}
	return UnsupportedConstructError{Feature: feature, Workaround: w}
}

// ResolutionError is raised when a name cannot be resolved and context
// demands it (spec.md §7 kind 4) — e.g. a requested schema is absent
// from the indices snapshot.
type ResolutionError struct {
	Name    string
	Context string
}

func (e ResolutionError) Error() string {
	return fmt.Sprintf("could not resolve %q: %s", e.Name, e.Context)
}

// InvariantViolation marks a failure in the builder's own bookkeeping
// rather than a malformed or unsupported input — a bug, not a user
// error (spec.md §7 kind 5). Distinct type so tests can pin it apart
// from every other error kind.
type InvariantViolation struct {
	Detail string
}

func (e InvariantViolation) Error() string {
	return fmt.Sprintf("internal invariant violation: %s", e.Detail)
}
