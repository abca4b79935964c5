package postgres

import (
	"fmt"
	"strings"
)

// Predicate is one independent filter condition. The fragment uses `?` for
// each bound value; placeholders are renumbered to positional $n parameters
// only when the final statement is assembled, so fragments can be composed in
// any combination without manual index bookkeeping.
type Predicate struct {
	fragment string
	args     []any
}

// PredicateSet is an ordered list of predicates joined with AND. Predicates
// are emitted in insertion order, and their arguments bind in the same order.
type PredicateSet struct {
	predicates []Predicate
}

// Add appends a predicate. The number of `?` placeholders in fragment must
// equal len(args).
func (s *PredicateSet) Add(fragment string, args ...any) {
	s.predicates = append(s.predicates, Predicate{fragment: fragment, args: args})
}

// Empty reports whether no predicates have been added.
func (s *PredicateSet) Empty() bool {
	return len(s.predicates) == 0
}

// WhereClause returns the combined `WHERE a AND b AND ...` clause with `?`
// placeholders still in place, or "" when the set is empty.
func (s *PredicateSet) WhereClause() string {
	if s.Empty() {
		return ""
	}
	fragments := make([]string, len(s.predicates))
	for i, p := range s.predicates {
		fragments[i] = p.fragment
	}
	return "WHERE " + strings.Join(fragments, " AND ")
}

// Args returns all bound values in emission order.
func (s *PredicateSet) Args() []any {
	var args []any
	for _, p := range s.predicates {
		args = append(args, p.args...)
	}
	return args
}

// bindPlaceholders rewrites each `?` in sql to $1, $2, ... in order. It is
// applied exactly once, to the fully assembled statement, so the resulting
// parameter numbering always matches the argument order.
func bindPlaceholders(sql string) string {
	var b strings.Builder
	b.Grow(len(sql))
	n := 0
	for _, r := range sql {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
