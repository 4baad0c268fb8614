// Package lifecycle holds the admin-offered status transitions of every
// entity as data, so action menus and server-side guards share one source.
package lifecycle

import (
	"fmt"

	pkgerrors "github.com/evolutionflow/admin-bff/pkg/errors"
)

// Table maps a status onto the statuses an admin may move it to.
type Table[S ~string] struct {
	name  string
	order []S
	next  map[S][]S
}

// NewTable builds a table. order fixes the order Allowed reports targets in
// and doubles as the list of known states.
func NewTable[S ~string](name string, order []S, next map[S][]S) Table[S] {
	copied := make(map[S][]S, len(next))
	for from, targets := range next {
		copied[from] = sortByOrder(order, targets)
	}
	return Table[S]{name: name, order: append([]S(nil), order...), next: copied}
}

// Name identifies the entity the table governs.
func (t Table[S]) Name() string { return t.name }

// States lists every known state.
func (t Table[S]) States() []S {
	return append([]S(nil), t.order...)
}

// Allowed returns the transitions offered from the given status.
func (t Table[S]) Allowed(from S) []S {
	out := make([]S, 0, len(t.next[from]))
	return append(out, t.next[from]...)
}

// Can reports whether from -> to is offered.
func (t Table[S]) Can(from, to S) bool {
	for _, candidate := range t.next[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leaves from.
func (t Table[S]) Terminal(from S) bool {
	return len(t.next[from]) == 0
}

// Check returns a STATE_CONFLICT error when from -> to is not offered.
func (t Table[S]) Check(from, to S) error {
	if t.Can(from, to) {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("%s cannot move from %s to %s", t.name, from, to)).
		WithDetails(map[string]any{
			"from":    string(from),
			"to":      string(to),
			"allowed": stringsOf(t.next[from]),
		})
}

func sortByOrder[S ~string](order, targets []S) []S {
	out := make([]S, 0, len(targets))
	for _, s := range order {
		for _, target := range targets {
			if target == s {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

func stringsOf[S ~string](values []S) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, string(v))
	}
	return out
}
