package yamldoc

import (
	"strconv"
	"strings"
)

// Step addresses one level of a decoded document: either a mapping key or a
// sequence index.
type Step struct {
	key   string
	index int
	seq   bool
}

// KeyStep returns a step that descends into a mapping by key.
func KeyStep(key string) Step { return Step{key: key} }

// IndexStep returns a step that descends into a sequence by position.
func IndexStep(i int) Step { return Step{index: i, seq: true} }

// IsIndex reports whether the step addresses a sequence item.
func (s Step) IsIndex() bool { return s.seq }

// Key returns the mapping key for a key step.
func (s Step) Key() string { return s.key }

// Index returns the sequence position for an index step.
func (s Step) Index() int { return s.index }

func (s Step) String() string {
	if s.seq {
		return strconv.Itoa(s.index)
	}
	return s.key
}

// Path locates a node in a decoded document as an ordered sequence of steps.
// Paths are value-like: Child and Elem return extended copies, so a parent
// path can be reused while building paths for its descendants.
type Path []Step

// Child returns p extended by a mapping key.
func (p Path) Child(key string) Path {
	return append(p[:len(p):len(p)], KeyStep(key))
}

// Elem returns p extended by a sequence index.
func (p Path) Elem(i int) Path {
	return append(p[:len(p):len(p)], IndexStep(i))
}

// Equal reports whether two paths have identical step sequences.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// String renders the path in dotted form, with sequence indices as decimal
// numbers: "stack.myComponent.policies.0.name". This is the join key used by
// the description index.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}
