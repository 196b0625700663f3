package wfc

import "fmt"

// ContradictionKind tells which phase emptied a cell
type ContradictionKind int

const (
	SeedContradiction        ContradictionKind = iota // emptied by boundary or roof seeding
	PropagationContradiction                          // emptied while propagating a collapse
)

// String returns the string representation of a ContradictionKind
func (k ContradictionKind) String() string {
	switch k {
	case SeedContradiction:
		return "seed"
	case PropagationContradiction:
		return "propagation"
	default:
		return "unknown"
	}
}

// ParseContradictionKind converts "seed" or "propagation" to a kind
func ParseContradictionKind(s string) (ContradictionKind, bool) {
	switch s {
	case "seed":
		return SeedContradiction, true
	case "propagation":
		return PropagationContradiction, true
	default:
		return 0, false
	}
}

// Contradiction records a cell whose domain became empty.
// Contradictions are local: generation carries on and the cell is left empty.
type Contradiction struct {
	Kind ContradictionKind
	Pos  Position
	Step int       // collapse step that caused it, 0 during seeding
	From Direction // face the constraint arrived through (propagation only)
}

// Err returns the contradiction as an error wrapping ErrSeedContradiction
// or ErrPropagationContradiction
func (c Contradiction) Err() error {
	switch c.Kind {
	case SeedContradiction:
		return fmt.Errorf("%w at %s", ErrSeedContradiction, c.Pos)
	default:
		return fmt.Errorf("%w at %s (step %d, from %s)", ErrPropagationContradiction, c.Pos, c.Step, c.From)
	}
}
