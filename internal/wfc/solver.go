package wfc

import (
	"errors"
	"iter"
	"sort"

	"github.com/zyedidia/generic/mapset"
	"github.com/zyedidia/generic/queue"
)

var (
	ErrInvalidDimensions        = errors.New("wfc: invalid grid dimensions")
	ErrEmptyCatalog             = errors.New("wfc: tile catalog is empty")
	ErrCatalogTooLarge          = errors.New("wfc: tile catalog too large")
	ErrSeedContradiction        = errors.New("wfc: contradiction while seeding - no tile fits the cell constraints")
	ErrPropagationContradiction = errors.New("wfc: contradiction while propagating - no tile fits beside its neighbor")
	ErrIndexOutOfRange          = errors.New("wfc: grid index out of range")
)

// Rand is the random source the engine draws from. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// RunState is the overall state of a generation run
type RunState int

const (
	Running   RunState = iota // open cells may remain
	Converged                 // no open cells and no contradictions
	Exhausted                 // no open cells, at least one contradicted cell
)

// String returns the string representation of a RunState
func (s RunState) String() string {
	switch s {
	case Running:
		return "running"
	case Converged:
		return "converged"
	case Exhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// ParseRunState converts a name produced by RunState.String back to a RunState
func ParseRunState(s string) (RunState, bool) {
	for _, state := range []RunState{Running, Converged, Exhausted} {
		if state.String() == s {
			return state, true
		}
	}
	return 0, false
}

// Event is emitted each time a cell is collapsed to a single tile
type Event struct {
	Step int      `json:"step"`
	Pos  Position `json:"pos"`
	Tile TileID   `json:"tile"`
}

// Engine runs the collapse loop over a grid. It is single-threaded: only
// one goroutine may drive a given Engine, and only one Engine may run
// against a given Grid.
type Engine struct {
	grid *Grid
	rng  Rand

	steps          int
	done           bool
	events         []Event
	contradictions []Contradiction
	contradicted   mapset.Set[Position]

	// OnResolve is called synchronously after each collapse, before propagation
	OnResolve func(Event)
	// OnContradiction is called when a cell's domain becomes empty
	OnContradiction func(Contradiction)
	// OnNarrow is called whenever a cell's domain shrinks
	OnNarrow func(pos Position, before, after Domain)
}

// NewEngine creates an engine for grid g drawing from rng
func NewEngine(g *Grid, rng Rand) *Engine {
	return &Engine{
		grid:         g,
		rng:          rng,
		contradicted: mapset.New[Position](),
	}
}

// Grid returns the grid the engine mutates
func (e *Engine) Grid() *Grid {
	return e.grid
}

// Seed applies the boundary and roof restrictions to the grid and records
// any cells they empty. It must be called before the first Step.
func (e *Engine) Seed() []Contradiction {
	var before []Domain
	if e.OnNarrow != nil {
		before = make([]Domain, 0, e.grid.Len())
		e.grid.ForEachCell(func(c *Cell) { before = append(before, c.Domain) })
	}

	found := Seed(e.grid)

	if e.OnNarrow != nil {
		i := 0
		e.grid.ForEachCell(func(c *Cell) {
			if c.Domain != before[i] {
				e.OnNarrow(c.Pos, before[i], c.Domain)
			}
			i++
		})
	}
	for _, c := range found {
		e.contradict(c)
	}
	return found
}

// Step performs one outer iteration: an entropy scan, one collapse, and a
// full propagation drain. It returns false once no open cell remains.
func (e *Engine) Step() (Event, bool) {
	if e.done {
		return Event{}, false
	}

	candidates := e.lowestEntropyCells()
	if len(candidates) == 0 {
		e.done = true
		return Event{}, false
	}

	// candidate first, then tile, both from the same source
	pos := candidates[e.rng.Intn(len(candidates))]
	cell := e.grid.At(pos)
	tile, _ := cell.Domain.Nth(e.rng.Intn(cell.Domain.Len()))

	before := cell.Domain
	cell.Domain = Single(tile)
	e.steps++
	e.narrowed(pos, before, cell.Domain)

	ev := Event{Step: e.steps, Pos: pos, Tile: tile}
	e.events = append(e.events, ev)
	if e.OnResolve != nil {
		e.OnResolve(ev)
	}

	e.propagate(pos)
	return ev, true
}

// Events returns the remaining collapse events as a lazy sequence. Each
// value is produced by one Step; the sequence cannot be restarted.
func (e *Engine) Events() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for {
			ev, ok := e.Step()
			if !ok || !yield(ev) {
				return
			}
		}
	}
}

// Run steps the engine to completion, calling onEvent for each collapse,
// and returns the final result
func (e *Engine) Run(onEvent func(Event)) *Result {
	for ev := range e.Events() {
		if onEvent != nil {
			onEvent(ev)
		}
	}
	return e.Result()
}

// Done returns true once the engine has found no open cell
func (e *Engine) Done() bool {
	return e.done
}

// Steps returns the number of collapses performed so far
func (e *Engine) Steps() int {
	return e.steps
}

// State returns the run state
func (e *Engine) State() RunState {
	if !e.done {
		return Running
	}
	if e.grid.Count(CellContradicted) > 0 {
		return Exhausted
	}
	return Converged
}

// History returns a copy of every event emitted so far
func (e *Engine) History() []Event {
	return append([]Event(nil), e.events...)
}

// Contradictions returns every contradiction recorded so far, in the order
// they happened
func (e *Engine) Contradictions() []Contradiction {
	return append([]Contradiction(nil), e.contradictions...)
}

// ContradictedPositions returns the distinct contradicted positions in
// ascending (x, y, z) order
func (e *Engine) ContradictedPositions() []Position {
	positions := make([]Position, 0, e.contradicted.Size())
	e.contradicted.Each(func(p Position) {
		positions = append(positions, p)
	})
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Less(positions[j])
	})
	return positions
}

// Result extracts the grid as it stands and bundles it with the run history
func (e *Engine) Result() *Result {
	placements, summary := Extract(e.grid)
	return &Result{
		State:          e.State(),
		Steps:          e.steps,
		Events:         e.History(),
		Placements:     placements,
		Summary:        summary,
		Contradictions: e.Contradictions(),
	}
}

// lowestEntropyCells returns every open cell whose domain size equals the
// smallest size above one, in ascending (x, y, z) order
func (e *Engine) lowestEntropyCells() []Position {
	best := MaxTiles + 1
	var candidates []Position

	e.grid.ForEachCell(func(c *Cell) {
		n := c.Domain.Len()
		if n <= 1 {
			return
		}
		if n < best {
			best = n
			candidates = candidates[:0]
		}
		if n == best {
			candidates = append(candidates, c.Pos)
		}
	})

	return candidates
}

// propagate drains a FIFO queue starting at start until no domain changes
func (e *Engine) propagate(start Position) {
	q := queue.New[Position]()
	q.Enqueue(start)

	for !q.Empty() {
		cur := q.Dequeue()
		curDomain := e.grid.At(cur).Domain
		if curDomain.IsEmpty() {
			continue
		}

		for _, dir := range AllDirections() {
			np, ok := e.grid.Neighbor(cur, dir)
			if !ok {
				continue
			}

			neighbor := e.grid.At(np)
			allowed := neighbor.Domain.Intersect(e.grid.Catalog.allowedFrom(curDomain, dir))

			if allowed.IsEmpty() {
				if !neighbor.Domain.IsEmpty() {
					before := neighbor.Domain
					neighbor.Domain = allowed
					e.narrowed(np, before, allowed)
				}
				e.contradict(Contradiction{
					Kind: PropagationContradiction,
					Pos:  np,
					Step: e.steps,
					From: dir.Opposite(),
				})
				continue
			}

			if allowed.Len() < neighbor.Domain.Len() {
				before := neighbor.Domain
				neighbor.Domain = allowed
				e.narrowed(np, before, allowed)
				q.Enqueue(np)
			}
		}
	}
}

func (e *Engine) narrowed(pos Position, before, after Domain) {
	if e.OnNarrow != nil {
		e.OnNarrow(pos, before, after)
	}
}

// contradict records c unless its position was already reported
func (e *Engine) contradict(c Contradiction) {
	if e.contradicted.Has(c.Pos) {
		return
	}
	e.contradicted.Put(c.Pos)
	e.contradictions = append(e.contradictions, c)
	if e.OnContradiction != nil {
		e.OnContradiction(c)
	}
}
