// Simulated quantum cell state machine
package cell

import (
	"math/rand"
)

// Bit is a collapsed measurement outcome.
type Bit int

// Measurement outcomes.
const (
	Zero Bit = 0
	One  Bit = 1
)

func (b Bit) String() string {
	if b == One {
		return "1"
	}
	return "0"
}

// PreState is the symbolic superposition label a cell shows before collapse.
type PreState string

// Pre-measurement state labels.
const (
	PreZero  PreState = "|0⟩"
	PreOne   PreState = "|1⟩"
	PrePlus  PreState = "|+⟩"
	PreMinus PreState = "|-⟩"
)

// PreStates lists the labels a fresh cell may be initialized with.
var PreStates = []PreState{PreZero, PreOne, PrePlus, PreMinus}

// Cell models a single simulated quantum trap cell. Before the first
// observation it carries only a symbolic pre-state; the first measurement or
// intrusion collapses it to a binary value that stays fixed until Reset.
//
// Cell itself is not safe for concurrent use; callers serialize access.
type Cell struct {
	rng       *rand.Rand
	preState  PreState
	collapsed bool
	value     Bit
}

// New returns an uncollapsed cell with a uniformly random pre-state.
func New(rng *rand.Rand) *Cell {
	c := &Cell{rng: rng}
	c.reinitialize()
	return c
}

func (c *Cell) reinitialize() {
	c.preState = PreStates[c.rng.Intn(len(PreStates))]
	c.collapsed = false
	c.value = Zero
}

func (c *Cell) collapse() Bit {
	c.value = Bit(c.rng.Intn(2))
	c.collapsed = true
	return c.value
}

// Measure collapses the cell on first call and returns the outcome. Repeated
// calls return the stored value without re-randomizing.
func (c *Cell) Measure() Bit {
	if c.collapsed {
		return c.value
	}
	return c.collapse()
}

// IntrusionAttempt observes the cell through the intrusion path. The returned
// flag reports whether this attempt caused the collapse; on an already
// collapsed cell the stored value is returned unchanged.
func (c *Cell) IntrusionAttempt() (causedCollapse bool, v Bit) {
	if c.collapsed {
		return false, c.value
	}
	return true, c.collapse()
}

// Reset discards the collapse and re-randomizes the pre-state, yielding a
// logically fresh cell.
func (c *Cell) Reset() {
	c.reinitialize()
}

// Collapsed reports whether the cell holds a concrete value.
func (c *Cell) Collapsed() bool {
	return c.collapsed
}

// Value returns the collapsed value. The bool is false while the cell is
// still in superposition.
func (c *Cell) Value() (Bit, bool) {
	if !c.collapsed {
		return Zero, false
	}
	return c.value, true
}

// PreState returns the symbolic label chosen at creation or last reset. It
// stays readable after collapse for display purposes.
func (c *Cell) PreState() PreState {
	return c.preState
}

// DisplayState renders the cell for status views: the pre-state label while
// uncollapsed, the binary outcome afterwards.
func (c *Cell) DisplayState() string {
	if c.collapsed {
		return c.value.String()
	}
	return string(c.preState)
}
