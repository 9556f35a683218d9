// Package flow checks the bodies of resolved compilation units for
// definite assignment, reachability, jump targets and exception handling.
//
// Analysis walks statements forward carrying an Info, the set of variables
// definitely and potentially assigned at that point. Variables are numbered
// by the analyzer; the Info itself only sees bit positions.
package flow

import (
	"github.com/bits-and-blooms/bitset"
)

type state uint8

const (
	live state = iota
	// dead is unreachable code: nothing after it runs.
	dead
	// vacuous is reachable in the sense of the language rules but can
	// never run, such as the false branch of a constant true condition.
	// Every variable counts as definitely assigned in it.
	vacuous
)

// Info is the assignment state at a program point. A conditional Info,
// built for boolean expressions, carries separate states for when the
// expression is true and when it is false.
//
// Analysis updates infos in place; Copy before branching.
type Info struct {
	state     state
	assigned  *bitset.BitSet
	potential *bitset.BitSet

	whenTrue, whenFalse *Info
}

// DeadEnd is the state after a statement that cannot complete normally.
// It is never modified.
var DeadEnd = &Info{state: dead}

// vacuousInfo is the state of a branch a constant condition rules out.
var vacuousInfo = &Info{state: vacuous}

// NewInfo returns a reachable state with nothing assigned.
func NewInfo() *Info {
	return &Info{assigned: bitset.New(0), potential: bitset.New(0)}
}

// Conditional returns the state after a boolean expression.
func Conditional(whenTrue, whenFalse *Info) *Info {
	return &Info{whenTrue: whenTrue, whenFalse: whenFalse}
}

func (i *Info) isConditional() bool { return i.whenTrue != nil }

// Reachable reports whether code at this point can run. Constant-condition
// branches count as reachable.
func (i *Info) Reachable() bool {
	if i.isConditional() {
		return i.whenTrue.Reachable() || i.whenFalse.Reachable()
	}
	return i.state != dead
}

func (i *Info) isDead() bool {
	if i.isConditional() {
		return i.whenTrue.isDead() && i.whenFalse.isDead()
	}
	return i.state == dead
}

func (i *Info) IsDefinitelyAssigned(slot uint) bool {
	if i.isConditional() {
		return i.whenTrue.IsDefinitelyAssigned(slot) && i.whenFalse.IsDefinitelyAssigned(slot)
	}
	return i.state != live || i.assigned.Test(slot)
}

func (i *Info) IsPotentiallyAssigned(slot uint) bool {
	if i.isConditional() {
		return i.whenTrue.IsPotentiallyAssigned(slot) || i.whenFalse.IsPotentiallyAssigned(slot)
	}
	return i.state == live && i.potential.Test(slot)
}

// MarkAsDefinitelyAssigned records an assignment to slot and returns i.
// Unreachable states are left alone.
func (i *Info) MarkAsDefinitelyAssigned(slot uint) *Info {
	if i.isConditional() {
		i.whenTrue.MarkAsDefinitelyAssigned(slot)
		i.whenFalse.MarkAsDefinitelyAssigned(slot)
		return i
	}
	if i.state == live {
		i.assigned.Set(slot)
		i.potential.Set(slot)
	}
	return i
}

// markPotentiallyAssigned records that slot may have been assigned, as
// when a loop body assigns it on an earlier iteration.
func (i *Info) markPotentiallyAssigned(slots []uint) *Info {
	if i.isConditional() {
		i.whenTrue.markPotentiallyAssigned(slots)
		i.whenFalse.markPotentiallyAssigned(slots)
		return i
	}
	if i.state == live {
		for _, s := range slots {
			i.potential.Set(s)
		}
	}
	return i
}

// forget clears slot, as when a variable declared in a loop body comes
// into scope again.
func (i *Info) forget(slot uint) {
	if i.isConditional() {
		i.whenTrue.forget(slot)
		i.whenFalse.forget(slot)
		return
	}
	if i.state == live {
		i.assigned.Clear(slot)
		i.potential.Clear(slot)
	}
}

// Copy returns an independent copy. The unreachable sentinels copy to
// themselves.
func (i *Info) Copy() *Info {
	if i.isConditional() {
		return Conditional(i.whenTrue.Copy(), i.whenFalse.Copy())
	}
	if i.state != live {
		return i
	}
	return &Info{assigned: i.assigned.Clone(), potential: i.potential.Clone()}
}

// MergedWith returns the state where control from i and other joins:
// definitely assigned in both, potentially assigned in either. An
// unreachable side contributes nothing. Neither input is modified.
func (i *Info) MergedWith(other *Info) *Info {
	a, b := i.UnconditionalInits(), other.UnconditionalInits()
	switch {
	case a.state == dead:
		return b.Copy()
	case b.state == dead:
		return a.Copy()
	case a.state == vacuous:
		return b.Copy()
	case b.state == vacuous:
		return a.Copy()
	}
	out := a.Copy()
	out.assigned.InPlaceIntersection(b.assigned)
	out.potential.InPlaceUnion(b.potential)
	return out
}

// UnconditionalInits returns the state regardless of a boolean outcome.
func (i *Info) UnconditionalInits() *Info {
	if i.isConditional() {
		return i.whenTrue.MergedWith(i.whenFalse)
	}
	return i
}

// InitsWhenTrue returns the state when a boolean expression was true.
func (i *Info) InitsWhenTrue() *Info {
	if i.isConditional() {
		return i.whenTrue
	}
	return i
}

// InitsWhenFalse returns the state when a boolean expression was false.
func (i *Info) InitsWhenFalse() *Info {
	if i.isConditional() {
		return i.whenFalse
	}
	return i
}

// addAssignments adds the assignments of other to i, as happens when
// control passes through a finally block. It returns i.
func (i *Info) addAssignments(other *Info) *Info {
	other = other.UnconditionalInits()
	if i.isConditional() || i.state != live || other.state != live {
		return i
	}
	i.assigned.InPlaceUnion(other.assigned)
	i.potential.InPlaceUnion(other.potential)
	return i
}

// addPotential adds the potential assignments of other to i.
func (i *Info) addPotential(other *Info) *Info {
	other = other.UnconditionalInits()
	if i.isConditional() || i.state != live || other.state != live {
		return i
	}
	i.potential.InPlaceUnion(other.potential)
	return i
}

// Equal reports whether two states assign the same variables.
func (i *Info) Equal(other *Info) bool {
	a, b := i.UnconditionalInits(), other.UnconditionalInits()
	if a.state != live || b.state != live {
		return a.state == b.state
	}
	return a.assigned.SymmetricDifferenceCardinality(b.assigned) == 0 &&
		a.potential.SymmetricDifferenceCardinality(b.potential) == 0
}

func (i *Info) String() string {
	if i.isConditional() {
		return "true:" + i.whenTrue.String() + " false:" + i.whenFalse.String()
	}
	switch i.state {
	case dead:
		return "dead"
	case vacuous:
		return "vacuous"
	}
	return "assigned" + i.assigned.String() + " potential" + i.potential.String()
}
