package problem

import "fmt"

// AbortLevel is how much work an abort discards.
type AbortLevel int

const (
	AbortMethod AbortLevel = iota
	AbortType
	AbortCompilation
)

func (l AbortLevel) String() string {
	switch l {
	case AbortMethod:
		return "method"
	case AbortType:
		return "type"
	case AbortCompilation:
		return "compilation"
	}
	return "unknown"
}

// Abort is raised with panic inside the core when a member or unit cannot be
// processed further. It is recovered by Catch at the matching boundary.
type Abort struct {
	Level  AbortLevel
	Unit   string
	Reason string
}

func (a *Abort) Error() string {
	if a.Unit == "" {
		return fmt.Sprintf("%s aborted: %s", a.Level, a.Reason)
	}
	return fmt.Sprintf("%s aborted in %s: %s", a.Level, a.Unit, a.Reason)
}

// Raise panics with an Abort.
func Raise(level AbortLevel, unit, format string, args ...any) {
	panic(&Abort{Level: level, Unit: unit, Reason: fmt.Sprintf(format, args...)})
}

// Catch runs fn and recovers aborts at or below level. Aborts of a higher
// level and any other panic propagate. A recovered abort is returned.
func Catch(level AbortLevel, fn func()) (abort *Abort) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		a, ok := r.(*Abort)
		if !ok || a.Level > level {
			panic(r)
		}
		abort = a
	}()
	fn()
	return nil
}

// Outcome is how a unit's compilation ended.
type Outcome int

const (
	Completed Outcome = iota
	Aborted
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case Aborted:
		return "aborted"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}
