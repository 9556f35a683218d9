package problem

import (
	"sort"
	"sync"
)

// Reporter receives problems as they are discovered. Reporting never stops
// the phase that found the problem.
type Reporter interface {
	Report(p Problem)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(p Problem)

func (f ReporterFunc) Report(p Problem) { f(p) }

// Discard drops every problem.
var Discard Reporter = ReporterFunc(func(Problem) {})

type problemKey struct {
	id    ID
	file  string
	start int
	end   int
	msg   string
}

// Collector accumulates problems in report order and drops exact duplicates
// (same id, range and message). It is safe for concurrent use.
type Collector struct {
	mu       sync.Mutex
	problems []Problem
	seen     map[problemKey]struct{}

	// MinSeverity filters out problems less severe than this. The zero value
	// keeps errors only; NewCollector keeps everything.
	MinSeverity Severity
}

func NewCollector() *Collector {
	return &Collector{MinSeverity: SeverityInfo}
}

func (c *Collector) Report(p Problem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p.Severity > c.MinSeverity {
		return
	}
	if c.seen == nil {
		c.seen = make(map[problemKey]struct{})
	}
	key := problemKey{p.ID, p.File, p.Start, p.End, p.Message}
	if _, dup := c.seen[key]; dup {
		return
	}
	c.seen[key] = struct{}{}
	c.problems = append(c.problems, p)
}

// Problems returns a copy of the collected problems in report order.
func (c *Collector) Problems() []Problem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Problem, len(c.problems))
	copy(out, c.problems)
	return out
}

// Sorted returns the problems ordered by file and start offset.
func (c *Collector) Sorted() []Problem {
	out := c.Problems()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].Start < out[j].Start
	})
	return out
}

func (c *Collector) ErrorCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, p := range c.problems {
		if p.IsError() {
			n++
		}
	}
	return n
}

func (c *Collector) HasErrors() bool {
	return c.ErrorCount() > 0
}

func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.problems)
}

// Reset drops all collected problems.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.problems = nil
	c.seen = nil
}

// Tee forwards every problem to all reporters.
func Tee(reporters ...Reporter) Reporter {
	return ReporterFunc(func(p Problem) {
		for _, r := range reporters {
			if r != nil {
				r.Report(p)
			}
		}
	})
}

// WithFile stamps a file name on problems that have none.
func WithFile(r Reporter, file string) Reporter {
	return ReporterFunc(func(p Problem) {
		if p.File == "" {
			p.File = file
		}
		r.Report(p)
	})
}
