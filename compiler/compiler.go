// Package compiler drives compilation units through the front end: parse,
// build and complete type bindings, resolve bodies, analyze flow and
// generate class files.
//
// A Compiler holds configuration only. Every call to Compile creates its
// own lookup.Environment, so a Compiler can be shared between goroutines.
package compiler

import (
	"bytes"
	"context"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/codegen"
	"github.com/dhamidi/jfront/java/flow"
	"github.com/dhamidi/jfront/java/lookup"
	"github.com/dhamidi/jfront/java/parser"
	"github.com/dhamidi/jfront/java/problem"
)

var log = commonlog.GetLogger("jfront.compiler")

type Option func(*Compiler)

// WithSourceLevel sets the language level units are parsed at.
func WithSourceLevel(level parser.SourceLevel) Option {
	return func(c *Compiler) { c.level = level }
}

// WithConsumer receives the class files of every unit that completed.
func WithConsumer(consumer ClassFileConsumer) Option {
	return func(c *Compiler) { c.consumer = consumer }
}

// WithWarnings controls whether warnings and infos are kept in the results.
// They are kept by default.
func WithWarnings(keep bool) Option {
	return func(c *Compiler) { c.warnings = keep }
}

// WithMaxErrors aborts a unit once it has reported n errors. Zero means no
// limit.
func WithMaxErrors(n int) Option {
	return func(c *Compiler) { c.maxErrors = n }
}

// WithProceedOnError passes the class files of units with errors to the
// consumer. Their erroneous methods throw java.lang.Error when called.
func WithProceedOnError() Option {
	return func(c *Compiler) { c.proceedOnError = true }
}

// WithCheckOnly stops after flow analysis; no class files are generated.
func WithCheckOnly() Option {
	return func(c *Compiler) { c.checkOnly = true }
}

// WithReporter receives every problem as it is reported, in addition to
// the per unit results. With CompileParallel it is called from several
// goroutines.
func WithReporter(r problem.Reporter) Option {
	return func(c *Compiler) { c.reporter = r }
}

type Compiler struct {
	names          lookup.NameEnvironment
	level          parser.SourceLevel
	consumer       ClassFileConsumer
	reporter       problem.Reporter
	warnings       bool
	maxErrors      int
	proceedOnError bool
	checkOnly      bool
}

// New creates a compiler answering referenced types from names.
func New(names lookup.NameEnvironment, opts ...Option) *Compiler {
	c := &Compiler{
		names:    names,
		level:    parser.LatestSourceLevel,
		warnings: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile compiles units against one environment and returns one result
// per unit, in the order given. The context is checked between units;
// once it is done the remaining units are marked Cancelled.
func (c *Compiler) Compile(ctx context.Context, units []*lookup.SourceUnit) []*UnitResult {
	run := c.newRun(units)
	run.compile(ctx)
	return run.results
}

// run is the state of one Compile call.
type run struct {
	c       *Compiler
	env     *lookup.Environment
	results []*UnitResult
	byFile  map[string]*unitRun
	units   []*unitRun
}

type unitRun struct {
	source   *lookup.SourceUnit
	result   *UnitResult
	problems *problem.Collector
	done     bool
	// full is set once the unit has reached the error limit. Later
	// problems are dropped and the unit aborts when the running phase
	// returns.
	full bool
}

func (c *Compiler) newRun(units []*lookup.SourceUnit) *run {
	r := &run{c: c, byFile: make(map[string]*unitRun)}
	r.env = lookup.NewEnvironment(c.names, r, lookup.WithSourceLevel(c.level))
	for _, su := range units {
		collector := problem.NewCollector()
		if !c.warnings {
			collector.MinSeverity = problem.SeverityError
		}
		u := &unitRun{
			source:   su,
			result:   &UnitResult{File: su.FileName},
			problems: collector,
		}
		r.units = append(r.units, u)
		r.results = append(r.results, u.result)
		r.byFile[su.FileName] = u
	}
	return r
}

// Report routes a problem to the unit it belongs to. It never aborts:
// a unit that reached the error limit is aborted by the phase loop.
func (r *run) Report(p problem.Problem) {
	u := r.byFile[p.File]
	if u != nil && u.full {
		return
	}
	if r.c.reporter != nil {
		r.c.reporter.Report(p)
	}
	if u == nil {
		log.Debugf("problem outside the compiled units: %s", p)
		return
	}
	u.problems.Report(p)
	if limit := r.c.maxErrors; limit > 0 && p.IsError() && u.problems.ErrorCount() >= limit {
		u.full = true
	}
}

// checkLimit aborts the running unit once it reached the error limit.
func (r *run) checkLimit(u *unitRun) {
	if u.full {
		problem.Raise(problem.AbortCompilation, u.source.FileName, "too many errors (%d)", r.c.maxErrors)
	}
}

func (r *run) compile(ctx context.Context) {
	phases := []struct {
		name string
		fn   func(u *unitRun)
	}{
		{"parse", r.parse},
		{"build", func(u *unitRun) { r.env.BuildTypeBindings(u.result.Unit) }},
		{"complete", func(u *unitRun) { r.env.CompleteTypeBindings(u.result.Unit) }},
		{"resolve", r.finish},
	}
	for _, ph := range phases {
		for _, u := range r.units {
			if u.done {
				continue
			}
			if err := ctx.Err(); err != nil {
				r.cancel(err)
				return
			}
			r.step(u, ph.name, ph.fn)
		}
	}
	for _, u := range r.units {
		if !u.done {
			u.result.Outcome = problem.Completed
			r.close(u)
		}
	}
}

// step runs one phase for a unit and turns an abort into the unit's
// outcome.
func (r *run) step(u *unitRun, phase string, fn func(u *unitRun)) {
	a := problem.Catch(problem.AbortCompilation, func() {
		r.checkLimit(u)
		fn(u)
		r.checkLimit(u)
	})
	if a == nil {
		return
	}
	if a.Unit == "" {
		a.Unit = u.source.FileName
	}
	log.Infof("%s: %s", phase, a)
	u.result.Outcome = problem.Aborted
	u.result.Abort = a
	r.close(u)
}

func (r *run) cancel(err error) {
	log.Infof("compilation cancelled: %s", err)
	for _, u := range r.units {
		if !u.done {
			u.result.Outcome = problem.Cancelled
			r.close(u)
		}
	}
}

func (r *run) close(u *unitRun) {
	u.done = true
	u.result.Problems = u.problems.Sorted()
	log.Debugf("%s: %s with %d problems", u.source.FileName, u.result.Outcome, len(u.result.Problems))
}

func (r *run) parse(u *unitRun) {
	p := parser.ParseCompilationUnit(bytes.NewReader(u.source.Contents),
		parser.WithFile(u.source.FileName),
		parser.WithSourceLevel(r.c.level))
	u.result.Unit = p.Finish()
	for _, pr := range p.Problems() {
		r.Report(pr)
	}
}

// finish resolves a unit, analyzes it and generates its class files.
func (r *run) finish(u *unitRun) {
	unit := u.result.Unit
	u.result.Info = r.env.ResolveUnit(unit)
	r.checkLimit(u)
	flow.Analyze(unit, u.result.Info, r.env, r)
	r.checkLimit(u)
	if r.c.checkOnly {
		return
	}
	r.generate(u, unit)
}

func (r *run) generate(u *unitRun, unit *ast.CompilationUnit) {
	classes, err := codegen.Generate(unit, u.result.Info, r.env,
		codegen.WithProblems(u.problems.Sorted()),
		codegen.WithReporter(r))
	u.result.Classes = classes
	if err != nil {
		u.result.Err = err
		return
	}
	if r.c.consumer == nil {
		return
	}
	if u.problems.HasErrors() && !r.c.proceedOnError {
		log.Debugf("%s: class files withheld because of errors", u.source.FileName)
		return
	}
	for _, o := range classes {
		if err := r.c.consumer.Accept(o.Name, o.Data); err != nil {
			u.result.Err = err
			return
		}
	}
}
