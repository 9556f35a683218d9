package compiler

import (
	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/codegen"
	"github.com/dhamidi/jfront/java/lookup"
	"github.com/dhamidi/jfront/java/problem"
)

// UnitResult is what compiling one source unit produced.
type UnitResult struct {
	File     string
	Unit     *ast.CompilationUnit
	Info     *lookup.Info
	Problems []problem.Problem
	Classes  []*codegen.Output
	Outcome  problem.Outcome
	// Abort is set when Outcome is Aborted.
	Abort *problem.Abort
	// Err is a failure to encode or store the unit's class files.
	Err error
}

func (r *UnitResult) ErrorCount() int {
	n := 0
	for _, p := range r.Problems {
		if p.IsError() {
			n++
		}
	}
	return n
}

// Failed reports whether the unit has errors or did not complete.
func (r *UnitResult) Failed() bool {
	return r.Outcome != problem.Completed || r.Err != nil || r.ErrorCount() > 0
}

// Summary counts the results of a compilation.
type Summary struct {
	Units     int
	Classes   int
	Errors    int
	Warnings  int
	Aborted   int
	Cancelled int
}

func Summarize(results []*UnitResult) Summary {
	var s Summary
	for _, r := range results {
		s.Units++
		s.Classes += len(r.Classes)
		for _, p := range r.Problems {
			switch p.Severity {
			case problem.SeverityError:
				s.Errors++
			case problem.SeverityWarning:
				s.Warnings++
			}
		}
		switch r.Outcome {
		case problem.Aborted:
			s.Aborted++
		case problem.Cancelled:
			s.Cancelled++
		}
	}
	return s
}
