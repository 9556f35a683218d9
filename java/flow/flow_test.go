package flow_test

import (
	"sort"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/env"
	"github.com/dhamidi/jfront/java/flow"
	"github.com/dhamidi/jfront/java/lookup"
	"github.com/dhamidi/jfront/java/parser"
	"github.com/dhamidi/jfront/java/problem"
)

type result struct {
	env      *lookup.Environment
	unit     *ast.CompilationUnit
	info     *lookup.Info
	problems []problem.Problem
}

// analyze resolves src against the bootstrap library and runs flow
// analysis over it. Resolution errors fail the test.
func analyze(t *testing.T, src string) *result {
	t.Helper()
	resolved := problem.NewCollector()
	e := lookup.NewEnvironment(env.Bootstrap(), resolved)
	p := parser.ParseCompilationUnit(strings.NewReader(src), parser.WithFile("Test.java"))
	unit := p.Finish()
	if p.ErrorCount() > 0 {
		t.Fatalf("syntax errors in test source: %v", p.Problems())
	}
	e.BuildTypeBindings(unit)
	e.CompleteTypeBindings(unit)
	info := e.ResolveUnit(unit)
	if resolved.ErrorCount() > 0 {
		t.Fatalf("resolution errors in test source: %v", resolved.Sorted())
	}
	collector := problem.NewCollector()
	n := flow.Analyze(unit, info, e, collector)
	if n != collector.ErrorCount() {
		t.Errorf("Analyze returned %d, collector has %d errors", n, collector.ErrorCount())
	}
	return &result{env: e, unit: unit, info: info, problems: collector.Sorted()}
}

func (r *result) ids() []problem.ID {
	var ids []problem.ID
	for _, p := range r.problems {
		ids = append(ids, p.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sorted(ids ...problem.ID) []problem.ID {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

const bodyTemplate = `
class E extends Exception {}
class T {
	boolean c;
	int k;
	void use(int i) {}
	void risky() throws E {}
	void m() {
BODY
	}
}
`

func analyzeBody(t *testing.T, body string) *result {
	t.Helper()
	return analyze(t, strings.Replace(bodyTemplate, "BODY", body, 1))
}

func TestBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []problem.ID
	}{
		{"if else assigns then use", `int x; if (c) x = 1; else x = 2; use(x);`, nil},
		{"if without else", `int x; if (c) x = 1; use(x);`, sorted(problem.UninitializedLocal)},
		{"constant true if", `int x; if (true) x = 1; use(x);`, nil},
		{"constant false if body is not unreachable", `if (false) { use(0); }`, nil},
		{"and assigns when true", `int x; if (c && (x = 1) > 0) use(x);`, nil},
		{"or does not assign when true", `int x; if (c || (x = 1) > 0) use(x);`, sorted(problem.UninitializedLocal)},
		{"negation swaps branches", `int x; if (!(c && (x = 1) > 0)) return; use(x);`, nil},
		{"conditional expression", `int x; boolean b = c ? (x = 1) > 0 : (x = 2) > 0; use(x);`, nil},
		{"loop with break", `int x; while (true) { x = 1; break; } use(x);`, nil},
		{"loop may not run", `int x; while (c) { x = 1; } use(x);`, sorted(problem.UninitializedLocal)},
		{"for each", `int x; for (int i : new int[0]) { x = i; } use(x);`, sorted(problem.UninitializedLocal)},
		{"do runs once", `int x; do { x = 1; } while (c); use(x);`, nil},

		{"code after return", `return; int y = 0;`, sorted(problem.UnreachableCode)},
		{"code after infinite loop", `while (true) {} int y = 0;`, sorted(problem.UnreachableCode)},
		{"code after infinite for", `for (;;) { use(0); } int y = 0;`, sorted(problem.UnreachableCode)},
		{"while false body", `while (false) { use(0); }`, sorted(problem.UnreachableCode)},
		{"code after throw", `throw new RuntimeException(); use(0);`, sorted(problem.UnreachableCode)},

		{"final reassigned", `final int x = 1; x = 2;`, sorted(problem.FinalReassignment)},
		{"blank final assigned once", `final int x; x = 1; use(x);`, nil},
		{"blank final assigned in loop", `final int x; while (c) { x = 1; }`, sorted(problem.FinalReassignment)},
		{"blank final in both branches", `final int x; if (c) x = 1; else x = 2; use(x);`, nil},
		{"final declared in loop body", `while (c) { final int x; x = 1; use(x); }`, nil},

		{"break outside loop", `break;`, sorted(problem.InvalidBreak)},
		{"continue outside loop", `continue;`, sorted(problem.InvalidContinue)},
		{"undefined label", `while (c) { break nowhere; }`, sorted(problem.UndefinedLabel)},
		{"continue names a block", `l: { continue l; }`, sorted(problem.InvalidContinue)},
		{"labeled break", `int x; l: { if (c) { x = 1; break l; } x = 2; } use(x);`, nil},
		{"labeled continue", `outer: for (int i = 0; i < 3; i++) { while (c) { continue outer; } }`, nil},
		{"invalid break is a no-op", `break; int x; use(x);`, sorted(problem.InvalidBreak, problem.UninitializedLocal)},

		{"unhandled exception", `risky();`, sorted(problem.UnhandledException)},
		{"caught exception", `try { risky(); } catch (E e) {}`, nil},
		{"caught by supertype", `try { risky(); } catch (Exception e) {}`, nil},
		{"unreachable catch", `try { use(0); } catch (E e) {}`, sorted(problem.UnreachableCatch)},
		{"catch Exception is always allowed", `try { use(0); } catch (Exception e) {}`, nil},
		{"unchecked catch is always allowed", `try { use(0); } catch (IllegalStateException e) {}`, nil},
		{"throw checked", `throw new E();`, sorted(problem.UnhandledException)},
		{"precise rethrow", `try { use(0); } catch (Exception e) { throw e; }`, nil},
		{"rethrow of caught checked", `try { risky(); } catch (Exception e) { throw e; }`, sorted(problem.UnhandledException)},
		{"unchecked needs no handler", `throw new IllegalStateException();`, nil},

		{"finally assigns", `int x; try { use(0); } finally { x = 1; } use(x);`, nil},
		{"try assigns but may throw", `int x; try { risky(); x = 1; } catch (E e) {} use(x);`, sorted(problem.UninitializedLocal)},
		{"finally that returns absorbs break", `while (c) { try { break; } finally { return; } }`, nil},
		{"finally that returns swallows exceptions", `try { risky(); } finally { return; }`, nil},

		{"switch with default", `int x; switch (k) { case 1: x = 1; break; default: x = 2; } use(x);`, nil},
		{"switch without default", `int x; switch (k) { case 1: x = 1; break; } use(x);`, sorted(problem.UninitializedLocal)},
		{"switch fallthrough", `int x; switch (k) { case 1: x = 1; case 2: use(x); break; default: }`, sorted(problem.UninitializedLocal)},
		{"arrow switch", `int x; switch (k) { case 1 -> x = 1; default -> x = 2; } use(x);`, nil},
		{"switch expression", `int x = switch (k) { case 1 -> 1; default -> { yield 2; } }; use(x);`, nil},
		{"break out of switch expression", `while (c) { int x = switch (k) { default -> { break; } }; }`, sorted(problem.InvalidBreak)},

		{"lambda reads unassigned", `int x; Runnable r = () -> use(x);`, sorted(problem.UninitializedLocal)},
		{"lambda reads assigned", `int x = 1; Runnable r = () -> use(x);`, nil},
		{"break inside lambda", `while (c) { Runnable r = () -> { break; }; }`, sorted(problem.InvalidBreak)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := analyzeBody(t, tt.body)
			if diff := cmp.Diff(tt.want, r.ids()); diff != "" {
				t.Errorf("problems mismatch (-want +got):\n%s\n%s", diff, spew.Sdump(r.problems))
			}
		})
	}
}

func TestMembers(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []problem.ID
	}{
		{"missing return", `class T { int m(boolean c) { if (c) return 1; } }`, sorted(problem.MissingReturn)},
		{"constant if still misses return", `class T { int m() { if (true) return 1; } }`, sorted(problem.MissingReturn)},
		{"ends in throw", `class T { int m() { throw new RuntimeException(); } }`, nil},
		{"ends in infinite loop", `class T { int m() { while (true) {} } }`, nil},
		{"returns on every path", `class T { int m(boolean c) { if (c) return 1; else return 2; } }`, nil},

		{"blank final assigned", `class T { final int x; T() { x = 1; } }`, nil},
		{"blank final on one path", `class T { final int x; T(boolean c) { if (c) x = 1; } }`, sorted(problem.UninitializedBlankFinal)},
		{"blank final without constructor", `class T { final int x; }`, sorted(problem.UninitializedBlankFinal)},
		{"blank final by initializer", `class T { final int x; { x = 1; } T() {} }`, nil},
		{"delegating constructor", `class T { final int x; T() { this(1); } T(int v) { x = v; } }`, nil},
		{"blank final assigned twice", `class T { final int x; T() { x = 1; this.x = 2; } }`, sorted(problem.FinalFieldAssignment)},
		{"final field assigned in method", `class T { final int x = 1; void m() { x = 2; } }`, sorted(problem.FinalFieldAssignment)},
		{"blank final read before assignment", `class T { final int x; final int y; T() { y = x; x = 1; } }`, sorted(problem.UninitializedBlankFinal)},
		{"static blank final", `class T { static final int X; static { X = 1; } }`, nil},
		{"static blank final missing", `class T { static final int X; }`, sorted(problem.UninitializedBlankFinal)},
		{"final parameter", `class T { void m(final int p) { p = 1; } }`, sorted(problem.FinalReassignment)},

		{"declared exception", `class E extends Exception {} class T { void r() throws E {} void m() throws E { r(); } }`, nil},
		{"initializer exception declared by constructors", `class E extends Exception {} class T { void r() throws E {} { r(); } T() throws E {} }`, nil},
		{"initializer exception not declared", `class E extends Exception {} class T { void r() throws E {} { r(); } T() {} }`, sorted(problem.UnhandledException)},
		{"implicit super call throws", `class E extends Exception {} class B { B() throws E {} } class T extends B { T() {} }`, sorted(problem.UnhandledException)},
		{"anonymous class body", `class T { void m() { Runnable r = new Runnable() { public void run() { int x; x++; } }; } }`, sorted(problem.UninitializedLocal)},
		{"local class sees captured locals", `class T { void m() { int x = 1; class L { int f() { return x; } } } }`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := analyze(t, tt.src)
			if diff := cmp.Diff(tt.want, r.ids()); diff != "" {
				t.Errorf("problems mismatch (-want +got):\n%s\n%s", diff, spew.Sdump(r.problems))
			}
		})
	}
}

func findAll[T ast.Node](n ast.Node) []T {
	var out []T
	ast.Inspect(n, func(n ast.Node) bool {
		if x, ok := n.(T); ok {
			out = append(out, x)
		}
		return true
	})
	return out
}

func sameBlocks(want, got []*ast.Block) bool {
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i] != got[i] {
			return false
		}
	}
	return true
}

func TestJumpsRecordSubroutines(t *testing.T) {
	r := analyzeBody(t, `
		while (c) {
			try {
				try {
					if (c) break;
					continue;
				} finally { use(1); }
			} finally { use(2); }
		}
		while (c) { break; }`)
	if len(r.problems) != 0 {
		t.Fatalf("unexpected problems: %v", r.problems)
	}
	tries := findAll[*ast.TryStmt](r.unit)
	if len(tries) != 2 {
		t.Fatalf("found %d try statements, want 2", len(tries))
	}
	outer, inner := tries[0].Finally, tries[1].Finally
	want := []*ast.Block{inner, outer}

	breaks := findAll[*ast.BreakStmt](r.unit)
	if len(breaks) != 2 {
		t.Fatalf("found %d break statements, want 2", len(breaks))
	}
	if !sameBlocks(want, breaks[0].Subroutines) {
		t.Errorf("break subroutines = %d blocks, want the inner then the outer finally", len(breaks[0].Subroutines))
	}
	if len(breaks[1].Subroutines) != 0 {
		t.Errorf("plain break has subroutines %v", breaks[1].Subroutines)
	}
	continues := findAll[*ast.ContinueStmt](r.unit)
	if len(continues) != 1 {
		t.Fatalf("found %d continue statements, want 1", len(continues))
	}
	if !sameBlocks(want, continues[0].Subroutines) {
		t.Errorf("continue subroutines = %d blocks, want the inner then the outer finally", len(continues[0].Subroutines))
	}
}

func TestUnreachableFlags(t *testing.T) {
	r := analyzeBody(t, `return; use(1); use(2);`)
	if diff := cmp.Diff(sorted(problem.UnreachableCode), r.ids()); diff != "" {
		t.Fatalf("problems mismatch (-want +got):\n%s", diff)
	}
	m := findAll[*ast.MethodDecl](r.unit)
	var body *ast.Block
	for _, md := range m {
		if md.NameString() == "m" {
			body = md.Body
		}
	}
	if body == nil || len(body.Stmts) != 3 {
		t.Fatalf("unexpected body %s", spew.Sdump(body))
	}
	for i, st := range body.Stmts {
		want := i > 0
		if got := st.Flags().Has(ast.Unreachable); got != want {
			t.Errorf("statement %d unreachable = %v, want %v", i, got, want)
		}
	}
}

func TestErroneousMembers(t *testing.T) {
	r := analyze(t, `class T { void ok() {} void bad() { int x; x++; } }`)
	for _, md := range findAll[*ast.MethodDecl](r.unit) {
		want := md.NameString() == "bad"
		if got := r.info.Erroneous[md]; got != want {
			t.Errorf("Erroneous[%s] = %v, want %v", md.NameString(), got, want)
		}
	}
}

func TestMemberAbortSkipsOnlyThatMember(t *testing.T) {
	r := analyze(t, `class T {
	void first() { int x; x++; int z; z++; }
	void second() { int y; y++; int w; w++; }
	void skipped() { int v; v++; }
}`)
	methods := make(map[string]*ast.MethodDecl)
	for _, md := range findAll[*ast.MethodDecl](r.unit) {
		methods[md.NameString()] = md
		delete(r.info.Erroneous, md)
	}
	r.info.Aborted[methods["skipped"]] = true

	var got []string
	stop := problem.ReporterFunc(func(p problem.Problem) {
		got = append(got, p.Message)
		problem.Raise(problem.AbortMethod, p.File, "%s", p.Message)
	})
	flow.Analyze(r.unit, r.info, r.env, stop)
	want := []string{
		"The local variable x may not have been initialized",
		"The local variable y may not have been initialized",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("reported problems (-want +got):\n%s", diff)
	}
	for _, name := range []string{"first", "second"} {
		if md := methods[name]; !r.info.Aborted[md] || !r.info.Erroneous[md] {
			t.Errorf("%s: aborted = %v, erroneous = %v", name, r.info.Aborted[md], r.info.Erroneous[md])
		}
	}
}
