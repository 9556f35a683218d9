package codegen_test

import (
	"bytes"
	"path"
	"sort"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/jfront/classfile"
	"github.com/dhamidi/jfront/java/codegen"
	"github.com/dhamidi/jfront/java/env"
	"github.com/dhamidi/jfront/java/flow"
	"github.com/dhamidi/jfront/java/lookup"
	"github.com/dhamidi/jfront/java/parser"
	"github.com/dhamidi/jfront/java/problem"
)

type generated struct {
	classes  map[string]*classfile.ClassFile
	warnings []problem.Problem
}

// generate runs the whole pipeline over src and decodes every class it
// produced. Syntax errors fail the test; other errors become problem
// methods, as they would for the compiler.
func generate(t *testing.T, file, src string) *generated {
	t.Helper()
	collector := problem.NewCollector()
	e := lookup.NewEnvironment(env.Bootstrap(), collector)
	p := parser.ParseCompilationUnit(strings.NewReader(src), parser.WithFile(file))
	unit := p.Finish()
	if p.ErrorCount() > 0 {
		t.Fatalf("syntax errors in test source: %v", p.Problems())
	}
	e.BuildTypeBindings(unit)
	e.CompleteTypeBindings(unit)
	info := e.ResolveUnit(unit)
	flow.Analyze(unit, info, e, collector)

	warnings := problem.NewCollector()
	out, err := codegen.Generate(unit, info, e,
		codegen.WithProblems(collector.Sorted()),
		codegen.WithReporter(warnings))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	g := &generated{classes: make(map[string]*classfile.ClassFile), warnings: warnings.Sorted()}
	for _, o := range out {
		cf, err := classfile.Parse(bytes.NewReader(o.Data))
		if err != nil {
			t.Fatalf("generated class %s does not parse: %v", o.Name, err)
		}
		if cf.ClassName() != o.Name {
			t.Errorf("class file of %s names itself %s", o.Name, cf.ClassName())
		}
		g.classes[o.Name] = cf
	}
	return g
}

func (g *generated) names() []string {
	var names []string
	for n := range g.classes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (g *generated) class(t *testing.T, name string) *classfile.ClassFile {
	t.Helper()
	cf, ok := g.classes[name]
	if !ok {
		t.Fatalf("no class %s, have %v", name, g.names())
	}
	return cf
}

func method(t *testing.T, cf *classfile.ClassFile, name, desc string) *classfile.MethodInfo {
	t.Helper()
	m := cf.GetMethod(name, desc)
	if m == nil {
		var have []string
		for _, m := range cf.Methods {
			have = append(have, m.Name(cf.ConstantPool)+m.Descriptor(cf.ConstantPool))
		}
		t.Fatalf("%s has no method %s%s, have %v", cf.ClassName(), name, desc, have)
	}
	return m
}

func field(t *testing.T, cf *classfile.ClassFile, name, desc string) *classfile.FieldInfo {
	t.Helper()
	f := cf.GetField(name)
	if f == nil {
		t.Fatalf("%s has no field %s", cf.ClassName(), name)
	}
	if got := f.Descriptor(cf.ConstantPool); got != desc {
		t.Errorf("field %s descriptor = %q, want %q", name, got, desc)
	}
	return f
}

// poolStrings returns the String constants of a class.
func poolStrings(cf *classfile.ClassFile) []string {
	var out []string
	for i := range cf.ConstantPool {
		if s := cf.ConstantPool.GetString(uint16(i + 1)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func hasPoolString(cf *classfile.ClassFile, pred func(string) bool) bool {
	for _, s := range poolStrings(cf) {
		if pred(s) {
			return true
		}
	}
	return false
}

func unsupported(g *generated) []problem.Problem {
	var out []problem.Problem
	for _, p := range g.warnings {
		if p.ID == problem.CodegenUnsupported {
			out = append(out, p)
		}
	}
	return out
}

const shapeSource = `package p;
import java.util.List;
public class A<T> {
	public static final int K = 42;
	static final String S = "s";
	List<T> items;
	private int secret;
	public int add(int a, long b) { return a + (int) b; }
	class Inner { int peek() { return secret; } }
	static class Nested {}
	Runnable task(final int n) {
		return new Runnable() { public void run() { int m = n; } };
	}
}
`

func TestClassShape(t *testing.T) {
	g := generate(t, "p/A.java", shapeSource)
	want := []string{"p/A", "p/A$1", "p/A$Inner", "p/A$Nested"}
	if diff := cmp.Diff(want, g.names()); diff != "" {
		t.Fatalf("classes (-want +got):\n%s", diff)
	}
	if u := unsupported(g); len(u) > 0 {
		t.Fatalf("unexpected warnings: %v", u)
	}

	a := g.class(t, "p/A")
	if got := a.SuperClassName(); got != "java/lang/Object" {
		t.Errorf("super = %q", got)
	}
	if !a.AccessFlags.IsPublic() {
		t.Errorf("A is not public: %#x", a.AccessFlags)
	}
	if got, want := a.Signature(), "<T:Ljava/lang/Object;>Ljava/lang/Object;"; got != want {
		t.Errorf("class signature = %q, want %q", got, want)
	}
	if got := a.SourceFile(); got != path.Base("p/A.java") {
		t.Errorf("SourceFile = %q", got)
	}

	k := field(t, a, "K", "I")
	if v, ok := k.ConstantValue(a.ConstantPool); !ok || v != int32(42) {
		t.Errorf("K ConstantValue = %v, %v", v, ok)
	}
	s := field(t, a, "S", "Ljava/lang/String;")
	if v, ok := s.ConstantValue(a.ConstantPool); !ok || v != "s" {
		t.Errorf("S ConstantValue = %v, %v", v, ok)
	}
	items := field(t, a, "items", "Ljava/util/List;")
	if got := items.Signature(a.ConstantPool); got != "Ljava/util/List<TT;>;" {
		t.Errorf("items signature = %q", got)
	}
	if secret := field(t, a, "secret", "I"); secret.AccessFlags.IsPrivate() {
		t.Errorf("secret is used by Inner and should not stay private")
	}

	add := method(t, a, "add", "(IJ)I")
	if add.Code(a.ConstantPool) == nil {
		t.Errorf("add has no code")
	}
	method(t, a, "<init>", "()V")

	inner := g.class(t, "p/A$Inner")
	field(t, inner, "this$0", "Lp/A;")
	method(t, inner, "<init>", "(Lp/A;)V")
	ic, ok := inner.OwnInnerClass()
	if !ok || ic.Outer != "p/A" || ic.SimpleName != "Inner" {
		t.Errorf("Inner InnerClasses entry = %+v, %v", ic, ok)
	}

	nested := g.class(t, "p/A$Nested")
	if nested.GetField("this$0") != nil {
		t.Errorf("static nested class has an enclosing instance")
	}
	if ic, ok := nested.OwnInnerClass(); !ok || !ic.AccessFlags.IsStatic() {
		t.Errorf("Nested InnerClasses entry = %+v, %v", ic, ok)
	}

	anon := g.class(t, "p/A$1")
	field(t, anon, "val$n", "I")
	method(t, anon, "<init>", "(Lp/A;I)V")
	method(t, anon, "run", "()V")
	if diff := cmp.Diff([]string{"java/lang/Runnable"}, anon.InterfaceNames()); diff != "" {
		t.Errorf("anonymous interfaces (-want +got):\n%s", diff)
	}
	if ic, ok := anon.OwnInnerClass(); !ok || ic.Outer != "" || ic.SimpleName != "" {
		t.Errorf("anonymous InnerClasses entry = %+v, %v", ic, ok)
	}
}

func TestEnum(t *testing.T) {
	g := generate(t, "Color.java", `
enum Color {
	RED, GREEN;
	static Color first() { return RED; }
	int rank() {
		switch (this) {
		case RED: return 1;
		default: return 2;
		}
	}
}
`)
	if u := unsupported(g); len(u) > 0 {
		t.Fatalf("unexpected warnings: %v", u)
	}
	c := g.class(t, "Color")
	if !c.AccessFlags.IsEnum() || !c.AccessFlags.IsFinal() {
		t.Errorf("enum flags = %#x", c.AccessFlags)
	}
	if got := c.SuperClassName(); got != "java/lang/Enum" {
		t.Errorf("super = %q", got)
	}
	for _, name := range []string{"RED", "GREEN"} {
		f := field(t, c, name, "LColor;")
		if !f.AccessFlags.IsEnum() || !f.AccessFlags.IsStatic() || !f.AccessFlags.IsFinal() {
			t.Errorf("%s flags = %#x", name, f.AccessFlags)
		}
	}
	if f := field(t, c, "$VALUES", "[LColor;"); !f.AccessFlags.IsSynthetic() {
		t.Errorf("$VALUES is not synthetic")
	}
	method(t, c, "values", "()[LColor;")
	method(t, c, "valueOf", "(Ljava/lang/String;)LColor;")
	method(t, c, "<init>", "(Ljava/lang/String;I)V")
	clinit := method(t, c, "<clinit>", "()V")
	if clinit.Code(c.ConstantPool) == nil {
		t.Errorf("<clinit> has no code")
	}
	if !hasPoolString(c, func(s string) bool { return s == "GREEN" }) {
		t.Errorf("constant names missing from the pool: %v", poolStrings(c))
	}
}

func TestEnumConstantBody(t *testing.T) {
	g := generate(t, "Op.java", `
enum Op {
	PLUS { int apply(int a, int b) { return a + b; } },
	MINUS { int apply(int a, int b) { return a - b; } };
	abstract int apply(int a, int b);
}
`)
	if u := unsupported(g); len(u) > 0 {
		t.Fatalf("unexpected warnings: %v", u)
	}
	op := g.class(t, "Op")
	if op.AccessFlags.IsFinal() {
		t.Errorf("enum with constant bodies is final")
	}
	plus := g.class(t, "Op$1")
	if got := plus.SuperClassName(); got != "Op" {
		t.Errorf("constant body super = %q", got)
	}
	method(t, plus, "apply", "(II)I")
	g.class(t, "Op$2")
}

func TestRecord(t *testing.T) {
	g := generate(t, "Point.java", `record Point(int x, int y) {}`)
	if u := unsupported(g); len(u) > 0 {
		t.Fatalf("unexpected warnings: %v", u)
	}
	c := g.class(t, "Point")
	if got := c.SuperClassName(); got != "java/lang/Record" {
		t.Errorf("super = %q", got)
	}
	if !c.AccessFlags.IsFinal() {
		t.Errorf("record is not final")
	}
	for _, name := range []string{"x", "y"} {
		f := field(t, c, name, "I")
		if !f.AccessFlags.IsPrivate() || !f.AccessFlags.IsFinal() {
			t.Errorf("component field %s flags = %#x", name, f.AccessFlags)
		}
		method(t, c, name, "()I")
	}
	method(t, c, "<init>", "(II)V")
}

func TestProblemMethod(t *testing.T) {
	g := generate(t, "B.java", `
class B {
	int broken() { return missing; }
	int fine() { return 1; }
}
`)
	b := g.class(t, "B")
	method(t, b, "broken", "()I")
	method(t, b, "fine", "()I")
	found := hasPoolString(b, func(s string) bool {
		return strings.HasPrefix(s, "Unresolved compilation problem") && strings.Contains(s, "missing")
	})
	if !found {
		t.Errorf("no problem message in pool: %s", spew.Sdump(poolStrings(b)))
	}
	if u := unsupported(g); len(u) != 0 {
		t.Errorf("errors should not be reported as unsupported: %v", u)
	}
}

func TestUnsupportedConstruct(t *testing.T) {
	g := generate(t, "L.java", `
class L {
	Runnable r() { return () -> {}; }
}
`)
	u := unsupported(g)
	if len(u) != 1 {
		t.Fatalf("warnings = %v, want one unsupported construct", g.warnings)
	}
	if u[0].IsError() {
		t.Errorf("unsupported construct is reported as an error")
	}
	if u[0].File != "L.java" || u[0].Line != 3 {
		t.Errorf("warning location = %s:%d", u[0].File, u[0].Line)
	}
	l := g.class(t, "L")
	method(t, l, "r", "()Ljava/lang/Runnable;")
	found := hasPoolString(l, func(s string) bool {
		return strings.Contains(s, "Code generation for lambda expressions is not supported")
	})
	if !found {
		t.Errorf("no problem message in pool: %v", poolStrings(l))
	}
}

func TestTypeAbortDropsOnlyThatType(t *testing.T) {
	src := `
class Fine { int one() { return 1; } }
class Lambda { Runnable r() { return () -> {}; } }
class Other { int two() { return 2; } }
`
	e := lookup.NewEnvironment(env.Bootstrap(), problem.Discard)
	unit := parser.ParseCompilationUnit(strings.NewReader(src), parser.WithFile("T.java")).Finish()
	info := e.ResolveUnit(unit)
	// The reporter abandons the whole type on the first problem it sees.
	abandon := problem.ReporterFunc(func(p problem.Problem) {
		problem.Raise(problem.AbortType, p.File, "%s", p.Message)
	})
	out, err := codegen.Generate(unit, info, e, codegen.WithReporter(abandon))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	var names []string
	for _, o := range out {
		names = append(names, o.Name)
	}
	if diff := cmp.Diff([]string{"Fine", "Other"}, names); diff != "" {
		t.Errorf("generated classes (-want +got):\n%s", diff)
	}
}

const bodyTemplate = `
import java.util.List;
import java.util.ArrayList;
class C {
	int f;
	static int sf;
	int[] arr = {1, 2, 3};
	static int sum(int... xs) { int t = 0; for (int x : xs) t += x; return t; }
	int m(int a, String s, List<String> xs, Object o) throws Exception {
BODY
		return 0;
	}
}
`

func TestSupportedBodies(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		handlers bool
	}{
		{"arithmetic", "int x = a + 1; x++; x += 2; f = x * 2; sf -= f;", false},
		{"conversions", "long l = a; l <<= 2; double d = l / 3.0; float g = (float) d; byte b = (byte) a; b += 1; char c = 'x'; c++;", false},
		{"shifts", "long big = 1L << 40; f = (int) (big >>> 3); f = ~f; f = -f;", false},
		{"concat", "String t = s + a + 'c' + 1.5 + o; t += a;", false},
		{"for", "for (int i = 0; i < a; i++) { if (i == 3) continue; if (i > 5) break; }", false},
		{"while", "while (a > 0) { a--; } do { a++; } while (a < 10);", false},
		{"foreach", "for (String x : xs) { f += x.length(); } for (int v : arr) { f += v; }", false},
		{"labels", "outer: for (int i = 0; i < 3; i++) { for (int j = 0; j < 3; j++) { if (j == i) continue outer; if (j > i) break outer; } }", false},
		{"int switch", "switch (a) { case 1: f = 1; break; case 100: f = 2; break; default: f = 3; }", false},
		{"string switch", `switch (s) { case "x": f = 1; break; case "y": f = 2; }`, false},
		{"switch expression", "int r = switch (a) { case 1 -> 10; case 2 -> { yield 20; } default -> 30; }; f = r;", false},
		{"try catch finally", "try { f = a / 0; } catch (ArithmeticException e) { f = -1; } finally { sf++; }", true},
		{"return through finally", "try { if (a > 0) return a; } finally { f = 0; }", true},
		{"multi catch", "try { f = a / 0; } catch (ArithmeticException | IllegalStateException e) { f = e.hashCode(); }", true},
		{"try with resources", "try (AutoCloseable res = null) { f = 1; }", true},
		{"synchronized", "synchronized (this) { f++; }", true},
		{"boxing", "Integer boxed = a; int unboxed = boxed; Object obj = 1; f = unboxed + obj.hashCode();", false},
		{"instanceof pattern", "if (o instanceof String str && str.isEmpty()) { f = 1; }", false},
		{"arrays", "int[][] grid = new int[3][4]; grid[1][2] = a; Object[] objs = {o, s}; f = grid[1].length + objs.length;", false},
		{"casts", "String cast = (String) o; String[] parts = new String[a]; parts[0] = cast; f = parts.length;", false},
		{"conditionals", "boolean p = a > 0 && (o != null || s == null); f = p ? 1 : 0;", false},
		{"assert", `assert a >= 0 : "negative";`, false},
		{"generic calls", "List<String> copy = new ArrayList<String>(); copy.add(s); String first = copy.get(0); f = first.length();", false},
		{"varargs", "f = sum(1, 2, 3) + sum();", false},
		{"anonymous class", "Runnable run = new Runnable() { public void run() { f = a; } }; run.run();", false},
		{"local class", "class Local { int v() { return a + f; } } f = new Local().v();", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := generate(t, "C.java", strings.Replace(bodyTemplate, "BODY", tt.body, 1))
			if u := unsupported(g); len(u) > 0 {
				t.Fatalf("unexpected warnings: %v", u)
			}
			c := g.class(t, "C")
			if hasPoolString(c, func(s string) bool { return strings.HasPrefix(s, "Unresolved compilation problem") }) {
				t.Fatalf("body compiled to a problem method: %v", poolStrings(c))
			}
			code := method(t, c, "m", "(ILjava/lang/String;Ljava/util/List;Ljava/lang/Object;)I").Code(c.ConstantPool)
			if code == nil {
				t.Fatalf("m has no code")
			}
			if code.MaxLocals < 5 {
				t.Errorf("max_locals = %d, want at least 5", code.MaxLocals)
			}
			if got := len(code.ExceptionTable) > 0; got != tt.handlers {
				t.Errorf("exception handlers = %d, want handlers: %v", len(code.ExceptionTable), tt.handlers)
			}
		})
	}
}
