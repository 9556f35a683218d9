package lookup_test

import (
	"sort"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/constant"
	"github.com/dhamidi/jfront/java/env"
	"github.com/dhamidi/jfront/java/lookup"
	"github.com/dhamidi/jfront/java/parser"
	"github.com/dhamidi/jfront/java/problem"
)

type fixture struct {
	env      *lookup.Environment
	unit     *ast.CompilationUnit
	info     *lookup.Info
	problems *problem.Collector
}

// resolve compiles src as Test.java against the bootstrap library and the
// extra source files given as path/contents pairs.
func resolve(t *testing.T, src string, extra ...string) *fixture {
	t.Helper()
	mem := env.NewMemory()
	for i := 0; i+1 < len(extra); i += 2 {
		mem.Add(extra[i], []byte(extra[i+1]))
	}
	collector := problem.NewCollector()
	e := lookup.NewEnvironment(env.Chain{mem, env.Bootstrap()}, collector)
	p := parser.ParseCompilationUnit(strings.NewReader(src), parser.WithFile("Test.java"))
	unit := p.Finish()
	if p.ErrorCount() > 0 {
		t.Fatalf("syntax errors in test source: %v", p.Problems())
	}
	e.BuildTypeBindings(unit)
	e.CompleteTypeBindings(unit)
	info := e.ResolveUnit(unit)
	return &fixture{env: e, unit: unit, info: info, problems: collector}
}

func (f *fixture) ids() []problem.ID {
	var ids []problem.ID
	for _, p := range f.problems.Problems() {
		if p.IsError() {
			ids = append(ids, p.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (f *fixture) typeNamed(t *testing.T, name string) lookup.TypeID {
	t.Helper()
	id, ok := f.env.TypeByName(name)
	if !ok {
		t.Fatalf("type %s not found", name)
	}
	return id
}

// declarator finds the variable declarator with the given name.
func (f *fixture) declarator(t *testing.T, name string) *ast.VarDeclarator {
	t.Helper()
	var found *ast.VarDeclarator
	ast.Inspect(f.unit, func(n ast.Node) bool {
		if v, ok := n.(*ast.VarDeclarator); ok && v.Name.Name == name {
			found = v
		}
		return found == nil
	})
	if found == nil {
		t.Fatalf("no declarator named %s", name)
	}
	return found
}

func TestParameterizedArity(t *testing.T) {
	f := resolve(t, `
class Generic<T> {}
class Use {
	Generic<Number> one;
	Generic<Number, String> two;
}
`)
	e := f.env
	use := f.typeNamed(t, "Use")

	one := e.Type(e.Field(e.FindField(use, "one")).Type)
	if one.Kind != lookup.KindParameterized || len(one.Args) != 1 || one.Degraded {
		t.Errorf("Generic<Number> = %s", spew.Sdump(one))
	}

	two := e.Type(e.Field(e.FindField(use, "two")).Type)
	if two.Kind != lookup.KindParameterized {
		t.Fatalf("Generic<Number, String> kind = %v, want parameterized", two.Kind)
	}
	if !two.Degraded {
		t.Error("Generic<Number, String> is not marked degraded")
	}
	if got, want := len(two.Args), len(e.Type(two.Generic).TypeVars); got != want {
		t.Errorf("degraded binding has %d arguments, want %d", got, want)
	}
	if diff := cmp.Diff([]problem.ID{problem.IncorrectArityForParameterizedType}, f.ids()); diff != "" {
		t.Errorf("problems mismatch (-want +got):\n%s", diff)
	}
}

func TestSubstituteIdempotent(t *testing.T) {
	f := resolve(t, `class T {}`)
	e := f.env
	list := f.typeNamed(t, "java.util.List")
	str := e.StringType()

	p := e.Parameterize(list, []lookup.TypeID{str}, lookup.NoType)
	if again := e.Parameterize(list, []lookup.TypeID{str}, lookup.NoType); again != p {
		t.Fatalf("Parameterize is not canonical: %d and %d", p, again)
	}

	s := e.SubstitutionOf(p)
	elem := e.Type(list).TypeVars[0]
	tests := []struct {
		name string
		in   lookup.TypeID
		want lookup.TypeID
	}{
		{"type variable", elem, str},
		{"array of type variable", e.Array(elem, 2), e.Array(str, 2)},
		{"generic self", e.Parameterize(list, []lookup.TypeID{elem}, lookup.NoType), p},
		{"unrelated", e.Object(), e.Object()},
		{"primitive", e.Base(constant.TInt), e.Base(constant.TInt)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Substitute(s, tt.in)
			if got != tt.want {
				t.Errorf("Substitute(%s) = %s, want %s", e.TypeName(tt.in), e.TypeName(got), e.TypeName(tt.want))
			}
			if twice := e.Substitute(s, got); twice != got {
				t.Errorf("Substitute is not idempotent: %s then %s", e.TypeName(got), e.TypeName(twice))
			}
		})
	}
}

func TestUnresolvedSwap(t *testing.T) {
	f := resolve(t, `class T {}`)
	e := f.env

	ref := e.UnresolvedReference([]string{"java", "lang", "Integer"})
	if again := e.UnresolvedReference([]string{"java", "lang", "Integer"}); again != ref {
		t.Errorf("UnresolvedReference is not canonical: %d and %d", ref, again)
	}
	integer := f.typeNamed(t, "java.lang.Integer")
	if got := e.Resolve(ref); got != integer {
		t.Errorf("Resolve(placeholder) = %s, want Integer", e.TypeName(got))
	}
	if got := e.Resolve(e.Resolve(ref)); got != integer {
		t.Errorf("Resolve is not idempotent: %s", e.TypeName(got))
	}

	list := f.typeNamed(t, "java.util.List")
	pending := e.UnresolvedReference([]string{"java", "lang", "Long"})
	wrapped := e.Parameterize(list, []lookup.TypeID{pending}, lookup.NoType)
	arr := e.Array(wrapped, 1)
	long := e.Resolve(pending)
	if got := e.TypeName(long); got != "Long" && got != "java.lang.Long" {
		t.Fatalf("Resolve(placeholder) = %s, want Long", got)
	}
	canonical := e.Parameterize(list, []lookup.TypeID{long}, lookup.NoType)
	if got := e.Resolve(wrapped); got != canonical {
		t.Errorf("List<placeholder> resolved to %s (%d), want canonical %d", e.TypeName(got), got, canonical)
	}
	if args := e.Type(wrapped).Args; len(args) != 1 || e.Resolve(args[0]) != long {
		t.Errorf("List<placeholder> arguments = %v, want [%d]", args, long)
	}
	if got := e.Resolve(e.Type(arr).Elem); got != canonical {
		t.Errorf("List<placeholder>[] element = %s, want List<Long>", e.TypeName(got))
	}
	if got := e.Array(canonical, 1); e.Resolve(arr) != got {
		t.Errorf("List<placeholder>[] resolved to %d, want %d", e.Resolve(arr), got)
	}

	missing := e.UnresolvedReference([]string{"no", "such", "Type"})
	if k := e.Kind(missing); k != lookup.KindMissing {
		t.Errorf("unknown placeholder resolved to %v, want missing", k)
	}
	if e.Kind(missing) != e.Kind(e.Resolve(missing)) {
		t.Error("missing placeholder changed on second resolution")
	}
}

func TestConstructorResolution(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []problem.ID
	}{
		{"record canonical", "record Point(int x, int y) {}\nclass U { Object o = new Point(1, 2); }\n", nil},
		{"record has no default", "record Point(int x, int y) {}\nclass U { Object o = new Point(); }\n", []problem.ID{problem.UndefinedConstructor}},
		{"default calls no-arg super", "class P { P() {} }\nclass C extends P {}\n", nil},
		{"default without no-arg super", "class P { P(int x) {} }\nclass C extends P {}\n", []problem.ID{problem.UndefinedConstructor}},
		{"explicit super call", "class P { P(int x) {} }\nclass C extends P { C() { super(1); } }\n", nil},
		{"missing implicit super", "class P { P(int x) {} }\nclass C extends P { C() {} }\n", []problem.ID{problem.UndefinedConstructor}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := resolve(t, tt.src)
			if diff := cmp.Diff(tt.want, f.ids()); diff != "" {
				t.Errorf("problems mismatch (-want +got):\n%s\n%s", diff, spew.Sdump(f.problems.Problems()))
			}
		})
	}

	f := resolve(t, "record Point(int x, int y) {}\n")
	var arities []int
	for _, m := range f.env.Methods(f.typeNamed(t, "Point"), "<init>") {
		arities = append(arities, len(f.env.Method(m).Params))
	}
	if diff := cmp.Diff([]int{2}, arities); diff != "" {
		t.Errorf("record constructors mismatch (-want +got):\n%s", diff)
	}
}

func TestMemberAbortSkipsOnlyThatMember(t *testing.T) {
	deep := strings.Repeat("(", 1200) + "1" + strings.Repeat(")", 1200)
	f := resolve(t, "class T {\n"+
		"\tvoid deep() { int x = "+deep+"; int skipped = \"s\"; }\n"+
		"\tvoid other() { int y = \"s\"; }\n"+
		"\tint shallow = (((1)));\n"+
		"}\n")
	want := []problem.ID{problem.IncompatibleTypes, problem.ExpressionTooComplex}
	if diff := cmp.Diff(want, f.ids()); diff != "" {
		t.Errorf("problems mismatch (-want +got):\n%s", diff)
	}
	for _, md := range f.unit.Types[0].Methods() {
		aborted := md.NameString() == "deep"
		if got := f.info.Aborted[md]; got != aborted {
			t.Errorf("Aborted[%s] = %v, want %v", md.NameString(), got, aborted)
		}
		if !f.info.Erroneous[md] {
			t.Errorf("%s is not marked erroneous", md.NameString())
		}
	}
	if v := f.declarator(t, "shallow"); f.info.Erroneous[v] {
		t.Error("shallow initializer is marked erroneous")
	}
}

func TestResolveProblems(t *testing.T) {
	tests := []struct {
		name   string
		static bool
		body   string
		want   []problem.ID
	}{
		{"valid arithmetic", false, `int a = 1; long b = a + 2L; double c = b / 2.0; a += 3;`, nil},
		{"string concatenation", false, `String s = "a" + 1 + 'c' + 2.5;`, nil},
		{"constant narrowing", false, `byte b = 10; char c = 'x' + 1;`, nil},
		{"narrowing overflow", false, `byte b = 1000;`, []problem.ID{problem.IncompatibleTypes}},
		{"string to int", false, `int x = "s";`, []problem.ID{problem.IncompatibleTypes}},
		{"undefined name", false, `int x = nothing;`, []problem.ID{problem.UndefinedName}},
		{"undefined type", false, `Foo f = null;`, []problem.ID{problem.UndefinedType}},
		{"undefined method", false, `"s".nope();`, []problem.ID{problem.UndefinedMethod}},
		{"int out of range", false, `int i = 2147483648;`, []problem.ID{problem.IntegerOutOfRange}},
		{"most negative int", false, `int i = -2147483648; long l = -9223372036854775808L;`, nil},
		{"bad operand types", false, `boolean b = 1 + true;`, []problem.ID{problem.InvalidOperator}},
		{"index non-array", false, `int y = 1; int z = y[0];`, []problem.ID{problem.NotAnArray}},
		{"array length", false, `int[] a = {1, 2}; int n = a.length;`, nil},
		{"impossible cast", false, `Object o = (Integer) "s";`, []problem.ID{problem.InvalidCast}},
		{"lambda to Object", false, `Object o = () -> {};`, []problem.ID{problem.NotAFunctionalInterface}},
		{"lambda to Runnable", false, `Runnable r = () -> {};`, nil},
		{"this in static method", true, `Object o = this;`, []problem.ID{problem.ThisInStaticContext}},
		{"instance field from static", true, `int x = field;`, []problem.ID{problem.NonStaticFromStatic}},
		{"abstract class", false, `Object n = new Number();`, []problem.ID{problem.AbstractInstantiation}},
		{"duplicate local", false, `int a = 1; int a = 2;`, []problem.ID{problem.DuplicateLocal}},
		{"boxing", false, `Integer i = 5; int j = i + 1; Object o = j;`, nil},
		{"generic list", false, `java.util.List<String> l = new java.util.ArrayList<>(); String s = l.get(0);`, nil},
		{"generic mismatch", false, `java.util.List<String> l = null; Integer i = l.get(0);`, []problem.ID{problem.IncompatibleTypes}},
		{"void value", false, `int x = voidMethod();`, []problem.ID{problem.IncompatibleTypes}},
		{"return value from void", false, `return 1;`, []problem.ID{problem.VoidMethodReturnsValue}},
		{"non-boolean condition", false, `if (1) {}`, []problem.ID{problem.IncompatibleTypes}},
		{"pattern binding", false, `Object o = "s"; if (o instanceof String s) { int n = s.length(); }`, nil},
		{"float literal forms", false, `double d = 1.e3; float f = 1.f; double e = 2.D; double g = 1.;`, nil},
		{"unicode escaped name", false, `int \u0061bc = 1; int d = abc + \u0061\u0062c;`, nil},
		{"incompatible instanceof", false, `String s = ""; boolean b = s instanceof Integer;`, []problem.ID{problem.IncompatibleInstanceof}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod := ""
			if tt.static {
				mod = "static "
			}
			f := resolve(t, "class T {\n\tint field;\n\tvoid voidMethod() {}\n\t"+mod+"void m() {\n\t\t"+tt.body+"\n\t}\n}\n")
			if diff := cmp.Diff(tt.want, f.ids()); diff != "" {
				t.Errorf("problems mismatch (-want +got):\n%s\n%s", diff, spew.Sdump(f.problems.Problems()))
			}
		})
	}
}

func TestExpressionTypes(t *testing.T) {
	tests := []struct {
		expr     string
		typ      string
		constant string
	}{
		{"1 + 2", "int", "3"},
		{"1 + 2L", "long", "3"},
		{"'a' + 1", "int", "98"},
		{"1.5f * 2", "float", "3.0"},
		{`"x" + 1 + 2`, "String", "x12"},
		{"1 + 2 + \"x\"", "String", "3x"},
		{"(byte) 300", "byte", "44"},
		{"1 << 33", "int", "2"},
		{"true ? 'b' : 0", "char", "b"},
		{"10 / 3", "int", "3"},
		{"!false", "boolean", "true"},
		{"CONST * 2", "int", "84"},
		{"\"s\".length()", "int", ""},
		{"new int[3]", "int[]", ""},
		{"Integer.valueOf(1)", "Integer", ""},
		{"String.class", "Class<String>", ""},
		{"field > 0 ? \"a\" : null", "Object", ""},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			f := resolve(t, "class T {\n\tstatic final int CONST = 42;\n\tint field;\n\tvoid m() {\n\t\tObject probe = "+tt.expr+";\n\t}\n}\n")
			if ids := f.ids(); len(ids) > 0 {
				t.Fatalf("unexpected problems: %s", spew.Sdump(f.problems.Problems()))
			}
			init := f.declarator(t, "probe").Init
			if got := f.env.TypeName(f.info.TypeOf(init)); got != tt.typ {
				t.Errorf("type of %s = %s, want %s", tt.expr, got, tt.typ)
			}
			c, ok := f.info.ConstantOf(init)
			switch {
			case tt.constant == "" && ok:
				t.Errorf("%s folded to %v, want no constant", tt.expr, c)
			case tt.constant != "" && !ok:
				t.Errorf("%s is not a constant, want %s", tt.expr, tt.constant)
			case ok && c.String() != tt.constant:
				t.Errorf("%s folded to %s, want %s", tt.expr, c.String(), tt.constant)
			}
		})
	}
}

func TestOverloadResolution(t *testing.T) {
	f := resolve(t, `
class T {
	void m(int x) {}
	void m(long x) {}
	void m(Object o) {}
	void v(String... xs) {}
	void test() {
		m(1);
		m(1L);
		m('c');
		m("s");
		m(Integer.valueOf(1));
		v();
		v("a", "b");
		v(new String[0]);
	}
}
`)
	if ids := f.ids(); len(ids) > 0 {
		t.Fatalf("unexpected problems: %s", spew.Sdump(f.problems.Problems()))
	}
	var got []string
	var varargs []bool
	ast.Inspect(f.unit, func(n ast.Node) bool {
		if call, ok := n.(*ast.MethodCall); ok && (call.Name.Name == "m" || call.Name.Name == "v") {
			got = append(got, f.env.MethodName(f.info.Methods[call]))
			varargs = append(varargs, f.info.Varargs[call])
		}
		return true
	})
	want := []string{"m(int)", "m(long)", "m(int)", "m(Object)", "m(Object)", "v(String[])", "v(String[])", "v(String[])"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("selected methods mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]bool{false, false, false, false, false, true, true, false}, varargs); diff != "" {
		t.Errorf("varargs invocations mismatch (-want +got):\n%s", diff)
	}
}

func TestCrossUnitResolution(t *testing.T) {
	f := resolve(t, `
package app;

import lib.Shape;
import static lib.Shape.unit;

class T {
	double area() {
		Shape s = unit();
		return s.area() + Shape.ORIGIN;
	}
}
`, "lib/Shape.java", `
package lib;

public class Shape {
	public static final int ORIGIN = 0;
	public static Shape unit() { return new Shape(); }
	public double area() { return 1; }
	double hidden() { return 0; }
}
`)
	if diff := cmp.Diff([]problem.ID(nil), f.ids()); diff != "" {
		t.Fatalf("problems mismatch (-want +got):\n%s\n%s", diff, spew.Sdump(f.problems.Problems()))
	}

	g := resolve(t, `
package app;

class T {
	double d(lib.Shape s) { return s.hidden(); }
}
`, "lib/Shape.java", `
package lib;

public class Shape {
	double hidden() { return 0; }
}
`)
	if diff := cmp.Diff([]problem.ID{problem.NotVisible}, g.ids()); diff != "" {
		t.Errorf("problems mismatch (-want +got):\n%s", diff)
	}
}

func TestEffectivelyFinal(t *testing.T) {
	f := resolve(t, `
class T {
	void m(int p) {
		int once = 1;
		int twice = 1;
		twice = 2;
		int late;
		late = 3;
		p++;
	}
}
`)
	want := map[string]bool{"once": true, "twice": false, "late": true, "p": false}
	for id, sym := range f.info.Defs {
		if sym.Kind != lookup.SymLocal {
			continue
		}
		w, ok := want[id.Name]
		if !ok {
			continue
		}
		if got := f.env.Local(lookup.LocalID(sym.ID)).Effective; got != w {
			t.Errorf("%s effectively final = %v, want %v", id.Name, got, w)
		}
	}
}
