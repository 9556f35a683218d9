package parser

import (
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/problem"
)

func parseUnit(t *testing.T, src string, opts ...Option) (*ast.CompilationUnit, *Parser) {
	t.Helper()
	p := ParseCompilationUnit(strings.NewReader(src), append([]Option{WithFile("Test.java")}, opts...)...)
	unit := p.Finish()
	if unit == nil {
		t.Fatal("Finish returned nil")
	}
	return unit, p
}

func mustParse(t *testing.T, src string, opts ...Option) *ast.CompilationUnit {
	t.Helper()
	unit, p := parseUnit(t, src, opts...)
	if p.ErrorCount() > 0 {
		t.Fatalf("unexpected problems: %v", p.Problems())
	}
	return unit
}

func parseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	p := ParseExpression(strings.NewReader(src))
	x := p.FinishExpression()
	if p.ErrorCount() > 0 {
		t.Fatalf("ParseExpression(%q): %v", src, p.Problems())
	}
	return x
}

func parseStmt(t *testing.T, src string) ast.Stmt {
	t.Helper()
	p := ParseStatement(strings.NewReader(src))
	s := p.FinishStatement()
	if p.ErrorCount() > 0 {
		t.Fatalf("ParseStatement(%q): %v", src, p.Problems())
	}
	return s
}

// render prints an expression with explicit grouping.
func render(x ast.Node) string {
	switch x := x.(type) {
	case *ast.Literal:
		return x.Raw
	case *ast.Name:
		return x.Ident.Name
	case *ast.Binary:
		return "(" + render(x.X) + " " + x.Op.String() + " " + render(x.Y) + ")"
	case *ast.Unary:
		if x.Postfix {
			return "(" + render(x.X) + x.Op.String() + ")"
		}
		return "(" + x.Op.String() + render(x.X) + ")"
	case *ast.Assign:
		return "(" + render(x.Target) + " " + x.Op.String() + " " + render(x.Value) + ")"
	case *ast.Conditional:
		return "(" + render(x.Cond) + " ? " + render(x.Then) + " : " + render(x.Else) + ")"
	case *ast.Cast:
		return "((" + ast.TypeString(x.Type) + ") " + render(x.X) + ")"
	case *ast.InstanceOf:
		s := "(" + render(x.X) + " instanceof " + ast.TypeString(x.Type)
		if tp, ok := x.Pattern.(*ast.TypePattern); ok {
			s += " " + tp.Name.Name
		}
		return s + ")"
	case *ast.FieldAccess:
		return render(x.X) + "." + x.Name.Name
	case *ast.MethodCall:
		var args []string
		for _, a := range x.Args {
			args = append(args, render(a))
		}
		prefix := ""
		if x.X != nil {
			prefix = render(x.X) + "."
		}
		return prefix + x.Name.Name + "(" + strings.Join(args, ", ") + ")"
	case *ast.ArrayAccess:
		return render(x.X) + "[" + render(x.Index) + "]"
	case *ast.Paren:
		return render(x.X)
	case *ast.This:
		if x.Qualifier != nil {
			return x.Qualifier.String() + ".this"
		}
		return "this"
	case *ast.Super:
		return "super"
	case *ast.ClassLit:
		return ast.TypeString(x.Type) + ".class"
	case *ast.Lambda:
		var params []string
		for _, p := range x.Params {
			params = append(params, p.Name.Name)
		}
		return "(" + strings.Join(params, ", ") + ") -> " + render(x.Body)
	case *ast.Block:
		return "{...}"
	case *ast.MethodRef:
		if te, ok := x.X.(*ast.TypeExpr); ok {
			return ast.TypeString(te.Type) + "::" + x.Name.Name
		}
		return render(x.X) + "::" + x.Name.Name
	case *ast.NewObject:
		s := "new " + ast.TypeString(x.Type) + "(...)"
		if x.Body != nil {
			s += "{...}"
		}
		return s
	case *ast.NewArray:
		return "new " + ast.TypeString(x.Elem) + "[]"
	case *ast.SwitchExpr:
		return "switch(" + render(x.Selector) + ")"
	}
	return "?" + x.Kind().String()
}

func TestParseExpressionPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 * 2 + 3", "((1 * 2) + 3)"},
		{"a - b - c", "((a - b) - c)"},
		{"a = b = c", "(a = (b = c))"},
		{"a += b * 2", "(a += (b * 2))"},
		{"a || b && c", "(a || (b && c))"},
		{"a | b ^ c & d", "(a | (b ^ (c & d)))"},
		{"a == b < c", "(a == (b < c))"},
		{"a << 1 + 2", "(a << (1 + 2))"},
		{"a >>> 2 >> 1", "((a >>> 2) >> 1)"},
		{"a ? b : c ? d : e", "(a ? b : (c ? d : e))"},
		{"-a * b", "((-a) * b)"},
		{"!a && b", "((!a) && b)"},
		{"i++ + ++j", "((i++) + (++j))"},
		{"(int) x + 1", "(((int) x) + 1)"},
		{"(String) s", "((String) s)"},
		{"(a) + b", "(a + b)"},
		{"(a) - b", "(a - b)"},
		{"(List<String>) o", "((List<String>) o)"},
		{"(int[]) o", "((int[]) o)"},
		{"x instanceof String s && s.isEmpty()", "((x instanceof String s) && s.isEmpty())"},
		{"a < b == c > d", "((a < b) == (c > d))"},
		{"o.f.g(1, 2)[i]", "o.f.g(1, 2)[i]"},
		{"Outer.this.x", "Outer.this.x"},
		{"String.class", "String.class"},
		{"int[].class", "int[].class"},
		{"x -> x + 1", "(x) -> (x + 1)"},
		{"(a, b) -> a * b", "(a, b) -> (a * b)"},
		{"() -> { return; }", "() -> {...}"},
		{"String::valueOf", "String::valueOf"},
		{"List<String>::size", "List<String>::size"},
		{"int[]::new", "int[]::new"},
		{"this::run", "this::run"},
		{"new Foo<>(1) { }", "new Foo<>(...){...}"},
		{"new int[3][]", "new int[]"},
		{"new String[] {\"a\", \"b\"}", "new String[]"},
		{"switch (x) { case 1 -> 2; default -> 3; }", "switch(x)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := render(parseExpr(t, tt.input))
			if got != tt.want {
				t.Errorf("render(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseExpressionLiterals(t *testing.T) {
	tests := []struct {
		input string
		kind  ast.LiteralKind
	}{
		{"42", ast.IntLit},
		{"42L", ast.LongLit},
		{"0x7fff_ffff", ast.IntLit},
		{"1.5", ast.DoubleLit},
		{"1.5f", ast.FloatLit},
		{"1e3", ast.DoubleLit},
		{"'c'", ast.CharLit},
		{`"s"`, ast.StringLit},
		{"\"\"\"\n  block\n  \"\"\"", ast.TextBlockLit},
		{"true", ast.BoolLit},
		{"null", ast.NullLit},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lit, ok := parseExpr(t, tt.input).(*ast.Literal)
			if !ok {
				t.Fatalf("not a literal")
			}
			if lit.LitKind != tt.kind {
				t.Errorf("LitKind = %v, want %v", lit.LitKind, tt.kind)
			}
			if lit.Raw != tt.input {
				t.Errorf("Raw = %q, want %q", lit.Raw, tt.input)
			}
		})
	}
}

func TestParseExpressionErrors(t *testing.T) {
	tests := []string{
		"1 +",
		"a b",
		"(a",
		"new",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			p := ParseExpression(strings.NewReader(input))
			x := p.FinishExpression()
			if p.ErrorCount() == 0 {
				t.Fatalf("expected a syntax error")
			}
			if !x.Flags().Has(ast.Malformed) {
				t.Errorf("result flags = %v, want Malformed", x.Flags())
			}
		})
	}
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		input string
		kind  ast.NodeKind
	}{
		{"int x = 1;", ast.KindLocalVarDecl},
		{"var list = new ArrayList<String>();", ast.KindLocalVarDecl},
		{"final int[] a = {1, 2}, b[];", ast.KindLocalVarDecl},
		{"Map<String, List<Integer>> m;", ast.KindLocalVarDecl},
		{"x = 1;", ast.KindExprStmt},
		{"foo(1);", ast.KindExprStmt},
		{"if (a) b(); else c();", ast.KindIfStmt},
		{"while (true) { break; }", ast.KindWhileStmt},
		{"do i++; while (i < 10);", ast.KindDoStmt},
		{"for (int i = 0, j = 1; i < 10; i++, j++) {}", ast.KindForStmt},
		{"for (;;) {}", ast.KindForStmt},
		{"for (String s : list) {}", ast.KindForEachStmt},
		{"for (var e : map.entrySet()) {}", ast.KindForEachStmt},
		{"return;", ast.KindReturnStmt},
		{"return a + b;", ast.KindReturnStmt},
		{"throw new RuntimeException();", ast.KindThrowStmt},
		{"outer: for (;;) { continue outer; }", ast.KindLabeledStmt},
		{"synchronized (lock) { x++; }", ast.KindSyncStmt},
		{"assert x > 0 : \"positive\";", ast.KindAssertStmt},
		{"try { f(); } catch (IOException | RuntimeException e) { } finally { }", ast.KindTryStmt},
		{"try (var in = open(); out) { }", ast.KindTryStmt},
		{"switch (x) { case 1: case 2: y(); break; default: z(); }", ast.KindSwitchStmt},
		{"switch (o) { case String s when s.isEmpty() -> f(); case Point(int x, var y) -> g(); default -> {} }", ast.KindSwitchStmt},
		{"class Local { }", ast.KindLocalClassDecl},
		{"record Pair(int a, int b) { }", ast.KindLocalClassDecl},
		{"this(1, 2);", ast.KindConstructorCall},
		{"super();", ast.KindConstructorCall},
		{"outer.super(x);", ast.KindConstructorCall},
		{";", ast.KindEmptyStmt},
		{"{ int y; }", ast.KindBlock},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s := parseStmt(t, tt.input)
			if s.Kind() != tt.kind {
				t.Errorf("Kind = %v, want %v\n%s", s.Kind(), tt.kind, spew.Sdump(s))
			}
		})
	}
}

func TestParseStatementNotAStatement(t *testing.T) {
	p := ParseStatement(strings.NewReader("a + b;"))
	p.FinishStatement()
	problems := p.Problems()
	if len(problems) != 1 {
		t.Fatalf("got %d problems, want 1: %v", len(problems), problems)
	}
	if problems[0].ID != problem.SyntaxErrorInsertToComplete {
		t.Errorf("problem = %v, want insert to complete", problems[0])
	}
}

func TestParseVarInference(t *testing.T) {
	s := parseStmt(t, "var x = 1;").(*ast.LocalVarDecl)
	if _, ok := s.Type.(*ast.VarType); !ok {
		t.Errorf("Type = %T, want *ast.VarType", s.Type)
	}

	p := ParseStatement(strings.NewReader("var x = 1;"), WithSourceLevel(Java8))
	old := p.FinishStatement().(*ast.LocalVarDecl)
	ct, ok := old.Type.(*ast.ClassType)
	if !ok || ct.Name.Name != "var" {
		t.Errorf("Java 8 Type = %s, want class type var", ast.TypeString(old.Type))
	}
}

func TestParseYield(t *testing.T) {
	x := parseExpr(t, "switch (k) { case 1: yield 10; default: { yield 20; } }").(*ast.SwitchExpr)
	if len(x.Cases) != 2 {
		t.Fatalf("got %d cases, want 2", len(x.Cases))
	}
	if _, ok := x.Cases[0].Body[0].(*ast.YieldStmt); !ok {
		t.Errorf("case body = %T, want *ast.YieldStmt", x.Cases[0].Body[0])
	}

	arrow := parseExpr(t, "switch (k) { case 1, 2 -> \"low\"; default -> \"high\"; }").(*ast.SwitchExpr)
	c := arrow.Cases[0]
	if !c.Arrow || len(c.Labels) != 2 {
		t.Errorf("case = arrow %v with %d labels, want arrow with 2", c.Arrow, len(c.Labels))
	}
	if _, ok := c.Body[0].(*ast.YieldStmt); !ok {
		t.Errorf("arrow body = %T, want *ast.YieldStmt", c.Body[0])
	}
}

func TestParseCompilationUnit(t *testing.T) {
	src := `package com.example.app;

import java.util.List;
import java.util.*;
import static java.lang.Math.max;

/** The main class. */
@Deprecated
public final class Main<T extends Comparable<T>> extends Base implements Runnable, Cloneable {
    private static final int LIMIT = 10, OTHER[] = {};
    protected List<? super T> items;

    static { init(); }
    { count = 0; }

    public Main(int limit) throws Exception {
        super(limit);
    }

    @Override
    public void run() {
        for (T item : items) {
            System.out.println(item);
        }
    }

    abstract <R> R map(java.util.function.Function<? super T, ? extends R> f);

    enum Color { RED, GREEN("g") { void f() {} }, BLUE; Color() {} Color(String s) {} }

    interface Shape permits Circle { double area(); default String name() { return "shape"; } }

    record Point(int x, int y) {
        Point {
            if (x < 0) throw new IllegalArgumentException();
        }
    }

    @interface Marker { String value() default "x"; int[] ids() default {1, 2}; }
}

class Second {}
`
	unit := mustParse(t, src)

	if got := unit.PackageName(); got != "com.example.app" {
		t.Errorf("PackageName() = %q", got)
	}
	if len(unit.Imports) != 3 {
		t.Fatalf("got %d imports, want 3", len(unit.Imports))
	}
	if !unit.Imports[1].OnDemand || !unit.Imports[2].Static {
		t.Errorf("imports = %s", spew.Sdump(unit.Imports))
	}
	if len(unit.Types) != 2 {
		t.Fatalf("got %d types, want 2", len(unit.Types))
	}

	main := unit.Types[0]
	if main.NameString() != "Main" || main.DeclKind != ast.ClassKind {
		t.Errorf("first type = %s %s", main.DeclKind, main.NameString())
	}
	if main.Doc == nil || main.Doc.Text != "/** The main class. */" {
		t.Errorf("Doc = %+v", main.Doc)
	}
	if !main.Modifiers.Has(ast.ModPublic | ast.ModFinal) {
		t.Errorf("Modifiers = %v", main.Modifiers.Mods)
	}
	if !main.Modifiers.HasAnnotation("Deprecated") {
		t.Errorf("missing @Deprecated")
	}
	if len(main.TypeParams) != 1 || len(main.TypeParams[0].Bounds) != 1 {
		t.Errorf("TypeParams = %s", spew.Sdump(main.TypeParams))
	}
	if ast.TypeString(main.Extends) != "Base" || len(main.Implements) != 2 {
		t.Errorf("Extends = %s, Implements = %d", ast.TypeString(main.Extends), len(main.Implements))
	}

	var kinds []ast.NodeKind
	for _, m := range main.Members {
		kinds = append(kinds, m.Kind())
	}
	want := []ast.NodeKind{
		ast.KindFieldDecl, ast.KindFieldDecl,
		ast.KindInitializer, ast.KindInitializer,
		ast.KindMethodDecl, ast.KindMethodDecl, ast.KindMethodDecl,
		ast.KindTypeDecl, ast.KindTypeDecl, ast.KindTypeDecl, ast.KindTypeDecl,
	}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("member kinds mismatch (-want +got):\n%s", diff)
	}

	ctor := main.Members[4].(*ast.MethodDecl)
	if !ctor.Constructor || ctor.Result != nil || len(ctor.Throws) != 1 {
		t.Errorf("constructor = %s", spew.Sdump(ctor))
	}
	if _, ok := ctor.Body.Stmts[0].(*ast.ConstructorCall); !ok {
		t.Errorf("first constructor statement = %T", ctor.Body.Stmts[0])
	}

	fields := main.Fields()
	if len(fields[0].Vars) != 2 || fields[0].Vars[1].Dims != 1 {
		t.Errorf("LIMIT field = %s", spew.Sdump(fields[0]))
	}

	color := main.Members[7].(*ast.TypeDecl)
	if color.DeclKind != ast.EnumKind || len(color.EnumConstants) != 3 {
		t.Fatalf("enum = %s", spew.Sdump(color))
	}
	if color.EnumConstants[1].Body == nil || len(color.EnumConstants[1].Args) != 1 {
		t.Errorf("GREEN = %s", spew.Sdump(color.EnumConstants[1]))
	}

	shape := main.Members[8].(*ast.TypeDecl)
	if len(shape.Permits) != 1 || !shape.Methods()[1].Modifiers.Has(ast.ModDefault) {
		t.Errorf("Shape = %s", spew.Sdump(shape))
	}

	point := main.Members[9].(*ast.TypeDecl)
	if point.DeclKind != ast.RecordKind || len(point.Components) != 2 {
		t.Fatalf("Point = %s", spew.Sdump(point))
	}
	if compact := point.Methods()[0]; !compact.Compact || !compact.Constructor {
		t.Errorf("compact constructor = %s", spew.Sdump(compact))
	}

	marker := main.Members[10].(*ast.TypeDecl)
	if marker.DeclKind != ast.AnnotationKind {
		t.Errorf("Marker kind = %v", marker.DeclKind)
	}
	for _, m := range marker.Methods() {
		if m.Default == nil {
			t.Errorf("%s has no default", m.NameString())
		}
	}
	if unit.Flags() != 0 {
		t.Errorf("unit flags = %v, want none", unit.Flags())
	}
}

func TestParseGenericsClosingShift(t *testing.T) {
	unit := mustParse(t, "class A { Map<String, List<List<Integer>>> m; List<List<String>>x; }")
	fields := unit.Types[0].Fields()
	if got := ast.TypeString(fields[0].Type); got != "Map<String,List<List<Integer>>>" {
		t.Errorf("type = %s", got)
	}
	if got := ast.TypeString(fields[1].Type); got != "List<List<String>>" {
		t.Errorf("type = %s", got)
	}
}

func TestParseModuleInfo(t *testing.T) {
	src := `@Deprecated
open module com.example.core {
    requires transitive java.sql;
    requires static lombok;
    exports com.example.api to com.example.web, com.example.cli;
    opens com.example.internal;
    uses com.example.spi.Plugin;
    provides com.example.spi.Plugin with com.example.impl.DefaultPlugin;
}
`
	p := ParseCompilationUnit(strings.NewReader(src), WithFile("module-info.java"))
	unit := p.Finish()
	if p.ErrorCount() > 0 {
		t.Fatalf("problems: %v", p.Problems())
	}
	mod := unit.Module
	if mod == nil || !mod.Open || mod.Name.String() != "com.example.core" {
		t.Fatalf("module = %s", spew.Sdump(mod))
	}
	var directives []string
	for _, d := range mod.Directives {
		directives = append(directives, d.Directive)
	}
	want := []string{"requires", "requires", "exports", "opens", "uses", "provides"}
	if diff := cmp.Diff(want, directives); diff != "" {
		t.Errorf("directives mismatch (-want +got):\n%s", diff)
	}
	if got := mod.Directives[0].Modifiers; len(got) != 1 || got[0] != "transitive" {
		t.Errorf("requires modifiers = %v", got)
	}
	if len(mod.Directives[2].Targets) != 2 {
		t.Errorf("exports targets = %d, want 2", len(mod.Directives[2].Targets))
	}
}

func TestParseRestrictedIdentifiersAsNames(t *testing.T) {
	src := `class A {
    int record = 1, yield = 2, sealed = 3, permits = 4, module = 5;
    void var() { int var = record + yield; }
}`
	unit := mustParse(t, src)
	if got := len(unit.Types[0].Fields()[0].Vars); got != 5 {
		t.Errorf("got %d declarators, want 5", got)
	}
}

func TestParseSourceLevelKeywords(t *testing.T) {
	src := "class A { void f() { int assert = 1; Object enum = null; } }"
	p := ParseCompilationUnit(strings.NewReader(src), WithSourceLevel(Java3))
	p.Finish()
	if p.ErrorCount() > 0 {
		t.Errorf("1.3 source: %v", p.Problems())
	}

	p = ParseCompilationUnit(strings.NewReader(src), WithSourceLevel(Java8))
	p.Finish()
	if p.ErrorCount() == 0 {
		t.Errorf("1.8 source: expected syntax errors for keywords used as names")
	}
}

func TestParseComments(t *testing.T) {
	src := "// header\nclass A { /* inner */ }\n"
	unit := mustParse(t, src, WithComments())
	if len(unit.Comments) != 2 {
		t.Fatalf("got %d comments, want 2", len(unit.Comments))
	}
	if unit.Comments[0].Kind != ast.LineComment || unit.Comments[1].Kind != ast.BlockComment {
		t.Errorf("comment kinds = %v, %v", unit.Comments[0].Kind, unit.Comments[1].Kind)
	}
}

// TestSpanRoundTrip checks that every node's span covers exactly the text
// of the construct it represents.
func TestSpanRoundTrip(t *testing.T) {
	src := `package p;
import java.util.List;
class A<T> extends B {
    int x = 1 + 2;
    String s = "hi";
    List<T> items() { return java.util.List.of(); }
    void m(int a, String... rest) {
        if (a > 0) { x += a; } else x = -a;
        for (int i = 0; i < a; i++) m(i);
        Runnable r = () -> System.out.println(s);
    }
}
`
	unit := mustParse(t, src)

	checks := map[ast.NodeKind]func(string) bool{
		ast.KindMethodDecl:   func(s string) bool { return strings.HasSuffix(s, "}") },
		ast.KindIfStmt:       func(s string) bool { return strings.HasPrefix(s, "if") && strings.HasSuffix(s, ";") },
		ast.KindForStmt:      func(s string) bool { return strings.HasPrefix(s, "for") },
		ast.KindFieldDecl:    func(s string) bool { return strings.HasSuffix(s, ";") },
		ast.KindBinary:       func(s string) bool { return !strings.HasSuffix(s, " ") && !strings.HasPrefix(s, " ") },
		ast.KindLambda:       func(s string) bool { return strings.HasPrefix(s, "()") && strings.HasSuffix(s, ")") },
		ast.KindImportDecl:   func(s string) bool { return s == "import java.util.List;" },
		ast.KindPackageDecl:  func(s string) bool { return s == "package p;" },
		ast.KindLiteral:      func(s string) bool { return s == "1" || s == "2" || s == `"hi"` || s == "0" },
		ast.KindTypeDecl:     func(s string) bool { return strings.HasPrefix(s, "class A") && strings.HasSuffix(s, "}") },
		ast.KindMethodCall:   func(s string) bool { return strings.HasSuffix(s, ")") },
		ast.KindReturnStmt:   func(s string) bool { return s == "return java.util.List.of();" },
		ast.KindLocalVarDecl: func(s string) bool { return strings.HasPrefix(s, "Runnable r") || s == "int i = 0" },
	}

	seen := map[ast.NodeKind]bool{}
	ast.Inspect(unit, func(n ast.Node) bool {
		if n == nil {
			return false
		}
		check, ok := checks[n.Kind()]
		if !ok {
			return true
		}
		sp := n.Span()
		text := src[sp.Start.Offset:sp.End.Offset]
		seen[n.Kind()] = true
		if !check(text) {
			t.Errorf("%v span text = %q", n.Kind(), text)
		}
		return true
	})
	for kind := range checks {
		if !seen[kind] {
			t.Errorf("no %v node visited", kind)
		}
	}
	if unit.Span().Start.Offset != 0 || unit.Span().End.Offset != len(src) {
		t.Errorf("unit span = %v, want the whole file", unit.Span())
	}
}

func TestParseEmptyUnit(t *testing.T) {
	unit := mustParse(t, "")
	if len(unit.Types) != 0 || unit.Package != nil {
		t.Errorf("unit = %s", spew.Sdump(unit))
	}
}

func TestParseLexicalErrorsAreReported(t *testing.T) {
	src := "class A { String s = \"open\n; int x = 09; }"
	_, p := parseUnit(t, src)
	var ids []problem.ID
	for _, pr := range p.Problems() {
		if pr.Category == problem.CategoryLexical {
			ids = append(ids, pr.ID)
		}
	}
	want := []problem.ID{problem.UnterminatedString, problem.InvalidOctalLiteral}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("lexical problems mismatch (-want +got):\n%s", diff)
	}
}

func TestParseWithReporter(t *testing.T) {
	var got []problem.Problem
	reporter := problem.ReporterFunc(func(p problem.Problem) { got = append(got, p) })
	p := ParseCompilationUnit(strings.NewReader("class A { int }"), WithReporter(reporter), WithFile("A.java"))
	p.Finish()
	if len(got) == 0 {
		t.Fatal("reporter received no problems")
	}
	if p.Problems() != nil {
		t.Errorf("Problems() = %v, want nil with a custom reporter", p.Problems())
	}
	if got[0].File != "A.java" || got[0].Line != 1 {
		t.Errorf("problem location = %s:%d", got[0].File, got[0].Line)
	}
}
