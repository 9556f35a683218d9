package parser

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/problem"
)

func memberKinds(td *ast.TypeDecl) []ast.NodeKind {
	var kinds []ast.NodeKind
	for _, m := range td.Members {
		kinds = append(kinds, m.Kind())
	}
	return kinds
}

func methodNamed(td *ast.TypeDecl, name string) *ast.MethodDecl {
	for _, m := range td.Methods() {
		if m.NameString() == name {
			return m
		}
	}
	return nil
}

func TestRecoveryUnclosedBlockAtEOF(t *testing.T) {
	src := "class A {\n  void m() {\n    int x = 1;\n    if (x > 0) {\n"
	unit, p := parseUnit(t, src)

	problems := p.Problems()
	if len(problems) != 1 {
		t.Fatalf("got %d problems, want 1: %v", len(problems), problems)
	}
	got := problems[0]
	if got.ID != problem.SyntaxErrorInsertToComplete {
		t.Errorf("ID = %v, want insert to complete", got.ID)
	}
	if diff := cmp.Diff([]string{"}", "Block"}, got.Arguments); diff != "" {
		t.Errorf("arguments mismatch (-want +got):\n%s", diff)
	}

	if len(unit.Types) != 1 {
		t.Fatalf("got %d types, want 1", len(unit.Types))
	}
	a := unit.Types[0]
	if !a.Flags().Has(ast.Malformed) {
		t.Errorf("type flags = %v, want Malformed", a.Flags())
	}
	m := methodNamed(a, "m")
	if m == nil {
		t.Fatalf("method m not recovered: %s", spew.Sdump(a.Members))
	}
	if !m.Flags().Has(ast.Malformed) {
		t.Errorf("method flags = %v, want Malformed", m.Flags())
	}
	if len(m.Body.Stmts) == 0 {
		t.Fatal("method body lost its statements")
	}
	if _, ok := m.Body.Stmts[0].(*ast.LocalVarDecl); !ok {
		t.Errorf("first statement = %T, want *ast.LocalVarDecl", m.Body.Stmts[0])
	}
	if m.Span().End.Offset != len(src)-1 {
		t.Errorf("method ends at %d, want %d", m.Span().End.Offset, len(src)-1)
	}
	if !unit.Flags().Has(ast.HasSyntaxErrors) {
		t.Errorf("unit flags = %v, want HasSyntaxErrors", unit.Flags())
	}
}

func TestRecoveryMissingClassBrace(t *testing.T) {
	src := "class A {\n  void m() { }\n  int f;\n"
	unit, p := parseUnit(t, src)

	var found bool
	for _, pr := range p.Problems() {
		if pr.ID == problem.SyntaxErrorInsertToComplete && cmp.Equal(pr.Arguments, []string{"}", "ClassBody"}) {
			found = true
		}
	}
	if !found {
		t.Errorf("missing insert } to complete ClassBody in %v", p.Problems())
	}
	want := []ast.NodeKind{ast.KindMethodDecl, ast.KindFieldDecl}
	if diff := cmp.Diff(want, memberKinds(unit.Types[0])); diff != "" {
		t.Errorf("member kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestRecoveryAtEOFKeepsCompletedChildrenOnce(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		members []ast.NodeKind
		stmts   []ast.NodeKind
	}{
		{
			name:    "unclosed class",
			src:     "class A {\n void m() { }\n int f;\n",
			members: []ast.NodeKind{ast.KindMethodDecl, ast.KindFieldDecl},
		},
		{
			name:    "unclosed method",
			src:     "class A {\n void m() {\n int x = 1;\n foo();\n",
			members: []ast.NodeKind{ast.KindMethodDecl},
			stmts:   []ast.NodeKind{ast.KindLocalVarDecl, ast.KindExprStmt},
		},
		{
			name:    "unclosed initializer",
			src:     "class A {\n static {\n foo();\n bar();\n",
			members: []ast.NodeKind{ast.KindInitializer},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit, _ := parseUnit(t, tt.src)
			if len(unit.Types) != 1 {
				t.Fatalf("got %d types, want 1", len(unit.Types))
			}
			a := unit.Types[0]
			if diff := cmp.Diff(tt.members, memberKinds(a)); diff != "" {
				t.Errorf("member kinds mismatch (-want +got):\n%s", diff)
			}
			if tt.stmts == nil {
				return
			}
			m := methodNamed(a, "m")
			if m == nil || m.Body == nil {
				t.Fatalf("method m not recovered: %s", spew.Sdump(a.Members))
			}
			var kinds []ast.NodeKind
			for _, s := range m.Body.Stmts {
				kinds = append(kinds, s.Kind())
			}
			if diff := cmp.Diff(tt.stmts, kinds); diff != "" {
				t.Errorf("statement kinds mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRecoveryKeepsFollowingMembers(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		methods []string
	}{
		{
			name:    "missing semicolon after field",
			src:     "class A { int x = 1 int y; void m() {} }",
			methods: []string{"m"},
		},
		{
			name:    "missing initializer expression",
			src:     "class A { void m() { int x = ; foo(); } void n() {} }",
			methods: []string{"m", "n"},
		},
		{
			name:    "broken statement",
			src:     "class A { void m() { if (x > ) { } } void n() { return; } }",
			methods: []string{"m", "n"},
		},
		{
			name:    "broken method header",
			src:     "class A { void m( { } void n() {} }",
			methods: []string{"m", "n"},
		},
		{
			name:    "stray token between members",
			src:     "class A { void m() {} ) void n() {} }",
			methods: []string{"m", "n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit, p := parseUnit(t, tt.src)
			if p.ErrorCount() == 0 {
				t.Fatal("expected syntax errors")
			}
			if len(unit.Types) != 1 {
				t.Fatalf("got %d types, want 1", len(unit.Types))
			}
			for _, name := range tt.methods {
				if methodNamed(unit.Types[0], name) == nil {
					t.Errorf("method %s missing: %s", name, spew.Sdump(unit.Types[0].Members))
				}
			}
			if !unit.Types[0].Flags().Has(ast.HasSyntaxErrors) {
				t.Errorf("type flags = %v, want HasSyntaxErrors", unit.Types[0].Flags())
			}
		})
	}
}

func TestRecoveryArrayInitializer(t *testing.T) {
	src := "class A { int[] a = { 1, 2 +, 3 }; void m() {} }"
	unit, _ := parseUnit(t, src)

	a := unit.Types[0]
	fields := a.Fields()
	if len(fields) != 1 {
		t.Fatalf("got %d fields, want 1", len(fields))
	}
	init, ok := fields[0].Vars[0].Init.(*ast.ArrayInit)
	if !ok {
		t.Fatalf("Init = %T, want *ast.ArrayInit", fields[0].Vars[0].Init)
	}
	if !init.Flags().Has(ast.HasSyntaxErrors) {
		t.Errorf("init flags = %v, want HasSyntaxErrors", init.Flags())
	}
	var kinds []ast.NodeKind
	for _, e := range init.Elems {
		kinds = append(kinds, e.Kind())
	}
	want := []ast.NodeKind{ast.KindLiteral, ast.KindBadExpr, ast.KindLiteral}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("element kinds mismatch (-want +got):\n%s", diff)
	}
	if methodNamed(a, "m") == nil {
		t.Error("method m missing")
	}
}

func TestRecoveryBlockAfterCompletedArrayInitializer(t *testing.T) {
	src := "class A { int[] a = {1, 2} { x(); } void m() {} }"
	unit, p := parseUnit(t, src)
	if p.ErrorCount() == 0 {
		t.Fatal("expected a syntax error for the missing semicolon")
	}
	want := []ast.NodeKind{ast.KindFieldDecl, ast.KindInitializer, ast.KindMethodDecl}
	if diff := cmp.Diff(want, memberKinds(unit.Types[0])); diff != "" {
		t.Fatalf("member kinds mismatch (-want +got):\n%s", diff)
	}
	init := unit.Types[0].Members[1].(*ast.Initializer)
	if len(init.Body.Stmts) != 1 {
		t.Errorf("initializer has %d statements, want 1", len(init.Body.Stmts))
	}
}

func TestRecoveryAnonymousClassInArrayInitializer(t *testing.T) {
	src := "class A { Object[] a = { new Object() { int x = ; }, 2 }; void m() {} }"
	unit, p := parseUnit(t, src)
	if p.ErrorCount() == 0 {
		t.Fatal("expected syntax errors")
	}
	a := unit.Types[0]
	fields := a.Fields()
	if len(fields) != 1 || fields[0].Vars[0].Name.Name != "a" {
		t.Fatalf("fields = %s", spew.Sdump(fields))
	}
	init, ok := fields[0].Vars[0].Init.(*ast.ArrayInit)
	if !ok || len(init.Elems) != 2 {
		t.Fatalf("Init = %s", spew.Sdump(fields[0].Vars[0].Init))
	}
	if !init.Elems[0].Flags().Has(ast.Malformed) {
		t.Errorf("first element flags = %v, want Malformed", init.Elems[0].Flags())
	}
	if methodNamed(a, "m") == nil {
		t.Error("method m missing")
	}
}

func TestRecoveryUnitLevel(t *testing.T) {
	src := "package p;\nimport java.util.List\nclass A {}\n} class B {}\n"
	unit, p := parseUnit(t, src)
	if p.ErrorCount() == 0 {
		t.Fatal("expected syntax errors")
	}
	if len(unit.Imports) != 1 {
		t.Errorf("got %d imports, want 1", len(unit.Imports))
	}
	var names []string
	for _, td := range unit.Types {
		names = append(names, td.NameString())
	}
	if diff := cmp.Diff([]string{"A", "B"}, names); diff != "" {
		t.Errorf("type names mismatch (-want +got):\n%s", diff)
	}
}

func TestRecoveryEnumConstants(t *testing.T) {
	src := "enum E { A, B(, C; void m() {} }"
	unit, p := parseUnit(t, src)
	if p.ErrorCount() == 0 {
		t.Fatal("expected syntax errors")
	}
	e := unit.Types[0]
	if e.DeclKind != ast.EnumKind {
		t.Fatalf("kind = %v", e.DeclKind)
	}
	if len(e.EnumConstants) == 0 || e.EnumConstants[0].Name.Name != "A" {
		t.Errorf("constants = %s", spew.Sdump(e.EnumConstants))
	}
	if methodNamed(e, "m") == nil {
		t.Error("method m missing")
	}
}
