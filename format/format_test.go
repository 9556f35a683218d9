package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/jfront/classfile"
	"github.com/dhamidi/jfront/java/parser"
	"github.com/dhamidi/jfront/java/problem"
)

func sampleClass(t *testing.T) *classfile.ClassFile {
	t.Helper()
	b := classfile.NewBuilder(classfile.AccPublic|classfile.AccSuper|classfile.AccFinal, "p/Sample", "java/lang/Object", []string{"java/lang/Runnable"})
	b.AddField(classfile.AccPublic|classfile.AccStatic|classfile.AccFinal, "MAX", "I", b.ConstantValueAttr(b.Integer(42)))
	b.AddField(classfile.AccPrivate, "names", "[[Ljava/lang/String;")
	b.AddMethod(classfile.AccPublic, "<init>", "()V", b.CodeAttr(&classfile.CodeAttribute{
		MaxStack:  1,
		MaxLocals: 1,
		Code:      []byte{0xb1},
	}))
	b.AddMethod(classfile.AccPublic|classfile.AccAbstract|classfile.AccVarargs, "run", "(J[I)Ljava/util/List;", b.ExceptionsAttr([]string{"java/io/IOException"}))
	b.AddAttribute(b.SourceFileAttr("Sample.java"))
	if err := b.Err(); err != nil {
		t.Fatalf("build class: %v", err)
	}
	return b.ClassFile()
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"I", "int"},
		{"Z", "boolean"},
		{"[J", "long[]"},
		{"Ljava/lang/String;", "java.lang.String"},
		{"[[Lp/A;", "p.A[][]"},
		{"not a descriptor", "not a descriptor"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := fieldTypeName(tt.desc); got != tt.want {
				t.Errorf("fieldTypeName(%q) = %q, want %q", tt.desc, got, tt.want)
			}
		})
	}
}

func TestLineEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewLineEncoder(&buf).Encode(sampleClass(t)); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := strings.Join([]string{
		"class\tp.Sample\tpublic\tfinal\tjava.lang.Object\tjava.lang.Runnable",
		"field\tMAX\tint\tpublic\tstatic,final",
		"field\tnames\tjava.lang.String[][]\tprivate\t-",
		"method\t<init>\tvoid\t-\tpublic\t-",
		"method\trun\tjava.util.List\tlong,int[]\tpublic\tabstract,varargs",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("output (-want +got):\n%s", diff)
	}
}

func TestJSONEncoder(t *testing.T) {
	text, err := (&JSONEncoder{class: sampleClass(t)}).MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	var got jsonClass
	if err := json.Unmarshal(text, &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, text)
	}
	if got.Name != "p.Sample" || got.Kind != "class" || got.SourceFile != "Sample.java" {
		t.Errorf("class = %+v", got)
	}
	if got.Version.Major != classfile.MajorVersion49 {
		t.Errorf("major version = %d", got.Version.Major)
	}
	if len(got.Fields) != 2 || got.Fields[0].Constant != float64(42) {
		t.Errorf("fields = %+v", got.Fields)
	}
	if len(got.Methods) != 2 {
		t.Fatalf("methods = %+v", got.Methods)
	}
	if c := got.Methods[0].Code; c == nil || c.Length != 1 || c.MaxLocals != 1 {
		t.Errorf("<init> code = %+v", c)
	}
	run := got.Methods[1]
	if diff := cmp.Diff([]string{"java.io.IOException"}, run.Exceptions); diff != "" {
		t.Errorf("exceptions (-want +got):\n%s", diff)
	}
	if run.Code != nil {
		t.Errorf("abstract method has code")
	}
}

func TestASTJSONEncoder(t *testing.T) {
	p := parser.ParseCompilationUnit(strings.NewReader("class A { int x = 1 + 2; }"), parser.WithFile("A.java"))
	unit := p.Finish()
	text, err := NewASTJSONEncoder(nil).MarshalText(unit)
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	var root astJSONNode
	if err := json.Unmarshal(text, &root); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if root.Kind != "CompilationUnit" || root.Span == nil {
		t.Errorf("root = %+v", root)
	}

	var texts []string
	var visit func(n *astJSONNode)
	visit = func(n *astJSONNode) {
		if n.Kind == "Ident" || n.Kind == "Literal" || n.Kind == "Binary" {
			texts = append(texts, n.Text)
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(&root)
	if diff := cmp.Diff([]string{"A", "x", "+", "1", "2"}, texts); diff != "" {
		t.Errorf("token texts (-want +got):\n%s", diff)
	}
}

func TestProblemPrinter(t *testing.T) {
	var buf bytes.Buffer
	pp := NewProblemPrinter(&buf)
	pp.AddSource("A.java", []byte("class A {\n\tint x = y;\n}\n"))
	err := pp.Print([]problem.Problem{
		{Severity: problem.SeverityError, Message: "y cannot be resolved", File: "A.java", Line: 2, Column: 10},
		{Severity: problem.SeverityWarning, Message: "no source", File: "B.java", Line: 1, Column: 1},
	})
	if err != nil {
		t.Fatalf("Print: %v", err)
	}
	want := "A.java:2:10: error: y cannot be resolved\n" +
		"\t\tint x = y;\n" +
		"\t\t        ^\n" +
		"B.java:1:1: warning: no source\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("output (-want +got):\n%s", diff)
	}
}
