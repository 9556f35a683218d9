package env

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/jfront/classfile"
	"github.com/dhamidi/jfront/java/lookup"
)

func classBytes(t *testing.T, name string) []byte {
	t.Helper()
	b := classfile.NewBuilder(classfile.AccPublic|classfile.AccSuper, name, "java/lang/Object", nil)
	var buf bytes.Buffer
	if _, err := b.ClassFile().WriteTo(&buf); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return buf.Bytes()
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	m.Add("p/q/A.java", []byte("package p.q; class A {}"))
	m.Add("/p/B.java", []byte("package p; class B {}"))

	tests := []struct {
		name     string
		compound []string
		found    bool
	}{
		{"nested package", []string{"p", "q", "A"}, true},
		{"leading slash cleaned", []string{"p", "B"}, true},
		{"missing type", []string{"p", "C"}, false},
		{"member type in binary form", []string{"p", "q", "A$Inner"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := m.FindType(tt.compound)
			if a.Found() != tt.found {
				t.Fatalf("FindType(%v).Found() = %v, want %v", tt.compound, a.Found(), tt.found)
			}
			if tt.found && a.Source == nil {
				t.Fatalf("FindType(%v) answered without a source unit", tt.compound)
			}
		})
	}

	if !m.IsPackage([]string{"p"}, "q") || !m.IsPackage(nil, "p") {
		t.Error("IsPackage did not report the packages of added files")
	}
	if m.IsPackage(nil, "q") {
		t.Error("IsPackage(q) = true, want false")
	}
	if diff := cmp.Diff([]string{"p/B.java", "p/q/A.java"}, m.Files()); diff != "" {
		t.Errorf("Files() mismatch (-want +got):\n%s", diff)
	}

	m.Remove("p/B.java")
	if m.FindType([]string{"p", "B"}).Found() {
		t.Error("removed file still answered")
	}
}

func TestChainFirstAnswerWins(t *testing.T) {
	first, second := NewMemory(), NewMemory()
	first.Add("p/A.java", []byte("first"))
	second.Add("p/A.java", []byte("second"))
	second.Add("r/B.java", []byte("second"))

	c := Chain{nil, first, second}
	a := c.FindType([]string{"p", "A"})
	if a.Source == nil || string(a.Source.Contents) != "first" {
		t.Fatalf("FindType(p.A) = %+v, want the first environment's answer", a.Source)
	}
	if !c.FindType([]string{"r", "B"}).Found() {
		t.Error("FindType(r.B) not found through the second environment")
	}
	if !c.IsPackage(nil, "r") {
		t.Error("IsPackage(r) = false, want true")
	}
	if c.FindType([]string{"x", "Y"}).Found() {
		t.Error("FindType(x.Y) found, want empty answer")
	}
}

func TestBootstrap(t *testing.T) {
	b := Bootstrap()
	for _, name := range [][]string{
		{"java", "lang", "Object"},
		{"java", "lang", "String"},
		{"java", "lang", "Integer"},
		{"java", "io", "Serializable"},
		{"java", "util", "List"},
		{"java", "util", "function", "Function"},
	} {
		if a := b.FindType(name); a.Source == nil {
			t.Errorf("bootstrap does not provide %v", name)
		}
	}
	if !b.IsPackage([]string{"java"}, "lang") {
		t.Error("bootstrap does not report package java.lang")
	}
}

func TestDirectory(t *testing.T) {
	dir := t.TempDir()
	classes := filepath.Join(dir, "classes")
	if err := os.MkdirAll(filepath.Join(classes, "p"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(classes, "p", "A.class"), classBytes(t, "p/A"), 0o644); err != nil {
		t.Fatal(err)
	}

	jar := filepath.Join(dir, "lib.jar")
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("z/y/B$Inner.class")
	if err != nil {
		t.Fatal(err)
	}
	w.Write(classBytes(t, "z/y/B$Inner"))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(jar, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	src := filepath.Join(dir, "src")
	if err := os.MkdirAll(filepath.Join(src, "s"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "s", "C.java"), []byte("package s; class C {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := NewDirectory([]string{classes, jar, filepath.Join(dir, "missing")}, []string{src})
	if err != nil {
		t.Fatalf("NewDirectory: %v", err)
	}
	defer d.Close()

	binary := func(a lookup.Answer) string {
		if a.Binary == nil {
			return ""
		}
		return a.Binary.ClassName()
	}
	if got := binary(d.FindType([]string{"p", "A"})); got != "p/A" {
		t.Errorf("FindType(p.A) class = %q, want p/A", got)
	}
	if got := binary(d.FindType([]string{"z", "y", "B$Inner"})); got != "z/y/B$Inner" {
		t.Errorf("FindType(z.y.B$Inner) class = %q, want z/y/B$Inner", got)
	}
	if a := d.FindType([]string{"s", "C"}); a.Source == nil {
		t.Error("FindType(s.C) did not answer from the source path")
	}
	if d.FindType([]string{"p", "Missing"}).Found() {
		t.Error("FindType(p.Missing) found, want empty answer")
	}

	for _, pkg := range [][]string{{"p"}, {"z", "y"}, {"z"}, {"s"}} {
		if !d.IsPackage(pkg[:len(pkg)-1], pkg[len(pkg)-1]) {
			t.Errorf("IsPackage(%v) = false, want true", pkg)
		}
	}
	if d.IsPackage(nil, "nope") {
		t.Error("IsPackage(nope) = true, want false")
	}
}

func TestSplitPath(t *testing.T) {
	list := "a" + string(filepath.ListSeparator) + "b"
	if diff := cmp.Diff([]string{"a", "b"}, SplitPath(list)); diff != "" {
		t.Errorf("SplitPath mismatch (-want +got):\n%s", diff)
	}
	if SplitPath("") != nil {
		t.Error("SplitPath(\"\") should be nil")
	}
}
