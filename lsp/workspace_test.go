package lsp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWorkspaceCheck(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "src", "main", "A.java")
	b := filepath.Join(root, "lib", "B.java")
	writeFile(t, a, "package p; class A { int n = new B().value(); }")
	writeFile(t, b, "package p; class B { int value() { return 1; } }")
	writeFile(t, filepath.Join(root, ".git", "X.java"), "class X {")

	ws := NewWorkspace(root, nil)
	if err := ws.ScanAll(); err != nil {
		t.Fatalf("ScanAll: %v", err)
	}
	if diff := cmp.Diff([]string{b, a}, ws.Paths()); diff != "" {
		t.Fatalf("paths (-want +got):\n%s", diff)
	}
	if f := ws.GetFile(a); f == nil || f.Key != "p/A.java" {
		t.Fatalf("A.java = %+v", f)
	}

	problems := ws.Check(context.Background(), a)
	if len(problems[a]) != 0 {
		t.Errorf("A.java problems: %v", problems[a])
	}

	// B changes in the editor: A sees the new version.
	ws.UpdateFile(b, []byte("package p; class B { }"))
	problems = ws.Check(context.Background(), a)
	if len(problems[a]) == 0 {
		t.Errorf("A.java has no problems after value() was removed")
	}

	ws.RemoveFile(b)
	if ws.GetFile(b) != nil {
		t.Errorf("B.java still present")
	}
	if _, ok := ws.sources.Unit("p/B.java"); ok {
		t.Errorf("B.java still on the source path")
	}
}

func TestWorkspaceMovesFileBetweenPackages(t *testing.T) {
	ws := NewWorkspace(t.TempDir(), nil)
	ws.UpdateFile("/w/A.java", []byte("package one; class A {}"))
	ws.UpdateFile("/w/A.java", []byte("package two; class A {}"))
	if _, ok := ws.sources.Unit("one/A.java"); ok {
		t.Errorf("old key kept")
	}
	if _, ok := ws.sources.Unit("two/A.java"); !ok {
		t.Errorf("new key missing")
	}
}
