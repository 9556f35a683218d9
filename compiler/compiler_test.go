package compiler_test

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/jfront/compiler"
	"github.com/dhamidi/jfront/java/env"
	"github.com/dhamidi/jfront/java/lookup"
	"github.com/dhamidi/jfront/java/problem"
)

func unit(file, src string) *lookup.SourceUnit {
	return &lookup.SourceUnit{FileName: file, Contents: []byte(src)}
}

func outcomes(results []*compiler.UnitResult) []problem.Outcome {
	var out []problem.Outcome
	for _, r := range results {
		out = append(out, r.Outcome)
	}
	return out
}

const (
	srcA = `package p;
public class A {
	B b = new B();
	int twice() { return b.value() * 2; }
}
`
	srcB = `package p;
public class B {
	public int value() { return 21; }
}
`
)

func TestCompile(t *testing.T) {
	consumer := compiler.NewMemoryConsumer()
	c := compiler.New(env.Bootstrap(), compiler.WithConsumer(consumer))
	results := c.Compile(context.Background(), []*lookup.SourceUnit{
		unit("p/A.java", srcA),
		unit("p/B.java", srcB),
	})
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for _, r := range results {
		if r.Failed() {
			t.Errorf("%s failed: %s", r.File, spew.Sdump(r.Outcome, r.Problems, r.Err))
		}
		if r.Unit == nil || r.Info == nil {
			t.Errorf("%s: missing unit or info", r.File)
		}
	}
	if diff := cmp.Diff([]string{"p/A", "p/B"}, consumer.Names()); diff != "" {
		t.Errorf("class files (-want +got):\n%s", diff)
	}
	s := compiler.Summarize(results)
	if s.Units != 2 || s.Classes != 2 || s.Errors != 0 {
		t.Errorf("summary = %+v", s)
	}
}

const srcBroken = `class Broken {
	int m() { return missing; }
}
`

func TestErrorsWithholdClassFiles(t *testing.T) {
	tests := []struct {
		name    string
		opts    []compiler.Option
		written []string
	}{
		{"default", nil, nil},
		{"proceed on error", []compiler.Option{compiler.WithProceedOnError()}, []string{"Broken"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			consumer := compiler.NewMemoryConsumer()
			opts := append([]compiler.Option{compiler.WithConsumer(consumer)}, tt.opts...)
			c := compiler.New(env.Bootstrap(), opts...)
			results := c.Compile(context.Background(), []*lookup.SourceUnit{unit("Broken.java", srcBroken)})
			r := results[0]
			if r.Outcome != problem.Completed {
				t.Fatalf("outcome = %s, want completed", r.Outcome)
			}
			if r.ErrorCount() == 0 || !r.Failed() {
				t.Errorf("expected errors, got %v", r.Problems)
			}
			if len(r.Classes) != 1 {
				t.Errorf("generated %d classes, want 1", len(r.Classes))
			}
			var names []string
			if n := consumer.Names(); len(n) > 0 {
				names = n
			}
			if diff := cmp.Diff(tt.written, names); diff != "" {
				t.Errorf("class files (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnmatchedSuperConstructorWithholdsClassFiles(t *testing.T) {
	consumer := compiler.NewMemoryConsumer()
	c := compiler.New(env.Bootstrap(), compiler.WithConsumer(consumer))
	results := c.Compile(context.Background(), []*lookup.SourceUnit{
		unit("C.java", "class P { P(int x) {} }\nclass C extends P {}\n"),
	})
	var ids []problem.ID
	for _, p := range results[0].Problems {
		ids = append(ids, p.ID)
	}
	if diff := cmp.Diff([]problem.ID{problem.UndefinedConstructor}, ids); diff != "" {
		t.Errorf("problems (-want +got):\n%s", diff)
	}
	if names := consumer.Names(); len(names) != 0 {
		t.Errorf("class files written for a unit with errors: %v", names)
	}
}

func TestMaxErrorsAbortsUnit(t *testing.T) {
	c := compiler.New(env.Bootstrap(), compiler.WithMaxErrors(1))
	results := c.Compile(context.Background(), []*lookup.SourceUnit{
		unit("Fine.java", "class Fine { int m() { return 1; } }"),
		unit("Bad.java", "class Bad { void m() { a = 1; b = 2; c = 3; } }"),
	})
	if diff := cmp.Diff([]problem.Outcome{problem.Completed, problem.Aborted}, outcomes(results)); diff != "" {
		t.Fatalf("outcomes (-want +got):\n%s", diff)
	}
	bad := results[1]
	if bad.Abort == nil || bad.Abort.Level != problem.AbortCompilation || bad.Abort.Unit != "Bad.java" {
		t.Errorf("abort = %+v", bad.Abort)
	}
	if got := bad.ErrorCount(); got != 1 {
		t.Errorf("aborted unit has %d errors, want 1", got)
	}
	if len(results[0].Classes) != 1 {
		t.Errorf("Fine has %d classes, want 1", len(results[0].Classes))
	}
}

func TestErrorLimitDoesNotAbortInsideReport(t *testing.T) {
	var seen []problem.ID
	reporter := problem.ReporterFunc(func(p problem.Problem) { seen = append(seen, p.ID) })
	c := compiler.New(env.Bootstrap(), compiler.WithMaxErrors(2), compiler.WithReporter(reporter))
	results := c.Compile(context.Background(), []*lookup.SourceUnit{
		unit("Bad.java", "class Bad { void m() { a = 1; b = 2; c = 3; d = 4; } }"),
	})
	if diff := cmp.Diff([]problem.Outcome{problem.Aborted}, outcomes(results)); diff != "" {
		t.Fatalf("outcomes (-want +got):\n%s", diff)
	}
	if got := results[0].ErrorCount(); got != 2 {
		t.Errorf("aborted unit has %d errors, want 2", got)
	}
	if diff := cmp.Diff([]problem.ID{problem.UndefinedName, problem.UndefinedName}, seen); diff != "" {
		t.Errorf("reported problems (-want +got):\n%s", diff)
	}
}

func TestMemberAbortKeepsUnit(t *testing.T) {
	deep := strings.Repeat("(", 1200) + "1" + strings.Repeat(")", 1200)
	consumer := compiler.NewMemoryConsumer()
	c := compiler.New(env.Bootstrap(), compiler.WithConsumer(consumer), compiler.WithProceedOnError())
	results := c.Compile(context.Background(), []*lookup.SourceUnit{
		unit("Deep.java", "class Deep {\n\tint deep() { return "+deep+"; }\n\tint fine() { return 1; }\n}\n"),
	})
	r := results[0]
	if r.Outcome != problem.Completed {
		t.Fatalf("outcome = %s, want completed: %s", r.Outcome, spew.Sdump(r.Abort))
	}
	var ids []problem.ID
	for _, p := range r.Problems {
		ids = append(ids, p.ID)
	}
	if diff := cmp.Diff([]problem.ID{problem.ExpressionTooComplex}, ids); diff != "" {
		t.Errorf("problems (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Deep"}, consumer.Names()); diff != "" {
		t.Errorf("class files (-want +got):\n%s", diff)
	}
}

func TestCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := compiler.New(env.Bootstrap())
	results := c.Compile(ctx, []*lookup.SourceUnit{unit("p/A.java", srcA), unit("p/B.java", srcB)})
	if diff := cmp.Diff([]problem.Outcome{problem.Cancelled, problem.Cancelled}, outcomes(results)); diff != "" {
		t.Errorf("outcomes (-want +got):\n%s", diff)
	}
	if s := compiler.Summarize(results); s.Cancelled != 2 {
		t.Errorf("summary = %+v", s)
	}
}

func TestCheckOnly(t *testing.T) {
	c := compiler.New(env.Bootstrap(), compiler.WithCheckOnly())
	results := c.Compile(context.Background(), []*lookup.SourceUnit{unit("p/B.java", srcB)})
	if r := results[0]; r.Failed() || len(r.Classes) != 0 {
		t.Errorf("check only result: %s", spew.Sdump(r.Outcome, r.Problems, len(r.Classes)))
	}
}

func TestWarnings(t *testing.T) {
	const src = "class L { Runnable r() { return () -> {}; } }"
	tests := []struct {
		name string
		keep bool
		want int
	}{
		{"kept", true, 1},
		{"dropped", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var streamed []problem.Problem
			c := compiler.New(env.Bootstrap(),
				compiler.WithWarnings(tt.keep),
				compiler.WithReporter(problem.ReporterFunc(func(p problem.Problem) { streamed = append(streamed, p) })))
			r := c.Compile(context.Background(), []*lookup.SourceUnit{unit("L.java", src)})[0]
			n := 0
			for _, p := range r.Problems {
				if p.ID == problem.CodegenUnsupported {
					n++
				}
			}
			if n != tt.want {
				t.Errorf("unsupported warnings = %d, want %d: %v", n, tt.want, r.Problems)
			}
			if len(streamed) == 0 {
				t.Errorf("reporter saw no problems")
			}
		})
	}
}

func TestCompileParallel(t *testing.T) {
	mem := env.NewMemory()
	mem.Add("p/A.java", []byte(srcA))
	mem.Add("p/B.java", []byte(srcB))
	mem.Add("q/C.java", []byte("package q; public class C { p.A a; }"))
	mem.Add("q/D.java", []byte("package q; class D { int n = new p.B().value(); }"))

	var units []*lookup.SourceUnit
	for _, f := range mem.Files() {
		u, _ := mem.Unit(f)
		units = append(units, u)
	}
	consumer := compiler.NewMemoryConsumer()
	c := compiler.New(env.Chain{mem, env.Bootstrap()}, compiler.WithConsumer(consumer))
	results := c.CompileParallel(context.Background(), units, 2)

	var files []string
	for _, r := range results {
		files = append(files, r.File)
		if r.Failed() {
			t.Errorf("%s failed: %s", r.File, spew.Sdump(r.Outcome, r.Problems, r.Err))
		}
	}
	if diff := cmp.Diff(mem.Files(), files); diff != "" {
		t.Errorf("result order (-want +got):\n%s", diff)
	}
	// Types answered as sources are not generated by the worker that
	// loaded them.
	if diff := cmp.Diff([]string{"p/A", "p/B", "q/C", "q/D"}, consumer.Names()); diff != "" {
		t.Errorf("class files (-want +got):\n%s", diff)
	}
}

func TestCompileParallelSeesWholeBatch(t *testing.T) {
	units := []*lookup.SourceUnit{
		unit("A.java", "class A { B b; }"),
		unit("B.java", "class B { A a; }"),
		unit("src/p/A.java", srcA),
		unit("src/p/B.java", srcB),
	}
	for _, workers := range []int{1, 2, 4} {
		t.Run(fmt.Sprintf("%d workers", workers), func(t *testing.T) {
			consumer := compiler.NewMemoryConsumer()
			c := compiler.New(env.Bootstrap(), compiler.WithConsumer(consumer))
			for _, r := range c.CompileParallel(context.Background(), units, workers) {
				if r.Failed() {
					t.Errorf("%s failed: %s", r.File, spew.Sdump(r.Outcome, r.Problems, r.Err))
				}
			}
			if diff := cmp.Diff([]string{"A", "B", "p/A", "p/B"}, consumer.Names()); diff != "" {
				t.Errorf("class files (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDirectoryConsumer(t *testing.T) {
	root := t.TempDir()
	d := compiler.DirectoryConsumer{Root: root}
	if err := d.Accept("p/Outer$Inner", []byte{0xca, 0xfe}); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, "p", "Outer$Inner.class"))
	if err != nil {
		t.Fatalf("read class file: %v", err)
	}
	if diff := cmp.Diff([]byte{0xca, 0xfe}, data); diff != "" {
		t.Errorf("contents (-want +got):\n%s", diff)
	}
}

func TestMemoryConsumerRejectsDuplicates(t *testing.T) {
	m := compiler.NewMemoryConsumer()
	if err := m.Accept("A", nil); err != nil {
		t.Fatalf("first Accept: %v", err)
	}
	if err := m.Accept("A", nil); err == nil {
		t.Errorf("duplicate Accept succeeded")
	}
}

func TestCollectSources(t *testing.T) {
	root := t.TempDir()
	write := func(rel, contents string) string {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}
	write("src/p/A.java", srcA)
	write("src/p/B.java", srcB)
	write("src/p/notes.txt", "ignored")
	write("src/.hidden/H.java", "class H {}")
	single := write("Single.java", "class Single {}")

	archive := filepath.Join(root, "more-sources.zip")
	f, err := os.Create(archive)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for name, contents := range map[string]string{"z/Z.java": "package z; class Z {}", "META-INF/MANIFEST.MF": ""} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(contents)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	units, errs := compiler.CollectSources([]string{
		filepath.Join(root, "src"),
		single,
		archive,
		filepath.Join(root, "missing"),
	})
	if len(errs) != 1 {
		t.Errorf("errors = %v, want one for the missing path", errs)
	}
	var got []string
	for _, u := range units {
		got = append(got, u.FileName)
	}
	want := []string{
		filepath.Join(root, "src", "p", "A.java"),
		filepath.Join(root, "src", "p", "B.java"),
		single,
		archive + "!z/Z.java",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("units (-want +got):\n%s", diff)
	}
}

func TestBatch(t *testing.T) {
	done := make(chan *compiler.Job, 1)
	b := compiler.NewBatch(compiler.New(env.Bootstrap()),
		compiler.WithWorkers(2),
		compiler.OnDone(func(j *compiler.Job) { done <- j }))
	defer b.Close()

	id := b.Submit(compiler.Request{Units: []*lookup.SourceUnit{
		unit("p/A.java", srcA),
		unit("p/B.java", srcB),
	}})
	select {
	case job := <-done:
		if job.ID != id {
			t.Errorf("finished job %s, want %s", job.ID, id)
		}
		if job.Status != compiler.StatusCompleted {
			t.Errorf("status = %s, want completed", job.Status)
		}
		if job.Total != 2 || job.Summary.Units != 2 {
			t.Errorf("job counts: total %d, summary %+v", job.Total, job.Summary)
		}
	case <-time.After(30 * time.Second):
		t.Fatal("job did not finish")
	}

	got, ok := b.Get(id)
	if !ok || got.Status != compiler.StatusCompleted {
		t.Errorf("Get(%s) = %v, %v", id, got.Status, ok)
	}
	if jobs := b.List(); len(jobs) != 1 {
		t.Errorf("List returned %d jobs", len(jobs))
	}
}
