package lsp

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dhamidi/jfront/compiler"
	"github.com/dhamidi/jfront/java/env"
	"github.com/dhamidi/jfront/java/lookup"
	"github.com/dhamidi/jfront/java/parser"
	"github.com/dhamidi/jfront/java/problem"
)

// Workspace holds the Java sources below a root directory. Files are
// made visible to each other through an in-memory source path keyed by
// package, so a file is found wherever it lives below the root.
type Workspace struct {
	mu      sync.RWMutex
	rootDir string
	files   map[string]*File
	sources *env.Memory
	names   lookup.NameEnvironment
	opts    []compiler.Option
}

type File struct {
	Path    string
	Key     string // path on the source path, e.g. p/q/Name.java
	Content []byte
}

// NewWorkspace creates a workspace. classpath answers library types and
// may be nil; the bootstrap stubs are always searched last.
func NewWorkspace(rootDir string, classpath lookup.NameEnvironment, opts ...compiler.Option) *Workspace {
	w := &Workspace{
		rootDir: rootDir,
		files:   make(map[string]*File),
		sources: env.NewMemory(),
		opts:    opts,
	}
	chain := env.Chain{w.sources}
	if classpath != nil {
		chain = append(chain, classpath)
	}
	w.names = append(chain, env.Bootstrap())
	return w
}

func (w *Workspace) RootDir() string {
	return w.rootDir
}

// ScanAll loads every .java file below the root.
func (w *Workspace) ScanAll() error {
	return filepath.Walk(w.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != w.rootDir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".java" {
			if err := w.ScanFile(path); err != nil {
				log.Warningf("scan %s: %s", path, err)
			}
		}
		return nil
	})
}

func (w *Workspace) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	w.UpdateFile(path, content)
	return nil
}

func (w *Workspace) UpdateFile(path string, content []byte) {
	key := sourceKey(path, content)
	w.mu.Lock()
	defer w.mu.Unlock()
	if old, ok := w.files[path]; ok && old.Key != key {
		w.sources.Remove(old.Key)
	}
	w.files[path] = &File{Path: path, Key: key, Content: content}
	w.sources.Add(key, content)
}

func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if f, ok := w.files[path]; ok {
		w.sources.Remove(f.Key)
		delete(w.files, path)
	}
}

func (w *Workspace) GetFile(path string) *File {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[path]
}

// Paths returns the paths of all files in sorted order.
func (w *Workspace) Paths() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	paths := make([]string, 0, len(w.files))
	for p := range w.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Units returns source units for paths, or for every file when paths is
// empty. Unknown paths are skipped.
func (w *Workspace) Units(paths ...string) []*lookup.SourceUnit {
	if len(paths) == 0 {
		paths = w.Paths()
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	var units []*lookup.SourceUnit
	for _, p := range paths {
		if f, ok := w.files[p]; ok {
			units = append(units, &lookup.SourceUnit{FileName: f.Path, Contents: f.Content})
		}
	}
	return units
}

// Compiler returns a compiler that checks units against the workspace.
func (w *Workspace) Compiler() *compiler.Compiler {
	opts := append([]compiler.Option{compiler.WithCheckOnly()}, w.opts...)
	return compiler.New(w.names, opts...)
}

// Check compiles the given files and returns their problems by path.
func (w *Workspace) Check(ctx context.Context, paths ...string) map[string][]problem.Problem {
	out := make(map[string][]problem.Problem)
	for _, r := range w.Compiler().Compile(ctx, w.Units(paths...)) {
		out[r.File] = r.Problems
	}
	return out
}

// sourceKey places a file on the source path by its package declaration.
func sourceKey(path string, content []byte) string {
	p := parser.ParseCompilationUnit(bytes.NewReader(content), parser.WithFile(filepath.Base(path)))
	pkg := p.Finish().PackageName()
	base := filepath.Base(path)
	if pkg == "" {
		return base
	}
	return strings.ReplaceAll(pkg, ".", "/") + "/" + base
}
