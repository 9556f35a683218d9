package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// ClassFileConsumer stores generated class files. name is the internal
// name of the class, such as p/Outer$Inner.
type ClassFileConsumer interface {
	Accept(name string, data []byte) error
}

// DirectoryConsumer writes class files below a root directory, one
// directory per package.
type DirectoryConsumer struct {
	Root string
}

func (d DirectoryConsumer) Accept(name string, data []byte) error {
	path := filepath.Join(d.Root, filepath.FromSlash(name)+".class")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write class file: %w", err)
	}
	log.Debugf("wrote %s", path)
	return nil
}

// MemoryConsumer keeps class files in memory. It is safe for concurrent
// use.
type MemoryConsumer struct {
	mu      sync.Mutex
	classes map[string][]byte
}

func NewMemoryConsumer() *MemoryConsumer {
	return &MemoryConsumer{classes: make(map[string][]byte)}
}

func (m *MemoryConsumer) Accept(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.classes[name]; dup {
		return fmt.Errorf("accept %s: duplicate class", name)
	}
	m.classes[name] = data
	return nil
}

func (m *MemoryConsumer) Get(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.classes[name]
	return data, ok
}

// Names returns the accepted class names in sorted order.
func (m *MemoryConsumer) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.classes))
	for n := range m.classes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
