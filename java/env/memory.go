package env

import (
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/dhamidi/jfront/java/lookup"
)

// Memory is a source path held in memory. Files are keyed by their path
// relative to the source root, such as p/q/Name.java; a type is found in
// the file named after it.
type Memory struct {
	mu       sync.RWMutex
	files    map[string][]byte
	packages map[string]bool
}

func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte), packages: make(map[string]bool)}
}

// Add stores the contents of a source file. A later Add of the same path
// replaces it.
func (m *Memory) Add(file string, contents []byte) {
	file = strings.TrimPrefix(path.Clean(file), "/")
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[file] = contents
	for dir := path.Dir(file); dir != "." && dir != "/"; dir = path.Dir(dir) {
		m.packages[dir] = true
	}
}

func (m *Memory) Remove(file string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, strings.TrimPrefix(path.Clean(file), "/"))
}

// Files returns the stored paths in sorted order.
func (m *Memory) Files() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unit returns a stored file as a source unit.
func (m *Memory) Unit(file string) (*lookup.SourceUnit, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	contents, ok := m.files[file]
	if !ok {
		return nil, false
	}
	return &lookup.SourceUnit{FileName: file, Contents: contents}, true
}

func (m *Memory) FindType(compoundName []string) lookup.Answer {
	name := internalName(compoundName)
	if strings.Contains(path.Base(name), "$") {
		return lookup.Answer{}
	}
	if su, ok := m.Unit(name + ".java"); ok {
		return lookup.Answer{Source: su}
	}
	return lookup.Answer{}
}

func (m *Memory) IsPackage(parent []string, name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.packages[packagePath(parent, name)]
}
