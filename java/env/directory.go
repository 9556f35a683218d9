package env

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dhamidi/jfront/classfile"
	"github.com/dhamidi/jfront/java/lookup"
)

// Directory answers from a class path of directories and .jar or .zip
// archives, then from a source path of directories. Binary answers win
// over source answers for the same name.
type Directory struct {
	classPath  []entry
	sourcePath []string

	mu    sync.Mutex
	cache map[string]lookup.Answer
}

type entry interface {
	open(name string) ([]byte, bool)
	hasDir(dir string) bool
	close() error
}

// NewDirectory opens the class path entries. Entries that do not exist are
// skipped with a log message, like a JVM does.
func NewDirectory(classPath, sourcePath []string) (*Directory, error) {
	d := &Directory{sourcePath: sourcePath, cache: make(map[string]lookup.Answer)}
	for _, p := range classPath {
		info, err := os.Stat(p)
		if err != nil {
			log.Warningf("class path entry %s: %s", p, err)
			continue
		}
		if info.IsDir() {
			d.classPath = append(d.classPath, dirEntry(p))
			continue
		}
		z, err := openArchive(p)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("open class path entry %s: %w", p, err)
		}
		d.classPath = append(d.classPath, z)
	}
	return d, nil
}

// SplitPath splits a class path or source path string on the platform's
// list separator.
func SplitPath(list string) []string {
	if list == "" {
		return nil
	}
	return filepath.SplitList(list)
}

func (d *Directory) Close() error {
	var first error
	for _, e := range d.classPath {
		if err := e.close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (d *Directory) FindType(compoundName []string) lookup.Answer {
	name := internalName(compoundName)
	d.mu.Lock()
	defer d.mu.Unlock()
	if a, ok := d.cache[name]; ok {
		return a
	}
	a := d.find(name)
	d.cache[name] = a
	return a
}

func (d *Directory) find(name string) lookup.Answer {
	for _, e := range d.classPath {
		data, ok := e.open(name + ".class")
		if !ok {
			continue
		}
		cf, err := classfile.Parse(bytes.NewReader(data))
		if err != nil {
			log.Errorf("parse %s.class: %s", name, err)
			continue
		}
		return lookup.Answer{Binary: cf}
	}
	if strings.Contains(filepath.Base(name), "$") {
		return lookup.Answer{}
	}
	for _, root := range d.sourcePath {
		file := filepath.Join(root, filepath.FromSlash(name)+".java")
		contents, err := os.ReadFile(file)
		if err != nil {
			continue
		}
		return lookup.Answer{Source: &lookup.SourceUnit{FileName: file, Contents: contents}}
	}
	return lookup.Answer{}
}

func (d *Directory) IsPackage(parent []string, name string) bool {
	dir := packagePath(parent, name)
	for _, e := range d.classPath {
		if e.hasDir(dir) {
			return true
		}
	}
	for _, root := range d.sourcePath {
		if info, err := os.Stat(filepath.Join(root, filepath.FromSlash(dir))); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

type dirEntry string

func (d dirEntry) open(name string) ([]byte, bool) {
	data, err := os.ReadFile(filepath.Join(string(d), filepath.FromSlash(name)))
	return data, err == nil
}

func (d dirEntry) hasDir(dir string) bool {
	info, err := os.Stat(filepath.Join(string(d), filepath.FromSlash(dir)))
	return err == nil && info.IsDir()
}

func (dirEntry) close() error { return nil }

// archiveEntry indexes a zip archive by entry name and directory.
type archiveEntry struct {
	r     *zip.ReadCloser
	files map[string]*zip.File
	dirs  map[string]bool
}

func openArchive(path string) (*archiveEntry, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	a := &archiveEntry{r: r, files: make(map[string]*zip.File), dirs: make(map[string]bool)}
	for _, f := range r.File {
		name := strings.TrimSuffix(f.Name, "/")
		if strings.HasSuffix(f.Name, "/") {
			a.dirs[name] = true
			continue
		}
		a.files[name] = f
		for i := strings.LastIndexByte(name, '/'); i > 0; i = strings.LastIndexByte(name[:i], '/') {
			a.dirs[name[:i]] = true
		}
	}
	log.Debugf("indexed %s: %d entries", path, len(a.files))
	return a, nil
}

func (a *archiveEntry) open(name string) ([]byte, bool) {
	f, ok := a.files[name]
	if !ok {
		return nil, false
	}
	rc, err := f.Open()
	if err != nil {
		log.Errorf("open %s: %s", name, err)
		return nil, false
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		log.Errorf("read %s: %s", name, err)
		return nil, false
	}
	return data, true
}

func (a *archiveEntry) hasDir(dir string) bool { return a.dirs[dir] }

func (a *archiveEntry) close() error { return a.r.Close() }
