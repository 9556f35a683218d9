package compiler

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dhamidi/jfront/java/lookup"
)

// CollectSources reads the Java source files named by paths. A path is a
// .java file, a directory searched recursively, or a .zip or .jar archive
// whose .java entries are read; entries of an archive are named
// archive!entry. Unreadable files are reported in errs and skipped.
func CollectSources(paths []string) (units []*lookup.SourceUnit, errs []error) {
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("stat source: %w", err))
			continue
		}
		switch {
		case info.IsDir():
			u, e := collectDirectory(path)
			units = append(units, u...)
			errs = append(errs, e...)
		case isArchive(path):
			u, e := collectArchive(path)
			units = append(units, u...)
			errs = append(errs, e...)
		default:
			data, err := os.ReadFile(path)
			if err != nil {
				errs = append(errs, fmt.Errorf("read source: %w", err))
				continue
			}
			units = append(units, &lookup.SourceUnit{FileName: path, Contents: data})
		}
	}
	log.Debugf("collected %d source units", len(units))
	return units, errs
}

func isArchive(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip", ".jar":
		return true
	}
	return false
}

func collectDirectory(root string) (units []*lookup.SourceUnit, errs []error) {
	var files []string
	err := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			errs = append(errs, fmt.Errorf("walk %s: %w", p, err))
			return nil
		}
		if info.IsDir() {
			if p != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(p) == ".java" {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		errs = append(errs, fmt.Errorf("walk %s: %w", root, err))
	}
	sort.Strings(files)
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			errs = append(errs, fmt.Errorf("read source: %w", err))
			continue
		}
		units = append(units, &lookup.SourceUnit{FileName: f, Contents: data})
	}
	return units, errs
}

func collectArchive(path string) (units []*lookup.SourceUnit, errs []error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, []error{fmt.Errorf("open archive: %w", err)}
	}
	defer r.Close()
	for _, f := range r.File {
		if f.FileInfo().IsDir() || filepath.Ext(f.Name) != ".java" {
			continue
		}
		data, err := readEntry(f)
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s in %s: %w", f.Name, path, err))
			continue
		}
		units = append(units, &lookup.SourceUnit{FileName: path + "!" + f.Name, Contents: data})
	}
	return units, errs
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
