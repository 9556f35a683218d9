package lsp

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileWatcher polls the workspace root and keeps the workspace in sync
// with files changed outside the editor.
type FileWatcher struct {
	workspace    *Workspace
	stopCh       chan struct{}
	pollInterval time.Duration
	modTimes     map[string]time.Time
	onChange     func(changed, removed []string)
}

func NewFileWatcher(w *Workspace, onChange func(changed, removed []string)) *FileWatcher {
	return &FileWatcher{
		workspace:    w,
		stopCh:       make(chan struct{}),
		pollInterval: time.Second,
		modTimes:     make(map[string]time.Time),
		onChange:     onChange,
	}
}

func (fw *FileWatcher) Start() {
	// The first scan only records modification times; the workspace was
	// loaded by ScanAll.
	fw.scan(false)
	go fw.run()
}

func (fw *FileWatcher) Stop() {
	close(fw.stopCh)
}

func (fw *FileWatcher) run() {
	ticker := time.NewTicker(fw.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-fw.stopCh:
			return
		case <-ticker.C:
			fw.scan(true)
		}
	}
}

func (fw *FileWatcher) scan(notify bool) {
	current := make(map[string]bool)
	var changed, removed []string

	filepath.Walk(fw.workspace.RootDir(), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != fw.workspace.RootDir() && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".java" {
			return nil
		}
		current[path] = true
		lastMod, known := fw.modTimes[path]
		if !known || info.ModTime().After(lastMod) {
			fw.modTimes[path] = info.ModTime()
			if notify {
				if err := fw.workspace.ScanFile(path); err != nil {
					log.Warningf("rescan %s: %s", path, err)
					return nil
				}
				changed = append(changed, path)
			}
		}
		return nil
	})

	for path := range fw.modTimes {
		if !current[path] {
			delete(fw.modTimes, path)
			fw.workspace.RemoveFile(path)
			removed = append(removed, path)
		}
	}
	if notify && fw.onChange != nil && len(changed)+len(removed) > 0 {
		fw.onChange(changed, removed)
	}
}
