package env

import (
	"embed"
	"io/fs"
	"strings"
)

// stubs holds a minimal platform library in source form: the java.lang
// types the language itself depends on and a few java.io and java.util
// types that ordinary programs use.
//
//go:embed stubs
var stubs embed.FS

// Bootstrap returns an environment answering from the embedded platform
// stubs. It is used when no JDK class path is configured.
func Bootstrap() *Memory {
	m := NewMemory()
	err := fs.WalkDir(stubs, "stubs", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(p, ".java") {
			return err
		}
		data, err := stubs.ReadFile(p)
		if err != nil {
			return err
		}
		m.Add(strings.TrimPrefix(p, "stubs/"), data)
		return nil
	})
	if err != nil {
		log.Errorf("load bootstrap stubs: %s", err)
	}
	return m
}
