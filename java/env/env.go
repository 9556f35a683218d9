// Package env provides the name environments the compiler looks types up
// in: class path directories and archives, source path directories,
// in-memory sources and an embedded bootstrap library.
//
// Every environment answers by compound name: {"java", "lang", "String"}
// for a top-level type, {"java", "util", "Map$Entry"} for a member type in
// binary form. The answers of Directory are cached and safe for concurrent
// use, so parallel compilation workers can share one instance.
package env

import (
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/jfront/java/lookup"
)

var log = commonlog.GetLogger("jfront.env")

// Chain asks each environment in turn; the first answer wins.
type Chain []lookup.NameEnvironment

func (c Chain) FindType(compoundName []string) lookup.Answer {
	for _, e := range c {
		if e == nil {
			continue
		}
		if a := e.FindType(compoundName); a.Found() {
			return a
		}
	}
	return lookup.Answer{}
}

func (c Chain) IsPackage(parent []string, name string) bool {
	for _, e := range c {
		if e != nil && e.IsPackage(parent, name) {
			return true
		}
	}
	return false
}

// internalName joins a compound name with slashes: java/lang/String.
func internalName(compound []string) string {
	return strings.Join(compound, "/")
}

func packagePath(parent []string, name string) string {
	return strings.Join(append(append([]string{}, parent...), name), "/")
}
