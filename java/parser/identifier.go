package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// InvalidInputError is returned by the strict validators.
type InvalidInputError struct {
	Input  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Input, e.Reason)
}

// IsIdentifier validates name as a Java identifier at the given source
// level. Keywords, the boolean and null literals and, from Java 9 on, the
// single underscore are rejected.
func IsIdentifier(name string, level SourceLevel) error {
	if name == "" {
		return &InvalidInputError{Input: name, Reason: "empty identifier"}
	}
	for i, r := range name {
		if r == utf8.RuneError {
			return &InvalidInputError{Input: name, Reason: "invalid UTF-8"}
		}
		if i == 0 && !isJavaLetter(r) {
			return &InvalidInputError{Input: name, Reason: fmt.Sprintf("%q cannot start an identifier", r)}
		}
		if i > 0 && !isJavaLetterOrDigit(r) {
			return &InvalidInputError{Input: name, Reason: fmt.Sprintf("%q is not allowed in an identifier", r)}
		}
	}
	if IsKeyword(name, level) {
		return &InvalidInputError{Input: name, Reason: "reserved keyword"}
	}
	if name == "_" && level >= Java9 {
		return &InvalidInputError{Input: name, Reason: "'_' is a keyword from source level 9"}
	}
	return nil
}

// ValidatePackageName checks a dotted package name segment by segment.
func ValidatePackageName(name string, level SourceLevel) error {
	if name == "" {
		return &InvalidInputError{Input: name, Reason: "empty package name"}
	}
	for _, seg := range strings.Split(name, ".") {
		if seg == "" {
			return &InvalidInputError{Input: name, Reason: "empty segment"}
		}
		if err := IsIdentifier(seg, level); err != nil {
			return &InvalidInputError{Input: name, Reason: fmt.Sprintf("segment %q: %s", seg, err.(*InvalidInputError).Reason)}
		}
	}
	return nil
}

// ValidateTypeName checks a simple or qualified type name.
func ValidateTypeName(name string, level SourceLevel) error {
	return ValidatePackageName(name, level)
}
