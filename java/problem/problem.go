// Package problem defines the diagnostics produced by every compiler phase
// and the abort signals used to unwind a single broken unit.
package problem

import (
	"fmt"
	"strings"
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	}
	return "Unknown"
}

type Category int

const (
	CategoryLexical Category = iota
	CategorySyntax
	CategorySemantic
	CategoryFlow
	CategoryInternal
)

func (c Category) String() string {
	switch c {
	case CategoryLexical:
		return "lexical"
	case CategorySyntax:
		return "syntax"
	case CategorySemantic:
		return "semantic"
	case CategoryFlow:
		return "flow"
	case CategoryInternal:
		return "internal"
	}
	return "unknown"
}

// Problem is a single diagnostic. Start and End are byte offsets into the
// source (End exclusive), Line and Column are 1-based.
type Problem struct {
	ID        ID
	Severity  Severity
	Category  Category
	Message   string
	Arguments []string
	File      string
	Start     int
	End       int
	Line      int
	Column    int
}

func (p Problem) IsError() bool {
	return p.Severity == SeverityError
}

func (p Problem) String() string {
	var sb strings.Builder
	if p.File != "" {
		sb.WriteString(p.File)
		sb.WriteString(":")
	}
	fmt.Fprintf(&sb, "%d:%d: %s: %s", p.Line, p.Column, strings.ToLower(p.Severity.String()), p.Message)
	return sb.String()
}

func (p Problem) Error() string {
	return p.String()
}

// Location is the source range a problem is attached to.
type Location struct {
	File   string
	Start  int
	End    int
	Line   int
	Column int
}

// New builds a problem with the default severity and category of id and a
// message formatted from its template.
func New(id ID, loc Location, args ...any) Problem {
	desc := describe(id)
	strArgs := make([]string, len(args))
	for i, a := range args {
		strArgs[i] = fmt.Sprint(a)
	}
	return Problem{
		ID:        id,
		Severity:  desc.severity,
		Category:  desc.category,
		Message:   formatMessage(desc.template, args),
		Arguments: strArgs,
		File:      loc.File,
		Start:     loc.Start,
		End:       loc.End,
		Line:      loc.Line,
		Column:    loc.Column,
	}
}

func formatMessage(template string, args []any) string {
	if template == "" {
		return fmt.Sprint(args...)
	}
	n := strings.Count(template, "%") - 2*strings.Count(template, "%%")
	if n > len(args) {
		padded := make([]any, n)
		copy(padded, args)
		for i := len(args); i < n; i++ {
			padded[i] = "?"
		}
		args = padded
	} else if n < len(args) {
		args = args[:n]
	}
	return fmt.Sprintf(template, args...)
}
