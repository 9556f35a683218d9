package lsp

import (
	"sort"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/jfront/java/problem"
)

const diagnosticSource = "jfront"

// lineIndex converts byte offsets of a document into LSP positions, whose
// characters count UTF-16 code units.
type lineIndex struct {
	content []byte
	starts  []int
}

func newLineIndex(content []byte) *lineIndex {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{content: content, starts: starts}
}

func (li *lineIndex) position(offset int) protocol.Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(li.content) {
		offset = len(li.content)
	}
	line := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1
	char := 0
	for b := li.content[li.starts[line]:offset]; len(b) > 0; {
		r, size := utf8.DecodeRune(b)
		if r >= 0x10000 {
			char += 2
		} else {
			char++
		}
		b = b[size:]
	}
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(char)}
}

// Diagnostics converts the problems of one document.
func Diagnostics(content []byte, problems []problem.Problem) []protocol.Diagnostic {
	li := newLineIndex(content)
	out := make([]protocol.Diagnostic, 0, len(problems))
	source := diagnosticSource
	for _, p := range problems {
		start := li.position(p.Start)
		end := start
		if p.End > p.Start {
			end = li.position(p.End)
		} else if p.Start < len(content) {
			end = li.position(p.Start + 1)
		}
		severity := severityOf(p.Severity)
		out = append(out, protocol.Diagnostic{
			Range:    protocol.Range{Start: start, End: end},
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: protocol.Integer(p.ID)},
			Source:   &source,
			Message:  p.Message,
		})
	}
	return out
}

func severityOf(s problem.Severity) protocol.DiagnosticSeverity {
	switch s {
	case problem.SeverityError:
		return protocol.DiagnosticSeverityError
	case problem.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	}
	return protocol.DiagnosticSeverityInformation
}
