package format

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/jfront/java/problem"
)

// ProblemPrinter writes problems one per line, each followed by the
// offending source line and a caret under the reported column.
type ProblemPrinter struct {
	w       io.Writer
	sources map[string][]byte
}

func NewProblemPrinter(w io.Writer) *ProblemPrinter {
	return &ProblemPrinter{w: w, sources: make(map[string][]byte)}
}

// AddSource registers the contents of a file so that excerpts can be shown.
func (pp *ProblemPrinter) AddSource(file string, contents []byte) {
	pp.sources[file] = contents
}

func (pp *ProblemPrinter) Print(problems []problem.Problem) error {
	for _, p := range problems {
		if _, err := fmt.Fprintln(pp.w, p.String()); err != nil {
			return err
		}
		line, ok := sourceLine(pp.sources[p.File], p.Line)
		if !ok {
			continue
		}
		col := p.Column
		if col < 1 {
			col = 1
		}
		if _, err := fmt.Fprintf(pp.w, "\t%s\n\t%s\n", line, caret(line, col)); err != nil {
			return err
		}
	}
	return nil
}

func sourceLine(src []byte, line int) (string, bool) {
	if src == nil || line < 1 {
		return "", false
	}
	lines := bytes.Split(src, []byte("\n"))
	if line > len(lines) {
		return "", false
	}
	return strings.TrimRight(string(lines[line-1]), "\r"), true
}

// caret keeps the tabs of the source line so the marker lines up.
func caret(line string, col int) string {
	var sb strings.Builder
	for i, r := range []rune(line) {
		if i >= col-1 {
			break
		}
		if r == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
	}
	sb.WriteByte('^')
	return sb.String()
}
