package lsp

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/jfront/java/problem"
)

func TestLineIndexPosition(t *testing.T) {
	content := []byte("ab\ncéd\n\U0001F600x\n")
	li := newLineIndex(content)
	tests := []struct {
		offset int
		want   protocol.Position
	}{
		{0, protocol.Position{Line: 0, Character: 0}},
		{2, protocol.Position{Line: 0, Character: 2}},
		{3, protocol.Position{Line: 1, Character: 0}},
		{6, protocol.Position{Line: 1, Character: 2}}, // after the two byte é
		{8, protocol.Position{Line: 2, Character: 0}},
		{12, protocol.Position{Line: 2, Character: 2}}, // a surrogate pair
		{-5, protocol.Position{Line: 0, Character: 0}},
		{1000, protocol.Position{Line: 3, Character: 0}},
	}
	for _, tt := range tests {
		if got := li.position(tt.offset); got != tt.want {
			t.Errorf("position(%d) = %+v, want %+v", tt.offset, got, tt.want)
		}
	}
}

func TestDiagnostics(t *testing.T) {
	content := []byte("class A {\n  int x = y;\n}\n")
	problems := []problem.Problem{
		{ID: problem.ID(7), Severity: problem.SeverityError, Message: "y cannot be resolved", Start: 20, End: 21},
		{ID: problem.ID(8), Severity: problem.SeverityWarning, Message: "empty range", Start: 0, End: 0},
		{ID: problem.ID(9), Severity: problem.SeverityInfo, Message: "note", Start: 6, End: 7},
	}
	got := Diagnostics(content, problems)
	if len(got) != 3 {
		t.Fatalf("got %d diagnostics", len(got))
	}

	wantRanges := []protocol.Range{
		{Start: protocol.Position{Line: 1, Character: 10}, End: protocol.Position{Line: 1, Character: 11}},
		{Start: protocol.Position{Line: 0, Character: 0}, End: protocol.Position{Line: 0, Character: 1}},
		{Start: protocol.Position{Line: 0, Character: 6}, End: protocol.Position{Line: 0, Character: 7}},
	}
	wantSeverities := []protocol.DiagnosticSeverity{
		protocol.DiagnosticSeverityError,
		protocol.DiagnosticSeverityWarning,
		protocol.DiagnosticSeverityInformation,
	}
	for i, d := range got {
		if diff := cmp.Diff(wantRanges[i], d.Range); diff != "" {
			t.Errorf("diagnostic %d range (-want +got):\n%s", i, diff)
		}
		if d.Severity == nil || *d.Severity != wantSeverities[i] {
			t.Errorf("diagnostic %d severity = %v", i, d.Severity)
		}
		if d.Source == nil || *d.Source != "jfront" {
			t.Errorf("diagnostic %d source = %v", i, d.Source)
		}
		if d.Message != problems[i].Message {
			t.Errorf("diagnostic %d message = %q", i, d.Message)
		}
	}
}

func TestURIRoundTrip(t *testing.T) {
	path := "/tmp/work space/A.java"
	uri := pathToURI(path)
	if uri != "file:///tmp/work%20space/A.java" {
		t.Errorf("pathToURI = %q", uri)
	}
	back, err := uriToPath(uri)
	if err != nil || back != path {
		t.Errorf("uriToPath(%q) = %q, %v", uri, back, err)
	}
}
