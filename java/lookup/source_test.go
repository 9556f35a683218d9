package lookup

import (
	"testing"

	"github.com/dhamidi/jfront/java/ast"
)

func TestIsDeprecatedDoc(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"block tag", "/**\n * Old.\n * @deprecated use New\n */", true},
		{"bare tag", "/** @deprecated */", true},
		{"inline mention", "/**\n * Replaces the {@code @deprecated} API.\n */", false},
		{"longer tag", "/**\n * @deprecatedSince 9\n */", false},
		{"no tag", "/** Fine. */", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDeprecatedDoc(&ast.Comment{Text: tt.text}); got != tt.want {
				t.Errorf("isDeprecatedDoc(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
	if isDeprecatedDoc(nil) {
		t.Error("nil comment is deprecated")
	}
}
