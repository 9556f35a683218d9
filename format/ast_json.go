package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/jfront/java/ast"
)

// ASTJSONEncoder writes a syntax tree as nested JSON objects.
type ASTJSONEncoder struct {
	w io.Writer
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(node ast.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *ASTJSONEncoder) MarshalText(node ast.Node) ([]byte, error) {
	return json.MarshalIndent(nodeToJSON(node), "", "  ")
}

type astJSONNode struct {
	Kind     string         `json:"kind"`
	Span     *astJSONSpan   `json:"span,omitempty"`
	Text     string         `json:"text,omitempty"`
	Flags    []string       `json:"flags,omitempty"`
	Children []*astJSONNode `json:"children,omitempty"`
}

type astJSONSpan struct {
	Start astJSONPosition `json:"start"`
	End   astJSONPosition `json:"end"`
}

type astJSONPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func nodeToJSON(n ast.Node) *astJSONNode {
	jn := &astJSONNode{
		Kind:  n.Kind().String(),
		Text:  nodeText(n),
		Flags: flagNames(n.Flags()),
	}

	span := n.Span()
	if span.Start.Line != 0 || span.End.Line != 0 {
		jn.Span = &astJSONSpan{
			Start: astJSONPosition{Line: span.Start.Line, Column: span.Start.Column},
			End:   astJSONPosition{Line: span.End.Line, Column: span.End.Column},
		}
	}

	for _, child := range ast.Children(n) {
		jn.Children = append(jn.Children, nodeToJSON(child))
	}
	return jn
}

// nodeText is the token-level detail a node carries beyond its children.
func nodeText(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Ident:
		return n.Name
	case *ast.Literal:
		return n.Raw
	case *ast.Unary:
		return n.Op.String()
	case *ast.Binary:
		return n.Op.String()
	case *ast.Assign:
		return n.Op.String()
	case *ast.Modifiers:
		return n.Mods.String()
	case *ast.TypeDecl:
		return n.DeclKind.String()
	case *ast.PrimitiveType:
		return n.Prim.String()
	}
	return ""
}

func flagNames(f ast.Flags) []string {
	var names []string
	for _, fn := range []struct {
		flag ast.Flags
		name string
	}{
		{ast.Malformed, "malformed"},
		{ast.Recovered, "recovered"},
		{ast.HasSyntaxErrors, "syntax-errors"},
		{ast.Unreachable, "unreachable"},
	} {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return names
}
