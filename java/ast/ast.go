// Package ast declares the typed syntax tree produced by the parser and
// consumed by binding resolution, flow analysis and code generation.
//
// Every node embeds Base, which carries its source span and flags. Nodes are
// grouped by category through the Decl, Stmt, Expr and TypeNode interfaces;
// Kind reports the concrete variant so that consumers can switch
// exhaustively.
package ast

import "fmt"

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a half-open byte range [Start.Offset, End.Offset).
type Span struct {
	Start Position
	End   Position
}

func (s Span) Len() int { return s.End.Offset - s.Start.Offset }

// Contains reports whether offset falls inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start.Offset && offset < s.End.Offset
}

type Flags uint8

const (
	// Malformed marks a node that recovery could not complete.
	Malformed Flags = 1 << iota
	// Recovered marks a node built during syntax-error recovery.
	Recovered
	// HasSyntaxErrors is set on declarations that contain syntax errors.
	HasSyntaxErrors
	// Unreachable is set by flow analysis on statements that can never run.
	Unreachable
)

func (f Flags) Has(flag Flags) bool { return f&flag != 0 }

type Node interface {
	Kind() NodeKind
	Span() Span
	Flags() Flags
	base() *Base
}

// Base holds the fields shared by every node.
type Base struct {
	Range Span
	Flag  Flags
}

func (b *Base) Span() Span        { return b.Range }
func (b *Base) Flags() Flags      { return b.Flag }
func (b *Base) base() *Base       { return b }
func (b *Base) SetEnd(p Position) { b.Range.End = p }

// SetFlags adds flags to n.
func SetFlags(n Node, f Flags) {
	if n != nil {
		n.base().Flag |= f
	}
}

// ClearFlags removes flags from n.
func ClearFlags(n Node, f Flags) {
	if n != nil {
		n.base().Flag &^= f
	}
}

// SetSpan replaces the span of n.
func SetSpan(n Node, s Span) {
	if n != nil {
		n.base().Range = s
	}
}

// Decl is a declaration: a compilation unit member or a type member.
type Decl interface {
	Node
	declNode()
}

type Stmt interface {
	Node
	stmtNode()
}

type Expr interface {
	Node
	exprNode()
}

// TypeNode is a type as written in source.
type TypeNode interface {
	Node
	typeNode()
}

type CommentKind int

const (
	LineComment CommentKind = iota
	BlockComment
	JavadocComment
)

type Comment struct {
	Kind CommentKind
	Span Span
	Text string
}

// Ident is a simple name with its source range.
type Ident struct {
	Base
	Name string
}

func (x *Ident) String() string {
	if x == nil {
		return ""
	}
	return x.Name
}
