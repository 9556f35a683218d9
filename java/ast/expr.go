package ast

type LiteralKind int

const (
	IntLit LiteralKind = iota
	LongLit
	FloatLit
	DoubleLit
	CharLit
	StringLit
	TextBlockLit
	BoolLit
	NullLit
)

// Literal keeps the raw source text; evaluation happens during resolution.
type Literal struct {
	Base
	LitKind LiteralKind
	Raw     string
}

// Name is a simple name in expression position. Whether it denotes a
// local, a field, a type or a package is decided during resolution.
type Name struct {
	Base
	Ident *Ident
}

func (n *Name) String() string { return n.Ident.Name }

// FieldAccess is X.Name; qualified names parse as nested field accesses.
type FieldAccess struct {
	Base
	X    Expr
	Name *Ident
}

type MethodCall struct {
	Base
	X        Expr // nil for unqualified calls
	TypeArgs []TypeNode
	Name     *Ident
	Args     []Expr
}

type NewObject struct {
	Base
	Outer    Expr
	TypeArgs []TypeNode
	Type     *ClassType
	Args     []Expr
	Body     *TypeDecl // anonymous class body
}

type NewArray struct {
	Base
	Elem      TypeNode
	DimExprs  []Expr
	ExtraDims int
	Init      *ArrayInit
}

type ArrayInit struct {
	Base
	Elems []Expr
}

type ArrayAccess struct {
	Base
	X     Expr
	Index Expr
}

type Unary struct {
	Base
	Op      Operator
	X       Expr
	Postfix bool
}

type Binary struct {
	Base
	Op Operator
	X  Expr
	Y  Expr
}

// Assign covers = and the compound assignment operators.
type Assign struct {
	Base
	Op     Operator
	Target Expr
	Value  Expr
}

type Conditional struct {
	Base
	Cond Expr
	Then Expr
	Else Expr
}

type Cast struct {
	Base
	Type TypeNode
	X    Expr
}

type InstanceOf struct {
	Base
	X       Expr
	Type    TypeNode
	Pattern Expr // *TypePattern or *RecordPattern
}

type This struct {
	Base
	Qualifier *QualifiedName
}

// Super only appears as the receiver of a field access or method call.
type Super struct {
	Base
	Qualifier *QualifiedName
}

type ClassLit struct {
	Base
	Type TypeNode
}

type Lambda struct {
	Base
	Params   []*Param
	Body     Node // Expr or *Block
	Explicit bool
}

type MethodRef struct {
	Base
	X        Node // Expr or TypeNode
	TypeArgs []TypeNode
	Name     *Ident // "new" for constructor references
}

type SwitchExpr struct {
	Base
	Selector Expr
	Cases    []*SwitchCase
}

type Paren struct {
	Base
	X Expr
}

type TypePattern struct {
	Base
	Modifiers *Modifiers
	Type      TypeNode
	Name      *Ident
}

type RecordPattern struct {
	Base
	Type TypeNode
	Subs []Expr
}

// TypeExpr is a type appearing in expression position, such as the
// qualifier of String[]::new.
type TypeExpr struct {
	Base
	Type TypeNode
}

// BadExpr stands in for an expression the parser could not build.
type BadExpr struct {
	Base
}

func (*Literal) exprNode()       {}
func (*Name) exprNode()          {}
func (*FieldAccess) exprNode()   {}
func (*MethodCall) exprNode()    {}
func (*NewObject) exprNode()     {}
func (*NewArray) exprNode()      {}
func (*ArrayInit) exprNode()     {}
func (*ArrayAccess) exprNode()   {}
func (*Unary) exprNode()         {}
func (*Binary) exprNode()        {}
func (*Assign) exprNode()        {}
func (*Conditional) exprNode()   {}
func (*Cast) exprNode()          {}
func (*InstanceOf) exprNode()    {}
func (*This) exprNode()          {}
func (*Super) exprNode()         {}
func (*ClassLit) exprNode()      {}
func (*Lambda) exprNode()        {}
func (*MethodRef) exprNode()     {}
func (*SwitchExpr) exprNode()    {}
func (*Paren) exprNode()         {}
func (*TypePattern) exprNode()   {}
func (*RecordPattern) exprNode() {}
func (*TypeExpr) exprNode()      {}
func (*BadExpr) exprNode()       {}
func (*Annotation) exprNode()    {}

// Unparen strips enclosing parentheses.
func Unparen(e Expr) Expr {
	for {
		p, ok := e.(*Paren)
		if !ok {
			return e
		}
		e = p.X
	}
}
