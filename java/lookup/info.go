package lookup

import (
	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/constant"
)

// Info holds the results of resolving the bodies of one compilation unit,
// keyed by syntax node.
type Info struct {
	// Types is the type of every resolved expression. Lambdas and method
	// references get their target functional interface type.
	Types map[ast.Expr]TypeID

	// TypeRefs is the type denoted by every type node.
	TypeRefs map[ast.TypeNode]TypeID

	// Defs maps declaring identifiers to what they declare: locals,
	// parameters, fields, methods and types.
	Defs map[*ast.Ident]Symbol

	// Uses maps identifiers in expressions to what they refer to.
	Uses map[*ast.Ident]Symbol

	// Methods is the method or constructor invoked by a MethodCall,
	// NewObject, ConstructorCall or MethodRef, and the functional method
	// implemented by a Lambda.
	Methods map[ast.Node]MethodID

	// Fields is the field read or written by a Name or FieldAccess.
	Fields map[ast.Node]FieldID

	// Constants is the value of every constant expression.
	Constants map[ast.Expr]constant.Constant

	// Conversions is the type an expression is converted to by its
	// context when that differs from its own type: widening, boxing and
	// unboxing of assignments, arguments, returns and operands.
	Conversions map[ast.Expr]TypeID

	// LocalTypes maps the declarations of local classes and anonymous class
	// bodies to their bindings.
	LocalTypes map[*ast.TypeDecl]TypeID

	// Varargs marks invocations that pass their trailing arguments through
	// the variable arity parameter.
	Varargs map[ast.Node]bool

	// Erroneous marks the members whose bodies contain errors: method,
	// constructor and initializer declarations, field declarators and enum
	// constants.
	Erroneous map[ast.Node]bool

	// Aborted marks the members and type declarations whose resolution
	// was abandoned part way. Their bodies are only partly recorded.
	Aborted map[ast.Node]bool
}

func NewInfo() *Info {
	return &Info{
		Types:       make(map[ast.Expr]TypeID),
		TypeRefs:    make(map[ast.TypeNode]TypeID),
		Defs:        make(map[*ast.Ident]Symbol),
		Uses:        make(map[*ast.Ident]Symbol),
		Methods:     make(map[ast.Node]MethodID),
		Fields:      make(map[ast.Node]FieldID),
		Constants:   make(map[ast.Expr]constant.Constant),
		Conversions: make(map[ast.Expr]TypeID),
		LocalTypes:  make(map[*ast.TypeDecl]TypeID),
		Varargs:     make(map[ast.Node]bool),
		Erroneous:   make(map[ast.Node]bool),
		Aborted:     make(map[ast.Node]bool),
	}
}

// TypeOf returns the type of an expression, NoType when unknown.
func (info *Info) TypeOf(x ast.Expr) TypeID {
	return info.Types[x]
}

// ConstantOf returns the constant value of an expression, if any.
func (info *Info) ConstantOf(x ast.Expr) (constant.Constant, bool) {
	c, ok := info.Constants[x]
	return c, ok && c.IsValid()
}

// ConvertedType returns the type an expression has after the conversion
// its context applies.
func (info *Info) ConvertedType(x ast.Expr) TypeID {
	if t, ok := info.Conversions[x]; ok {
		return t
	}
	return info.Types[x]
}
