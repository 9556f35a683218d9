package ast

type Block struct {
	Base
	Stmts []Stmt
}

type EmptyStmt struct {
	Base
}

type LocalVarDecl struct {
	Base
	Modifiers *Modifiers
	Type      TypeNode
	Vars      []*VarDeclarator
}

type LocalClassDecl struct {
	Base
	Decl *TypeDecl
}

type ExprStmt struct {
	Base
	X Expr
}

type IfStmt struct {
	Base
	Cond Expr
	Then Stmt
	Else Stmt
}

type WhileStmt struct {
	Base
	Cond Expr
	Body Stmt
}

type DoStmt struct {
	Base
	Body Stmt
	Cond Expr
}

type ForStmt struct {
	Base
	Init   []Stmt
	Cond   Expr
	Update []Expr
	Body   Stmt
}

type ForEachStmt struct {
	Base
	Var      *LocalVarDecl
	Iterable Expr
	Body     Stmt
}

type ReturnStmt struct {
	Base
	Result Expr
}

// BreakStmt leaves the innermost or labeled enclosing statement.
// Subroutines lists the finally blocks the jump runs through, innermost
// first; it is filled in by flow analysis.
type BreakStmt struct {
	Base
	Label       *Ident
	Subroutines []*Block
}

type ContinueStmt struct {
	Base
	Label       *Ident
	Subroutines []*Block
}

type YieldStmt struct {
	Base
	Value       Expr
	Subroutines []*Block
}

type ThrowStmt struct {
	Base
	X Expr
}

type SwitchStmt struct {
	Base
	Selector Expr
	Cases    []*SwitchCase
}

// SwitchCase is one case group. Labels is empty for default; Arrow cases have
// exactly one statement in Body.
type SwitchCase struct {
	Base
	Labels  []Expr
	Default bool
	Guard   Expr
	Arrow   bool
	Body    []Stmt
}

type TryStmt struct {
	Base
	Resources []Node // *LocalVarDecl or Expr
	Body      *Block
	Catches   []*CatchClause
	Finally   *Block
}

type CatchClause struct {
	Base
	Param *Param // Type may be a *UnionType
	Body  *Block
}

type LabeledStmt struct {
	Base
	Label *Ident
	Body  Stmt
}

type SyncStmt struct {
	Base
	Lock Expr
	Body *Block
}

type AssertStmt struct {
	Base
	Cond    Expr
	Message Expr
}

// ConstructorCall is an explicit this(...) or super(...) invocation.
type ConstructorCall struct {
	Base
	Super     bool
	Qualifier Expr
	TypeArgs  []TypeNode
	Args      []Expr
}

func (*Block) stmtNode()           {}
func (*EmptyStmt) stmtNode()       {}
func (*LocalVarDecl) stmtNode()    {}
func (*LocalClassDecl) stmtNode()  {}
func (*ExprStmt) stmtNode()        {}
func (*IfStmt) stmtNode()          {}
func (*WhileStmt) stmtNode()       {}
func (*DoStmt) stmtNode()          {}
func (*ForStmt) stmtNode()         {}
func (*ForEachStmt) stmtNode()     {}
func (*ReturnStmt) stmtNode()      {}
func (*BreakStmt) stmtNode()       {}
func (*ContinueStmt) stmtNode()    {}
func (*YieldStmt) stmtNode()       {}
func (*ThrowStmt) stmtNode()       {}
func (*SwitchStmt) stmtNode()      {}
func (*TryStmt) stmtNode()         {}
func (*LabeledStmt) stmtNode()     {}
func (*SyncStmt) stmtNode()        {}
func (*AssertStmt) stmtNode()      {}
func (*ConstructorCall) stmtNode() {}
