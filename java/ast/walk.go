package ast

// Visitor is called for each node by Walk. If Visit returns nil, the
// children of n are skipped. Walk calls v.Visit(nil) after the children.
type Visitor interface {
	Visit(n Node) Visitor
}

func Walk(v Visitor, n Node) {
	if isNil(n) {
		return
	}
	if v = v.Visit(n); v == nil {
		return
	}
	for _, c := range Children(n) {
		Walk(v, c)
	}
	v.Visit(nil)
}

type inspector func(Node) bool

func (f inspector) Visit(n Node) Visitor {
	if n != nil && f(n) {
		return f
	}
	return nil
}

// Inspect traverses the tree in depth-first order, calling f for each node.
// Children are skipped when f returns false.
func Inspect(n Node, f func(Node) bool) {
	Walk(inspector(f), n)
}

// isNil reports whether n is nil or a typed nil pointer.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch n := n.(type) {
	case *Block:
		return n == nil
	case *TypeDecl:
		return n == nil
	case *Modifiers:
		return n == nil
	case *Ident:
		return n == nil
	case *QualifiedName:
		return n == nil
	case *ClassType:
		return n == nil
	case *ArrayInit:
		return n == nil
	case *Param:
		return n == nil
	case *LocalVarDecl:
		return n == nil
	case *PackageDecl:
		return n == nil
	case *ModuleDecl:
		return n == nil
	}
	return false
}

type children []Node

func (c *children) add(nodes ...Node) {
	for _, n := range nodes {
		if !isNil(n) {
			*c = append(*c, n)
		}
	}
}

func addAll[T Node](c *children, nodes []T) {
	for _, n := range nodes {
		c.add(n)
	}
}

// Children returns the direct children of n in source order.
func Children(n Node) []Node {
	var c children
	switch n := n.(type) {
	case *CompilationUnit:
		if n.Package != nil {
			c.add(n.Package)
		}
		addAll(&c, n.Imports)
		if n.Module != nil {
			c.add(n.Module)
		}
		addAll(&c, n.Types)
	case *PackageDecl:
		addAll(&c, n.Annotations)
		c.add(n.Name)
	case *ImportDecl:
		c.add(n.Name)
	case *QualifiedName:
		addAll(&c, n.Parts)
	case *ModuleDecl:
		addAll(&c, n.Annotations)
		c.add(n.Name)
		addAll(&c, n.Directives)
	case *ModuleDirective:
		c.add(n.Name)
		addAll(&c, n.Targets)
	case *TypeDecl:
		c.add(n.Modifiers, n.Name)
		addAll(&c, n.TypeParams)
		addAll(&c, n.Components)
		if n.Extends != nil {
			c.add(n.Extends)
		}
		addAll(&c, n.Implements)
		addAll(&c, n.Permits)
		addAll(&c, n.EnumConstants)
		addAll(&c, n.Members)
	case *Modifiers:
		addAll(&c, n.Annotations)
	case *FieldDecl:
		c.add(n.Modifiers)
		if n.Type != nil {
			c.add(n.Type)
		}
		addAll(&c, n.Vars)
	case *VarDeclarator:
		c.add(n.Name)
		if n.Init != nil {
			c.add(n.Init)
		}
	case *MethodDecl:
		c.add(n.Modifiers)
		addAll(&c, n.TypeParams)
		if n.Result != nil {
			c.add(n.Result)
		}
		c.add(n.Name, n.Receiver)
		addAll(&c, n.Params)
		addAll(&c, n.Throws)
		c.add(n.Body)
		if n.Default != nil {
			c.add(n.Default)
		}
	case *Param:
		c.add(n.Modifiers)
		if n.Type != nil {
			c.add(n.Type)
		}
		c.add(n.Name)
	case *Initializer:
		c.add(n.Body)
	case *EnumConstant:
		addAll(&c, n.Annotations)
		c.add(n.Name)
		addAll(&c, n.Args)
		c.add(n.Body)
	case *TypeParam:
		addAll(&c, n.Annotations)
		c.add(n.Name)
		addAll(&c, n.Bounds)
	case *Annotation:
		c.add(n.Name)
		addAll(&c, n.Args)
	case *ElementValue:
		c.add(n.Name)
		if n.Value != nil {
			c.add(n.Value)
		}

	case *Block:
		addAll(&c, n.Stmts)
	case *LocalVarDecl:
		c.add(n.Modifiers)
		if n.Type != nil {
			c.add(n.Type)
		}
		addAll(&c, n.Vars)
	case *LocalClassDecl:
		c.add(n.Decl)
	case *ExprStmt:
		c.add(n.X)
	case *IfStmt:
		c.add(n.Cond, n.Then)
		if n.Else != nil {
			c.add(n.Else)
		}
	case *WhileStmt:
		c.add(n.Cond, n.Body)
	case *DoStmt:
		c.add(n.Body, n.Cond)
	case *ForStmt:
		addAll(&c, n.Init)
		if n.Cond != nil {
			c.add(n.Cond)
		}
		addAll(&c, n.Update)
		c.add(n.Body)
	case *ForEachStmt:
		c.add(n.Var, n.Iterable, n.Body)
	case *ReturnStmt:
		if n.Result != nil {
			c.add(n.Result)
		}
	case *BreakStmt:
		c.add(n.Label)
	case *ContinueStmt:
		c.add(n.Label)
	case *YieldStmt:
		c.add(n.Value)
	case *ThrowStmt:
		c.add(n.X)
	case *SwitchStmt:
		c.add(n.Selector)
		addAll(&c, n.Cases)
	case *SwitchCase:
		addAll(&c, n.Labels)
		if n.Guard != nil {
			c.add(n.Guard)
		}
		addAll(&c, n.Body)
	case *TryStmt:
		addAll(&c, n.Resources)
		c.add(n.Body)
		addAll(&c, n.Catches)
		c.add(n.Finally)
	case *CatchClause:
		c.add(n.Param, n.Body)
	case *LabeledStmt:
		c.add(n.Label, n.Body)
	case *SyncStmt:
		c.add(n.Lock, n.Body)
	case *AssertStmt:
		c.add(n.Cond)
		if n.Message != nil {
			c.add(n.Message)
		}
	case *ConstructorCall:
		if n.Qualifier != nil {
			c.add(n.Qualifier)
		}
		addAll(&c, n.TypeArgs)
		addAll(&c, n.Args)

	case *Name:
		c.add(n.Ident)
	case *FieldAccess:
		c.add(n.X, n.Name)
	case *MethodCall:
		if n.X != nil {
			c.add(n.X)
		}
		addAll(&c, n.TypeArgs)
		c.add(n.Name)
		addAll(&c, n.Args)
	case *NewObject:
		if n.Outer != nil {
			c.add(n.Outer)
		}
		addAll(&c, n.TypeArgs)
		c.add(n.Type)
		addAll(&c, n.Args)
		c.add(n.Body)
	case *NewArray:
		c.add(n.Elem)
		addAll(&c, n.DimExprs)
		c.add(n.Init)
	case *ArrayInit:
		addAll(&c, n.Elems)
	case *ArrayAccess:
		c.add(n.X, n.Index)
	case *Unary:
		c.add(n.X)
	case *Binary:
		c.add(n.X, n.Y)
	case *Assign:
		c.add(n.Target, n.Value)
	case *Conditional:
		c.add(n.Cond, n.Then, n.Else)
	case *Cast:
		c.add(n.Type, n.X)
	case *InstanceOf:
		c.add(n.X)
		if n.Pattern != nil {
			c.add(n.Pattern)
		} else if n.Type != nil {
			c.add(n.Type)
		}
	case *This:
		c.add(n.Qualifier)
	case *Super:
		c.add(n.Qualifier)
	case *ClassLit:
		c.add(n.Type)
	case *Lambda:
		addAll(&c, n.Params)
		c.add(n.Body)
	case *MethodRef:
		c.add(n.X)
		addAll(&c, n.TypeArgs)
		c.add(n.Name)
	case *SwitchExpr:
		c.add(n.Selector)
		addAll(&c, n.Cases)
	case *Paren:
		c.add(n.X)
	case *TypePattern:
		c.add(n.Modifiers)
		if n.Type != nil {
			c.add(n.Type)
		}
		c.add(n.Name)
	case *RecordPattern:
		c.add(n.Type)
		addAll(&c, n.Subs)
	case *TypeExpr:
		c.add(n.Type)

	case *ClassType:
		addAll(&c, n.Annotations)
		c.add(n.Qualifier, n.Name)
		addAll(&c, n.Args)
	case *ArrayType:
		c.add(n.Elem)
	case *WildcardType:
		if n.Bound != nil {
			c.add(n.Bound)
		}
	case *UnionType:
		addAll(&c, n.Alternatives)
	case *IntersectionType:
		addAll(&c, n.Types)
	}
	return c
}
