package flow

import (
	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/lookup"
)

// flowContext is one level of the chain of statements and bodies enclosing
// the code being analyzed. Jumps and thrown exceptions walk the chain
// outward to find their target or handler.
type flowContext interface {
	outer() flowContext
}

type memberKind uint8

const (
	memberMethod memberKind = iota
	memberConstructor
	memberInstanceInit
	memberStaticInit
	memberLambda
)

// methodContext is the body of a method, constructor, initializer or
// lambda. Returns end there; exceptions escaping it must be declared.
type methodContext struct {
	parent  flowContext
	kind    memberKind
	result  lookup.TypeID
	throws  []lookup.TypeID
	anyExc  bool // anonymous class initializers may throw anything
	returns *Info
}

func (c *methodContext) outer() flowContext { return c.parent }

func (c *methodContext) recordReturn(info *Info) {
	c.returns = c.returns.MergedWith(info)
}

// loopContext is a while, do, for or enhanced for statement. labels are
// the labels directly attached to it, which continue may name.
type loopContext struct {
	parent    flowContext
	labels    []string
	breaks    *Info
	continues *Info
}

func (c *loopContext) outer() flowContext { return c.parent }

func (c *loopContext) recordBreakFrom(info *Info) {
	c.breaks = c.breaks.MergedWith(info)
}

func (c *loopContext) recordContinueFrom(info *Info) {
	c.continues = c.continues.MergedWith(info)
}

func (c *loopContext) hasLabel(name string) bool {
	for _, l := range c.labels {
		if l == name {
			return true
		}
	}
	return false
}

// switchContext is a switch statement, or a switch expression whose yields
// produce its value.
type switchContext struct {
	parent     flowContext
	expression bool
	breaks     *Info
	yields     *Info
}

func (c *switchContext) outer() flowContext { return c.parent }

func (c *switchContext) recordBreakFrom(info *Info) {
	c.breaks = c.breaks.MergedWith(info)
}

func (c *switchContext) recordYieldFrom(info *Info) {
	c.yields = c.yields.MergedWith(info)
}

type labelContext struct {
	parent flowContext
	label  string
	breaks *Info
}

func (c *labelContext) outer() flowContext { return c.parent }

func (c *labelContext) recordBreakFrom(info *Info) {
	c.breaks = c.breaks.MergedWith(info)
}

// catchClause is one handler of a try statement.
type catchClause struct {
	node   *ast.CatchClause
	nodes  []ast.TypeNode
	types  []lookup.TypeID
	used   []bool
	caught []lookup.TypeID
}

// exceptionContext is the body of a try statement with catch clauses.
type exceptionContext struct {
	parent  flowContext
	catches []*catchClause
}

func (c *exceptionContext) outer() flowContext { return c.parent }

// finallyContext is the try block and catch clauses of a try statement
// with a finally block. Jumps leaving it run the block first. A finally
// block that cannot complete normally absorbs jumps and exceptions.
type finallyContext struct {
	parent    flowContext
	block     *ast.Block
	completes bool
	end       *Info
}

func (c *finallyContext) outer() flowContext { return c.parent }
