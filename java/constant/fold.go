package constant

import (
	"fmt"
	"math"

	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/parser"
)

// BinaryOp folds left op right. typ is the type both operands are promoted
// to: the binary numeric promotion of the operands, TBoolean for logical
// operators or TString for concatenation. Shift operators promote their
// operands separately and typ is the promoted left operand type.
// It reports false when the result is not a constant, as for integer
// division by zero.
func BinaryOp(op ast.Operator, left, right Constant, typ TypeID) (Constant, bool) {
	if !left.IsValid() || !right.IsValid() {
		return NotAConstant, false
	}
	switch typ {
	case TString:
		if op != ast.OpAdd {
			return NotAConstant, false
		}
		return String(left.String() + right.String()), true
	case TBoolean:
		if left.kind != TBoolean || right.kind != TBoolean {
			return NotAConstant, false
		}
		return foldBool(op, left.Bool(), right.Bool())
	}

	if op.IsShift() {
		return foldShift(op, left, right, typ)
	}
	l, ok1 := CastTo(left, typ)
	r, ok2 := CastTo(right, typ)
	if !ok1 || !ok2 {
		return NotAConstant, false
	}
	switch typ {
	case TInt:
		return foldInt(op, int32(l.i), int32(r.i))
	case TLong:
		return foldLong(op, l.i, r.i)
	case TFloat:
		return foldFloat(op, float32(l.f), float32(r.f))
	case TDouble:
		return foldDouble(op, l.f, r.f)
	}
	return NotAConstant, false
}

func foldBool(op ast.Operator, l, r bool) (Constant, bool) {
	switch op {
	case ast.OpAnd, ast.OpAndAnd:
		return Bool(l && r), true
	case ast.OpOr, ast.OpOrOr:
		return Bool(l || r), true
	case ast.OpXor, ast.OpNE:
		return Bool(l != r), true
	case ast.OpEQ:
		return Bool(l == r), true
	}
	return NotAConstant, false
}

func foldShift(op ast.Operator, left, right Constant, typ TypeID) (Constant, bool) {
	if !right.kind.IsIntegral() {
		return NotAConstant, false
	}
	dist := right.i
	switch typ {
	case TInt:
		l, ok := CastTo(left, TInt)
		if !ok {
			return NotAConstant, false
		}
		v, n := int32(l.i), uint(dist&31)
		switch op {
		case ast.OpShl:
			return Int(v << n), true
		case ast.OpShr:
			return Int(v >> n), true
		case ast.OpUShr:
			return Int(int32(uint32(v) >> n)), true
		}
	case TLong:
		l, ok := CastTo(left, TLong)
		if !ok {
			return NotAConstant, false
		}
		v, n := l.i, uint(dist&63)
		switch op {
		case ast.OpShl:
			return Long(v << n), true
		case ast.OpShr:
			return Long(v >> n), true
		case ast.OpUShr:
			return Long(int64(uint64(v) >> n)), true
		}
	}
	return NotAConstant, false
}

func foldInt(op ast.Operator, l, r int32) (Constant, bool) {
	switch op {
	case ast.OpAdd:
		return Int(l + r), true
	case ast.OpSub:
		return Int(l - r), true
	case ast.OpMul:
		return Int(l * r), true
	case ast.OpDiv:
		if r == 0 {
			return NotAConstant, false
		}
		return Int(l / r), true
	case ast.OpRem:
		if r == 0 {
			return NotAConstant, false
		}
		return Int(l % r), true
	case ast.OpAnd:
		return Int(l & r), true
	case ast.OpOr:
		return Int(l | r), true
	case ast.OpXor:
		return Int(l ^ r), true
	}
	return compare(op, float64(l), float64(r))
}

func foldLong(op ast.Operator, l, r int64) (Constant, bool) {
	switch op {
	case ast.OpAdd:
		return Long(l + r), true
	case ast.OpSub:
		return Long(l - r), true
	case ast.OpMul:
		return Long(l * r), true
	case ast.OpDiv:
		if r == 0 {
			return NotAConstant, false
		}
		return Long(l / r), true
	case ast.OpRem:
		if r == 0 {
			return NotAConstant, false
		}
		return Long(l % r), true
	case ast.OpAnd:
		return Long(l & r), true
	case ast.OpOr:
		return Long(l | r), true
	case ast.OpXor:
		return Long(l ^ r), true
	}
	switch op {
	case ast.OpEQ:
		return Bool(l == r), true
	case ast.OpNE:
		return Bool(l != r), true
	case ast.OpLT:
		return Bool(l < r), true
	case ast.OpGT:
		return Bool(l > r), true
	case ast.OpLE:
		return Bool(l <= r), true
	case ast.OpGE:
		return Bool(l >= r), true
	}
	return NotAConstant, false
}

func foldFloat(op ast.Operator, l, r float32) (Constant, bool) {
	switch op {
	case ast.OpAdd:
		return Float(l + r), true
	case ast.OpSub:
		return Float(l - r), true
	case ast.OpMul:
		return Float(l * r), true
	case ast.OpDiv:
		return Float(l / r), true
	case ast.OpRem:
		return Float(float32(math.Mod(float64(l), float64(r)))), true
	}
	return compare(op, float64(l), float64(r))
}

func foldDouble(op ast.Operator, l, r float64) (Constant, bool) {
	switch op {
	case ast.OpAdd:
		return Double(l + r), true
	case ast.OpSub:
		return Double(l - r), true
	case ast.OpMul:
		return Double(l * r), true
	case ast.OpDiv:
		return Double(l / r), true
	case ast.OpRem:
		return Double(math.Mod(l, r)), true
	}
	return compare(op, l, r)
}

// compare folds the relational and equality operators; comparisons with
// NaN are false except !=.
func compare(op ast.Operator, l, r float64) (Constant, bool) {
	switch op {
	case ast.OpEQ:
		return Bool(l == r), true
	case ast.OpNE:
		return Bool(l != r), true
	case ast.OpLT:
		return Bool(l < r), true
	case ast.OpGT:
		return Bool(l > r), true
	case ast.OpLE:
		return Bool(l <= r), true
	case ast.OpGE:
		return Bool(l >= r), true
	}
	return NotAConstant, false
}

// UnaryOp folds a prefix operator applied to c after unary promotion to
// typ.
func UnaryOp(op ast.Operator, c Constant, typ TypeID) (Constant, bool) {
	if op == ast.OpNot {
		if c.kind != TBoolean {
			return NotAConstant, false
		}
		return Bool(!c.Bool()), true
	}
	v, ok := CastTo(c, typ)
	if !ok {
		return NotAConstant, false
	}
	switch op {
	case ast.OpPos:
		return v, true
	case ast.OpNeg:
		switch typ {
		case TInt:
			return Int(-int32(v.i)), true
		case TLong:
			return Long(-v.i), true
		case TFloat:
			return Float(-float32(v.f)), true
		case TDouble:
			return Double(-v.f), true
		}
	case ast.OpBitNot:
		switch typ {
		case TInt:
			return Int(^int32(v.i)), true
		case TLong:
			return Long(^v.i), true
		}
	}
	return NotAConstant, false
}

// FromLiteral evaluates a literal. negated tells whether the literal is the
// operand of a unary minus, which admits 2147483648 and
// 9223372036854775808L.
func FromLiteral(kind ast.LiteralKind, raw string, negated bool) (Constant, error) {
	switch kind {
	case ast.IntLit:
		v, err := parser.ParseIntLiteral(raw, negated)
		if err != nil {
			return NotAConstant, err
		}
		return Int(v), nil
	case ast.LongLit:
		v, err := parser.ParseLongLiteral(raw, negated)
		if err != nil {
			return NotAConstant, err
		}
		return Long(v), nil
	case ast.FloatLit:
		v, err := parser.ParseFloatLiteral(raw)
		if err != nil {
			return NotAConstant, err
		}
		return Float(v), nil
	case ast.DoubleLit:
		v, err := parser.ParseDoubleLiteral(raw)
		if err != nil {
			return NotAConstant, err
		}
		return Double(v), nil
	case ast.CharLit:
		r, err := parser.UnquoteChar(raw)
		if err != nil {
			return NotAConstant, err
		}
		return Char(uint16(r)), nil
	case ast.StringLit:
		s, err := parser.UnquoteString(raw)
		if err != nil {
			return NotAConstant, err
		}
		return String(s), nil
	case ast.TextBlockLit:
		s, err := parser.TextBlockValue(raw)
		if err != nil {
			return NotAConstant, err
		}
		return String(s), nil
	case ast.BoolLit:
		return Bool(raw == "true"), nil
	case ast.NullLit:
		return NotAConstant, nil
	}
	return NotAConstant, fmt.Errorf("evaluate literal %s: unknown kind %d", raw, kind)
}
