package constant

import "math"

// CastTo converts c to type t as a Java cast would. It reports false when
// the conversion is not allowed between constants.
func CastTo(c Constant, t TypeID) (Constant, bool) {
	if !c.IsValid() {
		return NotAConstant, false
	}
	if c.kind == t {
		return c, true
	}
	switch {
	case t == TString || t == TBoolean || c.kind == TString || c.kind == TBoolean:
		return NotAConstant, false
	case !t.IsNumeric() || !c.kind.IsNumeric():
		return NotAConstant, false
	}

	if c.kind.IsFloating() {
		switch t {
		case TFloat:
			return Float(float32(c.f)), true
		case TDouble:
			return Double(c.f), true
		case TLong:
			return Long(d2l(c.f)), true
		}
		return narrowInt(d2i(c.f), t), true
	}

	switch t {
	case TFloat:
		return Float(float32(c.i)), true
	case TDouble:
		return Double(float64(c.i)), true
	case TLong:
		return Long(c.i), true
	}
	return narrowInt(int32(c.i), t), true
}

func narrowInt(v int32, t TypeID) Constant {
	switch t {
	case TByte:
		return Byte(int8(v))
	case TShort:
		return Short(int16(v))
	case TChar:
		return Char(uint16(v))
	}
	return Int(v)
}

// d2i converts like the d2i instruction: NaN is zero and out of range
// values saturate.
func d2i(f float64) int32 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	}
	return int32(f)
}

func d2l(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

// FitsIn reports whether the int constant c can be assigned to a variable
// of type t by constant narrowing: byte, short or char targets accept a
// constant of type byte, short, char or int whose value is representable.
func FitsIn(c Constant, t TypeID) bool {
	switch c.kind {
	case TByte, TShort, TChar, TInt:
	default:
		return false
	}
	switch t {
	case TByte:
		return c.i >= math.MinInt8 && c.i <= math.MaxInt8
	case TShort:
		return c.i >= math.MinInt16 && c.i <= math.MaxInt16
	case TChar:
		return c.i >= 0 && c.i <= math.MaxUint16
	case TInt:
		return true
	}
	return false
}

// PromoteUnary applies unary numeric promotion.
func PromoteUnary(t TypeID) TypeID {
	switch t {
	case TByte, TShort, TChar:
		return TInt
	case TInt, TLong, TFloat, TDouble:
		return t
	}
	return TUndefined
}

// PromoteBinary applies binary numeric promotion. Non numeric operands
// yield TUndefined.
func PromoteBinary(left, right TypeID) TypeID {
	if !left.IsNumeric() || !right.IsNumeric() {
		return TUndefined
	}
	switch {
	case left == TDouble || right == TDouble:
		return TDouble
	case left == TFloat || right == TFloat:
		return TFloat
	case left == TLong || right == TLong:
		return TLong
	}
	return TInt
}
