// Package constant folds compile-time constant expressions with the exact
// semantics of the Java virtual machine.
package constant

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
)

// TypeID identifies the types a constant can have.
type TypeID int

const (
	TUndefined TypeID = iota
	TBoolean
	TByte
	TChar
	TShort
	TInt
	TLong
	TFloat
	TDouble
	TString
	TNull
	TVoid
	TObject
)

var typeNames = [...]string{
	TUndefined: "<undefined>",
	TBoolean:   "boolean",
	TByte:      "byte",
	TChar:      "char",
	TShort:     "short",
	TInt:       "int",
	TLong:      "long",
	TFloat:     "float",
	TDouble:    "double",
	TString:    "java.lang.String",
	TNull:      "null",
	TVoid:      "void",
	TObject:    "java.lang.Object",
}

func (t TypeID) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "<unknown>"
}

// FromName maps a primitive keyword or the names of String and Object to
// their TypeID.
func FromName(name string) TypeID {
	switch name {
	case "String":
		return TString
	case "Object":
		return TObject
	}
	for t, n := range typeNames {
		if n == name {
			return TypeID(t)
		}
	}
	return TUndefined
}

func (t TypeID) IsNumeric() bool {
	return t >= TByte && t <= TDouble
}

func (t TypeID) IsIntegral() bool {
	return t >= TByte && t <= TLong
}

func (t TypeID) IsFloating() bool {
	return t == TFloat || t == TDouble
}

// IsPrimitive reports whether t is boolean or a numeric type.
func (t TypeID) IsPrimitive() bool {
	return t == TBoolean || t.IsNumeric()
}

// Constant is a compile-time constant value. The zero value is NotAConstant.
type Constant struct {
	kind TypeID
	i    int64
	f    float64
	s    string
}

// NotAConstant marks expressions that have no constant value.
var NotAConstant = Constant{}

func Bool(v bool) Constant {
	c := Constant{kind: TBoolean}
	if v {
		c.i = 1
	}
	return c
}

func Byte(v int8) Constant      { return Constant{kind: TByte, i: int64(v)} }
func Char(v uint16) Constant    { return Constant{kind: TChar, i: int64(v)} }
func Short(v int16) Constant    { return Constant{kind: TShort, i: int64(v)} }
func Int(v int32) Constant      { return Constant{kind: TInt, i: int64(v)} }
func Long(v int64) Constant     { return Constant{kind: TLong, i: v} }
func Float(v float32) Constant  { return Constant{kind: TFloat, f: float64(v)} }
func Double(v float64) Constant { return Constant{kind: TDouble, f: v} }
func String(v string) Constant  { return Constant{kind: TString, s: v} }

// Kind returns the constant's type, TUndefined for NotAConstant.
func (c Constant) Kind() TypeID { return c.kind }

func (c Constant) IsValid() bool { return c.kind != TUndefined }

func (c Constant) Bool() bool { return c.kind == TBoolean && c.i != 0 }

// Int returns the value converted to int as by a Java cast.
func (c Constant) Int() int32 {
	v, _ := CastTo(c, TInt)
	return int32(v.i)
}

func (c Constant) Long() int64 {
	v, _ := CastTo(c, TLong)
	return v.i
}

func (c Constant) Float() float32 {
	v, _ := CastTo(c, TFloat)
	return float32(v.f)
}

func (c Constant) Double() float64 {
	v, _ := CastTo(c, TDouble)
	return v.f
}

// Char returns the UTF-16 code unit of a char constant.
func (c Constant) Char() uint16 {
	v, _ := CastTo(c, TChar)
	return uint16(v.i)
}

// String renders the value as String.valueOf does in Java.
func (c Constant) String() string {
	switch c.kind {
	case TBoolean:
		if c.i != 0 {
			return "true"
		}
		return "false"
	case TByte, TShort, TInt, TLong:
		return strconv.FormatInt(c.i, 10)
	case TChar:
		return string(utf16.Decode([]uint16{uint16(c.i)}))
	case TFloat:
		return FormatFloat(c.f, 32)
	case TDouble:
		return FormatFloat(c.f, 64)
	case TString:
		return c.s
	}
	return "<not a constant>"
}

// Equal reports whether two constants have the same type and value. NaN
// equals NaN here, unlike the == operator.
func Equal(a, b Constant) bool {
	if a.kind != b.kind {
		return false
	}
	if a.kind.IsFloating() {
		return math.Float64bits(a.f) == math.Float64bits(b.f)
	}
	return a.i == b.i && a.s == b.s
}

// FormatFloat renders a float (bits 32) or double (bits 64) the way
// Float.toString and Double.toString do.
func FormatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}
	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	s := strconv.FormatFloat(f, 'e', -1, bits)
	mant, expPart, _ := strings.Cut(s, "e")
	exp, _ := strconv.Atoi(expPart)
	digits := strings.Replace(mant, ".", "", 1)

	if f >= 1e-3 && f < 1e7 {
		point := exp + 1
		switch {
		case point <= 0:
			return sign + "0." + strings.Repeat("0", -point) + digits
		case point >= len(digits):
			return sign + digits + strings.Repeat("0", point-len(digits)) + ".0"
		default:
			return sign + digits[:point] + "." + digits[point:]
		}
	}
	frac := digits[1:]
	if frac == "" {
		frac = "0"
	}
	return sign + digits[:1] + "." + frac + "E" + strconv.Itoa(exp)
}
