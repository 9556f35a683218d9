package classfile

import (
	"fmt"
	"strings"
)

// FieldType is a decoded field descriptor. Exactly one of Base and
// ClassName is set.
type FieldType struct {
	Base       byte // B C D F I J S Z, 0 for class types
	ClassName  string
	ArrayDepth int
}

// Descriptor re-encodes the type.
func (ft FieldType) Descriptor() string {
	var sb strings.Builder
	for i := 0; i < ft.ArrayDepth; i++ {
		sb.WriteByte('[')
	}
	if ft.Base != 0 {
		sb.WriteByte(ft.Base)
	} else {
		sb.WriteString("L" + ft.ClassName + ";")
	}
	return sb.String()
}

// Slots is the number of local variable or operand stack slots a value of
// this type occupies.
func (ft FieldType) Slots() int {
	if ft.ArrayDepth == 0 && (ft.Base == 'J' || ft.Base == 'D') {
		return 2
	}
	return 1
}

type MethodDescriptor struct {
	Parameters []FieldType
	Return     *FieldType // nil for void
}

// ParameterSlots is the number of slots the arguments occupy.
func (md *MethodDescriptor) ParameterSlots() int {
	n := 0
	for _, p := range md.Parameters {
		n += p.Slots()
	}
	return n
}

// ReturnSlots is 0 for void, else the slots of the return type.
func (md *MethodDescriptor) ReturnSlots() int {
	if md.Return == nil {
		return 0
	}
	return md.Return.Slots()
}

func ParseFieldDescriptor(desc string) (FieldType, error) {
	ft, n, err := parseFieldType(desc, 0)
	if err != nil {
		return FieldType{}, err
	}
	if n != len(desc) {
		return FieldType{}, fmt.Errorf("parse field descriptor %q: trailing characters", desc)
	}
	return ft, nil
}

func ParseMethodDescriptor(desc string) (*MethodDescriptor, error) {
	if len(desc) == 0 || desc[0] != '(' {
		return nil, fmt.Errorf("parse method descriptor %q: missing '('", desc)
	}
	md := &MethodDescriptor{}
	i := 1
	for i < len(desc) && desc[i] != ')' {
		ft, n, err := parseFieldType(desc, i)
		if err != nil {
			return nil, err
		}
		md.Parameters = append(md.Parameters, ft)
		i += n
	}
	if i >= len(desc) {
		return nil, fmt.Errorf("parse method descriptor %q: missing ')'", desc)
	}
	i++
	if i < len(desc) && desc[i] == 'V' && i+1 == len(desc) {
		return md, nil
	}
	ret, n, err := parseFieldType(desc, i)
	if err != nil {
		return nil, err
	}
	if i+n != len(desc) {
		return nil, fmt.Errorf("parse method descriptor %q: trailing characters", desc)
	}
	md.Return = &ret
	return md, nil
}

func parseFieldType(desc string, start int) (FieldType, int, error) {
	var ft FieldType
	i := start
	for i < len(desc) && desc[i] == '[' {
		ft.ArrayDepth++
		i++
	}
	if i >= len(desc) {
		return ft, 0, fmt.Errorf("parse descriptor %q: unexpected end", desc)
	}
	switch c := desc[i]; c {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z':
		ft.Base = c
		return ft, i - start + 1, nil
	case 'L':
		semi := strings.IndexByte(desc[i:], ';')
		if semi < 2 {
			return ft, 0, fmt.Errorf("parse descriptor %q: unterminated class name", desc)
		}
		ft.ClassName = desc[i+1 : i+semi]
		return ft, i - start + semi + 1, nil
	default:
		return ft, 0, fmt.Errorf("parse descriptor %q: unexpected %q at %d", desc, c, i)
	}
}

func InternalToSourceName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}

func SourceToInternalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}
