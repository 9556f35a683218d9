package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/jfront/classfile"
)

// LineEncoder writes one tab-separated line per class, field and method.
type LineEncoder struct {
	w     io.Writer
	class *classfile.ClassFile
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(cf *classfile.ClassFile) error {
	e.class = cf
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	cf := e.class
	cp := cf.ConstantPool

	super := "-"
	if s := cf.SuperClassName(); s != "" {
		super = classfile.InternalToSourceName(s)
	}
	var ifaces []string
	for _, i := range cf.InterfaceNames() {
		ifaces = append(ifaces, classfile.InternalToSourceName(i))
	}
	fmt.Fprintf(&sb, "%s\t%s\t%s\t%s\t%s\t%s\n",
		classKind(cf),
		classfile.InternalToSourceName(cf.ClassName()),
		visibility(cf.AccessFlags),
		joinOrDash(classModifiers(cf.AccessFlags), ","),
		super,
		joinOrDash(ifaces, ","),
	)

	for i := range cf.Fields {
		f := &cf.Fields[i]
		fmt.Fprintf(&sb, "field\t%s\t%s\t%s\t%s\n",
			f.Name(cp),
			fieldTypeName(f.Descriptor(cp)),
			visibility(f.AccessFlags),
			joinOrDash(fieldModifiers(f.AccessFlags), ","),
		)
	}

	for i := range cf.Methods {
		m := &cf.Methods[i]
		ret, params := methodTypeNames(m.Descriptor(cp))
		fmt.Fprintf(&sb, "method\t%s\t%s\t%s\t%s\t%s\n",
			m.Name(cp),
			ret,
			joinOrDash(params, ","),
			visibility(m.AccessFlags),
			joinOrDash(methodModifiers(m.AccessFlags), ","),
		)
	}

	return []byte(sb.String()), nil
}
