package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/jfront/classfile"
)

type JSONEncoder struct {
	w     io.Writer
	class *classfile.ClassFile
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(cf *classfile.ClassFile) error {
	e.class = cf
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(e.buildClassData(), "", "  ")
}

type jsonClass struct {
	Name       string       `json:"name"`
	SuperClass string       `json:"superClass,omitempty"`
	Interfaces []string     `json:"interfaces,omitempty"`
	Visibility string       `json:"visibility"`
	Kind       string       `json:"kind"`
	Modifiers  []string     `json:"modifiers,omitempty"`
	Signature  string       `json:"signature,omitempty"`
	SourceFile string       `json:"sourceFile,omitempty"`
	Version    jsonVersion  `json:"version"`
	Fields     []jsonField  `json:"fields,omitempty"`
	Methods    []jsonMethod `json:"methods,omitempty"`
}

type jsonVersion struct {
	Major uint16 `json:"major"`
	Minor uint16 `json:"minor"`
}

type jsonField struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Descriptor string   `json:"descriptor"`
	Visibility string   `json:"visibility"`
	Modifiers  []string `json:"modifiers,omitempty"`
	Constant   any      `json:"constant,omitempty"`
}

type jsonMethod struct {
	Name       string    `json:"name"`
	ReturnType string    `json:"returnType"`
	Parameters []string  `json:"parameters,omitempty"`
	Descriptor string    `json:"descriptor"`
	Visibility string    `json:"visibility"`
	Modifiers  []string  `json:"modifiers,omitempty"`
	Exceptions []string  `json:"exceptions,omitempty"`
	Code       *jsonCode `json:"code,omitempty"`
}

type jsonCode struct {
	MaxStack  uint16 `json:"maxStack"`
	MaxLocals uint16 `json:"maxLocals"`
	Length    int    `json:"length"`
	Handlers  int    `json:"handlers,omitempty"`
}

func (e *JSONEncoder) buildClassData() jsonClass {
	cf := e.class
	cp := cf.ConstantPool
	data := jsonClass{
		Name:       classfile.InternalToSourceName(cf.ClassName()),
		Visibility: visibility(cf.AccessFlags),
		Kind:       classKind(cf),
		Modifiers:  classModifiers(cf.AccessFlags),
		Signature:  cf.Signature(),
		SourceFile: cf.SourceFile(),
		Version:    jsonVersion{Major: cf.MajorVersion, Minor: cf.MinorVersion},
	}
	if s := cf.SuperClassName(); s != "" {
		data.SuperClass = classfile.InternalToSourceName(s)
	}
	for _, i := range cf.InterfaceNames() {
		data.Interfaces = append(data.Interfaces, classfile.InternalToSourceName(i))
	}

	for i := range cf.Fields {
		f := &cf.Fields[i]
		desc := f.Descriptor(cp)
		jf := jsonField{
			Name:       f.Name(cp),
			Type:       fieldTypeName(desc),
			Descriptor: desc,
			Visibility: visibility(f.AccessFlags),
			Modifiers:  fieldModifiers(f.AccessFlags),
		}
		if v, ok := f.ConstantValue(cp); ok {
			jf.Constant = v
		}
		data.Fields = append(data.Fields, jf)
	}

	for i := range cf.Methods {
		m := &cf.Methods[i]
		desc := m.Descriptor(cp)
		ret, params := methodTypeNames(desc)
		jm := jsonMethod{
			Name:       m.Name(cp),
			ReturnType: ret,
			Parameters: params,
			Descriptor: desc,
			Visibility: visibility(m.AccessFlags),
			Modifiers:  methodModifiers(m.AccessFlags),
		}
		for _, ex := range m.ExceptionNames(cp) {
			jm.Exceptions = append(jm.Exceptions, classfile.InternalToSourceName(ex))
		}
		if code := m.Code(cp); code != nil {
			jm.Code = &jsonCode{
				MaxStack:  code.MaxStack,
				MaxLocals: code.MaxLocals,
				Length:    len(code.Code),
				Handlers:  len(code.ExceptionTable),
			}
		}
		data.Methods = append(data.Methods, jm)
	}
	return data
}
