package classfile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func buildSample(t *testing.T) *ClassFile {
	t.Helper()
	b := NewBuilder(AccPublic|AccSuper, "p/Sample", "java/lang/Object", []string{"java/lang/Runnable"})
	b.AddField(AccPublic|AccStatic|AccFinal, "MAX", "I", b.ConstantValueAttr(b.Integer(42)))
	b.AddField(AccPublic|AccStatic|AccFinal, "BIG", "J", b.ConstantValueAttr(b.Long(1<<40)))
	b.AddField(AccPublic|AccStatic|AccFinal, "PI", "D", b.ConstantValueAttr(b.Double(3.25)))
	b.AddField(AccPublic|AccStatic|AccFinal, "NAME", "Ljava/lang/String;", b.ConstantValueAttr(b.String("héllo\x00")))
	b.AddField(AccPrivate, "items", "Ljava/util/List;", b.SignatureAttr("Ljava/util/List<Ljava/lang/String;>;"), b.DeprecatedAttr())

	init := b.Methodref("java/lang/Object", "<init>", "()V", false)
	code := []byte{0x2a, 0xb7, byte(init >> 8), byte(init), 0xb1}
	b.AddMethod(AccPublic, "<init>", "()V", b.CodeAttr(&CodeAttribute{
		MaxStack:   1,
		MaxLocals:  1,
		Code:       code,
		Attributes: []AttributeInfo{b.LineNumberTableAttr([]LineNumberEntry{{StartPC: 0, LineNumber: 3}})},
	}))
	b.AddMethod(AccPublic|AccAbstract, "run", "()V", b.ExceptionsAttr([]string{"java/io/IOException"}))
	b.AddAttribute(b.SourceFileAttr("Sample.java"))
	b.AddAttribute(b.InnerClassesAttr([]InnerClass{{Name: "p/Sample$Inner", Outer: "p/Sample", SimpleName: "Inner", AccessFlags: AccStatic}}))
	if err := b.Err(); err != nil {
		t.Fatalf("Builder.Err() = %v", err)
	}
	return b.ClassFile()
}

func TestBuilderRoundTrip(t *testing.T) {
	want := buildSample(t)
	data, err := Marshal(want)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	got, err := Parse(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	t.Run("accessors", func(t *testing.T) {
		if got.ClassName() != "p/Sample" || got.SuperClassName() != "java/lang/Object" {
			t.Errorf("names = %q, %q", got.ClassName(), got.SuperClassName())
		}
		if diff := cmp.Diff([]string{"java/lang/Runnable"}, got.InterfaceNames()); diff != "" {
			t.Errorf("InterfaceNames() (-want +got):\n%s", diff)
		}
		if got.MajorVersion != MajorVersion49 {
			t.Errorf("MajorVersion = %d, want %d", got.MajorVersion, MajorVersion49)
		}
		if got.SourceFile() != "Sample.java" {
			t.Errorf("SourceFile() = %q", got.SourceFile())
		}
		ic := got.InnerClasses()
		if len(ic) != 1 || ic[0].SimpleName != "Inner" || ic[0].Outer != "p/Sample" {
			t.Errorf("InnerClasses() = %+v", ic)
		}
	})

	t.Run("constant values", func(t *testing.T) {
		tests := []struct {
			field string
			want  any
		}{
			{"MAX", int32(42)},
			{"BIG", int64(1 << 40)},
			{"PI", 3.25},
			{"NAME", "héllo\x00"},
		}
		for _, tt := range tests {
			f := got.GetField(tt.field)
			if f == nil {
				t.Fatalf("GetField(%q) = nil", tt.field)
			}
			v, ok := f.ConstantValue(got.ConstantPool)
			if !ok || v != tt.want {
				t.Errorf("%s.ConstantValue() = %v, %v, want %v", tt.field, v, ok, tt.want)
			}
		}
		if _, ok := got.GetField("items").ConstantValue(got.ConstantPool); ok {
			t.Error("items has a constant value")
		}
	})

	t.Run("members", func(t *testing.T) {
		items := got.GetField("items")
		if items.Signature(got.ConstantPool) != "Ljava/util/List<Ljava/lang/String;>;" {
			t.Errorf("items signature = %q", items.Signature(got.ConstantPool))
		}
		if !items.IsDeprecated(got.ConstantPool) {
			t.Error("items is not deprecated")
		}
		run := got.GetMethod("run", "()V")
		if run == nil {
			t.Fatal("GetMethod(run) = nil")
		}
		if diff := cmp.Diff([]string{"java/io/IOException"}, run.ExceptionNames(got.ConstantPool)); diff != "" {
			t.Errorf("ExceptionNames() (-want +got):\n%s", diff)
		}
		ctor := got.GetMethod("<init>", "")
		code := ctor.Code(got.ConstantPool)
		if code == nil || len(code.Code) != 5 {
			t.Fatalf("constructor code = %+v", code)
		}
		owner, name, desc := got.ConstantPool.GetMemberRef(uint16(code.Code[2])<<8 | uint16(code.Code[3]))
		if owner != "java/lang/Object" || name != "<init>" || desc != "()V" {
			t.Errorf("invokespecial target = %s.%s%s", owner, name, desc)
		}
		if lines := ctor.LineNumbers(got.ConstantPool); len(lines) != 1 || lines[0].LineNumber != 3 {
			t.Errorf("LineNumbers() = %+v", lines)
		}
	})
}

func TestBuilderDeduplicatesPool(t *testing.T) {
	b := NewBuilder(AccPublic, "A", "java/lang/Object", nil)
	if b.Utf8("x") != b.Utf8("x") {
		t.Error("Utf8 not deduplicated")
	}
	if b.Class("A") != b.ClassFile().ThisClass {
		t.Error("Class(A) does not reuse this_class")
	}
	m1 := b.Methodref("A", "m", "()V", false)
	m2 := b.Methodref("A", "m", "()V", false)
	im := b.Methodref("A", "m", "()V", true)
	if m1 != m2 || m1 == im {
		t.Errorf("Methodref indexes = %d, %d, interface %d", m1, m2, im)
	}
	l := b.Long(7)
	next := b.Integer(7)
	if next != l+2 {
		t.Errorf("entry after long at %d, want %d", next, l+2)
	}
	if b.Long(7) != l {
		t.Error("Long not deduplicated")
	}
}

func TestModifiedUtf8(t *testing.T) {
	tests := []struct {
		name string
		s    string
		want []byte
	}{
		{"ascii", "abc", []byte("abc")},
		{"nul", "\x00", []byte{0xC0, 0x80}},
		{"two byte", "é", []byte{0xC3, 0xA9}},
		{"supplementary", "\U0001F600", []byte{0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := encodeModifiedUtf8(tt.s)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("encode = % x, want % x", got, tt.want)
			}
			if back := decodeModifiedUtf8(got); back != tt.s {
				t.Errorf("decode = %q, want %q", back, tt.s)
			}
		})
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	good, err := Marshal(buildSample(t))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"empty", nil, "read magic"},
		{"bad magic", []byte{0xCA, 0xFE, 0xBA, 0xBF, 0, 0, 0, 49}, "invalid magic"},
		{"truncated", good[:len(good)/2], ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(bytes.NewReader(tt.data))
			if err == nil {
				t.Fatal("Parse() error = nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Parse() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestParseDescriptors(t *testing.T) {
	md, err := ParseMethodDescriptor("(IJ[Ljava/lang/String;D)V")
	if err != nil {
		t.Fatal(err)
	}
	want := &MethodDescriptor{Parameters: []FieldType{
		{Base: 'I'}, {Base: 'J'}, {ClassName: "java/lang/String", ArrayDepth: 1}, {Base: 'D'},
	}}
	if diff := cmp.Diff(want, md); diff != "" {
		t.Errorf("ParseMethodDescriptor() (-want +got):\n%s", diff)
	}
	if md.ParameterSlots() != 6 || md.ReturnSlots() != 0 {
		t.Errorf("slots = %d, %d, want 6, 0", md.ParameterSlots(), md.ReturnSlots())
	}

	for _, bad := range []string{"", "I", "(I", "(Q)V", "(Ljava/lang/String)V", "()VV"} {
		if _, err := ParseMethodDescriptor(bad); err == nil {
			t.Errorf("ParseMethodDescriptor(%q) error = nil", bad)
		}
	}
	for _, d := range []string{"I", "[[J", "Ljava/util/Map$Entry;"} {
		ft, err := ParseFieldDescriptor(d)
		if err != nil || ft.Descriptor() != d {
			t.Errorf("ParseFieldDescriptor(%q) = %+v, %v", d, ft, err)
		}
	}
}

func TestParseSignatures(t *testing.T) {
	cs, err := ParseClassSignature("<K:Ljava/lang/Object;V::Ljava/lang/Comparable<TV;>;>Ljava/util/AbstractMap<TK;TV;>;Ljava/io/Serializable;")
	if err != nil {
		t.Fatal(err)
	}
	want := &ClassSignature{
		TypeParams: []TypeParamSig{
			{Name: "K", ClassBound: &ClassTypeSig{Name: "java/lang/Object"}},
			{Name: "V", InterfaceBounds: []TypeSig{&ClassTypeSig{Name: "java/lang/Comparable", Args: []TypeArgSig{{Type: &TypeVarSig{Name: "V"}}}}}},
		},
		Super: &ClassTypeSig{Name: "java/util/AbstractMap", Args: []TypeArgSig{
			{Type: &TypeVarSig{Name: "K"}}, {Type: &TypeVarSig{Name: "V"}},
		}},
		Interfaces: []*ClassTypeSig{{Name: "java/io/Serializable"}},
	}
	if diff := cmp.Diff(want, cs); diff != "" {
		t.Errorf("ParseClassSignature() (-want +got):\n%s", diff)
	}

	ms, err := ParseMethodSignature("<T:Ljava/lang/Object;>(Ljava/util/List<+TT;>;[I)TT;^Ljava/io/IOException;")
	if err != nil {
		t.Fatal(err)
	}
	wantM := &MethodSignature{
		TypeParams: []TypeParamSig{{Name: "T", ClassBound: &ClassTypeSig{Name: "java/lang/Object"}}},
		Params: []TypeSig{
			&ClassTypeSig{Name: "java/util/List", Args: []TypeArgSig{{Wildcard: '+', Type: &TypeVarSig{Name: "T"}}}},
			&ArrayTypeSig{Elem: BaseTypeSig('I')},
		},
		Return: &TypeVarSig{Name: "T"},
		Throws: []TypeSig{&ClassTypeSig{Name: "java/io/IOException"}},
	}
	if diff := cmp.Diff(wantM, ms); diff != "" {
		t.Errorf("ParseMethodSignature() (-want +got):\n%s", diff)
	}

	inner, err := ParseFieldSignature("Lp/Outer<*>.Inner<-Ljava/lang/Number;>;")
	if err != nil {
		t.Fatal(err)
	}
	wantInner := &ClassTypeSig{
		Name:  "p/Outer$Inner",
		Args:  []TypeArgSig{{Wildcard: '-', Type: &ClassTypeSig{Name: "java/lang/Number"}}},
		Outer: &ClassTypeSig{Name: "p/Outer", Args: []TypeArgSig{{Wildcard: '*'}}},
	}
	if diff := cmp.Diff(wantInner, inner); diff != "" {
		t.Errorf("ParseFieldSignature() (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"", "L;", "Ljava/lang/Object", "<T>Ljava/lang/Object;", "TT", "(I"} {
		if _, err := ParseFieldSignature(bad); err == nil {
			t.Errorf("ParseFieldSignature(%q) error = nil", bad)
		}
	}
}
