package classfile

import (
	"encoding/binary"
	"fmt"
)

const classMagic = 0xCAFEBABE

// constant pool tags from the JVM specification
const (
	constUtf8               = 1
	constInteger            = 3
	constFloat              = 4
	constLong               = 5
	constDouble             = 6
	constClass              = 7
	constString             = 8
	constFieldref           = 9
	constMethodref          = 10
	constInterfaceMethodref = 11
	constNameAndType        = 12
	constMethodHandle       = 15
	constMethodType         = 16
	constDynamic            = 17
	constInvokeDynamic      = 18
	constModule             = 19
	constPackage            = 20
)

// access flags shared by classes and methods
const (
	AccPublic    = 0x0001
	AccPrivate   = 0x0002
	AccProtected = 0x0004
	AccStatic    = 0x0008
	AccFinal     = 0x0010
	AccInterface = 0x0200
	AccAbstract  = 0x0400
)

// File represents the parts of a parsed class file the generator needs
type File struct {
	AccessFlags uint16   // class level access flags
	ThisClass   string   // internal name, e.g. "java/util/AbstractList"
	SuperClass  string   // internal name of the direct superclass, empty for java/lang/Object
	Interfaces  []string // internal names of directly implemented interfaces
	Methods     []Method // declared methods including <init> and <clinit>
}

// Method represents one method_info entry
type Method struct {
	Name        string   // method name, "<init>" for constructors
	Descriptor  string   // raw JVM descriptor, e.g. "(ILjava/lang/String;)V"
	AccessFlags uint16   // method level access flags
	Exceptions  []string // internal names from the Exceptions attribute
}

// Parse reads a class file image and extracts the structures the generator
// needs. Fields, code and all other attributes are skipped.
func Parse(data []byte) (*File, error) {
	r := &reader{data: data}

	if m := r.u4(); r.err == nil && m != classMagic {
		return nil, fmt.Errorf("bad magic 0x%08X, not a class file", m)
	}
	r.u2() // minor version
	r.u2() // major version

	cp, err := parsePool(r)
	if err != nil {
		return nil, err
	}

	f := &File{AccessFlags: r.u2()}

	thisIdx := r.u2()
	superIdx := r.u2()
	if r.err != nil {
		return nil, r.err
	}
	if f.ThisClass, err = cp.classNameAt(thisIdx); err != nil {
		return nil, err
	}
	if superIdx != 0 {
		if f.SuperClass, err = cp.classNameAt(superIdx); err != nil {
			return nil, err
		}
	}

	ifaceCount := int(r.u2())
	for i := 0; i < ifaceCount; i++ {
		idx := r.u2()
		if r.err != nil {
			return nil, r.err
		}
		name, err := cp.classNameAt(idx)
		if err != nil {
			return nil, err
		}
		f.Interfaces = append(f.Interfaces, name)
	}

	// fields carry nothing the generator needs
	fieldCount := int(r.u2())
	for i := 0; i < fieldCount; i++ {
		r.skip(6) // access flags, name index, descriptor index
		skipAttributes(r)
	}

	methodCount := int(r.u2())
	for i := 0; i < methodCount; i++ {
		m, err := parseMethod(r, cp)
		if err != nil {
			return nil, err
		}
		f.Methods = append(f.Methods, *m)
	}

	if r.err != nil {
		return nil, r.err
	}
	return f, nil
}

// pool holds the constant pool entries needed to resolve names
type pool struct {
	utf8    map[uint16]string
	classes map[uint16]uint16 // Class entry index to Utf8 name index
}

func parsePool(r *reader) (*pool, error) {
	cp := &pool{
		utf8:    make(map[uint16]string),
		classes: make(map[uint16]uint16),
	}

	count := r.u2()
	for i := uint16(1); i < count; i++ {
		tag := r.u1()
		if r.err != nil {
			return nil, r.err
		}
		switch tag {
		case constUtf8:
			n := int(r.u2())
			if b := r.take(n); b != nil {
				cp.utf8[i] = string(b)
			}
		case constClass:
			cp.classes[i] = r.u2()
		case constInteger, constFloat, constFieldref, constMethodref,
			constInterfaceMethodref, constNameAndType, constDynamic, constInvokeDynamic:
			r.skip(4)
		case constLong, constDouble:
			// eight byte constants occupy two pool slots
			r.skip(8)
			i++
		case constString, constMethodType, constModule, constPackage:
			r.skip(2)
		case constMethodHandle:
			r.skip(3)
		default:
			return nil, fmt.Errorf("unknown constant pool tag %d at index %d", tag, i)
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return cp, nil
}

func parseMethod(r *reader, cp *pool) (*Method, error) {
	m := &Method{AccessFlags: r.u2()}

	nameIdx := r.u2()
	descIdx := r.u2()
	if r.err != nil {
		return nil, r.err
	}

	var err error
	if m.Name, err = cp.utf8At(nameIdx); err != nil {
		return nil, err
	}
	if m.Descriptor, err = cp.utf8At(descIdx); err != nil {
		return nil, err
	}

	attrCount := int(r.u2())
	for i := 0; i < attrCount; i++ {
		attrIdx := r.u2()
		length := int(r.u4())
		if r.err != nil {
			return nil, r.err
		}
		name, err := cp.utf8At(attrIdx)
		if err != nil {
			return nil, err
		}
		if name != "Exceptions" {
			r.skip(length)
			continue
		}

		excCount := int(r.u2())
		for j := 0; j < excCount; j++ {
			idx := r.u2()
			if r.err != nil {
				return nil, r.err
			}
			excName, err := cp.classNameAt(idx)
			if err != nil {
				return nil, err
			}
			m.Exceptions = append(m.Exceptions, excName)
		}
	}
	return m, nil
}

func skipAttributes(r *reader) {
	count := int(r.u2())
	for i := 0; i < count; i++ {
		r.skip(2) // attribute name index
		r.skip(int(r.u4()))
	}
}

func (p *pool) utf8At(idx uint16) (string, error) {
	s, ok := p.utf8[idx]
	if !ok {
		return "", fmt.Errorf("constant pool index %d is not a Utf8 entry", idx)
	}
	return s, nil
}

func (p *pool) classNameAt(idx uint16) (string, error) {
	nameIdx, ok := p.classes[idx]
	if !ok {
		return "", fmt.Errorf("constant pool index %d is not a Class entry", idx)
	}
	return p.utf8At(nameIdx)
}

// reader walks the class file bytes and remembers the first failure
type reader struct {
	data []byte
	off  int
	err  error
}

func (r *reader) u1() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) u2() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

func (r *reader) u4() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

func (r *reader) skip(n int) {
	r.take(n)
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.off+n > len(r.data) {
		r.err = fmt.Errorf("truncated class file at offset %d", r.off)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}
