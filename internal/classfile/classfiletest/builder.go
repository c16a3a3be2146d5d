// Package classfiletest assembles minimal class file images for tests.
// The produced bytes contain a constant pool, class level metadata and
// method entries with optional Exceptions attributes, which is exactly the
// subset the parser reads.
package classfiletest

import (
	"bytes"
	"encoding/binary"

	"implgen/internal/classfile"
)

// ClassBuilder accumulates the pieces of a synthetic class file
type ClassBuilder struct {
	access     uint16
	thisClass  string
	superClass string
	interfaces []string
	methods    []methodEntry
}

type methodEntry struct {
	access     uint16
	name       string
	descriptor string
	exceptions []string
}

// NewClass starts a public class with the given internal name extending
// java/lang/Object
func NewClass(internalName string) *ClassBuilder {
	return &ClassBuilder{
		access:     classfile.AccPublic,
		thisClass:  internalName,
		superClass: "java/lang/Object",
	}
}

// NewInterface starts a public abstract interface with the given internal name
func NewInterface(internalName string) *ClassBuilder {
	b := NewClass(internalName)
	b.access = classfile.AccPublic | classfile.AccInterface | classfile.AccAbstract
	return b
}

// Access replaces the class access flags
func (b *ClassBuilder) Access(flags uint16) *ClassBuilder {
	b.access = flags
	return b
}

// Super replaces the direct superclass, empty meaning none
func (b *ClassBuilder) Super(internalName string) *ClassBuilder {
	b.superClass = internalName
	return b
}

// Implements appends directly implemented interfaces
func (b *ClassBuilder) Implements(internalNames ...string) *ClassBuilder {
	b.interfaces = append(b.interfaces, internalNames...)
	return b
}

// Method appends a method entry, "<init>" producing a constructor
func (b *ClassBuilder) Method(access uint16, name, descriptor string, exceptions ...string) *ClassBuilder {
	b.methods = append(b.methods, methodEntry{
		access:     access,
		name:       name,
		descriptor: descriptor,
		exceptions: exceptions,
	})
	return b
}

// Bytes assembles the class file image
func (b *ClassBuilder) Bytes() []byte {
	pool := newPoolBuilder()

	thisIdx := pool.classIndex(b.thisClass)
	superIdx := uint16(0)
	if b.superClass != "" {
		superIdx = pool.classIndex(b.superClass)
	}
	ifaceIdxs := make([]uint16, len(b.interfaces))
	for i, name := range b.interfaces {
		ifaceIdxs[i] = pool.classIndex(name)
	}

	type builtMethod struct {
		access, name, desc uint16
		exceptions         []uint16
	}
	methods := make([]builtMethod, len(b.methods))
	excAttrName := uint16(0)
	for i, m := range b.methods {
		bm := builtMethod{
			access: m.access,
			name:   pool.utf8Index(m.name),
			desc:   pool.utf8Index(m.descriptor),
		}
		for _, exc := range m.exceptions {
			bm.exceptions = append(bm.exceptions, pool.classIndex(exc))
		}
		if len(bm.exceptions) > 0 && excAttrName == 0 {
			excAttrName = pool.utf8Index("Exceptions")
		}
		methods[i] = bm
	}

	var out bytes.Buffer
	u2 := func(v uint16) {
		var raw [2]byte
		binary.BigEndian.PutUint16(raw[:], v)
		out.Write(raw[:])
	}
	u4 := func(v uint32) {
		var raw [4]byte
		binary.BigEndian.PutUint32(raw[:], v)
		out.Write(raw[:])
	}

	u4(0xCAFEBABE)
	u2(0)  // minor version
	u2(52) // major version, Java 8
	u2(pool.count)
	out.Write(pool.buf.Bytes())
	u2(b.access)
	u2(thisIdx)
	u2(superIdx)
	u2(uint16(len(ifaceIdxs)))
	for _, idx := range ifaceIdxs {
		u2(idx)
	}
	u2(0) // no fields
	u2(uint16(len(methods)))
	for _, m := range methods {
		u2(m.access)
		u2(m.name)
		u2(m.desc)
		if len(m.exceptions) == 0 {
			u2(0) // no attributes
			continue
		}
		u2(1) // one attribute, Exceptions
		u2(excAttrName)
		u4(uint32(2 + 2*len(m.exceptions)))
		u2(uint16(len(m.exceptions)))
		for _, idx := range m.exceptions {
			u2(idx)
		}
	}
	return out.Bytes()
}

// poolBuilder interns Utf8 and Class entries while recording their bytes
type poolBuilder struct {
	buf     bytes.Buffer
	count   uint16 // next free index, pool indexing starts at 1
	utf8    map[string]uint16
	classes map[string]uint16
}

func newPoolBuilder() *poolBuilder {
	return &poolBuilder{
		count:   1,
		utf8:    make(map[string]uint16),
		classes: make(map[string]uint16),
	}
}

func (p *poolBuilder) utf8Index(s string) uint16 {
	if idx, ok := p.utf8[s]; ok {
		return idx
	}
	idx := p.count
	p.count++
	p.utf8[s] = idx

	p.buf.WriteByte(1) // CONSTANT_Utf8
	var raw [2]byte
	binary.BigEndian.PutUint16(raw[:], uint16(len(s)))
	p.buf.Write(raw[:])
	p.buf.WriteString(s)
	return idx
}

func (p *poolBuilder) classIndex(internal string) uint16 {
	if idx, ok := p.classes[internal]; ok {
		return idx
	}
	nameIdx := p.utf8Index(internal)
	idx := p.count
	p.count++
	p.classes[internal] = idx

	p.buf.WriteByte(7) // CONSTANT_Class
	var raw [2]byte
	binary.BigEndian.PutUint16(raw[:], nameIdx)
	p.buf.Write(raw[:])
	return idx
}
