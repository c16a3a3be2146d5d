package classfile

import (
	"fmt"

	"implgen/internal/models"
)

// Describe translates a parsed class file into the erasure-level descriptor
// the resolver works with. Constructors are split out of the method list and
// the static initializer is dropped.
func Describe(f *File) (*models.TypeDescriptor, error) {
	name := CanonicalName(f.ThisClass)
	pkg, simple := models.SplitName(name)

	kind := models.KindClass
	if f.AccessFlags&AccInterface != 0 {
		kind = models.KindInterface
	}

	desc := &models.TypeDescriptor{
		Name:       name,
		Package:    pkg,
		SimpleName: simple,
		Kind:       kind,
		Abstract:   f.AccessFlags&AccAbstract != 0,
		Final:      f.AccessFlags&AccFinal != 0,
	}
	if f.SuperClass != "" {
		desc.Superclass = CanonicalName(f.SuperClass)
	}
	for _, iface := range f.Interfaces {
		desc.Interfaces = append(desc.Interfaces, CanonicalName(iface))
	}

	for _, m := range f.Methods {
		if m.Name == "<clinit>" {
			continue
		}

		params, ret, err := ParseMethodDescriptor(m.Descriptor)
		if err != nil {
			return nil, fmt.Errorf("method %s of %s: %w", m.Name, name, err)
		}
		exceptions := canonicalNames(m.Exceptions)
		visibility := visibilityOf(m.AccessFlags)

		if m.Name == "<init>" {
			desc.Constructors = append(desc.Constructors, models.ConstructorDescriptor{
				Params:     params,
				Exceptions: exceptions,
				Visibility: visibility,
			})
			continue
		}

		desc.Methods = append(desc.Methods, models.MethodDescriptor{
			Name:       m.Name,
			Params:     params,
			Return:     ret,
			Exceptions: exceptions,
			Visibility: visibility,
			Abstract:   m.AccessFlags&AccAbstract != 0,
			Static:     m.AccessFlags&AccStatic != 0,
			Final:      m.AccessFlags&AccFinal != 0,
		})
	}
	return desc, nil
}

// visibilityOf maps access flags to the source access level
func visibilityOf(flags uint16) models.Visibility {
	switch {
	case flags&AccPublic != 0:
		return models.VisibilityPublic
	case flags&AccProtected != 0:
		return models.VisibilityProtected
	case flags&AccPrivate != 0:
		return models.VisibilityPrivate
	default:
		return models.VisibilityPackage
	}
}

func canonicalNames(internals []string) []string {
	if len(internals) == 0 {
		return nil
	}
	out := make([]string, len(internals))
	for i, name := range internals {
		out[i] = CanonicalName(name)
	}
	return out
}
