package models

import "strings"

// TypeKind represents the kind of a loaded Java type
type TypeKind int

const (
	KindClass TypeKind = iota
	KindInterface
	KindPrimitive
)

// Visibility represents a Java access level
type Visibility int

const (
	VisibilityPublic Visibility = iota
	VisibilityProtected
	VisibilityPackage
	VisibilityPrivate
)

// Keyword returns the Java modifier keyword for the visibility.
// Package-private visibility has no keyword and yields an empty string.
func (v Visibility) Keyword() string {
	switch v {
	case VisibilityPublic:
		return "public"
	case VisibilityProtected:
		return "protected"
	default:
		return ""
	}
}

// TypeDescriptor represents the erasure-level metadata of a Java type
type TypeDescriptor struct {
	Name         string                  // fully qualified canonical name, e.g. "java.util.AbstractList"
	Package      string                  // package portion of Name, empty for the default package
	SimpleName   string                  // class name without the package prefix
	Kind         TypeKind                // class, interface or primitive
	Abstract     bool                    // type carries the abstract flag
	Final        bool                    // type carries the final flag
	Superclass   string                  // canonical name of the direct superclass, empty when there is none
	Interfaces   []string                // canonical names of directly implemented interfaces
	Constructors []ConstructorDescriptor // declared constructors in declaration order
	Methods      []MethodDescriptor      // declared methods in declaration order
}

// ConstructorDescriptor represents a single declared constructor
type ConstructorDescriptor struct {
	Params     []string   // canonical parameter type names in order
	Exceptions []string   // canonical names of the declared thrown types
	Visibility Visibility // declared access level
}

// MethodDescriptor represents a single declared method
type MethodDescriptor struct {
	Name       string     // method name
	Params     []string   // canonical parameter type names in order
	Return     string     // canonical return type name, "void" when nothing is returned
	Exceptions []string   // canonical names of the declared thrown types
	Visibility Visibility // declared access level
	Abstract   bool       // method has no body
	Static     bool       // method is declared static
	Final      bool       // method cannot be overridden
}

// MethodKey identifies a method by name and parameter types.
// The return type is not part of the identity.
type MethodKey struct {
	Name   string // method name
	Params string // comma-joined canonical parameter type names
}

// KeyOf builds the identity key for a method descriptor
func KeyOf(m MethodDescriptor) MethodKey {
	return MethodKey{Name: m.Name, Params: strings.Join(m.Params, ",")}
}

// Less orders keys by method name first, then by the parameter list
func (k MethodKey) Less(other MethodKey) bool {
	if k.Name != other.Name {
		return k.Name < other.Name
	}
	return k.Params < other.Params
}

// String renders the key in a javap-like form
func (k MethodKey) String() string {
	return k.Name + "(" + k.Params + ")"
}

// SplitName splits a canonical type name into its package and simple name.
// Names without a dot belong to the default package.
func SplitName(canonical string) (pkg, simple string) {
	idx := strings.LastIndex(canonical, ".")
	if idx < 0 {
		return "", canonical
	}
	return canonical[:idx], canonical[idx+1:]
}

// primitive type names, with void treated alongside them as reflection does
var primitiveNames = map[string]bool{
	"void": true, "boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true,
}

// IsPrimitiveName reports whether the canonical name denotes a primitive type or void
func IsPrimitiveName(name string) bool {
	return primitiveNames[name]
}
