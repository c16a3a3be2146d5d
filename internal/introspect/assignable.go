package introspect

import (
	"strings"

	"implgen/internal/models"
)

// AssignableFrom reports whether a variable of type super can hold a value
// of type sub, mirroring reflection's isAssignableFrom at erasure level.
// Unresolvable names are never assignable.
func (in *Introspector) AssignableFrom(super, sub string) bool {
	if super == sub {
		return true
	}
	if models.IsPrimitiveName(super) || models.IsPrimitiveName(sub) {
		// primitives convert only to themselves
		return false
	}
	if super == ObjectClass {
		return true
	}

	if strings.HasSuffix(sub, "[]") {
		// arrays implement Cloneable and Serializable
		if super == "java.lang.Cloneable" || super == "java.io.Serializable" {
			return true
		}
		superElem, ok := strings.CutSuffix(super, "[]")
		if !ok {
			return false
		}
		subElem := strings.TrimSuffix(sub, "[]")
		if models.IsPrimitiveName(superElem) || models.IsPrimitiveName(subElem) {
			// primitive arrays are invariant
			return false
		}
		return in.AssignableFrom(superElem, subElem)
	}
	if strings.HasSuffix(super, "[]") {
		return false
	}

	return in.referenceAssignable(super, sub)
}

// referenceAssignable walks the supertype closure of sub looking for super
func (in *Introspector) referenceAssignable(super, sub string) bool {
	visited := make(map[string]bool)

	var walk func(name string) bool
	walk = func(name string) bool {
		if name == super {
			return true
		}
		if name == "" || name == ObjectClass || visited[name] {
			return false
		}
		visited[name] = true

		d, err := in.source.Load(name)
		if err != nil {
			return false
		}
		if d.Superclass != "" && walk(d.Superclass) {
			return true
		}
		for _, iface := range d.Interfaces {
			if walk(iface) {
				return true
			}
		}
		return false
	}
	return walk(sub)
}
