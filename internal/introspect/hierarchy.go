package introspect

import (
	"implgen/internal/models"
)

// ObjectClass is the universal root type, excluded from every ancestor chain
const ObjectClass = "java.lang.Object"

// Source resolves canonical type names into descriptors
type Source interface {
	Load(name string) (*models.TypeDescriptor, error)
}

// Level represents one ancestor in the chain with both method views the
// resolver needs
type Level struct {
	Type     *models.TypeDescriptor
	Declared []models.MethodDescriptor // methods from the level's own class file
	Exposed  []models.MethodDescriptor // public methods visible through the level, inherited included
}

// Hierarchy represents the materialized ancestor chain of a target type,
// target first, most distant ancestor last
type Hierarchy struct {
	Target *models.TypeDescriptor
	Levels []Level
}

// Introspector builds ancestor chains and answers assignability questions
// against a type source
type Introspector struct {
	source Source
}

// New creates an Introspector over the given source
func New(source Source) *Introspector {
	return &Introspector{source: source}
}

// Hierarchy materializes the ancestor chain of the target by walking the
// superclass line up to but excluding java.lang.Object. Interface targets
// contribute a single level; their inherited methods surface through the
// exposed view. Fails with UnsupportedTarget for primitives.
func (in *Introspector) Hierarchy(target *models.TypeDescriptor) (*Hierarchy, error) {
	if target.Kind == models.KindPrimitive {
		return nil, models.NewError(models.UnsupportedTarget, target.Name,
			"primitive types cannot be implemented")
	}

	h := &Hierarchy{Target: target}
	current := target
	for {
		h.Levels = append(h.Levels, Level{
			Type:     current,
			Declared: current.Methods,
			Exposed:  in.exposedMethods(current),
		})

		super := current.Superclass
		if super == "" || super == ObjectClass {
			break
		}
		next, err := in.source.Load(super)
		if err != nil {
			// unresolvable ancestors end the chain
			break
		}
		current = next
	}
	return h, nil
}

// exposedMethods computes the public methods visible through a type: its own
// public methods plus those inherited from superclasses and superinterfaces,
// most specific declaration winning per method key. Static interface methods
// stay with their declaring interface.
func (in *Introspector) exposedMethods(t *models.TypeDescriptor) []models.MethodDescriptor {
	var out []models.MethodDescriptor
	taken := make(map[models.MethodKey]bool)
	visited := make(map[string]bool)

	var visit func(cur *models.TypeDescriptor, root bool)
	visit = func(cur *models.TypeDescriptor, root bool) {
		if cur == nil || visited[cur.Name] {
			return
		}
		visited[cur.Name] = true

		for _, m := range cur.Methods {
			if m.Visibility != models.VisibilityPublic {
				continue
			}
			if m.Static && !root && cur.Kind == models.KindInterface {
				continue
			}
			key := models.KeyOf(m)
			if taken[key] {
				continue
			}
			taken[key] = true
			out = append(out, m)
		}

		if cur.Superclass != "" && cur.Superclass != ObjectClass {
			if super, err := in.source.Load(cur.Superclass); err == nil {
				visit(super, false)
			}
		}
		for _, name := range cur.Interfaces {
			if iface, err := in.source.Load(name); err == nil {
				visit(iface, false)
			}
		}
	}

	visit(t, true)
	return out
}
