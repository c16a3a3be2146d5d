package resolver

import (
	"sort"

	"implgen/internal/introspect"
	"implgen/internal/models"
)

// Assignability answers covariant return compatibility questions during
// the suppress pass
type Assignability interface {
	AssignableFrom(super, sub string) bool
}

// Resolution represents the members a stub must provide for its target
type Resolution struct {
	Target       *models.TypeDescriptor
	Constructors []models.ConstructorDescriptor // retained constructors in declaration order
	Methods      []models.MethodDescriptor      // surviving abstract methods ordered by key
}

// Resolver computes resolutions over materialized hierarchies
type Resolver struct {
	assign Assignability
}

// New creates a Resolver using the given assignability rules
func New(assign Assignability) *Resolver {
	return &Resolver{assign: assign}
}

// Resolve computes the resolved member set for a hierarchy. The collect pass
// gathers abstract methods by key across every level, later sightings
// replacing earlier ones. The suppress pass then removes each key satisfied
// by a concrete method with a compatible return type anywhere in the chain.
// Suppression decisions read only the finished collect result, never each
// other.
func (r *Resolver) Resolve(h *introspect.Hierarchy) (*Resolution, error) {
	target := h.Target
	if target.Kind == models.KindPrimitive {
		return nil, models.NewError(models.UnsupportedTarget, target.Name,
			"primitive types cannot be implemented")
	}
	if target.Final {
		return nil, models.NewError(models.UnsupportedTarget, target.Name,
			"final types cannot be extended")
	}

	working := make(map[models.MethodKey]models.MethodDescriptor)
	eachMethod(h, func(m models.MethodDescriptor) {
		if m.Abstract {
			working[models.KeyOf(m)] = m
		}
	})
	eachMethod(h, func(m models.MethodDescriptor) {
		if m.Abstract {
			return
		}
		key := models.KeyOf(m)
		kept, ok := working[key]
		if !ok {
			return
		}
		// the kept return type must be assignable from the concrete one,
		// checked in this direction only
		if r.assign.AssignableFrom(kept.Return, m.Return) {
			delete(working, key)
		}
	})

	methods := make([]models.MethodDescriptor, 0, len(working))
	for _, m := range working {
		methods = append(methods, m)
	}
	sort.Slice(methods, func(i, j int) bool {
		return models.KeyOf(methods[i]).Less(models.KeyOf(methods[j]))
	})

	ctors, err := retainedConstructors(target)
	if err != nil {
		return nil, err
	}

	return &Resolution{Target: target, Constructors: ctors, Methods: methods}, nil
}

// eachMethod visits the declared then exposed view of every level in chain order
func eachMethod(h *introspect.Hierarchy, fn func(models.MethodDescriptor)) {
	for _, level := range h.Levels {
		for _, m := range level.Declared {
			fn(m)
		}
		for _, m := range level.Exposed {
			fn(m)
		}
	}
}

// retainedConstructors keeps the non-private constructors declared directly
// on the target. Interfaces carry no constructor requirement.
func retainedConstructors(target *models.TypeDescriptor) ([]models.ConstructorDescriptor, error) {
	if target.Kind == models.KindInterface {
		return nil, nil
	}

	var ctors []models.ConstructorDescriptor
	for _, c := range target.Constructors {
		if c.Visibility != models.VisibilityPrivate {
			ctors = append(ctors, c)
		}
	}
	if len(ctors) == 0 {
		return nil, models.NewError(models.NoAccessibleConstructor, target.Name,
			"no non-private constructor declared")
	}
	return ctors, nil
}
