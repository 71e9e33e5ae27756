package types

import "fmt"

// maxResolveDepth bounds variable-to-variable chasing on malformed lineages.
const maxResolveDepth = 64

// IsAssignableToOrFrom reports whether either class is assignable to the
// other.
func IsAssignableToOrFrom(a, b *Class) bool {
	return a.IsAssignableFrom(b) || b.IsAssignableFrom(a)
}

// Bound returns the upper bound of a wildcard, or Object when it has none.
func Bound(w *Wildcard) Type {
	if w == nil || w.Upper == nil {
		return Object
	}

	return w.Upper
}

// SuperParameterized searches the lineage of t for the parameterization of
// super. When super is an interface, a parameterized node descends into its
// first generic interface assignable to super before its superclass. A raw
// class follows its superclass and only tries its interfaces when that
// chain has no match.
func SuperParameterized(t Type, super *Class) (*Parameterized, bool) {
	return superParameterized(t, super, make(map[*Class]bool))
}

func superParameterized(t Type, super *Class, seen map[*Class]bool) (*Parameterized, bool) {
	for t != nil {
		var (
			raw           *Class
			parameterized bool
		)

		switch v := t.(type) {
		case *Class:
			raw = v
		case *Parameterized:
			if v.Raw == super {
				return v, true
			}

			raw = v.Raw
			parameterized = true
		default:
			return nil, false
		}

		if raw == Object || seen[raw] {
			return nil, false
		}

		seen[raw] = true

		if !super.IsInterface() {
			t = raw.super

			continue
		}

		if parameterized {
			if next := interfaceTowards(raw, super); next != nil {
				t = next

				continue
			}

			t = raw.super

			continue
		}

		if p, ok := superParameterized(raw.super, super, seen); ok {
			return p, true
		}

		t = interfaceTowards(raw, super)
	}

	return nil, false
}

func interfaceTowards(raw, super *Class) Type {
	for _, it := range raw.interfaces {
		if super.IsAssignableFrom(rawOf(it)) {
			return it
		}
	}

	return nil
}

// ResolveTypeVariable binds v using the context chain, most-derived entry
// first. When the binding is itself a variable it is resolved in turn; if
// that fails the still-abstract variable is returned. ok is false when no
// entry in the chain parameterizes v's declaring class.
func ResolveTypeVariable(context []Type, v *Variable) (Type, bool) {
	return resolveVariable(context, v, 0)
}

func resolveVariable(context []Type, v *Variable, depth int) (Type, bool) {
	if v == nil || v.decl == nil || depth > maxResolveDepth {
		return nil, false
	}

	var found *Parameterized

	for _, entry := range context {
		if p, ok := SuperParameterized(entry, v.decl); ok {
			found = p

			break
		}
	}

	if found == nil || v.index >= len(found.Args) {
		return nil, false
	}

	result := found.Args[v.index]

	if next, ok := result.(*Variable); ok && next != v {
		if resolved, ok := resolveVariable(context, next, depth+1); ok {
			return resolved, true
		}
	}

	return result, true
}

// IterableParameter returns the element type of a collection-like type:
// the component of an array, the bound argument of a parameterized
// container, or the formal variable of a raw one.
func IterableParameter(t Type) (Type, bool) {
	if a, ok := t.(*Array); ok {
		return a.Component, true
	}

	return actualParameterAt(t, Iterable, 0)
}

// MapValueParameter returns the value type of a map-like type.
func MapValueParameter(t Type) (Type, bool) {
	return actualParameterAt(t, Map, 1)
}

func actualParameterAt(t Type, super *Class, position int) (Type, bool) {
	p, ok := SuperParameterized(t, super)
	if !ok || position >= len(p.Args) {
		return nil, false
	}

	arg := p.Args[position]

	// Normally a variable, unless t is super itself, e.g. Iterable<String>.
	if v, ok := arg.(*Variable); ok {
		if resolved, ok := ResolveTypeVariable([]Type{t}, v); ok {
			return resolved, true
		}
	}

	return arg, true
}

// RawClass returns the raw class of a parameterized type. A class is its
// own raw class.
func RawClass(t Type) (*Class, error) {
	if raw := rawOf(t); raw != nil {
		return raw, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNotParameterized, typeString(t))
}

// ArrayComponentType returns the component type of an array type.
func ArrayComponentType(t Type) (Type, error) {
	if a, ok := t.(*Array); ok {
		return a.Component, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNotArray, typeString(t))
}

// IsArray reports whether t is an array type.
func IsArray(t Type) bool {
	_, ok := t.(*Array)

	return ok
}

// RawArrayComponentType resolves component against context and projects it
// to a raw class. Wildcards project to their bound, arrays and unresolved
// variables to Object.
func RawArrayComponentType(context []Type, component Type) (*Class, error) {
	if v, ok := component.(*Variable); ok {
		resolved, ok := ResolveTypeVariable(context, v)
		if !ok {
			return Object, nil
		}

		component = resolved
	}

	switch c := component.(type) {
	case *Class:
		return c, nil
	case *Parameterized:
		return c.Raw, nil
	case *Wildcard:
		return RawArrayComponentType(context, Bound(c))
	case *Array, *Variable:
		return Object, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotParameterized, typeString(component))
	}
}
