// Package types models generic type expressions and resolves them against
// a subclassing context.
//
// # Overview
//
// JSON (de)serialization needs to know, for a declared field, what concrete
// type to decode into: the element type of a list, the value type of a map,
// or the binding of a type variable declared by a generic base type. Go has
// no runtime generic reification for schema types, so this package works on
// an explicit descriptor model instead:
//
//   - *Class: a raw declaration with type parameters, a generic superclass
//     and generic interfaces
//   - *Parameterized: a raw class applied to type arguments
//   - *Variable: a type parameter of a declaring class
//   - *Wildcard: "?" with an optional upper bound
//   - *Array: an array of a component type
//
// Declarations are built with the Class builder methods or loaded from a
// YAML schema:
//
//	reg, err := types.LoadSchema(f)
//	if err != nil { return err }
//	field, _ := reg.Parse("ArrayList<String>", nil)
//	elem, _ := types.IterableParameter(field) // String
//
// # Resolution
//
// ResolveTypeVariable walks a context chain, most-derived entry first, and
// returns the argument bound to a variable at the point where its declaring
// class is parameterized. A variable that is re-exposed without a binding
// resolves to the re-exposing variable. A variable that is never reached
// reports ok == false and callers fall back to the declared type.
//
// All operations are pure reads; descriptors must not be mutated after they
// are shared.
package types
