package types

import (
	"fmt"
	"iter"
	"math"
	"reflect"
)

// NewInstance allocates a zero value for a concrete class and returns a
// pointer to it. Primitive, array, abstract, interface and sentinel types
// are rejected. A class factory, when set, is used instead and its failure
// is propagated.
func NewInstance(t Type) (any, error) {
	switch v := t.(type) {
	case *Array:
		return nil, fmt.Errorf("%w: %s", ErrArrayType, v)
	case *Parameterized:
		return NewInstance(v.Raw)
	case *Class:
		return newClassInstance(v)
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotInstantiable, typeString(t))
	}
}

func newClassInstance(c *Class) (any, error) {
	if c.IsPrimitive() {
		return nil, fmt.Errorf("%w: %s", ErrPrimitiveType, c)
	}

	if c.flags&(flagSentinel|flagAbstract|flagInterface) != 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotInstantiable, c)
	}

	if c.factory != nil {
		instance, err := c.factory()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInstantiation, c, err)
		}

		return instance, nil
	}

	if c.goType == nil {
		return nil, fmt.Errorf("%w: %s has no Go type", ErrNotInstantiable, c)
	}

	return reflect.New(c.goType).Interface(), nil
}

// IterableOf returns value as a sequence. A sequence is returned as is;
// slices and arrays of any element type are iterated lazily.
func IterableOf(value any) (iter.Seq[any], error) {
	switch v := value.(type) {
	case iter.Seq[any]:
		return v, nil
	case func(yield func(any) bool):
		return v, nil
	case nil:
		return nil, ErrNotIterable
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: %T", ErrNotIterable, value)
	}

	return func(yield func(any) bool) {
		for i := range rv.Len() {
			if !yield(rv.Index(i).Interface()) {
				return
			}
		}
	}, nil
}

// ToArray materializes seq into a slice of component, converting each
// element at the boundary (for example int to int32). Nil elements become
// zero values. A conversion that would change the value, such as a
// truncated float or an overflowing integer, fails with ErrElementType.
func ToArray(seq iter.Seq[any], component reflect.Type) (any, error) {
	if component == nil {
		return nil, fmt.Errorf("%w: nil component type", ErrElementType)
	}

	out := reflect.MakeSlice(reflect.SliceOf(component), 0, 0)
	index := 0

	for elem := range seq {
		v, err := convertElement(elem, component)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", index, err)
		}

		out = reflect.Append(out, v)
		index++
	}

	return out.Interface(), nil
}

func convertElement(elem any, component reflect.Type) (reflect.Value, error) {
	if elem == nil {
		return reflect.Zero(component), nil
	}

	v := reflect.ValueOf(elem)
	if v.Type().AssignableTo(component) {
		return v, nil
	}

	if !convertible(v, component) {
		return reflect.Value{}, fmt.Errorf("%w: %s to %s", ErrElementType, v.Type(), component)
	}

	converted := v.Convert(component)
	if !lossless(v, converted) {
		return reflect.Value{}, fmt.Errorf("%w: %v does not fit %s", ErrElementType, elem, component)
	}

	return converted, nil
}

func convertible(v reflect.Value, component reflect.Type) bool {
	if !v.Type().ConvertibleTo(component) {
		return false
	}

	switch {
	case component.Kind() == reflect.String && v.Kind() != reflect.String:
		// int to string is a rune conversion, not a boxing one.
		return false
	case v.Kind() == reflect.Slice && component.Kind() == reflect.Array:
		return v.Len() == component.Len()
	}

	return true
}

// lossless reports whether a numeric conversion survives the trip back to
// the source type unchanged.
func lossless(v, converted reflect.Value) bool {
	if !numeric(v.Kind()) || !numeric(converted.Kind()) {
		return true
	}

	if v.CanFloat() && math.IsNaN(v.Float()) {
		return converted.CanFloat() && math.IsNaN(converted.Float())
	}

	return converted.Convert(v.Type()).Equal(v)
}

func numeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	default:
		return false
	}
}
