package types

import "errors"

// Invalid-argument errors returned by the construction helpers.
var (
	ErrPrimitiveType   = errors.New("primitive types cannot be instantiated")
	ErrArrayType       = errors.New("array types cannot be instantiated")
	ErrNotInstantiable = errors.New("type is not instantiable")
	ErrInstantiation   = errors.New("instantiation failed")
)

// Shape errors returned by the structural projections.
var (
	ErrNotParameterized = errors.New("type is not parameterized")
	ErrNotArray         = errors.New("type is not an array")
	ErrNotIterable      = errors.New("value is not iterable")
	ErrElementType      = errors.New("element cannot be converted to the component type")
)

// Registry and schema errors.
var (
	ErrDuplicateClass = errors.New("class already registered")
	ErrUnknownClass   = errors.New("unknown class")
	ErrArity          = errors.New("wrong number of type arguments")
	ErrSyntax         = errors.New("invalid type expression")
	ErrSchema         = errors.New("invalid schema")
)
