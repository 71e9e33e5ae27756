package types

import (
	"reflect"
	"strings"
)

// Kind identifies the variant of a Type.
type Kind int

// Type kinds.
const (
	KindClass Kind = iota
	KindParameterized
	KindVariable
	KindWildcard
	KindArray
)

var kindNames = map[Kind]string{
	KindClass:         "class",
	KindParameterized: "parameterized",
	KindVariable:      "variable",
	KindWildcard:      "wildcard",
	KindArray:         "array",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "unknown"
}

// Type is a generic type expression.
type Type interface {
	Kind() Kind
	String() string
}

type classFlags uint8

const (
	flagInterface classFlags = 1 << iota
	flagPrimitive
	flagAbstract
	flagSentinel
)

// Class is a raw type declaration.
//
// A Class is built once, during setup, with the builder methods below and is
// read-only afterwards.
type Class struct {
	name       string
	params     []*Variable
	super      Type
	interfaces []Type
	flags      classFlags
	goType     reflect.Type
	factory    func() (any, error)
}

// NewClass declares a concrete class.
func NewClass(name string) *Class {
	return &Class{name: name}
}

// NewInterface declares an interface. Interfaces are never instantiable.
func NewInterface(name string) *Class {
	return &Class{name: name, flags: flagInterface}
}

func newPrimitive(name string, goType reflect.Type) *Class {
	return &Class{name: name, flags: flagPrimitive, goType: goType}
}

// WithParams declares unbounded type parameters, in order.
func (c *Class) WithParams(names ...string) *Class {
	for _, name := range names {
		c.WithParam(name)
	}

	return c
}

// WithParam declares a type parameter with optional upper bounds.
func (c *Class) WithParam(name string, bounds ...Type) *Class {
	c.params = append(c.params, &Variable{
		name:   name,
		decl:   c,
		bounds: bounds,
		index:  len(c.params),
	})

	return c
}

// Param returns the declared type parameter with the given name, or nil.
func (c *Class) Param(name string) *Variable {
	for _, p := range c.params {
		if p.name == name {
			return p
		}
	}

	return nil
}

// Extends sets the generic superclass, a *Class or a *Parameterized.
func (c *Class) Extends(super Type) *Class {
	c.super = super

	return c
}

// Implements appends generic interfaces.
func (c *Class) Implements(interfaces ...Type) *Class {
	c.interfaces = append(c.interfaces, interfaces...)

	return c
}

// WithGoType binds the Go type NewInstance allocates for this class.
func (c *Class) WithGoType(t reflect.Type) *Class {
	c.goType = t

	return c
}

// WithFactory sets a constructor used by NewInstance in place of GoType.
func (c *Class) WithFactory(factory func() (any, error)) *Class {
	c.factory = factory

	return c
}

// Abstract marks the class as not instantiable.
func (c *Class) Abstract() *Class {
	c.flags |= flagAbstract

	return c
}

func (c *Class) sentinel() *Class {
	c.flags |= flagSentinel

	return c
}

// Kind implements Type.
func (c *Class) Kind() Kind { return KindClass }

// Name returns the declared name.
func (c *Class) Name() string { return c.name }

func (c *Class) String() string { return c.name }

// TypeParams returns the declared type parameters.
func (c *Class) TypeParams() []*Variable {
	out := make([]*Variable, len(c.params))
	copy(out, c.params)

	return out
}

// Superclass returns the generic superclass, or nil.
func (c *Class) Superclass() Type { return c.super }

// Interfaces returns the generic interfaces.
func (c *Class) Interfaces() []Type {
	out := make([]Type, len(c.interfaces))
	copy(out, c.interfaces)

	return out
}

// GoType returns the bound Go type, or nil.
func (c *Class) GoType() reflect.Type { return c.goType }

// IsInterface reports whether the class was declared with NewInterface.
func (c *Class) IsInterface() bool { return c.flags&flagInterface != 0 }

// IsPrimitive reports whether the class is a primitive scalar.
func (c *Class) IsPrimitive() bool { return c.flags&flagPrimitive != 0 }

// IsAbstract reports whether the class was marked abstract.
func (c *Class) IsAbstract() bool { return c.flags&flagAbstract != 0 }

// IsAssignableFrom reports whether a value of other can be assigned to c.
func (c *Class) IsAssignableFrom(other *Class) bool {
	if c == nil || other == nil {
		return false
	}

	if c == other {
		return true
	}

	if c.IsPrimitive() || other.IsPrimitive() {
		return false
	}

	if c == Object {
		return true
	}

	return c.isSupertypeOf(other, make(map[*Class]bool))
}

func (c *Class) isSupertypeOf(other *Class, seen map[*Class]bool) bool {
	if seen[other] {
		return false
	}

	seen[other] = true

	for _, next := range other.supertypes() {
		if next == c || c.isSupertypeOf(next, seen) {
			return true
		}
	}

	return false
}

func (c *Class) supertypes() []*Class {
	out := make([]*Class, 0, len(c.interfaces)+1)

	if raw := rawOf(c.super); raw != nil {
		out = append(out, raw)
	}

	for _, it := range c.interfaces {
		if raw := rawOf(it); raw != nil {
			out = append(out, raw)
		}
	}

	return out
}

// Parameterized is a raw class applied to type arguments.
type Parameterized struct {
	Raw  *Class
	Args []Type
}

// Parameterize applies args to raw. The number of args should match the
// number of raw's type parameters.
func Parameterize(raw *Class, args ...Type) *Parameterized {
	return &Parameterized{Raw: raw, Args: args}
}

// Kind implements Type.
func (p *Parameterized) Kind() Kind { return KindParameterized }

func (p *Parameterized) String() string {
	args := make([]string, len(p.Args))
	for i, arg := range p.Args {
		args[i] = typeString(arg)
	}

	return p.Raw.String() + "<" + strings.Join(args, ", ") + ">"
}

// Variable is a type parameter of a generic declaration.
type Variable struct {
	name   string
	decl   *Class
	bounds []Type
	index  int
}

// Kind implements Type.
func (v *Variable) Kind() Kind { return KindVariable }

// Name returns the parameter name.
func (v *Variable) Name() string { return v.name }

func (v *Variable) String() string { return v.name }

// Declaration returns the class that declares the variable.
func (v *Variable) Declaration() *Class { return v.decl }

// Bounds returns the declared upper bounds, Object when none were given.
func (v *Variable) Bounds() []Type {
	if len(v.bounds) == 0 {
		return []Type{Object}
	}

	out := make([]Type, len(v.bounds))
	copy(out, v.bounds)

	return out
}

// Index returns the position of the variable in its declaration.
func (v *Variable) Index() int { return v.index }

// Wildcard is an unknown type argument with an optional upper bound.
// Lower bounds are not modelled.
type Wildcard struct {
	Upper Type
}

// Kind implements Type.
func (w *Wildcard) Kind() Kind { return KindWildcard }

func (w *Wildcard) String() string {
	if w.Upper == nil || w.Upper == Type(Object) {
		return "?"
	}

	return "? extends " + typeString(w.Upper)
}

// Array is an array of Component.
type Array struct {
	Component Type
}

// ArrayOf returns the array type of component.
func ArrayOf(component Type) *Array {
	return &Array{Component: component}
}

// Kind implements Type.
func (a *Array) Kind() Kind { return KindArray }

func (a *Array) String() string {
	return typeString(a.Component) + "[]"
}

func typeString(t Type) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}

// rawOf projects a class or parameterized type to its raw class.
func rawOf(t Type) *Class {
	switch v := t.(type) {
	case *Class:
		return v
	case *Parameterized:
		return v.Raw
	default:
		return nil
	}
}
