package types

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Schema is the YAML form of a set of class declarations.
//
//	classes:
//	  - name: Resolve
//	    params: ["X", "T extends Number"]
//	  - name: IntegerResolve
//	    extends: Resolve<Boolean, Integer>
type Schema struct {
	Classes []ClassSpec `json:"classes" yaml:"classes"`
}

// ClassSpec declares one class. Params use the form "T" or
// "T extends Bound"; Extends and Implements are type expressions in the
// scope of the class.
type ClassSpec struct {
	Name       string   `json:"name"                 yaml:"name"`
	Interface  bool     `json:"interface,omitempty"  yaml:"interface,omitempty"`
	Abstract   bool     `json:"abstract,omitempty"   yaml:"abstract,omitempty"`
	Params     []string `json:"params,omitempty"     yaml:"params,omitempty"`
	Extends    string   `json:"extends,omitempty"    yaml:"extends,omitempty"`
	Implements []string `json:"implements,omitempty" yaml:"implements,omitempty"`
}

// LoadSchema decodes a YAML schema and registers its classes on top of the
// builtins.
func LoadSchema(r io.Reader) (*Registry, error) {
	var schema Schema

	err := yaml.NewDecoder(r).Decode(&schema)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: decoding: %w", ErrSchema, err)
	}

	reg := NewRegistry()

	err = reg.Declare(schema)
	if err != nil {
		return nil, err
	}

	return reg, nil
}

// Declare registers every class of schema. Classes are declared before any
// supertype is linked, so specs may reference each other in any order.
func (r *Registry) Declare(schema Schema) error {
	declared := make([]*Class, len(schema.Classes))
	bounds := make([][]string, len(schema.Classes))

	for i, spec := range schema.Classes {
		if spec.Name == "" {
			return fmt.Errorf("%w: class %d has no name", ErrSchema, i)
		}

		c := NewClass(spec.Name)
		if spec.Interface {
			c = NewInterface(spec.Name)
		}

		if spec.Abstract {
			c.Abstract()
		}

		bounds[i] = make([]string, len(spec.Params))

		for j, param := range spec.Params {
			name, bound, _ := strings.Cut(strings.TrimSpace(param), " extends ")
			c.WithParam(strings.TrimSpace(name))
			bounds[i][j] = strings.TrimSpace(bound)
		}

		err := r.Register(c)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSchema, err)
		}

		declared[i] = c
	}

	for i, spec := range schema.Classes {
		err := r.link(declared[i], spec, bounds[i])
		if err != nil {
			return fmt.Errorf("%w: class %s: %w", ErrSchema, spec.Name, err)
		}
	}

	return nil
}

func (r *Registry) link(c *Class, spec ClassSpec, bounds []string) error {
	for j, bound := range bounds {
		if bound == "" {
			continue
		}

		t, err := r.Parse(bound, c)
		if err != nil {
			return fmt.Errorf("bound of %s: %w", c.params[j].name, err)
		}

		c.params[j].bounds = []Type{t}
	}

	if spec.Extends != "" {
		super, err := r.Parse(spec.Extends, c)
		if err != nil {
			return fmt.Errorf("extends: %w", err)
		}

		if rawOf(super) == nil {
			return fmt.Errorf("extends: %w: %s", ErrNotParameterized, super)
		}

		c.Extends(super)
	} else if !c.IsInterface() {
		c.Extends(Object)
	}

	for _, expr := range spec.Implements {
		it, err := r.Parse(expr, c)
		if err != nil {
			return fmt.Errorf("implements: %w", err)
		}

		if raw := rawOf(it); raw == nil || !raw.IsInterface() {
			return fmt.Errorf("implements: %s is not an interface", it)
		}

		c.Implements(it)
	}

	return nil
}
