package types

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"
)

// Registry maps class names to declarations. A new Registry already holds
// the builtin classes.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]*Class
}

// NewRegistry creates a registry seeded with Builtins.
func NewRegistry() *Registry {
	return &Registry{classes: Builtins()}
}

// Register adds classes by name.
func (r *Registry) Register(classes ...*Class) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range classes {
		if _, exists := r.classes[c.Name()]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateClass, c.Name())
		}

		r.classes[c.Name()] = c
	}

	return nil
}

// Lookup returns the class registered under name.
func (r *Registry) Lookup(name string) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.classes[name]

	return c, ok
}

// Names returns the registered class names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// LookupVariable resolves a "Class.Param" reference.
func (r *Registry) LookupVariable(ref string) (*Variable, error) {
	dot := strings.LastIndex(ref, ".")
	if dot <= 0 || dot == len(ref)-1 {
		return nil, fmt.Errorf("%w: %q is not Class.Param", ErrSyntax, ref)
	}

	c, ok := r.Lookup(ref[:dot])
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClass, ref[:dot])
	}

	v := c.Param(ref[dot+1:])
	if v == nil {
		return nil, fmt.Errorf("%w: %s declares no parameter %s", ErrUnknownClass, c, ref[dot+1:])
	}

	return v, nil
}

// Parse parses a type expression such as "Map<String, ? extends Number>"
// or "T[]". Bare identifiers naming a type parameter of scope resolve to
// that variable; scope may be nil.
//
// Grammar:
//
//	type     = wildcard | name [ "<" type { "," type } ">" ] { "[]" }
//	wildcard = "?" [ ( "extends" | "super" ) type ]
//
// A "super" bound is accepted and discarded.
func (r *Registry) Parse(expr string, scope *Class) (Type, error) {
	p := &parser{reg: r, scope: scope, src: expr}

	t, err := p.parseType()
	if err != nil {
		return nil, err
	}

	p.skipSpace()

	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}

	return t, nil
}

type parser struct {
	reg   *Registry
	scope *Class
	src   string
	pos   int
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %q at %d: %s", ErrSyntax, p.src, p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *parser) consume(token string) bool {
	p.skipSpace()

	if strings.HasPrefix(p.src[p.pos:], token) {
		p.pos += len(token)

		return true
	}

	return false
}

func (p *parser) ident() string {
	p.skipSpace()

	start := p.pos

	for p.pos < len(p.src) {
		ch := rune(p.src[p.pos])
		if ch != '_' && ch != '.' && ch != '$' && !unicode.IsLetter(ch) && !unicode.IsDigit(ch) {
			break
		}

		p.pos++
	}

	return p.src[start:p.pos]
}

func (p *parser) parseType() (Type, error) {
	if p.consume("?") {
		return p.parseWildcard()
	}

	name := p.ident()
	if name == "" {
		return nil, p.errorf("expected type name")
	}

	base, err := p.resolveName(name)
	if err != nil {
		return nil, err
	}

	for p.consume("[") {
		if !p.consume("]") {
			return nil, p.errorf("expected ]")
		}

		base = ArrayOf(base)
	}

	return base, nil
}

func (p *parser) parseWildcard() (Type, error) {
	save := p.pos

	switch word := p.ident(); word {
	case "extends":
		upper, err := p.parseType()
		if err != nil {
			return nil, err
		}

		return &Wildcard{Upper: upper}, nil
	case "super":
		if _, err := p.parseType(); err != nil {
			return nil, err
		}

		return &Wildcard{}, nil
	default:
		p.pos = save

		return &Wildcard{}, nil
	}
}

func (p *parser) resolveName(name string) (Type, error) {
	if p.scope != nil {
		if v := p.scope.Param(name); v != nil {
			return v, nil
		}
	}

	class, ok := p.reg.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClass, name)
	}

	if !p.consume("<") {
		return class, nil
	}

	var args []Type

	for {
		arg, err := p.parseType()
		if err != nil {
			return nil, err
		}

		args = append(args, arg)

		if p.consume(">") {
			break
		}

		if !p.consume(",") {
			return nil, p.errorf("expected , or >")
		}
	}

	if len(args) != len(class.params) {
		return nil, fmt.Errorf("%w: %s takes %d, got %d", ErrArity, class, len(class.params), len(args))
	}

	return Parameterize(class, args...), nil
}
