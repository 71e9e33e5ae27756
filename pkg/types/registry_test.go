package types_test

import (
	"strings"
	"testing"

	"github.com/fivetwenty-io/gapi-client/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resolveSchema = `
classes:
  - name: LongResolve
    extends: Med2Resolve<Long>
  - name: Resolve
    params: ["X", "T extends Number"]
  - name: IntegerResolve
    extends: Resolve<Boolean, Integer>
  - name: MedResolve
    params: ["T extends Number"]
    extends: Resolve<Boolean, T>
  - name: Med2Resolve
    params: ["T extends Number"]
    extends: MedResolve<T>
  - name: Named
    interface: true
    params: ["N"]
  - name: NamedList
    params: ["E"]
    extends: ArrayList<E>
    implements: ["Named<String>"]
`

func TestRegistryParse(t *testing.T) {
	t.Parallel()

	reg := types.NewRegistry()

	tests := []struct {
		name     string
		expr     string
		expected string
	}{
		{name: "class", expr: "String", expected: "String"},
		{name: "parameterized", expr: "Map<String,Long>", expected: "Map<String, Long>"},
		{name: "nested", expr: "List< Map<String, Integer[]> >", expected: "List<Map<String, Integer[]>>"},
		{name: "wildcard", expr: "Collection<?>", expected: "Collection<?>"},
		{name: "upper bounded", expr: "Collection<? extends Number>", expected: "Collection<? extends Number>"},
		{name: "lower bound discarded", expr: "Collection<? super Integer>", expected: "Collection<?>"},
		{name: "primitive array", expr: "int[][]", expected: "int[][]"},
		{name: "generic array", expr: "List<String>[]", expected: "List<String>[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := reg.Parse(tt.expr, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestRegistryParseErrors(t *testing.T) {
	t.Parallel()

	reg := types.NewRegistry()

	tests := []struct {
		name string
		expr string
		err  error
	}{
		{name: "empty", expr: "", err: types.ErrSyntax},
		{name: "unknown class", expr: "Missing", err: types.ErrUnknownClass},
		{name: "unknown argument", expr: "List<Missing>", err: types.ErrUnknownClass},
		{name: "unclosed", expr: "List<String", err: types.ErrSyntax},
		{name: "unclosed array", expr: "String[", err: types.ErrSyntax},
		{name: "trailing input", expr: "String String", err: types.ErrSyntax},
		{name: "too many arguments", expr: "List<String, String>", err: types.ErrArity},
		{name: "too few arguments", expr: "Map<String>", err: types.ErrArity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := reg.Parse(tt.expr, nil)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestRegistryParseScope(t *testing.T) {
	t.Parallel()

	reg := types.NewRegistry()

	got, err := reg.Parse("List<E>", types.ArrayList)
	require.NoError(t, err)

	p, ok := got.(*types.Parameterized)
	require.True(t, ok)
	assert.Same(t, types.ArrayList.Param("E"), p.Args[0])

	_, err = reg.Parse("List<E>", nil)
	require.ErrorIs(t, err, types.ErrUnknownClass)
}

func TestRegistryRegister(t *testing.T) {
	t.Parallel()

	reg := types.NewRegistry()

	_, ok := reg.Lookup("Widget")
	assert.False(t, ok)

	widget := types.NewClass("Widget").Extends(types.Object)
	require.NoError(t, reg.Register(widget))

	got, ok := reg.Lookup("Widget")
	require.True(t, ok)
	assert.Same(t, widget, got)
	assert.Contains(t, reg.Names(), "Widget")

	err := reg.Register(types.NewClass("Widget"))
	require.ErrorIs(t, err, types.ErrDuplicateClass)

	err = reg.Register(types.NewClass("String"))
	require.ErrorIs(t, err, types.ErrDuplicateClass)
}

func TestRegistryLookupVariable(t *testing.T) {
	t.Parallel()

	reg := types.NewRegistry()

	v, err := reg.LookupVariable("Map.V")
	require.NoError(t, err)
	assert.Same(t, types.Map.Param("V"), v)

	_, err = reg.LookupVariable("Map")
	require.ErrorIs(t, err, types.ErrSyntax)

	_, err = reg.LookupVariable("Map.")
	require.ErrorIs(t, err, types.ErrSyntax)

	_, err = reg.LookupVariable("Missing.T")
	require.ErrorIs(t, err, types.ErrUnknownClass)

	_, err = reg.LookupVariable("Map.X")
	require.ErrorIs(t, err, types.ErrUnknownClass)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestLoadSchema(t *testing.T) {
	t.Parallel()

	reg, err := types.LoadSchema(strings.NewReader(resolveSchema))
	require.NoError(t, err)

	tVar, err := reg.LookupVariable("Resolve.T")
	require.NoError(t, err)
	assert.Equal(t, []types.Type{types.Number}, tVar.Bounds())

	xVar, err := reg.LookupVariable("Resolve.X")
	require.NoError(t, err)
	assert.Equal(t, []types.Type{types.Object}, xVar.Bounds())

	t.Run("forward references resolve", func(t *testing.T) {
		t.Parallel()

		longResolve, ok := reg.Lookup("LongResolve")
		require.True(t, ok)

		got, ok := types.ResolveTypeVariable([]types.Type{longResolve}, tVar)
		require.True(t, ok)
		assert.Same(t, types.Long, got)
	})

	t.Run("partial resolution", func(t *testing.T) {
		t.Parallel()

		medResolve, ok := reg.Lookup("MedResolve")
		require.True(t, ok)

		got, ok := types.ResolveTypeVariable([]types.Type{medResolve}, tVar)
		require.True(t, ok)
		assert.Same(t, medResolve.Param("T"), got)
	})

	t.Run("implemented interfaces", func(t *testing.T) {
		t.Parallel()

		named, ok := reg.Lookup("Named")
		require.True(t, ok)
		assert.True(t, named.IsInterface())

		namedList, ok := reg.Lookup("NamedList")
		require.True(t, ok)
		assert.True(t, named.IsAssignableFrom(namedList))
		assert.True(t, types.Iterable.IsAssignableFrom(namedList))

		elem, ok := types.IterableParameter(types.Parameterize(namedList, types.Integer))
		require.True(t, ok)
		assert.Same(t, types.Integer, elem)

		got, ok := types.ResolveTypeVariable([]types.Type{namedList}, named.Param("N"))
		require.True(t, ok)
		assert.Same(t, types.String, got)
	})

	t.Run("classes without a Go type are not instantiable", func(t *testing.T) {
		t.Parallel()

		resolve, ok := reg.Lookup("Resolve")
		require.True(t, ok)

		_, err := types.NewInstance(resolve)
		require.ErrorIs(t, err, types.ErrNotInstantiable)
	})
}

func TestLoadSchemaErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		schema string
		err    error
	}{
		{name: "malformed yaml", schema: "classes: [", err: types.ErrSchema},
		{name: "missing name", schema: "classes:\n  - params: [T]\n", err: types.ErrSchema},
		{name: "duplicate class", schema: "classes:\n  - name: A\n  - name: A\n", err: types.ErrDuplicateClass},
		{name: "shadows builtin", schema: "classes:\n  - name: List\n", err: types.ErrDuplicateClass},
		{name: "unknown supertype", schema: "classes:\n  - name: A\n    extends: Missing\n", err: types.ErrUnknownClass},
		{name: "bad bound", schema: "classes:\n  - name: A\n    params: [\"T extends Map<\"]\n", err: types.ErrSyntax},
		{name: "arity", schema: "classes:\n  - name: A\n    extends: List\n    implements: [\"Map<String>\"]\n", err: types.ErrArity},
		{name: "implements a class", schema: "classes:\n  - name: A\n    implements: [String]\n", err: types.ErrSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := types.LoadSchema(strings.NewReader(tt.schema))
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestLoadSchemaEmpty(t *testing.T) {
	t.Parallel()

	reg, err := types.LoadSchema(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, types.NewRegistry().Names(), reg.Names())
}
