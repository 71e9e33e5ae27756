package types_test

import (
	"testing"

	"github.com/fivetwenty-io/gapi-client/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func variableName(t *testing.T, typ types.Type) string {
	t.Helper()

	v, ok := typ.(*types.Variable)
	require.True(t, ok, "expected a variable, got %s", typ)

	return v.Name()
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestIterableParameter(t *testing.T) {
	t.Parallel()

	// class A<T> { Iterable<String> i; ArrayList<String> a; ArrayList aNoType;
	//   Stack<? extends Number> wild; Vector<Integer[]> arr;
	//   LinkedList<ArrayList<Boolean>> list; Iterable<T> tv; ArrayList<T> atv; }
	a := types.NewClass("A").WithParams("T").Extends(types.Object)
	tVar := a.Param("T")

	t.Run("type variable arguments stay abstract", func(t *testing.T) {
		t.Parallel()

		got, ok := types.IterableParameter(types.Parameterize(types.Iterable, tVar))
		require.True(t, ok)
		assert.Equal(t, "T", variableName(t, got))

		got, ok = types.IterableParameter(types.Parameterize(types.ArrayList, tVar))
		require.True(t, ok)
		assert.Same(t, tVar, got)
	})

	t.Run("concrete arguments", func(t *testing.T) {
		t.Parallel()

		got, ok := types.IterableParameter(types.Parameterize(types.Iterable, types.String))
		require.True(t, ok)
		assert.Same(t, types.String, got)

		got, ok = types.IterableParameter(types.Parameterize(types.ArrayList, types.String))
		require.True(t, ok)
		assert.Same(t, types.String, got)
	})

	t.Run("raw container yields the formal parameter", func(t *testing.T) {
		t.Parallel()

		got, ok := types.IterableParameter(types.ArrayList)
		require.True(t, ok)
		assert.Same(t, types.ArrayList.Param("E"), got)

		got, ok = types.IterableParameter(types.Stack)
		require.True(t, ok)
		assert.Same(t, types.Stack.Param("E"), got)
	})

	t.Run("structured element types", func(t *testing.T) {
		t.Parallel()

		got, ok := types.IterableParameter(types.Parameterize(types.Vector, types.ArrayOf(types.Integer)))
		require.True(t, ok)

		component, err := types.ArrayComponentType(got)
		require.NoError(t, err)
		assert.Same(t, types.Integer, component)

		got, ok = types.IterableParameter(types.Parameterize(types.LinkedList,
			types.Parameterize(types.ArrayList, types.Boolean)))
		require.True(t, ok)

		raw, err := types.RawClass(got)
		require.NoError(t, err)
		assert.Same(t, types.ArrayList, raw)

		got, ok = types.IterableParameter(types.Parameterize(types.Stack, &types.Wildcard{Upper: types.Number}))
		require.True(t, ok)

		wildcard, isWildcard := got.(*types.Wildcard)
		require.True(t, isWildcard)
		assert.Same(t, types.Number, types.Bound(wildcard))
	})

	t.Run("arrays", func(t *testing.T) {
		t.Parallel()

		got, ok := types.IterableParameter(types.ArrayOf(types.PrimitiveInt))
		require.True(t, ok)
		assert.Same(t, types.PrimitiveInt, got)
	})

	t.Run("not iterable", func(t *testing.T) {
		t.Parallel()

		_, ok := types.IterableParameter(types.String)
		assert.False(t, ok)

		_, ok = types.IterableParameter(types.Parameterize(types.Map, types.String, types.String))
		assert.False(t, ok)

		_, ok = types.IterableParameter(tVar)
		assert.False(t, ok)
	})

	t.Run("user class implementing a container", func(t *testing.T) {
		t.Parallel()

		// class IntegerList extends ArrayList<Integer>
		integerList := types.NewClass("IntegerList").
			Extends(types.Parameterize(types.ArrayList, types.Integer))

		got, ok := types.IterableParameter(integerList)
		require.True(t, ok)
		assert.Same(t, types.Integer, got)
	})

	t.Run("superclass binding wins over a raw interface", func(t *testing.T) {
		t.Parallel()

		// class Foo extends ArrayList<String> implements List
		foo := types.NewClass("Foo").
			Extends(types.Parameterize(types.ArrayList, types.String)).
			Implements(types.List)

		got, ok := types.IterableParameter(foo)
		require.True(t, ok)
		assert.Same(t, types.String, got)

		p, ok := types.SuperParameterized(foo, types.List)
		require.True(t, ok)
		assert.Same(t, types.List, p.Raw)
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestMapValueParameter(t *testing.T) {
	t.Parallel()

	// class C<T> { Map<String, String> i; ArrayMap<String, String> a; ArrayMap aNoType;
	//   TreeMap<String, ? extends Number> wild; HashMap<String, Integer[]> arr;
	//   HashMap<String, ArrayList<Boolean>> list; Map<String, T> tv; ArrayMap<String, T> atv; }
	c := types.NewClass("C").WithParams("T").Extends(types.Object)
	tVar := c.Param("T")

	tests := []struct {
		name  string
		field types.Type
		check func(t *testing.T, got types.Type)
	}{
		{
			name:  "tv",
			field: types.Parameterize(types.Map, types.String, tVar),
			check: func(t *testing.T, got types.Type) { assert.Equal(t, "T", variableName(t, got)) },
		},
		{
			name:  "atv",
			field: types.Parameterize(types.ArrayMap, types.String, tVar),
			check: func(t *testing.T, got types.Type) { assert.Same(t, tVar, got) },
		},
		{
			name:  "i",
			field: types.Parameterize(types.Map, types.String, types.String),
			check: func(t *testing.T, got types.Type) { assert.Same(t, types.String, got) },
		},
		{
			name:  "a",
			field: types.Parameterize(types.ArrayMap, types.String, types.String),
			check: func(t *testing.T, got types.Type) { assert.Same(t, types.String, got) },
		},
		{
			name:  "aNoType",
			field: types.ArrayMap,
			check: func(t *testing.T, got types.Type) { assert.Equal(t, "V", variableName(t, got)) },
		},
		{
			name:  "wild",
			field: types.Parameterize(types.TreeMap, types.String, &types.Wildcard{Upper: types.Number}),
			check: func(t *testing.T, got types.Type) {
				wildcard, ok := got.(*types.Wildcard)
				require.True(t, ok)
				assert.Same(t, types.Number, wildcard.Upper)
			},
		},
		{
			name:  "arr",
			field: types.Parameterize(types.HashMap, types.String, types.ArrayOf(types.Integer)),
			check: func(t *testing.T, got types.Type) {
				component, err := types.ArrayComponentType(got)
				require.NoError(t, err)
				assert.Same(t, types.Integer, component)
			},
		},
		{
			name: "list",
			field: types.Parameterize(types.HashMap, types.String,
				types.Parameterize(types.ArrayList, types.Boolean)),
			check: func(t *testing.T, got types.Type) {
				raw, err := types.RawClass(got)
				require.NoError(t, err)
				assert.Same(t, types.ArrayList, raw)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := types.MapValueParameter(tt.field)
			require.True(t, ok)
			tt.check(t, got)
		})
	}

	t.Run("not a map", func(t *testing.T) {
		t.Parallel()

		_, ok := types.MapValueParameter(types.Parameterize(types.List, types.String))
		assert.False(t, ok)
	})
}
