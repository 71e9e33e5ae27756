package types

import "reflect"

// Top type and scalars.
var (
	Object  = NewClass("Object").WithGoType(reflect.TypeFor[any]())
	String  = NewClass("String").WithGoType(reflect.TypeFor[string]())
	Number  = NewClass("Number").Abstract()
	Boolean = NewClass("Boolean").WithGoType(reflect.TypeFor[bool]())
	Byte    = NewClass("Byte").WithGoType(reflect.TypeFor[int8]())
	Short   = NewClass("Short").WithGoType(reflect.TypeFor[int16]())
	Integer = NewClass("Integer").WithGoType(reflect.TypeFor[int32]())
	Long    = NewClass("Long").WithGoType(reflect.TypeFor[int64]())
	Float   = NewClass("Float").WithGoType(reflect.TypeFor[float32]())
	Double  = NewClass("Double").WithGoType(reflect.TypeFor[float64]())

	// Void is the boxed null sentinel. It exists only as a declared type and
	// is never instantiable.
	Void = NewClass("Void").sentinel()
)

// Primitives.
var (
	PrimitiveBoolean = newPrimitive("boolean", reflect.TypeFor[bool]())
	PrimitiveInt     = newPrimitive("int", reflect.TypeFor[int32]())
	PrimitiveLong    = newPrimitive("long", reflect.TypeFor[int64]())
	PrimitiveFloat   = newPrimitive("float", reflect.TypeFor[float32]())
	PrimitiveDouble  = newPrimitive("double", reflect.TypeFor[float64]())
)

// Containers.
var (
	Iterable     = NewInterface("Iterable").WithParams("T")
	Collection   = NewInterface("Collection").WithParams("E")
	List         = NewInterface("List").WithParams("E")
	AbstractList = NewClass("AbstractList").WithParams("E").Abstract()
	ArrayList    = NewClass("ArrayList").WithParams("E").WithGoType(reflect.TypeFor[[]any]())
	LinkedList   = NewClass("LinkedList").WithParams("E").WithGoType(reflect.TypeFor[[]any]())
	Vector       = NewClass("Vector").WithParams("E").WithGoType(reflect.TypeFor[[]any]())
	Stack        = NewClass("Stack").WithParams("E").WithGoType(reflect.TypeFor[[]any]())

	Map         = NewInterface("Map").WithParams("K", "V")
	AbstractMap = NewClass("AbstractMap").WithParams("K", "V").Abstract()
	HashMap     = NewClass("HashMap").WithParams("K", "V").WithGoType(reflect.TypeFor[map[string]any]())
	TreeMap     = NewClass("TreeMap").WithParams("K", "V").WithGoType(reflect.TypeFor[map[string]any]())
	ArrayMap    = NewClass("ArrayMap").WithParams("K", "V").WithGoType(reflect.TypeFor[map[string]any]())
)

func init() {
	for _, c := range []*Class{String, Number, Boolean, Void} {
		c.Extends(Object)
	}

	for _, c := range []*Class{Byte, Short, Integer, Long, Float, Double} {
		c.Extends(Number)
	}

	Number.Extends(Object)

	Collection.Implements(Parameterize(Iterable, Collection.Param("E")))
	List.Implements(Parameterize(Collection, List.Param("E")))
	AbstractList.Extends(Object).Implements(Parameterize(List, AbstractList.Param("E")))
	ArrayList.Extends(Parameterize(AbstractList, ArrayList.Param("E"))).
		Implements(Parameterize(List, ArrayList.Param("E")))
	LinkedList.Extends(Parameterize(AbstractList, LinkedList.Param("E"))).
		Implements(Parameterize(List, LinkedList.Param("E")))
	Vector.Extends(Parameterize(AbstractList, Vector.Param("E"))).
		Implements(Parameterize(List, Vector.Param("E")))
	Stack.Extends(Parameterize(Vector, Stack.Param("E")))

	AbstractMap.Extends(Object).
		Implements(Parameterize(Map, AbstractMap.Param("K"), AbstractMap.Param("V")))
	HashMap.Extends(Parameterize(AbstractMap, HashMap.Param("K"), HashMap.Param("V"))).
		Implements(Parameterize(Map, HashMap.Param("K"), HashMap.Param("V")))
	TreeMap.Extends(Parameterize(AbstractMap, TreeMap.Param("K"), TreeMap.Param("V")))
	ArrayMap.Extends(Parameterize(AbstractMap, ArrayMap.Param("K"), ArrayMap.Param("V")))
}

// Builtins returns the predeclared classes, keyed by name.
func Builtins() map[string]*Class {
	out := make(map[string]*Class)

	for _, c := range []*Class{
		Object, String, Number, Boolean, Byte, Short, Integer, Long, Float, Double, Void,
		PrimitiveBoolean, PrimitiveInt, PrimitiveLong, PrimitiveFloat, PrimitiveDouble,
		Iterable, Collection, List, AbstractList, ArrayList, LinkedList, Vector, Stack,
		Map, AbstractMap, HashMap, TreeMap, ArrayMap,
	} {
		out[c.Name()] = c
	}

	return out
}
