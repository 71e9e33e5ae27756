package commands

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/gapi-client/internal/constants"
	"github.com/fivetwenty-io/gapi-client/pkg/types"
	"github.com/spf13/cobra"
)

// Resolution is the rendered result of a type variable lookup.
type Resolution struct {
	Variable string   `json:"variable"           yaml:"variable"`
	Context  []string `json:"context"            yaml:"context"`
	Resolved bool     `json:"resolved"           yaml:"resolved"`
	Type     string   `json:"type,omitempty"     yaml:"type,omitempty"`
	RawClass string   `json:"raw_class,omitempty" yaml:"raw_class,omitempty"`
}

// Element is the rendered element type of a container.
type Element struct {
	Type    string `json:"type"              yaml:"type"`
	Found   bool   `json:"found"             yaml:"found"`
	Element string `json:"element,omitempty" yaml:"element,omitempty"`
	IsArray bool   `json:"is_array"          yaml:"is_array"`
}

// NewTypesCommand creates the types command group.
func NewTypesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "Inspect generic type descriptors",
		Long: `Resolve type variables and container element types against the builtin
classes plus an optional YAML schema:

  classes:
    - name: Resolve
      params: ["X", "T extends Number"]
    - name: IntegerResolve
      extends: Resolve<Boolean, Integer>`,
	}

	cmd.AddCommand(newTypesListCommand())
	cmd.AddCommand(newTypesResolveCommand())
	cmd.AddCommand(newTypesElementCommand())

	return cmd
}

func newTypesListCommand() *cobra.Command {
	var schemaFile string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered classes",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry(schemaFile)
			if err != nil {
				return err
			}

			names := reg.Names()
			rows := make([][]string, 0, len(names))

			for _, name := range names {
				c, _ := reg.Lookup(name)
				rows = append(rows, []string{classKind(c), describeClass(c)})
			}

			return render(cmd, names, []string{"Kind", "Class"}, rows)
		},
	}

	cmd.Flags().StringVarP(&schemaFile, "schema", "s", "", "YAML schema file")

	return cmd
}

func newTypesResolveCommand() *cobra.Command {
	var (
		schemaFile string
		contexts   []string
	)

	cmd := &cobra.Command{
		Use:   "resolve Class.Param",
		Short: "Resolve a type variable against a context chain",
		Long: `Resolve a type variable against one or more context types. The first
--context is the most derived and is consulted first.`,
		Example: `  gapi types resolve --schema resolve.yml --context IntegerResolve Resolve.T
  gapi types resolve --context 'HashMap<String, Long>' Map.V`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(contexts) == 0 {
				return constants.ErrContextRequired
			}

			reg, err := loadRegistry(schemaFile)
			if err != nil {
				return err
			}

			variable, err := reg.LookupVariable(args[0])
			if err != nil {
				return err
			}

			chain := make([]types.Type, 0, len(contexts))

			for _, expr := range contexts {
				t, err := reg.Parse(expr, nil)
				if err != nil {
					return err
				}

				chain = append(chain, t)
			}

			result := Resolution{Variable: args[0], Context: contexts}

			resolved, ok := types.ResolveTypeVariable(chain, variable)
			if ok {
				result.Resolved = true
				result.Type = resolved.String()

				if raw, err := types.RawArrayComponentType(chain, resolved); err == nil {
					result.RawClass = raw.Name()
				}
			}

			return render(cmd, result, []string{"Variable", "Resolved", "Type", "Raw Class"}, [][]string{
				{result.Variable, yesNo(result.Resolved), formatConfigValue(result.Type), formatConfigValue(result.RawClass)},
			})
		},
	}

	cmd.Flags().StringVarP(&schemaFile, "schema", "s", "", "YAML schema file")
	cmd.Flags().StringArrayVar(&contexts, "context", nil, "context type expression (repeatable, most derived first)")

	return cmd
}

func newTypesElementCommand() *cobra.Command {
	var (
		schemaFile string
		mapValue   bool
	)

	cmd := &cobra.Command{
		Use:   "element TYPE",
		Short: "Show the element type of a collection, array or map",
		Example: `  gapi types element 'List<String>'
  gapi types element --map 'HashMap<String, Integer>'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry(schemaFile)
			if err != nil {
				return err
			}

			t, err := reg.Parse(args[0], nil)
			if err != nil {
				return err
			}

			var (
				element types.Type
				found   bool
			)

			if mapValue {
				element, found = types.MapValueParameter(t)
			} else {
				element, found = types.IterableParameter(t)
			}

			result := Element{Type: t.String(), Found: found, IsArray: types.IsArray(t)}
			if found {
				result.Element = element.String()
			}

			return render(cmd, result, []string{"Type", "Element"}, [][]string{
				{result.Type, formatConfigValue(result.Element)},
			})
		},
	}

	cmd.Flags().StringVarP(&schemaFile, "schema", "s", "", "YAML schema file")
	cmd.Flags().BoolVar(&mapValue, "map", false, "show the map value type instead of the iterable element")

	return cmd
}

func loadRegistry(schemaFile string) (*types.Registry, error) {
	if schemaFile == "" {
		return types.NewRegistry(), nil
	}

	data, err := readLocalFile(schemaFile)
	if err != nil {
		return nil, err
	}

	reg, err := types.LoadSchema(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("loading schema %s: %w", schemaFile, err)
	}

	return reg, nil
}

func classKind(c *types.Class) string {
	switch {
	case c.IsPrimitive():
		return "primitive"
	case c.IsInterface():
		return "interface"
	case c.IsAbstract():
		return "abstract"
	default:
		return "class"
	}
}

func describeClass(c *types.Class) string {
	desc := c.Name()

	if params := c.TypeParams(); len(params) > 0 {
		names := make([]string, len(params))
		for i, p := range params {
			names[i] = p.Name()
		}

		desc += "<" + strings.Join(names, ", ") + ">"
	}

	if super := c.Superclass(); super != nil {
		desc += " extends " + super.String()
	}

	return desc
}
