package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fivetwenty-io/gapi-client/internal/constants"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// outputFormat returns the --output flag when set on the command line, then
// the configured value, then table.
func outputFormat(cmd *cobra.Command) string {
	if flag := cmd.Flags().Lookup("output"); flag != nil && flag.Changed {
		return flag.Value.String()
	}

	if output := viper.GetString("output"); output != "" {
		return output
	}

	return constants.FormatTable
}

// render writes data as JSON or YAML, or rows as a table.
func render(cmd *cobra.Command, data interface{}, header []string, rows [][]string) error {
	out := cmd.OutOrStdout()

	switch format := outputFormat(cmd); format {
	case constants.FormatJSON:
		return writeJSON(out, data)
	case constants.FormatYAML:
		return writeYAML(out, data)
	case constants.FormatTable:
		return writeTable(out, header, rows)
	default:
		return fmt.Errorf("%w: %s", constants.ErrInvalidOutputFormat, format)
	}
}

func writeJSON(out io.Writer, data interface{}) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

func writeYAML(out io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(out)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return encoder.Close()
}

func writeTable(out io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(out)

	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}

	table.Header(cells...)

	for _, row := range rows {
		err := table.Append(row)
		if err != nil {
			return fmt.Errorf("failed to append row to table: %w", err)
		}
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func yesNo(b bool) string {
	if b {
		return constants.CheckMarkSymbol
	}

	return ""
}
