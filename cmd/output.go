package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// printJSON writes v to stdout as indented JSON.
func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// newTable creates a table writer with the standard styling.
func newTable(headers ...interface{}) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)

	colored := make([]interface{}, len(headers))
	for i, h := range headers {
		colored[i] = text.FgHiCyan.Sprintf("%v", h)
	}
	t.AppendHeader(colored)
	return t
}

// printEmpty prints a message for empty result sets.
func printEmpty(message string) {
	fmt.Println(text.FgYellow.Sprint(message))
}

// truncate shortens a string for table display.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
