// Package utils contains small helpers shared by the CLI commands.
package utils

import (
	"encoding/json"
	"fmt"
	"io"
)

// PrintJSON writes v as indented JSON under a "label:" heading.
func PrintJSON(w io.Writer, label string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling %s: %w", label, err)
	}
	_, err = fmt.Fprintf(w, "%s:\n%s\n", label, data)
	return err
}
