package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"sigs.k8s.io/yaml"
)

// printJSON prints data as indented JSON.
func printJSON(w io.Writer, data any) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintln(w, string(jsonData))
}

func toYAML(raw json.RawMessage) (string, error) {
	y, err := yaml.JSONToYAML(raw)
	if err != nil {
		return "", err
	}
	return string(bytes.TrimRight(y, "\n")), nil
}

// printResult prints a response body as YAML, or as indented JSON with -j.
// An empty body prints nothing.
func (a *app) printResult(w io.Writer, raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	if a.jsonOutput {
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return fmt.Errorf("failed to format JSON output: %w", err)
		}
		fmt.Fprintln(w, buf.String())
		return nil
	}
	out, err := toYAML(raw)
	if err != nil {
		return fmt.Errorf("failed to convert to YAML: %w", err)
	}
	fmt.Fprintln(w, out)
	return nil
}
