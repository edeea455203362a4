package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tansive/restadapter/internal/config"
	"gopkg.in/yaml.v3"
)

// ParseMultiYAML reads a file containing one or more YAML (or JSON)
// documents, expanding {{ .ENV.VAR }} placeholders first. Each document
// is one record.
func ParseMultiYAML(filename string) ([]map[string]any, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	data = replaceTabsWithSpaces(data)

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	data, err = config.Preprocess(data, cwd)
	if err != nil {
		return nil, err
	}

	return ParseMultiYAMLFromBytes(data)
}

// ParseMultiYAMLFromBytes parses byte data containing multiple YAML documents
// Returns a slice of maps containing the parsed YAML documents
func ParseMultiYAMLFromBytes(data []byte) ([]map[string]any, error) {
	// If data is empty or contains only whitespace or only --- separators, return empty slice
	content := strings.TrimSpace(string(data))
	if len(content) == 0 || strings.Trim(content, "- \n\t") == "" {
		return []map[string]any{}, nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	var result []map[string]any

	for {
		var doc map[string]any
		if err := decoder.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to decode YAML: %w", err)
		}
		// Skip empty documents (common with trailing ---)
		if len(doc) > 0 {
			result = append(result, doc)
		}
	}

	return result, nil
}

// replaceTabsWithSpaces replaces leading tabs, which YAML rejects, with two
// spaces each.
func replaceTabsWithSpaces(data []byte) []byte {
	lines := bytes.Split(data, []byte("\n"))
	for i, line := range lines {
		n := 0
		for n < len(line) && line[n] == '\t' {
			n++
		}
		if n > 0 {
			lines[i] = append(bytes.Repeat([]byte("  "), n), line[n:]...)
		}
	}
	return bytes.Join(lines, []byte("\n"))
}
