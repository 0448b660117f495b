package cli

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// loadDocument читает JSON или YAML документ из файла; "-" означает stdin
func loadDocument(path string, stdin io.Reader, out interface{}) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	// JSON является подмножеством YAML
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
