// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/linkvet/pkg/types"
)

// WriteYAML writes the machine-readable run result to path. The export
// carries everything the rendered report shows, so downstream tooling
// can diff runs or gate builds without scraping tables.
func WriteYAML(run *types.RunResult, path string) error {
	data, err := yaml.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshaling run result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}
