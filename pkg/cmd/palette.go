// Package cmd provides common initialization for the command-line and API
// binaries.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/MuhammadDevPk/langflow/pkg/palette"
	"github.com/MuhammadDevPk/langflow/pkg/persistence"
	persistencefile "github.com/MuhammadDevPk/langflow/pkg/persistence/file"
)

// NewPaletteRegistry loads the component palette from a template flow
// export, optionally merging a standalone gate export for templates that
// lack one.
func NewPaletteRegistry(logger *slog.Logger, templatePath, gateTemplatePath string) (*palette.Registry, error) {
	reg := palette.NewRegistry(logger)

	raw, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read template flow %s: %w", templatePath, err)
	}

	if err := reg.LoadTemplateFlow(raw); err != nil {
		return nil, err
	}

	if gateTemplatePath != "" {
		gateRaw, err := os.ReadFile(gateTemplatePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read gate template %s: %w", gateTemplatePath, err)
		}

		if err := reg.LoadComponentDoc(gateRaw); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

// NewPersistence creates the flow store for the given location.
func NewPersistence(flowsDir string) persistence.Persistence {
	return persistencefile.NewPersistence(flowsDir)
}
