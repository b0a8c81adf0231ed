package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/MuhammadDevPk/langflow/pkg/scrub"
)

func ScrubCommand() *cli.Command {
	return &cli.Command{
		Name:      "scrub",
		Usage:     "Replace credential values in a flow document with placeholders",
		ArgsUsage: "<flow.json>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output path (defaults to rewriting the input in place)",
			},
		},
		Action: runScrub,
	}
}

func runScrub(_ context.Context, command *cli.Command) error {
	logger := setupLogger(command, "scrub")

	inputPath := command.Args().First()
	if inputPath == "" {
		return fmt.Errorf("missing input file argument")
	}

	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read flow %s: %w", inputPath, err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to parse flow %s: %w", inputPath, err)
	}

	replaced := scrub.Document(doc)

	outputPath := command.String("output")
	if outputPath == "" {
		outputPath = inputPath
	}

	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode flow: %w", err)
	}

	if err := os.WriteFile(outputPath, encoded, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	logger.Info("scrub complete", "output", outputPath, "replaced", replaced)

	return nil
}
