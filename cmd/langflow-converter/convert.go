package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	cli "github.com/urfave/cli/v3"

	"github.com/MuhammadDevPk/langflow/pkg/cmd"
	"github.com/MuhammadDevPk/langflow/pkg/scrub"
)

func ConvertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Convert a workflow export into an importable flow document",
		ArgsUsage: "<workflow.json>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "template",
				Aliases: []string{"t"},
				Usage:   "Template flow export the component palette is built from",
				Sources: cli.EnvVars("TEMPLATE_FLOW"),
			},
			&cli.StringFlag{
				Name:    "gate-template",
				Usage:   "Standalone gate component export merged into the palette",
				Sources: cli.EnvVars("GATE_TEMPLATE"),
			},
			&cli.IntFlag{
				Name:    "max-routing-depth",
				Usage:   "Maximum graph depth at which branch points get routing synthesized",
				Sources: cli.EnvVars("MAX_ROUTING_DEPTH"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output path (defaults to <input>_langflow.json)",
			},
			&cli.StringFlag{
				Name:    "flows-dir",
				Usage:   "Flow store location used with --store",
				Sources: cli.EnvVars("FLOWS_DIR"),
			},
			&cli.BoolFlag{
				Name:  "store",
				Usage: "Also save the converted flow to the flow store",
			},
			&cli.BoolFlag{
				Name:  "scrub",
				Usage: "Replace credential values with placeholders before writing",
			},
			&cli.BoolFlag{
				Name:  "skip-validation",
				Usage: "Skip the JSON Schema shape check on the input document",
			},
		},
		Action: runConvert,
	}
}

func runConvert(ctx context.Context, command *cli.Command) error {
	logger := setupLogger(command, "convert")

	inputPath := command.Args().First()
	if inputPath == "" {
		return fmt.Errorf("missing input file argument")
	}

	cfg, err := loadConfig(command)
	if err != nil {
		return err
	}

	comp, err := newCompiler(logger, cfg, command.Bool("skip-validation"))
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read workflow %s: %w", inputPath, err)
	}

	result, err := comp.Compile(ctx, raw)
	if err != nil {
		return err
	}

	for _, warning := range result.SourceOrphans {
		logger.Warn("excluded unreachable source node",
			"node_id", warning.NodeID, "reason", warning.Reason)
	}

	if command.Bool("scrub") {
		replaced := 0
		for _, node := range result.Flow.Data.Nodes {
			replaced += scrub.Document(node)
		}

		logger.Info("scrubbed credential values", "replaced", replaced)
	}

	outputPath := command.String("output")
	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, ".json") + "_langflow.json"
	}

	encoded, err := json.MarshalIndent(result.Flow, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode flow: %w", err)
	}

	if err := os.WriteFile(outputPath, encoded, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	if command.Bool("store") {
		store := cmd.NewPersistence(cfg.FlowsDir)
		defer store.Close(ctx)

		if err := store.SaveFlow(ctx, result.Flow); err != nil {
			return err
		}

		logger.Info("flow stored", "flow_id", result.Flow.ID, "dir", cfg.FlowsDir)
	}

	logger.Info("conversion complete",
		"output", outputPath,
		"nodes", len(result.Flow.Data.Nodes),
		"connections", len(result.Flow.Data.Edges),
		"routing_plans", len(result.Plans),
		"pruned", len(result.PrunedInstances))

	return nil
}
