package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/MuhammadDevPk/langflow/pkg/source"
)

func ValidateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Parse and validate a workflow export without converting it",
		ArgsUsage: "<workflow.json>",
		Action:    runValidate,
	}
}

func runValidate(_ context.Context, command *cli.Command) error {
	logger := setupLogger(command, "validate")

	inputPath := command.Args().First()
	if inputPath == "" {
		return fmt.Errorf("missing input file argument")
	}

	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read workflow %s: %w", inputPath, err)
	}

	parser, err := source.NewParser(logger)
	if err != nil {
		return err
	}

	graph, orphans, err := parser.Parse(raw)
	if err != nil {
		return err
	}

	for _, warning := range orphans {
		logger.Warn("unreachable source node",
			"node_id", warning.NodeID, "reason", warning.Reason)
	}

	branching := 0

	for _, node := range graph.Nodes {
		if len(graph.OutgoingEdges(node.ID)) > 1 {
			branching++
		}
	}

	logger.Info("workflow is valid",
		"nodes", len(graph.Nodes),
		"edges", len(graph.Edges),
		"entry", graph.EntryID,
		"branch_points", branching,
		"excluded", len(orphans))

	return nil
}
