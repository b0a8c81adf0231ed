package main

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"

	"github.com/MuhammadDevPk/langflow/pkg/cmd"
)

func FlowsCommand() *cli.Command {
	return &cli.Command{
		Name:  "flows",
		Usage: "List flows saved in the flow store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "flows-dir",
				Usage:   "Flow store location",
				Sources: cli.EnvVars("FLOWS_DIR"),
			},
		},
		Action: runFlows,
	}
}

func runFlows(ctx context.Context, command *cli.Command) error {
	setupLogger(command, "flows")

	dir := command.String("flows-dir")
	if dir == "" {
		dir = "flows"
	}

	store := cmd.NewPersistence(dir)
	defer store.Close(ctx)

	summaries, err := store.Flows(ctx)
	if err != nil {
		return err
	}

	if len(summaries) == 0 {
		fmt.Println("no flows stored")

		return nil
	}

	for _, summary := range summaries {
		fmt.Printf("%s  %-30s  nodes=%d connections=%d\n",
			summary.ID, summary.Name, summary.Nodes, summary.Connections)
	}

	return nil
}
