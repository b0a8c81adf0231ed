package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/MuhammadDevPk/langflow/pkg/log"
)

func main() {
	cmd := &cli.Command{
		Name:                  "langflow-converter",
		Usage:                 "Convert conversational workflow exports into importable Langflow flows",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:       "log-level",
				Usage:      "Log level (debug, info, warn, error)",
				Value:      "info",
				Sources:    cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:       "config",
				Aliases:    []string{"c"},
				Usage:      "Path to converter config YAML",
				Sources:    cli.EnvVars("CONVERTER_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			ConvertCommand(),
			ValidateCommand(),
			ScrubCommand(),
			FlowsCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.WithModule("converter").Error("command failed", "error", err)
		os.Exit(1)
	}
}
