package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/trace"

	"github.com/MuhammadDevPk/langflow/pkg/cmd"
	"github.com/MuhammadDevPk/langflow/pkg/compiler"
	"github.com/MuhammadDevPk/langflow/pkg/config"
	"github.com/MuhammadDevPk/langflow/pkg/log"
	"github.com/MuhammadDevPk/langflow/pkg/otelhelper"
)

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "langflow-api",
		Usage:                 "Convert workflows and manage stored flows over HTTP",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to converter config YAML",
				Sources: cli.EnvVars("CONVERTER_CONFIG"),
			},
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
			&cli.StringFlag{
				Name:    "flows-dir",
				Usage:   "Flow store location",
				Sources: cli.EnvVars("FLOWS_DIR"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing conversion API")

			cfg := config.Default()

			if path := command.String("config"); path != "" {
				loaded, err := config.Load(path)
				if err != nil {
					return err
				}

				cfg = loaded
			}

			if v := command.String("template"); v != "" {
				cfg.TemplateFlowPath = v
			}

			if v := command.String("gate-template"); v != "" {
				cfg.GateTemplatePath = v
			}

			if v := command.String("flows-dir"); v != "" {
				cfg.FlowsDir = v
			}

			if v := command.Int("port"); v > 0 {
				cfg.APIPort = v
			}

			reg, err := cmd.NewPaletteRegistry(logger, cfg.TemplateFlowPath, cfg.GateTemplatePath)
			if err != nil {
				return err
			}

			var tracer trace.Tracer

			if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
				tracer, err = otelhelper.NewTracer(ctx, "langflow-api")
				if err != nil {
					return err
				}
			}

			comp, err := compiler.New(logger, reg, compiler.Options{
				MaxRoutingDepth: cfg.MaxRoutingDepth,
				APIKey:          cfg.APIKey(),
				Tracer:          tracer,
			})
			if err != nil {
				return err
			}

			persistence := cmd.NewPersistence(cfg.FlowsDir)
			defer func() {
				if err := persistence.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			api := NewAPI(logger, comp, persistence)

			if err := api.Start(cfg.APIPort); err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)

				return err
			}

			return nil
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
