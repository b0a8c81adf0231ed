package main

import (
	"fmt"
	"log/slog"

	cli "github.com/urfave/cli/v3"

	"github.com/MuhammadDevPk/langflow/pkg/cmd"
	"github.com/MuhammadDevPk/langflow/pkg/compiler"
	"github.com/MuhammadDevPk/langflow/pkg/config"
	"github.com/MuhammadDevPk/langflow/pkg/log"
)

// loadConfig resolves the effective configuration: the YAML file named by
// --config when present, then per-command flag overrides on top.
func loadConfig(command *cli.Command) (config.Config, error) {
	cfg := config.Default()

	if path := command.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}

		cfg = loaded
	}

	if v := command.String("template"); v != "" {
		cfg.TemplateFlowPath = v
	}

	if v := command.String("gate-template"); v != "" {
		cfg.GateTemplatePath = v
	}

	if v := command.Int("max-routing-depth"); v > 0 {
		cfg.MaxRoutingDepth = v
	}

	if v := command.String("flows-dir"); v != "" {
		cfg.FlowsDir = v
	}

	if cfg.TemplateFlowPath == "" {
		return cfg, fmt.Errorf("no template flow configured: pass --template or set template_flow in the config file")
	}

	return cfg, nil
}

func setupLogger(command *cli.Command, module string) *slog.Logger {
	log.Setup(command.String("log-level"))

	return log.WithModule(module)
}

func newCompiler(logger *slog.Logger, cfg config.Config, skipValidation bool) (*compiler.Compiler, error) {
	reg, err := cmd.NewPaletteRegistry(logger, cfg.TemplateFlowPath, cfg.GateTemplatePath)
	if err != nil {
		return nil, err
	}

	return compiler.New(logger, reg, compiler.Options{
		MaxRoutingDepth:     cfg.MaxRoutingDepth,
		APIKey:              cfg.APIKey(),
		SkipShapeValidation: skipValidation,
	})
}
