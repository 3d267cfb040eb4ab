// Package commands implements the ilo command line.
package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/heartmarshall/ilo-wawa/internal/app"
	"github.com/heartmarshall/ilo-wawa/internal/config"
)

// New returns the root command.
func New() *cli.Command {
	return &cli.Command{
		Name:  "ilo",
		Usage: "convert text to glyph script and search the vocabulary by meaning",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML config file (default: $CONFIG_PATH, then ./config.yaml)",
			},
		},
		Commands: []*cli.Command{
			convertCommand(),
			searchCommand(),
			wordsCommand(),
			wordCommand(),
			indexCommand(),
			serveCommand(),
			versionCommand(),
		},
	}
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	if path := cmd.String("config"); path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// loadApp reads the configuration and wires the app.
func loadApp(ctx context.Context, cmd *cli.Command) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := app.NewLogger(cfg.Log)

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	return a, nil
}
