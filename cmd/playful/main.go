package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/rushteam/playful/config"
	_ "github.com/rushteam/playful/config/builders"
	"github.com/rushteam/playful/pkg/logging"
)

var version = "dev"

func main() {
	if err := run(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	// .env 不存在时忽略
	_ = godotenv.Load()

	var (
		configPath string
		logLevel   string
		logFormat  string
		cfg        *config.Config
	)

	app := &cli.Command{
		Name:    "playful",
		Usage:   "item-to-item game recommendations from a precomputed similarity matrix",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to YAML config file",
				Sources:     cli.EnvVars(config.ConfigPathEnvVar),
				Destination: &configPath,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Destination: &logLevel,
			},
			&cli.StringFlag{
				Name:        "log-format",
				Usage:       "log format (json, console)",
				Destination: &logFormat,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			loaded, err := config.Load(configPath)
			if err != nil {
				return ctx, err
			}
			if logLevel != "" {
				loaded.Log.Level = logLevel
			}
			if logFormat != "" {
				loaded.Log.Format = logFormat
			}
			logging.Init(loaded.Log)
			cfg = loaded
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdServe(&cfg),
			cmdRecommend(&cfg),
			cmdBuildMatrix(&cfg),
			cmdValidate(&cfg),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logging.Err(err).Msg("playful failed")
		return err
	}
	return nil
}
