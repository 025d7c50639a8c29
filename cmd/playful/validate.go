package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/rushteam/playful/artifact"
	"github.com/rushteam/playful/config"
	"github.com/rushteam/playful/pkg/logging"
)

func cmdValidate(cfg **config.Config) *cli.Command {
	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "load and validate the similarity matrix, mappings and filter configuration",
		Action: func(ctx context.Context, c *cli.Command) error {
			conf := *cfg
			kv, err := openStore(ctx, conf)
			if err != nil {
				return err
			}
			defer kv.Close()

			engine, err := artifact.Bootstrap(ctx, newLoader(conf, kv))
			if err != nil {
				return fmt.Errorf("artifact validation failed: %w", err)
			}
			if _, err := newComposer(ctx, conf, kv, engine); err != nil {
				return err
			}

			for _, name := range conf.Recommend.Denylist {
				if _, err := engine.Catalog.ID(name); err != nil {
					logging.Warn().Str("name", name).Msg("denylisted name not in catalog")
				}
			}
			logging.Info().Int("items", engine.Len()).Msg("artifacts valid")
			return nil
		},
	}
}
