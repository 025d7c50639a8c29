package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/rushteam/playful/artifact"
	"github.com/rushteam/playful/config"
	"github.com/rushteam/playful/pkg/logging"
)

func cmdBuildMatrix(cfg **config.Config) *cli.Command {
	var importDir string

	return &cli.Command{
		Name:  "build-matrix",
		Usage: "compute the similarity matrix from embeddings and write it back to the artifact source",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "import-dir",
				Usage:       "copy JSON artifacts from this directory into the store before building (redis/memory sources)",
				Destination: &importDir,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			conf := *cfg
			kv, err := openStore(ctx, conf)
			if err != nil {
				return err
			}
			defer kv.Close()

			loader := newLoader(conf, kv)
			if sl, ok := loader.(*artifact.StoreLoader); ok && importDir != "" {
				if err := sl.Copy(ctx, artifact.NewFileLoader(importDir)); err != nil {
					return err
				}
				logging.Info().Str("dir", importDir).Msg("artifacts imported")
			}

			m, err := artifact.BuildMatrix(ctx, loader, loader)
			if err != nil {
				return err
			}
			logging.Info().
				Int("items", m.Len()).
				Str("source", conf.Artifact.Source).
				Msg("similarity matrix written")
			return nil
		},
	}
}
