package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/rushteam/playful/config"
	"github.com/rushteam/playful/core"
	"github.com/rushteam/playful/steam"
)

func cmdRecommend(cfg **config.Config) *cli.Command {
	var ownedPath string
	var user string

	return &cli.Command{
		Name:  "recommend",
		Usage: "print recommendations for an owned-items file or a Steam user",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "owned",
				Usage:       `JSON file of owned items: [{"item_id": 220, "amount": 1200}, ...]`,
				Destination: &ownedPath,
			},
			&cli.StringFlag{
				Name:        "user",
				Usage:       "Steam ID or vanity URL name, fetched through the Steam Web API",
				Destination: &user,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			conf := *cfg
			if (ownedPath == "") == (user == "") {
				return fmt.Errorf("exactly one of --owned or --user is required")
			}

			composer, kv, err := bootstrap(ctx, conf)
			if err != nil {
				return err
			}
			defer kv.Close()

			var owned []core.UsageRecord
			userID := user
			if ownedPath != "" {
				data, err := os.ReadFile(ownedPath)
				if err != nil {
					return err
				}
				if err := json.Unmarshal(data, &owned); err != nil {
					return fmt.Errorf("parse %s: %w", ownedPath, err)
				}
			} else {
				client := steam.NewClient(conf.Steam, nil)
				if userID, err = client.ResolveUserID(ctx, user); err != nil {
					return err
				}
				if owned, err = client.OwnedItems(ctx, userID); err != nil {
					return err
				}
			}

			res, err := composer.RecommendFor(ctx, core.NewRecommendContext(userID, owned))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
}
