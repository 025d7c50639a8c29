package main

import (
	"context"
	"fmt"

	"github.com/rushteam/playful/artifact"
	"github.com/rushteam/playful/config"
	"github.com/rushteam/playful/core"
	"github.com/rushteam/playful/filter"
	"github.com/rushteam/playful/pkg/logging"
	"github.com/rushteam/playful/recommend"
	"github.com/rushteam/playful/store"
)

// openStore 在配置了 Redis 时连接 Redis，否则使用进程内存储。
func openStore(ctx context.Context, cfg *config.Config) (core.KeyValueStore, error) {
	if cfg.Redis.Addr == "" {
		if cfg.Artifact.Source == config.ArtifactSourceRedis {
			return nil, fmt.Errorf("artifact source redis requires redis.addr")
		}
		return store.NewMemoryStore(), nil
	}
	s, err := store.NewRedisStore(ctx, store.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}
	logging.Info().Str("addr", cfg.Redis.Addr).Int("db", cfg.Redis.DB).Msg("redis connected")
	return s, nil
}

// artifactLoader 是同时可读写的产物来源。
type artifactLoader interface {
	artifact.Loader
	artifact.Writer
}

func newLoader(cfg *config.Config, kv core.Store) artifactLoader {
	if cfg.Artifact.Source == config.ArtifactSourceFile {
		return artifact.NewFileLoader(cfg.Artifact.Dir)
	}
	return artifact.NewStoreLoader(kv, cfg.Artifact.KeyPrefix)
}

// newComposer 合并配置与 Store 中的黑名单，构建配置的额外过滤节点，并创建 Composer。
func newComposer(ctx context.Context, cfg *config.Config, kv core.Store, engine *recommend.Engine) (*recommend.Composer, error) {
	deny, err := filter.LoadDenylistFilter(ctx, filter.NewStoreAdapter(kv), cfg.Artifact.DenylistKey, cfg.Recommend.Denylist)
	if err != nil {
		return nil, fmt.Errorf("load denylist: %w", err)
	}
	nodes, err := config.BuildNodes(cfg.Recommend.Filters)
	if err != nil {
		return nil, fmt.Errorf("build filters: %w", err)
	}
	logging.Info().
		Int("denylist", deny.Len()).
		Int("filters", len(nodes)).
		Msg("filters ready")

	return recommend.NewComposer(engine, cfg.Recommend,
		recommend.WithDenylist(deny),
		recommend.WithNodes(nodes...),
	), nil
}

// bootstrap 完成启动阶段：连接存储、加载产物、构建 Composer。任何失败都终止启动。
func bootstrap(ctx context.Context, cfg *config.Config) (*recommend.Composer, core.KeyValueStore, error) {
	kv, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	engine, err := artifact.Bootstrap(ctx, newLoader(cfg, kv))
	if err != nil {
		_ = kv.Close()
		return nil, nil, err
	}
	composer, err := newComposer(ctx, cfg, kv, engine)
	if err != nil {
		_ = kv.Close()
		return nil, nil, err
	}
	return composer, kv, nil
}
