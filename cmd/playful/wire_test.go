package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/playful/artifact"
	"github.com/rushteam/playful/config"
	"github.com/rushteam/playful/core"
	"github.com/rushteam/playful/pipeline"
)

func writeArtifacts(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"items.json": `[
			{"index": 0, "id": 10, "name": "Counter-Strike"},
			{"index": 1, "id": 20, "name": "Team Fortress Classic"},
			{"index": 2, "id": 30, "name": "Day of Defeat"},
			{"index": 3, "id": 40, "name": "Deathmatch Classic"}
		]`,
		"embeddings.json": `[[1, 0], [0.9, 0.1], [0.5, 0.5], [0, 1]]`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestBootstrap_FileSource(t *testing.T) {
	cfg := config.Default()
	cfg.Artifact.Dir = writeArtifacts(t)
	cfg.Recommend.Denylist = []string{"Day of Defeat"}
	cfg.Recommend.Filters = []pipeline.NodeConfig{
		{Type: "filter.rule", Config: map[string]any{"expr": `item.name == "Deathmatch Classic"`}},
	}

	composer, kv, err := bootstrap(context.Background(), cfg)
	if err != nil {
		t.Fatalf("bootstrap() error = %v", err)
	}
	defer kv.Close()

	res, err := composer.Recommend(context.Background(), []core.UsageRecord{{ItemID: 10, Amount: 100}})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if got := res.Names(); len(got) != 1 || got[0] != "Team Fortress Classic" {
		t.Errorf("Names() = %v, want [Team Fortress Classic]", got)
	}
}

func TestBootstrap_MemorySourceWithDenylistKey(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Artifact.Source = config.ArtifactSourceMemory
	cfg.Artifact.DenylistKey = "artifact:denylist"
	cfg.Recommend.Denylist = nil

	kv, err := openStore(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer kv.Close()

	sl := artifact.NewStoreLoader(kv, cfg.Artifact.KeyPrefix)
	if err := sl.Copy(ctx, artifact.NewFileLoader(writeArtifacts(t))); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if err := kv.SAdd(ctx, "artifact:denylist", "Team Fortress Classic"); err != nil {
		t.Fatal(err)
	}

	engine, err := artifact.Bootstrap(ctx, newLoader(cfg, kv))
	if err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	composer, err := newComposer(ctx, cfg, kv, engine)
	if err != nil {
		t.Fatalf("newComposer() error = %v", err)
	}

	res, err := composer.Recommend(ctx, []core.UsageRecord{{ItemID: 10, Amount: 1}})
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range res.Names() {
		if n == "Team Fortress Classic" {
			t.Errorf("denylisted name from store recommended")
		}
	}
	if len(res.Items) != 2 {
		t.Errorf("got %v, want 2 items", res.Names())
	}
}

func TestOpenStore_RedisSourceNeedsAddr(t *testing.T) {
	cfg := config.Default()
	cfg.Artifact.Source = config.ArtifactSourceRedis
	if _, err := openStore(context.Background(), cfg); err == nil {
		t.Error("openStore() succeeded without redis.addr")
	}
}
