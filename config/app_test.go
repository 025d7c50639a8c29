package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/rushteam/playful/pipeline"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Recommend.TopK != 12 || cfg.Recommend.Groups != 3 || cfg.Recommend.PerGroup != 4 {
		t.Errorf("Recommend = %+v", cfg.Recommend)
	}
	if cfg.Artifact.Source != ArtifactSourceFile {
		t.Errorf("Artifact.Source = %q", cfg.Artifact.Source)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "playful.yaml")
	err := os.WriteFile(path, []byte(`
server:
  addr: ":9090"
artifact:
  source: memory
steam:
  cache_ttl: 30s
recommend:
  top_k: 6
  denylist: ["A", "B"]
`), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	t.Setenv("PLAYFUL_STEAM_API_KEY", "secret")
	t.Setenv("PLAYFUL_RECOMMEND_PER_GROUP", "2")
	t.Setenv("PLAYFUL_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want default", cfg.Server.ReadTimeout)
	}
	if cfg.Artifact.Source != ArtifactSourceMemory {
		t.Errorf("Artifact.Source = %q", cfg.Artifact.Source)
	}
	if cfg.Steam.APIKey != "secret" {
		t.Errorf("Steam.APIKey = %q", cfg.Steam.APIKey)
	}
	if cfg.Steam.CacheTTL != 30*time.Second {
		t.Errorf("Steam.CacheTTL = %v", cfg.Steam.CacheTTL)
	}
	if cfg.Recommend.TopK != 6 || cfg.Recommend.PerGroup != 2 || cfg.Recommend.Groups != 3 {
		t.Errorf("Recommend = %+v", cfg.Recommend)
	}
	if !reflect.DeepEqual(cfg.Recommend.Denylist, []string{"A", "B"}) {
		t.Errorf("Recommend.Denylist = %v", cfg.Recommend.Denylist)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoad_DenylistFromEnv(t *testing.T) {
	t.Setenv("PLAYFUL_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("PLAYFUL_RECOMMEND_DENYLIST", "Fallout: New Vegas, Portal")
	t.Setenv("PLAYFUL_ARTIFACT_SOURCE", "memory")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if want := []string{"Fallout: New Vegas", "Portal"}; !reflect.DeepEqual(cfg.Recommend.Denylist, want) {
		t.Errorf("Recommend.Denylist = %v, want %v", cfg.Recommend.Denylist, want)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := map[string]string{
		"PLAYFUL_SERVER_ADDR":              "server.addr",
		"PLAYFUL_STEAM_API_KEY":            "steam.api_key",
		"PLAYFUL_RECOMMEND_GROUP_THRESHOLD": "recommend.group_threshold",
		"PLAYFUL_CONFIG":                   "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"unknown source", func(c *Config) { c.Artifact.Source = "s3" }},
		{"file without dir", func(c *Config) { c.Artifact.Dir = "" }},
		{"redis without addr", func(c *Config) { c.Artifact.Source = ArtifactSourceRedis }},
		{"negative top_k", func(c *Config) { c.Recommend.TopK = -1 }},
		{"unknown filter", func(c *Config) {
			c.Recommend.Filters = []pipeline.NodeConfig{{Type: "rank.lr"}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() succeeded, want error")
			}
		})
	}
}
