// Package config 加载应用配置，并维护配置驱动的过滤 Node 注册表。
//
// 配置按以下顺序叠加，后者覆盖前者：
//  1. 结构体默认值
//  2. YAML 配置文件（可选）
//  3. PLAYFUL_ 前缀的环境变量，例如 PLAYFUL_STEAM_API_KEY -> steam.api_key
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/rushteam/playful/pkg/logging"
	"github.com/rushteam/playful/recommend"
	"github.com/rushteam/playful/steam"
)

const (
	// EnvPrefix 是环境变量前缀
	EnvPrefix = "PLAYFUL_"

	// ConfigPathEnvVar 指定配置文件路径
	ConfigPathEnvVar = "PLAYFUL_CONFIG"
)

// DefaultConfigPaths 是未指定路径时依次查找的配置文件。
var DefaultConfigPaths = []string{
	"playful.yaml",
	"config/playful.yaml",
	"/etc/playful/playful.yaml",
}

// Artifact 来源
const (
	ArtifactSourceFile   = "file"
	ArtifactSourceRedis  = "redis"
	ArtifactSourceMemory = "memory"
)

// Config 是应用配置。
type Config struct {
	Server    ServerConfig     `koanf:"server"`
	Log       logging.Config   `koanf:"log"`
	Artifact  ArtifactConfig   `koanf:"artifact"`
	Redis     RedisConfig      `koanf:"redis"`
	Steam     steam.Config     `koanf:"steam"`
	Recommend recommend.Config `koanf:"recommend"`
}

// ServerConfig 是 HTTP 服务配置。
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// ArtifactConfig 是离线产物配置。
type ArtifactConfig struct {
	// Source: file / redis / memory
	Source string `koanf:"source"`

	// Dir 是 file 来源的目录
	Dir string `koanf:"dir"`

	// KeyPrefix 是 redis / memory 来源的 key 前缀
	KeyPrefix string `koanf:"key_prefix"`

	// DenylistKey 是 Store 中名称黑名单集合的 key，为空时只使用 recommend.denylist
	DenylistKey string `koanf:"denylist_key"`
}

// RedisConfig 是 Redis 连接配置，Addr 为空时不使用 Redis。
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// Default 返回默认配置。
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			RequestTimeout:  10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Log: logging.Config{
			Level:  "info",
			Format: "json",
		},
		Artifact: ArtifactConfig{
			Source:    ArtifactSourceFile,
			Dir:       "data",
			KeyPrefix: "artifact:",
		},
		Steam:     steam.DefaultConfig(),
		Recommend: recommend.DefaultConfig(),
	}
}

// Load 加载配置。path 为空时使用 PLAYFUL_CONFIG 或 DefaultConfigPaths 中第一个存在的文件。
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envTransformFunc 把环境变量名映射为配置路径：
//
//	PLAYFUL_SERVER_ADDR        -> server.addr
//	PLAYFUL_STEAM_API_KEY      -> steam.api_key
//	PLAYFUL_RECOMMEND_TOP_K    -> recommend.top_k
//
// 第一个下划线分隔配置段，其余保留为字段名。
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	if key == "config" {
		return ""
	}
	section, field, ok := strings.Cut(key, "_")
	if !ok {
		return key
	}
	return section + "." + field
}

// sliceConfigPaths 中的路径允许用逗号分隔的字符串（来自环境变量）表示列表。
var sliceConfigPaths = []string{
	"recommend.denylist",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if err := k.Set(path, out); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// Validate 校验配置。
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	switch c.Artifact.Source {
	case ArtifactSourceFile:
		if c.Artifact.Dir == "" {
			errs = append(errs, errors.New("artifact.dir is required for file source"))
		}
	case ArtifactSourceRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("redis.addr is required for redis artifact source"))
		}
	case ArtifactSourceMemory:
	default:
		errs = append(errs, fmt.Errorf("artifact.source %q must be one of file, redis, memory", c.Artifact.Source))
	}
	if c.Recommend.TopK < 0 || c.Recommend.Groups < 0 || c.Recommend.PerGroup < 0 || c.Recommend.GroupThreshold < 0 {
		errs = append(errs, errors.New("recommend sizes must not be negative"))
	}
	if c.Steam.RPS < 0 {
		errs = append(errs, errors.New("steam.rps must not be negative"))
	}
	if err := ValidateNodes(c.Recommend.Filters); err != nil {
		errs = append(errs, fmt.Errorf("recommend.filters: %w", err))
	}
	return errors.Join(errs...)
}
