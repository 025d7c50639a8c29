package recommend

import (
	"github.com/rushteam/playful/core"
	"github.com/rushteam/playful/pipeline"
)

// Config 是推荐组合的参数。
type Config struct {
	// TopK 单种子策略的推荐数量
	TopK int `koanf:"top_k" yaml:"top_k" json:"top_k"`

	// Groups 多种子策略的种子数量 G
	Groups int `koanf:"groups" yaml:"groups" json:"groups"`

	// PerGroup 每个种子贡献的推荐数量 R
	PerGroup int `koanf:"per_group" yaml:"per_group" json:"per_group"`

	// GroupThreshold 已拥有物品数达到该值时使用多种子策略
	GroupThreshold int `koanf:"group_threshold" yaml:"group_threshold" json:"group_threshold"`

	// Parallel 为 true 时各种子的召回 + 过滤并发执行
	Parallel bool `koanf:"parallel" yaml:"parallel" json:"parallel"`

	// MaxConcurrent 并发执行时的最大 goroutine 数，0 表示不限制
	MaxConcurrent int `koanf:"max_concurrent" yaml:"max_concurrent" json:"max_concurrent"`

	// Denylist 名称黑名单
	Denylist []string `koanf:"denylist" yaml:"denylist" json:"denylist"`

	// Filters 额外的过滤节点配置，由 config 包的注册表构建
	Filters []pipeline.NodeConfig `koanf:"filters" yaml:"filters" json:"filters"`
}

// DefaultConfig 返回默认参数：K=12，G=3，R=4，阈值 3。
func DefaultConfig() Config {
	return ConfigFrom(&core.DefaultRecommendConfig{})
}

// ConfigFrom 用 core.RecommendConfig 提供的默认值填充 Config。
func ConfigFrom(d core.RecommendConfig) Config {
	return Config{
		TopK:           d.DefaultTopK(),
		Groups:         d.DefaultGroups(),
		PerGroup:       d.DefaultPerGroup(),
		GroupThreshold: d.DefaultGroupThreshold(),
		Parallel:       true,
		Denylist:       d.DefaultDenylist(),
	}
}

// normalize 把非正数的参数替换为默认值。
func (c Config) normalize() Config {
	d := &core.DefaultRecommendConfig{}
	if c.TopK <= 0 {
		c.TopK = d.DefaultTopK()
	}
	if c.Groups <= 0 {
		c.Groups = d.DefaultGroups()
	}
	if c.PerGroup <= 0 {
		c.PerGroup = d.DefaultPerGroup()
	}
	if c.GroupThreshold <= 0 {
		c.GroupThreshold = d.DefaultGroupThreshold()
	}
	return c
}
