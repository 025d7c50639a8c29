package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rushteam/playful/pipeline"
)

// 使用配置驱动的过滤链时，需在入口处 import _ "github.com/rushteam/playful/config/builders"
// 以触发内置 Node（filter.denylist、filter.rule、filter.owned、filter）的 init 注册。

// NodeBuilder 与 pipeline.NodeBuilder 一致：根据 config 构建 Node。
type NodeBuilder = pipeline.NodeBuilder

var (
	defaultBuilders   = make(map[string]NodeBuilder)
	defaultBuildersMu sync.RWMutex
)

// Register 注册一种 Node 的构建逻辑，例如：func init() { config.Register("filter.rule", BuildRuleNode) }
func Register(typeName string, builder NodeBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	defaultBuildersMu.Lock()
	defer defaultBuildersMu.Unlock()
	defaultBuilders[typeName] = builder
}

// SupportedTypes 返回当前已注册的 Node 类型列表（排序），用于错误提示与校验。
func SupportedTypes() []string {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	types := make([]string, 0, len(defaultBuilders))
	for t := range defaultBuilders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// DefaultFactory 返回包含所有已注册 Node 类型的 NodeFactory。
func DefaultFactory() *pipeline.NodeFactory {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	f := pipeline.NewNodeFactory()
	for typeName, builder := range defaultBuilders {
		f.Register(typeName, builder)
	}
	return f
}

// ValidateNodes 校验所有 node 类型均已注册；若有未支持类型则返回包含已支持列表的错误。
func ValidateNodes(nodes []pipeline.NodeConfig) error {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	for _, nc := range nodes {
		if _, ok := defaultBuilders[nc.Type]; !ok {
			supported := make([]string, 0, len(defaultBuilders))
			for t := range defaultBuilders {
				supported = append(supported, t)
			}
			sort.Strings(supported)
			return fmt.Errorf("unsupported node type %q (supported: %v)", nc.Type, supported)
		}
	}
	return nil
}

// ValidatePipelineConfig 校验 pipeline 配置文件中的 node 类型。
func ValidatePipelineConfig(cfg *pipeline.Config) error {
	if cfg == nil {
		return nil
	}
	return ValidateNodes(cfg.Pipeline.Nodes)
}

// BuildNodes 校验并按顺序构建一组 node。
func BuildNodes(nodes []pipeline.NodeConfig) ([]pipeline.Node, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	if err := ValidateNodes(nodes); err != nil {
		return nil, err
	}
	p, err := pipeline.BuildNodes(DefaultFactory(), nodes)
	if err != nil {
		return nil, err
	}
	return p.Nodes, nil
}
