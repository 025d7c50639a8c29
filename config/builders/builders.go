// Package builders 注册内置的过滤 Node 构建器。
package builders

import (
	"fmt"

	"github.com/rushteam/playful/config"
	"github.com/rushteam/playful/filter"
	"github.com/rushteam/playful/pipeline"
	"github.com/rushteam/playful/pkg/conv"
)

func init() {
	config.Register("filter", BuildFilterNode)
	config.Register("filter.denylist", BuildDenylistNode)
	config.Register("filter.rule", BuildRuleNode)
	config.Register("filter.owned", BuildOwnedNode)
}

// BuildDenylistNode 构建名称黑名单过滤：
//
//	type: filter.denylist
//	config:
//	  names: ["Fallout: New Vegas"]
func BuildDenylistNode(cfg map[string]any) (pipeline.Node, error) {
	f, err := buildFilter("denylist", cfg)
	if err != nil {
		return nil, err
	}
	return &filter.FilterNode{Filters: []filter.Filter{f}}, nil
}

// BuildRuleNode 构建 CEL 规则过滤：
//
//	type: filter.rule
//	config:
//	  expr: 'item.name.contains("Soundtrack")'
func BuildRuleNode(cfg map[string]any) (pipeline.Node, error) {
	f, err := buildFilter("rule", cfg)
	if err != nil {
		return nil, err
	}
	return &filter.FilterNode{Filters: []filter.Filter{f}}, nil
}

// BuildOwnedNode 构建已拥有过滤，item_ids 为额外的静态排除 ID。
func BuildOwnedNode(cfg map[string]any) (pipeline.Node, error) {
	f, err := buildFilter("owned", cfg)
	if err != nil {
		return nil, err
	}
	return &filter.FilterNode{Filters: []filter.Filter{f}}, nil
}

// BuildFilterNode 把多个过滤器组合为一个 FilterNode：
//
//	type: filter
//	config:
//	  filters:
//	    - type: denylist
//	      names: ["Dawn of Discovery"]
//	    - type: rule
//	      expr: 'item.id == 220'
func BuildFilterNode(cfg map[string]any) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]any)
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]any)
		if !ok {
			continue
		}
		f, err := buildFilter(conv.ConfigGet(filterMap, "type", ""), filterMap)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return &filter.FilterNode{Filters: filters}, nil
}

func buildFilter(filterType string, cfg map[string]any) (filter.Filter, error) {
	switch filterType {
	case "denylist":
		names := conv.SliceAnyToString(cfg["names"])
		if len(names) == 0 {
			return nil, fmt.Errorf("denylist: names not found")
		}
		return filter.NewDenylistFilter(names), nil
	case "rule":
		expr := conv.ConfigGet(cfg, "expr", "")
		if expr == "" {
			return nil, fmt.Errorf("rule: expr not found")
		}
		return filter.NewRuleFilter(expr)
	case "owned":
		return filter.NewOwnedFilter(conv.SliceAnyToInt64(cfg["item_ids"])...), nil
	default:
		return nil, fmt.Errorf("unknown filter type: %s", filterType)
	}
}
