package rerank

import (
	"context"

	"github.com/rushteam/playful/core"
	"github.com/rushteam/playful/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在过滤/去重后截取前 N 个物品。
//
// 使用场景：
//   - 单种子策略：截取 Top K（默认 12）
//   - 多种子策略：每个种子截取 R 个（默认 4）
//
// 物品不足 N 个时原样返回，不做补齐。
type TopNNode struct {
	// N 要保留的物品数量（Top N）
	// 如果 N <= 0，则返回所有物品（不截断）
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.N <= 0 || len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}
