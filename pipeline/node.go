package pipeline

import (
	"context"

	"github.com/rushteam/playful/core"
)

// Kind 用于标记 Node 类型，方便观测/编排（例如按阶段打点）。
type Kind string

const (
	KindRecall      Kind = "recall"      // 召回阶段：按种子物品生成相似度排序的候选
	KindFilter      Kind = "filter"      // 过滤阶段：剔除已拥有、黑名单等候选
	KindReRank      Kind = "rerank"      // 重排阶段：跨种子去重、截断
	KindPostProcess Kind = "postprocess" // 后处理阶段：结果修饰
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 items -> 输出 items”的形态，方便 Recall 生成、Filter 剔除、ReRank 截断等操作。
// Node 必须是无副作用的：同样的输入得到同样的输出，且可被多个请求并发调用。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		items []*core.Item,
	) ([]*core.Item, error)
}

// NodeBuilder 根据配置构建 Node。
type NodeBuilder func(config map[string]any) (Node, error)
