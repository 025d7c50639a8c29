package recall

import (
	"context"

	"github.com/rushteam/playful/core"
)

// Source 表示一个召回源：根据请求上下文生成有序候选。
// 实现同时满足 pipeline.Node 时可以直接作为 Pipeline 的第一个节点。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}
