package filter

import (
	"context"

	"github.com/rushteam/playful/core"
	"github.com/rushteam/playful/metrics"
	"github.com/rushteam/playful/pipeline"
	"github.com/rushteam/playful/pkg/logging"
)

// FilterNode 是过滤 Node，可以组合多个过滤器进行过滤。
// 如果任何一个过滤器返回 true，该物品就会被过滤掉。
// 输出始终是输入的子序列，保持原有的相对顺序。
type FilterNode struct {
	Filters []Filter
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		if n.shouldFilter(ctx, rctx, item) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (n *FilterNode) shouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) bool {
	for _, f := range n.Filters {
		ok, err := f.ShouldFilter(ctx, rctx, item)
		if err != nil {
			// 过滤器错误时跳过该过滤器，不中断流程
			metrics.FilterErrors.WithLabelValues(f.Name()).Inc()
			logging.Ctx(ctx).Debug().
				Err(err).
				Str("filter", f.Name()).
				Int64("item_id", item.ID).
				Msg("filter failed, item kept")
			continue
		}
		if ok {
			return true
		}
	}
	return false
}
