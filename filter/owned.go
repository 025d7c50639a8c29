package filter

import (
	"context"

	"github.com/rushteam/playful/core"
)

// OwnedFilter 过滤掉用户已拥有的物品（包括种子物品本身）。
// 排除集合取自 rctx.Excluded，即请求用户的全部已拥有物品，而不只是当前种子。
type OwnedFilter struct {
	// ItemIDs 是额外的静态排除集合（可选）
	ItemIDs map[int64]struct{}
}

// NewOwnedFilter 创建已拥有过滤器。
func NewOwnedFilter(extra ...int64) *OwnedFilter {
	f := &OwnedFilter{}
	if len(extra) > 0 {
		f.ItemIDs = make(map[int64]struct{}, len(extra))
		for _, id := range extra {
			f.ItemIDs[id] = struct{}{}
		}
	}
	return f
}

func (f *OwnedFilter) Name() string {
	return "filter.owned"
}

func (f *OwnedFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if rctx.IsExcluded(item.ID) {
		return true, nil
	}
	_, ok := f.ItemIDs[item.ID]
	return ok, nil
}
