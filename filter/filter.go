package filter

import (
	"context"

	"github.com/rushteam/playful/core"
)

// Filter 是过滤器的抽象接口，用于判断一个候选物品是否应该被剔除。
// 返回 true 表示应该过滤（移除），false 表示保留。
//
// 实现必须是 O(1) 的查表判断，且只读共享状态，可被多个请求并发调用。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断 item 是否应该被过滤
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error)
}
