package filter

import (
	"context"

	"github.com/rushteam/playful/core"
)

// DenylistFilter 是名称黑名单过滤器，过滤掉展示素材已知有问题的物品。
// 黑名单是静态配置，不随相似度变化。
type DenylistFilter struct {
	names map[string]struct{}
}

// DenylistStore 是黑名单存储接口。
type DenylistStore interface {
	// GetDenylist 获取黑名单物品名称列表
	GetDenylist(ctx context.Context, key string) ([]string, error)
}

// NewDenylistFilter 创建一个名称黑名单过滤器。
func NewDenylistFilter(names []string) *DenylistFilter {
	f := &DenylistFilter{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		f.names[n] = struct{}{}
	}
	return f
}

// LoadDenylistFilter 合并静态名称与 Store 中 key 对应的名称，构建黑名单过滤器。
// 只在启动时调用一次；Store 中 key 不存在时只使用静态名称。
func LoadDenylistFilter(ctx context.Context, store DenylistStore, key string, names []string) (*DenylistFilter, error) {
	all := append([]string(nil), names...)
	if store != nil && key != "" {
		stored, err := store.GetDenylist(ctx, key)
		if err != nil && !core.IsStoreNotFound(err) {
			return nil, err
		}
		all = append(all, stored...)
	}
	return NewDenylistFilter(all), nil
}

func (f *DenylistFilter) Name() string {
	return "filter.denylist"
}

// Len 返回黑名单中的名称数量。
func (f *DenylistFilter) Len() int {
	return len(f.names)
}

func (f *DenylistFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	_, ok := f.names[item.Name]
	return ok, nil
}
