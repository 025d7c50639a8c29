package filter

import (
	"context"

	"github.com/goccy/go-json"

	"github.com/rushteam/playful/core"
)

// StoreAdapter 将 core.Store 适配为过滤器所需的存储接口。
type StoreAdapter struct {
	store core.Store
}

// NewStoreAdapter 创建一个 core.Store 适配器。
func NewStoreAdapter(s core.Store) *StoreAdapter {
	return &StoreAdapter{store: s}
}

// GetDenylist 从 Store 读取黑名单。
//   - 如果 Store 实现了 KeyValueStore，优先读取集合（SMembers）
//   - 否则从普通 key 读取 JSON 字符串数组
func (a *StoreAdapter) GetDenylist(ctx context.Context, key string) ([]string, error) {
	if kv, ok := a.store.(core.KeyValueStore); ok {
		members, err := kv.SMembers(ctx, key)
		if err == nil && len(members) > 0 {
			return members, nil
		}
		if err != nil && !core.IsStoreNotFound(err) && !core.IsStoreNotSupported(err) {
			return nil, err
		}
	}

	data, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, err
	}
	return names, nil
}
