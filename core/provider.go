package core

import "context"

// OwnedItemsProvider 是用户已拥有物品的领域接口。
//
// 每次请求调用一次，返回用户的 (item_id, usage_amount) 列表，顺序无意义。
// 返回空列表是合法输入，表示无法推荐；网络超时与重试由实现方负责。
//
// 实现：
//   - steam.Client 通过 Steam Web API 获取
//   - steam.CachedProvider 在任意 Provider 外包一层 Store 缓存
type OwnedItemsProvider interface {
	OwnedItems(ctx context.Context, userID string) ([]UsageRecord, error)
}

// UserResolver 把用户输入（ID 或自定义 URL 名）解析为 Provider 可用的用户 ID。
type UserResolver interface {
	ResolveUserID(ctx context.Context, input string) (string, error)
}
