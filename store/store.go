// Package store 提供 core.Store / core.KeyValueStore 的实现：
//   - MemoryStore: 测试、开发与离线命令使用
//   - RedisStore: 生产环境的产物存储与已拥有物品缓存
//
// 注意：此包只包含实现，接口定义在 core 包。
//
//	var s core.Store = store.NewMemoryStore()
//	var kv core.KeyValueStore = store.NewMemoryStore()
package store
