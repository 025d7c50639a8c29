package core

import "sort"

// UsageRecord 表示用户对某个已拥有物品的使用量（例如游戏时长，单位分钟）。
type UsageRecord struct {
	ItemID int64 `json:"item_id"`
	Amount int64 `json:"amount"`
}

// SortByUsage 按使用量降序返回一份新的记录列表，原切片不被修改。
// 使用量相同的记录保持输入顺序（稳定排序），以此确定种子优先级。
func SortByUsage(records []UsageRecord) []UsageRecord {
	out := make([]UsageRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount > out[j].Amount
	})
	return out
}

// OwnedSet 返回记录中所有物品 ID 的集合，用于 O(1) 的已拥有判断。
func OwnedSet(records []UsageRecord) map[int64]struct{} {
	set := make(map[int64]struct{}, len(records))
	for _, r := range records {
		set[r.ItemID] = struct{}{}
	}
	return set
}
