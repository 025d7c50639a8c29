package core

import "github.com/rushteam/playful/pkg/utils"

// Item 是推荐链路中的统一承载结构：候选物品（游戏）的标识、相似度分数与标签。
//
// 三种标识在 catalog 中构成双射：
//   - ID: 外部目录 ID（例如 Steam appid）
//   - Name: 展示名称
//   - Index: 相似度矩阵中的稠密下标，从 0 开始
//
// Score 用于排序决策；Labels 用于解释（例如由哪个种子物品召回）。
type Item struct {
	ID     int64
	Name   string
	Index  int
	Score  float64
	Labels map[string]utils.Label
}

func NewItem(id int64, name string, index int) *Item {
	return &Item{
		ID:     id,
		Name:   name,
		Index:  index,
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}
