// Package playful 是基于物品相似度的游戏推荐服务。
//
// 设计要点：
//   - 启动时一次性构建只读的 Engine（相似度矩阵 + 经过校验的 id/name/index 映射），请求间共享
//   - 每个种子物品的推荐通过 Node 串联：Recall → Filter → ReRank
//   - 单种子 / 多种子两种组合策略，多种子时按名称跨种子去重
package playful

import (
	"github.com/rushteam/playful/pipeline"
	"github.com/rushteam/playful/recommend"
)

// 轻量 facade：便于直接 import "playful" 使用核心抽象。
type (
	Pipeline = pipeline.Pipeline
	Node     = pipeline.Node
	Kind     = pipeline.Kind

	Engine   = recommend.Engine
	Composer = recommend.Composer
	Result   = recommend.Result
)

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)

var (
	NewEngine   = recommend.NewEngine
	NewComposer = recommend.NewComposer
)
