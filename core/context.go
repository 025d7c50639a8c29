package core

import "github.com/rushteam/playful/pkg/utils"

// RecommendContext 承载单次请求的用户信息，贯穿每个种子的 Pipeline 透传。
// 请求结束后即丢弃，不在请求之间共享。
type RecommendContext struct {
	UserID string

	// Owned 是用户已拥有物品的使用记录（未排序）
	Owned []UsageRecord

	// Excluded 是需要从结果中排除的物品 ID 集合，通常为 Owned 的全部 ID
	Excluded map[int64]struct{}

	// Labels 是请求级标签，Composer 写入 policy=single / groups，规则过滤可通过 rctx.labels 读取
	Labels map[string]utils.Label

	// Params 请求级参数
	Params map[string]any
}

// NewRecommendContext 根据用户的已拥有记录构建请求上下文，Excluded 默认为全部已拥有物品。
func NewRecommendContext(userID string, owned []UsageRecord) *RecommendContext {
	return &RecommendContext{
		UserID:   userID,
		Owned:    owned,
		Excluded: OwnedSet(owned),
		Labels:   make(map[string]utils.Label),
		Params:   make(map[string]any),
	}
}

// IsExcluded 判断物品 ID 是否在排除集合中。
func (rctx *RecommendContext) IsExcluded(id int64) bool {
	if rctx == nil || rctx.Excluded == nil {
		return false
	}
	_, ok := rctx.Excluded[id]
	return ok
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}
