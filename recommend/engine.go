package recommend

import (
	"github.com/rushteam/playful/catalog"
	"github.com/rushteam/playful/core"
	"github.com/rushteam/playful/recall"
	"github.com/rushteam/playful/similarity"
)

// Engine 是启动时构建一次、之后只读的服务上下文：相似度矩阵 + 物品目录。
// 所有请求共享同一个 Engine，无需加锁。
type Engine struct {
	Matrix  *similarity.Matrix
	Catalog *catalog.Catalog
	Ranker  *recall.Ranker
}

// NewEngine 校验矩阵与目录的规模一致后创建 Engine。
func NewEngine(m *similarity.Matrix, c *catalog.Catalog) (*Engine, error) {
	if m == nil || c == nil {
		return nil, core.NewMappingInconsistencyError("matrix and catalog are required")
	}
	if m.Len() != c.Len() {
		return nil, core.NewMappingInconsistencyError("matrix has %d rows but catalog has %d items", m.Len(), c.Len())
	}
	return &Engine{
		Matrix:  m,
		Catalog: c,
		Ranker:  recall.NewRanker(m, c),
	}, nil
}

// Len 返回物品总数 N。
func (e *Engine) Len() int {
	return e.Catalog.Len()
}
