// Package similarity 负责把物品 embedding 转换为稠密的物品-物品余弦相似度矩阵。
//
// 矩阵在启动时构建一次，之后只读，可在任意数量的请求间并发共享，无需加锁。
package similarity

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/playful/core"
)

// Tolerance 是对称性、对角线等校验使用的浮点误差容忍度。
const Tolerance = 1e-6

// Matrix 是 N×N 的余弦相似度矩阵，按行主序存放。
// 不变量：对称、对角线为 1、所有元素位于 [-1, 1]。
type Matrix struct {
	n    int
	data []float64
}

// Len 返回物品数量 N。
func (m *Matrix) Len() int {
	if m == nil {
		return 0
	}
	return m.n
}

// At 返回 (i, j) 处的相似度，调用方保证下标合法。
func (m *Matrix) At(i, j int) float64 {
	return m.data[i*m.n+j]
}

// Row 返回第 i 行的只读视图。调用方不得修改返回的切片。
func (m *Matrix) Row(i int) ([]float64, error) {
	if i < 0 || i >= m.Len() {
		return nil, core.NewUnknownItemError("index", i)
	}
	return m.data[i*m.n : (i+1)*m.n : (i+1)*m.n], nil
}

// Rows 返回矩阵的二维拷贝，用于序列化回产物存储。
func (m *Matrix) Rows() [][]float64 {
	out := make([][]float64, m.n)
	for i := range out {
		row := make([]float64, m.n)
		copy(row, m.data[i*m.n:(i+1)*m.n])
		out[i] = row
	}
	return out
}

// Build 由 N×D 的 embedding 计算余弦相似度矩阵。
//
// 先计算点积矩阵 E·Eᵗ，再用 sqrt(diag[i]) 对第 i 行、第 i 列归一化。
// 任意 embedding 范数为 0 或含 NaN/Inf 时返回 DEGENERATE_EMBEDDING，不会输出 NaN。
// 行之间的点积用 errgroup 并行计算，ctx 取消时提前返回。
func Build(ctx context.Context, embeddings [][]float64) (*Matrix, error) {
	n := len(embeddings)
	if n == 0 {
		return nil, core.NewDomainError(core.ModuleSimilarity, core.ErrorCodeInvalidInput, "similarity: no embeddings")
	}
	dim := len(embeddings[0])
	if dim == 0 {
		return nil, core.NewDomainError(core.ModuleSimilarity, core.ErrorCodeInvalidInput, "similarity: zero-dimension embeddings")
	}

	norms := make([]float64, n)
	for i, vec := range embeddings {
		if len(vec) != dim {
			return nil, core.NewDomainError(core.ModuleSimilarity, core.ErrorCodeInvalidInput,
				fmt.Sprintf("similarity: embedding %d has dimension %d, want %d", i, len(vec), dim))
		}
		sq := dot(vec, vec)
		switch {
		case math.IsNaN(sq) || math.IsInf(sq, 0):
			return nil, core.NewDegenerateEmbeddingError(i, "non-finite values")
		case sq == 0:
			return nil, core.NewDegenerateEmbeddingError(i, "zero norm")
		}
		norms[i] = math.Sqrt(sq)
	}

	m := &Matrix{n: n, data: make([]float64, n*n)}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < n; i++ {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			// 只计算上三角（含对角线），下三角镜像写入，保证严格对称。
			// 不同 i 写入的格子互不重叠。
			m.data[i*n+i] = 1
			for j := i + 1; j < n; j++ {
				v := clamp(dot(embeddings[i], embeddings[j]) / (norms[i] * norms[j]))
				m.data[i*n+j] = v
				m.data[j*n+i] = v
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}

// FromRows 校验并包装一个预先构建好的相似度矩阵（例如来自产物存储）。
// 预构建矩阵同样须满足 Build 的全部保证：方阵、有限值、对称、对角线为 1。
func FromRows(rows [][]float64) (*Matrix, error) {
	n := len(rows)
	if n == 0 {
		return nil, core.NewDomainError(core.ModuleSimilarity, core.ErrorCodeInvalidInput, "similarity: empty matrix")
	}
	m := &Matrix{n: n, data: make([]float64, n*n)}
	for i, row := range rows {
		if len(row) != n {
			return nil, core.NewDomainError(core.ModuleSimilarity, core.ErrorCodeInvalidInput,
				fmt.Sprintf("similarity: row %d has %d columns, want %d", i, len(row), n))
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, core.NewDegenerateEmbeddingError(i, fmt.Sprintf("non-finite similarity at column %d", j))
			}
			if v > 1+Tolerance || v < -1-Tolerance {
				return nil, core.NewDomainError(core.ModuleSimilarity, core.ErrorCodeInvalidInput,
					fmt.Sprintf("similarity: (%d,%d)=%v out of [-1, 1]", i, j, v))
			}
			m.data[i*n+j] = clamp(v)
		}
	}
	for i := 0; i < n; i++ {
		if math.Abs(m.At(i, i)-1) > Tolerance {
			return nil, core.NewDomainError(core.ModuleSimilarity, core.ErrorCodeInvalidInput,
				fmt.Sprintf("similarity: diagonal (%d,%d)=%v, want 1", i, i, m.At(i, i)))
		}
		for j := i + 1; j < n; j++ {
			if math.Abs(m.At(i, j)-m.At(j, i)) > Tolerance {
				return nil, core.NewDomainError(core.ModuleSimilarity, core.ErrorCodeInvalidInput,
					fmt.Sprintf("similarity: not symmetric at (%d,%d)", i, j))
			}
		}
	}
	return m, nil
}

func dot(a, b []float64) float64 {
	var sum float64
	for k := range a {
		sum += a[k] * b[k]
	}
	return sum
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
