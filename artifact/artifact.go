// Package artifact 在启动时加载离线产物（embedding / 相似度矩阵 / 映射表）并构建 Engine。
//
// 产物来源：
//   - FileLoader：目录下的 JSON 文件
//   - StoreLoader：core.Store 中的 key（Redis / 内存）
//
// 启动是唯一的串行点：任何加载或校验失败都应终止服务启动。
package artifact

import (
	"context"
	"fmt"
	"time"

	"github.com/rushteam/playful/catalog"
	"github.com/rushteam/playful/core"
	"github.com/rushteam/playful/metrics"
	"github.com/rushteam/playful/pkg/logging"
	"github.com/rushteam/playful/recommend"
	"github.com/rushteam/playful/similarity"
)

// 产物名称，FileLoader 使用 <name>.json，StoreLoader 使用 <prefix><name>。
const (
	NameEmbeddings = "embeddings"
	NameSimilarity = "similarity"
	NameMappings   = "mappings"
	NameItems      = "items"
	NameDenylist   = "denylist"
)

// Loader 读取离线产物。产物不存在时返回 IsNotFound 为 true 的错误。
type Loader interface {
	// LoadEmbeddings 返回 N×D 的 embedding
	LoadEmbeddings(ctx context.Context) ([][]float64, error)

	// LoadSimilarity 返回预先计算好的 N×N 相似度矩阵
	LoadSimilarity(ctx context.Context) ([][]float64, error)

	// LoadMappings 返回 id/name/index 映射表
	LoadMappings(ctx context.Context) (catalog.Mappings, error)
}

// Writer 写回离线产物。
type Writer interface {
	SaveSimilarity(ctx context.Context, m *similarity.Matrix) error
	SaveMappings(ctx context.Context, c *catalog.Catalog) error
}

func notFound(name string) error {
	return core.NewDomainError(core.ModuleArtifact, core.ErrorCodeNotFound,
		fmt.Sprintf("artifact %q not found", name))
}

func invalid(name string, err error) error {
	return core.NewDomainError(core.ModuleArtifact, core.ErrorCodeInvalidInput,
		fmt.Sprintf("artifact %q: %v", name, err))
}

// Bootstrap 加载映射表与相似度矩阵并构建 Engine。
// 优先使用预先计算的相似度矩阵；不存在时由 embedding 现场计算。
func Bootstrap(ctx context.Context, loader Loader) (*recommend.Engine, error) {
	start := time.Now()

	mappings, err := loader.LoadMappings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load mappings: %w", err)
	}
	cat, err := catalog.New(mappings)
	if err != nil {
		return nil, fmt.Errorf("validate mappings: %w", err)
	}

	m, source, err := LoadMatrix(ctx, loader)
	if err != nil {
		return nil, err
	}

	engine, err := recommend.NewEngine(m, cat)
	if err != nil {
		return nil, err
	}

	metrics.CatalogSize.Set(float64(cat.Len()))
	logging.Info().
		Int("items", cat.Len()).
		Str("matrix_source", source).
		Dur("elapsed", time.Since(start)).
		Msg("artifacts loaded")
	return engine, nil
}

// LoadMatrix 返回相似度矩阵及其来源（similarity / embeddings）。
func LoadMatrix(ctx context.Context, loader Loader) (*similarity.Matrix, string, error) {
	rows, err := loader.LoadSimilarity(ctx)
	switch {
	case err == nil:
		m, err := similarity.FromRows(rows)
		if err != nil {
			return nil, "", fmt.Errorf("validate similarity: %w", err)
		}
		return m, NameSimilarity, nil
	case !core.IsNotFound(err):
		return nil, "", fmt.Errorf("load similarity: %w", err)
	}

	emb, err := loader.LoadEmbeddings(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("load embeddings: %w", err)
	}
	m, err := similarity.Build(ctx, emb)
	if err != nil {
		return nil, "", fmt.Errorf("build similarity: %w", err)
	}
	return m, NameEmbeddings, nil
}

// BuildMatrix 由 embedding 计算相似度矩阵并写回，供离线构建使用。
func BuildMatrix(ctx context.Context, loader Loader, w Writer) (*similarity.Matrix, error) {
	emb, err := loader.LoadEmbeddings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load embeddings: %w", err)
	}
	m, err := similarity.Build(ctx, emb)
	if err != nil {
		return nil, fmt.Errorf("build similarity: %w", err)
	}
	if err := w.SaveSimilarity(ctx, m); err != nil {
		return nil, fmt.Errorf("save similarity: %w", err)
	}
	return m, nil
}
