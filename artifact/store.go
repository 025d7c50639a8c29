package artifact

import (
	"context"

	"github.com/goccy/go-json"

	"github.com/rushteam/playful/catalog"
	"github.com/rushteam/playful/core"
	"github.com/rushteam/playful/similarity"
)

// DefaultKeyPrefix 是 StoreLoader 默认的 key 前缀。
const DefaultKeyPrefix = "artifact:"

// StoreLoader 从 core.Store 读取 JSON 编码的产物，key 为 <Prefix><name>，
// 例如 artifact:embeddings、artifact:mappings。
type StoreLoader struct {
	Store  core.Store
	Prefix string
}

func NewStoreLoader(s core.Store, prefix string) *StoreLoader {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &StoreLoader{Store: s, Prefix: prefix}
}

// Key 返回产物对应的 key。
func (l *StoreLoader) Key(name string) string {
	return l.Prefix + name
}

func (l *StoreLoader) read(ctx context.Context, name string, v any) error {
	data, err := l.Store.Get(ctx, l.Key(name))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return notFound(name)
		}
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return invalid(name, err)
	}
	return nil
}

func (l *StoreLoader) LoadEmbeddings(ctx context.Context) ([][]float64, error) {
	var rows [][]float64
	if err := l.read(ctx, NameEmbeddings, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (l *StoreLoader) LoadSimilarity(ctx context.Context) ([][]float64, error) {
	var rows [][]float64
	if err := l.read(ctx, NameSimilarity, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (l *StoreLoader) LoadMappings(ctx context.Context) (catalog.Mappings, error) {
	var m catalog.Mappings
	err := l.read(ctx, NameMappings, &m)
	if err == nil {
		return m, nil
	}
	if !isNotFound(err) {
		return catalog.Mappings{}, err
	}

	var entries []catalog.Entry
	if err := l.read(ctx, NameItems, &entries); err != nil {
		return catalog.Mappings{}, err
	}
	return catalog.MappingsFromEntries(entries), nil
}

func (l *StoreLoader) SaveSimilarity(ctx context.Context, m *similarity.Matrix) error {
	return l.write(ctx, NameSimilarity, m.Rows())
}

func (l *StoreLoader) SaveMappings(ctx context.Context, c *catalog.Catalog) error {
	return l.write(ctx, NameItems, c.Entries())
}

func (l *StoreLoader) write(ctx context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return l.Store.Set(ctx, l.Key(name), data)
}

// Copy 把 src 中的映射表、embedding 与相似度矩阵一次性写入 Store，用于把文件产物导入 Redis。
// src 中不存在的 embedding / 相似度矩阵会从 Store 中删除，避免旧矩阵与新映射表不一致。
func (l *StoreLoader) Copy(ctx context.Context, src Loader) error {
	m, err := src.LoadMappings(ctx)
	if err != nil {
		return err
	}
	kvs := make(map[string][]byte, 3)
	if kvs[l.Key(NameMappings)], err = json.Marshal(m); err != nil {
		return err
	}

	var stale []string
	optional := []struct {
		name string
		load func(context.Context) ([][]float64, error)
	}{
		{NameEmbeddings, src.LoadEmbeddings},
		{NameSimilarity, src.LoadSimilarity},
	}
	for _, o := range optional {
		rows, err := o.load(ctx)
		switch {
		case err == nil:
			if kvs[l.Key(o.name)], err = json.Marshal(rows); err != nil {
				return err
			}
		case isNotFound(err):
			stale = append(stale, l.Key(o.name))
		default:
			return err
		}
	}

	if err := l.Store.BatchSet(ctx, kvs); err != nil {
		return err
	}
	for _, key := range stale {
		if err := l.Store.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func isNotFound(err error) bool {
	d := core.GetDomainError(err)
	return d != nil && d.Module == core.ModuleArtifact && d.Code == core.ErrorCodeNotFound
}
