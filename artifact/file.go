package artifact

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/rushteam/playful/catalog"
	"github.com/rushteam/playful/similarity"
)

// FileLoader 从目录读取 JSON 产物：
//
//	<dir>/embeddings.json  [[0.1, 0.2, ...], ...]
//	<dir>/similarity.json  [[1.0, 0.3, ...], ...]   可选
//	<dir>/mappings.json    {"id_to_name": {...}, "name_to_id": {...}, ...}
//	<dir>/items.json       [{"index": 0, "id": 10, "name": "..."}, ...]   mappings.json 不存在时使用
type FileLoader struct {
	Dir string
}

func NewFileLoader(dir string) *FileLoader {
	return &FileLoader{Dir: dir}
}

func (l *FileLoader) path(name string) string {
	return filepath.Join(l.Dir, name+".json")
}

func (l *FileLoader) read(name string, v any) error {
	data, err := os.ReadFile(l.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return notFound(name)
		}
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return invalid(name, err)
	}
	return nil
}

func (l *FileLoader) LoadEmbeddings(_ context.Context) ([][]float64, error) {
	var rows [][]float64
	if err := l.read(NameEmbeddings, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (l *FileLoader) LoadSimilarity(_ context.Context) ([][]float64, error) {
	var rows [][]float64
	if err := l.read(NameSimilarity, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (l *FileLoader) LoadMappings(_ context.Context) (catalog.Mappings, error) {
	var m catalog.Mappings
	err := l.read(NameMappings, &m)
	if err == nil {
		return m, nil
	}
	if !isNotFound(err) {
		return catalog.Mappings{}, err
	}

	var entries []catalog.Entry
	if err := l.read(NameItems, &entries); err != nil {
		return catalog.Mappings{}, err
	}
	return catalog.MappingsFromEntries(entries), nil
}

// SaveSimilarity 把矩阵写入 <dir>/similarity.json。
func (l *FileLoader) SaveSimilarity(_ context.Context, m *similarity.Matrix) error {
	return l.write(NameSimilarity, m.Rows())
}

// SaveMappings 把目录写入 <dir>/items.json。
func (l *FileLoader) SaveMappings(_ context.Context, c *catalog.Catalog) error {
	return l.write(NameItems, c.Entries())
}

func (l *FileLoader) write(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return err
	}
	tmp := l.path(name) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, l.path(name))
}
