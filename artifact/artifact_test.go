package artifact

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/playful/core"
	"github.com/rushteam/playful/store"
)

const itemsJSON = `[
	{"index": 0, "id": 10, "name": "Alpha"},
	{"index": 1, "id": 20, "name": "Beta"},
	{"index": 2, "id": 30, "name": "Gamma"}
]`

const embeddingsJSON = `[[1, 0], [0.8, 0.6], [0, 1]]`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestBootstrap_FromEmbeddings(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"items.json":      itemsJSON,
		"embeddings.json": embeddingsJSON,
	})

	engine, err := Bootstrap(context.Background(), NewFileLoader(dir))
	if err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	if engine.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", engine.Len())
	}
	if got := engine.Matrix.At(0, 1); got < 0.8-1e-9 || got > 0.8+1e-9 {
		t.Errorf("At(0,1) = %v, want 0.8", got)
	}
	name, err := engine.Catalog.Name(20)
	if err != nil || name != "Beta" {
		t.Errorf("Name(20) = %q, %v", name, err)
	}
}

func TestBuildMatrix_ThenBootstrapFromSimilarity(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"items.json":      itemsJSON,
		"embeddings.json": embeddingsJSON,
	})
	l := NewFileLoader(dir)

	built, err := BuildMatrix(context.Background(), l, l)
	if err != nil {
		t.Fatalf("BuildMatrix() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "similarity.json")); err != nil {
		t.Fatalf("similarity.json not written: %v", err)
	}

	// 删除 embedding 后仍可从预计算矩阵启动
	if err := os.Remove(filepath.Join(dir, "embeddings.json")); err != nil {
		t.Fatal(err)
	}
	m, source, err := LoadMatrix(context.Background(), l)
	if err != nil {
		t.Fatalf("LoadMatrix() error = %v", err)
	}
	if source != NameSimilarity {
		t.Errorf("source = %q, want %q", source, NameSimilarity)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if m.At(i, j) != built.At(i, j) {
				t.Errorf("At(%d,%d) = %v, want %v", i, j, m.At(i, j), built.At(i, j))
			}
		}
	}
}

func TestBootstrap_Errors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		check func(error) bool
	}{
		{
			name:  "no mappings",
			files: map[string]string{"embeddings.json": embeddingsJSON},
			check: core.IsNotFound,
		},
		{
			name:  "no matrix",
			files: map[string]string{"items.json": itemsJSON},
			check: core.IsNotFound,
		},
		{
			name: "degenerate embedding",
			files: map[string]string{
				"items.json":      itemsJSON,
				"embeddings.json": `[[1, 0], [0, 0], [0, 1]]`,
			},
			check: core.IsDegenerateEmbedding,
		},
		{
			name: "duplicate index",
			files: map[string]string{
				"items.json": `[{"index": 0, "id": 1, "name": "a"}, {"index": 0, "id": 2, "name": "b"}]`,
				"embeddings.json": `[[1, 0], [0, 1]]`,
			},
			check: core.IsMappingInconsistency,
		},
		{
			name: "size mismatch",
			files: map[string]string{
				"items.json":      itemsJSON,
				"embeddings.json": `[[1, 0], [0, 1]]`,
			},
			check: core.IsMappingInconsistency,
		},
		{
			name: "malformed json",
			files: map[string]string{
				"items.json":      itemsJSON,
				"embeddings.json": `[[1, 0`,
			},
			check: core.IsInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeFiles(t, tt.files)
			_, err := Bootstrap(context.Background(), NewFileLoader(dir))
			if err == nil {
				t.Fatal("Bootstrap() succeeded, want error")
			}
			if !tt.check(err) {
				t.Errorf("Bootstrap() error = %v, wrong kind", err)
			}
		})
	}
}

func TestFileLoader_MappingsJSON(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"mappings.json": `{
			"id_to_name": {"10": "Alpha", "20": "Beta"},
			"name_to_id": {"Alpha": 10, "Beta": 20},
			"id_to_index": {"10": 0, "20": 1},
			"index_to_id": {"0": 10, "1": 20}
		}`,
		"similarity.json": `[[1, 0.5], [0.5, 1]]`,
	})

	engine, err := Bootstrap(context.Background(), NewFileLoader(dir))
	if err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	idx, err := engine.Catalog.Index(20)
	if err != nil || idx != 1 {
		t.Errorf("Index(20) = %d, %v", idx, err)
	}
}

func TestStoreLoader(t *testing.T) {
	ctx := context.Background()
	dir := writeFiles(t, map[string]string{
		"items.json":      itemsJSON,
		"embeddings.json": embeddingsJSON,
	})

	mem := store.NewMemoryStore()
	defer mem.Close()
	l := NewStoreLoader(mem, "")

	if _, err := Bootstrap(ctx, l); !core.IsNotFound(err) {
		t.Fatalf("Bootstrap() on empty store error = %v, want NOT_FOUND", err)
	}

	if err := l.Copy(ctx, NewFileLoader(dir)); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if _, err := mem.Get(ctx, "artifact:mappings"); err != nil {
		t.Errorf("artifact:mappings missing: %v", err)
	}

	if _, err := BuildMatrix(ctx, l, l); err != nil {
		t.Fatalf("BuildMatrix() error = %v", err)
	}
	_, source, err := LoadMatrix(ctx, l)
	if err != nil || source != NameSimilarity {
		t.Errorf("LoadMatrix() = %q, %v", source, err)
	}

	engine, err := Bootstrap(ctx, l)
	if err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	if id, _ := engine.Catalog.IDAt(2); id != 30 {
		t.Errorf("IDAt(2) = %d, want 30", id)
	}
}

func TestStoreLoader_CopyDropsStaleMatrix(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	defer mem.Close()
	l := NewStoreLoader(mem, "")

	// 旧的 2x2 矩阵与新导入的 3 个物品不一致
	if err := mem.Set(ctx, l.Key(NameSimilarity), []byte(`[[1, 0.5], [0.5, 1]]`)); err != nil {
		t.Fatal(err)
	}

	dir := writeFiles(t, map[string]string{
		"items.json":      itemsJSON,
		"embeddings.json": embeddingsJSON,
	})
	if err := l.Copy(ctx, NewFileLoader(dir)); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if _, err := mem.Get(ctx, l.Key(NameSimilarity)); !core.IsStoreNotFound(err) {
		t.Errorf("stale similarity still present: %v", err)
	}
	if _, err := mem.Get(ctx, l.Key(NameEmbeddings)); err != nil {
		t.Errorf("embeddings missing: %v", err)
	}

	_, source, err := LoadMatrix(ctx, l)
	if err != nil || source != NameEmbeddings {
		t.Errorf("LoadMatrix() = %q, %v, want embeddings", source, err)
	}
}
