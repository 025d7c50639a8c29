package recall

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/playful/catalog"
	"github.com/rushteam/playful/core"
	"github.com/rushteam/playful/pipeline"
	"github.com/rushteam/playful/similarity"
)

func testRanker(t *testing.T) *Ranker {
	t.Helper()
	m, err := similarity.FromRows([][]float64{
		{1.0, 0.8, 0.3, 0.8, -0.2},
		{0.8, 1.0, 0.5, 0.1, 0.0},
		{0.3, 0.5, 1.0, 0.4, 0.9},
		{0.8, 0.1, 0.4, 1.0, 0.2},
		{-0.2, 0.0, 0.9, 0.2, 1.0},
	})
	if err != nil {
		t.Fatalf("FromRows() error = %v", err)
	}
	entries := make([]catalog.Entry, 5)
	for i := range entries {
		entries[i] = catalog.Entry{Index: i, ID: int64(100 + i), Name: string(rune('A' + i))}
	}
	c, err := catalog.New(catalog.MappingsFromEntries(entries))
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	return NewRanker(m, c)
}

func TestRanker_Rank(t *testing.T) {
	r := testRanker(t)

	for seed := 0; seed < 5; seed++ {
		items, err := r.Rank(seed)
		if err != nil {
			t.Fatalf("Rank(%d) error = %v", seed, err)
		}
		if len(items) != 5 {
			t.Fatalf("Rank(%d) returned %d items, want 5", seed, len(items))
		}
		seen := make(map[int]bool)
		for i, it := range items {
			if seen[it.Index] {
				t.Errorf("Rank(%d) index %d repeated", seed, it.Index)
			}
			seen[it.Index] = true
			if i > 0 && items[i-1].Score < it.Score {
				t.Errorf("Rank(%d) not sorted at %d: %v < %v", seed, i, items[i-1].Score, it.Score)
			}
			if it.ID != int64(100+it.Index) {
				t.Errorf("Rank(%d) item %d has id %d", seed, it.Index, it.ID)
			}
		}
		if items[0].Index != seed {
			t.Errorf("Rank(%d) first = %d, want the seed itself", seed, items[0].Index)
		}
	}
}

func TestRanker_TieBreakByIndex(t *testing.T) {
	r := testRanker(t)
	items, err := r.Rank(0)
	if err != nil {
		t.Fatalf("Rank(0) error = %v", err)
	}
	got := make([]int, len(items))
	for i, it := range items {
		got[i] = it.Index
	}
	// 下标 1 与 3 的分数都是 0.8，下标小的在前
	want := []int{0, 1, 3, 2, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Rank(0) order = %v, want %v", got, want)
		}
	}
}

func TestRanker_RankWithin(t *testing.T) {
	r := testRanker(t)
	items, err := r.RankWithin(2, []int{0, 3, 4})
	if err != nil {
		t.Fatalf("RankWithin() error = %v", err)
	}
	if len(items) != 3 || items[0].Index != 4 || items[1].Index != 3 || items[2].Index != 0 {
		t.Errorf("RankWithin() = %v", items)
	}

	if _, err := r.RankWithin(2, []int{7}); !core.IsUnknownItem(err) {
		t.Errorf("RankWithin() with bad domain error = %v, want UNKNOWN_ITEM", err)
	}
}

func TestRanker_UnknownSeed(t *testing.T) {
	r := testRanker(t)
	for _, seed := range []int{-1, 5} {
		if _, err := r.Rank(seed); !core.IsUnknownItem(err) {
			t.Errorf("Rank(%d) error = %v, want UNKNOWN_ITEM", seed, err)
		}
	}
}

func TestItemSimilarity_Labels(t *testing.T) {
	src := &ItemSimilarity{Ranker: testRanker(t), SeedIndex: 1, SeedName: "B"}
	items, err := src.Process(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	for _, it := range items {
		if it.Labels["seed"].Value != "B" {
			t.Errorf("item %d seed label = %q, want B", it.Index, it.Labels["seed"].Value)
		}
	}
}

type errNode struct{}

func (errNode) Name() string        { return "test.err" }
func (errNode) Kind() pipeline.Kind { return pipeline.KindRecall }
func (errNode) Process(context.Context, *core.RecommendContext, []*core.Item) ([]*core.Item, error) {
	return nil, errors.New("boom")
}

func TestSeedFanout_PreservesOrder(t *testing.T) {
	r := testRanker(t)
	pipelines := []*pipeline.Pipeline{
		{Nodes: []pipeline.Node{&ItemSimilarity{Ranker: r, SeedIndex: 4}}},
		{Nodes: []pipeline.Node{errNode{}}},
		{Nodes: []pipeline.Node{&ItemSimilarity{Ranker: r, SeedIndex: 2}}},
	}

	for _, f := range []*SeedFanout{{}, {MaxConcurrent: 1}, {Sequential: true}} {
		results := f.Run(context.Background(), nil, pipelines)
		if len(results) != 3 {
			t.Fatalf("Run() returned %d results", len(results))
		}
		if results[0].Err != nil || results[0].Items[0].Index != 4 {
			t.Errorf("result 0 = %+v, want seed 4 first", results[0])
		}
		if results[1].Err == nil {
			t.Error("result 1 should carry the node error")
		}
		if results[2].Err != nil || results[2].Items[0].Index != 2 {
			t.Errorf("result 2 = %+v, want seed 2 first", results[2])
		}
	}
}
