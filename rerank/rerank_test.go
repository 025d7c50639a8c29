package rerank

import (
	"context"
	"testing"

	"github.com/rushteam/playful/core"
)

func names(items []*core.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func TestTopNNode(t *testing.T) {
	items := []*core.Item{core.NewItem(1, "a", 0), core.NewItem(2, "b", 1), core.NewItem(3, "c", 2)}
	tests := []struct {
		n    int
		want int
	}{
		{0, 3}, {-1, 3}, {2, 2}, {3, 3}, {10, 3},
	}
	for _, tt := range tests {
		out, err := (&TopNNode{N: tt.n}).Process(context.Background(), nil, items)
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		if len(out) != tt.want {
			t.Errorf("TopN(%d) returned %d items, want %d", tt.n, len(out), tt.want)
		}
	}
}

func TestDedupNode(t *testing.T) {
	items := []*core.Item{
		core.NewItem(1, "a", 0),
		core.NewItem(2, "b", 1),
		core.NewItem(3, "c", 2),
		core.NewItem(2, "b", 1),
	}
	selected := Selected{}.With([]*core.Item{core.NewItem(1, "a", 0)})

	out, err := (&DedupNode{Selected: selected}).Process(context.Background(), nil, items)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	got := names(out)
	if len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Errorf("Process() = %v, want [b c]", got)
	}
}

func TestSelected_WithIsPure(t *testing.T) {
	base := Selected{"a": {}}
	next := base.With([]*core.Item{core.NewItem(2, "b", 1)})
	if base.Has("b") {
		t.Error("With() mutated the original set")
	}
	if !next.Has("a") || !next.Has("b") {
		t.Errorf("With() = %v", next)
	}

	var empty Selected
	if empty.Has("a") {
		t.Error("nil Selected should be empty")
	}
}
